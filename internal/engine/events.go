package engine

// Event is the abstract inbound unit of user interaction. The transport
// adapter builds one of the concrete shapes below from whatever the chat
// platform delivers.
type Event interface {
	Kind() string
}

// Command is a slash-command, e.g. /start or /ayuda.
type Command struct {
	Name string
	Args string
}

// Button is an inline-keyboard press identified by its callback ID.
type Button struct {
	ID string
}

// Text is a free-text message.
type Text struct {
	Content string
}

// Location is a shared geographic position.
type Location struct {
	Lat float64
	Lon float64
}

func (Command) Kind() string  { return "command" }
func (Button) Kind() string   { return "button" }
func (Text) Kind() string     { return "text" }
func (Location) Kind() string { return "location" }

// Directive is the abstract instruction returned to the presentation layer.
// The engine only ever selects template and menu identifiers; rendering the
// final strings and keyboards is the adapter's job.
type Directive interface {
	Type() string
}

// ShowMenu asks the adapter to render the named menu.
type ShowMenu struct {
	MenuID  string
	Context map[string]string
}

// ShowMessage asks the adapter to render the named template with params.
// Param values are strings or string slices; joining lists into display
// text is rendering and stays out of the engine.
type ShowMessage struct {
	TemplateID string
	Params     map[string]any
}

// RequestLocation asks the adapter to prompt the user to share a location.
type RequestLocation struct{}

// NoOp tells the adapter there is nothing to render.
type NoOp struct{}

func (ShowMenu) Type() string        { return "show_menu" }
func (ShowMessage) Type() string     { return "show_message" }
func (RequestLocation) Type() string { return "request_location" }
func (NoOp) Type() string            { return "no_op" }

// Menu identifiers understood by the presentation layer.
const (
	MenuMain        = "main"
	MenuInfo        = "info"
	MenuGender      = "gender"
	MenuAppointment = "appointment"
	MenuFeedback    = "feedback"
)

// Template identifiers understood by the presentation layer.
const (
	TplWelcome              = "welcome"
	TplAskAge               = "ask_age"
	TplInvalidAge           = "invalid_age"
	TplAskGenderOther       = "ask_gender_other"
	TplAskSymptoms          = "ask_symptoms"
	TplEmptySymptoms        = "empty_symptoms"
	TplAssessment           = "assessment"
	TplDiseaseInfo          = "disease_info"
	TplClinics              = "clinics"
	TplAppointmentNote      = "appointment_note"
	TplAppointmentConfirmed = "appointment_confirmed"
	TplFeedbackThanks       = "feedback_thanks"
	TplHelp                 = "help"
	TplEmergency            = "emergency"
	TplCancelled            = "cancelled"
	TplNotFound             = "not_found"
	TplProfile              = "profile"
)

// Callback IDs of the closed button set.
const (
	BtnMenu          = "menu"
	BtnSymptoms      = "symptoms"
	BtnInfo          = "info"
	BtnCenters       = "centers"
	BtnLocateClinics = "locate_clinics"
	BtnEmergency     = "emergency"
	BtnAppointment   = "appointment"
	BtnProfile       = "profile"
	BtnEditProfile   = "edit_profile"

	BtnGenderMale      = "gender_male"
	BtnGenderFemale    = "gender_female"
	BtnGenderNonbinary = "gender_nonbinary"
	BtnGenderOther     = "gender_other"

	BtnFeedback = "feedback"

	infoButtonPrefix = "info_"
	apptButtonPrefix = "appt_"
	rateButtonPrefix = "rate_"
)
