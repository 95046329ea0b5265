package engine

import (
	"strconv"
	"strings"

	"github.com/mayra0000/ETSChatbot/internal/session"
	"github.com/mayra0000/ETSChatbot/internal/triage"
)

// Canonical gender labels for the fixed button set. "Other" routes through
// one more free-text round instead.
var genderButtons = map[string]string{
	BtnGenderMale:      "masculino",
	BtnGenderFemale:    "femenino",
	BtnGenderNonbinary: "no binario",
}

// AppointmentTypes maps the appointment button suffix to its display label.
// Exported for the presentation layer, which renders the selection menu.
var AppointmentTypes = map[string]string{
	"general": "Consulta general",
	"test":    "Prueba de ETS",
	"urgent":  "Atención urgente",
}

const (
	pendingGenderOther     = "gender_other"
	pendingAppointmentType = "appointment_type"
)

func (e *Engine) handleIdle(sess *session.Session, prof *session.UserProfile, ev Event) Directive {
	switch ev := ev.(type) {
	case Command:
		if normalizeCommand(ev.Name) == "start" {
			return e.beginAssessment(sess, prof, true)
		}
		return e.fallback()
	case Button:
		return e.handleIdleButton(sess, prof, ev.ID)
	case Text:
		// Free text outside a flow: point back at the menu.
		return e.fallback()
	case Location:
		return e.clinicsNear(ev.Lat, ev.Lon)
	}
	return e.fallback()
}

func (e *Engine) handleIdleButton(sess *session.Session, prof *session.UserProfile, id string) Directive {
	switch id {
	case BtnMenu:
		return ShowMenu{MenuID: MenuMain}
	case BtnSymptoms, "start_assessment":
		return e.beginAssessment(sess, prof, false)
	case BtnInfo:
		return ShowMenu{MenuID: MenuInfo}
	case BtnCenters:
		return ShowMessage{TemplateID: TplClinics, Params: map[string]any{
			"cities": e.catalog.Cities(),
		}}
	case BtnLocateClinics:
		return RequestLocation{}
	case BtnEmergency:
		return ShowMessage{TemplateID: TplEmergency, Params: map[string]any{
			"number": e.catalog.EmergencyNumber(),
		}}
	case BtnAppointment, "book_appointment":
		sess.CurrentState = session.StateAppointmentBooking
		return ShowMenu{MenuID: MenuAppointment}
	case BtnProfile:
		return ShowMessage{TemplateID: TplProfile, Params: map[string]any{
			"age":    prof.Age,
			"gender": prof.Gender,
			"risk":   string(prof.RiskLevel),
		}}
	case BtnEditProfile:
		// Re-run the profile questions. Risk history stays; the stored age
		// and gender are only overwritten by newly validated answers.
		sess.CurrentState = session.StateAskingAge
		return ShowMessage{TemplateID: TplAskAge}
	case BtnFeedback:
		sess.CurrentState = session.StateFeedbackRating
		return ShowMenu{MenuID: MenuFeedback}
	}
	if key, ok := strings.CutPrefix(id, infoButtonPrefix); ok {
		return e.diseaseInfo(key)
	}
	// Unknown callback IDs must never surface an internal error.
	return e.fallback()
}

// beginAssessment routes to the first unmet profile field, or straight to
// the symptom question when the profile is complete.
func (e *Engine) beginAssessment(sess *session.Session, prof *session.UserProfile, welcome bool) Directive {
	switch {
	case prof.Age == 0:
		sess.CurrentState = session.StateAskingAge
		if welcome {
			return ShowMessage{TemplateID: TplWelcome}
		}
		return ShowMessage{TemplateID: TplAskAge}
	case prof.Gender == "":
		sess.CurrentState = session.StateAskingGender
		return ShowMenu{MenuID: MenuGender}
	default:
		sess.CurrentState = session.StateSymptomDetail
		return ShowMessage{TemplateID: TplAskSymptoms}
	}
}

func (e *Engine) handleAskingAge(sess *session.Session, prof *session.UserProfile, ev Event) Directive {
	text, ok := ev.(Text)
	if !ok {
		return e.fallback()
	}
	age, err := parseAge(text.Content)
	if err != nil {
		// Recovered locally: re-prompt, same state, no profile mutation.
		e.log.Debugw("age rejected", "user_id", sess.UserID, "reason", err)
		return ShowMessage{TemplateID: TplInvalidAge}
	}
	prof.Age = age
	sess.CurrentState = session.StateAskingGender
	return ShowMenu{MenuID: MenuGender}
}

func parseAge(raw string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, invalidInput("age", "not a number")
	}
	if age < session.AgeMin || age > session.AgeMax {
		return 0, invalidInput("age", "out of range")
	}
	return age, nil
}

func (e *Engine) handleAskingGender(sess *session.Session, prof *session.UserProfile, ev Event) Directive {
	switch ev := ev.(type) {
	case Button:
		if label, ok := genderButtons[ev.ID]; ok {
			prof.Gender = label
			sess.CurrentState = session.StateSymptomDetail
			return ShowMessage{TemplateID: TplAskSymptoms}
		}
		if ev.ID == BtnGenderOther {
			sess.SetPending(pendingGenderOther, "1")
			return ShowMessage{TemplateID: TplAskGenderOther}
		}
		return e.fallback()
	case Text:
		if _, pending := sess.Pending(pendingGenderOther); pending {
			// Free text after "other" is stored verbatim.
			prof.Gender = ev.Content
			sess.ClearPending()
			sess.CurrentState = session.StateSymptomDetail
			return ShowMessage{TemplateID: TplAskSymptoms}
		}
		if label, ok := genderFromText(ev.Content); ok {
			prof.Gender = label
			sess.CurrentState = session.StateSymptomDetail
			return ShowMessage{TemplateID: TplAskSymptoms}
		}
		return ShowMenu{MenuID: MenuGender}
	}
	return e.fallback()
}

func genderFromText(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "masculino", "hombre", "male":
		return "masculino", true
	case "femenino", "mujer", "female":
		return "femenino", true
	case "no binario", "nobinario", "nonbinary":
		return "no binario", true
	}
	return "", false
}

func (e *Engine) handleSymptomDetail(sess *session.Session, prof *session.UserProfile, ev Event) Directive {
	text, ok := ev.(Text)
	if !ok {
		return e.fallback()
	}
	if strings.TrimSpace(text.Content) == "" {
		return ShowMessage{TemplateID: TplEmptySymptoms}
	}

	prof.RecordSymptoms(text.Content)
	res := triage.Classify(text.Content, prof)
	prof.RiskLevel = res.Risk
	e.metrics.AssessmentsTotal.WithLabelValues(string(res.Risk)).Inc()

	// Assessment delivered; the follow-up buttons on the message feed the
	// risk-assessment callback state.
	sess.CurrentState = session.StateRiskAssessment
	return ShowMessage{TemplateID: TplAssessment, Params: map[string]any{
		"risk":            string(res.Risk),
		"assessment":      res.Assessment,
		"recommendations": res.Recommendations,
		"conditions":      res.Conditions,
	}}
}

// handleRiskAssessment covers the window right after an assessment: the user
// can rate the bot, jump into the feedback menu, or refine the symptom text
// for a new assessment.
func (e *Engine) handleRiskAssessment(sess *session.Session, prof *session.UserProfile, ev Event) Directive {
	switch ev := ev.(type) {
	case Button:
		if ev.ID == BtnFeedback {
			sess.CurrentState = session.StateFeedbackRating
			return ShowMenu{MenuID: MenuFeedback}
		}
		if rating, ok := parseRating(ev.ID); ok {
			return e.storeRating(sess, prof, rating)
		}
		return e.fallback()
	case Text:
		return e.handleSymptomDetail(sess, prof, ev)
	}
	return e.fallback()
}

func (e *Engine) handleAppointmentBooking(sess *session.Session, prof *session.UserProfile, ev Event) Directive {
	switch ev := ev.(type) {
	case Button:
		if typ, ok := strings.CutPrefix(ev.ID, apptButtonPrefix); ok {
			if _, known := AppointmentTypes[typ]; known {
				sess.SetPending(pendingAppointmentType, typ)
				return ShowMessage{TemplateID: TplAppointmentNote}
			}
		}
		return e.fallback()
	case Text:
		if typ, ok := sess.Pending(pendingAppointmentType); ok {
			sess.ClearPending()
			sess.CurrentState = session.StateIdle
			return ShowMessage{TemplateID: TplAppointmentConfirmed, Params: map[string]any{
				"type": typ,
				"note": strings.TrimSpace(ev.Content),
			}}
		}
		if typ, ok := appointmentFromText(ev.Content); ok {
			sess.SetPending(pendingAppointmentType, typ)
			return ShowMessage{TemplateID: TplAppointmentNote}
		}
		return ShowMenu{MenuID: MenuAppointment}
	}
	return e.fallback()
}

func appointmentFromText(raw string) (string, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	for typ, label := range AppointmentTypes {
		if text == typ || text == strings.ToLower(label) {
			return typ, true
		}
	}
	return "", false
}

func (e *Engine) handleFeedbackRating(sess *session.Session, prof *session.UserProfile, ev Event) Directive {
	btn, ok := ev.(Button)
	if !ok {
		return ShowMenu{MenuID: MenuFeedback}
	}
	rating, ok := parseRating(btn.ID)
	if !ok {
		return e.fallback()
	}
	return e.storeRating(sess, prof, rating)
}

func (e *Engine) storeRating(sess *session.Session, prof *session.UserProfile, rating int) Directive {
	prof.LastRating = rating
	sess.CurrentState = session.StateIdle
	sess.ClearPending()
	return ShowMessage{TemplateID: TplFeedbackThanks}
}

// parseRating accepts the closed rate_1..rate_5 button set.
func parseRating(id string) (int, bool) {
	raw, ok := strings.CutPrefix(id, rateButtonPrefix)
	if !ok {
		return 0, false
	}
	rating, err := strconv.Atoi(raw)
	if err != nil || rating < 1 || rating > 5 {
		return 0, false
	}
	return rating, true
}

func (e *Engine) diseaseInfo(key string) Directive {
	d, ok := e.catalog.Disease(key)
	if !ok {
		// Lookup miss: tell the user, leave the session alone.
		return ShowMessage{TemplateID: TplNotFound}
	}
	return ShowMessage{TemplateID: TplDiseaseInfo, Params: map[string]any{
		"key":      d.Key,
		"name":     d.Name,
		"symptoms": d.Symptoms,
		"info":     d.Info,
	}}
}

func (e *Engine) clinicsNear(lat, lon float64) Directive {
	city, ok := e.catalog.NearestCity(lat, lon)
	if !ok {
		// No city in range: fall back to the full listing.
		return ShowMessage{TemplateID: TplClinics, Params: map[string]any{
			"cities": e.catalog.Cities(),
		}}
	}
	clinics, _ := e.catalog.Clinics(city.Key)
	return ShowMessage{TemplateID: TplClinics, Params: map[string]any{
		"city":    city.Name,
		"clinics": clinics,
	}}
}
