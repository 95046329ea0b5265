package session

import (
	"time"
)

// State identifies the node of the dialogue state machine a session is in.
type State string

const (
	StateIdle               State = "idle"
	StateAskingAge          State = "asking_age"
	StateAskingGender       State = "asking_gender"
	StateSymptomDetail      State = "symptom_detail"
	StateRiskAssessment     State = "risk_assessment_callback"
	StateAppointmentBooking State = "appointment_booking"
	StateFeedbackRating     State = "feedback_rating"
)

// Valid reports whether s is a member of the state enum.
func (s State) Valid() bool {
	switch s {
	case StateIdle, StateAskingAge, StateAskingGender, StateSymptomDetail,
		StateRiskAssessment, StateAppointmentBooking, StateFeedbackRating:
		return true
	}
	return false
}

// RiskLevel is the outcome tier of a symptom assessment.
type RiskLevel string

const (
	RiskUnknown RiskLevel = "unknown"
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
)

const (
	// AgeMin and AgeMax bound the accepted age range.
	AgeMin = 13
	AgeMax = 100

	// SymptomHistoryLimit caps LastSymptoms; older entries are dropped first.
	SymptomHistoryLimit = 10
)

// UserProfile holds the per-user attributes collected across conversations.
// Zero values mean "not set yet" (Age 0, Gender "", LastRating 0).
type UserProfile struct {
	UserID       int64     `json:"user_id"`
	Age          int       `json:"age"`
	Gender       string    `json:"gender"`
	RiskLevel    RiskLevel `json:"risk_level"`
	LastSymptoms []string  `json:"last_symptoms"`
	LastRating   int       `json:"last_rating"`
}

// RecordSymptoms appends raw symptom text to the history, most recent last,
// trimming from the front once the limit is reached.
func (p *UserProfile) RecordSymptoms(text string) {
	p.LastSymptoms = append(p.LastSymptoms, text)
	if len(p.LastSymptoms) > SymptomHistoryLimit {
		p.LastSymptoms = p.LastSymptoms[len(p.LastSymptoms)-SymptomHistoryLimit:]
	}
}

// Session tracks the transient dialogue position of one user.
type Session struct {
	UserID           int64             `json:"user_id"`
	StartedAt        time.Time         `json:"started_at"`
	CurrentState     State             `json:"current_state"`
	InteractionCount int               `json:"interaction_count"`
	PendingContext   map[string]string `json:"pending_context,omitempty"`
}

// SetPending records scratch data needed mid-flow.
func (s *Session) SetPending(key, value string) {
	if s.PendingContext == nil {
		s.PendingContext = make(map[string]string)
	}
	s.PendingContext[key] = value
}

// Pending returns scratch data recorded earlier in the flow.
func (s *Session) Pending(key string) (string, bool) {
	v, ok := s.PendingContext[key]
	return v, ok
}

// ClearPending drops all scratch data, typically on a terminal transition.
func (s *Session) ClearPending() {
	s.PendingContext = nil
}
