// Package engine implements the conversation core: the dialogue state
// machine and the event router that feeds it. The engine consumes abstract
// events and emits abstract directives; it never talks to the chat platform
// and never formats display strings.
package engine

import (
	"strings"

	"github.com/mayra0000/ETSChatbot/internal/content"
	"github.com/mayra0000/ETSChatbot/internal/metrics"
	"github.com/mayra0000/ETSChatbot/internal/session"
	"github.com/mayra0000/ETSChatbot/pkg/logger"
)

// Catalog is the reference-content collaborator the engine reads from.
type Catalog interface {
	Disease(key string) (content.Disease, bool)
	Diseases() []content.Disease
	Clinics(cityKey string) ([]content.Clinic, bool)
	Cities() []content.City
	NearestCity(lat, lon float64) (content.City, bool)
	EmergencyNumber() string
}

type handlerFunc func(*session.Session, *session.UserProfile, Event) Directive

// Engine routes inbound events through the dialogue state machine.
type Engine struct {
	store    *session.Store
	catalog  Catalog
	log      *logger.Logger
	metrics  *metrics.Metrics
	handlers map[session.State]handlerFunc
}

func New(store *session.Store, catalog Catalog, log *logger.Logger, m *metrics.Metrics) *Engine {
	e := &Engine{
		store:   store,
		catalog: catalog,
		log:     log,
		metrics: m,
	}
	e.handlers = map[session.State]handlerFunc{
		session.StateIdle:               e.handleIdle,
		session.StateAskingAge:          e.handleAskingAge,
		session.StateAskingGender:       e.handleAskingGender,
		session.StateSymptomDetail:      e.handleSymptomDetail,
		session.StateRiskAssessment:     e.handleRiskAssessment,
		session.StateAppointmentBooking: e.handleAppointmentBooking,
		session.StateFeedbackRating:     e.handleFeedbackRating,
	}
	return e
}

// Route processes one inbound event for one user and returns the directive
// the presentation layer should render. Events for the same user are applied
// in order under the store's per-user serialization; every routed event bumps
// the interaction counter exactly once, whatever the outcome.
func (e *Engine) Route(userID int64, ev Event) Directive {
	e.metrics.EventsTotal.WithLabelValues(ev.Kind()).Inc()

	var out Directive
	e.store.Update(userID, func(sess *session.Session, prof *session.UserProfile) {
		out = e.dispatch(sess, prof, ev)
	})
	if out == nil {
		out = NoOp{}
	}

	e.metrics.DirectivesTotal.WithLabelValues(out.Type()).Inc()
	e.log.Debugw("routed event", "user_id", userID, "event", ev.Kind(), "directive", out.Type())
	return out
}

func (e *Engine) dispatch(sess *session.Session, prof *session.UserProfile, ev Event) Directive {
	// Global commands short-circuit the state machine. Cancel resets to idle;
	// help and emergency leave the dialogue position untouched.
	if cmd, ok := ev.(Command); ok {
		switch normalizeCommand(cmd.Name) {
		case "help":
			return ShowMessage{TemplateID: TplHelp}
		case "emergency":
			return ShowMessage{TemplateID: TplEmergency, Params: map[string]any{
				"number": e.catalog.EmergencyNumber(),
			}}
		case "cancel":
			sess.CurrentState = session.StateIdle
			sess.ClearPending()
			return ShowMessage{TemplateID: TplCancelled}
		}
		// Any other command re-enters the machine from idle, abandoning
		// whatever flow was active.
		if sess.CurrentState != session.StateIdle {
			sess.CurrentState = session.StateIdle
			sess.ClearPending()
		}
	}

	// Menu navigation pre-empts an in-flight question flow: a navigation
	// button arriving while a question is pending resets the session to idle
	// and is then dispatched normally, instead of being rejected as invalid
	// input for the question.
	if btn, ok := ev.(Button); ok && sess.CurrentState != session.StateIdle && isMenuNavigation(btn.ID) {
		sess.CurrentState = session.StateIdle
		sess.ClearPending()
		return e.handleIdle(sess, prof, btn)
	}

	handler, ok := e.handlers[sess.CurrentState]
	if !ok {
		// A state outside the enum should be unreachable; recover by
		// resetting rather than surfacing an internal error.
		e.log.Warnw("session in unknown state, resetting", "user_id", sess.UserID, "state", sess.CurrentState)
		sess.CurrentState = session.StateIdle
		sess.ClearPending()
		return e.fallback()
	}
	return handler(sess, prof, ev)
}

// fallback is the "didn't understand, showing menu" directive. It never
// advances session state.
func (e *Engine) fallback() Directive {
	return ShowMenu{MenuID: MenuMain, Context: map[string]string{"notice": "unrecognized"}}
}

func normalizeCommand(name string) string {
	switch strings.ToLower(name) {
	case "ayuda", "help":
		return "help"
	case "emergencia", "emergency":
		return "emergency"
	case "cancelar", "cancel":
		return "cancel"
	case "start":
		return "start"
	}
	return strings.ToLower(name)
}

// isMenuNavigation reports whether a callback ID belongs to the menu tree
// rather than to an in-flow answer (gender_*, appt_*, rate_*, feedback).
func isMenuNavigation(id string) bool {
	switch id {
	case BtnMenu, BtnSymptoms, "start_assessment", BtnInfo, BtnCenters,
		BtnLocateClinics, BtnEmergency, BtnAppointment, "book_appointment",
		BtnProfile, BtnEditProfile:
		return true
	}
	return strings.HasPrefix(id, infoButtonPrefix)
}
