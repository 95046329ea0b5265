package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayra0000/ETSChatbot/internal/session"
)

func TestCancelFromAnyNonIdleState(t *testing.T) {
	enterState := map[session.State]func(e *Engine, user int64){
		session.StateAskingAge: func(e *Engine, user int64) {
			e.Route(user, Command{Name: "start"})
		},
		session.StateAskingGender: func(e *Engine, user int64) {
			e.Route(user, Command{Name: "start"})
			e.Route(user, Text{Content: "25"})
		},
		session.StateSymptomDetail: func(e *Engine, user int64) {
			e.Route(user, Command{Name: "start"})
			e.Route(user, Text{Content: "25"})
			e.Route(user, Button{ID: BtnGenderMale})
		},
		session.StateRiskAssessment: func(e *Engine, user int64) {
			runAssessment(t, e, user)
		},
		session.StateAppointmentBooking: func(e *Engine, user int64) {
			e.Route(user, Button{ID: BtnAppointment})
		},
		session.StateFeedbackRating: func(e *Engine, user int64) {
			runAssessment(t, e, user)
			e.Route(user, Button{ID: BtnFeedback})
		},
	}

	for state, enter := range enterState {
		t.Run(string(state), func(t *testing.T) {
			e, store := newTestEngine(t)
			enter(e, 1)
			require.Equal(t, state, stateOf(store, 1))
			before := store.GetOrCreateProfile(1)

			d := e.Route(1, Command{Name: "cancelar"})
			msg, ok := d.(ShowMessage)
			require.True(t, ok)
			assert.Equal(t, TplCancelled, msg.TemplateID)

			sess := store.GetOrCreateSession(1)
			assert.Equal(t, session.StateIdle, sess.CurrentState)
			assert.Empty(t, sess.PendingContext)
			assert.Equal(t, before, store.GetOrCreateProfile(1), "cancel must not touch the profile")
		})
	}
}

func TestMenuButtonPreemptsQuestionFlow(t *testing.T) {
	e, store := newTestEngine(t)
	e.Route(1, Command{Name: "start"})
	require.Equal(t, session.StateAskingAge, stateOf(store, 1))

	// A navigation button while a question is pending resets to idle and is
	// dispatched normally, not rejected as an invalid answer.
	d := e.Route(1, Button{ID: BtnMenu})
	menu, ok := d.(ShowMenu)
	require.True(t, ok)
	assert.Equal(t, MenuMain, menu.MenuID)
	assert.Empty(t, menu.Context, "no validation complaint for the abandoned age prompt")
	assert.Equal(t, session.StateIdle, stateOf(store, 1))
}

func TestMenuPreemptionIntoNewFlow(t *testing.T) {
	e, store := newTestEngine(t)
	e.Route(1, Command{Name: "start"})

	// Jumping from the age question straight into appointment booking.
	d := e.Route(1, Button{ID: BtnAppointment})
	menu, ok := d.(ShowMenu)
	require.True(t, ok)
	assert.Equal(t, MenuAppointment, menu.MenuID)
	assert.Equal(t, session.StateAppointmentBooking, stateOf(store, 1))
}

func TestInteractionCountMonotonic(t *testing.T) {
	e, store := newTestEngine(t)

	events := []Event{
		Command{Name: "start"},
		Text{Content: "not a number"}, // rejected
		Text{Content: "25"},
		Button{ID: "bogus_button"}, // unrecognized
		Button{ID: BtnGenderFemale},
		Text{Content: "   "}, // empty symptoms, rejected
		Text{Content: "dolor"},
		Command{Name: "cancelar"},
	}
	for _, ev := range events {
		e.Route(1, ev)
	}

	assert.Equal(t, len(events), store.GetOrCreateSession(1).InteractionCount,
		"every routed event counts exactly once, valid or not")
}

func TestUnknownButtonFallsBackWithoutStateChange(t *testing.T) {
	e, store := newTestEngine(t)
	e.Route(1, Command{Name: "start"})
	e.Route(1, Text{Content: "25"})
	require.Equal(t, session.StateAskingGender, stateOf(store, 1))

	d := e.Route(1, Button{ID: "totally_unknown"})
	menu, ok := d.(ShowMenu)
	require.True(t, ok)
	assert.Equal(t, MenuMain, menu.MenuID)
	assert.Equal(t, "unrecognized", menu.Context["notice"])
	assert.Equal(t, session.StateAskingGender, stateOf(store, 1))
}

func TestHelpAndEmergencyLeaveStateUnchanged(t *testing.T) {
	e, store := newTestEngine(t)
	e.Route(1, Command{Name: "start"})

	d := e.Route(1, Command{Name: "ayuda"})
	msg, ok := d.(ShowMessage)
	require.True(t, ok)
	assert.Equal(t, TplHelp, msg.TemplateID)
	assert.Equal(t, session.StateAskingAge, stateOf(store, 1))

	d = e.Route(1, Command{Name: "emergencia"})
	msg, ok = d.(ShowMessage)
	require.True(t, ok)
	assert.Equal(t, TplEmergency, msg.TemplateID)
	assert.Equal(t, "911", msg.Params["number"])
	assert.Equal(t, session.StateAskingAge, stateOf(store, 1))
}

func TestStartPreemptsActiveFlow(t *testing.T) {
	e, store := newTestEngine(t)
	e.Route(1, Button{ID: BtnAppointment})
	e.Route(1, Button{ID: "appt_general"})

	d := e.Route(1, Command{Name: "start"})
	msg, ok := d.(ShowMessage)
	require.True(t, ok)
	assert.Equal(t, TplWelcome, msg.TemplateID)

	sess := store.GetOrCreateSession(1)
	assert.Equal(t, session.StateAskingAge, sess.CurrentState)
	assert.Empty(t, sess.PendingContext)
}

func TestFreeTextWhileIdleShowsMenu(t *testing.T) {
	e, store := newTestEngine(t)

	d := e.Route(1, Text{Content: "hola"})
	menu, ok := d.(ShowMenu)
	require.True(t, ok)
	assert.Equal(t, MenuMain, menu.MenuID)
	assert.Equal(t, session.StateIdle, stateOf(store, 1))
}

func TestUnknownCommandFallsBack(t *testing.T) {
	e, _ := newTestEngine(t)

	d := e.Route(1, Command{Name: "recetas"})
	menu, ok := d.(ShowMenu)
	require.True(t, ok)
	assert.Equal(t, MenuMain, menu.MenuID)
}

func TestUsersDoNotShareSessions(t *testing.T) {
	e, store := newTestEngine(t)
	e.Route(1, Command{Name: "start"})
	e.Route(2, Button{ID: BtnAppointment})

	assert.Equal(t, session.StateAskingAge, stateOf(store, 1))
	assert.Equal(t, session.StateAppointmentBooking, stateOf(store, 2))
}

func TestRequestLocationDirective(t *testing.T) {
	e, _ := newTestEngine(t)

	d := e.Route(1, Button{ID: BtnLocateClinics})
	_, ok := d.(RequestLocation)
	assert.True(t, ok)
}
