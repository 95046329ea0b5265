package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mayra0000/ETSChatbot/internal/session"
)

func TestClassifyDeterministic(t *testing.T) {
	prof := &session.UserProfile{UserID: 1, Age: 25, Gender: "femenino"}

	first := Classify("me arde y tengo ampollas", prof)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Classify("me arde y tengo ampollas", prof))
	}
	assert.Equal(t, session.RiskMedium, first.Risk, "pain + lesions, no severity keyword")
}

func TestClassifyCategoryCountEscalation(t *testing.T) {
	prof := &session.UserProfile{}

	// Two categories, no severity keywords.
	res := Classify("tengo dolor y flujo anormal", prof)
	assert.Equal(t, session.RiskMedium, res.Risk)

	// Three categories, no severity keywords: category count alone reaches high.
	res = Classify("tengo dolor, flujo y picazón", prof)
	assert.Equal(t, session.RiskHigh, res.Risk)
}

func TestClassifySeverityScoreEscalation(t *testing.T) {
	prof := &session.UserProfile{}

	// A single high-severity keyword with zero matched categories still
	// triggers high via the score path.
	res := Classify("es algo intenso", prof)
	assert.Equal(t, session.RiskHigh, res.Risk)
	assert.Equal(t, []string{fallbackRecommendation}, res.Recommendations)
	assert.Equal(t, []string{fallbackCondition}, res.Conditions)

	// Bands accumulate: medium (+2) and low (+1) together reach the high
	// threshold even with only two categories present.
	res = Classify("dolor fuerte y leve picazón", prof)
	assert.Equal(t, session.RiskHigh, res.Risk)
}

func TestClassifyMediumViaScoreAlone(t *testing.T) {
	res := Classify("una molestia constante", &session.UserProfile{})
	assert.Equal(t, session.RiskMedium, res.Risk, "one medium keyword, zero categories")
}

func TestClassifyLowFallback(t *testing.T) {
	res := Classify("quisiera información general", &session.UserProfile{})
	assert.Equal(t, session.RiskLow, res.Risk)
	assert.Equal(t, []string{fallbackRecommendation}, res.Recommendations)
	assert.Equal(t, []string{fallbackCondition}, res.Conditions)
	assert.NotEmpty(t, res.Assessment)
}

func TestClassifyConditionsDedupedBeforeTruncation(t *testing.T) {
	// Pain and discharge share Clamidia and Gonorrea; the duplicates must not
	// consume slots in the three-entry cap.
	res := Classify("dolor al orinar y secreción", &session.UserProfile{})
	assert.Equal(t, []string{"Clamidia", "Gonorrea", "Tricomoniasis"}, res.Conditions)
}

func TestClassifyCapsRecommendations(t *testing.T) {
	res := Classify("dolor, secreción, ampollas, picazón y fiebre", &session.UserProfile{})
	assert.Equal(t, session.RiskHigh, res.Risk)
	assert.Len(t, res.Recommendations, 3)
	assert.Len(t, res.Conditions, 3)
}

func TestClassifyAssessmentBoundToTier(t *testing.T) {
	for text, want := range map[string]session.RiskLevel{
		"es algo intenso":       session.RiskHigh,
		"me arde y tengo flujo": session.RiskMedium,
		"sin síntomas claros":   session.RiskLow,
	} {
		res := Classify(text, &session.UserProfile{})
		assert.Equal(t, want, res.Risk, text)
		assert.Equal(t, assessmentMessages[want], res.Assessment, text)
	}
}

func TestOrderedSet(t *testing.T) {
	s := newOrderedSet(2)
	s.add("a")
	s.add("b")
	s.add("a") // duplicate, ignored
	s.add("c") // over cap, dropped
	assert.Equal(t, []string{"a", "b"}, s.values())
}
