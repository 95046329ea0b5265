// Package triage turns free-text symptom descriptions into a risk tier and a
// bounded set of recommendations. Classification is deterministic keyword
// matching over a fixed taxonomy; there is no language model involved.
package triage

import (
	"strings"

	"github.com/mayra0000/ETSChatbot/internal/session"
)

// Result is the outcome of one classification.
type Result struct {
	Risk            session.RiskLevel
	Assessment      string
	Recommendations []string
	Conditions      []string
}

// Classify analyzes symptomText and returns the risk tier, the assessment
// message bound to that tier, and up to three recommendations and three
// unique candidate conditions. It is pure: identical input always yields
// identical output. The profile is part of the signature for future taxonomy
// extensions and does not affect the baseline score.
func Classify(symptomText string, profile *session.UserProfile) Result {
	_ = profile
	text := strings.ToLower(strings.TrimSpace(symptomText))

	var present []string
	for _, cat := range categoryOrder {
		if containsAny(text, categoryKeywords[cat]) {
			present = append(present, cat)
		}
	}

	score := 0
	for _, band := range severityBands {
		if containsAny(text, band.keywords) {
			score += band.weight
		}
	}

	// Category count and severity score are independent triggers; either one
	// alone can escalate the tier. Preserved from the source behavior even
	// though a single strong keyword reaching "high" with zero matched
	// categories is arguably a product-logic bug.
	var risk session.RiskLevel
	switch {
	case score >= highScoreThreshold || len(present) >= highCategoryThreshold:
		risk = session.RiskHigh
	case score >= mediumScoreThreshold || len(present) >= mediumCategoryThreshold:
		risk = session.RiskMedium
	default:
		risk = session.RiskLow
	}

	recs := newOrderedSet(maxRecommendations)
	conds := newOrderedSet(maxConditions)
	for _, cat := range present {
		for _, r := range categoryRecommendations[cat] {
			recs.add(r)
		}
		for _, c := range categoryConditions[cat] {
			conds.add(c)
		}
	}
	if len(present) == 0 {
		recs.add(fallbackRecommendation)
		conds.add(fallbackCondition)
	}

	return Result{
		Risk:            risk,
		Assessment:      assessmentMessages[risk],
		Recommendations: recs.values(),
		Conditions:      conds.values(),
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// orderedSet keeps insertion order, drops duplicates, and stops accepting
// entries once the cap is reached. Deduplication happens before truncation.
type orderedSet struct {
	cap  int
	seen map[string]struct{}
	out  []string
}

func newOrderedSet(cap int) *orderedSet {
	return &orderedSet{cap: cap, seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if _, dup := s.seen[v]; dup {
		return
	}
	s.seen[v] = struct{}{}
	if len(s.out) < s.cap {
		s.out = append(s.out, v)
	}
}

func (s *orderedSet) values() []string {
	return s.out
}
