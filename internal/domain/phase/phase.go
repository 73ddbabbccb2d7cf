// Package phase derives a live match's phase label from its current state.
package phase

import (
	"strings"

	"github.com/okian/matchday/internal/domain/model"
)

// Football clock boundaries in minutes, inclusive.
const (
	firstHalfEnd  = 45
	halftimeEnd   = 50
	secondHalfEnd = 90
)

var (
	inningsBreakMarkers = []string{"innings break", "inn break"}
	sessionBreakMarkers = []string{"stumps", "tea", "lunch"}
)

// Detect returns the phase of m. It is pure and deterministic.
func Detect(m model.Match) model.Phase {
	if m.Sport == model.Football {
		return football(m.FootballDetail())
	}
	return cricket(m.Headline)
}

func football(e *model.FootballExtras) model.Phase {
	if e == nil || e.Minute == nil {
		return model.PhasePreMatch
	}
	switch minute := *e.Minute; {
	case minute <= firstHalfEnd:
		return model.PhaseFirstHalf
	case minute <= halftimeEnd:
		return model.PhaseHalftime
	case minute <= secondHalfEnd:
		return model.PhaseSecondHalf
	default:
		return model.PhaseFullTime
	}
}

func cricket(headline string) model.Phase {
	h := strings.ToLower(headline)
	if containsAny(h, inningsBreakMarkers) {
		return model.PhaseInningsBreak
	}
	if containsAny(h, sessionBreakMarkers) {
		return model.PhaseSessionBreak
	}
	return model.PhaseInPlay
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
