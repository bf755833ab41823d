package domain

import "time"

// RhythmLabels lists the seasonal phase labels in canonical order.
var RhythmLabels = [4]string{"显化", "涵育", "敛藏", "归元"}

// DefaultRhythm wins ties between equally weighted rhythm tallies.
const DefaultRhythm = "涵育"

// RhythmVector tallies seasonal/temporal phases.
type RhythmVector [4]float64

// Dominant returns the label with the largest tally. Ties resolve to DefaultRhythm
// when it is among the tied maxima, otherwise to the first tied label.
func (v RhythmVector) Dominant() string {
	best := -1
	for i, x := range v {
		if best < 0 || x > v[best] {
			best = i
		}
	}
	for i, label := range RhythmLabels {
		if label == DefaultRhythm && v[i] == v[best] {
			return DefaultRhythm
		}
	}
	return RhythmLabels[best]
}

// IsZero reports whether nothing was tallied.
func (v RhythmVector) IsZero() bool {
	return v == RhythmVector{}
}

// Map returns the tallies keyed by label.
func (v RhythmVector) Map() map[string]float64 {
	out := make(map[string]float64, len(v))
	for i, label := range RhythmLabels {
		out[label] = v[i]
	}
	return out
}

// RhythmForMonth returns the seasonal rhythm of a calendar month.
func RhythmForMonth(m time.Month) string {
	switch {
	case m >= time.March && m <= time.May:
		return "显化"
	case m >= time.June && m <= time.August:
		return "涵育"
	case m >= time.September && m <= time.November:
		return "敛藏"
	default:
		return "归元"
	}
}

// BreathPhase is a coarse five-step seasonal cycle used to gate active guidance.
type BreathPhase string

const (
	PhaseSprout  BreathPhase = "生"
	PhaseGrow    BreathPhase = "长"
	PhaseHarvest BreathPhase = "收"
	PhaseStore   BreathPhase = "藏"
	PhaseRest    BreathPhase = "伏"
)

// PhaseAt returns the breath phase for t.
func PhaseAt(t time.Time) BreathPhase {
	switch m := t.Month(); {
	case m >= time.March && m <= time.May:
		return PhaseSprout
	case m >= time.June && m <= time.August:
		return PhaseGrow
	case m == time.September || m == time.October:
		return PhaseHarvest
	case m == time.November || m == time.December || m == time.January:
		return PhaseStore
	default:
		return PhaseRest
	}
}

// IsSilent reports whether active guidance should be withheld during the phase.
func (p BreathPhase) IsSilent() bool {
	return p == PhaseStore || p == PhaseRest
}
