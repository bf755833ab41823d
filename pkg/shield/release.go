package shield

import (
	"strings"
	"unicode/utf8"

	"github.com/aretw0/qiscreen/pkg/domain"
)

const (
	minGroundingAnswers = 2
	minPatternRunes     = 6
	minConcreteActions  = 2
	safePresenceAtLeast = 0.30
	safeBoundlessAtMost = 0.65
	safeInsightAtLeast  = 0.20
	safeMirroringAtMost = 0.70
	safeFlowAtLeast     = 0.25
)

// CanRelease reports whether a shield may be cleared. Both the recorded remediation action
// and the breath band must hold. Unknown shield IDs never release.
func CanRelease(id domain.ShieldID, b domain.Breath, actions domain.UserActions) bool {
	switch id {
	case domain.Shield1:
		return countNonBlank(actions.GroundingAnswers) >= minGroundingAnswers &&
			b.Presence >= safePresenceAtLeast && b.Boundlessness <= safeBoundlessAtMost
	case domain.Shield2:
		return utf8.RuneCountInString(strings.TrimSpace(actions.PatternStatement)) >= minPatternRunes &&
			b.Insight >= safeInsightAtLeast
	case domain.Shield3:
		return actions.BoundarySet &&
			b.Mirroring <= safeMirroringAtMost && b.Flow >= safeFlowAtLeast
	case domain.Shield4:
		return countNonBlank(actions.ConcreteActions) >= minConcreteActions &&
			b.Presence >= safePresenceAtLeast && b.Boundlessness <= safeBoundlessAtMost
	default:
		return false
	}
}

// ActionMet reports whether only the remediation action of a shield is satisfied.
// Clients use it to tell the user which half of the release condition is still missing.
func ActionMet(id domain.ShieldID, actions domain.UserActions) bool {
	switch id {
	case domain.Shield1:
		return countNonBlank(actions.GroundingAnswers) >= minGroundingAnswers
	case domain.Shield2:
		return utf8.RuneCountInString(strings.TrimSpace(actions.PatternStatement)) >= minPatternRunes
	case domain.Shield3:
		return actions.BoundarySet
	case domain.Shield4:
		return countNonBlank(actions.ConcreteActions) >= minConcreteActions
	default:
		return false
	}
}

func countNonBlank(items []string) int {
	n := 0
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}
