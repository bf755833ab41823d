package shield_test

import (
	"testing"

	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/aretw0/qiscreen/pkg/shield"
	"github.com/stretchr/testify/assert"
)

func TestCanRelease(t *testing.T) {
	calm := br(0.5, 0.5, 0.5, 0.5, 0.5)
	tests := []struct {
		name    string
		id      domain.ShieldID
		breath  domain.Breath
		actions domain.UserActions
		want    bool
	}{
		{"Shield1 Released", domain.Shield1, br(0.30, 0.65, 0, 0, 0), domain.UserActions{GroundingAnswers: []string{"脚底很凉", "呼吸变慢"}}, true},
		{"Shield1 One Answer", domain.Shield1, calm, domain.UserActions{GroundingAnswers: []string{"脚底很凉"}}, false},
		{"Shield1 Blank Answers", domain.Shield1, calm, domain.UserActions{GroundingAnswers: []string{"  ", "", "ok"}}, false},
		{"Shield1 Breath Unsafe", domain.Shield1, br(0.29, 0.5, 0, 0, 0), domain.UserActions{GroundingAnswers: []string{"a", "b"}}, false},
		{"Shield2 Released", domain.Shield2, br(0, 0, 0.2, 0, 0), domain.UserActions{PatternStatement: "我总在深夜回消息"}, true},
		{"Shield2 Short Statement", domain.Shield2, calm, domain.UserActions{PatternStatement: "  总是这样  "}, false},
		{"Shield2 Six Runes", domain.Shield2, calm, domain.UserActions{PatternStatement: "我总是先让步"}, true},
		{"Shield2 Insight Low", domain.Shield2, br(0.5, 0.5, 0.19, 0.5, 0.5), domain.UserActions{PatternStatement: "a long enough statement"}, false},
		{"Shield3 Released", domain.Shield3, br(0, 0, 0, 0.25, 0.70), domain.UserActions{BoundarySet: true}, true},
		{"Shield3 No Boundary", domain.Shield3, calm, domain.UserActions{}, false},
		{"Shield3 Mirroring High", domain.Shield3, br(0.5, 0.5, 0.5, 0.5, 0.71), domain.UserActions{BoundarySet: true}, false},
		{"Shield4 Released", domain.Shield4, calm, domain.UserActions{ConcreteActions: []string{"泡茶", "整理桌面"}}, true},
		{"Shield4 Boundless High", domain.Shield4, br(0.5, 0.66, 0.5, 0.5, 0.5), domain.UserActions{ConcreteActions: []string{"泡茶", "整理桌面"}}, false},
		{"Unknown Fails Closed", "Shield_9", calm, domain.UserActions{BoundarySet: true, PatternStatement: "whatever it takes", GroundingAnswers: []string{"a", "b"}, ConcreteActions: []string{"a", "b"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shield.CanRelease(tt.id, tt.breath, tt.actions))
		})
	}
}

// Favourable breath never compensates for a missing action.
func TestCanRelease_ActionRequired(t *testing.T) {
	best := br(1, 0, 1, 1, 0)
	for _, id := range domain.ShieldPriority {
		assert.False(t, shield.CanRelease(id, best, domain.UserActions{}), id)
		assert.False(t, shield.ActionMet(id, domain.UserActions{}), id)
	}
}
