package shield

import (
	"math"

	"github.com/aretw0/qiscreen/pkg/domain"
)

// Activation thresholds.
const (
	bypassPresenceBelow   = 0.25
	bypassBoundlessAbove  = 0.60
	blindInsightBelow     = 0.15
	exhaustMirroringAbove = 0.75
	exhaustFlowBelow      = 0.20
	voidBoundlessAbove    = 0.70
	voidPresenceBelow     = 0.25
	voidQiMaxBelow        = 0.30
	voidOverlapFlowBelow  = 0.20
)

// Detect returns the active shields for the breath signals, ordered by presentation
// priority (Shield_1, Shield_4, Shield_2, Shield_3).
//
// Shield_4's condition is a strict subset of Shield_1's, so the two are disambiguated in
// their overlap: a drained flow (涓流 below 0.20) marks meaning void and reports Shield_4,
// otherwise the state is reported as spiritual bypass (Shield_1). Every other pair is
// independent. An empty qi slice never satisfies Shield_4's low-Qi condition.
func Detect(b domain.Breath, qi []float64) []domain.ShieldID {
	qiMax := math.Inf(1)
	for i, v := range qi {
		if i == 0 || v > qiMax {
			qiMax = v
		}
	}

	active := map[domain.ShieldID]bool{
		domain.Shield1: b.Presence < bypassPresenceBelow && b.Boundlessness > bypassBoundlessAbove,
		domain.Shield2: b.Insight < blindInsightBelow,
		domain.Shield3: b.Mirroring > exhaustMirroringAbove && b.Flow < exhaustFlowBelow,
		domain.Shield4: b.Boundlessness > voidBoundlessAbove && b.Presence < voidPresenceBelow && qiMax < voidQiMaxBelow,
	}
	if active[domain.Shield1] && active[domain.Shield4] {
		if b.Flow < voidOverlapFlowBelow {
			active[domain.Shield1] = false
		} else {
			active[domain.Shield4] = false
		}
	}

	out := make([]domain.ShieldID, 0, len(active))
	for _, id := range domain.ShieldPriority {
		if active[id] {
			out = append(out, id)
		}
	}
	return out
}

// Present returns the shield to surface among active ones: the first by priority.
func Present(active []domain.ShieldID) (domain.ShieldID, bool) {
	best := -1
	for _, id := range active {
		for rank, p := range domain.ShieldPriority {
			if p == id && (best < 0 || rank < best) {
				best = rank
			}
		}
	}
	if best < 0 {
		return "", false
	}
	return domain.ShieldPriority[best], true
}
