// Package breath derives the five breath signals from accumulated Qi and Lumin vectors.
//
// Computation is pure and fails fast: safety decisions downstream must never run on a
// partially specified input, so missing or malformed values are a domain.ErrContractViolation
// rather than being defaulted.
package breath

import (
	"fmt"
	"math"

	"github.com/aretw0/qiscreen/pkg/domain"
)

// Compute derives breath signals from a raw Qi slice and a Lumin channel map.
// qi must hold exactly eight finite values; lumin must hold all five channels.
// Extra lumin keys are ignored.
func Compute(qi []float64, lumin map[string]float64) (domain.Breath, error) {
	if len(qi) != len(domain.QiNames) {
		return domain.Breath{}, &domain.ContractError{
			Field:  "qi",
			Reason: fmt.Sprintf("expected %d entries, got %d", len(domain.QiNames), len(qi)),
		}
	}
	var q domain.QiVector
	copy(q[:], qi)

	var l domain.LuminVector
	for i, name := range domain.LuminNames {
		v, ok := lumin[name]
		if !ok {
			return domain.Breath{}, &domain.ContractError{Field: "lumin." + name, Reason: "missing channel"}
		}
		l[i] = v
	}
	return FromVectors(q, l)
}

// FromVectors derives breath signals from typed vectors. Outputs are clamped to [0,1].
func FromVectors(qi domain.QiVector, lumin domain.LuminVector) (domain.Breath, error) {
	for i, v := range qi {
		if !finite(v) {
			return domain.Breath{}, &domain.ContractError{Field: "qi." + domain.QiNames[i], Reason: "not a finite number"}
		}
	}
	for i, v := range lumin {
		if !finite(v) {
			return domain.Breath{}, &domain.ContractError{Field: "lumin." + domain.LuminNames[i], Reason: "not a finite number"}
		}
	}

	const (
		see = iota
		hear
		touch
		taste
		smell
	)

	var sum float64
	for _, v := range qi {
		sum += v
	}
	avgQi := sum / float64(len(qi))

	return domain.Breath{
		Presence:      clamp(lumin[touch]),
		Boundlessness: clamp(qi.Max()),
		Insight:       clamp((lumin[see] + lumin[hear]) / 2 * (1 - math.Abs(qi[0]-qi[4]))),
		Flow:          clamp(avgQi * (0.5 + 0.5*lumin[touch])),
		Mirroring:     clamp((lumin[taste] + lumin[smell]) / 2 * math.Max(qi[2], qi[6])),
	}, nil
}

// FromMap validates a name-keyed breath map (e.g. from an API payload). Every signal must be
// present and within [0,1]; no clamping is applied.
func FromMap(m map[string]float64) (domain.Breath, error) {
	var vals [5]float64
	for i, name := range domain.BreathNames {
		v, ok := m[name]
		if !ok {
			return domain.Breath{}, &domain.ContractError{Field: "breath." + name, Reason: "missing signal"}
		}
		if !finite(v) || v < 0 || v > 1 {
			return domain.Breath{}, &domain.ContractError{Field: "breath." + name, Reason: "must be within [0,1]"}
		}
		vals[i] = v
	}
	return domain.Breath{
		Presence:      vals[0],
		Boundlessness: vals[1],
		Insight:       vals[2],
		Flow:          vals[3],
		Mirroring:     vals[4],
	}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
