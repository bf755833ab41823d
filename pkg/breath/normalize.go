package breath

import (
	"math"

	"github.com/aretw0/qiscreen/pkg/domain"
)

// Normalize scales the Qi and Lumin accumulators by their largest absolute entry, so the
// dominant dimension reads ±1 and the rest keep their relative weight. A zero vector stays
// zero. Rhythm tallies are returned unchanged.
func Normalize(acc domain.Accumulators) domain.Accumulators {
	out := acc
	if m := maxAbs(acc.Qi[:]); m > 0 {
		for i := range out.Qi {
			out.Qi[i] = acc.Qi[i] / m
		}
	}
	if m := maxAbs(acc.Lumin[:]); m > 0 {
		for i := range out.Lumin {
			out.Lumin[i] = acc.Lumin[i] / m
		}
	}
	return out
}

// FromAccumulators normalizes acc and derives breath signals from it.
func FromAccumulators(acc domain.Accumulators) (domain.Breath, error) {
	n := Normalize(acc)
	return FromVectors(n.Qi, n.Lumin)
}

func maxAbs(v []float64) float64 {
	var m float64
	for _, x := range v {
		m = math.Max(m, math.Abs(x))
	}
	return m
}
