package breath_test

import (
	"math"
	"testing"

	"github.com/aretw0/qiscreen/pkg/breath"
	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullLumin(see, hear, touch, taste, smell float64) map[string]float64 {
	return map[string]float64{"视": see, "听": hear, "触": touch, "味": taste, "嗅": smell}
}

func TestCompute(t *testing.T) {
	qi := []float64{0.4, 0.2, 0.6, 0.1, 0.2, 0.3, 0.5, 0.1}
	b, err := breath.Compute(qi, fullLumin(0.8, 0.6, 0.5, 0.4, 0.2))
	require.NoError(t, err)

	assert.InDelta(t, 0.5, b.Presence, 1e-12)
	assert.InDelta(t, 0.6, b.Boundlessness, 1e-12)
	assert.InDelta(t, 0.7*0.8, b.Insight, 1e-12)
	assert.InDelta(t, 0.3*0.75, b.Flow, 1e-12)
	assert.InDelta(t, 0.3*0.6, b.Mirroring, 1e-12)
}

func TestCompute_Clamps(t *testing.T) {
	qi := []float64{3, 3, 3, 3, -5, 3, 3, 3}
	b, err := breath.Compute(qi, fullLumin(2, 2, -1, 4, 4))
	require.NoError(t, err)

	assert.Equal(t, 0.0, b.Presence)
	assert.Equal(t, 1.0, b.Boundlessness)
	assert.Equal(t, 0.0, b.Insight, "1-|3-(-5)| is negative")
	assert.Equal(t, 0.0, b.Flow, "0.5+0.5*(-1) is zero")
	assert.Equal(t, 1.0, b.Mirroring)

	for name, v := range b.Map() {
		assert.True(t, v >= 0 && v <= 1, "%s out of range: %v", name, v)
	}
}

func TestCompute_ContractViolations(t *testing.T) {
	good := []float64{0, 0, 0, 0, 0, 0, 0, 0}
	missing := fullLumin(0, 0, 0, 0, 0)
	delete(missing, "嗅")

	tests := []struct {
		name  string
		qi    []float64
		lumin map[string]float64
		field string
	}{
		{"Short Qi", []float64{1, 2, 3}, fullLumin(0, 0, 0, 0, 0), "qi"},
		{"Long Qi", make([]float64, 9), fullLumin(0, 0, 0, 0, 0), "qi"},
		{"Nil Qi", nil, fullLumin(0, 0, 0, 0, 0), "qi"},
		{"Missing Channel", good, missing, "lumin.嗅"},
		{"Nil Lumin", good, nil, "lumin.视"},
		{"NaN Qi", []float64{0, math.NaN(), 0, 0, 0, 0, 0, 0}, fullLumin(0, 0, 0, 0, 0), "qi.萌动"},
		{"Inf Lumin", good, fullLumin(0, math.Inf(1), 0, 0, 0), "lumin.听"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := breath.Compute(tt.qi, tt.lumin)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrContractViolation)

			var ce *domain.ContractError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestFromMap(t *testing.T) {
	b, err := breath.FromMap(map[string]float64{"如是": 0.1, "无垠": 0.75, "破暗": 0.3, "涓流": 0.2, "映照": 0.4})
	require.NoError(t, err)
	assert.Equal(t, domain.Breath{Presence: 0.1, Boundlessness: 0.75, Insight: 0.3, Flow: 0.2, Mirroring: 0.4}, b)

	_, err = breath.FromMap(map[string]float64{"如是": 0.1})
	assert.ErrorIs(t, err, domain.ErrContractViolation)

	_, err = breath.FromMap(map[string]float64{"如是": 1.2, "无垠": 0, "破暗": 0, "涓流": 0, "映照": 0})
	assert.ErrorIs(t, err, domain.ErrContractViolation)
}

func TestNormalize(t *testing.T) {
	acc := domain.Accumulators{
		Qi:     domain.QiVector{2, -4, 1, 0, 0, 0, 0, 0},
		Rhythm: domain.RhythmVector{1, 2, 0, 0},
	}
	n := breath.Normalize(acc)

	assert.Equal(t, domain.QiVector{0.5, -1, 0.25, 0, 0, 0, 0, 0}, n.Qi)
	assert.Equal(t, domain.LuminVector{}, n.Lumin, "zero vector stays zero")
	assert.Equal(t, acc.Rhythm, n.Rhythm)
	assert.Equal(t, 2.0, acc.Qi[0], "input untouched")
}

func TestFromAccumulators(t *testing.T) {
	acc := domain.Accumulators{
		Qi:    domain.QiVector{10, 0, 0, 0, 0, 0, 0, 0},
		Lumin: domain.LuminVector{0, 0, 6, 0, 0},
	}
	b, err := breath.FromAccumulators(acc)
	require.NoError(t, err)
	assert.Equal(t, 1.0, b.Presence)
	assert.Equal(t, 1.0, b.Boundlessness)
}
