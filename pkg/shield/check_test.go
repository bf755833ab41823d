package shield_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/aretw0/qiscreen/pkg/shield"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestCheck(t *testing.T) {
	res, err := shield.Check(shield.CheckRequest{
		Breath: map[string]float64{"如是": 0.1, "无垠": 0.75, "破暗": 0.3, "涓流": 0.2, "映照": 0.4},
		QiMax:  ptr(0.2),
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, shield.ActionIntervene, res.Action)
	require.NotNil(t, res.ShieldType)
	assert.Equal(t, domain.Shield1, *res.ShieldType)
	assert.Equal(t, []domain.ShieldID{domain.Shield1}, res.DetectedShields)
	assert.Equal(t, shield.CheckVersion, res.Version)
}

func TestCheck_Proceed(t *testing.T) {
	res, err := shield.Check(shield.CheckRequest{
		Breath: map[string]float64{"如是": 0.5, "无垠": 0.5, "破暗": 0.5, "涓流": 0.5, "映照": 0.5},
		QiMax:  ptr(0.3),
	})
	require.NoError(t, err)
	assert.Equal(t, shield.ActionProceed, res.Action)
	assert.Nil(t, res.ShieldType)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"action":"proceed","shieldType":null,"detectedShields":[],"version":"shield-check-v1"}`, string(data))
}

func TestCheck_Invalid(t *testing.T) {
	full := map[string]float64{"如是": 0.5, "无垠": 0.5, "破暗": 0.5, "涓流": 0.5, "映照": 0.5}

	_, err := shield.Check(shield.CheckRequest{Breath: full})
	assert.ErrorIs(t, err, domain.ErrContractViolation)

	outOfRange := map[string]float64{"如是": 0.5, "无垠": 1.5, "破暗": 0.5, "涓流": 0.5, "映照": 0.5}
	_, err = shield.Check(shield.CheckRequest{Breath: outOfRange, QiMax: ptr(0.1)})
	var ce *domain.ContractError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "breath.无垠", ce.Field)
}
