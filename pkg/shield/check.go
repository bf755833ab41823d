package shield

import (
	"fmt"
	"math"

	"github.com/aretw0/qiscreen/pkg/breath"
	"github.com/aretw0/qiscreen/pkg/domain"
)

// CheckVersion tags Check responses.
const CheckVersion = "shield-check-v1"

// Check actions.
const (
	ActionIntervene = "intervene"
	ActionProceed   = "proceed"
)

// CheckRequest is a privacy-reduced detection request: the breath signals plus only the
// largest Qi value instead of the full vector.
type CheckRequest struct {
	Breath map[string]float64 `json:"breath"`
	QiMax  *float64           `json:"qiMax"`
}

// CheckResult is the detection verdict.
type CheckResult struct {
	Success         bool              `json:"success"`
	Action          string            `json:"action"`
	ShieldType      *domain.ShieldID  `json:"shieldType"`
	DetectedShields []domain.ShieldID `json:"detectedShields"`
	Version         string            `json:"version"`
}

// Check validates req and runs Detect on it. The Qi vector is reconstructed as seven
// zeros followed by QiMax, which preserves max(qi).
func Check(req CheckRequest) (CheckResult, error) {
	if req.QiMax == nil {
		return CheckResult{}, &domain.ContractError{Field: "qiMax", Reason: "missing"}
	}
	if math.IsNaN(*req.QiMax) || math.IsInf(*req.QiMax, 0) {
		return CheckResult{}, &domain.ContractError{Field: "qiMax", Reason: "not a finite number"}
	}
	b, err := breath.FromMap(req.Breath)
	if err != nil {
		return CheckResult{}, fmt.Errorf("shield check: %w", err)
	}

	qi := make([]float64, len(domain.QiNames))
	qi[len(qi)-1] = *req.QiMax

	detected := Detect(b, qi)
	res := CheckResult{
		Success:         true,
		Action:          ActionProceed,
		DetectedShields: detected,
		Version:         CheckVersion,
	}
	if top, ok := Present(detected); ok {
		res.Action = ActionIntervene
		res.ShieldType = &top
	}
	return res, nil
}
