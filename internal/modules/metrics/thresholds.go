package metrics

import (
	"math"

	"github.com/meridianfp/checkup/internal/domain"
)

// Warning bands around a threshold: a higher-is-better metric warns
// between 70% and 100% of its target, a lower-is-better metric warns
// between 100% and 130% of its ceiling.
const (
	warningBandLow  = 0.70
	warningBandHigh = 1.30
)

// Thresholds holds the cutoffs each metric is classified against.
// Targets are floors for higher-is-better metrics, ceilings are caps
// for lower-is-better metrics (drawdown ceiling is a magnitude).
type Thresholds struct {
	CAGRTarget        float64 `json:"cagr_target"`
	SharpeTarget      float64 `json:"sharpe_target"`
	SortinoTarget     float64 `json:"sortino_target"`
	CalmarTarget      float64 `json:"calmar_target"`
	VolatilityCeiling float64 `json:"volatility_ceiling"`
	DrawdownCeiling   float64 `json:"drawdown_ceiling"`
	BetaCeiling       float64 `json:"beta_ceiling"`
	ExpenseCeiling    float64 `json:"expense_ceiling"`
}

// DefaultThresholds returns the moderate-risk baseline cutoffs
func DefaultThresholds() Thresholds {
	return Thresholds{
		CAGRTarget:        0.07,
		SharpeTarget:      1.00,
		SortinoTarget:     1.20,
		CalmarTarget:      0.50,
		VolatilityCeiling: 0.18,
		DrawdownCeiling:   0.25,
		BetaCeiling:       1.20,
		ExpenseCeiling:    0.0050,
	}
}

// Adjusted returns a copy scaled for the client's risk tolerance.
// Conservative clients accept lower return targets but tighter risk
// ceilings; aggressive clients the reverse. The receiver is never
// mutated.
func (t Thresholds) Adjusted(tolerance domain.RiskTolerance) Thresholds {
	adjusted := t

	switch tolerance {
	case domain.RiskConservative:
		adjusted.CAGRTarget = t.CAGRTarget * 0.85
		adjusted.SharpeTarget = t.SharpeTarget * 0.85
		adjusted.SortinoTarget = t.SortinoTarget * 0.85
		adjusted.CalmarTarget = t.CalmarTarget * 0.85
		adjusted.VolatilityCeiling = t.VolatilityCeiling * 0.80
		adjusted.DrawdownCeiling = t.DrawdownCeiling * 0.80
		adjusted.BetaCeiling = t.BetaCeiling * 0.80
	case domain.RiskAggressive:
		adjusted.CAGRTarget = t.CAGRTarget * 1.15
		adjusted.SharpeTarget = t.SharpeTarget * 1.15
		adjusted.SortinoTarget = t.SortinoTarget * 1.15
		adjusted.CalmarTarget = t.CalmarTarget * 1.15
		adjusted.VolatilityCeiling = t.VolatilityCeiling * 1.25
		adjusted.DrawdownCeiling = t.DrawdownCeiling * 1.25
		adjusted.BetaCeiling = t.BetaCeiling * 1.25
	}

	return adjusted
}

// classifyHigherIsBetter maps a metric where more is better:
// at or above target is good, within 70-100% of target is warning,
// below that is poor.
func classifyHigherIsBetter(value *float64, target float64) MetricStatus {
	if value == nil {
		return StatusNotApplicable
	}

	switch {
	case *value >= target:
		return StatusGood
	case *value >= target*warningBandLow:
		return StatusWarning
	default:
		return StatusPoor
	}
}

// classifyLowerIsBetter maps a metric where less is better:
// at or below the ceiling is good, within 100-130% of the ceiling is
// warning, above that is poor. Magnitude is used so drawdowns and
// inverse exposures classify on size, not sign.
func classifyLowerIsBetter(value *float64, ceiling float64) MetricStatus {
	if value == nil {
		return StatusNotApplicable
	}

	magnitude := math.Abs(*value)
	switch {
	case magnitude <= ceiling:
		return StatusGood
	case magnitude <= ceiling*warningBandHigh:
		return StatusWarning
	default:
		return StatusPoor
	}
}
