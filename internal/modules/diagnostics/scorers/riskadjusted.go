package scorers

import (
	"fmt"

	"github.com/meridianfp/checkup/internal/modules/diagnostics"
	"github.com/meridianfp/checkup/internal/modules/metrics"
)

// RiskAdjustedScorer grades return earned per unit of risk taken.
type RiskAdjustedScorer struct{}

// NewRiskAdjustedScorer creates a new risk-adjusted return scorer
func NewRiskAdjustedScorer() *RiskAdjustedScorer {
	return &RiskAdjustedScorer{}
}

// Calculate blends Sharpe (50%), Sortino (30%) and Calmar (20%)
// component scores. Ratios that cannot be computed score at the
// neutral 50 so thin history never reads as an extreme.
func (ras *RiskAdjustedScorer) Calculate(
	performance metrics.PerformanceMetrics,
	config diagnostics.ScoringConfig,
) diagnostics.DiagnosticResult {
	sharpe := performance.Sharpe.Value
	sortino := performance.Sortino.Value
	calmar := performance.Calmar.Value

	score := scoreSharpeRatio(sharpe, config.SharpeTarget)*0.50 +
		scoreSortinoRatio(sortino)*0.30 +
		scoreCalmarRatio(calmar)*0.20
	score = round1(clampScore(score))

	status, severity := config.Classify(diagnostics.CategoryRiskAdjustedReturn, score)

	finding := "Risk-adjusted ratios not computable from available history"
	headline := "Sharpe n/a"
	if sharpe != nil {
		headline = fmt.Sprintf("Sharpe %.2f", *sharpe)
		if *sharpe >= config.SharpeTarget {
			finding = fmt.Sprintf("Sharpe of %.2f meets the %.2f target", *sharpe, config.SharpeTarget)
		} else {
			finding = fmt.Sprintf("Sharpe of %.2f is below the %.2f target", *sharpe, config.SharpeTarget)
		}
	}

	return diagnostics.DiagnosticResult{
		Category:       diagnostics.CategoryRiskAdjustedReturn,
		Status:         status,
		Severity:       severity,
		Score:          score,
		Finding:        finding,
		HeadlineMetric: headline,
		Details: diagnostics.RiskAdjustedDetails{
			Sharpe:       sharpe,
			Sortino:      sortino,
			Calmar:       calmar,
			Volatility:   performance.Volatility.Value,
			SharpeTarget: config.SharpeTarget,
		},
	}
}

// scoreSharpeRatio converts a Sharpe ratio to a 0-100 score relative
// to the target. Twice the target is excellent; meeting it lands at 70.
func scoreSharpeRatio(sharpeRatio *float64, target float64) float64 {
	if sharpeRatio == nil || target <= 0 {
		return 50
	}

	ratio := *sharpeRatio / target

	if ratio >= 2.0 {
		return 100
	} else if ratio >= 1.0 {
		return 70 + (ratio-1.0)*30
	} else if ratio >= 0.5 {
		return 40 + (ratio-0.5)*60
	} else if ratio >= 0 {
		return ratio * 80
	}
	return 0
}

// scoreSortinoRatio converts a Sortino ratio to a 0-100 score.
// Sortino above 2.0 is excellent since it only penalizes downside.
func scoreSortinoRatio(sortinoRatio *float64) float64 {
	if sortinoRatio == nil {
		return 50
	}

	sortino := *sortinoRatio

	if sortino >= 2.0 {
		return 100
	} else if sortino >= 1.5 {
		return 80 + (sortino-1.5)*40
	} else if sortino >= 1.0 {
		return 60 + (sortino-1.0)*40
	} else if sortino >= 0.5 {
		return 40 + (sortino-0.5)*40
	} else if sortino >= 0 {
		return sortino * 80
	}
	return 0
}

// scoreCalmarRatio converts a Calmar ratio to a 0-100 score. Growth
// matching the worst drawdown (1.0) is excellent.
func scoreCalmarRatio(calmarRatio *float64) float64 {
	if calmarRatio == nil {
		return 50
	}

	calmar := *calmarRatio

	if calmar >= 1.0 {
		return 100
	} else if calmar >= 0.5 {
		return 70 + (calmar-0.5)*60
	} else if calmar >= 0 {
		return calmar * 140
	}
	return 0
}
