package scorers

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/meridianfp/checkup/internal/domain"
	"github.com/meridianfp/checkup/internal/modules/diagnostics"
	"github.com/meridianfp/checkup/internal/modules/metrics"
	"github.com/meridianfp/checkup/pkg/formulas"
)

// cvarConfidence is the tail confidence level for expected shortfall
const cvarConfidence = 0.95

// minReturnsForCVaR is the observation count below which the tail
// estimate is too noisy to grade.
const minReturnsForCVaR = 20

// recoveryRSIPeriod is the RSI window over the cumulative value path
const recoveryRSIPeriod = 14

// deepDrawdownRSI marks momentum readings still deep in a drawdown
const deepDrawdownRSI = 30

// volatilityWindow is the SMA smoothing window for the recent
// volatility and ulcer readings.
const volatilityWindow = 30

// parametricSamples is the draw count for the sampled normal-tail
// CVaR estimate.
const parametricSamples = 10000

// parametricSeed pins the sampling source so two runs over the same
// series report the same tail estimate.
const parametricSeed = 7

// ResilienceScorer grades how the portfolio holds up in bad markets:
// drawdown depth, expected shortfall, defensive ballast, and downside
// risk-adjusted return.
type ResilienceScorer struct{}

// NewResilienceScorer creates a new downside resilience scorer
func NewResilienceScorer() *ResilienceScorer {
	return &ResilienceScorer{}
}

// Calculate combines four components:
// - Max drawdown vs the ceiling (0-40)
// - 95% CVaR of the return series (0-25)
// - Defensive allocation in bonds and cash (0-20)
// - Sortino ratio (0-15)
// Components without enough data score at their neutral midpoint.
func (rs *ResilienceScorer) Calculate(
	holdings []domain.Holding,
	portfolioReturns []float64,
	periodsPerYear int,
	performance metrics.PerformanceMetrics,
	config diagnostics.ScoringConfig,
) diagnostics.DiagnosticResult {
	if periodsPerYear <= 0 {
		periodsPerYear = formulas.TradingDaysPerYear
	}

	drawdown := performance.MaxDrawdown.Value
	sortino := performance.Sortino.Value

	cvar := 0.0
	if len(portfolioReturns) >= minReturnsForCVaR {
		cvar = formulas.CalculateCVaR(portfolioReturns, cvarConfidence)
	}
	parametric := parametricTail(portfolioReturns)
	recentVol := smoothedVolatility(portfolioReturns, periodsPerYear)

	downsideDev := formulas.DownsideDeviation(portfolioReturns, 0, periodsPerYear)
	defensive := defensiveAllocation(holdings)

	var recovery, ulcer *float64
	daysInDrawdown := 0
	if len(portfolioReturns) >= 2 {
		values := formulas.CumulativeValues(1.0, portfolioReturns)
		if dd := formulas.CalculateDrawdownMetrics(values); dd != nil {
			daysInDrawdown = dd.DaysInDrawdown
		}
		ulcer = formulas.CalculateUlcerIndex(values, volatilityWindow)
		if len(portfolioReturns) > recoveryRSIPeriod {
			recovery = formulas.CalculateRSI(values, recoveryRSIPeriod)
		}
	}

	score := scoreDrawdown(drawdown, config.DrawdownCeiling) +
		scoreCVaR(cvar, len(portfolioReturns)) +
		scoreDefensive(defensive) +
		scoreSortinoComponent(sortino)
	score = round1(clampScore(score))

	status, severity := config.Classify(diagnostics.CategoryDownsideResilience, score)

	finding := "Drawdown and tail risk within tolerance"
	headline := "Max drawdown n/a"
	if drawdown != nil {
		magnitude := math.Abs(*drawdown)
		headline = fmt.Sprintf("Max drawdown %.0f%%", -magnitude*100)
		switch {
		case magnitude > config.DrawdownCeiling:
			finding = fmt.Sprintf("Simulated drawdown of %.0f%% exceeds the %.0f%% ceiling",
				magnitude*100, config.DrawdownCeiling*100)
		case recovery != nil && *recovery < deepDrawdownRSI:
			finding = fmt.Sprintf("Value path is in deep drawdown territory (momentum %.0f, %d periods off peak)",
				*recovery, daysInDrawdown)
		case defensive < 0.10:
			finding = fmt.Sprintf("Only %.0f%% of the portfolio is in defensive assets", defensive*100)
		}
	} else {
		finding = "Not enough history to measure drawdowns"
	}

	return diagnostics.DiagnosticResult{
		Category:       diagnostics.CategoryDownsideResilience,
		Status:         status,
		Severity:       severity,
		Score:          score,
		Finding:        finding,
		HeadlineMetric: headline,
		Details: diagnostics.ResilienceDetails{
			MaxDrawdown:         drawdown,
			CVaR95:              cvar,
			ParametricCVaR95:    parametric,
			DownsideDeviation:   downsideDev,
			RecentVolatility:    recentVol,
			UlcerIndex:          ulcer,
			DaysInDrawdown:      daysInDrawdown,
			DefensiveAllocation: defensive,
			Sortino:             sortino,
			RecoveryMomentum:    recovery,
		},
	}
}

// parametricTail estimates the 95% expected shortfall by sampling a
// normal distribution fitted to the portfolio series. Reported beside
// the historical CVaR; a gap between the two flags fat tails.
func parametricTail(portfolioReturns []float64) *float64 {
	if len(portfolioReturns) < 2 {
		return nil
	}

	mu := formulas.Mean(portfolioReturns)
	sigma := formulas.StdDev(portfolioReturns)
	estimate := formulas.ParametricCVaR(mu, sigma, parametricSamples, cvarConfidence,
		rand.NewPCG(parametricSeed, parametricSeed))
	return &estimate
}

// smoothedVolatility annualizes the SMA of squared returns over the
// rolling window, giving a recent-regime volatility reading next to
// the full-series figure in the performance metrics.
func smoothedVolatility(portfolioReturns []float64, periodsPerYear int) *float64 {
	if len(portfolioReturns) < volatilityWindow {
		return nil
	}

	squared := make([]float64, len(portfolioReturns))
	for i, r := range portfolioReturns {
		squared[i] = r * r
	}

	smoothed := formulas.CalculateSMA(squared, volatilityWindow)
	if smoothed == nil || *smoothed < 0 {
		return nil
	}

	vol := math.Sqrt(*smoothed * float64(periodsPerYear))
	return &vol
}

// defensiveAllocation returns the value share held in bonds and cash
func defensiveAllocation(holdings []domain.Holding) float64 {
	totalValue := domain.TotalValue(holdings)
	if totalValue <= 0 {
		return 0
	}

	defensive := 0.0
	for _, h := range holdings {
		if h.AssetClass == domain.ClassBonds || h.AssetClass == domain.ClassCash {
			defensive += h.Value()
		}
	}
	return defensive / totalValue
}

// scoreDrawdown maps drawdown magnitude to 0-40. Full credit at half
// the ceiling or better, zero at twice the ceiling.
func scoreDrawdown(drawdown *float64, ceiling float64) float64 {
	if drawdown == nil {
		return 20
	}

	magnitude := math.Abs(*drawdown)
	switch {
	case magnitude <= 0.5*ceiling:
		return 40
	case magnitude >= 2*ceiling:
		return 0
	default:
		return 40 * (2*ceiling - magnitude) / (1.5 * ceiling)
	}
}

// scoreCVaR maps the 95% expected shortfall of periodic returns to
// 0-25. A shallow tail (better than -1.5% per period) earns full
// credit; -5% or worse earns none.
func scoreCVaR(cvar float64, observations int) float64 {
	if observations < minReturnsForCVaR {
		return 12.5
	}

	magnitude := 0.0
	if cvar < 0 {
		magnitude = -cvar
	}

	switch {
	case magnitude <= 0.015:
		return 25
	case magnitude >= 0.05:
		return 0
	default:
		return 25 * (0.05 - magnitude) / 0.035
	}
}

// scoreDefensive maps the bonds-and-cash share to 0-20, with full
// credit at a 40% defensive sleeve.
func scoreDefensive(defensive float64) float64 {
	if defensive >= 0.40 {
		return 20
	}
	if defensive <= 0 {
		return 0
	}
	return 20 * defensive / 0.40
}

// scoreSortinoComponent maps the Sortino ratio to 0-15
func scoreSortinoComponent(sortino *float64) float64 {
	if sortino == nil {
		return 7.5
	}

	s := *sortino
	if s >= 2 {
		return 15
	}
	if s <= 0 {
		return 0
	}
	return 15 * s / 2
}
