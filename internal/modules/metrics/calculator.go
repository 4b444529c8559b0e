package metrics

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/meridianfp/checkup/internal/domain"
	"github.com/meridianfp/checkup/pkg/formulas"
)

// Calculator computes and classifies portfolio performance metrics
type Calculator struct {
	periodsPerYear int
	riskFreeRate   float64
	log            zerolog.Logger
}

// NewCalculator creates a metrics calculator.
//
// Args:
//
//	periodsPerYear: Return periods per year (252 for daily series)
//	riskFreeRate: Annual risk-free rate as decimal
//	log: Logger instance
func NewCalculator(periodsPerYear int, riskFreeRate float64, log zerolog.Logger) *Calculator {
	if periodsPerYear <= 0 {
		periodsPerYear = formulas.TradingDaysPerYear
	}

	return &Calculator{
		periodsPerYear: periodsPerYear,
		riskFreeRate:   riskFreeRate,
		log:            log,
	}
}

// PortfolioReturns aggregates per-ticker return series into a single
// value-weighted portfolio series. Weights come from current holding
// values; tickers without a series are excluded and the remaining
// weights renormalized. Series are truncated to the shortest covered
// length.
func (c *Calculator) PortfolioReturns(holdings []domain.Holding, seriesByTicker map[string][]float64) []float64 {
	valueByTicker := make(map[string]float64)
	coveredValue := 0.0
	minLen := -1

	for _, h := range holdings {
		series, ok := seriesByTicker[h.Ticker]
		if !ok || len(series) == 0 {
			continue
		}

		if _, seen := valueByTicker[h.Ticker]; !seen {
			if minLen < 0 || len(series) < minLen {
				minLen = len(series)
			}
		}

		value := h.Value()
		valueByTicker[h.Ticker] += value
		coveredValue += value
	}

	if coveredValue <= 0 || minLen <= 0 {
		return nil
	}

	portfolio := make([]float64, minLen)
	for ticker, value := range valueByTicker {
		weight := value / coveredValue
		series := seriesByTicker[ticker]
		for i := 0; i < minLen; i++ {
			portfolio[i] += weight * series[i]
		}
	}

	return portfolio
}

// BlendedExpenseRatio value-weights holding expense ratios across the
// portfolio. Holdings without a published ratio contribute zero cost
// but stay in the denominator, so the blend reflects the whole
// portfolio rather than just the funds that report fees.
func BlendedExpenseRatio(holdings []domain.Holding) float64 {
	totalValue := 0.0
	weightedCost := 0.0

	for _, h := range holdings {
		value := h.Value()
		totalValue += value
		if h.ExpenseRatio != nil {
			weightedCost += value * *h.ExpenseRatio
		}
	}

	if totalValue <= 0 {
		return 0
	}

	return weightedCost / totalValue
}

// Calculate computes the full metric set from a portfolio return
// series and classifies each value against the supplied thresholds.
//
// With fewer than two return observations every series-derived metric
// is not applicable; the expense ratio still computes from holdings.
// Undefined metrics (zero volatility, flat benchmark, no downside
// observations) carry nil values instead of infinities.
//
// Args:
//
//	holdings: Current portfolio holdings (for the expense blend)
//	portfolioReturns: Periodic portfolio return series
//	benchmarkReturns: Periodic benchmark return series for beta
//	th: Classification thresholds, already risk-adjusted
func (c *Calculator) Calculate(holdings []domain.Holding, portfolioReturns, benchmarkReturns []float64, th Thresholds) PerformanceMetrics {
	expense := BlendedExpenseRatio(holdings)
	expenseMetric := Metric{
		Value:  &expense,
		Status: classifyLowerIsBetter(&expense, th.ExpenseCeiling),
	}

	if len(portfolioReturns) < 2 {
		c.log.Debug().
			Int("returns", len(portfolioReturns)).
			Msg("Insufficient return history, metrics not applicable")

		na := Metric{Status: StatusNotApplicable}
		return PerformanceMetrics{
			TotalReturn:  na,
			CAGR:         na,
			Volatility:   na,
			Sharpe:       na,
			Sortino:      na,
			Calmar:       na,
			MaxDrawdown:  na,
			Beta:         na,
			ExpenseRatio: expenseMetric,
		}
	}

	years := float64(len(portfolioReturns)) / float64(c.periodsPerYear)
	values := formulas.CumulativeValues(1.0, portfolioReturns)

	totalReturn := formulas.CalculateTotalReturn(portfolioReturns)
	totalReturnTarget := math.Pow(1+th.CAGRTarget, years) - 1

	cagr := formulas.CalculateCAGR(values[0], values[len(values)-1], years)
	volatility := formulas.AnnualizedVolatility(portfolioReturns, c.periodsPerYear)
	sharpe := formulas.CalculateSharpeRatio(portfolioReturns, c.riskFreeRate, c.periodsPerYear)
	sortino := formulas.CalculateSortinoRatio(portfolioReturns, c.riskFreeRate, c.riskFreeRate, c.periodsPerYear)
	beta := formulas.CalculateBeta(portfolioReturns, benchmarkReturns)

	// Drawdown is tracked as a positive magnitude internally and
	// reported as a negative fraction.
	var drawdown, calmar *float64
	if dd := formulas.CalculateMaxDrawdown(values); dd != nil {
		negative := -*dd
		drawdown = &negative
		if cagr != nil {
			calmar = formulas.CalculateCalmarRatio(*cagr, *dd)
		}
	}

	metrics := PerformanceMetrics{
		TotalReturn:  Metric{Value: &totalReturn, Status: classifyHigherIsBetter(&totalReturn, totalReturnTarget)},
		CAGR:         Metric{Value: cagr, Status: classifyHigherIsBetter(cagr, th.CAGRTarget)},
		Volatility:   Metric{Value: &volatility, Status: classifyLowerIsBetter(&volatility, th.VolatilityCeiling)},
		Sharpe:       Metric{Value: sharpe, Status: classifyHigherIsBetter(sharpe, th.SharpeTarget)},
		Sortino:      Metric{Value: sortino, Status: classifyHigherIsBetter(sortino, th.SortinoTarget)},
		Calmar:       Metric{Value: calmar, Status: classifyHigherIsBetter(calmar, th.CalmarTarget)},
		MaxDrawdown:  Metric{Value: drawdown, Status: classifyLowerIsBetter(drawdown, th.DrawdownCeiling)},
		Beta:         Metric{Value: beta, Status: classifyLowerIsBetter(beta, th.BetaCeiling)},
		ExpenseRatio: expenseMetric,
	}

	good, warning, poor, _ := metrics.StatusCounts()
	c.log.Debug().
		Int("good", good).
		Int("warning", warning).
		Int("poor", poor).
		Float64("years", years).
		Msg("Calculated performance metrics")

	return metrics
}
