package scorers

import (
	"fmt"

	"github.com/meridianfp/checkup/internal/modules/diagnostics"
	"github.com/meridianfp/checkup/internal/modules/metrics"
	"github.com/meridianfp/checkup/pkg/formulas"
)

// BenchmarkScorer grades the portfolio's growth against its reference
// index over the same window.
type BenchmarkScorer struct{}

// NewBenchmarkScorer creates a new benchmark comparison scorer
func NewBenchmarkScorer() *BenchmarkScorer {
	return &BenchmarkScorer{}
}

// Calculate centers the score at 50 for matching the benchmark and
// moves it 4 points per 1% of annualized excess return, clamped to
// 0-100. A beta classified warning or poor docks 5 or 10 points. When
// either growth rate is unavailable the score stays at the neutral 50.
func (bs *BenchmarkScorer) Calculate(
	performance metrics.PerformanceMetrics,
	benchmarkReturns []float64,
	periodsPerYear int,
	config diagnostics.ScoringConfig,
) diagnostics.DiagnosticResult {
	if periodsPerYear <= 0 {
		periodsPerYear = formulas.TradingDaysPerYear
	}

	portfolioCAGR := performance.CAGR.Value
	benchmarkCAGR := benchmarkGrowthRate(benchmarkReturns, periodsPerYear)
	beta := performance.Beta.Value

	var excess *float64
	if portfolioCAGR != nil && benchmarkCAGR != nil {
		e := *portfolioCAGR - *benchmarkCAGR
		excess = &e
	}

	score := 50.0
	if excess != nil {
		score = 50 + *excess*400
	}
	switch performance.Beta.Status {
	case metrics.StatusPoor:
		score -= 10
	case metrics.StatusWarning:
		score -= 5
	}
	score = round1(clampScore(score))

	status, severity := config.Classify(diagnostics.CategoryBenchmarkPerformance, score)

	finding := "Benchmark comparison not available"
	headline := "Excess return n/a"
	if excess != nil {
		points := *excess * 100
		headline = fmt.Sprintf("Excess return %+.1f%%", points)
		if points >= 0 {
			finding = fmt.Sprintf("Portfolio outpaced the benchmark by %.1f points annually", points)
		} else {
			finding = fmt.Sprintf("Portfolio trails the benchmark by %.1f points annually", -points)
		}
	}

	return diagnostics.DiagnosticResult{
		Category:       diagnostics.CategoryBenchmarkPerformance,
		Status:         status,
		Severity:       severity,
		Score:          score,
		Finding:        finding,
		HeadlineMetric: headline,
		Details: diagnostics.BenchmarkDetails{
			PortfolioCAGR: portfolioCAGR,
			BenchmarkCAGR: benchmarkCAGR,
			ExcessReturn:  excess,
			Beta:          beta,
		},
	}
}

// benchmarkGrowthRate annualizes the benchmark return series
func benchmarkGrowthRate(benchmarkReturns []float64, periodsPerYear int) *float64 {
	if len(benchmarkReturns) < 2 {
		return nil
	}

	years := float64(len(benchmarkReturns)) / float64(periodsPerYear)
	values := formulas.CumulativeValues(1.0, benchmarkReturns)
	return formulas.CalculateCAGR(values[0], values[len(values)-1], years)
}
