package scorers

import (
	"math"
	"strings"
	"testing"

	"github.com/meridianfp/checkup/internal/modules/diagnostics"
	"github.com/meridianfp/checkup/internal/modules/metrics"
)

// flatSeries builds a constant daily return series compounding to the
// given annual growth over one 252-day year.
func flatSeries(annualGrowth float64) []float64 {
	daily := math.Pow(1+annualGrowth, 1.0/252) - 1
	series := make([]float64, 252)
	for i := range series {
		series[i] = daily
	}
	return series
}

func TestBenchmarkGrowthRate(t *testing.T) {
	if got := benchmarkGrowthRate(nil, 252); got != nil {
		t.Errorf("benchmarkGrowthRate(nil) = %v, want nil", *got)
	}
	if got := benchmarkGrowthRate([]float64{0.01}, 252); got != nil {
		t.Errorf("benchmarkGrowthRate(single) = %v, want nil", *got)
	}

	got := benchmarkGrowthRate(flatSeries(0.06), 252)
	if got == nil {
		t.Fatal("benchmarkGrowthRate = nil, want a value for a full year of returns")
	}
	if math.Abs(*got-0.06) > 0.0005 {
		t.Errorf("benchmarkGrowthRate = %v, want ~0.06", *got)
	}
}

func TestBenchmarkCalculateOutperformance(t *testing.T) {
	scorer := NewBenchmarkScorer()

	performance := metrics.PerformanceMetrics{
		CAGR: metrics.Metric{Value: floatPtr(0.11), Status: metrics.StatusGood},
		Beta: metrics.Metric{Value: floatPtr(0.95), Status: metrics.StatusGood},
	}

	result := scorer.Calculate(performance, flatSeries(0.06), 252, testConfig())

	// 5 points of excess return: 50 + 0.05*400 = 70
	if math.Abs(result.Score-70.0) > 0.25 {
		t.Errorf("Score = %v, want ~70", result.Score)
	}
	if result.Status != diagnostics.StatusGreen {
		t.Errorf("Status = %v, want GREEN", result.Status)
	}
	if !strings.Contains(result.Finding, "outpaced the benchmark") {
		t.Errorf("Finding = %q, want outperformance called out", result.Finding)
	}
	if !strings.Contains(result.HeadlineMetric, "+5.0%") {
		t.Errorf("HeadlineMetric = %q, want the excess spelled out", result.HeadlineMetric)
	}

	details := result.Details.(diagnostics.BenchmarkDetails)
	if details.ExcessReturn == nil || math.Abs(*details.ExcessReturn-0.05) > 0.001 {
		t.Errorf("ExcessReturn = %v, want ~0.05", details.ExcessReturn)
	}
}

func TestBenchmarkCalculateUnderperformanceWithBadBeta(t *testing.T) {
	scorer := NewBenchmarkScorer()

	performance := metrics.PerformanceMetrics{
		CAGR: metrics.Metric{Value: floatPtr(0.02), Status: metrics.StatusPoor},
		Beta: metrics.Metric{Value: floatPtr(1.60), Status: metrics.StatusPoor},
	}

	result := scorer.Calculate(performance, flatSeries(0.06), 252, testConfig())

	// 50 - 0.04*400 - 10 beta penalty = 24
	if math.Abs(result.Score-24.0) > 0.25 {
		t.Errorf("Score = %v, want ~24", result.Score)
	}
	if result.Status != diagnostics.StatusRed {
		t.Errorf("Status = %v, want RED", result.Status)
	}
	if result.Severity != diagnostics.SeverityNormal {
		t.Errorf("Severity = %v, want NORMAL above the extreme margin", result.Severity)
	}
	if !strings.Contains(result.Finding, "trails the benchmark by 4.0 points") {
		t.Errorf("Finding = %q, want the shortfall quantified", result.Finding)
	}
}

func TestBenchmarkCalculateNoData(t *testing.T) {
	scorer := NewBenchmarkScorer()

	result := scorer.Calculate(metrics.PerformanceMetrics{}, nil, 252, testConfig())

	if result.Score != 50 {
		t.Errorf("Score = %v, want the neutral 50", result.Score)
	}
	if result.Status != diagnostics.StatusYellow {
		t.Errorf("Status = %v, want YELLOW", result.Status)
	}
	if result.Finding != "Benchmark comparison not available" {
		t.Errorf("Finding = %q, want the unavailable message", result.Finding)
	}
	if result.HeadlineMetric != "Excess return n/a" {
		t.Errorf("HeadlineMetric = %q, want n/a", result.HeadlineMetric)
	}

	details := result.Details.(diagnostics.BenchmarkDetails)
	if details.BenchmarkCAGR != nil || details.ExcessReturn != nil {
		t.Error("BenchmarkCAGR and ExcessReturn should be nil without benchmark data")
	}
}
