package scorers

import (
	"fmt"

	"github.com/meridianfp/checkup/internal/modules/diagnostics"
	"github.com/meridianfp/checkup/internal/modules/metrics"
)

// PerformanceScorer rolls the classified metric set into one score
type PerformanceScorer struct{}

// NewPerformanceScorer creates a new raw performance scorer
func NewPerformanceScorer() *PerformanceScorer {
	return &PerformanceScorer{}
}

// Calculate averages the classified metrics: good counts 100, warning
// 55, poor 10. Metrics without enough data are left out of the
// average; when nothing is gradable the score stays at the neutral 50.
func (ps *PerformanceScorer) Calculate(
	performance metrics.PerformanceMetrics,
	config diagnostics.ScoringConfig,
) diagnostics.DiagnosticResult {
	good, warning, poor, notApplicable := performance.StatusCounts()
	applicable := good + warning + poor

	score := 50.0
	if applicable > 0 {
		score = round1((float64(good)*100 + float64(warning)*55 + float64(poor)*10) / float64(applicable))
	}

	status, severity := config.Classify(diagnostics.CategoryPerformanceMetrics, score)

	finding := "Not enough history to grade performance"
	if applicable > 0 {
		finding = fmt.Sprintf("%d of %d metrics look healthy", good, applicable)
		if poor > 0 {
			finding = fmt.Sprintf("%d of %d metrics look healthy, %d flagged poor", good, applicable, poor)
		}
	}

	return diagnostics.DiagnosticResult{
		Category:       diagnostics.CategoryPerformanceMetrics,
		Status:         status,
		Severity:       severity,
		Score:          score,
		Finding:        finding,
		HeadlineMetric: fmt.Sprintf("%d/%d metrics good", good, applicable),
		Details: diagnostics.PerformanceDetails{
			Metrics:       performance,
			Good:          good,
			Warning:       warning,
			Poor:          poor,
			NotApplicable: notApplicable,
		},
	}
}
