package montecarlo

import "fmt"

const (
	// DefaultSimulations is the path count used when the caller does
	// not specify one.
	DefaultSimulations = 5000

	// MaxSimulations caps the path count to keep a single run
	// interactive.
	MaxSimulations = 10000

	// HistogramBuckets is the fixed bucket count spanning [min, max]
	// of the outcome distribution.
	HistogramBuckets = 12
)

// Params describes one goal projection
type Params struct {
	StartingValue      float64 `json:"starting_value"`
	Years              int     `json:"years"`
	AnnualContribution float64 `json:"annual_contribution"`
	ExpectedReturn     float64 `json:"expected_return"`
	Volatility         float64 `json:"volatility"`
	Goal               float64 `json:"goal"`
	Simulations        int     `json:"simulations"`
}

// ScenarioBands holds the band edges as multiples of the goal.
// An outcome at or above Excellent×goal is excellent, at or above
// Target×goal on-target, and so on; below Shortfall×goal is failure.
type ScenarioBands struct {
	Excellent  float64 `json:"excellent"`
	Target     float64 `json:"target"`
	Acceptable float64 `json:"acceptable"`
	Shortfall  float64 `json:"shortfall"`
}

// DefaultScenarioBands returns the standard band edges
func DefaultScenarioBands() ScenarioBands {
	return ScenarioBands{
		Excellent:  1.5,
		Target:     1.0,
		Acceptable: 0.8,
		Shortfall:  0.5,
	}
}

// valid reports whether the edges are positive and strictly descending
func (b ScenarioBands) valid() bool {
	return b.Excellent > b.Target &&
		b.Target > b.Acceptable &&
		b.Acceptable > b.Shortfall &&
		b.Shortfall > 0
}

// Percentiles is the empirical order-statistic ladder over sorted
// outcomes
type Percentiles struct {
	P5  float64 `json:"p5"`
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
}

// HistogramBucket is one fixed-width slice of the outcome range
type HistogramBucket struct {
	Label     string  `json:"label"`
	RangeLow  float64 `json:"range_low"`
	RangeHigh float64 `json:"range_high"`
	Count     int     `json:"count"`
	Fraction  float64 `json:"fraction"`
}

// ScenarioBreakdown gives the fraction of outcomes landing in each
// goal-relative band; the five fractions sum to 1
type ScenarioBreakdown struct {
	Excellent  float64 `json:"excellent"`
	OnTarget   float64 `json:"on_target"`
	Acceptable float64 `json:"acceptable"`
	Shortfall  float64 `json:"shortfall"`
	Failure    float64 `json:"failure"`
}

// Result is a complete simulation outcome. Outcomes is sorted
// ascending; SuccessRate and the breakdown fractions are in [0, 1].
// Results are recomputed fresh per run and never mutated afterwards.
type Result struct {
	Outcomes    []float64         `json:"outcomes"`
	SuccessRate float64           `json:"success_rate"`
	Percentiles Percentiles       `json:"percentiles"`
	Histogram   []HistogramBucket `json:"histogram"`
	Scenarios   ScenarioBreakdown `json:"scenarios"`
	Simulations int               `json:"simulations"`
}

// formatBucketValue renders a dollar amount compactly for bucket labels
func formatBucketValue(v float64) string {
	if v >= 1000000 {
		return fmt.Sprintf("$%.1fM", v/1000000)
	}
	return fmt.Sprintf("$%.0fK", v/1000)
}

// bucketLabel formats a bucket range for display
func bucketLabel(low, high float64) string {
	return formatBucketValue(low) + "-" + formatBucketValue(high)
}
