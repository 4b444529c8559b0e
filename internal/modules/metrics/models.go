package metrics

// MetricStatus classifies a metric against its thresholds
type MetricStatus string

const (
	StatusGood          MetricStatus = "good"
	StatusWarning       MetricStatus = "warning"
	StatusPoor          MetricStatus = "poor"
	StatusNotApplicable MetricStatus = "not_applicable"
)

// Rank orders statuses worst-first for sorting; not-applicable sorts last
func (s MetricStatus) Rank() int {
	switch s {
	case StatusPoor:
		return 0
	case StatusWarning:
		return 1
	case StatusGood:
		return 2
	default:
		return 3
	}
}

// Metric pairs a raw value with its classification. A nil value means
// the metric is undefined for the given inputs (zero volatility, flat
// benchmark) and carries StatusNotApplicable.
type Metric struct {
	Value  *float64     `json:"value"`
	Status MetricStatus `json:"status"`
}

// PerformanceMetrics holds the classic portfolio statistics.
// MaxDrawdown is reported as a negative fraction; all ratios are
// annualized.
type PerformanceMetrics struct {
	TotalReturn  Metric `json:"total_return"`
	CAGR         Metric `json:"cagr"`
	Volatility   Metric `json:"volatility"`
	Sharpe       Metric `json:"sharpe"`
	Sortino      Metric `json:"sortino"`
	Calmar       Metric `json:"calmar"`
	MaxDrawdown  Metric `json:"max_drawdown"`
	Beta         Metric `json:"beta"`
	ExpenseRatio Metric `json:"expense_ratio"`
}

// StatusCounts tallies how many metrics landed in each classification
func (p PerformanceMetrics) StatusCounts() (good, warning, poor, notApplicable int) {
	for _, m := range p.all() {
		switch m.Status {
		case StatusGood:
			good++
		case StatusWarning:
			warning++
		case StatusPoor:
			poor++
		case StatusNotApplicable:
			notApplicable++
		}
	}
	return good, warning, poor, notApplicable
}

func (p PerformanceMetrics) all() []Metric {
	return []Metric{
		p.TotalReturn, p.CAGR, p.Volatility, p.Sharpe, p.Sortino,
		p.Calmar, p.MaxDrawdown, p.Beta, p.ExpenseRatio,
	}
}
