package correlation

// HighCorrelationThreshold flags pairs that move together too closely
const HighCorrelationThreshold = 0.80

// MatrixResult holds a pairwise correlation matrix with its label order.
// The matrix is symmetric with an exact 1.0 diagonal and all values
// in [-1, 1].
type MatrixResult struct {
	Tickers []string    `json:"tickers"`
	Matrix  [][]float64 `json:"matrix"`
}

// IsEmpty reports whether the result carries no computed pairs
func (m MatrixResult) IsEmpty() bool {
	return len(m.Tickers) == 0
}

// Pair identifies two tickers and their correlation
type Pair struct {
	Ticker1     string  `json:"ticker1"`
	Ticker2     string  `json:"ticker2"`
	Correlation float64 `json:"correlation"`
}

// IssueAnalysis summarizes over-concentration risk found in a matrix
type IssueAnalysis struct {
	HasIssues            bool    `json:"has_issues"`
	HighCorrelationPairs []Pair  `json:"high_correlation_pairs"`
	Threshold            float64 `json:"threshold"`
}
