package correlation

import (
	"math"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/meridianfp/checkup/pkg/formulas"
	"github.com/meridianfp/checkup/pkg/logger"
)

// Engine computes pairwise Pearson correlation across return series
// and flags over-concentration risk.
type Engine struct {
	threshold float64
	log       zerolog.Logger
}

// NewEngine creates a correlation engine. A non-positive threshold
// falls back to HighCorrelationThreshold.
func NewEngine(threshold float64, log zerolog.Logger) *Engine {
	if threshold <= 0 {
		threshold = HighCorrelationThreshold
	}

	return &Engine{
		threshold: threshold,
		log:       logger.ForService(log, "correlation"),
	}
}

// Threshold returns the configured high-correlation cutoff
func (e *Engine) Threshold() float64 {
	return e.threshold
}

// Matrix computes the pairwise correlation matrix over the given
// return series. Tickers are ordered alphabetically. Series of unequal
// length are truncated to the shortest; fewer than 2 tickers yield an
// empty result.
func (e *Engine) Matrix(returnsByTicker map[string][]float64) MatrixResult {
	tickers := make([]string, 0, len(returnsByTicker))
	for ticker := range returnsByTicker {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	if len(tickers) < 2 {
		return MatrixResult{Tickers: []string{}, Matrix: [][]float64{}}
	}

	// Align series lengths by truncating to the shortest
	minLen := -1
	for _, ticker := range tickers {
		if n := len(returnsByTicker[ticker]); minLen < 0 || n < minLen {
			minLen = n
		}
	}
	if minLen < 2 {
		e.log.Warn().Int("length", minLen).Msg("Series too short for correlation")
		return MatrixResult{Tickers: []string{}, Matrix: [][]float64{}}
	}

	aligned := make([][]float64, len(tickers))
	for i, ticker := range tickers {
		aligned[i] = returnsByTicker[ticker][:minLen]
	}

	// Compute the upper triangle and mirror; diagonal forced to 1.0
	n := len(tickers)
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		sym.SetSym(i, i, 1.0)
		for j := i + 1; j < n; j++ {
			corr := formulas.Correlation(aligned[i], aligned[j])
			corr = clampCorrelation(corr)
			sym.SetSym(i, j, corr)
		}
	}

	matrix := make([][]float64, n)
	for i := 0; i < n; i++ {
		matrix[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			matrix[i][j] = sym.At(i, j)
		}
	}

	e.log.Debug().
		Int("tickers", n).
		Int("series_length", minLen).
		Msg("Computed correlation matrix")

	return MatrixResult{Tickers: tickers, Matrix: matrix}
}

// AnalyzeIssues flags every off-diagonal pair whose |correlation|
// exceeds the threshold, ranked by magnitude descending.
func (e *Engine) AnalyzeIssues(result MatrixResult) IssueAnalysis {
	analysis := IssueAnalysis{
		HighCorrelationPairs: []Pair{},
		Threshold:            e.threshold,
	}

	for i := 0; i < len(result.Tickers); i++ {
		for j := i + 1; j < len(result.Tickers); j++ {
			corr := result.Matrix[i][j]
			if math.Abs(corr) > e.threshold {
				analysis.HighCorrelationPairs = append(analysis.HighCorrelationPairs, Pair{
					Ticker1:     result.Tickers[i],
					Ticker2:     result.Tickers[j],
					Correlation: corr,
				})
			}
		}
	}

	sort.Slice(analysis.HighCorrelationPairs, func(a, b int) bool {
		return math.Abs(analysis.HighCorrelationPairs[a].Correlation) >
			math.Abs(analysis.HighCorrelationPairs[b].Correlation)
	})

	analysis.HasIssues = len(analysis.HighCorrelationPairs) > 0

	if analysis.HasIssues {
		e.log.Info().
			Int("pairs", len(analysis.HighCorrelationPairs)).
			Float64("threshold", e.threshold).
			Msg("High correlation pairs detected")
	}

	return analysis
}

// clampCorrelation keeps floating-point noise inside [-1, 1]
func clampCorrelation(corr float64) float64 {
	if corr > 1 {
		return 1
	}
	if corr < -1 {
		return -1
	}
	return corr
}
