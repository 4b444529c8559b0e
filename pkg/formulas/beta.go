package formulas

// CalculateBeta calculates portfolio beta against a benchmark
//
// Beta Formula:
//
//	Beta = Cov(portfolio returns, benchmark returns) / Var(benchmark returns)
//
// Args:
//
//	portfolioReturns: Periodic portfolio returns
//	benchmarkReturns: Periodic benchmark returns (same length)
//
// Returns:
//
//	Beta or nil if the series are unusable or the benchmark has zero variance
func CalculateBeta(portfolioReturns, benchmarkReturns []float64) *float64 {
	if len(portfolioReturns) < 2 || len(portfolioReturns) != len(benchmarkReturns) {
		return nil
	}

	benchVar := Variance(benchmarkReturns)
	if benchVar == 0 {
		return nil
	}

	beta := Covariance(portfolioReturns, benchmarkReturns) / benchVar
	return &beta
}
