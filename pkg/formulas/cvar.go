package formulas

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// CalculateCVaR calculates Conditional Value at Risk (CVaR) at the specified confidence level.
// CVaR is the expected loss given that the loss exceeds the VaR threshold.
//
// Args:
//   - returns: Historical returns (can be negative for losses)
//   - confidence: Confidence level (e.g., 0.95 for 95%)
//
// Returns:
//   - CVaR value (negative for losses, positive for gains in tail)
func CalculateCVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0.0
	}

	if len(returns) == 1 {
		return returns[0]
	}

	// Sort returns in ascending order (worst first)
	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	// Calculate VaR threshold (percentile)
	// For 95% confidence, we want the worst 5% of returns
	tailProbability := 1.0 - confidence
	tailCount := int(math.Ceil(float64(len(sorted)) * tailProbability))

	if tailCount == 0 {
		tailCount = 1
	}
	if tailCount > len(sorted) {
		tailCount = len(sorted)
	}

	// CVaR is the average of returns in the tail
	tailReturns := sorted[:tailCount]
	sum := 0.0
	for _, r := range tailReturns {
		sum += r
	}

	return sum / float64(len(tailReturns))
}

// ParametricCVaR estimates CVaR by sampling a normal return distribution.
// Used when only portfolio-level mean and volatility are known.
//
// Args:
//   - mu: Expected periodic return
//   - sigma: Periodic return volatility
//   - numSamples: Number of samples to draw (e.g., 10000)
//   - confidence: Confidence level (e.g., 0.95)
//   - src: Random source; a fixed seed makes the estimate reproducible
//
// Returns:
//   - CVaR value (negative for tail risk)
func ParametricCVaR(mu, sigma float64, numSamples int, confidence float64, src rand.Source) float64 {
	if numSamples <= 0 || sigma < 0 {
		return 0.0
	}

	normal := distuv.Normal{
		Mu:    mu,
		Sigma: math.Max(sigma, 1e-10),
		Src:   src,
	}

	samples := make([]float64, numSamples)
	for i := range samples {
		samples[i] = normal.Rand()
	}

	return CalculateCVaR(samples, confidence)
}
