package formulas

import "math"

// CalculateCAGR calculates the Compound Annual Growth Rate
//
// CAGR Formula:
//
//	CAGR = (End Value / Start Value)^(1/years) - 1
//
// Args:
//
//	startValue: Value at the beginning of the period
//	endValue: Value at the end of the period
//	years: Length of the period in years
//
// Returns:
//
//	CAGR as decimal (0.07 = 7% per year) or nil if inputs are degenerate
func CalculateCAGR(startValue, endValue, years float64) *float64 {
	if startValue <= 0 || endValue <= 0 || years <= 0 {
		return nil
	}

	cagr := math.Pow(endValue/startValue, 1/years) - 1
	return &cagr
}

// CalculateTotalReturn compounds a periodic return series into a total return
// Total Return = Π(1 + r) - 1
func CalculateTotalReturn(returns []float64) float64 {
	growth := 1.0
	for _, r := range returns {
		growth *= 1 + r
	}
	return growth - 1
}

// CalculateCalmarRatio calculates the Calmar Ratio
//
// Calmar Formula:
//
//	Calmar = CAGR / |Max Drawdown|
//
// Args:
//
//	cagr: Compound annual growth rate (decimal)
//	maxDrawdown: Maximum drawdown magnitude (positive fraction)
//
// Returns:
//
//	Calmar ratio or nil if the drawdown is zero
func CalculateCalmarRatio(cagr, maxDrawdown float64) *float64 {
	dd := math.Abs(maxDrawdown)
	if dd == 0 {
		return nil
	}

	calmar := cagr / dd
	return &calmar
}
