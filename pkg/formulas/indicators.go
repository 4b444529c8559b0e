package formulas

import (
	"github.com/markcheno/go-talib"
)

// CalculateRSI calculates the Relative Strength Index of a value series
//
// RSI Formula:
//   RSI = 100 - (100 / (1 + RS))
//   where RS = Average Gain / Average Loss over N periods
//
// Args:
//   values: Array of values (prices or portfolio values)
//   length: RSI period (typically 14)
//
// Returns:
//   Current RSI value (0-100) or nil if insufficient data
func CalculateRSI(values []float64, length int) *float64 {
	if len(values) < length+1 {
		return nil
	}

	rsi := talib.Rsi(values, length)

	// Return the last value
	if len(rsi) > 0 && !isNaN(rsi[len(rsi)-1]) {
		result := rsi[len(rsi)-1]
		return &result
	}

	return nil
}

// CalculateSMA calculates the simple moving average and returns its latest value
//
// Args:
//   values: Array of values
//   period: Averaging window (e.g., 50)
//
// Returns:
//   Latest SMA value or nil if insufficient data
func CalculateSMA(values []float64, period int) *float64 {
	if len(values) < period || period <= 0 {
		return nil
	}

	sma := talib.Sma(values, period)

	if len(sma) > 0 && !isNaN(sma[len(sma)-1]) {
		result := sma[len(sma)-1]
		return &result
	}

	return nil
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
