package formulas

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		expected float64
	}{
		{
			name:     "empty data",
			data:     []float64{},
			expected: 0.0,
		},
		{
			name:     "simple sequence",
			data:     []float64{1, 2, 3, 4, 5},
			expected: 3.0,
		},
		{
			name:     "negative values",
			data:     []float64{-2, 2},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Mean(tt.data)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Mean() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestStdDev(t *testing.T) {
	tests := []struct {
		name      string
		data      []float64
		expected  float64
		tolerance float64
	}{
		{
			name:      "empty data",
			data:      []float64{},
			expected:  0.0,
			tolerance: 0.0,
		},
		{
			name:      "constant data has no spread",
			data:      []float64{5, 5, 5, 5},
			expected:  0.0,
			tolerance: 1e-9,
		},
		{
			name:      "known sample deviation",
			data:      []float64{2, 4, 4, 4, 5, 5, 7, 9},
			expected:  2.138, // sample stddev, n-1 denominator
			tolerance: 0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StdDev(tt.data)
			if math.Abs(result-tt.expected) > tt.tolerance {
				t.Errorf("StdDev() = %v, want %v (±%v)", result, tt.expected, tt.tolerance)
			}
		})
	}
}

func TestAnnualizedVolatility(t *testing.T) {
	tests := []struct {
		name      string
		returns   []float64
		periods   int
		expected  float64
		tolerance float64
	}{
		{
			name:      "empty returns",
			returns:   []float64{},
			periods:   252,
			expected:  0.0,
			tolerance: 0.0,
		},
		{
			name:      "constant returns",
			returns:   []float64{0.001, 0.001, 0.001, 0.001},
			periods:   252,
			expected:  0.0,
			tolerance: 1e-9,
		},
		{
			name:      "alternating returns",
			returns:   []float64{0.01, -0.01, 0.01, -0.01},
			periods:   252,
			expected:  0.1833, // 0.011547 * sqrt(252)
			tolerance: 0.001,
		},
		{
			name:      "monthly annualization",
			returns:   []float64{0.02, -0.02, 0.02, -0.02},
			periods:   12,
			expected:  0.08, // 0.023094 * sqrt(12)
			tolerance: 0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnnualizedVolatility(tt.returns, tt.periods)
			if math.Abs(result-tt.expected) > tt.tolerance {
				t.Errorf("AnnualizedVolatility() = %v, want %v (±%v)", result, tt.expected, tt.tolerance)
			}
		})
	}
}

func TestCalculateReturns(t *testing.T) {
	values := []float64{100, 110, 99}
	returns := CalculateReturns(values)

	if len(returns) != 2 {
		t.Fatalf("expected 2 returns, got %d", len(returns))
	}
	if math.Abs(returns[0]-0.10) > 1e-9 {
		t.Errorf("returns[0] = %v, want 0.10", returns[0])
	}
	if math.Abs(returns[1]-(-0.10)) > 1e-9 {
		t.Errorf("returns[1] = %v, want -0.10", returns[1])
	}

	if got := CalculateReturns([]float64{100}); len(got) != 0 {
		t.Errorf("expected no returns for single value, got %v", got)
	}
}

func TestCumulativeValues(t *testing.T) {
	values := CumulativeValues(100, []float64{0.10, -0.10})

	expected := []float64{100, 110, 99}
	if len(values) != len(expected) {
		t.Fatalf("expected %d values, got %d", len(expected), len(values))
	}
	for i := range expected {
		if math.Abs(values[i]-expected[i]) > 1e-9 {
			t.Errorf("values[%d] = %v, want %v", i, values[i], expected[i])
		}
	}
}

func TestCumulativeValuesRoundTrip(t *testing.T) {
	// Returns derived from a path must rebuild the same path
	original := []float64{100, 103, 101.5, 108, 95}
	returns := CalculateReturns(original)
	rebuilt := CumulativeValues(original[0], returns)

	for i := range original {
		if math.Abs(rebuilt[i]-original[i]) > 1e-6 {
			t.Errorf("rebuilt[%d] = %v, want %v", i, rebuilt[i], original[i])
		}
	}
}

func TestCorrelation(t *testing.T) {
	tests := []struct {
		name      string
		x         []float64
		y         []float64
		expected  float64
		tolerance float64
	}{
		{
			name:      "perfect positive",
			x:         []float64{1, 2, 3, 4},
			y:         []float64{2, 4, 6, 8},
			expected:  1.0,
			tolerance: 1e-9,
		},
		{
			name:      "perfect negative",
			x:         []float64{1, 2, 3, 4},
			y:         []float64{-1, -2, -3, -4},
			expected:  -1.0,
			tolerance: 1e-9,
		},
		{
			name:      "length mismatch",
			x:         []float64{1, 2, 3},
			y:         []float64{1, 2},
			expected:  0.0,
			tolerance: 0.0,
		},
		{
			name:      "zero variance guard",
			x:         []float64{1, 2, 3},
			y:         []float64{5, 5, 5},
			expected:  0.0,
			tolerance: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Correlation(tt.x, tt.y)
			if math.Abs(result-tt.expected) > tt.tolerance {
				t.Errorf("Correlation() = %v, want %v", result, tt.expected)
			}
		})
	}
}
