package formulas

import (
	"math"
	"testing"
)

func TestCalculateBeta(t *testing.T) {
	benchmark := []float64{0.01, -0.02, 0.015, 0.005, -0.01}

	tests := []struct {
		name      string
		portfolio []float64
		benchmark []float64
		want      *float64
		tolerance float64
	}{
		{
			name:      "identical series has unit beta",
			portfolio: benchmark,
			benchmark: benchmark,
			want:      floatPtr(1.0),
			tolerance: 1e-9,
		},
		{
			name:      "levered portfolio doubles beta",
			portfolio: scaleReturns(benchmark, 2),
			benchmark: benchmark,
			want:      floatPtr(2.0),
			tolerance: 1e-9,
		},
		{
			name:      "inverse exposure",
			portfolio: scaleReturns(benchmark, -1),
			benchmark: benchmark,
			want:      floatPtr(-1.0),
			tolerance: 1e-9,
		},
		{
			name:      "flat benchmark is undefined",
			portfolio: benchmark,
			benchmark: []float64{0.01, 0.01, 0.01, 0.01, 0.01},
			want:      nil,
		},
		{
			name:      "length mismatch is undefined",
			portfolio: benchmark[:3],
			benchmark: benchmark,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateBeta(tt.portfolio, tt.benchmark)

			if tt.want == nil {
				if result != nil {
					t.Errorf("CalculateBeta() = %v, want nil", *result)
				}
				return
			}

			if result == nil {
				t.Fatal("CalculateBeta() = nil, want value")
			}
			if math.Abs(*result-*tt.want) > tt.tolerance {
				t.Errorf("CalculateBeta() = %v, want %v", *result, *tt.want)
			}
		})
	}
}

func scaleReturns(returns []float64, factor float64) []float64 {
	scaled := make([]float64, len(returns))
	for i, r := range returns {
		scaled[i] = r * factor
	}
	return scaled
}
