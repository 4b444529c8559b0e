package formulas

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateCVaR(t *testing.T) {
	tests := []struct {
		name        string
		returns     []float64
		confidence  float64
		want        float64
		tolerance   float64
		description string
	}{
		{
			name:        "normal distribution 95% confidence",
			returns:     []float64{-0.10, -0.05, -0.02, 0.0, 0.02, 0.05, 0.10, 0.15, 0.20, 0.25},
			confidence:  0.95,
			want:        -0.10, // Worst 5% (10 * 0.05 = 0.5, rounded up to 1 return: -0.10)
			tolerance:   0.01,
			description: "CVaR should be average of worst 5% of returns",
		},
		{
			name:        "all negative returns",
			returns:     []float64{-0.20, -0.15, -0.10, -0.05, -0.02},
			confidence:  0.95,
			want:        -0.20, // Worst 5% (only 1 value)
			tolerance:   0.01,
			description: "CVaR should be worst return when all negative",
		},
		{
			name:        "wider tail at lower confidence",
			returns:     []float64{-0.30, -0.20, -0.10, 0.0, 0.10, 0.20, 0.30, 0.40, 0.50, 0.60},
			confidence:  0.80,
			want:        -0.25, // Worst 20% (2 values): (-0.30 + -0.20) / 2
			tolerance:   0.01,
			description: "CVaR should average the whole tail",
		},
		{
			name:        "single return",
			returns:     []float64{-0.10},
			confidence:  0.95,
			want:        -0.10,
			tolerance:   0.01,
			description: "CVaR with single return should be that return",
		},
		{
			name:        "empty returns",
			returns:     []float64{},
			confidence:  0.95,
			want:        0.0,
			tolerance:   0.01,
			description: "CVaR with no returns should be 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateCVaR(tt.returns, tt.confidence)
			assert.InDelta(t, tt.want, result, tt.tolerance, tt.description)
		})
	}
}

func TestParametricCVaR(t *testing.T) {
	// For N(0, sigma) the 95% CVaR is -sigma * phi(z95)/0.05 ≈ -2.063 * sigma
	result := ParametricCVaR(0.0, 0.10, 20000, 0.95, rand.NewPCG(1, 2))
	assert.InDelta(t, -0.2063, result, 0.02, "parametric CVaR should match the analytic normal tail")

	assert.Equal(t, 0.0, ParametricCVaR(0.0, 0.10, 0, 0.95, rand.NewPCG(1, 2)),
		"zero samples should produce zero")
}

func TestParametricCVaRSeedReproducible(t *testing.T) {
	a := ParametricCVaR(0.01, 0.15, 5000, 0.95, rand.NewPCG(7, 7))
	b := ParametricCVaR(0.01, 0.15, 5000, 0.95, rand.NewPCG(7, 7))
	assert.Equal(t, a, b, "same seed must reproduce the same estimate")

	c := ParametricCVaR(0.01, 0.15, 5000, 0.95, rand.NewPCG(8, 8))
	assert.NotEqual(t, a, c, "different seeds should differ")
}
