package montecarlo

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/meridianfp/checkup/pkg/logger"
)

// Simulator runs randomized multi-year goal projections
type Simulator struct {
	bands ScenarioBands
	log   zerolog.Logger
}

// NewSimulator creates a goal simulator. Invalid band edges fall back
// to the defaults.
func NewSimulator(bands ScenarioBands, log zerolog.Logger) *Simulator {
	if !bands.valid() {
		bands = DefaultScenarioBands()
	}

	return &Simulator{
		bands: bands,
		log:   logger.ForService(log, "goal_simulator"),
	}
}

// Bands returns the scenario band edges in effect
func (s *Simulator) Bands() ScenarioBands {
	return s.bands
}

// Run executes the full simulation and derives the outcome statistics.
//
// Each path walks the configured number of annual steps; every step
// draws one standard normal z and applies
//
//	value = value × (1 + expectedReturn + volatility×z) + contribution
//
// A nil rng gets a time-seeded source; passing a seeded *rand.Rand
// makes the run bit-reproducible.
//
// Args:
//
//	params: Projection parameters (count defaults to 5000, capped at 10000)
//	rng: Random source, or nil for a time-seeded one
func (s *Simulator) Run(params Params, rng *rand.Rand) Result {
	runs := params.Simulations
	if runs <= 0 {
		runs = DefaultSimulations
	}
	if runs > MaxSimulations {
		s.log.Warn().
			Int("requested", params.Simulations).
			Int("cap", MaxSimulations).
			Msg("Simulation count capped")
		runs = MaxSimulations
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	outcomes := make([]float64, runs)
	for i := 0; i < runs; i++ {
		outcomes[i] = s.runPath(params, rng)
	}
	sort.Float64s(outcomes)

	successCount := 0
	for _, v := range outcomes {
		if v >= params.Goal {
			successCount++
		}
	}

	result := Result{
		Outcomes:    outcomes,
		SuccessRate: float64(successCount) / float64(runs),
		Percentiles: percentileLadder(outcomes),
		Histogram:   buildHistogram(outcomes),
		Scenarios:   s.scenarioBreakdown(outcomes, params.Goal),
		Simulations: runs,
	}

	s.log.Debug().
		Int("simulations", runs).
		Int("years", params.Years).
		Float64("goal", params.Goal).
		Float64("success_rate", result.SuccessRate).
		Float64("median", result.Percentiles.P50).
		Msg("Completed goal simulation")

	return result
}

// runPath walks one randomized portfolio path to the horizon
func (s *Simulator) runPath(params Params, rng *rand.Rand) float64 {
	value := params.StartingValue
	for year := 0; year < params.Years; year++ {
		z := drawStandardNormal(rng)
		value = value*(1+params.ExpectedReturn+params.Volatility*z) + params.AnnualContribution
	}
	return value
}

// drawStandardNormal samples a standard normal via the Box-Muller
// transform. The first uniform is mapped to (0, 1] to keep the log
// argument away from zero.
func drawStandardNormal(rng *rand.Rand) float64 {
	u1 := 1 - rng.Float64()
	u2 := rng.Float64()
	return math.Sqrt(-2.0*math.Log(u1)) * math.Cos(2.0*math.Pi*u2)
}

// percentileLadder reads the empirical order statistics off the sorted
// outcome vector
func percentileLadder(sorted []float64) Percentiles {
	if len(sorted) == 0 {
		return Percentiles{}
	}

	q := func(p float64) float64 {
		return stat.Quantile(p, stat.Empirical, sorted, nil)
	}

	return Percentiles{
		P5:  q(0.05),
		P10: q(0.10),
		P25: q(0.25),
		P50: q(0.50),
		P75: q(0.75),
		P90: q(0.90),
		P95: q(0.95),
	}
}

// buildHistogram splits [min, max] into the fixed bucket count and
// tallies outcomes per bucket. A degenerate range (all outcomes equal)
// lands everything in the first bucket.
func buildHistogram(sorted []float64) []HistogramBucket {
	if len(sorted) == 0 {
		return nil
	}

	low, high := sorted[0], sorted[len(sorted)-1]
	width := (high - low) / HistogramBuckets

	buckets := make([]HistogramBucket, HistogramBuckets)
	for i := range buckets {
		bucketLow := low + float64(i)*width
		bucketHigh := bucketLow + width
		if i == HistogramBuckets-1 {
			bucketHigh = high
		}
		buckets[i] = HistogramBucket{
			Label:     bucketLabel(bucketLow, bucketHigh),
			RangeLow:  bucketLow,
			RangeHigh: bucketHigh,
		}
	}

	for _, v := range sorted {
		idx := 0
		if width > 0 {
			idx = int((v - low) / width)
			if idx >= HistogramBuckets {
				idx = HistogramBuckets - 1
			}
		}
		buckets[idx].Count++
	}

	total := float64(len(sorted))
	for i := range buckets {
		buckets[i].Fraction = float64(buckets[i].Count) / total
	}

	return buckets
}

// scenarioBreakdown classifies each outcome into a goal-relative band
func (s *Simulator) scenarioBreakdown(outcomes []float64, goal float64) ScenarioBreakdown {
	if len(outcomes) == 0 {
		return ScenarioBreakdown{}
	}

	var breakdown ScenarioBreakdown
	for _, v := range outcomes {
		// A non-positive goal is met by any outcome
		ratio := math.Inf(1)
		if goal > 0 {
			ratio = v / goal
		}

		switch {
		case ratio >= s.bands.Excellent:
			breakdown.Excellent++
		case ratio >= s.bands.Target:
			breakdown.OnTarget++
		case ratio >= s.bands.Acceptable:
			breakdown.Acceptable++
		case ratio >= s.bands.Shortfall:
			breakdown.Shortfall++
		default:
			breakdown.Failure++
		}
	}

	total := float64(len(outcomes))
	breakdown.Excellent /= total
	breakdown.OnTarget /= total
	breakdown.Acceptable /= total
	breakdown.Shortfall /= total
	breakdown.Failure /= total

	return breakdown
}
