package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianfp/checkup/internal/domain"
	"github.com/meridianfp/checkup/internal/modules/correlation"
	"github.com/meridianfp/checkup/internal/modules/montecarlo"
)

func troubledResults() map[Category]DiagnosticResult {
	return map[Category]DiagnosticResult{
		CategoryDiversification: {
			Category: CategoryDiversification,
			Status:   StatusRed,
			Severity: SeverityExtreme,
			Score:    15,
			Details: DiversificationDetails{
				TopPositions:      []PositionWeight{{Ticker: "AAPL", Weight: 0.55}},
				TopPositionWeight: 0.55,
				HighCorrelationPairs: []correlation.Pair{
					{Ticker1: "VTI", Ticker2: "SPY", Correlation: 0.97},
				},
			},
		},
		CategoryFeeDrag: {
			Category: CategoryFeeDrag,
			Status:   StatusRed,
			Severity: SeverityNormal,
			Score:    45,
			Details: FeeDetails{
				TotalCostRatio: 0.012,
				AnnualCost:     1200,
				Rows:           []FeeRow{{Ticker: "ARKK", ExpenseRatio: 0.0075, AnnualCost: 225}},
				HighFeeCount:   1,
			},
		},
		CategoryPlanningChecklist: {
			Category: CategoryPlanningChecklist,
			Status:   StatusYellow,
			Score:    50,
			Details: ChecklistDetails{
				Items: []domain.ChecklistItem{
					{Label: "Emergency fund (3-6 months expenses)", Done: false},
					{Label: "Will or trust in place", Done: true},
				},
				Completed: 3,
				Total:     6,
			},
		},
		CategoryTaxEfficiency: {
			Category: CategoryTaxEfficiency,
			Status:   StatusGreen,
			Score:    100,
			Details:  TaxDetails{},
		},
	}
}

func TestBuildActionPlan_SortsByUrgency(t *testing.T) {
	goal := montecarlo.Result{Simulations: 5000, SuccessRate: 0.48}

	plan := BuildActionPlan(troubledResults(), goal, DefaultScoringConfig())

	require.Len(t, plan, 5)

	titles := make([]string, len(plan))
	for i, rec := range plan {
		titles[i] = rec.Title
	}
	assert.Equal(t, []string{
		"Trim the largest position",
		"Consolidate overlapping funds",
		"Cut fund costs",
		"Retirement goal underfunded",
		"Close planning gaps",
	}, titles)

	for i := 1; i < len(plan); i++ {
		assert.LessOrEqual(t, plan[i-1].Priority, plan[i].Priority)
	}

	assert.Equal(t, CategoryDiversification, plan[0].Category)
	assert.Contains(t, plan[0].Description, "AAPL")
	assert.Contains(t, plan[2].Description, "ARKK")
	assert.Contains(t, plan[3].Description, "48%")
	assert.Contains(t, plan[4].Description, "Emergency fund")
}

func TestBuildActionPlan_TruncatesToPlanSize(t *testing.T) {
	config := DefaultScoringConfig()
	config.MaxActionPlanSize = 3
	goal := montecarlo.Result{Simulations: 5000, SuccessRate: 0.48}

	plan := BuildActionPlan(troubledResults(), goal, config)

	require.Len(t, plan, 3)
	assert.Equal(t, "Cut fund costs", plan[2].Title)
}

func TestBuildActionPlan_AllGreenIsEmpty(t *testing.T) {
	results := map[Category]DiagnosticResult{
		CategoryDiversification: {
			Category: CategoryDiversification,
			Status:   StatusGreen,
			Score:    95,
			Details:  DiversificationDetails{},
		},
		CategoryFeeDrag: {
			Category: CategoryFeeDrag,
			Status:   StatusGreen,
			Score:    100,
			Details:  FeeDetails{},
		},
	}
	goal := montecarlo.Result{Simulations: 5000, SuccessRate: 0.91}

	plan := BuildActionPlan(results, goal, DefaultScoringConfig())

	assert.Empty(t, plan)
}

func TestBuildActionPlan_NoSimulationNoGoalAdvice(t *testing.T) {
	plan := BuildActionPlan(map[Category]DiagnosticResult{}, montecarlo.Result{}, DefaultScoringConfig())

	assert.Empty(t, plan)
}

func TestRecommendationsFor_TaxIssuesStack(t *testing.T) {
	result := DiagnosticResult{
		Category: CategoryTaxEfficiency,
		Status:   StatusYellow,
		Score:    60,
		Details: TaxDetails{
			BondsInTaxable: 0.30,
			HarvestCandidates: []HarvestCandidate{
				{Ticker: "VEA", UnrealizedLoss: 2000},
				{Ticker: "ARKK", UnrealizedLoss: 7000},
			},
		},
	}

	recs := recommendationsFor(result)

	require.Len(t, recs, 2)
	assert.Equal(t, "Move bonds into tax-advantaged accounts", recs[0].Title)
	assert.Equal(t, "Harvest available losses", recs[1].Title)
	assert.Contains(t, recs[1].Description, "$9000")
	assert.Less(t, recs[0].Priority, recs[1].Priority)
}

func TestRecommendationsFor_GreenProducesNothing(t *testing.T) {
	result := DiagnosticResult{
		Category: CategoryDiversification,
		Status:   StatusGreen,
		Score:    90,
		Details: DiversificationDetails{
			TopPositions:      []PositionWeight{{Ticker: "VTI", Weight: 0.40}},
			TopPositionWeight: 0.40,
		},
	}

	assert.Nil(t, recommendationsFor(result))
}

func TestRecommendationsFor_ThinMixFallback(t *testing.T) {
	result := DiagnosticResult{
		Category: CategoryDiversification,
		Status:   StatusYellow,
		Score:    65,
		Details: DiversificationDetails{
			TopPositions:      []PositionWeight{{Ticker: "VTI", Weight: 0.22}},
			TopPositionWeight: 0.22,
			EffectiveHoldings: 3.1,
		},
	}

	recs := recommendationsFor(result)

	require.Len(t, recs, 1)
	assert.Equal(t, "Broaden the holding mix", recs[0].Title)
}

func TestGoalRecommendation_PriorityTiers(t *testing.T) {
	config := DefaultScoringConfig()

	mild := goalRecommendation(montecarlo.Result{Simulations: 5000, SuccessRate: 0.60}, config)
	severe := goalRecommendation(montecarlo.Result{Simulations: 5000, SuccessRate: 0.40}, config)

	assert.Equal(t, CategoryLifetimeIncomeSecurity, mild.Category)
	assert.Less(t, severe.Priority, mild.Priority)
	assert.Contains(t, severe.Description, "40%")
	assert.Contains(t, severe.Description, "70%")
}
