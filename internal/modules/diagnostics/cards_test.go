package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianfp/checkup/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func cardHolding(ticker string, value float64, account domain.AccountType, er *float64) domain.Holding {
	return domain.Holding{
		Ticker:       ticker,
		Name:         ticker,
		Shares:       1,
		Price:        value,
		CostBasis:    value,
		AccountType:  account,
		AssetClass:   domain.ClassUSStocks,
		ExpenseRatio: er,
	}
}

func TestBuildCards_OrdersMostUrgentFirst(t *testing.T) {
	analysis := PortfolioAnalysis{
		Diagnostics: map[Category]DiagnosticResult{
			CategoryDiversification: {
				Category: CategoryDiversification,
				Status:   StatusYellow,
				Severity: SeverityNormal,
				Score:    60,
				Details:  DiversificationDetails{},
			},
			CategoryFeeDrag: {
				Category: CategoryFeeDrag,
				Status:   StatusRed,
				Severity: SeverityExtreme,
				Score:    25,
				Finding:  "Total cost of 1.20% per year exceeds the 0.50% ceiling",
				Details:  FeeDetails{},
			},
			CategoryPlanningChecklist: {
				Category: CategoryPlanningChecklist,
				Status:   StatusGreen,
				Severity: SeverityNormal,
				Score:    100,
				Details:  ChecklistDetails{},
			},
		},
		ActionPlan: []Recommendation{
			{Category: CategoryFeeDrag, Title: "Cut fund costs", Priority: 13},
			{Category: CategoryDiversification, Title: "Broaden the holding mix", Priority: 30},
		},
	}
	holdings := []domain.Holding{cardHolding("VTI", 100000, domain.AccountBrokerage, nil)}

	cards := BuildCards(analysis, holdings)

	require.Len(t, cards, 3)
	assert.Equal(t, CategoryFeeDrag, cards[0].Category)
	assert.Equal(t, CategoryDiversification, cards[1].Category)
	assert.Equal(t, CategoryPlanningChecklist, cards[2].Category)

	assert.Equal(t, "Fee Drag", cards[0].Title)
	assert.Contains(t, cards[0].WhyItMatters, "basis point")
	assert.Equal(t, SeverityExtreme, cards[0].Severity)
	assert.Contains(t, cards[0].Finding, "exceeds")

	require.Len(t, cards[0].Actions, 1)
	assert.Equal(t, "Cut fund costs", cards[0].Actions[0].Title)
	require.Len(t, cards[1].Actions, 1)
	assert.Empty(t, cards[2].Actions)
}

func TestBuildCards_AccountContextAttribution(t *testing.T) {
	holdings := []domain.Holding{
		cardHolding("AAPL", 70000, domain.AccountBrokerage, nil),
		cardHolding("VTI", 10000, domain.AccountBrokerage, floatPtr(0.0003)),
		cardHolding("VXUS", 20000, domain.AccountRothIRA, floatPtr(0.0007)),
		cardHolding("BND", 20000, domain.AccountRothIRA, floatPtr(0.0005)),
	}
	analysis := PortfolioAnalysis{
		Diagnostics: map[Category]DiagnosticResult{
			CategoryDiversification: {
				Category: CategoryDiversification,
				Status:   StatusRed,
				Details:  DiversificationDetails{},
			},
			CategoryFeeDrag: {
				Category: CategoryFeeDrag,
				Status:   StatusRed,
				Details:  FeeDetails{},
			},
			CategoryTaxEfficiency: {
				Category: CategoryTaxEfficiency,
				Status:   StatusYellow,
				Details:  TaxDetails{},
			},
			CategoryPlanningChecklist: {
				Category: CategoryPlanningChecklist,
				Status:   StatusYellow,
				Details:  ChecklistDetails{},
			},
			CategoryRiskAdjustedReturn: {
				Category: CategoryRiskAdjustedReturn,
				Status:   StatusGreen,
				Details:  RiskAdjustedDetails{},
			},
		},
	}

	cards := BuildCards(analysis, holdings)
	byCategory := make(map[Category]CardContract)
	for _, card := range cards {
		byCategory[card.Category] = card
	}

	// AAPL is 87.5% of the brokerage account, the worst concentration.
	require.NotNil(t, byCategory[CategoryDiversification].AccountContext)
	assert.Equal(t, "Brokerage", *byCategory[CategoryDiversification].AccountContext)

	// Roth blended cost 0.06% beats brokerage's 0.004%.
	require.NotNil(t, byCategory[CategoryFeeDrag].AccountContext)
	assert.Equal(t, "Roth IRA", *byCategory[CategoryFeeDrag].AccountContext)

	require.NotNil(t, byCategory[CategoryTaxEfficiency].AccountContext)
	assert.Equal(t, "Brokerage", *byCategory[CategoryTaxEfficiency].AccountContext)

	assert.Nil(t, byCategory[CategoryPlanningChecklist].AccountContext)
	assert.Nil(t, byCategory[CategoryRiskAdjustedReturn].AccountContext)
}

func TestBuildCards_SingleAccountNoContext(t *testing.T) {
	holdings := []domain.Holding{
		cardHolding("AAPL", 70000, domain.AccountBrokerage, nil),
		cardHolding("VTI", 30000, domain.AccountBrokerage, floatPtr(0.0003)),
	}
	analysis := PortfolioAnalysis{
		Diagnostics: map[Category]DiagnosticResult{
			CategoryDiversification: {
				Category: CategoryDiversification,
				Status:   StatusRed,
				Details:  DiversificationDetails{},
			},
			CategoryTaxEfficiency: {
				Category: CategoryTaxEfficiency,
				Status:   StatusRed,
				Details:  TaxDetails{},
			},
		},
	}

	for _, card := range BuildCards(analysis, holdings) {
		assert.Nil(t, card.AccountContext, "category %s", card.Category)
	}
}

func TestBuildCards_EveryCategoryHasCopy(t *testing.T) {
	for _, category := range AllCategories() {
		text, ok := cardCopyByCategory[category]
		require.True(t, ok, "category %s", category)
		assert.NotEmpty(t, text.Title)
		assert.NotEmpty(t, text.WhyItMatters)
	}
}
