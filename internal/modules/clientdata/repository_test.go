package clientdata

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianfp/checkup/internal/database"
	"github.com/meridianfp/checkup/internal/domain"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	return NewRepository(db.Conn(), zerolog.Nop())
}

func TestHoldingsRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	fee := 0.0035
	sector := "Technology"
	holdings := []domain.Holding{
		{
			Ticker:       "vti",
			Name:         "Total Market",
			Shares:       100,
			Price:        250,
			CostBasis:    20000,
			AccountType:  domain.AccountBrokerage,
			AssetClass:   domain.ClassUSStocks,
			ExpenseRatio: &fee,
			Sector:       &sector,
		},
		{
			Ticker:      "BND",
			Name:        "Bond Fund",
			Shares:      50,
			Price:       80,
			CostBasis:   4500,
			AccountType: domain.AccountTraditionalIRA,
			AssetClass:  domain.ClassBonds,
		},
	}

	require.NoError(t, repo.ReplaceHoldings(holdings))

	stored, err := repo.Holdings()
	require.NoError(t, err)
	require.Len(t, stored, 2)

	// Ordered by value descending; ticker normalized to upper case.
	assert.Equal(t, "VTI", stored[0].Ticker)
	assert.Equal(t, "BND", stored[1].Ticker)
	require.NotNil(t, stored[0].ExpenseRatio)
	assert.InDelta(t, 0.0035, *stored[0].ExpenseRatio, 1e-12)
	require.NotNil(t, stored[0].Sector)
	assert.Equal(t, "Technology", *stored[0].Sector)
	assert.Nil(t, stored[1].ExpenseRatio)
	assert.Nil(t, stored[1].Sector)
}

func TestReplaceHoldingsRejectsUnknownAccountType(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.ReplaceHoldings([]domain.Holding{
		{Ticker: "VTI", Shares: 1, Price: 1, AccountType: "Margin", AssetClass: domain.ClassUSStocks},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown account type")
}

func TestProfileDefaultsUntilSaved(t *testing.T) {
	repo := newTestRepo(t)

	profile, err := repo.Profile()
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile(), profile)

	profile.Params.RiskTolerance = domain.RiskAggressive
	profile.Params.TargetAmount = 1_500_000
	profile.AdviceModel = domain.AdviceAdvisor
	profile.AdvisorFee = 0.01
	profile.AnnualContribution = 20000
	require.NoError(t, repo.SaveProfile(profile))

	stored, err := repo.Profile()
	require.NoError(t, err)
	assert.Equal(t, profile, stored)
}

func TestSaveProfileRejectsUnknownRiskTolerance(t *testing.T) {
	repo := newTestRepo(t)

	profile := DefaultProfile()
	profile.Params.RiskTolerance = "yolo"

	err := repo.SaveProfile(profile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown risk tolerance")
}

func TestIncomeSourcesRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	endAge := 75
	sources := []domain.IncomeSource{
		{Name: "Social Security", MonthlyAmount: 3000, StartAge: 67, COLAAdjusted: true, LifetimeGuarantee: true},
		{Name: "Pension", MonthlyAmount: 1500, StartAge: 65, LifetimeGuarantee: false, EndAge: &endAge},
	}
	require.NoError(t, repo.ReplaceIncomeSources(sources))

	stored, err := repo.IncomeSources()
	require.NoError(t, err)
	require.Len(t, stored, 2)

	// Ordered by start age.
	assert.Equal(t, "Pension", stored[0].Name)
	require.NotNil(t, stored[0].EndAge)
	assert.Equal(t, 75, *stored[0].EndAge)
	assert.True(t, stored[1].COLAAdjusted)
	assert.Nil(t, stored[1].EndAge)
}

func TestChecklistAndExpensesRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	checklist, err := repo.Checklist()
	require.NoError(t, err)
	assert.Equal(t, domain.PlanningChecklist{}, checklist)

	checklist.HasEmergencyFund = true
	checklist.HasTaxPlan = true
	require.NoError(t, repo.SaveChecklist(checklist))

	storedChecklist, err := repo.Checklist()
	require.NoError(t, err)
	assert.Equal(t, checklist, storedChecklist)

	expenses := domain.ExpenseProfile{CoreMonthly: 6000, DiscretionaryMonthly: 1500, HealthcareMonthly: 800}
	require.NoError(t, repo.SaveExpenses(expenses))

	storedExpenses, err := repo.Expenses()
	require.NoError(t, err)
	assert.Equal(t, expenses, storedExpenses)
}
