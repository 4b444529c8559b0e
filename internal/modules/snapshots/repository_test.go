package snapshots

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianfp/checkup/internal/database"
	"github.com/meridianfp/checkup/internal/modules/diagnostics"
	"github.com/meridianfp/checkup/internal/modules/montecarlo"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	return NewRepository(db.Conn(), zerolog.Nop())
}

func sampleAnalysis(generatedAt time.Time, totalValue float64) diagnostics.PortfolioAnalysis {
	sharpe := 1.1
	return diagnostics.PortfolioAnalysis{
		GeneratedAt: generatedAt,
		TotalValue:  totalValue,
		SharpeRatio: &sharpe,
		Diagnostics: map[diagnostics.Category]diagnostics.DiagnosticResult{
			diagnostics.CategoryDiversification: {
				Category: diagnostics.CategoryDiversification,
				Status:   diagnostics.StatusYellow,
				Score:    55,
			},
			diagnostics.CategoryFeeDrag: {
				Category: diagnostics.CategoryFeeDrag,
				Status:   diagnostics.StatusGreen,
				Score:    90,
			},
		},
		GoalProjection: montecarlo.Result{SuccessRate: 0.68},
	}
}

func TestSaveAndListSnapshots(t *testing.T) {
	repo := newTestRepo(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		s := FromAnalysis(sampleAnalysis(base.Add(time.Duration(i)*time.Hour), 500000+float64(i)*1000))
		require.NoError(t, repo.Save(s))
	}

	list, err := repo.List(10)
	require.NoError(t, err)
	require.Len(t, list, 3)

	// Newest first.
	assert.InDelta(t, 502000, list[0].TotalValue, 1e-9)
	assert.InDelta(t, 500000, list[2].TotalValue, 1e-9)

	summary := list[0].Statuses[diagnostics.CategoryDiversification]
	assert.Equal(t, diagnostics.StatusYellow, summary.Status)
	assert.InDelta(t, 55, summary.Score, 1e-9)
	require.NotNil(t, list[0].SharpeRatio)
	assert.InDelta(t, 1.1, *list[0].SharpeRatio, 1e-9)
	assert.InDelta(t, 0.68, list[0].SuccessRate, 1e-9)
}

func TestLatestWhenEmpty(t *testing.T) {
	repo := newTestRepo(t)

	latest, err := repo.Latest()
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestPruneKeepsMostRecent(t *testing.T) {
	repo := newTestRepo(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s := FromAnalysis(sampleAnalysis(base.Add(time.Duration(i)*time.Hour), float64(i)))
		require.NoError(t, repo.Save(s))
	}

	require.NoError(t, repo.Prune(2))

	list, err := repo.List(10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.InDelta(t, 4, list[0].TotalValue, 1e-9)
	assert.InDelta(t, 3, list[1].TotalValue, 1e-9)
}
