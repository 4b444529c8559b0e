package snapshots

import (
	"time"

	"github.com/google/uuid"

	"github.com/meridianfp/checkup/internal/modules/diagnostics"
)

// CategorySummary is one category's status and score as stored in a
// snapshot row
type CategorySummary struct {
	Status diagnostics.Status `json:"status"`
	Score  float64            `json:"score"`
}

// Snapshot is the persisted summary of one completed analysis, kept
// for trend display and the health endpoint. Cards and full detail
// payloads are never persisted; they are rebuilt from inputs on every
// recomputation.
type Snapshot struct {
	ID          string                                   `json:"id"`
	CreatedAt   time.Time                                `json:"created_at"`
	TotalValue  float64                                  `json:"total_value"`
	SharpeRatio *float64                                 `json:"sharpe_ratio"`
	SuccessRate float64                                  `json:"success_rate"`
	Statuses    map[diagnostics.Category]CategorySummary `json:"statuses"`
}

// FromAnalysis builds a snapshot summary from a completed analysis
func FromAnalysis(analysis diagnostics.PortfolioAnalysis) Snapshot {
	statuses := make(map[diagnostics.Category]CategorySummary, len(analysis.Diagnostics))
	for category, result := range analysis.Diagnostics {
		statuses[category] = CategorySummary{Status: result.Status, Score: result.Score}
	}

	return Snapshot{
		ID:          uuid.New().String(),
		CreatedAt:   analysis.GeneratedAt,
		TotalValue:  analysis.TotalValue,
		SharpeRatio: analysis.SharpeRatio,
		SuccessRate: analysis.GoalProjection.SuccessRate,
		Statuses:    statuses,
	}
}
