package scorers

import (
	"fmt"

	"github.com/meridianfp/checkup/internal/domain"
	"github.com/meridianfp/checkup/internal/modules/diagnostics"
)

// ChecklistScorer grades completion of the foundational planning tasks
type ChecklistScorer struct{}

// NewChecklistScorer creates a new planning checklist scorer
func NewChecklistScorer() *ChecklistScorer {
	return &ChecklistScorer{}
}

// Calculate scores the completed fraction of the checklist. The
// emergency fund is called out first when missing since it backstops
// everything else.
func (cs *ChecklistScorer) Calculate(
	checklist domain.PlanningChecklist,
	config diagnostics.ScoringConfig,
) diagnostics.DiagnosticResult {
	items := checklist.Items()

	completed := 0
	for _, item := range items {
		if item.Done {
			completed++
		}
	}

	score := 0.0
	if len(items) > 0 {
		score = round1(float64(completed) / float64(len(items)) * 100)
	}

	status, severity := config.Classify(diagnostics.CategoryPlanningChecklist, score)

	finding := fmt.Sprintf("%d of %d planning tasks complete", completed, len(items))
	if !checklist.HasEmergencyFund {
		finding = fmt.Sprintf("No emergency fund in place; %d of %d planning tasks complete",
			completed, len(items))
	}

	return diagnostics.DiagnosticResult{
		Category:       diagnostics.CategoryPlanningChecklist,
		Status:         status,
		Severity:       severity,
		Score:          score,
		Finding:        finding,
		HeadlineMetric: fmt.Sprintf("%d of %d complete", completed, len(items)),
		Details: diagnostics.ChecklistDetails{
			Items:     items,
			Completed: completed,
			Total:     len(items),
		},
	}
}
