package scorers

import (
	"math"
	"strings"
	"testing"

	"github.com/meridianfp/checkup/internal/domain"
	"github.com/meridianfp/checkup/internal/modules/diagnostics"
)

func TestChecklistAllComplete(t *testing.T) {
	scorer := NewChecklistScorer()

	checklist := domain.PlanningChecklist{
		HasEmergencyFund:    true,
		HasEstateDocuments:  true,
		HasBeneficiaryCheck: true,
		HasInsuranceReview:  true,
		HasTaxPlan:          true,
		HasRebalancePlan:    true,
	}

	result := scorer.Calculate(checklist, testConfig())

	if result.Score != 100 {
		t.Errorf("Score = %v, want 100", result.Score)
	}
	if result.Status != diagnostics.StatusGreen {
		t.Errorf("Status = %v, want GREEN", result.Status)
	}
	if result.HeadlineMetric != "6 of 6 complete" {
		t.Errorf("HeadlineMetric = %q, want 6 of 6", result.HeadlineMetric)
	}

	details := result.Details.(diagnostics.ChecklistDetails)
	if details.Completed != 6 || details.Total != 6 {
		t.Errorf("Completed/Total = %d/%d, want 6/6", details.Completed, details.Total)
	}
}

func TestChecklistHalfComplete(t *testing.T) {
	scorer := NewChecklistScorer()

	checklist := domain.PlanningChecklist{
		HasEmergencyFund:   true,
		HasEstateDocuments: true,
		HasTaxPlan:         true,
	}

	result := scorer.Calculate(checklist, testConfig())

	if result.Score != 50 {
		t.Errorf("Score = %v, want 50", result.Score)
	}
	if result.Status != diagnostics.StatusYellow {
		t.Errorf("Status = %v, want YELLOW", result.Status)
	}
	if result.Finding != "3 of 6 planning tasks complete" {
		t.Errorf("Finding = %q, want the completion count", result.Finding)
	}
}

func TestChecklistMissingEmergencyFund(t *testing.T) {
	scorer := NewChecklistScorer()

	checklist := domain.PlanningChecklist{
		HasEstateDocuments:  true,
		HasBeneficiaryCheck: true,
		HasInsuranceReview:  true,
		HasTaxPlan:          true,
		HasRebalancePlan:    true,
	}

	result := scorer.Calculate(checklist, testConfig())

	if math.Abs(result.Score-83.3) > 0.05 {
		t.Errorf("Score = %v, want 83.3", result.Score)
	}
	if !strings.Contains(result.Finding, "No emergency fund in place") {
		t.Errorf("Finding = %q, want the emergency fund called out first", result.Finding)
	}
}

func TestChecklistNothingDone(t *testing.T) {
	scorer := NewChecklistScorer()

	result := scorer.Calculate(domain.PlanningChecklist{}, testConfig())

	if result.Score != 0 {
		t.Errorf("Score = %v, want 0", result.Score)
	}
	if result.Status != diagnostics.StatusRed {
		t.Errorf("Status = %v, want RED", result.Status)
	}
	if result.Severity != diagnostics.SeverityExtreme {
		t.Errorf("Severity = %v, want EXTREME at zero", result.Severity)
	}

	details := result.Details.(diagnostics.ChecklistDetails)
	if len(details.Items) != 6 {
		t.Errorf("Items = %d, want the full checklist listed", len(details.Items))
	}
}
