package scorers

import (
	"math"
	"strings"
	"testing"

	"github.com/meridianfp/checkup/internal/domain"
	"github.com/meridianfp/checkup/internal/modules/diagnostics"
	"github.com/meridianfp/checkup/internal/modules/income"
)

func intPtr(v int) *int {
	return &v
}

func testSources() []domain.IncomeSource {
	return []domain.IncomeSource{
		{Name: "Social Security", MonthlyAmount: 2800, StartAge: 67, COLAAdjusted: true, LifetimeGuarantee: true},
		{Name: "Pension", MonthlyAmount: 1500, StartAge: 65, LifetimeGuarantee: true},
	}
}

func TestIncomeSecurityFullCoverage(t *testing.T) {
	scorer := NewIncomeSecurityScorer()

	projection := income.Projection{
		Rows: []income.CoverageRow{
			{Age: 65, TotalIncome: 4300, CoreCoverage: 120},
		},
		CoreCoverageToday: 120,
		CoreCoverageAhead: 105,
		FullCoverageAge:   intPtr(65),
		MonthlySurplus:    800,
	}

	result := scorer.Calculate(projection, testSources(), testConfig())

	// 55 (today capped) + 35 (ahead capped) + 10 (full coverage reached)
	if result.Score != 100 {
		t.Errorf("Score = %v, want 100", result.Score)
	}
	if result.Status != diagnostics.StatusGreen {
		t.Errorf("Status = %v, want GREEN", result.Status)
	}
	if result.Finding != "Guaranteed income fully covers core expenses for the next twenty years" {
		t.Errorf("Finding = %q, want the fully-covered message", result.Finding)
	}

	details := result.Details.(diagnostics.IncomeSecurityDetails)
	if details.GuaranteedMonthly != 4300 {
		t.Errorf("GuaranteedMonthly = %v, want today's income row", details.GuaranteedMonthly)
	}
	if details.SourceCount != 2 {
		t.Errorf("SourceCount = %d, want 2", details.SourceCount)
	}
}

func TestIncomeSecurityCoverageErodes(t *testing.T) {
	scorer := NewIncomeSecurityScorer()

	projection := income.Projection{
		Rows: []income.CoverageRow{
			{Age: 65, TotalIncome: 5200, CoreCoverage: 110},
		},
		CoreCoverageToday: 110,
		CoreCoverageAhead: 80,
		FullCoverageAge:   intPtr(65),
	}

	result := scorer.Calculate(projection, testSources(), testConfig())

	// 55 + 28 + 10 = 93
	if math.Abs(result.Score-93.0) > 0.05 {
		t.Errorf("Score = %v, want 93.0", result.Score)
	}
	if !strings.Contains(result.Finding, "erodes to 80%") {
		t.Errorf("Finding = %q, want the erosion quantified", result.Finding)
	}
}

func TestIncomeSecurityLowCoverage(t *testing.T) {
	scorer := NewIncomeSecurityScorer()

	projection := income.Projection{
		Rows: []income.CoverageRow{
			{Age: 60, TotalIncome: 1600, CoreCoverage: 40},
		},
		CoreCoverageToday: 40,
		CoreCoverageAhead: 30,
	}

	result := scorer.Calculate(projection, testSources(), testConfig())

	// 0.40*55 + 0.30*35 = 32.5, no full-coverage bonus
	if math.Abs(result.Score-32.5) > 0.05 {
		t.Errorf("Score = %v, want 32.5", result.Score)
	}
	if result.Status != diagnostics.StatusRed {
		t.Errorf("Status = %v, want RED", result.Status)
	}
	if result.Severity != diagnostics.SeverityNormal {
		t.Errorf("Severity = %v, want NORMAL above the extreme margin", result.Severity)
	}
	if !strings.Contains(result.Finding, "covers 40% of core expenses today") {
		t.Errorf("Finding = %q, want the coverage quantified", result.Finding)
	}
}

func TestIncomeSecurityEmptyProjection(t *testing.T) {
	scorer := NewIncomeSecurityScorer()

	result := scorer.Calculate(income.Projection{}, nil, testConfig())

	if result.Score != 0 {
		t.Errorf("Score = %v, want 0", result.Score)
	}
	if result.Status != diagnostics.StatusRed {
		t.Errorf("Status = %v, want RED", result.Status)
	}
	if result.Finding != "No income projection available for this age range" {
		t.Errorf("Finding = %q, want the missing-projection message", result.Finding)
	}

	details := result.Details.(diagnostics.IncomeSecurityDetails)
	if details.GuaranteedMonthly != 0 {
		t.Errorf("GuaranteedMonthly = %v, want 0 with no rows", details.GuaranteedMonthly)
	}
	if details.SourceCount != 0 {
		t.Errorf("SourceCount = %d, want 0", details.SourceCount)
	}
}
