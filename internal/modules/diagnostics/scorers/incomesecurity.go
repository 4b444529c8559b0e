package scorers

import (
	"fmt"

	"github.com/meridianfp/checkup/internal/domain"
	"github.com/meridianfp/checkup/internal/modules/diagnostics"
	"github.com/meridianfp/checkup/internal/modules/income"
)

// IncomeSecurityScorer grades how much of retirement spending is
// backed by guaranteed income rather than portfolio withdrawals.
type IncomeSecurityScorer struct{}

// NewIncomeSecurityScorer creates a new lifetime income scorer
func NewIncomeSecurityScorer() *IncomeSecurityScorer {
	return &IncomeSecurityScorer{}
}

// Calculate weights coverage of core expenses today (55%) and twenty
// years out (35%), with a 10 point bonus when full coverage is ever
// reached. Coverage beyond the target earns no extra credit.
func (iss *IncomeSecurityScorer) Calculate(
	projection income.Projection,
	sources []domain.IncomeSource,
	config diagnostics.ScoringConfig,
) diagnostics.DiagnosticResult {
	target := config.CoverageTarget
	today := projection.CoreCoverageToday
	ahead := projection.CoreCoverageAhead

	score := minFloat(today, target)/target*55 + minFloat(ahead, target)/target*35
	if projection.FullCoverageAge != nil {
		score += 10
	}
	score = round1(clampScore(score))

	status, severity := config.Classify(diagnostics.CategoryLifetimeIncomeSecurity, score)

	guaranteedMonthly := 0.0
	if len(projection.Rows) > 0 {
		guaranteedMonthly = projection.Rows[0].TotalIncome
	}

	finding := fmt.Sprintf("Guaranteed income covers %.0f%% of core expenses today", today)
	switch {
	case len(projection.Rows) == 0:
		finding = "No income projection available for this age range"
	case today >= target && ahead >= target:
		finding = "Guaranteed income fully covers core expenses for the next twenty years"
	case today >= target:
		finding = fmt.Sprintf("Core expenses are covered today, but coverage erodes to %.0f%% in twenty years", ahead)
	}

	return diagnostics.DiagnosticResult{
		Category:       diagnostics.CategoryLifetimeIncomeSecurity,
		Status:         status,
		Severity:       severity,
		Score:          score,
		Finding:        finding,
		HeadlineMetric: fmt.Sprintf("Coverage %.0f%%", today),
		Details: diagnostics.IncomeSecurityDetails{
			CoverageToday:       today,
			CoverageAhead:       ahead,
			FullCoverageAge:     projection.FullCoverageAge,
			MonthlySurplus:      projection.MonthlySurplus,
			PurchasingPowerLoss: projection.PurchasingPowerLoss,
			GuaranteedMonthly:   guaranteedMonthly,
			SourceCount:         len(sources),
		},
	}
}
