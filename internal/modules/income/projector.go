package income

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/meridianfp/checkup/internal/domain"
	"github.com/meridianfp/checkup/pkg/logger"
)

// Projector builds lifetime income coverage projections
type Projector struct {
	terminalAge int
	log         zerolog.Logger
}

// NewProjector creates a projector. A non-positive terminal age falls
// back to the default.
func NewProjector(terminalAge int, log zerolog.Logger) *Projector {
	if terminalAge <= 0 {
		terminalAge = DefaultTerminalAge
	}

	return &Projector{
		terminalAge: terminalAge,
		log:         logger.ForService(log, "income_projector"),
	}
}

// TerminalAge returns the last projected age
func (p *Projector) TerminalAge() int {
	return p.terminalAge
}

// Project walks every age from the client's current age to the
// terminal age and tallies guaranteed income against expenses.
//
// A source is active once its start age is reached; COLA sources
// compound by inflation from their own start age (the monthly amount
// is the amount at start age), non-COLA sources stay flat. Sources
// with an end age stop paying after it unless they carry the lifetime
// guarantee. Expenses compound by inflation from today.
//
// The real view deflates each row by the cumulative inflation factor,
// so core expenses stay flat in today's dollars. Coverage ratios are
// identical across views since both sides of the ratio share the
// deflator.
func (p *Projector) Project(inputs Inputs, view View) Projection {
	if view != ViewReal {
		view = ViewNominal
	}

	projection := Projection{
		View:                view,
		PurchasingPowerLoss: 1 - math.Pow(1+inputs.InflationRate, -CoverageHorizonYears),
	}

	if inputs.CurrentAge > p.terminalAge {
		p.log.Warn().
			Int("current_age", inputs.CurrentAge).
			Int("terminal_age", p.terminalAge).
			Msg("Current age beyond terminal age, empty projection")
		return projection
	}

	rows := make([]CoverageRow, 0, p.terminalAge-inputs.CurrentAge+1)
	for age := inputs.CurrentAge; age <= p.terminalAge; age++ {
		rows = append(rows, p.projectAge(inputs, age, view))
	}
	projection.Rows = rows

	today := rows[0]
	projection.CoreCoverageToday = today.CoreCoverage
	projection.TotalCoverageToday = today.TotalCoverage
	projection.MonthlySurplus = today.TotalIncome - today.TotalExpenses

	aheadIdx := CoverageHorizonYears
	if aheadIdx >= len(rows) {
		aheadIdx = len(rows) - 1
	}
	projection.CoreCoverageAhead = rows[aheadIdx].CoreCoverage

	for _, row := range rows {
		if row.CoreCoverage >= 100 {
			age := row.Age
			projection.FullCoverageAge = &age
			break
		}
	}

	p.log.Debug().
		Str("view", string(view)).
		Int("rows", len(rows)).
		Float64("core_coverage_today", projection.CoreCoverageToday).
		Msg("Projected lifetime income coverage")

	return projection
}

// projectAge computes one row of the coverage table
func (p *Projector) projectAge(inputs Inputs, age int, view View) CoverageRow {
	yearsOut := age - inputs.CurrentAge
	inflation := math.Pow(1+inputs.InflationRate, float64(yearsOut))

	colaIncome := 0.0
	flatIncome := 0.0
	for _, source := range inputs.Sources {
		if !sourceActive(source, age) {
			continue
		}
		if source.COLAAdjusted {
			yearsPaying := age - source.StartAge
			colaIncome += source.MonthlyAmount * math.Pow(1+inputs.InflationRate, float64(yearsPaying))
		} else {
			flatIncome += source.MonthlyAmount
		}
	}

	coreExpenses := inputs.Expenses.CoreMonthly * inflation
	totalExpenses := inputs.Expenses.TotalMonthly() * inflation

	row := CoverageRow{
		Age:           age,
		COLAIncome:    colaIncome,
		NonCOLAIncome: flatIncome,
		TotalIncome:   colaIncome + flatIncome,
		CoreExpenses:  coreExpenses,
		TotalExpenses: totalExpenses,
		CoreCoverage:  coverageRatio(colaIncome+flatIncome, coreExpenses),
		TotalCoverage: coverageRatio(colaIncome+flatIncome, totalExpenses),
	}

	if view == ViewReal && inflation > 0 {
		deflator := 1 / inflation
		row.COLAIncome *= deflator
		row.NonCOLAIncome *= deflator
		row.TotalIncome *= deflator
		row.CoreExpenses *= deflator
		row.TotalExpenses *= deflator
	}

	return row
}

// sourceActive reports whether a source pays at the given age
func sourceActive(source domain.IncomeSource, age int) bool {
	if age < source.StartAge {
		return false
	}
	if source.LifetimeGuarantee || source.EndAge == nil {
		return true
	}
	return age <= *source.EndAge
}

// coverageRatio guards the zero-expense case: with nothing to cover,
// coverage is pinned to 100.
func coverageRatio(income, expenses float64) float64 {
	if expenses <= 0 {
		return 100
	}
	return income / expenses * 100
}
