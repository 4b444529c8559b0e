package income

import "github.com/meridianfp/checkup/internal/domain"

const (
	// DefaultTerminalAge is the last projected age
	DefaultTerminalAge = 95

	// CoverageHorizonYears is the lookahead used for the
	// "coverage in N years" derived fact and the purchasing-power
	// loss figure.
	CoverageHorizonYears = 20
)

// View selects the dollar basis of a projection. Coverage ratios are
// identical across views; only the dollar figures differ.
type View string

const (
	// ViewNominal inflates expenses forward and leaves income as
	// computed.
	ViewNominal View = "nominal"

	// ViewReal deflates every row back to today's dollars.
	ViewReal View = "real"
)

// Inputs carries everything the projection needs
type Inputs struct {
	Expenses      domain.ExpenseProfile `json:"expenses"`
	Sources       []domain.IncomeSource `json:"sources"`
	CurrentAge    int                   `json:"current_age"`
	InflationRate float64               `json:"inflation_rate"`
}

// CoverageRow is one projected age-year
type CoverageRow struct {
	Age           int     `json:"age"`
	COLAIncome    float64 `json:"cola_income"`
	NonCOLAIncome float64 `json:"non_cola_income"`
	TotalIncome   float64 `json:"total_income"`
	CoreExpenses  float64 `json:"core_expenses"`
	TotalExpenses float64 `json:"total_expenses"`
	CoreCoverage  float64 `json:"core_coverage"`
	TotalCoverage float64 `json:"total_coverage"`
}

// Projection is the year-by-year coverage table plus its derived
// facts. Monthly figures throughout; coverage values are percentages.
type Projection struct {
	View                View          `json:"view"`
	Rows                []CoverageRow `json:"rows"`
	CoreCoverageToday   float64       `json:"core_coverage_today"`
	TotalCoverageToday  float64       `json:"total_coverage_today"`
	CoreCoverageAhead   float64       `json:"core_coverage_ahead"`
	FullCoverageAge     *int          `json:"full_coverage_age"`
	MonthlySurplus      float64       `json:"monthly_surplus"`
	PurchasingPowerLoss float64       `json:"purchasing_power_loss"`
}
