package diagnostics

import (
	"time"

	"github.com/meridianfp/checkup/internal/domain"
	"github.com/meridianfp/checkup/internal/modules/correlation"
	"github.com/meridianfp/checkup/internal/modules/income"
	"github.com/meridianfp/checkup/internal/modules/metrics"
	"github.com/meridianfp/checkup/internal/modules/montecarlo"
)

// Category identifies one diagnostic dimension
type Category string

const (
	CategoryDiversification        Category = "diversification"
	CategoryDownsideResilience     Category = "downside_resilience"
	CategoryBenchmarkPerformance   Category = "benchmark_performance"
	CategoryFeeDrag                Category = "fee_drag"
	CategoryTaxEfficiency          Category = "tax_efficiency"
	CategoryRiskAdjustedReturn     Category = "risk_adjusted_return"
	CategoryPlanningChecklist      Category = "planning_checklist"
	CategoryLifetimeIncomeSecurity Category = "lifetime_income_security"
	CategoryPerformanceMetrics     Category = "performance_metrics"
)

// AllCategories returns every category in display order
func AllCategories() []Category {
	return []Category{
		CategoryDiversification,
		CategoryDownsideResilience,
		CategoryBenchmarkPerformance,
		CategoryFeeDrag,
		CategoryTaxEfficiency,
		CategoryRiskAdjustedReturn,
		CategoryPlanningChecklist,
		CategoryLifetimeIncomeSecurity,
		CategoryPerformanceMetrics,
	}
}

// displayOrder maps a category to its position in AllCategories
func (c Category) displayOrder() int {
	for i, candidate := range AllCategories() {
		if candidate == c {
			return i
		}
	}
	return len(AllCategories())
}

// Status is the traffic-light classification of a category
type Status string

const (
	StatusRed    Status = "RED"
	StatusYellow Status = "YELLOW"
	StatusGreen  Status = "GREEN"
)

// Rank orders statuses most-urgent-first: red sorts before yellow,
// yellow before green. Unknown values sort last.
func (s Status) Rank() int {
	switch s {
	case StatusRed:
		return 0
	case StatusYellow:
		return 1
	case StatusGreen:
		return 2
	default:
		return 3
	}
}

// Severity is the coarse alerting tier layered on top of status
type Severity string

const (
	SeverityNormal  Severity = "NORMAL"
	SeverityExtreme Severity = "EXTREME"
)

// Details is the category-specific payload of a diagnostic result.
// One concrete struct exists per category; consumers switch on the
// concrete type rather than probing optional fields.
type Details interface {
	isDetails()
}

// PositionWeight is one holding's share of portfolio value
type PositionWeight struct {
	Ticker string  `json:"ticker"`
	Weight float64 `json:"weight"`
}

// SectorWeight is one sector's share of portfolio value
type SectorWeight struct {
	Sector string  `json:"sector"`
	Weight float64 `json:"weight"`
}

// DiversificationDetails carries concentration facts
type DiversificationDetails struct {
	TopPositions         []PositionWeight   `json:"top_positions"`
	SectorWeights        []SectorWeight     `json:"sector_weights"`
	Herfindahl           float64            `json:"herfindahl"`
	EffectiveHoldings    float64            `json:"effective_holdings"`
	TopPositionWeight    float64            `json:"top_position_weight"`
	HighCorrelationPairs []correlation.Pair `json:"high_correlation_pairs"`
}

func (DiversificationDetails) isDetails() {}

// ResilienceDetails carries drawdown and tail-risk facts.
// RecoveryMomentum is the RSI of the cumulative value path; readings
// under 30 mean the portfolio is still deep in drawdown territory.
// ParametricCVaR95 is the sampled normal-tail estimate alongside the
// historical CVaR95; a large gap between the two flags fat tails.
type ResilienceDetails struct {
	MaxDrawdown         *float64 `json:"max_drawdown"`
	CVaR95              float64  `json:"cvar_95"`
	ParametricCVaR95    *float64 `json:"parametric_cvar_95"`
	DownsideDeviation   *float64 `json:"downside_deviation"`
	RecentVolatility    *float64 `json:"recent_volatility"`
	UlcerIndex          *float64 `json:"ulcer_index"`
	DaysInDrawdown      int      `json:"days_in_drawdown"`
	DefensiveAllocation float64  `json:"defensive_allocation"`
	Sortino             *float64 `json:"sortino"`
	RecoveryMomentum    *float64 `json:"recovery_momentum"`
}

func (ResilienceDetails) isDetails() {}

// BenchmarkDetails compares the portfolio against its reference index
type BenchmarkDetails struct {
	PortfolioCAGR *float64 `json:"portfolio_cagr"`
	BenchmarkCAGR *float64 `json:"benchmark_cagr"`
	ExcessReturn  *float64 `json:"excess_return"`
	Beta          *float64 `json:"beta"`
}

func (BenchmarkDetails) isDetails() {}

// FeeRow is one holding's cost line
type FeeRow struct {
	Ticker       string  `json:"ticker"`
	ExpenseRatio float64 `json:"expense_ratio"`
	AnnualCost   float64 `json:"annual_cost"`
}

// FeeDetails carries the cost-drag breakdown
type FeeDetails struct {
	BlendedExpenseRatio float64  `json:"blended_expense_ratio"`
	AdvisoryFee         float64  `json:"advisory_fee"`
	TotalCostRatio      float64  `json:"total_cost_ratio"`
	AnnualCost          float64  `json:"annual_cost"`
	Rows                []FeeRow `json:"rows"`
	HighFeeCount        int      `json:"high_fee_count"`
}

func (FeeDetails) isDetails() {}

// HarvestCandidate is a taxable position currently held at a loss
type HarvestCandidate struct {
	Ticker         string  `json:"ticker"`
	UnrealizedLoss float64 `json:"unrealized_loss"`
}

// TaxDetails carries account-location and loss-harvest facts
type TaxDetails struct {
	TaxableValue      float64            `json:"taxable_value"`
	AdvantagedValue   float64            `json:"advantaged_value"`
	TaxableShare      float64            `json:"taxable_share"`
	HarvestCandidates []HarvestCandidate `json:"harvest_candidates"`
	BondsInTaxable    float64            `json:"bonds_in_taxable"`
}

func (TaxDetails) isDetails() {}

// RiskAdjustedDetails carries the risk-efficiency ratios
type RiskAdjustedDetails struct {
	Sharpe       *float64 `json:"sharpe"`
	Sortino      *float64 `json:"sortino"`
	Calmar       *float64 `json:"calmar"`
	Volatility   *float64 `json:"volatility"`
	SharpeTarget float64  `json:"sharpe_target"`
}

func (RiskAdjustedDetails) isDetails() {}

// ChecklistDetails carries the planning-task completion state
type ChecklistDetails struct {
	Items     []domain.ChecklistItem `json:"items"`
	Completed int                    `json:"completed"`
	Total     int                    `json:"total"`
}

func (ChecklistDetails) isDetails() {}

// IncomeSecurityDetails carries the lifetime coverage facts
type IncomeSecurityDetails struct {
	CoverageToday       float64 `json:"coverage_today"`
	CoverageAhead       float64 `json:"coverage_ahead"`
	FullCoverageAge     *int    `json:"full_coverage_age"`
	MonthlySurplus      float64 `json:"monthly_surplus"`
	PurchasingPowerLoss float64 `json:"purchasing_power_loss"`
	GuaranteedMonthly   float64 `json:"guaranteed_monthly"`
	SourceCount         int     `json:"source_count"`
}

func (IncomeSecurityDetails) isDetails() {}

// PerformanceDetails carries the full metric set with its
// classification tallies
type PerformanceDetails struct {
	Metrics       metrics.PerformanceMetrics `json:"metrics"`
	Good          int                        `json:"good"`
	Warning       int                        `json:"warning"`
	Poor          int                        `json:"poor"`
	NotApplicable int                        `json:"not_applicable"`
}

func (PerformanceDetails) isDetails() {}

// DiagnosticResult is one category's scored outcome
type DiagnosticResult struct {
	Category       Category `json:"category"`
	Status         Status   `json:"status"`
	Severity       Severity `json:"severity"`
	Score          float64  `json:"score"`
	Finding        string   `json:"finding"`
	HeadlineMetric string   `json:"headline_metric"`
	Details        Details  `json:"details"`
}

// Recommendation is one suggested action. Lower priority values are
// more urgent.
type Recommendation struct {
	Category    Category `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    int      `json:"priority"`
	Impact      string   `json:"impact"`
}

// CardContract wraps a diagnostic result with presentation-agnostic
// metadata. Cards are rebuilt on every recomputation and never
// persisted.
type CardContract struct {
	Category       Category         `json:"category"`
	Title          string           `json:"title"`
	WhyItMatters   string           `json:"why_it_matters"`
	Status         Status           `json:"status"`
	Severity       Severity         `json:"severity"`
	Score          float64          `json:"score"`
	Finding        string           `json:"finding"`
	HeadlineMetric string           `json:"headline_metric"`
	AccountContext *string          `json:"account_context,omitempty"`
	Actions        []Recommendation `json:"actions"`
	Details        Details          `json:"details"`
}

// PortfolioAnalysis is the complete engine output for one input set
type PortfolioAnalysis struct {
	GeneratedAt    time.Time                     `json:"generated_at"`
	TotalValue     float64                       `json:"total_value"`
	SharpeRatio    *float64                      `json:"sharpe_ratio"`
	Diagnostics    map[Category]DiagnosticResult `json:"diagnostics"`
	ActionPlan     []Recommendation              `json:"action_plan"`
	Metrics        metrics.PerformanceMetrics    `json:"metrics"`
	Correlations   correlation.IssueAnalysis     `json:"correlations"`
	GoalProjection montecarlo.Result             `json:"goal_projection"`
	IncomeCoverage income.Projection             `json:"income_coverage"`
}
