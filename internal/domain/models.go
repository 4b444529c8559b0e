package domain

import "fmt"

// RiskTolerance represents a client's risk appetite
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "conservative"
	RiskModerate     RiskTolerance = "moderate"
	RiskAggressive   RiskTolerance = "aggressive"
)

// ParseRiskTolerance converts a string into a RiskTolerance.
// Unknown values are rejected so a typo can never select thresholds silently.
func ParseRiskTolerance(s string) (RiskTolerance, error) {
	switch RiskTolerance(s) {
	case RiskConservative, RiskModerate, RiskAggressive:
		return RiskTolerance(s), nil
	}
	return "", fmt.Errorf("unknown risk tolerance: %q", s)
}

// AdviceModel identifies who manages the portfolio. Advisory fees only
// count toward cost drag when an advisor is actually engaged.
type AdviceModel string

const (
	AdviceSelfDirected AdviceModel = "self_directed"
	AdviceAdvisor      AdviceModel = "advisor"
)

// ParseAdviceModel converts a string into an AdviceModel
func ParseAdviceModel(s string) (AdviceModel, error) {
	switch AdviceModel(s) {
	case AdviceSelfDirected, AdviceAdvisor:
		return AdviceModel(s), nil
	}
	return "", fmt.Errorf("unknown advice model: %q", s)
}

// AccountType represents the tax bucket a holding lives in
type AccountType string

const (
	AccountBrokerage      AccountType = "Brokerage"
	AccountTraditionalIRA AccountType = "Traditional IRA"
	AccountRothIRA        AccountType = "Roth IRA"
)

// IsTaxable reports whether the account bucket is subject to capital gains tax.
// Only taxable accounts can harvest losses.
func (a AccountType) IsTaxable() bool {
	return a == AccountBrokerage
}

// ParseAccountType converts a string into an AccountType
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case AccountBrokerage, AccountTraditionalIRA, AccountRothIRA:
		return AccountType(s), nil
	}
	return "", fmt.Errorf("unknown account type: %q", s)
}

// AssetClass tags a holding with its broad asset category.
// Known classes carry calibrated return/volatility assumptions; anything
// else falls back to generic defaults rather than failing.
type AssetClass string

const (
	ClassUSStocks     AssetClass = "US Stocks"
	ClassIntlStocks   AssetClass = "International Stocks"
	ClassEmergingMkts AssetClass = "Emerging Markets"
	ClassBonds        AssetClass = "Bonds"
	ClassRealEstate   AssetClass = "Real Estate"
	ClassCommodities  AssetClass = "Commodities"
	ClassCash         AssetClass = "Cash"
)

// Holding represents one position in the client's portfolio snapshot.
// The engine treats holdings as immutable inputs.
type Holding struct {
	Ticker       string      `json:"ticker"`
	Name         string      `json:"name"`
	Shares       float64     `json:"shares"`
	Price        float64     `json:"price"`
	CostBasis    float64     `json:"cost_basis"`
	AccountType  AccountType `json:"account_type"`
	AssetClass   AssetClass  `json:"asset_class"`
	ExpenseRatio *float64    `json:"expense_ratio,omitempty"`
	Sector       *string     `json:"sector,omitempty"`
}

// Value returns the market value of the holding (shares x price, never negative)
func (h Holding) Value() float64 {
	v := h.Shares * h.Price
	if v < 0 {
		return 0
	}
	return v
}

// UnrealizedGain returns market value minus cost basis
func (h Holding) UnrealizedGain() float64 {
	return h.Value() - h.CostBasis
}

// TotalValue sums the market value of all holdings
func TotalValue(holdings []Holding) float64 {
	total := 0.0
	for _, h := range holdings {
		total += h.Value()
	}
	return total
}

// ClientParameters holds the client-level inputs that drive threshold
// selection and the goal projection.
type ClientParameters struct {
	RiskTolerance RiskTolerance `json:"risk_tolerance"`
	TargetAmount  float64       `json:"target_amount"`
	YearsToGoal   int           `json:"years_to_goal"`
	CurrentAge    int           `json:"current_age"`
}

// IncomeSource represents one guaranteed income stream
type IncomeSource struct {
	Name              string  `json:"name"`
	MonthlyAmount     float64 `json:"monthly_amount"`
	StartAge          int     `json:"start_age"`
	COLAAdjusted      bool    `json:"cola_adjusted"`
	LifetimeGuarantee bool    `json:"lifetime_guarantee"`
	// EndAge applies only to fixed-term sources; nil means the source pays
	// for life regardless of the lifetime flag.
	EndAge *int `json:"end_age,omitempty"`
}

// ExpenseProfile holds the client's monthly spending split
type ExpenseProfile struct {
	CoreMonthly          float64 `json:"core_monthly"`
	DiscretionaryMonthly float64 `json:"discretionary_monthly"`
	HealthcareMonthly    float64 `json:"healthcare_monthly"`
}

// TotalMonthly returns the full monthly spend
func (e ExpenseProfile) TotalMonthly() float64 {
	return e.CoreMonthly + e.DiscretionaryMonthly + e.HealthcareMonthly
}

// ChecklistItem is one planning task with its completion state
type ChecklistItem struct {
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

// PlanningChecklist tracks the foundational planning tasks the
// diagnostics check for gaps.
type PlanningChecklist struct {
	HasEmergencyFund    bool `json:"has_emergency_fund"`
	HasEstateDocuments  bool `json:"has_estate_documents"`
	HasBeneficiaryCheck bool `json:"has_beneficiary_check"`
	HasInsuranceReview  bool `json:"has_insurance_review"`
	HasTaxPlan          bool `json:"has_tax_plan"`
	HasRebalancePlan    bool `json:"has_rebalance_plan"`
}

// Items returns the checklist in display order
func (c PlanningChecklist) Items() []ChecklistItem {
	return []ChecklistItem{
		{Label: "Emergency fund (3-6 months expenses)", Done: c.HasEmergencyFund},
		{Label: "Estate documents (will or trust)", Done: c.HasEstateDocuments},
		{Label: "Beneficiary designations reviewed", Done: c.HasBeneficiaryCheck},
		{Label: "Insurance coverage reviewed", Done: c.HasInsuranceReview},
		{Label: "Tax plan for withdrawals", Done: c.HasTaxPlan},
		{Label: "Rebalancing plan in place", Done: c.HasRebalancePlan},
	}
}
