package scorers

import (
	"fmt"
	"sort"

	"github.com/meridianfp/checkup/internal/domain"
	"github.com/meridianfp/checkup/internal/modules/diagnostics"
	"github.com/meridianfp/checkup/internal/modules/metrics"
)

// FeeScorer grades annual cost drag: fund expense ratios blended
// across the portfolio plus any advisory fee.
type FeeScorer struct{}

// NewFeeScorer creates a new fee drag scorer
func NewFeeScorer() *FeeScorer {
	return &FeeScorer{}
}

// Calculate scores total annual cost against the fee ceiling:
// 100 at half the ceiling or less, 75 at the ceiling, 25 at twice
// the ceiling, 0 at 2.5x or worse, linear between the knots. The
// advisory fee is included only for advisor-managed portfolios.
func (fs *FeeScorer) Calculate(
	holdings []domain.Holding,
	adviceModel domain.AdviceModel,
	advisoryFee float64,
	config diagnostics.ScoringConfig,
) diagnostics.DiagnosticResult {
	blended := metrics.BlendedExpenseRatio(holdings)

	advisory := 0.0
	if adviceModel == domain.AdviceAdvisor && advisoryFee > 0 {
		advisory = advisoryFee
	}
	totalCost := blended + advisory

	totalValue := domain.TotalValue(holdings)
	annualCost := totalCost * totalValue

	rows := feeRows(holdings)
	highFeeCount := 0
	for _, row := range rows {
		if row.ExpenseRatio > config.FeeCeiling {
			highFeeCount++
		}
	}

	score := round1(scoreTotalCost(totalCost, config.FeeCeiling))
	status, severity := config.Classify(diagnostics.CategoryFeeDrag, score)

	finding := fmt.Sprintf("Blended cost of %.2f%% per year is within the %.2f%% ceiling",
		totalCost*100, config.FeeCeiling*100)
	if totalCost > config.FeeCeiling {
		finding = fmt.Sprintf("Total cost of %.2f%% per year exceeds the %.2f%% ceiling, about $%.0f annually",
			totalCost*100, config.FeeCeiling*100, annualCost)
	}

	return diagnostics.DiagnosticResult{
		Category:       diagnostics.CategoryFeeDrag,
		Status:         status,
		Severity:       severity,
		Score:          score,
		Finding:        finding,
		HeadlineMetric: fmt.Sprintf("Total cost %.2f%%/yr", totalCost*100),
		Details: diagnostics.FeeDetails{
			BlendedExpenseRatio: blended,
			AdvisoryFee:         advisory,
			TotalCostRatio:      totalCost,
			AnnualCost:          annualCost,
			Rows:                rows,
			HighFeeCount:        highFeeCount,
		},
	}
}

// feeRows lists each fee-reporting holding's annual dollar cost,
// most expensive first.
func feeRows(holdings []domain.Holding) []diagnostics.FeeRow {
	rows := make([]diagnostics.FeeRow, 0, len(holdings))
	for _, h := range holdings {
		if h.ExpenseRatio == nil {
			continue
		}
		rows = append(rows, diagnostics.FeeRow{
			Ticker:       h.Ticker,
			ExpenseRatio: *h.ExpenseRatio,
			AnnualCost:   h.Value() * *h.ExpenseRatio,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AnnualCost > rows[j].AnnualCost
	})
	return rows
}

// scoreTotalCost maps a total cost ratio to 0-100 against the ceiling
func scoreTotalCost(totalCost, ceiling float64) float64 {
	switch {
	case totalCost <= 0.5*ceiling:
		return 100
	case totalCost <= ceiling:
		return 100 - 25*(totalCost-0.5*ceiling)/(0.5*ceiling)
	case totalCost <= 2*ceiling:
		return 75 - 50*(totalCost-ceiling)/ceiling
	case totalCost <= 2.5*ceiling:
		return 25 - 25*(totalCost-2*ceiling)/(0.5*ceiling)
	default:
		return 0
	}
}
