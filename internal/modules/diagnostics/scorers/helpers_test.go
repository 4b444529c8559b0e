package scorers

import (
	"github.com/meridianfp/checkup/internal/domain"
	"github.com/meridianfp/checkup/internal/modules/diagnostics"
)

func floatPtr(v float64) *float64 {
	return &v
}

func strPtr(s string) *string {
	return &s
}

func testConfig() diagnostics.ScoringConfig {
	return diagnostics.DefaultScoringConfig()
}

// holding builds a brokerage equity position worth value dollars
func holding(ticker string, value float64) domain.Holding {
	return domain.Holding{
		Ticker:      ticker,
		Shares:      1,
		Price:       value,
		CostBasis:   value,
		AccountType: domain.AccountBrokerage,
		AssetClass:  domain.ClassUSStocks,
	}
}
