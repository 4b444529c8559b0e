package returns

import (
	"github.com/meridianfp/checkup/internal/domain"
)

// Default simulation parameters. These are stand-in capital-market
// assumptions, not forecasts; callers can override any of them.
const (
	DefaultTradingDays           = 252
	DefaultIntraClassCorrelation = 0.85
)

// ClassParameters holds the annual return and volatility assumption
// for one asset class.
type ClassParameters struct {
	AnnualReturn     float64 `json:"annual_return"`
	AnnualVolatility float64 `json:"annual_volatility"`
}

// Config controls the return simulation
type Config struct {
	// TradingDays is the number of daily returns generated per ticker
	TradingDays int
	// IntraClassCorrelation is the target correlation between two tickers
	// of the same asset class, achieved by blending a shared class shock
	// with an idiosyncratic shock.
	IntraClassCorrelation float64
	// ClassParams maps each asset class to its return/volatility assumption
	ClassParams map[domain.AssetClass]ClassParameters
	// DefaultParams applies to tickers whose asset class is not in ClassParams
	DefaultParams ClassParameters
}

// DefaultConfig returns the standard simulation assumptions
func DefaultConfig() Config {
	return Config{
		TradingDays:           DefaultTradingDays,
		IntraClassCorrelation: DefaultIntraClassCorrelation,
		ClassParams: map[domain.AssetClass]ClassParameters{
			domain.ClassUSStocks:     {AnnualReturn: 0.090, AnnualVolatility: 0.165},
			domain.ClassIntlStocks:   {AnnualReturn: 0.075, AnnualVolatility: 0.185},
			domain.ClassEmergingMkts: {AnnualReturn: 0.095, AnnualVolatility: 0.220},
			domain.ClassBonds:        {AnnualReturn: 0.035, AnnualVolatility: 0.040},
			domain.ClassRealEstate:   {AnnualReturn: 0.085, AnnualVolatility: 0.190},
			domain.ClassCommodities:  {AnnualReturn: 0.055, AnnualVolatility: 0.200},
			domain.ClassCash:         {AnnualReturn: 0.020, AnnualVolatility: 0.005},
		},
		DefaultParams: ClassParameters{AnnualReturn: 0.070, AnnualVolatility: 0.150},
	}
}

// ParamsForClass resolves the assumption set for an asset class
func (c Config) ParamsForClass(class domain.AssetClass) ClassParameters {
	if params, ok := c.ClassParams[class]; ok {
		return params
	}
	return c.DefaultParams
}
