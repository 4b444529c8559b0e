package settings

import (
	"fmt"

	"github.com/meridianfp/checkup/internal/modules/correlation"
	"github.com/meridianfp/checkup/internal/modules/income"
	"github.com/meridianfp/checkup/internal/modules/montecarlo"
	"github.com/meridianfp/checkup/internal/modules/returns"
	"github.com/meridianfp/checkup/pkg/formulas"
)

// Assumptions are the model parameters the engine runs with. They are
// loaded once at the boundary and threaded explicitly into every entry
// point; the engine itself never reads stored state.
type Assumptions struct {
	RiskFreeRate             float64 `json:"risk_free_rate"`
	InflationRate            float64 `json:"inflation_rate"`
	TradingDays              int     `json:"trading_days"`
	IntraClassCorrelation    float64 `json:"intra_class_correlation"`
	HighCorrelationThreshold float64 `json:"high_correlation_threshold"`
	DefaultSimulations       int     `json:"default_simulations"`
	TerminalAge              int     `json:"terminal_age"`
}

// DefaultAssumptions returns the standard model parameters
func DefaultAssumptions() Assumptions {
	return Assumptions{
		RiskFreeRate:             0.04,
		InflationRate:            0.025,
		TradingDays:              formulas.TradingDaysPerYear,
		IntraClassCorrelation:    returns.DefaultIntraClassCorrelation,
		HighCorrelationThreshold: correlation.HighCorrelationThreshold,
		DefaultSimulations:       montecarlo.DefaultSimulations,
		TerminalAge:              income.DefaultTerminalAge,
	}
}

// Validate rejects parameter values that would corrupt the model
func (a Assumptions) Validate() error {
	if a.RiskFreeRate < 0 || a.RiskFreeRate > 0.20 {
		return fmt.Errorf("risk_free_rate %v is out of range", a.RiskFreeRate)
	}
	if a.InflationRate < 0 || a.InflationRate > 0.25 {
		return fmt.Errorf("inflation_rate %v is out of range", a.InflationRate)
	}
	if a.TradingDays <= 0 || a.TradingDays > 366 {
		return fmt.Errorf("trading_days %d is out of range", a.TradingDays)
	}
	if a.IntraClassCorrelation <= 0 || a.IntraClassCorrelation >= 1 {
		return fmt.Errorf("intra_class_correlation %v must be in (0, 1)", a.IntraClassCorrelation)
	}
	if a.HighCorrelationThreshold <= 0 || a.HighCorrelationThreshold >= 1 {
		return fmt.Errorf("high_correlation_threshold %v must be in (0, 1)", a.HighCorrelationThreshold)
	}
	if a.DefaultSimulations <= 0 || a.DefaultSimulations > montecarlo.MaxSimulations {
		return fmt.Errorf("default_simulations %d must be in (0, %d]", a.DefaultSimulations, montecarlo.MaxSimulations)
	}
	if a.TerminalAge <= 0 || a.TerminalAge > 120 {
		return fmt.Errorf("terminal_age %d is out of range", a.TerminalAge)
	}
	return nil
}

// AssumptionsView is the read-only document served to the dashboard:
// the stored parameters plus the fixed constants, so the UI can show
// the model's assumptions verbatim.
type AssumptionsView struct {
	Assumptions

	HistogramBuckets int                                `json:"histogram_buckets"`
	ScenarioBands    montecarlo.ScenarioBands           `json:"scenario_bands"`
	AssetClasses     map[string]returns.ClassParameters `json:"asset_classes"`
	Simulated        bool                               `json:"simulated"`
}
