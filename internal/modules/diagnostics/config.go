package diagnostics

import (
	"fmt"
	"os"
	"strings"

	"github.com/meridianfp/checkup/internal/domain"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// CategoryThresholds maps a category score to a status. A score at or
// above GreenCutoff is GREEN, at or above YellowCutoff is YELLOW, and
// anything below is RED.
type CategoryThresholds struct {
	GreenCutoff  float64 `yaml:"green_cutoff" json:"green_cutoff"`
	YellowCutoff float64 `yaml:"yellow_cutoff" json:"yellow_cutoff"`
}

// ScoringConfig holds the per-category status cutoffs plus the domain
// thresholds the individual scorers measure against. A config is
// treated as immutable once loaded; risk-tolerance adjustments are
// applied to a copy via Adjusted.
type ScoringConfig struct {
	Categories map[Category]CategoryThresholds `yaml:"categories" json:"categories"`

	// ConcentrationLimit is the maximum acceptable single-position weight.
	ConcentrationLimit float64 `yaml:"concentration_limit" json:"concentration_limit"`
	// SectorLimit is the maximum acceptable single-sector weight.
	SectorLimit float64 `yaml:"sector_limit" json:"sector_limit"`
	// FeeCeiling is the blended expense ratio above which fee drag is flagged.
	FeeCeiling float64 `yaml:"fee_ceiling" json:"fee_ceiling"`
	// SharpeTarget is the risk-adjusted return level considered healthy.
	SharpeTarget float64 `yaml:"sharpe_target" json:"sharpe_target"`
	// DrawdownCeiling is the maximum acceptable drawdown magnitude.
	DrawdownCeiling float64 `yaml:"drawdown_ceiling" json:"drawdown_ceiling"`
	// SuccessTarget is the goal-simulation success rate considered on track.
	SuccessTarget float64 `yaml:"success_target" json:"success_target"`
	// CoverageTarget is the income coverage percentage considered secure.
	CoverageTarget float64 `yaml:"coverage_target" json:"coverage_target"`
	// MaxActionPlanSize bounds the pooled recommendation list.
	MaxActionPlanSize int `yaml:"max_action_plan_size" json:"max_action_plan_size"`
	// ExtremeMargin is how far below the yellow cutoff a RED score must
	// fall before its severity escalates to EXTREME.
	ExtremeMargin float64 `yaml:"extreme_margin" json:"extreme_margin"`
}

// DefaultScoringConfig returns the standard moderate-tolerance config.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Categories: map[Category]CategoryThresholds{
			CategoryDiversification:        {GreenCutoff: 70, YellowCutoff: 40},
			CategoryDownsideResilience:     {GreenCutoff: 70, YellowCutoff: 40},
			CategoryBenchmarkPerformance:   {GreenCutoff: 65, YellowCutoff: 35},
			CategoryFeeDrag:                {GreenCutoff: 80, YellowCutoff: 50},
			CategoryTaxEfficiency:          {GreenCutoff: 75, YellowCutoff: 45},
			CategoryRiskAdjustedReturn:     {GreenCutoff: 70, YellowCutoff: 40},
			CategoryPlanningChecklist:      {GreenCutoff: 80, YellowCutoff: 50},
			CategoryLifetimeIncomeSecurity: {GreenCutoff: 75, YellowCutoff: 45},
			CategoryPerformanceMetrics:     {GreenCutoff: 70, YellowCutoff: 40},
		},
		ConcentrationLimit: 0.25,
		SectorLimit:        0.40,
		FeeCeiling:         0.0050,
		SharpeTarget:       1.00,
		DrawdownCeiling:    0.25,
		SuccessTarget:      0.70,
		CoverageTarget:     100,
		MaxActionPlanSize:  6,
		ExtremeMargin:      20,
	}
}

// Validate checks the config for internal consistency. All categories
// must carry cutoffs and every threshold must be in a sane range; a
// config that fails validation is rejected at load time rather than
// producing silently wrong statuses later.
func (c ScoringConfig) Validate() error {
	var errs []string

	for _, category := range AllCategories() {
		cutoffs, ok := c.Categories[category]
		if !ok {
			errs = append(errs, fmt.Sprintf("categories.%s is required", category))
			continue
		}
		if cutoffs.YellowCutoff < 0 {
			errs = append(errs, fmt.Sprintf("categories.%s.yellow_cutoff must be >= 0", category))
		}
		if cutoffs.GreenCutoff > 100 {
			errs = append(errs, fmt.Sprintf("categories.%s.green_cutoff must be <= 100", category))
		}
		if cutoffs.YellowCutoff >= cutoffs.GreenCutoff {
			errs = append(errs, fmt.Sprintf("categories.%s: yellow_cutoff must be below green_cutoff", category))
		}
	}

	if c.ConcentrationLimit <= 0 || c.ConcentrationLimit > 1 {
		errs = append(errs, "concentration_limit must be in (0, 1]")
	}
	if c.SectorLimit <= 0 || c.SectorLimit > 1 {
		errs = append(errs, "sector_limit must be in (0, 1]")
	}
	if c.FeeCeiling <= 0 {
		errs = append(errs, "fee_ceiling must be positive")
	}
	if c.SharpeTarget <= 0 {
		errs = append(errs, "sharpe_target must be positive")
	}
	if c.DrawdownCeiling <= 0 || c.DrawdownCeiling > 1 {
		errs = append(errs, "drawdown_ceiling must be in (0, 1]")
	}
	if c.SuccessTarget <= 0 || c.SuccessTarget > 1 {
		errs = append(errs, "success_target must be in (0, 1]")
	}
	if c.CoverageTarget <= 0 {
		errs = append(errs, "coverage_target must be positive")
	}
	if c.MaxActionPlanSize <= 0 {
		errs = append(errs, "max_action_plan_size must be greater than 0")
	}
	if c.ExtremeMargin < 0 {
		errs = append(errs, "extreme_margin must be >= 0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid scoring config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Adjusted returns a copy of the config with the domain thresholds
// scaled for the client's risk tolerance. Conservative clients get
// tighter risk ceilings and a lower return bar; aggressive clients the
// reverse. The fee ceiling and the score cutoffs never move: cheap is
// cheap and a 70-point diversification score means the same thing at
// every tolerance. The receiver is never mutated.
func (c ScoringConfig) Adjusted(tolerance domain.RiskTolerance) ScoringConfig {
	adjusted := c
	adjusted.Categories = make(map[Category]CategoryThresholds, len(c.Categories))
	for category, cutoffs := range c.Categories {
		adjusted.Categories[category] = cutoffs
	}

	switch tolerance {
	case domain.RiskConservative:
		adjusted.SharpeTarget = c.SharpeTarget * 0.85
		adjusted.DrawdownCeiling = c.DrawdownCeiling * 0.80
		adjusted.ConcentrationLimit = c.ConcentrationLimit * 0.85
		adjusted.SuccessTarget = c.SuccessTarget + 0.05
	case domain.RiskAggressive:
		adjusted.SharpeTarget = c.SharpeTarget * 1.15
		adjusted.DrawdownCeiling = c.DrawdownCeiling * 1.25
		adjusted.ConcentrationLimit = c.ConcentrationLimit * 1.15
		adjusted.SuccessTarget = c.SuccessTarget - 0.05
	}
	if adjusted.SuccessTarget > 1 {
		adjusted.SuccessTarget = 1
	}

	return adjusted
}

// Classify maps a category score to its status and severity. The
// config is assumed to have passed Validate, so every category carries
// cutoffs.
func (c ScoringConfig) Classify(category Category, score float64) (Status, Severity) {
	cutoffs := c.Categories[category]

	status := StatusRed
	switch {
	case score >= cutoffs.GreenCutoff:
		status = StatusGreen
	case score >= cutoffs.YellowCutoff:
		status = StatusYellow
	}

	severity := SeverityNormal
	if status == StatusRed && score <= cutoffs.YellowCutoff-c.ExtremeMargin {
		severity = SeverityExtreme
	}

	return status, severity
}

// ConfigLoader loads scoring configurations from YAML files or strings.
type ConfigLoader struct {
	log zerolog.Logger
}

// NewConfigLoader creates a new scoring configuration loader.
func NewConfigLoader(log zerolog.Logger) *ConfigLoader {
	return &ConfigLoader{
		log: log.With().Str("component", "scoring_config_loader").Logger(),
	}
}

// LoadFromFile loads a scoring configuration from a YAML file. The
// file is an overlay: categories or thresholds it omits keep their
// default values. The merged config is validated before use.
func (l *ConfigLoader) LoadFromFile(configPath string) (*ScoringConfig, error) {
	l.log.Info().Str("path", configPath).Msg("Loading scoring configuration")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return l.load(data)
}

// LoadFromString loads a scoring configuration from a YAML string.
// This is useful for loading configurations from the database.
func (l *ConfigLoader) LoadFromString(yamlString string) (*ScoringConfig, error) {
	l.log.Debug().Msg("Loading scoring configuration from string")
	return l.load([]byte(yamlString))
}

func (l *ConfigLoader) load(data []byte) (*ScoringConfig, error) {
	config := DefaultScoringConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	l.log.Info().
		Int("categories", len(config.Categories)).
		Float64("fee_ceiling", config.FeeCeiling).
		Float64("success_target", config.SuccessTarget).
		Msg("Scoring configuration loaded")

	return &config, nil
}
