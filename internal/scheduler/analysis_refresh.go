package scheduler

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/meridianfp/checkup/internal/domain"
	"github.com/meridianfp/checkup/internal/modules/clientdata"
	"github.com/meridianfp/checkup/internal/modules/history"
	"github.com/meridianfp/checkup/internal/modules/income"
	"github.com/meridianfp/checkup/internal/modules/settings"
	"github.com/meridianfp/checkup/internal/modules/snapshots"
	"github.com/meridianfp/checkup/internal/services"
	"github.com/meridianfp/checkup/pkg/formulas"
)

// AnalysisRefreshJob recomputes the stored client's analysis and
// persists a snapshot summary, keeping the trend history warm without
// any dashboard traffic.
type AnalysisRefreshJob struct {
	log        zerolog.Logger
	analysis   *services.AnalysisService
	clientData *clientdata.Repository
	settings   *settings.Repository
	snapshots  *snapshots.Repository
	history    *history.Store
	retention  int
}

// NewAnalysisRefreshJob creates a new analysis refresh job. The
// history store may be nil; the refresh then runs purely on simulated
// series.
func NewAnalysisRefreshJob(
	analysis *services.AnalysisService,
	clientData *clientdata.Repository,
	settingsRepo *settings.Repository,
	snapshotsRepo *snapshots.Repository,
	historyStore *history.Store,
	retention int,
	log zerolog.Logger,
) *AnalysisRefreshJob {
	if retention <= 0 {
		retention = 180
	}
	return &AnalysisRefreshJob{
		log:        log.With().Str("job", "analysis_refresh").Logger(),
		analysis:   analysis,
		clientData: clientData,
		settings:   settingsRepo,
		snapshots:  snapshotsRepo,
		history:    historyStore,
		retention:  retention,
	}
}

// Name returns the job name
func (j *AnalysisRefreshJob) Name() string {
	return "analysis_refresh"
}

// Run loads the stored inputs, runs one analysis pass and persists
// the snapshot. The job skips cleanly when no holdings are stored.
func (j *AnalysisRefreshJob) Run() error {
	holdings, err := j.clientData.Holdings()
	if err != nil {
		return fmt.Errorf("failed to load holdings: %w", err)
	}
	if len(holdings) == 0 {
		j.log.Debug().Msg("No holdings stored, skipping analysis refresh")
		return nil
	}

	profile, err := j.clientData.Profile()
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	checklist, err := j.clientData.Checklist()
	if err != nil {
		return fmt.Errorf("failed to load checklist: %w", err)
	}
	expenses, err := j.clientData.Expenses()
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}
	sources, err := j.clientData.IncomeSources()
	if err != nil {
		return fmt.Errorf("failed to load income sources: %w", err)
	}
	scoring, err := j.settings.ScoringConfig()
	if err != nil {
		return fmt.Errorf("failed to load scoring config: %w", err)
	}
	assumptions, err := j.settings.Assumptions()
	if err != nil {
		return fmt.Errorf("failed to load assumptions: %w", err)
	}

	analysis := j.analysis.Analyze(services.AnalysisInput{
		Holdings:           holdings,
		Client:             profile.Params,
		Checklist:          checklist,
		Scoring:            scoring,
		AdviceModel:        profile.AdviceModel,
		AdvisorFee:         profile.AdvisorFee,
		AnnualContribution: profile.AnnualContribution,
		Income: income.Inputs{
			Expenses:      expenses,
			Sources:       sources,
			CurrentAge:    profile.Params.CurrentAge,
			InflationRate: assumptions.InflationRate,
		},
		ObservedReturns: j.observedReturns(holdings),
	})

	if err := j.snapshots.Save(snapshots.FromAnalysis(analysis)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	if err := j.snapshots.Prune(j.retention); err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}

	j.log.Info().
		Float64("total_value", analysis.TotalValue).
		Float64("success_rate", analysis.GoalProjection.SuccessRate).
		Msg("Analysis refreshed")

	return nil
}

// observedReturns reads stored daily returns for the held tickers and
// the benchmark. Missing or unsynced tickers are skipped; the service
// keeps simulated series for those.
func (j *AnalysisRefreshJob) observedReturns(holdings []domain.Holding) map[string][]float64 {
	if j.history == nil {
		return nil
	}

	tickers := make([]string, 0, len(holdings)+1)
	seen := make(map[string]bool)
	for _, h := range holdings {
		if !seen[h.Ticker] {
			seen[h.Ticker] = true
			tickers = append(tickers, h.Ticker)
		}
	}
	if !seen[services.BenchmarkTicker] {
		tickers = append(tickers, services.BenchmarkTicker)
	}

	observed := make(map[string][]float64)
	for _, ticker := range tickers {
		series, err := j.history.ReturnSeries(ticker, formulas.TradingDaysPerYear)
		if err != nil {
			j.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to read stored returns")
			continue
		}
		if len(series) > 0 {
			observed[ticker] = series
		}
	}
	return observed
}
