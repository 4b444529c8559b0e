package services

import (
	mrand "math/rand"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/meridianfp/checkup/internal/domain"
	"github.com/meridianfp/checkup/internal/modules/correlation"
	"github.com/meridianfp/checkup/internal/modules/diagnostics"
	"github.com/meridianfp/checkup/internal/modules/diagnostics/scorers"
	"github.com/meridianfp/checkup/internal/modules/income"
	"github.com/meridianfp/checkup/internal/modules/metrics"
	"github.com/meridianfp/checkup/internal/modules/montecarlo"
	"github.com/meridianfp/checkup/internal/modules/returns"
	"github.com/meridianfp/checkup/pkg/formulas"
	"github.com/meridianfp/checkup/pkg/logger"
)

// BenchmarkTicker is the reference index used for beta and
// excess-return comparisons when no real benchmark series is supplied.
const BenchmarkTicker = "SPY"

// minObservedReturns is the shortest stored return series allowed to
// displace a simulated one. Anything shorter would truncate every
// other series at the correlation and aggregation steps for too
// little history in exchange.
const minObservedReturns = 60

// AnalysisInput bundles everything one diagnostic run needs. Scoring
// carries the already-loaded threshold config; a zero value falls back
// to the defaults. Seed 0 means time-seeded (non-reproducible) runs.
type AnalysisInput struct {
	Holdings           []domain.Holding          `json:"holdings"`
	Client             domain.ClientParameters   `json:"client"`
	Checklist          domain.PlanningChecklist  `json:"checklist"`
	Scoring            diagnostics.ScoringConfig `json:"scoring"`
	AdviceModel        domain.AdviceModel        `json:"advice_model"`
	AdvisorFee         float64                   `json:"advisor_fee"`
	Income             income.Inputs             `json:"income"`
	AnnualContribution float64                   `json:"annual_contribution"`
	Seed               int64                     `json:"seed"`

	// ObservedReturns carries per-ticker daily returns from stored
	// price history. Tickers with at least minObservedReturns entries
	// replace their simulated series; the rest stay simulated.
	ObservedReturns map[string][]float64 `json:"observed_returns,omitempty"`
}

// AnalysisService runs the full diagnostic pipeline: simulated return
// series feed the correlation engine and metrics calculator, portfolio
// aggregates feed the goal simulator, income inputs feed the coverage
// projector, and all of it lands in the nine category scorers.
type AnalysisService struct {
	returnsSim  *returns.Simulator
	corrEngine  *correlation.Engine
	metricsCalc *metrics.Calculator
	goalSim     *montecarlo.Simulator
	incomeProj  *income.Projector

	diversification *scorers.DiversificationScorer
	resilience      *scorers.ResilienceScorer
	benchmark       *scorers.BenchmarkScorer
	fees            *scorers.FeeScorer
	tax             *scorers.TaxScorer
	riskAdjusted    *scorers.RiskAdjustedScorer
	checklist       *scorers.ChecklistScorer
	incomeSecurity  *scorers.IncomeSecurityScorer
	performance     *scorers.PerformanceScorer

	thresholds     metrics.Thresholds
	periodsPerYear int
	log            zerolog.Logger
}

// NewAnalysisService creates the pipeline orchestrator. The metric
// thresholds are the moderate-risk baseline; both they and the scoring
// config are risk-adjusted per run from the client's tolerance.
func NewAnalysisService(
	returnsSim *returns.Simulator,
	corrEngine *correlation.Engine,
	metricsCalc *metrics.Calculator,
	goalSim *montecarlo.Simulator,
	incomeProj *income.Projector,
	thresholds metrics.Thresholds,
	periodsPerYear int,
	log zerolog.Logger,
) *AnalysisService {
	if periodsPerYear <= 0 {
		periodsPerYear = formulas.TradingDaysPerYear
	}

	return &AnalysisService{
		returnsSim:  returnsSim,
		corrEngine:  corrEngine,
		metricsCalc: metricsCalc,
		goalSim:     goalSim,
		incomeProj:  incomeProj,

		diversification: scorers.NewDiversificationScorer(),
		resilience:      scorers.NewResilienceScorer(),
		benchmark:       scorers.NewBenchmarkScorer(),
		fees:            scorers.NewFeeScorer(),
		tax:             scorers.NewTaxScorer(),
		riskAdjusted:    scorers.NewRiskAdjustedScorer(),
		checklist:       scorers.NewChecklistScorer(),
		incomeSecurity:  scorers.NewIncomeSecurityScorer(),
		performance:     scorers.NewPerformanceScorer(),

		thresholds:     thresholds,
		periodsPerYear: periodsPerYear,
		log:            logger.ForService(log, "analysis"),
	}
}

// Analyze runs one complete diagnostic pass. Degenerate inputs (no
// holdings, no income sources) still produce a full analysis with
// sentinel results in the affected categories; the pipeline never
// aborts partway.
func (s *AnalysisService) Analyze(input AnalysisInput) diagnostics.PortfolioAnalysis {
	started := time.Now()

	scoring := input.Scoring
	if len(scoring.Categories) == 0 {
		s.log.Debug().Msg("No scoring config supplied, using defaults")
		scoring = diagnostics.DefaultScoringConfig()
	}
	scoring = scoring.Adjusted(input.Client.RiskTolerance)
	thresholds := s.thresholds.Adjusted(input.Client.RiskTolerance)

	seed := input.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	seriesByTicker, benchmarkReturns := s.simulateSeries(input.Holdings, seed)

	if replaced := overlayObserved(seriesByTicker, input.ObservedReturns); replaced > 0 {
		s.log.Debug().Int("tickers", replaced).Msg("Using stored return series")
	}
	if observed, ok := input.ObservedReturns[BenchmarkTicker]; ok && len(observed) >= minObservedReturns {
		benchmarkReturns = observed
	}

	portfolioReturns := s.metricsCalc.PortfolioReturns(input.Holdings, seriesByTicker)
	matrix := s.corrEngine.Matrix(seriesByTicker)
	issues := s.corrEngine.AnalyzeIssues(matrix)
	perf := s.metricsCalc.Calculate(input.Holdings, portfolioReturns, benchmarkReturns, thresholds)

	goal := s.goalSim.Run(s.goalParams(input, portfolioReturns), mrand.New(mrand.NewSource(seed)))
	coverage := s.incomeProj.Project(input.Income, income.ViewNominal)

	diags := map[diagnostics.Category]diagnostics.DiagnosticResult{
		diagnostics.CategoryDiversification:        s.diversification.Calculate(input.Holdings, issues.HighCorrelationPairs, scoring),
		diagnostics.CategoryDownsideResilience:     s.resilience.Calculate(input.Holdings, portfolioReturns, s.periodsPerYear, perf, scoring),
		diagnostics.CategoryBenchmarkPerformance:   s.benchmark.Calculate(perf, benchmarkReturns, s.periodsPerYear, scoring),
		diagnostics.CategoryFeeDrag:                s.fees.Calculate(input.Holdings, input.AdviceModel, input.AdvisorFee, scoring),
		diagnostics.CategoryTaxEfficiency:          s.tax.Calculate(input.Holdings, scoring),
		diagnostics.CategoryRiskAdjustedReturn:     s.riskAdjusted.Calculate(perf, scoring),
		diagnostics.CategoryPlanningChecklist:      s.checklist.Calculate(input.Checklist, scoring),
		diagnostics.CategoryLifetimeIncomeSecurity: s.incomeSecurity.Calculate(coverage, input.Income.Sources, scoring),
		diagnostics.CategoryPerformanceMetrics:     s.performance.Calculate(perf, scoring),
	}

	plan := diagnostics.BuildActionPlan(diags, goal, scoring)

	red, yellow, green := 0, 0, 0
	for _, result := range diags {
		switch result.Status {
		case diagnostics.StatusRed:
			red++
		case diagnostics.StatusYellow:
			yellow++
		case diagnostics.StatusGreen:
			green++
		}
	}

	s.log.Info().
		Int("holdings", len(input.Holdings)).
		Float64("total_value", domain.TotalValue(input.Holdings)).
		Int("red", red).
		Int("yellow", yellow).
		Int("green", green).
		Int("actions", len(plan)).
		Dur("duration", time.Since(started)).
		Msg("Portfolio analysis complete")

	return diagnostics.PortfolioAnalysis{
		GeneratedAt:    time.Now(),
		TotalValue:     domain.TotalValue(input.Holdings),
		SharpeRatio:    perf.Sharpe.Value,
		Diagnostics:    diags,
		ActionPlan:     plan,
		Metrics:        perf,
		Correlations:   issues,
		GoalProjection: goal,
		IncomeCoverage: coverage,
	}
}

// overlayObserved swaps simulated series for observed ones where a
// ticker has enough stored history. Short or missing series keep
// their simulated stand-in, so a part-filled history database never
// degrades the analysis.
func overlayObserved(series map[string][]float64, observed map[string][]float64) int {
	replaced := 0
	for ticker := range series {
		obs, ok := observed[ticker]
		if !ok || len(obs) < minObservedReturns {
			continue
		}
		series[ticker] = obs
		replaced++
	}
	return replaced
}

// simulateSeries generates per-ticker daily returns plus the benchmark
// series. The benchmark rides in the same simulation run so it shares
// the class shock with US equities, which keeps beta meaningful. It is
// stripped back out of the map unless the client actually holds it.
func (s *AnalysisService) simulateSeries(holdings []domain.Holding, seed int64) (map[string][]float64, []float64) {
	hasBenchmark := false
	for _, h := range holdings {
		if h.Ticker == BenchmarkTicker {
			hasBenchmark = true
			break
		}
	}

	augmented := make([]domain.Holding, 0, len(holdings)+1)
	augmented = append(augmented, holdings...)
	if !hasBenchmark {
		augmented = append(augmented, domain.Holding{
			Ticker:     BenchmarkTicker,
			Name:       "Benchmark",
			AssetClass: domain.ClassUSStocks,
		})
	}

	series := s.returnsSim.Simulate(augmented, rand.NewPCG(uint64(seed), uint64(seed)))

	benchmark := series[BenchmarkTicker]
	if !hasBenchmark {
		delete(series, BenchmarkTicker)
	}
	return series, benchmark
}

// goalParams derives Monte Carlo inputs from the portfolio itself:
// expected return blends the class assumptions by value, volatility
// comes from the simulated portfolio series.
func (s *AnalysisService) goalParams(input AnalysisInput, portfolioReturns []float64) montecarlo.Params {
	cfg := s.returnsSim.Config()

	totalValue := domain.TotalValue(input.Holdings)
	expected := cfg.DefaultParams.AnnualReturn
	if totalValue > 0 {
		weighted := 0.0
		for _, h := range input.Holdings {
			weighted += h.Value() * cfg.ParamsForClass(h.AssetClass).AnnualReturn
		}
		expected = weighted / totalValue
	}

	volatility := cfg.DefaultParams.AnnualVolatility
	if len(portfolioReturns) >= 2 {
		volatility = formulas.AnnualizedVolatility(portfolioReturns, s.periodsPerYear)
	}

	return montecarlo.Params{
		StartingValue:      totalValue,
		Years:              input.Client.YearsToGoal,
		AnnualContribution: input.AnnualContribution,
		ExpectedReturn:     expected,
		Volatility:         volatility,
		Goal:               input.Client.TargetAmount,
	}
}
