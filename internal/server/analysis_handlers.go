package server

import (
	"encoding/json"
	mrand "math/rand"
	"net/http"
	"time"

	"github.com/meridianfp/checkup/internal/domain"
	"github.com/meridianfp/checkup/internal/modules/correlation"
	"github.com/meridianfp/checkup/internal/modules/diagnostics"
	"github.com/meridianfp/checkup/internal/modules/income"
	"github.com/meridianfp/checkup/internal/modules/montecarlo"
	"github.com/meridianfp/checkup/internal/modules/snapshots"
	"github.com/meridianfp/checkup/internal/services"
	"github.com/meridianfp/checkup/pkg/formulas"
)

// snapshotRetention bounds the stored trend history
const snapshotRetention = 180

// analysisResponse bundles the full analysis with its presentation
// cards
type analysisResponse struct {
	Analysis diagnostics.PortfolioAnalysis `json:"analysis"`
	Cards    []diagnostics.CardContract    `json:"cards"`
}

// handleAnalyze runs the full diagnostic pipeline. The request body
// may carry a complete input set; any part left empty is filled from
// the stored client data and settings, so both ad-hoc what-if calls
// and plain "analyze my saved portfolio" calls hit the same path.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var input services.AnalysisInput
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid analysis payload: "+err.Error())
			return
		}
	}

	if err := s.fillStoredInput(&input); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	analysis := s.analysis.Analyze(input)
	cards := diagnostics.BuildCards(analysis, input.Holdings)

	if err := s.snapshots.Save(snapshots.FromAnalysis(analysis)); err != nil {
		// The analysis itself succeeded; a failed trend write should
		// not fail the request.
		s.log.Error().Err(err).Msg("Failed to persist analysis snapshot")
	} else if err := s.snapshots.Prune(snapshotRetention); err != nil {
		s.log.Error().Err(err).Msg("Failed to prune snapshots")
	}

	s.writeJSON(w, http.StatusOK, analysisResponse{Analysis: analysis, Cards: cards})
}

// fillStoredInput completes an analysis input from the operational
// store: holdings, profile, checklist and income inputs when the
// request omitted them, and the persisted scoring config when none
// was inlined.
func (s *Server) fillStoredInput(input *services.AnalysisInput) error {
	if len(input.Holdings) == 0 {
		holdings, err := s.clientData.Holdings()
		if err != nil {
			return err
		}
		input.Holdings = holdings
	}

	if input.Client.CurrentAge == 0 {
		profile, err := s.clientData.Profile()
		if err != nil {
			return err
		}
		input.Client = profile.Params
		input.AdviceModel = profile.AdviceModel
		input.AdvisorFee = profile.AdvisorFee
		input.AnnualContribution = profile.AnnualContribution

		checklist, err := s.clientData.Checklist()
		if err != nil {
			return err
		}
		input.Checklist = checklist
	}

	if len(input.Income.Sources) == 0 && input.Income.Expenses.TotalMonthly() == 0 {
		expenses, err := s.clientData.Expenses()
		if err != nil {
			return err
		}
		sources, err := s.clientData.IncomeSources()
		if err != nil {
			return err
		}
		assumptions, err := s.settings.Assumptions()
		if err != nil {
			return err
		}

		input.Income = income.Inputs{
			Expenses:      expenses,
			Sources:       sources,
			CurrentAge:    input.Client.CurrentAge,
			InflationRate: assumptions.InflationRate,
		}
	}

	if len(input.Scoring.Categories) == 0 {
		scoring, err := s.settings.ScoringConfig()
		if err != nil {
			return err
		}
		input.Scoring = scoring
	}

	if input.ObservedReturns == nil && s.history != nil {
		input.ObservedReturns = s.loadObservedReturns(input.Holdings)
	}

	return nil
}

// loadObservedReturns pulls stored daily returns for every held ticker
// plus the benchmark. A ticker without synced history is simply left
// out; the analysis falls back to its simulated series.
func (s *Server) loadObservedReturns(holdings []domain.Holding) map[string][]float64 {
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
		series, err := s.history.ReturnSeries(ticker, formulas.TradingDaysPerYear)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to read stored returns")
			continue
		}
		if len(series) > 0 {
			observed[ticker] = series
		}
	}
	return observed
}

// goalSimulationRequest is the Monte Carlo endpoint payload. Seed 0
// gives a fresh random run; any other value is reproducible.
type goalSimulationRequest struct {
	montecarlo.Params
	Seed int64 `json:"seed"`
}

func (s *Server) handleGoalSimulation(w http.ResponseWriter, r *http.Request) {
	var req goalSimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid simulation payload: "+err.Error())
		return
	}

	if req.Years <= 0 {
		s.writeError(w, http.StatusBadRequest, "years must be positive")
		return
	}
	if req.Volatility < 0 {
		s.writeError(w, http.StatusBadRequest, "volatility must be non-negative")
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	result := s.goalSim.Run(req.Params, mrand.New(mrand.NewSource(seed)))
	s.writeJSON(w, http.StatusOK, result)
}

// correlationRequest carries the per-ticker return series to analyze
type correlationRequest struct {
	Returns map[string][]float64 `json:"returns"`
}

// correlationResponse pairs the matrix with its issue analysis
type correlationResponse struct {
	Matrix correlation.MatrixResult  `json:"matrix"`
	Issues correlation.IssueAnalysis `json:"issues"`
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	var req correlationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid correlation payload: "+err.Error())
		return
	}

	matrix := s.corrEngine.Matrix(req.Returns)
	issues := s.corrEngine.AnalyzeIssues(matrix)

	s.writeJSON(w, http.StatusOK, correlationResponse{Matrix: matrix, Issues: issues})
}

// incomeProjectionRequest carries the coverage model inputs plus the
// dollar view to render
type incomeProjectionRequest struct {
	income.Inputs
	View income.View `json:"view"`
}

func (s *Server) handleIncomeProjection(w http.ResponseWriter, r *http.Request) {
	var req incomeProjectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid projection payload: "+err.Error())
		return
	}

	view := req.View
	switch view {
	case "":
		view = income.ViewNominal
	case income.ViewNominal, income.ViewReal:
	default:
		s.writeError(w, http.StatusBadRequest, "view must be nominal or real")
		return
	}

	if req.CurrentAge <= 0 {
		s.writeError(w, http.StatusBadRequest, "current_age must be positive")
		return
	}

	projection := s.incomeProj.Project(req.Inputs, view)
	s.writeJSON(w, http.StatusOK, projection)
}
