package settings

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/meridianfp/checkup/internal/modules/diagnostics"
	"github.com/meridianfp/checkup/internal/modules/montecarlo"
	"github.com/meridianfp/checkup/internal/modules/returns"
)

// Handler handles settings HTTP requests
type Handler struct {
	repo *Repository
	log  zerolog.Logger
}

// NewHandler creates a new settings handler
func NewHandler(repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "settings").Logger(),
	}
}

// Routes mounts the settings endpoints
func (h *Handler) Routes(r chi.Router) {
	r.Get("/assumptions", h.handleGetAssumptions)
	r.Put("/assumptions", h.handlePutAssumptions)
	r.Get("/scoring-config", h.handleGetScoringConfig)
	r.Put("/scoring-config", h.handlePutScoringConfig)
}

// handleGetAssumptions serves every named overridable parameter plus
// the fixed model constants, so the dashboard can display the model's
// assumptions verbatim.
func (h *Handler) handleGetAssumptions(w http.ResponseWriter, r *http.Request) {
	assumptions, err := h.repo.Assumptions()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	classes := make(map[string]returns.ClassParameters)
	for class, params := range returns.DefaultConfig().ClassParams {
		classes[string(class)] = params
	}

	h.writeJSON(w, http.StatusOK, AssumptionsView{
		Assumptions:      assumptions,
		HistogramBuckets: montecarlo.HistogramBuckets,
		ScenarioBands:    montecarlo.DefaultScenarioBands(),
		AssetClasses:     classes,
		Simulated:        true,
	})
}

func (h *Handler) handlePutAssumptions(w http.ResponseWriter, r *http.Request) {
	var assumptions Assumptions
	if err := json.NewDecoder(r.Body).Decode(&assumptions); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid assumptions payload: "+err.Error())
		return
	}

	if err := h.repo.SaveAssumptions(assumptions); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, assumptions)
}

func (h *Handler) handleGetScoringConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.repo.ScoringConfig()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, cfg)
}

func (h *Handler) handlePutScoringConfig(w http.ResponseWriter, r *http.Request) {
	var cfg diagnostics.ScoringConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid scoring config payload: "+err.Error())
		return
	}

	if err := h.repo.SaveScoringConfig(cfg); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, cfg)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
