package clientdata

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/meridianfp/checkup/internal/domain"
)

// Handler handles client data HTTP requests
type Handler struct {
	repo *Repository
	log  zerolog.Logger
}

// NewHandler creates a new client data handler
func NewHandler(repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "clientdata").Logger(),
	}
}

// Routes mounts the client data endpoints
func (h *Handler) Routes(r chi.Router) {
	r.Get("/holdings", h.handleGetHoldings)
	r.Put("/holdings", h.handlePutHoldings)
	r.Get("/profile", h.handleGetProfile)
	r.Put("/profile", h.handlePutProfile)
	r.Get("/checklist", h.handleGetChecklist)
	r.Put("/checklist", h.handlePutChecklist)
	r.Get("/expenses", h.handleGetExpenses)
	r.Put("/expenses", h.handlePutExpenses)
	r.Get("/income-sources", h.handleGetIncomeSources)
	r.Put("/income-sources", h.handlePutIncomeSources)
}

func (h *Handler) handleGetHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.repo.Holdings()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if holdings == nil {
		holdings = []domain.Holding{}
	}
	h.writeJSON(w, http.StatusOK, holdings)
}

func (h *Handler) handlePutHoldings(w http.ResponseWriter, r *http.Request) {
	var holdings []domain.Holding
	if err := json.NewDecoder(r.Body).Decode(&holdings); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid holdings payload: "+err.Error())
		return
	}

	if err := h.repo.ReplaceHoldings(holdings); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"count": len(holdings)})
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.repo.Profile()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var profile ClientProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid profile payload: "+err.Error())
		return
	}

	if err := h.repo.SaveProfile(profile); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleGetChecklist(w http.ResponseWriter, r *http.Request) {
	checklist, err := h.repo.Checklist()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, checklist)
}

func (h *Handler) handlePutChecklist(w http.ResponseWriter, r *http.Request) {
	var checklist domain.PlanningChecklist
	if err := json.NewDecoder(r.Body).Decode(&checklist); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid checklist payload: "+err.Error())
		return
	}

	if err := h.repo.SaveChecklist(checklist); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, checklist)
}

func (h *Handler) handleGetExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.repo.Expenses()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, expenses)
}

func (h *Handler) handlePutExpenses(w http.ResponseWriter, r *http.Request) {
	var expenses domain.ExpenseProfile
	if err := json.NewDecoder(r.Body).Decode(&expenses); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid expenses payload: "+err.Error())
		return
	}

	if err := h.repo.SaveExpenses(expenses); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, expenses)
}

func (h *Handler) handleGetIncomeSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.repo.IncomeSources()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sources == nil {
		sources = []domain.IncomeSource{}
	}
	h.writeJSON(w, http.StatusOK, sources)
}

func (h *Handler) handlePutIncomeSources(w http.ResponseWriter, r *http.Request) {
	var sources []domain.IncomeSource
	if err := json.NewDecoder(r.Body).Decode(&sources); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid income sources payload: "+err.Error())
		return
	}

	if err := h.repo.ReplaceIncomeSources(sources); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"count": len(sources)})
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
