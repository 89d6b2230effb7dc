package api

import (
	"net/http"

	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
)

// ScoreHandler handles keyword scoring and profitability requests.
type ScoreHandler struct {
	deps Dependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps Dependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// HandleScore handles POST /score requests.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var signal model.KeywordSignal
	if !decodeBody(w, r, &signal) {
		return
	}
	score, err := h.deps.ScoreKeyword(r.Context(), signal)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_signal", err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

// HandleScoreBatch handles POST /score/batch requests.
func (h *ScoreHandler) HandleScoreBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var signals []model.KeywordSignal
	if !decodeBody(w, r, &signals) {
		return
	}
	scores, err := h.deps.ScoreKeywords(r.Context(), signals)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_signal", err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

// HandleProfitability handles POST /profitability requests.
func (h *ScoreHandler) HandleProfitability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var input model.ProfitabilityInput
	if !decodeBody(w, r, &input) {
		return
	}
	report, err := h.deps.CalculateProfitability(input)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
