package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
)

// CompetitionHandler handles competition analysis requests.
type CompetitionHandler struct {
	deps Dependencies
}

// NewCompetitionHandler creates a new competition handler.
func NewCompetitionHandler(deps Dependencies) *CompetitionHandler {
	return &CompetitionHandler{deps: deps}
}

// HandleAnalyze handles POST /competition/analyze requests with the
// competitor records in the body.
func (h *CompetitionHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var records []model.CompetitorSnapshot
	if !decodeBody(w, r, &records) {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.AnalyzeCompetitors(records))
}

// HandleCategory handles GET /competition/category/{name} requests.
func (h *CompetitionHandler) HandleCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	category := strings.TrimPrefix(r.URL.Path, "/competition/category/")
	if category == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing category"))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.AnalyzeCategory(r.Context(), category))
}
