package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hsh723/rocket-sourcer-sub001/internal/adapters/repository"
)

// maxRankingLimit caps how many entries one request may list.
const maxRankingLimit = 500

// RankingHandler handles opportunity ranking requests.
type RankingHandler struct {
	deps Dependencies
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps Dependencies) *RankingHandler {
	return &RankingHandler{deps: deps}
}

// HandleTop handles GET /keywords/top?limit=N requests.
func (h *RankingHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("limit must be a positive integer"))
		return
	}
	if n > maxRankingLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", errors.New("limit too large"))
		return
	}
	entries, err := h.deps.TopOpportunities(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleRank handles GET /keywords/rank/{keyword} requests.
func (h *RankingHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/keywords/rank/")
	keyword, err := url.PathUnescape(raw)
	if err != nil || keyword == "" || strings.Contains(keyword, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing keyword"))
		return
	}
	entry, err := h.deps.OpportunityRank(r.Context(), keyword)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
