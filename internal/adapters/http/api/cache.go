package api

import "net/http"

// CacheHandler handles cache administration requests.
type CacheHandler struct {
	deps Dependencies
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(deps Dependencies) *CacheHandler {
	return &CacheHandler{deps: deps}
}

// HandleStats handles GET /cache/stats requests; DELETE resets the counters.
func (h *CacheHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.CacheStats())
	case http.MethodDelete:
		h.deps.ResetCacheStats()
		writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
	default:
		http.NotFound(w, r)
	}
}

type flushRequest struct {
	Tags []string `json:"tags"`
}

// HandleFlush handles POST /cache/flush requests. Without tags the entire
// namespace is invalidated, otherwise only the tagged entries are.
func (h *CacheHandler) HandleFlush(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req flushRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}
	flushed := h.deps.FlushCache(r.Context(), req.Tags...)
	writeJSON(w, http.StatusOK, map[string]bool{"flushed": flushed})
}
