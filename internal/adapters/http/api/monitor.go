package api

import (
	"errors"
	"net/http"

	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/monitor"
)

// MonitorHandler handles monitoring requests.
type MonitorHandler struct {
	deps Dependencies
}

// NewMonitorHandler creates a new monitor handler.
func NewMonitorHandler(deps Dependencies) *MonitorHandler {
	return &MonitorHandler{deps: deps}
}

// HandleRun handles POST /monitor/run requests, running one pass over the
// watch list.
func (h *MonitorHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.RunMonitor(r.Context()))
}

// HandleWatch handles the watch list: GET lists, POST adds, DELETE removes.
func (h *MonitorHandler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Watched())
	case http.MethodPost, http.MethodDelete:
		var entity monitor.Entity
		if !decodeBody(w, r, &entity) {
			return
		}
		if entity.ID == "" {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing entity id"))
			return
		}
		switch entity.Kind {
		case monitor.KindCompetitor, monitor.KindProduct:
		default:
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("kind must be competitor or product"))
			return
		}
		if r.Method == http.MethodPost {
			h.deps.Watch(entity)
		} else {
			h.deps.Unwatch(entity)
		}
		writeJSON(w, http.StatusOK, map[string]int{"watched": len(h.deps.Watched())})
	default:
		http.NotFound(w, r)
	}
}

// HandleThresholds handles GET and PATCH /monitor/thresholds requests.
func (h *MonitorHandler) HandleThresholds(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Thresholds())
	case http.MethodPatch:
		var partial map[string]float64
		if !decodeBody(w, r, &partial) {
			return
		}
		applied := h.deps.UpdateThresholds(partial)
		writeJSON(w, http.StatusOK, map[string]any{
			"applied":    applied,
			"thresholds": h.deps.Thresholds(),
		})
	default:
		http.NotFound(w, r)
	}
}
