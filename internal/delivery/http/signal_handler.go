package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"biasbuster-backend/internal/domain"
	"biasbuster-backend/internal/usecase"
)

// SignalHandler serves the latest signal snapshot and the lifecycle history.
type SignalHandler struct {
	snapshots domain.SnapshotRepository
	history   domain.HistoryRepository
	premarket *usecase.PremarketService
}

func NewSignalHandler(snapshots domain.SnapshotRepository, history domain.HistoryRepository, premarket *usecase.PremarketService) *SignalHandler {
	return &SignalHandler{
		snapshots: snapshots,
		history:   history,
		premarket: premarket,
	}
}

// HandleSignals handles GET /api/signals
func (h *SignalHandler) HandleSignals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	doc := h.snapshots.Latest()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

// HandleHistory handles GET /api/history?limit=N
func (h *SignalHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	events := h.history.Recent(limit)
	if events == nil {
		events = []domain.HistoryEvent{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"count":  len(events),
		"events": events,
	})
}

// HandlePremarket handles GET /api/premarket
func (h *SignalHandler) HandlePremarket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.premarket == nil {
		http.Error(w, "Premarket analysis not available", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.premarket.Report())
}

// HandleHealth handles GET /health
func (h *SignalHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	doc := h.snapshots.Latest()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      "ok",
		"lastUpdated": doc.LastUpdated,
		"instruments": len(doc.Data),
	})
}
