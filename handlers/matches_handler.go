package handlers

import (
	"encoding/json"
	"net/http"

	"pong-backend/logger"
	"pong-backend/storage"
)

const matchesPageSize = 50

// MatchesHandler serves recent completed matches from the history store.
type MatchesHandler struct {
	store *storage.Store
}

func NewMatchesHandler(store *storage.Store) *MatchesHandler {
	return &MatchesHandler{store: store}
}

func (h *MatchesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	matches, err := h.store.RecentMatches(matchesPageSize)
	if err != nil {
		logger.Log.Errorf("query match history: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"matches": matches}); err != nil {
		logger.Log.Errorf("encode match history: %v", err)
	}
}
