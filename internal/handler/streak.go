package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/fernside/internal/store"
	"github.com/dukerupert/fernside/internal/streak"
)

type StreakHandler struct {
	streaks *store.StreakStore
	logger  *slog.Logger
}

func NewStreakHandler(streaks *store.StreakStore, logger *slog.Logger) *StreakHandler {
	return &StreakHandler{streaks: streaks, logger: logger}
}

func (h *StreakHandler) Get(w http.ResponseWriter, r *http.Request) {
	data, err := h.streaks.Get()
	if err != nil {
		h.logger.Error("get streak", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load streak")
		return
	}

	// The stored today-count belongs to the last streak day; on a new day it
	// reads as zero until a session completes.
	if data.LastStreakDate != streak.Today(time.Now()) {
		data.TodaySessionCount = 0
	}

	writeJSON(w, http.StatusOK, data)
}
