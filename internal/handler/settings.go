package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/fernside/internal/model"
	"github.com/dukerupert/fernside/internal/mood"
	"github.com/dukerupert/fernside/internal/store"
	syncer "github.com/dukerupert/fernside/internal/sync"
	"github.com/dukerupert/fernside/internal/timer"
	"github.com/dukerupert/fernside/internal/websocket"
)

type SettingsHandler struct {
	settings *store.SettingsStore
	hub      *websocket.Hub
	sync     *syncer.Manager
	logger   *slog.Logger
}

func NewSettingsHandler(settings *store.SettingsStore, hub *websocket.Hub, sync *syncer.Manager, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, hub: hub, sync: sync, logger: logger}
}

func (h *SettingsHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.settings.GetPreferences()
	if err != nil {
		h.logger.Error("get preferences", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (h *SettingsHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req model.UserPreferences
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if !timer.ValidFocusDuration(req.PreferredDuration) {
		writeError(w, http.StatusBadRequest, "preferred duration must be 25, 30, or 45 minutes")
		return
	}
	if !mood.Valid(mood.Theme(req.MoodTheme)) {
		writeError(w, http.StatusBadRequest, "unknown mood theme")
		return
	}

	if err := h.settings.SavePreferences(req); err != nil {
		h.logger.Error("save preferences", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save preferences")
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.ChangeEvent("preferences", "updated", req))
	}
	if h.sync != nil {
		h.sync.Schedule()
	}
	writeJSON(w, http.StatusOK, req)
}

// Mood reports the resolved theme: the user's explicit pick, or the
// time-of-day choice when the preference is "auto".
func (h *SettingsHandler) Mood(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.settings.GetPreferences()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}

	theme := mood.Resolve(mood.Theme(prefs.MoodTheme), time.Now())
	writeJSON(w, http.StatusOK, map[string]string{
		"selected":    prefs.MoodTheme,
		"active":      string(theme),
		"label":       mood.Label(theme),
		"description": mood.Description(theme),
	})
}
