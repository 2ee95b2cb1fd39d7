package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/fernside/internal/focus"
	syncer "github.com/dukerupert/fernside/internal/sync"
)

type SessionHandler struct {
	orch   *focus.Orchestrator
	sync   *syncer.Manager
	logger *slog.Logger
}

func NewSessionHandler(orch *focus.Orchestrator, sync *syncer.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{orch: orch, sync: sync, logger: logger}
}

func (h *SessionHandler) scheduleSync() {
	if h.sync != nil {
		h.sync.Schedule()
	}
}

func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskID   string `json:"task_id"`
		Duration int    `json:"duration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	sess, err := h.orch.StartSession(req.TaskID, req.Duration)
	switch {
	case errors.Is(err, focus.ErrInvalidDuration):
		writeError(w, http.StatusBadRequest, "duration must be 25, 30, or 45 minutes")
		return
	case errors.Is(err, focus.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "task not found")
		return
	case err != nil:
		h.logger.Error("start session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	h.scheduleSync()
	writeJSON(w, http.StatusCreated, sess)
}

func (h *SessionHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.orch.Pause()
	writeJSON(w, http.StatusOK, h.orch.Status())
}

func (h *SessionHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.orch.Resume()
	writeJSON(w, http.StatusOK, h.orch.Status())
}

func (h *SessionHandler) Stop(w http.ResponseWriter, r *http.Request) {
	err := h.orch.EndSession()
	if errors.Is(err, focus.ErrNoActiveSession) {
		writeError(w, http.StatusConflict, "no session in progress")
		return
	}
	if err != nil {
		h.logger.Error("end session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to end session")
		return
	}

	h.scheduleSync()
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

func (h *SessionHandler) Reflect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result, err := h.orch.SubmitReflection(req.Answer)
	switch {
	case errors.Is(err, focus.ErrInvalidReflection):
		writeError(w, http.StatusBadRequest, "answer must be \"yes\" or \"no\"")
		return
	case errors.Is(err, focus.ErrNoPendingReflection):
		writeError(w, http.StatusConflict, "no reflection pending")
		return
	case err != nil:
		h.logger.Error("submit reflection", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record reflection")
		return
	}

	h.scheduleSync()
	writeJSON(w, http.StatusOK, result)
}

func (h *SessionHandler) SkipReflection(w http.ResponseWriter, r *http.Request) {
	result, err := h.orch.SkipReflection()
	if errors.Is(err, focus.ErrNoPendingReflection) {
		writeError(w, http.StatusConflict, "no reflection pending")
		return
	}
	if err != nil {
		h.logger.Error("skip reflection", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to settle session")
		return
	}

	h.scheduleSync()
	writeJSON(w, http.StatusOK, result)
}

func (h *SessionHandler) SkipBreak(w http.ResponseWriter, r *http.Request) {
	h.orch.SkipBreak()
	writeJSON(w, http.StatusOK, h.orch.Status())
}

func (h *SessionHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.orch.Status())
}
