package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/fernside/internal/model"
	syncer "github.com/dukerupert/fernside/internal/sync"
)

type SyncHandler struct {
	manager *syncer.Manager
	logger  *slog.Logger
}

func NewSyncHandler(manager *syncer.Manager, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{manager: manager, logger: logger}
}

func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"enabled": h.manager.Enabled(),
		"status":  h.manager.Status(),
	})
}

func (h *SyncHandler) Push(w http.ResponseWriter, r *http.Request) {
	if !h.manager.Enabled() {
		writeError(w, http.StatusConflict, "sync is not configured")
		return
	}

	if err := h.manager.Push(r.Context()); err != nil {
		h.logger.Error("sync push", "error", err)
		writeError(w, http.StatusBadGateway, "push failed")
		return
	}

	writeJSON(w, http.StatusOK, h.manager.Status())
}

func (h *SyncHandler) Pull(w http.ResponseWriter, r *http.Request) {
	if !h.manager.Enabled() {
		writeError(w, http.StatusConflict, "sync is not configured")
		return
	}

	snap, err := h.manager.Pull(r.Context())
	if err != nil {
		h.logger.Error("sync pull", "error", err)
		writeError(w, http.StatusBadGateway, "pull failed")
		return
	}
	if snap == nil {
		writeError(w, http.StatusNotFound, "no remote snapshot")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

// Export serves the full local snapshot as a downloadable JSON document.
func (h *SyncHandler) Export(w http.ResponseWriter, r *http.Request) {
	snap, err := h.manager.Export()
	if err != nil {
		h.logger.Error("export snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="fernside-export.json"`)
	writeJSON(w, http.StatusOK, snap)
}

// Import replaces all local data with an uploaded snapshot.
func (h *SyncHandler) Import(w http.ResponseWriter, r *http.Request) {
	var snap model.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeError(w, http.StatusBadRequest, "invalid snapshot JSON")
		return
	}

	if err := h.manager.Import(&snap); err != nil {
		h.logger.Error("import snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "import failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}
