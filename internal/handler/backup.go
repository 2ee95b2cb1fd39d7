package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/fernside/internal/backup"
	"github.com/dukerupert/fernside/internal/model"
	"github.com/dukerupert/fernside/internal/store"
)

const backupListLimit = 50

type BackupHandler struct {
	manager  *backup.Manager
	backups  *store.BackupStore
	settings *store.SettingsStore
	logger   *slog.Logger
}

func NewBackupHandler(manager *backup.Manager, backups *store.BackupStore, settings *store.SettingsStore, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{manager: manager, backups: backups, settings: settings, logger: logger}
}

func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	enabled, _ := h.settings.Get(backup.KeyBackupEnabled)
	hour, _ := h.settings.Get(backup.KeyBackupScheduleHour)
	retention, _ := h.settings.Get(backup.KeyBackupRetentionDays)

	writeJSON(w, http.StatusOK, map[string]any{
		"status":         h.manager.Status(),
		"enabled":        enabled == "true",
		"schedule_hour":  hour,
		"retention_days": retention,
		"key_cached":     h.manager.HasCachedKey(),
	})
}

// Configure updates the backup schedule settings. S3 credentials come from
// the environment; only the schedule is mutable at runtime.
func (h *BackupHandler) Configure(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled       bool `json:"enabled"`
		ScheduleHour  int  `json:"schedule_hour"`
		RetentionDays int  `json:"retention_days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.ScheduleHour < 0 || req.ScheduleHour > 23 {
		writeError(w, http.StatusBadRequest, "schedule hour must be 0-23")
		return
	}
	if req.RetentionDays < 1 || req.RetentionDays > 365 {
		writeError(w, http.StatusBadRequest, "retention days must be 1-365")
		return
	}

	enabled := "false"
	if req.Enabled {
		enabled = "true"
	}
	if err := h.settings.Set(backup.KeyBackupEnabled, enabled); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	if err := h.settings.Set(backup.KeyBackupScheduleHour, strconv.Itoa(req.ScheduleHour)); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	if err := h.settings.Set(backup.KeyBackupRetentionDays, strconv.Itoa(req.RetentionDays)); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	backups, err := h.backups.List(backupListLimit)
	if err != nil {
		h.logger.Error("list backups", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list backups")
		return
	}
	if backups == nil {
		backups = []model.Backup{}
	}
	writeJSON(w, http.StatusOK, backups)
}

func (h *BackupHandler) RunNow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Passphrase == "" {
		writeError(w, http.StatusBadRequest, "passphrase is required")
		return
	}

	id, err := h.manager.RunNow(r.Context(), req.Passphrase)
	if err != nil {
		h.logger.Error("run backup", "error", err)
		writeError(w, http.StatusInternalServerError, "backup failed")
		return
	}

	record, err := h.backups.GetByID(id)
	if err != nil || record == nil {
		writeJSON(w, http.StatusOK, map[string]int64{"id": id})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// Restore decrypts a backup and replaces the live database. On success the
// process exits so the supervisor restarts against the restored file.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid backup ID")
		return
	}

	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Passphrase == "" {
		writeError(w, http.StatusBadRequest, "passphrase is required")
		return
	}

	// Restore exits the process on success, so flush the response first.
	writeJSON(w, http.StatusOK, map[string]string{"status": "restoring"})
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	if err := h.manager.Restore(r.Context(), id, req.Passphrase); err != nil {
		h.logger.Error("restore backup", "backup_id", id, "error", err)
	}
}

func (h *BackupHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid backup ID")
		return
	}

	body, size, err := h.manager.Download(r.Context(), id)
	if err != nil {
		h.logger.Error("download backup", "backup_id", id, "error", err)
		writeError(w, http.StatusNotFound, "backup not available")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="fernside-backup.db.enc"`)
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	io.Copy(w, body)
}
