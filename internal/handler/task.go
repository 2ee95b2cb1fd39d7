package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dukerupert/fernside/internal/model"
	"github.com/dukerupert/fernside/internal/store"
	syncer "github.com/dukerupert/fernside/internal/sync"
	"github.com/dukerupert/fernside/internal/websocket"
)

// maxTaskTextLength caps the task text, matching the input limit in the UI.
const maxTaskTextLength = 200

type TaskHandler struct {
	tasks  *store.TaskStore
	hub    *websocket.Hub
	sync   *syncer.Manager
	logger *slog.Logger
}

func NewTaskHandler(tasks *store.TaskStore, hub *websocket.Hub, sync *syncer.Manager, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, hub: hub, sync: sync, logger: logger}
}

func (h *TaskHandler) changed(action string, task *model.Task) {
	if h.hub != nil {
		h.hub.Broadcast(websocket.ChangeEvent("task", action, task))
	}
	if h.sync != nil {
		h.sync.Schedule()
	}
}

type taskRequest struct {
	Text          string                `json:"text"`
	Notes         string                `json:"notes"`
	Checklist     []model.ChecklistItem `json:"checklist"`
	ScheduledDate *string               `json:"scheduled_date"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if utf8.RuneCountInString(req.Text) > maxTaskTextLength {
		writeError(w, http.StatusBadRequest, "text must be 200 characters or fewer")
		return
	}

	task, err := h.tasks.Create(req.Text, req.ScheduledDate)
	if err != nil {
		h.logger.Error("create task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create task")
		return
	}

	h.changed("created", task)
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	var tasks []model.Task
	var err error
	if r.URL.Query().Get("incomplete") == "true" {
		tasks, err = h.tasks.ListIncomplete()
	} else {
		tasks, err = h.tasks.List()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.GetByID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if task == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.tasks.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if utf8.RuneCountInString(req.Text) > maxTaskTextLength {
		writeError(w, http.StatusBadRequest, "text must be 200 characters or fewer")
		return
	}

	task, err := h.tasks.Update(id, req.Text, req.Notes, req.Checklist)
	if err != nil {
		h.logger.Error("update task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update task")
		return
	}

	h.changed("updated", task)
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) SetSchedule(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		ScheduledDate *string `json:"scheduled_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.tasks.SetScheduledDate(id, req.ScheduledDate); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to schedule task")
		return
	}

	task, err := h.tasks.GetByID(id)
	if err != nil || task == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	h.changed("updated", task)
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.tasks.Complete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to complete task")
		return
	}

	task, err := h.tasks.GetByID(id)
	if err != nil || task == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	h.changed("completed", task)
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.tasks.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete task")
		return
	}

	h.changed("deleted", &model.Task{ID: id})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
