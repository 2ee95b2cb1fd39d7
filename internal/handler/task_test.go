package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/fernside/internal/database"
	"github.com/dukerupert/fernside/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTaskHandler(t *testing.T) (*TaskHandler, *store.TaskStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tasks := store.NewTaskStore(db)
	return NewTaskHandler(tasks, nil, nil, discardLogger()), tasks
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	encoded, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("encode request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(encoded))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestCreateTaskRejectsOversizedText(t *testing.T) {
	h, tasks := setupTaskHandler(t)

	rec := postJSON(t, h.Create, "/api/tasks", map[string]string{
		"text": strings.Repeat("a", 201),
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	listed, err := tasks.List()
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("oversized task was stored: %d tasks", len(listed))
	}
}

func TestCreateTaskAcceptsTextAtLimit(t *testing.T) {
	h, _ := setupTaskHandler(t)

	rec := postJSON(t, h.Create, "/api/tasks", map[string]string{
		"text": strings.Repeat("a", 200),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
}

func TestUpdateTaskRejectsOversizedText(t *testing.T) {
	h, tasks := setupTaskHandler(t)

	task, err := tasks.Create("write the report", nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	encoded, _ := json.Marshal(map[string]string{"text": strings.Repeat("b", 300)})
	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+task.ID, bytes.NewReader(encoded))
	req.SetPathValue("id", task.ID)
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	unchanged, err := tasks.GetByID(task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if unchanged.Text != "write the report" {
		t.Errorf("text = %q, want original preserved", unchanged.Text)
	}
}
