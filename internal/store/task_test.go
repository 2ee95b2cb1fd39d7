package store

import (
	"testing"

	"github.com/dukerupert/fernside/internal/model"
)

func TestTaskCreateAndGet(t *testing.T) {
	ts := NewTaskStore(setupTestDB(t))

	task, err := ts.Create("Write the report", nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.ID == "" {
		t.Error("expected generated id")
	}
	if task.Text != "Write the report" {
		t.Errorf("text = %q", task.Text)
	}
	if task.IsCompleted {
		t.Error("new task should not be completed")
	}
	if task.CompletedPomodoros != 0 {
		t.Errorf("completed_pomodoros = %d, want 0", task.CompletedPomodoros)
	}
	if task.ScheduledDate != nil {
		t.Errorf("scheduled_date = %v, want nil", *task.ScheduledDate)
	}

	got, err := ts.GetByID(task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got == nil || got.Text != task.Text {
		t.Errorf("got = %+v", got)
	}

	if missing, err := ts.GetByID("nope"); err != nil || missing != nil {
		t.Errorf("missing task = %+v, err = %v; want nil, nil", missing, err)
	}
}

func TestTaskScheduledDate(t *testing.T) {
	ts := NewTaskStore(setupTestDB(t))

	date := "2026-03-14"
	task, err := ts.Create("Plan the trip", &date)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.ScheduledDate == nil || *task.ScheduledDate != date {
		t.Fatalf("scheduled_date = %v, want %q", task.ScheduledDate, date)
	}

	if err := ts.SetScheduledDate(task.ID, nil); err != nil {
		t.Fatalf("clear date: %v", err)
	}
	got, _ := ts.GetByID(task.ID)
	if got.ScheduledDate != nil {
		t.Errorf("scheduled_date = %v, want nil", *got.ScheduledDate)
	}
}

func TestTaskUpdateWithChecklist(t *testing.T) {
	ts := NewTaskStore(setupTestDB(t))

	task, _ := ts.Create("Pack boxes", nil)

	checklist := []model.ChecklistItem{
		{ID: "1", Text: "books", Completed: true},
		{ID: "2", Text: "kitchen", Completed: false},
	}
	updated, err := ts.Update(task.ID, "Pack all boxes", "garage last", checklist)
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.Text != "Pack all boxes" || updated.Notes != "garage last" {
		t.Errorf("updated = %+v", updated)
	}
	if len(updated.Checklist) != 2 || !updated.Checklist[0].Completed {
		t.Errorf("checklist = %+v", updated.Checklist)
	}
}

func TestTaskCompleteRemovesFromRotation(t *testing.T) {
	ts := NewTaskStore(setupTestDB(t))

	a, _ := ts.Create("first", nil)
	b, _ := ts.Create("second", nil)

	if err := ts.Complete(a.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	incomplete, err := ts.ListIncomplete()
	if err != nil {
		t.Fatalf("list incomplete: %v", err)
	}
	if len(incomplete) != 1 || incomplete[0].ID != b.ID {
		t.Errorf("incomplete = %+v, want only %q", incomplete, b.ID)
	}

	all, err := ts.List()
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d tasks, want 2", len(all))
	}
}

func TestTaskIncrementPomodoros(t *testing.T) {
	ts := NewTaskStore(setupTestDB(t))

	task, _ := ts.Create("deep work", nil)
	for i := 0; i < 3; i++ {
		if err := ts.IncrementPomodoros(task.ID); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	got, _ := ts.GetByID(task.ID)
	if got.CompletedPomodoros != 3 {
		t.Errorf("completed_pomodoros = %d, want 3", got.CompletedPomodoros)
	}
}

func TestTaskDelete(t *testing.T) {
	ts := NewTaskStore(setupTestDB(t))

	task, _ := ts.Create("temp", nil)
	if err := ts.Delete(task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := ts.GetByID(task.ID)
	if got != nil {
		t.Errorf("task still present: %+v", got)
	}
}

func TestTaskReplaceAll(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTaskStore(db)

	ts.Create("local only", nil)

	restored, err := ts.Create("from snapshot", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := ts.ReplaceAll([]model.Task{*restored}); err != nil {
		t.Fatalf("replace all: %v", err)
	}

	all, _ := ts.List()
	if len(all) != 1 || all[0].ID != restored.ID {
		t.Errorf("after replace: %+v", all)
	}
}
