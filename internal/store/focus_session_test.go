package store

import (
	"testing"
	"time"

	"github.com/dukerupert/fernside/internal/model"
)

func TestSessionStartAndComplete(t *testing.T) {
	fs := NewFocusSessionStore(setupTestDB(t))

	sess, err := fs.Start("task-1", 25)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if sess.Completed() {
		t.Error("new session should not be completed")
	}
	if sess.Duration != 25 {
		t.Errorf("duration = %d, want 25", sess.Duration)
	}

	answer := model.ReflectionYes
	done, err := fs.Complete(sess.ID, &answer)
	if err != nil {
		t.Fatalf("complete session: %v", err)
	}
	if !done.Completed() {
		t.Error("expected completed_at to be set")
	}
	if done.Reflection == nil || *done.Reflection != "yes" {
		t.Errorf("reflection = %v, want yes", done.Reflection)
	}
}

func TestSessionCompleteIsImmutable(t *testing.T) {
	fs := NewFocusSessionStore(setupTestDB(t))

	sess, _ := fs.Start("task-1", 25)
	if _, err := fs.Complete(sess.ID, nil); err != nil {
		t.Fatalf("first complete: %v", err)
	}

	answer := model.ReflectionNo
	if _, err := fs.Complete(sess.ID, &answer); err == nil {
		t.Error("second complete should fail")
	}

	got, _ := fs.GetByID(sess.ID)
	if got.Reflection != nil {
		t.Errorf("reflection changed after second complete: %v", *got.Reflection)
	}
}

func TestSessionSkippedReflectionStaysNull(t *testing.T) {
	fs := NewFocusSessionStore(setupTestDB(t))

	sess, _ := fs.Start("task-1", 30)
	done, err := fs.Complete(sess.ID, nil)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Reflection != nil {
		t.Errorf("reflection = %v, want nil", *done.Reflection)
	}
}

func TestSessionOrphanedTaskTolerated(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTaskStore(db)
	fs := NewFocusSessionStore(db)

	task, _ := ts.Create("short-lived", nil)
	sess, _ := fs.Start(task.ID, 25)

	if err := ts.Delete(task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}

	got, err := fs.GetByID(sess.ID)
	if err != nil || got == nil {
		t.Fatalf("session lost after task delete: %v, %v", got, err)
	}
	if got.TaskID != task.ID {
		t.Errorf("task_id = %q, want %q", got.TaskID, task.ID)
	}
}

func TestSessionListCompletedSince(t *testing.T) {
	fs := NewFocusSessionStore(setupTestDB(t))

	a, _ := fs.Start("t", 25)
	fs.Complete(a.ID, nil)
	b, _ := fs.Start("t", 25)
	_ = b // never completed

	sessions, err := fs.ListCompletedSince(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != a.ID {
		t.Errorf("completed = %+v, want only %q", sessions, a.ID)
	}
}

func TestSessionCountCompletedOn(t *testing.T) {
	fs := NewFocusSessionStore(setupTestDB(t))

	sess, _ := fs.Start("t", 25)
	fs.Complete(sess.ID, nil)

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	n, err := fs.CountCompletedOn(dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}
