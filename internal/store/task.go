package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dukerupert/fernside/internal/model"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskCols = `id, text, notes, checklist, completed_pomodoros, is_completed, created_at, scheduled_date`

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var checklist string
	var completed int
	var scheduled sql.NullString

	err := scanner.Scan(&t.ID, &t.Text, &t.Notes, &checklist, &t.CompletedPomodoros, &completed, &t.CreatedAt, &scheduled)
	if err != nil {
		return nil, err
	}

	t.IsCompleted = completed != 0
	if scheduled.Valid {
		t.ScheduledDate = &scheduled.String
	}
	if err := json.Unmarshal([]byte(checklist), &t.Checklist); err != nil {
		return nil, fmt.Errorf("decode checklist: %w", err)
	}
	return &t, nil
}

func (s *TaskStore) Create(text string, scheduledDate *string) (*model.Task, error) {
	id := uuid.NewString()

	var scheduled sql.NullString
	if scheduledDate != nil {
		scheduled = sql.NullString{String: *scheduledDate, Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO tasks (id, text, scheduled_date) VALUES (?, ?, ?)`,
		id, text, scheduled,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) GetByID(id string) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// List returns all tasks, newest first.
func (s *TaskStore) List() ([]model.Task, error) {
	return s.list(`SELECT ` + taskCols + ` FROM tasks ORDER BY created_at DESC, id DESC`)
}

// ListIncomplete returns tasks still in the active rotation, newest first.
func (s *TaskStore) ListIncomplete() ([]model.Task, error) {
	return s.list(`SELECT ` + taskCols + ` FROM tasks WHERE is_completed = 0 ORDER BY created_at DESC, id DESC`)
}

func (s *TaskStore) list(query string) ([]model.Task, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Update replaces the task's text, notes, and checklist.
func (s *TaskStore) Update(id, text, notes string, checklist []model.ChecklistItem) (*model.Task, error) {
	if checklist == nil {
		checklist = []model.ChecklistItem{}
	}
	encoded, err := json.Marshal(checklist)
	if err != nil {
		return nil, fmt.Errorf("encode checklist: %w", err)
	}

	_, err = s.db.Exec(
		`UPDATE tasks SET text = ?, notes = ?, checklist = ? WHERE id = ?`,
		text, notes, string(encoded), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) SetScheduledDate(id string, scheduledDate *string) error {
	var scheduled sql.NullString
	if scheduledDate != nil {
		scheduled = sql.NullString{String: *scheduledDate, Valid: true}
	}

	_, err := s.db.Exec(`UPDATE tasks SET scheduled_date = ? WHERE id = ?`, scheduled, id)
	if err != nil {
		return fmt.Errorf("set scheduled date: %w", err)
	}
	return nil
}

// Complete marks the task done, removing it from the active rotation.
func (s *TaskStore) Complete(id string) error {
	_, err := s.db.Exec(`UPDATE tasks SET is_completed = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

// IncrementPomodoros bumps the completed-session counter for the task.
func (s *TaskStore) IncrementPomodoros(id string) error {
	_, err := s.db.Exec(`UPDATE tasks SET completed_pomodoros = completed_pomodoros + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("increment pomodoros: %w", err)
	}
	return nil
}

func (s *TaskStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ReplaceAll swaps the entire task table for the given set, used when
// restoring a sync snapshot.
func (s *TaskStore) ReplaceAll(tasks []model.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace tasks: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}

	for _, t := range tasks {
		checklist := t.Checklist
		if checklist == nil {
			checklist = []model.ChecklistItem{}
		}
		encoded, err := json.Marshal(checklist)
		if err != nil {
			return fmt.Errorf("encode checklist: %w", err)
		}

		var scheduled sql.NullString
		if t.ScheduledDate != nil {
			scheduled = sql.NullString{String: *t.ScheduledDate, Valid: true}
		}
		var completed int
		if t.IsCompleted {
			completed = 1
		}

		_, err = tx.Exec(
			`INSERT INTO tasks (id, text, notes, checklist, completed_pomodoros, is_completed, created_at, scheduled_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Text, t.Notes, string(encoded), t.CompletedPomodoros, completed, t.CreatedAt, scheduled,
		)
		if err != nil {
			return fmt.Errorf("insert task %q: %w", t.ID, err)
		}
	}

	return tx.Commit()
}
