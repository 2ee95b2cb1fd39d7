package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/fernside/internal/model"
)

type FocusSessionStore struct {
	db *sql.DB
}

func NewFocusSessionStore(db *sql.DB) *FocusSessionStore {
	return &FocusSessionStore{db: db}
}

const sessionCols = `id, task_id, duration, started_at, completed_at, reflection`

func scanSession(scanner interface{ Scan(...any) error }) (*model.FocusSession, error) {
	var s model.FocusSession
	var completedAt sql.NullTime
	var reflection sql.NullString

	err := scanner.Scan(&s.ID, &s.TaskID, &s.Duration, &s.StartedAt, &completedAt, &reflection)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		s.CompletedAt = &completedAt.Time
	}
	if reflection.Valid {
		s.Reflection = &reflection.String
	}
	return &s, nil
}

// Start records a new focus session. taskId is not checked against the tasks
// table: sessions deliberately survive task deletion.
func (s *FocusSessionStore) Start(taskID string, durationMinutes int) (*model.FocusSession, error) {
	id := uuid.NewString()

	_, err := s.db.Exec(
		`INSERT INTO focus_sessions (id, task_id, duration) VALUES (?, ?, ?)`,
		id, taskID, durationMinutes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return s.GetByID(id)
}

func (s *FocusSessionStore) GetByID(id string) (*model.FocusSession, error) {
	row := s.db.QueryRow(`SELECT `+sessionCols+` FROM focus_sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// Complete stamps the session as finished with an optional reflection answer.
// Already-completed sessions are immutable; a second completion is refused.
func (s *FocusSessionStore) Complete(id string, reflection *string) (*model.FocusSession, error) {
	var r sql.NullString
	if reflection != nil {
		r = sql.NullString{String: *reflection, Valid: true}
	}

	result, err := s.db.Exec(
		`UPDATE focus_sessions SET completed_at = ?, reflection = ? WHERE id = ? AND completed_at IS NULL`,
		time.Now().UTC(), r, id,
	)
	if err != nil {
		return nil, fmt.Errorf("complete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("session %q missing or already completed", id)
	}
	return s.GetByID(id)
}

// Delete discards an abandoned (never-completed) session record.
func (s *FocusSessionStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM focus_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// List returns all sessions, newest first.
func (s *FocusSessionStore) List() ([]model.FocusSession, error) {
	rows, err := s.db.Query(`SELECT ` + sessionCols + ` FROM focus_sessions ORDER BY started_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.FocusSession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

// ListCompletedSince returns completed sessions with completed_at >= since,
// oldest first, for report aggregation.
func (s *FocusSessionStore) ListCompletedSince(since time.Time) ([]model.FocusSession, error) {
	rows, err := s.db.Query(
		`SELECT `+sessionCols+` FROM focus_sessions WHERE completed_at IS NOT NULL AND completed_at >= ? ORDER BY completed_at ASC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("list completed sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.FocusSession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

// CountCompletedOn returns the number of sessions completed within the given
// local calendar day.
func (s *FocusSessionStore) CountCompletedOn(dayStart, dayEnd time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM focus_sessions WHERE completed_at IS NOT NULL AND completed_at >= ? AND completed_at < ?`,
		dayStart.UTC(), dayEnd.UTC(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completed sessions: %w", err)
	}
	return n, nil
}

// ReplaceAll swaps the session log for a restored snapshot.
func (s *FocusSessionStore) ReplaceAll(sessions []model.FocusSession) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace sessions: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM focus_sessions`); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}

	for _, sess := range sessions {
		var completedAt sql.NullTime
		if sess.CompletedAt != nil {
			completedAt = sql.NullTime{Time: *sess.CompletedAt, Valid: true}
		}
		var reflection sql.NullString
		if sess.Reflection != nil {
			reflection = sql.NullString{String: *sess.Reflection, Valid: true}
		}

		_, err := tx.Exec(
			`INSERT INTO focus_sessions (id, task_id, duration, started_at, completed_at, reflection)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			sess.ID, sess.TaskID, sess.Duration, sess.StartedAt, completedAt, reflection,
		)
		if err != nil {
			return fmt.Errorf("insert session %q: %w", sess.ID, err)
		}
	}

	return tx.Commit()
}
