package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/fernside/internal/model"
)

// StreakStore persists the single-row streak counters.
type StreakStore struct {
	db *sql.DB
}

func NewStreakStore(db *sql.DB) *StreakStore {
	return &StreakStore{db: db}
}

func (s *StreakStore) Get() (model.StreakData, error) {
	var data model.StreakData
	err := s.db.QueryRow(
		`SELECT current_streak, longest_streak, last_streak_date, today_session_count FROM streak WHERE id = 1`,
	).Scan(&data.CurrentStreak, &data.LongestStreak, &data.LastStreakDate, &data.TodaySessionCount)
	if err != nil {
		return model.StreakData{}, fmt.Errorf("get streak: %w", err)
	}
	return data, nil
}

func (s *StreakStore) Save(data model.StreakData) error {
	_, err := s.db.Exec(
		`UPDATE streak SET current_streak = ?, longest_streak = ?, last_streak_date = ?, today_session_count = ? WHERE id = 1`,
		data.CurrentStreak, data.LongestStreak, data.LastStreakDate, data.TodaySessionCount,
	)
	if err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	return nil
}
