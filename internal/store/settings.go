package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dukerupert/fernside/internal/model"
)

// Preference keys. Preferences live in the settings KV table alongside
// deployment settings (access password hash, backup config).
const (
	keyPreferredDuration    = "preferred_duration"
	keyLastActiveTaskID     = "last_active_task_id"
	keyLastSessionDurations = "last_session_durations"
	keyUserName             = "user_name"
	keyMoodTheme            = "mood_theme"

	KeyAccessPasswordHash = "access_password_hash"
)

const defaultPreferredDuration = 25

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

func (s *SettingsStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete setting %q: %w", key, err)
	}
	return nil
}

// GetPreferences assembles UserPreferences from the KV table, applying
// defaults for anything unset.
func (s *SettingsStore) GetPreferences() (model.UserPreferences, error) {
	prefs := model.UserPreferences{
		PreferredDuration: defaultPreferredDuration,
		MoodTheme:         "auto",
	}

	if v, err := s.Get(keyPreferredDuration); err != nil {
		return prefs, err
	} else if v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			prefs.PreferredDuration = n
		}
	}

	if v, err := s.Get(keyLastActiveTaskID); err != nil {
		return prefs, err
	} else if v != "" {
		prefs.LastActiveTaskID = &v
	}

	if v, err := s.Get(keyLastSessionDurations); err != nil {
		return prefs, err
	} else if v != "" {
		if err := json.Unmarshal([]byte(v), &prefs.LastSessionDurations); err != nil {
			return prefs, fmt.Errorf("decode session durations: %w", err)
		}
	}

	if v, err := s.Get(keyUserName); err != nil {
		return prefs, err
	} else if v != "" {
		prefs.UserName = &v
	}

	if v, err := s.Get(keyMoodTheme); err != nil {
		return prefs, err
	} else if v != "" {
		prefs.MoodTheme = v
	}

	return prefs, nil
}

// SavePreferences writes all preference keys.
func (s *SettingsStore) SavePreferences(prefs model.UserPreferences) error {
	if err := s.Set(keyPreferredDuration, strconv.Itoa(prefs.PreferredDuration)); err != nil {
		return err
	}

	if prefs.LastActiveTaskID != nil {
		if err := s.Set(keyLastActiveTaskID, *prefs.LastActiveTaskID); err != nil {
			return err
		}
	} else if err := s.Delete(keyLastActiveTaskID); err != nil {
		return err
	}

	durations := prefs.LastSessionDurations
	if durations == nil {
		durations = []int{}
	}
	encoded, err := json.Marshal(durations)
	if err != nil {
		return fmt.Errorf("encode session durations: %w", err)
	}
	if err := s.Set(keyLastSessionDurations, string(encoded)); err != nil {
		return err
	}

	if prefs.UserName != nil {
		if err := s.Set(keyUserName, *prefs.UserName); err != nil {
			return err
		}
	} else if err := s.Delete(keyUserName); err != nil {
		return err
	}

	mood := prefs.MoodTheme
	if mood == "" {
		mood = "auto"
	}
	return s.Set(keyMoodTheme, mood)
}
