package notify

import (
	"encoding/base64"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dukerupert/fernside/internal/database"
	"github.com/dukerupert/fernside/internal/model"
	"github.com/dukerupert/fernside/internal/store"
	"github.com/dukerupert/fernside/internal/streak"
)

func TestGenerateVAPIDKeys(t *testing.T) {
	pub, priv, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate VAPID keys: %v", err)
	}

	if pub == "" {
		t.Error("expected non-empty public key")
	}
	if priv == "" {
		t.Error("expected non-empty private key")
	}

	// Public key should be base64url-encoded, 65 bytes uncompressed P-256 point
	pubBytes, err := base64.RawURLEncoding.DecodeString(pub)
	if err != nil {
		t.Fatalf("decode public key: %v", err)
	}
	if len(pubBytes) != 65 {
		t.Errorf("public key length = %d, want 65", len(pubBytes))
	}

	// Private key should be base64url-encoded, 32 bytes P-256 scalar
	privBytes, err := base64.RawURLEncoding.DecodeString(priv)
	if err != nil {
		t.Fatalf("decode private key: %v", err)
	}
	if len(privBytes) != 32 {
		t.Errorf("private key length = %d, want 32", len(privBytes))
	}

	// Generate again — should be different
	pub2, _, _ := GenerateVAPIDKeys()
	if pub == pub2 {
		t.Error("expected different keys on second generation")
	}
}

func setupReminder(t *testing.T) (*StreakReminder, *store.StreakStore, *store.FocusSessionStore, *store.PushStore) {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := store.NewFocusSessionStore(db)
	streaks := store.NewStreakStore(db)
	subs := store.NewPushStore(db)
	notifier := NewNotifier(NewService("", ""), subs, logger)

	r := NewStreakReminder(notifier, sessions, streaks, subs, logger)
	r.now = func() time.Time {
		return time.Date(2024, 1, 6, 19, 0, 0, 0, time.UTC)
	}
	return r, streaks, sessions, subs
}

func TestReminderSkipsWithoutStreak(t *testing.T) {
	r, _, _, subs := setupReminder(t)

	r.check()

	sent, _ := subs.WasSent(model.NotifTypeStreakReminder, "2024-01-06")
	if sent {
		t.Error("reminder recorded with no streak")
	}
}

func TestReminderSkipsWhenTodayHasSession(t *testing.T) {
	r, streaks, sessions, subs := setupReminder(t)

	// Use the real clock so the completion timestamp lands inside today's
	// window.
	r.now = time.Now
	today := streak.Today(time.Now())

	streaks.Save(model.StreakData{CurrentStreak: 3, LongestStreak: 3, LastStreakDate: today})
	sess, _ := sessions.Start("task-1", 25)
	sessions.Complete(sess.ID, nil)

	r.check()

	sent, _ := subs.WasSent(model.NotifTypeStreakReminder, today)
	if sent {
		t.Error("reminder recorded despite a completed session today")
	}
}

func TestReminderRecordsOncePerDay(t *testing.T) {
	r, streaks, _, subs := setupReminder(t)

	streaks.Save(model.StreakData{CurrentStreak: 3, LongestStreak: 3, LastStreakDate: "2024-01-05"})

	r.check()

	sent, err := subs.WasSent(model.NotifTypeStreakReminder, "2024-01-06")
	if err != nil {
		t.Fatalf("was sent: %v", err)
	}
	if !sent {
		t.Fatal("reminder not recorded")
	}

	// A second check the same day is a no-op.
	r.check()
	if sent, _ := subs.WasSent(model.NotifTypeStreakReminder, "2024-01-06"); !sent {
		t.Error("dedup record lost")
	}
}
