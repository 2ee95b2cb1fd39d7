package notify

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dukerupert/fernside/internal/model"
	"github.com/dukerupert/fernside/internal/store"
	"github.com/dukerupert/fernside/internal/streak"
)

// reminderSchedule fires at 19:00 local time, late enough to know the day is
// slipping away and early enough to still do a session.
const reminderSchedule = "0 19 * * *"

// StreakReminder nudges the user in the evening when an active streak is at
// risk: no session completed today yet.
type StreakReminder struct {
	cron     *cron.Cron
	notifier *Notifier
	sessions *store.FocusSessionStore
	streaks  *store.StreakStore
	subs     *store.PushStore
	logger   *slog.Logger
	now      func() time.Time
}

func NewStreakReminder(notifier *Notifier, sessions *store.FocusSessionStore, streaks *store.StreakStore, subs *store.PushStore, logger *slog.Logger) *StreakReminder {
	return &StreakReminder{
		cron:     cron.New(),
		notifier: notifier,
		sessions: sessions,
		streaks:  streaks,
		subs:     subs,
		logger:   logger,
		now:      time.Now,
	}
}

// Start schedules the evening check.
func (r *StreakReminder) Start() error {
	if _, err := r.cron.AddFunc(reminderSchedule, r.check); err != nil {
		return fmt.Errorf("schedule streak reminder: %w", err)
	}
	r.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running check to finish.
func (r *StreakReminder) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// check sends at most one reminder per calendar day, and only when there is
// a streak worth protecting.
func (r *StreakReminder) check() {
	now := r.now()
	today := streak.Today(now)

	data, err := r.streaks.Get()
	if err != nil {
		r.logger.Error("streak reminder: get streak", "error", err)
		return
	}
	if data.CurrentStreak == 0 {
		return
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	completed, err := r.sessions.CountCompletedOn(dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		r.logger.Error("streak reminder: count sessions", "error", err)
		return
	}
	if completed > 0 {
		return
	}

	sent, err := r.subs.WasSent(model.NotifTypeStreakReminder, today)
	if err != nil {
		r.logger.Error("streak reminder: check sent", "error", err)
		return
	}
	if sent {
		return
	}

	r.notifier.SendToAll(Payload{
		Title: "Your streak needs you",
		Body:  fmt.Sprintf("You're on a %d day streak. One session keeps it alive!", data.CurrentStreak),
		URL:   "/",
		Tag:   "streak-reminder",
	})

	if err := r.subs.RecordSent(model.NotifTypeStreakReminder, today); err != nil {
		r.logger.Error("streak reminder: record sent", "error", err)
	}
	r.logger.Info("streak reminder sent", "streak", data.CurrentStreak)
}
