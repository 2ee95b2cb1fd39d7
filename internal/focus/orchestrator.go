package focus

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/fernside/internal/economy"
	"github.com/dukerupert/fernside/internal/model"
	"github.com/dukerupert/fernside/internal/store"
	"github.com/dukerupert/fernside/internal/streak"
	"github.com/dukerupert/fernside/internal/timer"
)

// durationWindow is how many recent session lengths feed the preferred
// duration inference.
const durationWindow = 5

// Hooks receive orchestration notifications. All funcs are optional and may
// be invoked from timer goroutines.
type Hooks struct {
	OnTick          func(timer.Snapshot)
	OnFocusComplete func()
	OnBreakComplete func()
	OnSessionDone   func(Result)
}

// Result is everything a completed (or skipped-reflection) session produced.
// Milestone and Encouragement are mutually exclusive: a streak milestone
// replaces the ordinary encouragement.
type Result struct {
	Session       *model.FocusSession `json:"session"`
	Points        model.PointsEarned  `json:"points"`
	Streak        model.StreakData    `json:"streak"`
	Milestone     string              `json:"milestone,omitempty"`
	Encouragement string              `json:"encouragement,omitempty"`
}

// Status is the orchestrator view for clients: the countdown plus which
// session (if any) is in flight.
type Status struct {
	Timer              timer.Snapshot `json:"timer"`
	SessionID          string         `json:"session_id,omitempty"`
	TaskID             string         `json:"task_id,omitempty"`
	AwaitingReflection bool           `json:"awaiting_reflection"`
}

// Orchestrator drives the pomodoro flow end to end: it owns the countdown
// engine and coordinates the session log, streak ledger, points, and
// preference inference around it.
type Orchestrator struct {
	sessions *store.FocusSessionStore
	tasks    *store.TaskStore
	streaks  *store.StreakStore
	room     *store.RoomStore
	settings *store.SettingsStore
	logger   *slog.Logger
	hooks    Hooks

	// pickEncouragement is swappable so celebration copy can come from
	// anywhere; defaults to a random pick from Encouragements.
	pickEncouragement func() string
	now               func() time.Time

	mu                 sync.Mutex
	engine             *timer.Engine
	sessionID          string
	taskID             string
	duration           int
	awaitingReflection bool
}

func New(sessions *store.FocusSessionStore, tasks *store.TaskStore, streaks *store.StreakStore, room *store.RoomStore, settings *store.SettingsStore, hooks Hooks, logger *slog.Logger) *Orchestrator {
	o := &Orchestrator{
		sessions:          sessions,
		tasks:             tasks,
		streaks:           streaks,
		room:              room,
		settings:          settings,
		logger:            logger,
		hooks:             hooks,
		pickEncouragement: randomEncouragement,
		now:               time.Now,
	}
	o.engine = timer.New(timer.Callbacks{
		OnTick:          hooks.OnTick,
		OnFocusComplete: o.handleFocusComplete,
		OnBreakComplete: o.handleBreakComplete,
	}, logger)
	return o
}

// StartSession begins a focus phase against a task. A session already in
// flight is abandoned first, exactly as if EndSession had been called.
func (o *Orchestrator) StartSession(taskID string, durationMinutes int) (*model.FocusSession, error) {
	if !timer.ValidFocusDuration(durationMinutes) {
		return nil, ErrInvalidDuration
	}

	task, err := o.tasks.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	o.mu.Lock()
	abandoned := o.sessionID
	o.mu.Unlock()
	if abandoned != "" {
		if err := o.sessions.Delete(abandoned); err != nil {
			return nil, err
		}
	}

	sess, err := o.sessions.Start(taskID, durationMinutes)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.sessionID = sess.ID
	o.taskID = taskID
	o.duration = durationMinutes
	o.awaitingReflection = false
	o.mu.Unlock()

	if prefs, err := o.settings.GetPreferences(); err == nil {
		prefs.LastActiveTaskID = &taskID
		if err := o.settings.SavePreferences(prefs); err != nil {
			o.logger.Warn("save preferences", "error", err)
		}
	}

	o.engine.StartFocus(durationMinutes)
	return sess, nil
}

// Pause freezes a running focus phase.
func (o *Orchestrator) Pause() { o.engine.Pause() }

// Resume continues a paused focus phase.
func (o *Orchestrator) Resume() { o.engine.Resume() }

// SkipBreak ends the break early.
func (o *Orchestrator) SkipBreak() { o.engine.SkipBreak() }

// EndSession stops a session before the countdown finishes. The session
// record is discarded: early stops never earn points, streak credit, or a
// pomodoro on the task.
func (o *Orchestrator) EndSession() error {
	o.mu.Lock()
	sessionID := o.sessionID
	o.sessionID = ""
	o.taskID = ""
	o.awaitingReflection = false
	o.mu.Unlock()

	if sessionID == "" {
		return ErrNoActiveSession
	}

	o.engine.Stop()
	if err := o.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("discard session: %w", err)
	}
	o.logger.Info("session abandoned", "session_id", sessionID)
	return nil
}

// SubmitReflection answers the post-session prompt and settles the session:
// points, streak, task counter, preference inference, then the break.
func (o *Orchestrator) SubmitReflection(answer string) (*Result, error) {
	if answer != model.ReflectionYes && answer != model.ReflectionNo {
		return nil, ErrInvalidReflection
	}
	return o.settle(&answer)
}

// SkipReflection settles the session without an answer. The reflection bonus
// is forfeited; base and first-of-day points still apply.
func (o *Orchestrator) SkipReflection() (*Result, error) {
	return o.settle(nil)
}

func (o *Orchestrator) settle(reflection *string) (*Result, error) {
	o.mu.Lock()
	if !o.awaitingReflection || o.sessionID == "" {
		o.mu.Unlock()
		return nil, ErrNoPendingReflection
	}
	sessionID := o.sessionID
	taskID := o.taskID
	duration := o.duration
	o.sessionID = ""
	o.taskID = ""
	o.awaitingReflection = false
	o.mu.Unlock()

	sess, err := o.sessions.Complete(sessionID, reflection)
	if err != nil {
		return nil, err
	}

	today := streak.Today(o.now())

	lastAward, err := o.room.LastAwardDate()
	if err != nil {
		return nil, err
	}
	points := economy.CalculatePoints(reflection != nil, lastAward, today)
	if err := o.room.AwardPoints(points.Total, today); err != nil {
		return nil, err
	}

	before, err := o.streaks.Get()
	if err != nil {
		return nil, err
	}
	after := streak.Advance(before, today)
	if err := o.streaks.Save(after); err != nil {
		return nil, err
	}

	// The task may have been deleted mid-session; the counter bump simply
	// affects zero rows then.
	if err := o.tasks.IncrementPomodoros(taskID); err != nil {
		o.logger.Warn("increment pomodoros", "task_id", taskID, "error", err)
	}

	if err := o.inferPreferredDuration(duration); err != nil {
		o.logger.Warn("update duration preference", "error", err)
	}

	result := Result{Session: sess, Points: points, Streak: after}
	if after.CurrentStreak != before.CurrentStreak && streak.IsMilestone(after.CurrentStreak) {
		result.Milestone = streak.MilestoneMessage(after.CurrentStreak)
	} else {
		result.Encouragement = o.pickEncouragement()
	}

	o.logger.Info("session settled",
		"session_id", sessionID,
		"points", points.Total,
		"streak", after.CurrentStreak,
	)

	o.engine.StartBreak()
	if o.hooks.OnSessionDone != nil {
		o.hooks.OnSessionDone(result)
	}
	return &result, nil
}

// inferPreferredDuration appends the finished session's length to the recent
// window and sets the preferred duration to the most frequent value, ties
// going to the most recent.
func (o *Orchestrator) inferPreferredDuration(minutes int) error {
	prefs, err := o.settings.GetPreferences()
	if err != nil {
		return err
	}

	durations := append(prefs.LastSessionDurations, minutes)
	if len(durations) > durationWindow {
		durations = durations[len(durations)-durationWindow:]
	}

	counts := make(map[int]int, len(durations))
	for _, d := range durations {
		counts[d]++
	}
	preferred, best := minutes, 0
	for _, d := range durations {
		if counts[d] >= best {
			preferred, best = d, counts[d]
		}
	}

	prefs.LastSessionDurations = durations
	prefs.PreferredDuration = preferred
	return o.settings.SavePreferences(prefs)
}

// Status reports the countdown and session state for clients.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Status{
		Timer:              o.engine.Snapshot(),
		SessionID:          o.sessionID,
		TaskID:             o.taskID,
		AwaitingReflection: o.awaitingReflection,
	}
}

func (o *Orchestrator) handleFocusComplete() {
	o.mu.Lock()
	o.awaitingReflection = true
	o.mu.Unlock()

	o.logger.Info("focus complete")
	if o.hooks.OnFocusComplete != nil {
		o.hooks.OnFocusComplete()
	}
}

func (o *Orchestrator) handleBreakComplete() {
	o.logger.Info("break complete")
	if o.hooks.OnBreakComplete != nil {
		o.hooks.OnBreakComplete()
	}
}
