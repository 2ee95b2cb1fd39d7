package timer

import (
	"log/slog"
	"sync"
	"time"
)

// State is the countdown phase.
type State string

const (
	StateIdle   State = "idle"
	StateFocus  State = "focus"
	StatePaused State = "paused"
	StateBreak  State = "break"
)

// BreakDuration is the fixed rest period in minutes.
const BreakDuration = 5

// FocusDurations are the selectable focus lengths in minutes.
var FocusDurations = []int{25, 30, 45}

// ValidFocusDuration reports whether minutes is one of the allowed lengths.
func ValidFocusDuration(minutes int) bool {
	for _, d := range FocusDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

// Snapshot is the externally visible timer state at a point in time.
type Snapshot struct {
	State     State   `json:"state"`
	Remaining int     `json:"remaining"` // seconds
	Total     int     `json:"total"`     // seconds
	Progress  float64 `json:"progress"`  // 0-100
}

// Callbacks are invoked outside the engine lock. OnFocusComplete fires once
// when a focus phase reaches zero; the engine stays in the focus state with
// zero remaining until the orchestrator moves it to break or idle.
type Callbacks struct {
	OnTick          func(Snapshot)
	OnFocusComplete func()
	OnBreakComplete func()
}

// Engine is the countdown state machine. Remaining time is anchored to a
// wall-clock deadline: every tick recomputes it from the deadline instead of
// decrementing, so dropped ticks or a suspended host correct on the next tick
// rather than drifting. A generation counter is bumped on every transition
// that invalidates the running tick loop, so a tick captured before a
// transition can never apply a stale update or a stale completion.
type Engine struct {
	mu         sync.Mutex
	state      State
	remaining  int
	total      int
	deadline   time.Time
	generation uint64

	cb     Callbacks
	logger *slog.Logger

	// tickInterval and now are overridable in tests.
	tickInterval time.Duration
	now          func() time.Time
}

// New creates an idle engine.
func New(cb Callbacks, logger *slog.Logger) *Engine {
	return &Engine{
		state:        StateIdle,
		cb:           cb,
		logger:       logger,
		tickInterval: time.Second,
		now:          time.Now,
	}
}

// StartFocus begins a focus phase of the given length. Any running phase is
// cancelled first.
func (e *Engine) StartFocus(durationMinutes int) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.state = StateFocus
	e.total = durationMinutes * 60
	e.remaining = e.total
	e.deadline = e.now().Add(time.Duration(e.total) * time.Second)
	e.mu.Unlock()

	e.logger.Info("focus started", "minutes", durationMinutes)
	go e.run(gen)
}

// StartBreak begins the fixed-length break phase.
func (e *Engine) StartBreak() {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.state = StateBreak
	e.total = BreakDuration * 60
	e.remaining = e.total
	e.deadline = e.now().Add(time.Duration(e.total) * time.Second)
	e.mu.Unlock()

	e.logger.Info("break started")
	go e.run(gen)
}

// Pause freezes the countdown, capturing the time left so far. Only
// meaningful while focusing; calling it from any other state is a no-op.
func (e *Engine) Pause() {
	e.mu.Lock()
	if e.state == StateFocus {
		e.state = StatePaused
		e.remaining = e.secondsLeftLocked()
	}
	e.mu.Unlock()
}

// Resume continues a paused focus phase, re-anchoring the deadline so time
// spent paused doesn't count. No-op otherwise.
func (e *Engine) Resume() {
	e.mu.Lock()
	if e.state == StatePaused {
		e.state = StateFocus
		e.deadline = e.now().Add(time.Duration(e.remaining) * time.Second)
	}
	e.mu.Unlock()
}

// Stop cancels any active phase and returns to idle.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.generation++
	e.state = StateIdle
	e.remaining = 0
	e.total = 0
	e.mu.Unlock()
}

// SkipBreak ends the break early. No-op outside the break state.
func (e *Engine) SkipBreak() {
	e.mu.Lock()
	if e.state != StateBreak {
		e.mu.Unlock()
		return
	}
	e.generation++
	e.state = StateIdle
	e.remaining = 0
	e.total = 0
	e.mu.Unlock()
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// secondsLeftLocked derives the remaining whole seconds from the phase
// deadline, rounding partial seconds up and clamping to [0, total].
func (e *Engine) secondsLeftLocked() int {
	d := e.deadline.Sub(e.now())
	left := int((d + time.Second - 1) / time.Second)
	if left < 0 {
		left = 0
	}
	if left > e.total {
		left = e.total
	}
	return left
}

func (e *Engine) snapshotLocked() Snapshot {
	var progress float64
	if e.total > 0 {
		progress = float64(e.total-e.remaining) / float64(e.total) * 100
	}
	return Snapshot{
		State:     e.state,
		Remaining: e.remaining,
		Total:     e.total,
		Progress:  progress,
	}
}

// run drives the 1-second tick loop for a single phase. It exits as soon as
// tick reports that its generation is stale.
func (e *Engine) run(gen uint64) {
	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	for range ticker.C {
		if !e.tick(gen) {
			return
		}
	}
}

// tick recomputes remaining from the phase deadline. Returns false when the
// loop should stop: the generation moved on, the phase ended, or the timer
// was stopped.
func (e *Engine) tick(gen uint64) bool {
	e.mu.Lock()

	if gen != e.generation {
		e.mu.Unlock()
		return false
	}

	switch e.state {
	case StatePaused:
		// Frozen: the loop stays alive but time doesn't advance.
		e.mu.Unlock()
		return true
	case StateFocus, StateBreak:
	default:
		e.mu.Unlock()
		return false
	}

	e.remaining = e.secondsLeftLocked()
	if e.remaining > 0 {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		if e.cb.OnTick != nil {
			e.cb.OnTick(snap)
		}
		return true
	}

	// Phase complete. Bump the generation so a racing tick can't re-fire.
	e.remaining = 0
	e.generation++
	wasBreak := e.state == StateBreak
	if wasBreak {
		e.state = StateIdle
		e.total = 0
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	if e.cb.OnTick != nil {
		e.cb.OnTick(snap)
	}
	if wasBreak {
		if e.cb.OnBreakComplete != nil {
			e.cb.OnBreakComplete()
		}
	} else {
		if e.cb.OnFocusComplete != nil {
			e.cb.OnFocusComplete()
		}
	}
	return false
}
