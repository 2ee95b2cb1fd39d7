package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dukerupert/fernside/internal/model"
	"github.com/dukerupert/fernside/internal/store"
)

// debounceDelay batches rapid mutations into a single push.
const debounceDelay = 2 * time.Second

// Status describes the sync state shown to clients.
type Status struct {
	Syncing      bool       `json:"syncing"`
	LastSyncedAt *time.Time `json:"last_synced_at"`
	Pending      bool       `json:"pending"`
	Error        string     `json:"error,omitempty"`
}

// Manager exports and restores full state snapshots and pushes them to an
// optional remote endpoint, debounced and retried. A push that fails after
// retries stays pending and goes out on the next schedule.
type Manager struct {
	tasks    *store.TaskStore
	sessions *store.FocusSessionStore
	streaks  *store.StreakStore
	room     *store.RoomStore
	settings *store.SettingsStore

	remoteURL string
	token     string
	client    *http.Client
	logger    *slog.Logger

	// onStatus, when set, receives every status change (for websocket
	// broadcast).
	onStatus func(Status)

	// backoff governs push retries; shortened in tests.
	backoff func() retry.Backoff

	mu       sync.Mutex
	timer    *time.Timer
	status   Status
	stopped  bool
}

func NewManager(tasks *store.TaskStore, sessions *store.FocusSessionStore, streaks *store.StreakStore, room *store.RoomStore, settings *store.SettingsStore, remoteURL, token string, onStatus func(Status), logger *slog.Logger) *Manager {
	return &Manager{
		tasks:     tasks,
		sessions:  sessions,
		streaks:   streaks,
		room:      room,
		settings:  settings,
		remoteURL: remoteURL,
		token:     token,
		client:    &http.Client{Timeout: 30 * time.Second},
		onStatus:  onStatus,
		logger:    logger,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(4, retry.NewExponential(500*time.Millisecond))
		},
	}
}

// Enabled reports whether a remote endpoint is configured.
func (m *Manager) Enabled() bool {
	return m.remoteURL != ""
}

// Export assembles a snapshot of everything.
func (m *Manager) Export() (*model.Snapshot, error) {
	tasks, err := m.tasks.List()
	if err != nil {
		return nil, fmt.Errorf("export tasks: %w", err)
	}
	sessions, err := m.sessions.List()
	if err != nil {
		return nil, fmt.Errorf("export sessions: %w", err)
	}
	prefs, err := m.settings.GetPreferences()
	if err != nil {
		return nil, fmt.Errorf("export preferences: %w", err)
	}
	streakData, err := m.streaks.Get()
	if err != nil {
		return nil, fmt.Errorf("export streak: %w", err)
	}
	roomState, err := m.room.GetState()
	if err != nil {
		return nil, fmt.Errorf("export room: %w", err)
	}
	lastAward, err := m.room.LastAwardDate()
	if err != nil {
		return nil, fmt.Errorf("export award date: %w", err)
	}

	return &model.Snapshot{
		Tasks:         tasks,
		Sessions:      sessions,
		Preferences:   prefs,
		StreakData:    streakData,
		RoomState:     roomState,
		LastAwardDate: lastAward,
		UpdatedAt:     time.Now().UTC(),
	}, nil
}

// Import replaces all local state with the snapshot.
func (m *Manager) Import(snap *model.Snapshot) error {
	if err := m.tasks.ReplaceAll(snap.Tasks); err != nil {
		return fmt.Errorf("restore tasks: %w", err)
	}
	if err := m.sessions.ReplaceAll(snap.Sessions); err != nil {
		return fmt.Errorf("restore sessions: %w", err)
	}
	if err := m.settings.SavePreferences(snap.Preferences); err != nil {
		return fmt.Errorf("restore preferences: %w", err)
	}
	if err := m.streaks.Save(snap.StreakData); err != nil {
		return fmt.Errorf("restore streak: %w", err)
	}
	if err := m.room.ReplaceState(snap.RoomState, snap.LastAwardDate); err != nil {
		return fmt.Errorf("restore room: %w", err)
	}
	m.logger.Info("snapshot restored",
		"tasks", len(snap.Tasks),
		"sessions", len(snap.Sessions),
	)
	return nil
}

// Schedule queues a debounced push. Safe to call on every mutation.
func (m *Manager) Schedule() {
	if !m.Enabled() {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}

	m.status.Pending = true
	m.notifyLocked()

	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(debounceDelay, func() {
		m.Push(context.Background())
	})
}

// Push exports and uploads a snapshot immediately, retrying transient
// failures with exponential backoff.
func (m *Manager) Push(ctx context.Context) error {
	if !m.Enabled() {
		return nil
	}

	m.setSyncing(true, "")

	snap, err := m.Export()
	if err != nil {
		m.setSyncing(false, err.Error())
		return err
	}

	body, err := json.Marshal(snap)
	if err != nil {
		m.setSyncing(false, err.Error())
		return fmt.Errorf("encode snapshot: %w", err)
	}

	err = retry.Do(ctx, m.backoff(), func(ctx context.Context) error {
		return retry.RetryableError(m.upload(ctx, body))
	})
	if err != nil {
		m.setSyncing(false, err.Error())
		m.logger.Warn("snapshot push failed", "error", err)
		return err
	}

	now := time.Now().UTC()
	m.mu.Lock()
	m.status = Status{LastSyncedAt: &now}
	m.notifyLocked()
	m.mu.Unlock()

	m.logger.Info("snapshot pushed")
	return nil
}

// Pull fetches the remote snapshot and restores it locally.
func (m *Manager) Pull(ctx context.Context) (*model.Snapshot, error) {
	if !m.Enabled() {
		return nil, fmt.Errorf("sync remote not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.remoteURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build pull request: %w", err)
	}
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pull snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sync remote returned %d", resp.StatusCode)
	}

	var snap model.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	if err := m.Import(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Status returns the current sync status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Stop cancels any pending debounced push.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	if m.timer != nil {
		m.timer.Stop()
	}
}

func (m *Manager) upload(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, m.remoteURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("sync remote returned %d", resp.StatusCode)
	}
	return nil
}

func (m *Manager) setSyncing(syncing bool, errMsg string) {
	m.mu.Lock()
	m.status.Syncing = syncing
	m.status.Error = errMsg
	if syncing {
		m.status.Pending = false
	} else if errMsg != "" {
		m.status.Pending = true
	}
	m.notifyLocked()
	m.mu.Unlock()
}

func (m *Manager) notifyLocked() {
	if m.onStatus != nil {
		go m.onStatus(m.status)
	}
}
