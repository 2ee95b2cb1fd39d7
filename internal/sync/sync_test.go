package sync

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dukerupert/fernside/internal/database"
	"github.com/dukerupert/fernside/internal/model"
	"github.com/dukerupert/fernside/internal/store"
)

func setupManager(t *testing.T, remoteURL, token string) *Manager {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewManager(
		store.NewTaskStore(db),
		store.NewFocusSessionStore(db),
		store.NewStreakStore(db),
		store.NewRoomStore(db),
		store.NewSettingsStore(db),
		remoteURL, token, nil, logger,
	)
	m.backoff = func() retry.Backoff {
		return retry.WithMaxRetries(1, retry.NewConstant(time.Millisecond))
	}
	return m
}

func TestExportImportRoundTrip(t *testing.T) {
	src := setupManager(t, "", "")
	dst := setupManager(t, "", "")

	task, _ := src.tasks.Create("deep work", nil)
	sess, _ := src.sessions.Start(task.ID, 25)
	src.sessions.Complete(sess.ID, nil)
	src.streaks.Save(model.StreakData{CurrentStreak: 4, LongestStreak: 9, LastStreakDate: "2024-01-06", TodaySessionCount: 1})
	src.room.PurchaseItem("rug", 30)
	src.room.AwardPoints(15, "2024-01-06")

	snap, err := src.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(snap.Tasks) != 1 || len(snap.Sessions) != 1 {
		t.Fatalf("snapshot = %d tasks, %d sessions", len(snap.Tasks), len(snap.Sessions))
	}
	if snap.LastAwardDate != "2024-01-06" {
		t.Errorf("last award date = %q", snap.LastAwardDate)
	}

	if err := dst.Import(snap); err != nil {
		t.Fatalf("import: %v", err)
	}

	tasks, _ := dst.tasks.List()
	if len(tasks) != 1 || tasks[0].Text != "deep work" {
		t.Errorf("restored tasks = %+v", tasks)
	}
	streakData, _ := dst.streaks.Get()
	if streakData.LongestStreak != 9 {
		t.Errorf("restored streak = %+v", streakData)
	}
	state, _ := dst.room.GetState()
	if len(state.OwnedItems) != 1 || state.OwnedItems[0].ItemID != "rug" {
		t.Errorf("restored room = %+v", state)
	}
	date, _ := dst.room.LastAwardDate()
	if date != "2024-01-06" {
		t.Errorf("restored award date = %q", date)
	}
}

func TestPushSendsSnapshotWithAuth(t *testing.T) {
	var gotAuth string
	var gotSnap model.Snapshot
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotSnap); err != nil {
			t.Errorf("decode pushed snapshot: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := setupManager(t, srv.URL, "secret-token")
	m.tasks.Create("deep work", nil)

	if err := m.Push(context.Background()); err != nil {
		t.Fatalf("push: %v", err)
	}

	if gotAuth != "Bearer secret-token" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if len(gotSnap.Tasks) != 1 {
		t.Errorf("pushed %d tasks, want 1", len(gotSnap.Tasks))
	}

	status := m.Status()
	if status.Syncing || status.Pending || status.Error != "" {
		t.Errorf("status = %+v, want settled", status)
	}
	if status.LastSyncedAt == nil {
		t.Error("last synced timestamp missing")
	}
}

func TestPushFailureStaysPending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := setupManager(t, srv.URL, "")

	if err := m.Push(context.Background()); err == nil {
		t.Fatal("push succeeded against failing remote")
	}

	status := m.Status()
	if !status.Pending {
		t.Error("failed push not marked pending")
	}
	if status.Error == "" {
		t.Error("error missing from status")
	}
}

func TestPullRestoresRemoteSnapshot(t *testing.T) {
	remote := setupManager(t, "", "")
	remote.tasks.Create("deep work", nil)
	snap, _ := remote.Export()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(snap)
	}))
	defer srv.Close()

	m := setupManager(t, srv.URL, "")
	got, err := m.Pull(context.Background())
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if got == nil || len(got.Tasks) != 1 {
		t.Fatalf("pulled snapshot = %+v", got)
	}

	tasks, _ := m.tasks.List()
	if len(tasks) != 1 || tasks[0].Text != "deep work" {
		t.Errorf("restored tasks = %+v", tasks)
	}
}

func TestPullMissingRemoteData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	m := setupManager(t, srv.URL, "")
	got, err := m.Pull(context.Background())
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if got != nil {
		t.Errorf("snapshot = %+v, want nil for 404", got)
	}
}

func TestDisabledManagerNoOps(t *testing.T) {
	m := setupManager(t, "", "")

	if m.Enabled() {
		t.Error("manager enabled without remote URL")
	}
	if err := m.Push(context.Background()); err != nil {
		t.Errorf("push without remote: %v", err)
	}
	m.Schedule() // must not panic or queue anything
	if m.Status().Pending {
		t.Error("schedule queued work without remote")
	}
}
