package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/fernside/internal/auth"
	"github.com/dukerupert/fernside/internal/database"
	"github.com/dukerupert/fernside/internal/store"
)

func setupAuthStores(t *testing.T) (*store.SessionStore, *store.SettingsStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return store.NewSessionStore(db), store.NewSettingsStore(db)
}

func authProbe(gotOpen *bool, gotSession *int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac, _ := auth.FromContext(r.Context())
		*gotOpen = ac.Open
		*gotSession = ac.SessionID
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthOpenInstance(t *testing.T) {
	sessions, settings := setupAuthStores(t)

	var open bool
	var sessionID int64
	handler := RequireAuth(sessions, settings)(authProbe(&open, &sessionID))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with no password set", rec.Code)
	}
	if !open {
		t.Error("open flag not set")
	}
}

func TestRequireAuthRejectsMissingCookie(t *testing.T) {
	sessions, settings := setupAuthStores(t)
	settings.Set(store.KeyAccessPasswordHash, "some-bcrypt-hash")

	var open bool
	var sessionID int64
	handler := RequireAuth(sessions, settings)(authProbe(&open, &sessionID))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}

func TestRequireAuthRejectsUnknownToken(t *testing.T) {
	sessions, settings := setupAuthStores(t)
	settings.Set(store.KeyAccessPasswordHash, "some-bcrypt-hash")

	var open bool
	var sessionID int64
	handler := RequireAuth(sessions, settings)(authProbe(&open, &sessionID))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bogus"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuthAcceptsValidSession(t *testing.T) {
	sessions, settings := setupAuthStores(t)
	settings.Set(store.KeyAccessPasswordHash, "some-bcrypt-hash")

	sess, err := sessions.Create()
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	var open bool
	var sessionID int64
	handler := RequireAuth(sessions, settings)(authProbe(&open, &sessionID))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.Token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if sessionID != sess.ID {
		t.Errorf("session id = %d, want %d", sessionID, sess.ID)
	}
	if open {
		t.Error("open flag set on password-protected instance")
	}
}
