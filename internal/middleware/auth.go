package middleware

import (
	"net/http"

	"github.com/dukerupert/fernside/internal/auth"
	"github.com/dukerupert/fernside/internal/store"
)

// SessionCookieName is the login session cookie.
const SessionCookieName = "fernside_session"

// RequireAuth validates the session cookie and populates AuthContext. When no
// access password has been configured the instance runs open and every
// request passes.
func RequireAuth(sessions *store.SessionStore, settings *store.SettingsStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hash, err := settings.Get(store.KeyAccessPasswordHash)
			if err != nil {
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}
			if hash == "" {
				ctx := auth.WithAuth(r.Context(), auth.AuthContext{Open: true})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			sess, err := sessions.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				unauthorized(w)
				return
			}

			ctx := auth.WithAuth(r.Context(), auth.AuthContext{SessionID: sess.ID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"authentication required"}`))
}
