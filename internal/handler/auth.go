package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/fernside/internal/middleware"
	"github.com/dukerupert/fernside/internal/store"
)

const minPasswordLength = 8

// AuthHandler implements the optional access password. A fresh install runs
// open; setting a password locks the API behind a login session cookie.
type AuthHandler struct {
	sessions *store.SessionStore
	settings *store.SettingsStore
	logger   *slog.Logger
}

func NewAuthHandler(sessions *store.SessionStore, settings *store.SettingsStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, settings: settings, logger: logger}
}

func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	hash, err := h.settings.Get(store.KeyAccessPasswordHash)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	authenticated := hash == ""
	if !authenticated {
		if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
			sess, err := h.sessions.GetByToken(cookie.Value)
			authenticated = err == nil && sess != nil
		}
	}

	writeJSON(w, http.StatusOK, map[string]bool{
		"password_set":  hash != "",
		"authenticated": authenticated,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	hash, err := h.settings.Get(store.KeyAccessPasswordHash)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if hash == "" {
		writeError(w, http.StatusConflict, "no password configured")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "incorrect password")
		return
	}

	sess, err := h.sessions.Create()
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(cookie.Value); err != nil {
			h.logger.Warn("delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SetPassword sets or changes the access password. Changing requires the
// current password; the route itself sits behind RequireAuth, so an open
// instance can set the first password freely.
func (h *AuthHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if len(req.NewPassword) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	existing, err := h.settings.Get(store.KeyAccessPasswordHash)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(existing), []byte(req.CurrentPassword)); err != nil {
			writeError(w, http.StatusUnauthorized, "current password is incorrect")
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := h.settings.Set(store.KeyAccessPasswordHash, string(hash)); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.logger.Info("access password updated")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
