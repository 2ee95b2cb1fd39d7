package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/fernside/internal/backup"
	"github.com/dukerupert/fernside/internal/config"
	"github.com/dukerupert/fernside/internal/focus"
	"github.com/dukerupert/fernside/internal/handler"
	"github.com/dukerupert/fernside/internal/middleware"
	"github.com/dukerupert/fernside/internal/notify"
	"github.com/dukerupert/fernside/internal/store"
	syncer "github.com/dukerupert/fernside/internal/sync"
	"github.com/dukerupert/fernside/internal/timer"
	ws "github.com/dukerupert/fernside/internal/websocket"
)

type Server struct {
	db  *sql.DB
	hub *ws.Hub

	taskH     *handler.TaskHandler
	sessionH  *handler.SessionHandler
	roomH     *handler.RoomHandler
	streakH   *handler.StreakHandler
	reportH   *handler.ReportHandler
	settingsH *handler.SettingsHandler
	authH     *handler.AuthHandler
	pushH     *handler.PushHandler
	syncH     *handler.SyncHandler
	backupH   *handler.BackupHandler

	sessionStore  *store.SessionStore
	settingsStore *store.SettingsStore
	rateLimiter   *middleware.RateLimiter

	orchestrator  *focus.Orchestrator
	syncManager   *syncer.Manager
	backupManager *backup.Manager
	reminder      *notify.StreakReminder

	logger *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, vapidPublic, vapidPrivate string, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	taskStore := store.NewTaskStore(db)
	focusSessionStore := store.NewFocusSessionStore(db)
	streakStore := store.NewStreakStore(db)
	roomStore := store.NewRoomStore(db)
	settingsStore := store.NewSettingsStore(db)
	sessionStore := store.NewSessionStore(db)
	pushStore := store.NewPushStore(db)
	backupStore := store.NewBackupStore(db)

	pushService := notify.NewService(vapidPublic, vapidPrivate)
	notifier := notify.NewNotifier(pushService, pushStore, logger.With("component", "push"))
	reminder := notify.NewStreakReminder(notifier, focusSessionStore, streakStore, pushStore, logger.With("component", "reminder"))

	syncMgr := syncer.NewManager(
		taskStore, focusSessionStore, streakStore, roomStore, settingsStore,
		cfg.SyncRemoteURL, cfg.SyncToken,
		func(st syncer.Status) {
			hub.Broadcast(ws.NewEvent(ws.EventSyncStatus, st))
		},
		logger.With("component", "sync"),
	)

	backupCfg := backup.Config{
		S3: backup.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		},
		DBPath: cfg.DBPath,
	}
	backupMgr := backup.NewManager(backupCfg, db, backupStore, settingsStore, func(st backup.Status) {
		hub.Broadcast(ws.NewEvent("backup_status", st))
	}, logger.With("component", "backup"))

	orch := focus.New(focusSessionStore, taskStore, streakStore, roomStore, settingsStore, focus.Hooks{
		OnTick: func(snap timer.Snapshot) {
			hub.Broadcast(ws.NewEvent(ws.EventTimerTick, snap))
		},
		OnFocusComplete: func() {
			hub.Broadcast(ws.NewEvent(ws.EventFocusComplete, nil))
			notifier.FocusComplete()
		},
		OnBreakComplete: func() {
			hub.Broadcast(ws.NewEvent(ws.EventBreakComplete, nil))
			notifier.BreakComplete()
		},
		OnSessionDone: func(result focus.Result) {
			hub.Broadcast(ws.NewEvent(ws.EventSessionSettled, result))
			syncMgr.Schedule()
		},
	}, logger.With("component", "focus"))

	return &Server{
		db:            db,
		hub:           hub,
		taskH:         handler.NewTaskHandler(taskStore, hub, syncMgr, logger.With("component", "task")),
		sessionH:      handler.NewSessionHandler(orch, syncMgr, logger.With("component", "session")),
		roomH:         handler.NewRoomHandler(roomStore, streakStore, hub, syncMgr, logger.With("component", "room")),
		streakH:       handler.NewStreakHandler(streakStore, logger.With("component", "streak")),
		reportH:       handler.NewReportHandler(focusSessionStore, logger.With("component", "report")),
		settingsH:     handler.NewSettingsHandler(settingsStore, hub, syncMgr, logger.With("component", "settings")),
		authH:         handler.NewAuthHandler(sessionStore, settingsStore, logger.With("component", "auth")),
		pushH:         handler.NewPushHandler(notifier, pushStore, logger.With("component", "push_handler")),
		syncH:         handler.NewSyncHandler(syncMgr, logger.With("component", "sync_handler")),
		backupH:       handler.NewBackupHandler(backupMgr, backupStore, settingsStore, logger.With("component", "backup_handler")),
		sessionStore:  sessionStore,
		settingsStore: settingsStore,
		rateLimiter:   middleware.NewRateLimiter(),
		orchestrator:  orch,
		syncManager:   syncMgr,
		backupManager: backupMgr,
		reminder:      reminder,
		logger:        logger,
	}
}

// SessionStore returns the login session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// SyncManager returns the sync manager for shutdown.
func (s *Server) SyncManager() *syncer.Manager {
	return s.syncManager
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

// StreakReminder returns the evening reminder scheduler.
func (s *Server) StreakReminder() *notify.StreakReminder {
	return s.reminder
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("GET /api/auth/status", s.authH.Status)
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))

	// Protected routes
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.settingsStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	mux.HandleFunc("PUT /api/auth/password", s.authH.SetPassword)

	// Tasks
	mux.HandleFunc("POST /api/tasks", s.taskH.Create)
	mux.HandleFunc("GET /api/tasks", s.taskH.List)
	mux.HandleFunc("GET /api/tasks/{id}", s.taskH.Get)
	mux.HandleFunc("PUT /api/tasks/{id}", s.taskH.Update)
	mux.HandleFunc("PUT /api/tasks/{id}/schedule", s.taskH.SetSchedule)
	mux.HandleFunc("POST /api/tasks/{id}/complete", s.taskH.Complete)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.taskH.Delete)

	// Focus sessions
	mux.HandleFunc("POST /api/session/start", s.sessionH.Start)
	mux.HandleFunc("POST /api/session/pause", s.sessionH.Pause)
	mux.HandleFunc("POST /api/session/resume", s.sessionH.Resume)
	mux.HandleFunc("POST /api/session/stop", s.sessionH.Stop)
	mux.HandleFunc("POST /api/session/reflect", s.sessionH.Reflect)
	mux.HandleFunc("POST /api/session/skip-reflection", s.sessionH.SkipReflection)
	mux.HandleFunc("POST /api/session/skip-break", s.sessionH.SkipBreak)
	mux.HandleFunc("GET /api/session/status", s.sessionH.Status)

	// Room and shop
	mux.HandleFunc("GET /api/room", s.roomH.Get)
	mux.HandleFunc("PUT /api/room/name", s.roomH.Rename)
	mux.HandleFunc("GET /api/shop", s.roomH.Shop)
	mux.HandleFunc("POST /api/shop/{id}/purchase", s.roomH.Purchase)
	mux.HandleFunc("POST /api/room/place", s.roomH.Place)
	mux.HandleFunc("POST /api/room/remove", s.roomH.Remove)
	mux.HandleFunc("POST /api/rewards/{type}/claim", s.roomH.ClaimReward)

	// Streak and reports
	mux.HandleFunc("GET /api/streak", s.streakH.Get)
	mux.HandleFunc("GET /api/reports/daily", s.reportH.Daily)

	// Preferences and mood
	mux.HandleFunc("GET /api/preferences", s.settingsH.GetPreferences)
	mux.HandleFunc("PUT /api/preferences", s.settingsH.UpdatePreferences)
	mux.HandleFunc("GET /api/mood", s.settingsH.Mood)

	// Web push
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDPublicKey)
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)

	// Cloud sync
	mux.HandleFunc("GET /api/sync/status", s.syncH.Status)
	mux.HandleFunc("POST /api/sync/push", s.syncH.Push)
	mux.HandleFunc("POST /api/sync/pull", s.syncH.Pull)
	mux.HandleFunc("GET /api/sync/export", s.syncH.Export)
	mux.HandleFunc("POST /api/sync/import", s.syncH.Import)

	// Backups
	mux.HandleFunc("GET /api/backups", s.backupH.List)
	mux.HandleFunc("GET /api/backups/status", s.backupH.Status)
	mux.HandleFunc("PUT /api/backups/settings", s.backupH.Configure)
	mux.HandleFunc("POST /api/backups/now", s.backupH.RunNow)
	mux.HandleFunc("POST /api/backups/{id}/restore", s.backupH.Restore)
	mux.HandleFunc("GET /api/backups/{id}/download", s.backupH.Download)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
