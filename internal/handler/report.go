package handler

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/dukerupert/fernside/internal/store"
	"github.com/dukerupert/fernside/internal/streak"
)

const defaultReportDays = 7

type ReportHandler struct {
	sessions *store.FocusSessionStore
	logger   *slog.Logger
}

func NewReportHandler(sessions *store.FocusSessionStore, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{sessions: sessions, logger: logger}
}

type dayReport struct {
	Date         string `json:"date"`
	Sessions     int    `json:"sessions"`
	FocusMinutes int    `json:"focus_minutes"`
	Reflections  int    `json:"reflections"`
}

// Daily aggregates completed sessions per calendar day for the requested
// window (?days=N, default 7). Days without sessions are included so charts
// render gaps.
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	days := defaultReportDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 365 {
			writeError(w, http.StatusBadRequest, "days must be between 1 and 365")
			return
		}
		days = n
	}

	now := time.Now()
	since := now.AddDate(0, 0, -(days - 1))
	start := time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, since.Location())

	sessions, err := h.sessions.ListCompletedSince(start)
	if err != nil {
		h.logger.Error("list sessions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	byDay := make(map[string]*dayReport, days)
	for i := 0; i < days; i++ {
		day := streak.Today(start.AddDate(0, 0, i))
		byDay[day] = &dayReport{Date: day}
	}

	for _, s := range sessions {
		if s.CompletedAt == nil {
			continue
		}
		day := streak.Today(*s.CompletedAt)
		report, ok := byDay[day]
		if !ok {
			continue
		}
		report.Sessions++
		report.FocusMinutes += s.Duration
		if s.Reflection != nil {
			report.Reflections++
		}
	}

	out := make([]dayReport, 0, len(byDay))
	for _, report := range byDay {
		out = append(out, *report)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })

	writeJSON(w, http.StatusOK, out)
}
