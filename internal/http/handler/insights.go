package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/journal"
	"inkwell/internal/logging"
)

// InsightHandler serves the read-side views: day buckets, streaks, tags and moods.
type InsightHandler struct {
	Store    *journal.Store
	Sessions *Sessions
	Calendar Calendar
	Logger   logging.Logger
}

func (h *InsightHandler) Day(w http.ResponseWriter, r *http.Request) {
	day, err := journal.ParseDay(chi.URLParam(r, "day"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	selected := strings.TrimSpace(r.URL.Query().Get("selected"))

	h.Sessions.With(r, func(sess *journal.Session) {
		if selected != "" {
			sess.Selection.Select(day, selected)
		}
		v, err := h.Store.DayView(r.Context(), sess, day)
		if err != nil {
			serverError(w, h.Logger, "day view", err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	})
}

func (h *InsightHandler) Streak(w http.ResponseWriter, r *http.Request) {
	today, err := h.Calendar.Today(r)
	if err != nil {
		http.Error(w, "invalid today/tz", http.StatusBadRequest)
		return
	}
	h.Sessions.With(r, func(sess *journal.Session) {
		rep, err := h.Store.Streak(r.Context(), sess, today)
		if err != nil {
			serverError(w, h.Logger, "streak", err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	})
}

// Milestones lists the milestone table and the ones already awarded.
func (h *InsightHandler) Milestones(w http.ResponseWriter, r *http.Request) {
	h.Sessions.With(r, func(sess *journal.Session) {
		awards, err := h.Store.Awards(r.Context(), sess)
		if err != nil {
			serverError(w, h.Logger, "list awards", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"milestones": h.Store.MilestoneTable(),
			"awards":     awards,
		})
	})
}

func (h *InsightHandler) Tags(w http.ResponseWriter, r *http.Request) {
	h.Sessions.With(r, func(sess *journal.Session) {
		tags, err := h.Store.Tags(r.Context(), sess)
		if err != nil {
			serverError(w, h.Logger, "tags", err)
			return
		}
		writeJSON(w, http.StatusOK, tags)
	})
}

func (h *InsightHandler) SetTagColor(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req struct {
		Color string `json:"color"`
	}
	if !decode(w, r, &req) {
		return
	}
	if !journal.ValidColor(req.Color) {
		http.Error(w, "color must be #rrggbb", http.StatusBadRequest)
		return
	}
	h.Sessions.With(r, func(sess *journal.Session) {
		outcome, err := h.Store.SetTagColor(r.Context(), sess, name, strings.ToLower(req.Color))
		if err != nil {
			serverError(w, h.Logger, "set tag color", err)
			return
		}
		if outcome == journal.NotFound {
			http.Error(w, "invalid tag", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"outcome": outcome})
	})
}

func (h *InsightHandler) Moods(w http.ResponseWriter, r *http.Request) {
	var from, to journal.Day
	for param, dst := range map[string]*journal.Day{"from": &from, "to": &to} {
		v := r.URL.Query().Get(param)
		if v == "" {
			continue
		}
		d, err := journal.ParseDay(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		*dst = d
	}
	h.Sessions.With(r, func(sess *journal.Session) {
		moods, err := h.Store.Moods(r.Context(), sess, from, to)
		if err != nil {
			serverError(w, h.Logger, "moods", err)
			return
		}
		if moods == nil {
			moods = []journal.MoodCount{}
		}
		writeJSON(w, http.StatusOK, moods)
	})
}
