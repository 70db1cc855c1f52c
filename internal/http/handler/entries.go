package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/auth"
	"inkwell/internal/jobs"
	"inkwell/internal/journal"
	"inkwell/internal/logging"
)

type EntryHandler struct {
	Store    *journal.Store
	Jobs     *jobs.Repo
	Sessions *Sessions
	Calendar Calendar
	Logger   logging.Logger
}

type entryReq struct {
	Day     string   `json:"day"`
	Content string   `json:"content"`
	Mood    string   `json:"mood"`
	Tags    []string `json:"tags"`
}

type mutationResp struct {
	Outcome journal.Outcome `json:"outcome"`
	Entry   *journal.Entry  `json:"entry,omitempty"`
}

// respond writes the outcome of a mutation. Policy no-ops are still 200;
// only a missing entry is 404.
func respond(w http.ResponseWriter, e journal.Entry, outcome journal.Outcome) {
	if outcome == journal.NotFound {
		writeJSON(w, http.StatusNotFound, mutationResp{Outcome: outcome})
		return
	}
	writeJSON(w, http.StatusOK, mutationResp{Outcome: outcome, Entry: &e})
}

func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entryReq
	if !decode(w, r, &req) {
		return
	}
	mood, err := journal.ParseMood(req.Mood)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var day journal.Day
	if req.Day != "" {
		if day, err = journal.ParseDay(req.Day); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	} else if day, err = h.Calendar.Today(r); err != nil {
		http.Error(w, "invalid today/tz", http.StatusBadRequest)
		return
	}

	in := journal.NewEntry{
		Day:            day,
		Content:        req.Content,
		Mood:           mood,
		Tags:           req.Tags,
		IdempotencyKey: strings.TrimSpace(r.Header.Get("Idempotency-Key")),
	}

	h.Sessions.With(r, func(sess *journal.Session) {
		id, outcome, err := h.Store.CreateEntry(r.Context(), sess, in)
		if err != nil {
			serverError(w, h.Logger, "create entry", err)
			return
		}
		if outcome != journal.Applied {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		e, outcome, err := h.Store.Entry(r.Context(), sess, id)
		if err != nil {
			serverError(w, h.Logger, "create entry", err)
			return
		}
		h.enqueueReview(r, sess.OwnerID)
		respond(w, e, outcome)
	})
}

func (h *EntryHandler) enqueueReview(r *http.Request, uid uint64) {
	if h.Jobs == nil {
		return
	}
	today, err := h.Calendar.Today(r)
	if err != nil {
		today = journal.Today(h.Calendar.now(), time.UTC)
	}
	if err := h.Jobs.EnqueueStreakReview(r.Context(), uid, today, h.Calendar.now()); err != nil {
		// the entry is saved; awards catch up on the next create
		h.log().Warn("enqueue streak review failed", "user", uid, "err", err)
	}
}

func (h *EntryHandler) log() logging.Logger {
	if h.Logger == nil {
		return logging.Nop{}
	}
	return h.Logger
}

func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	tag := strings.TrimSpace(strings.ToLower(r.URL.Query().Get("tag")))
	var day journal.Day
	if v := r.URL.Query().Get("day"); v != "" {
		var err error
		if day, err = journal.ParseDay(v); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	h.Sessions.With(r, func(sess *journal.Session) {
		out, err := h.Store.Search(r.Context(), sess, q, tag)
		if err != nil {
			serverError(w, h.Logger, "list entries", err)
			return
		}
		if !day.IsZero() {
			out = journal.EntriesForDay(out, day)
		}
		if out == nil {
			out = []journal.Entry{}
		}
		writeJSON(w, http.StatusOK, out)
	})
}

func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.Sessions.With(r, func(sess *journal.Session) {
		e, outcome, err := h.Store.Entry(r.Context(), sess, id)
		if err != nil {
			serverError(w, h.Logger, "get entry", err)
			return
		}
		if outcome == journal.NotFound {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, e)
	})
}

func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req entryReq
	if !decode(w, r, &req) {
		return
	}
	mood, err := journal.ParseMood(req.Mood)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Sessions.With(r, func(sess *journal.Session) {
		e, outcome, err := h.Store.UpdateEntry(r.Context(), sess, id, req.Content, mood, req.Tags)
		if err != nil {
			serverError(w, h.Logger, "update entry", err)
			return
		}
		respond(w, e, outcome)
	})
}

func (h *EntryHandler) UpdateTags(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Tags []string `json:"tags"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.Sessions.With(r, func(sess *journal.Session) {
		e, outcome, err := h.Store.UpdateEntryTags(r.Context(), sess, id, req.Tags)
		if err != nil {
			serverError(w, h.Logger, "update tags", err)
			return
		}
		respond(w, e, outcome)
	})
}

func (h *EntryHandler) Lock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.Sessions.With(r, func(sess *journal.Session) {
		e, outcome, err := h.Store.LockEntry(r.Context(), sess, id)
		if err != nil {
			serverError(w, h.Logger, "lock entry", err)
			return
		}
		respond(w, e, outcome)
	})
}

func (h *EntryHandler) AddUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Content string `json:"content"`
	}
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "content required", http.StatusBadRequest)
		return
	}
	h.Sessions.With(r, func(sess *journal.Session) {
		u, outcome, err := h.Store.AddEntryUpdate(r.Context(), sess, id, req.Content)
		if err != nil {
			serverError(w, h.Logger, "add entry update", err)
			return
		}
		resp := map[string]any{"outcome": outcome}
		status := http.StatusOK
		switch outcome {
		case journal.Applied:
			resp["update"] = u
		case journal.NotFound:
			status = http.StatusNotFound
		}
		writeJSON(w, status, resp)
	})
}

func (h *EntryHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.Sessions.With(r, func(sess *journal.Session) {
		e, outcome, err := h.Store.ToggleBookmark(r.Context(), sess, id)
		if err != nil {
			serverError(w, h.Logger, "toggle bookmark", err)
			return
		}
		respond(w, e, outcome)
	})
}

func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.Sessions.With(r, func(sess *journal.Session) {
		next, outcome, err := h.Store.DeleteEntry(r.Context(), sess, id)
		if err != nil {
			serverError(w, h.Logger, "delete entry", err)
			return
		}
		status := http.StatusOK
		if outcome == journal.NotFound {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]any{"outcome": outcome, "selected": next})
	})
}

func (h *EntryHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.Sessions.With(r, func(sess *journal.Session) {
		evs, outcome, err := h.Store.Timeline(r.Context(), sess, id)
		if err != nil {
			serverError(w, h.Logger, "timeline", err)
			return
		}
		if outcome == journal.NotFound {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, evs)
	})
}

// Stream pushes the user's entry changes as server-sent events until the
// client goes away.
func (h *EntryHandler) Stream(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	changes := h.Store.Hub.Subscribe(r.Context(), uid)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ping := time.NewTicker(25 * time.Second)
	defer ping.Stop()
	for {
		select {
		case c, ok := <-changes:
			if !ok {
				return
			}
			b, err := json.Marshal(c)
			if err != nil {
				h.log().Error("encode change", "err", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", c.Kind, b)
			flusher.Flush()
		case <-ping.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
