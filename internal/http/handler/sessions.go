package handler

import (
	"net/http"
	"sync"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/journal"
)

// Sessions keeps each signed-in user's journal session (the selected entry
// per day) in memory. Requests of one user run against it one at a time.
type Sessions struct {
	mu    sync.Mutex
	users map[uint64]*userSession
}

type userSession struct {
	mu   sync.Mutex
	sess *journal.Session
}

func NewSessions() *Sessions {
	return &Sessions{users: map[uint64]*userSession{}}
}

func (s *Sessions) get(uid uint64) *userSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	us, ok := s.users[uid]
	if !ok {
		us = &userSession{sess: journal.NewSession(uid)}
		s.users[uid] = us
	}
	return us
}

// With runs fn with the session of the request's user.
func (s *Sessions) With(r *http.Request, fn func(sess *journal.Session)) {
	uid, _ := auth.UserIDFromContext(r.Context())
	if uid == 0 {
		fn(nil)
		return
	}
	us := s.get(uid)
	us.mu.Lock()
	defer us.mu.Unlock()
	fn(us.sess)
}

// Calendar resolves the client's "today": an explicit ?today=YYYY-MM-DD,
// else now in ?tz=, else now in Location.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

func (c Calendar) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c Calendar) Today(r *http.Request) (journal.Day, error) {
	q := r.URL.Query()
	if v := q.Get("today"); v != "" {
		return journal.ParseDay(v)
	}
	loc := c.Location
	if tz := q.Get("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return journal.Day{}, err
		}
		loc = l
	}
	if loc == nil {
		loc = time.Local
	}
	return journal.Today(c.now(), loc), nil
}
