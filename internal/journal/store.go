package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"

	"inkwell/internal/logging"
)

// Outcome reports what a store operation did. Only Applied changes state;
// the others are silent guards, not failures.
type Outcome int

const (
	Applied Outcome = iota
	Unauthenticated
	NotFound
	// Locked: content or mood edit attempted on a locked entry.
	Locked
	// Unlocked: update appended to an entry that is not locked yet.
	Unlocked
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Unauthenticated:
		return "unauthenticated"
	case NotFound:
		return "not_found"
	case Locked:
		return "locked"
	case Unlocked:
		return "unlocked"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Session is the explicit per-user state the store acts on behalf of.
// OwnerID 0 means nobody is signed in.
type Session struct {
	OwnerID   uint64
	Selection Selection
}

func NewSession(ownerID uint64) *Session { return &Session{OwnerID: ownerID} }

func (s *Session) authenticated() bool { return s != nil && s.OwnerID != 0 }

// Store owns the entry lifecycle for signed-in owners. Mutations on behalf
// of an anonymous session, on missing entries, or against the lock policy
// change nothing and report why through their Outcome. The error return is
// reserved for persistence failures.
type Store struct {
	Repo       Repository
	Clock      Clock
	IDs        IDGenerator
	Logger     logging.Logger
	Hub        *Hub
	Milestones []Milestone
	Palette    []string
}

// NewEntry is the input of CreateEntry. A zero Day means today on the store's clock.
type NewEntry struct {
	Day            Day
	Content        string
	Mood           *Mood
	Tags           []string
	IdempotencyKey string
}

// DayView is the day bucket plus the entry currently shown for it.
type DayView struct {
	Day      Day     `json:"day"`
	Entries  []Entry `json:"entries"`
	Selected string  `json:"selected"`
	Current  *Entry  `json:"current"`
}

func (s *Store) clock() Clock {
	if s.Clock == nil {
		return RealClock{}
	}
	return s.Clock
}

func (s *Store) ids() IDGenerator {
	if s.IDs == nil {
		return UUIDGenerator{}
	}
	return s.IDs
}

func (s *Store) log() logging.Logger {
	if s.Logger == nil {
		return logging.Nop{}
	}
	return s.Logger
}

func (s *Store) milestones() []Milestone {
	if len(s.Milestones) == 0 {
		return DefaultMilestones
	}
	return s.Milestones
}

func (s *Store) event(e Entry, typ string, payload map[string]any) (*Event, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		EntryID:   e.ID,
		OwnerID:   e.OwnerID,
		Type:      typ,
		Payload:   datatypes.JSON(b),
		CreatedAt: e.UpdatedAt,
	}, nil
}

func (s *Store) fail(op string, err error, args ...any) error {
	s.log().Error(op+" failed", append(args, "err", err)...)
	return fmt.Errorf("%s: %w", op, err)
}

// CreateEntry stores a new unlocked entry and makes it the selected entry
// for its day. Repeating a create with the same idempotency key returns the
// original entry id.
func (s *Store) CreateEntry(ctx context.Context, sess *Session, in NewEntry) (string, Outcome, error) {
	if !sess.authenticated() {
		return "", Unauthenticated, nil
	}

	if in.IdempotencyKey != "" {
		id, err := s.Repo.FindByIdempotencyKey(ctx, sess.OwnerID, in.IdempotencyKey)
		switch {
		case err == nil:
			if e, err := s.Repo.Get(ctx, sess.OwnerID, id); err == nil {
				sess.Selection.Select(e.Day, e.ID)
			}
			return id, Applied, nil
		case !errors.Is(err, ErrNotFound):
			return "", Applied, s.fail("create entry", err, "owner", sess.OwnerID)
		}
	}

	now := s.clock().Now()
	day := in.Day
	if day.IsZero() {
		day = DayOf(now)
	}
	now = now.UTC()
	e := Entry{
		ID:        s.ids().New(),
		OwnerID:   sess.OwnerID,
		Day:       day,
		Content:   in.Content,
		Mood:      in.Mood,
		Tags:      NormalizeTags(in.Tags),
		WordCount: WordCount(in.Content),
		CreatedAt: now,
		UpdatedAt: now,
	}

	ev, err := s.event(e, EventCreated, map[string]any{
		"day":        e.Day.String(),
		"word_count": e.WordCount,
	})
	if err != nil {
		return "", Applied, err
	}
	if in.IdempotencyKey != "" {
		k := in.IdempotencyKey
		ev.IdempotencyKey = &k
	}

	if err := s.Repo.Create(ctx, e, *ev); err != nil {
		return "", Applied, s.fail("create entry", err, "owner", sess.OwnerID, "day", e.Day.String())
	}

	sess.Selection.Select(e.Day, e.ID)
	s.Hub.Publish(Change{OwnerID: e.OwnerID, EntryID: e.ID, Day: e.Day, Kind: ChangeCreated})
	s.log().Debug("entry created", "owner", e.OwnerID, "entry", e.ID, "day", e.Day.String())
	return e.ID, Applied, nil
}

// mutate runs m through the repository and translates not-found into an
// Outcome. m reports its own policy outcome through *outcome and returns a
// nil event to leave the entry untouched.
func (s *Store) mutate(ctx context.Context, sess *Session, op, id string, m func(e *Entry, outcome *Outcome) (*Event, error)) (Entry, Outcome, error) {
	if !sess.authenticated() {
		return Entry{}, Unauthenticated, nil
	}

	outcome := Applied
	e, err := s.Repo.Mutate(ctx, sess.OwnerID, id, func(e *Entry) (*Event, error) {
		return m(e, &outcome)
	})
	if errors.Is(err, ErrNotFound) {
		return Entry{}, NotFound, nil
	}
	if err != nil {
		return Entry{}, Applied, s.fail(op, err, "owner", sess.OwnerID, "entry", id)
	}

	if outcome == Applied {
		s.Hub.Publish(Change{OwnerID: e.OwnerID, EntryID: e.ID, Day: e.Day, Kind: ChangeUpdated})
	}
	return e, outcome, nil
}

// UpdateEntry replaces content, mood and tags of an unlocked entry. On a
// locked entry nothing changes, tags included, and the outcome is Locked.
func (s *Store) UpdateEntry(ctx context.Context, sess *Session, id, content string, mood *Mood, tags []string) (Entry, Outcome, error) {
	return s.mutate(ctx, sess, "update entry", id, func(e *Entry, outcome *Outcome) (*Event, error) {
		if e.IsLocked {
			*outcome = Locked
			return nil, nil
		}
		e.Content = content
		e.Mood = mood
		e.Tags = NormalizeTags(tags)
		e.WordCount = WordCount(content)
		e.UpdatedAt = s.clock().Now().UTC()
		return s.event(*e, EventUpdated, map[string]any{"word_count": e.WordCount})
	})
}

// UpdateEntryTags replaces the tags. Tags are exempt from the lock.
func (s *Store) UpdateEntryTags(ctx context.Context, sess *Session, id string, tags []string) (Entry, Outcome, error) {
	return s.mutate(ctx, sess, "update entry tags", id, func(e *Entry, _ *Outcome) (*Event, error) {
		e.Tags = NormalizeTags(tags)
		e.UpdatedAt = s.clock().Now().UTC()
		return s.event(*e, EventTagsUpdated, map[string]any{"tags": []string(e.Tags)})
	})
}

// LockEntry is idempotent; locking again only refreshes UpdatedAt.
func (s *Store) LockEntry(ctx context.Context, sess *Session, id string) (Entry, Outcome, error) {
	return s.mutate(ctx, sess, "lock entry", id, func(e *Entry, _ *Outcome) (*Event, error) {
		was := e.IsLocked
		e.IsLocked = true
		e.UpdatedAt = s.clock().Now().UTC()
		return s.event(*e, EventLocked, map[string]any{"already_locked": was})
	})
}

// AddEntryUpdate appends an addendum to a locked entry. Entries that are
// still editable get Unlocked and no update.
func (s *Store) AddEntryUpdate(ctx context.Context, sess *Session, id, content string) (Update, Outcome, error) {
	var u Update
	_, outcome, err := s.mutate(ctx, sess, "add entry update", id, func(e *Entry, outcome *Outcome) (*Event, error) {
		if !e.IsLocked {
			*outcome = Unlocked
			return nil, nil
		}
		now := s.clock().Now().UTC()
		u = Update{ID: s.ids().New(), EntryID: e.ID, Content: content, CreatedAt: now}
		e.Updates = append(e.Updates, u)
		e.UpdatedAt = now
		return s.event(*e, EventUpdateAppended, map[string]any{"update_id": u.ID})
	})
	if outcome != Applied || err != nil {
		return Update{}, outcome, err
	}
	return u, outcome, nil
}

func (s *Store) ToggleBookmark(ctx context.Context, sess *Session, id string) (Entry, Outcome, error) {
	return s.mutate(ctx, sess, "toggle bookmark", id, func(e *Entry, _ *Outcome) (*Event, error) {
		e.IsBookmarked = !e.IsBookmarked
		e.UpdatedAt = s.clock().Now().UTC()
		return s.event(*e, EventBookmarkToggled, map[string]any{"is_bookmarked": e.IsBookmarked})
	})
}

// DeleteEntry removes the entry for good. When it was the current entry of
// its day, selected or implicitly the newest, the selection moves to the
// newest remaining entry of that day, or is cleared. The returned id is the
// day's selection afterwards.
func (s *Store) DeleteEntry(ctx context.Context, sess *Session, id string) (string, Outcome, error) {
	if !sess.authenticated() {
		return "", Unauthenticated, nil
	}

	e, err := s.Repo.Delete(ctx, sess.OwnerID, id)
	if errors.Is(err, ErrNotFound) {
		return "", NotFound, nil
	}
	if err != nil {
		return "", Applied, s.fail("delete entry", err, "owner", sess.OwnerID, "entry", id)
	}
	s.Hub.Publish(Change{OwnerID: e.OwnerID, EntryID: e.ID, Day: e.Day, Kind: ChangeDeleted})

	// no selection means the newest entry was current, which may be e
	selected := sess.Selection.Selected(e.Day)
	if selected != "" && selected != id {
		return selected, Applied, nil
	}
	all, err := s.Repo.List(ctx, sess.OwnerID)
	if err != nil {
		// the delete happened; only the fallback could not be computed
		sess.Selection.Clear(e.Day)
		return "", Applied, s.fail("delete entry", err, "owner", sess.OwnerID, "entry", id)
	}
	return sess.Selection.Reconcile(e.Day, EntriesForDay(all, e.Day)), Applied, nil
}

func (s *Store) Entry(ctx context.Context, sess *Session, id string) (Entry, Outcome, error) {
	if !sess.authenticated() {
		return Entry{}, Unauthenticated, nil
	}
	e, err := s.Repo.Get(ctx, sess.OwnerID, id)
	if errors.Is(err, ErrNotFound) {
		return Entry{}, NotFound, nil
	}
	if err != nil {
		return Entry{}, Applied, s.fail("get entry", err, "owner", sess.OwnerID, "entry", id)
	}
	return e, Applied, nil
}

// Entries returns all of the owner's entries, newest first.
func (s *Store) Entries(ctx context.Context, sess *Session) ([]Entry, error) {
	if !sess.authenticated() {
		return nil, nil
	}
	all, err := s.Repo.List(ctx, sess.OwnerID)
	if err != nil {
		return nil, s.fail("list entries", err, "owner", sess.OwnerID)
	}
	newestFirst(all)
	return all, nil
}

// DayView builds the day bucket as the session currently sees it. A
// selection whose entry is gone yields no current entry; only mutations
// move the selection.
func (s *Store) DayView(ctx context.Context, sess *Session, day Day) (DayView, error) {
	v := DayView{Day: day, Entries: []Entry{}}
	if !sess.authenticated() {
		return v, nil
	}
	all, err := s.Entries(ctx, sess)
	if err != nil {
		return v, err
	}
	v.Entries = EntriesForDay(all, day)
	v.Selected = sess.Selection.Selected(day)
	v.Current = CurrentEntry(v.Entries, v.Selected)
	if v.Current != nil {
		v.Selected = v.Current.ID
	}
	return v, nil
}

// Search matches query against the plain text of the owner's entries. A
// non-empty tag further restricts the result to entries carrying it.
func (s *Store) Search(ctx context.Context, sess *Session, query, tag string) ([]Entry, error) {
	all, err := s.Entries(ctx, sess)
	if err != nil {
		return nil, err
	}
	if tag != "" {
		all = WithTag(all, tag)
	}
	return Search(all, query), nil
}

// Streak computes the streak report with today as the reference day.
// Locked and unlocked entries count the same.
func (s *Store) Streak(ctx context.Context, sess *Session, today Day) (Report, error) {
	if !sess.authenticated() {
		return ComputeStreak(nil, today, s.milestones()), nil
	}
	days, err := s.Repo.Days(ctx, sess.OwnerID)
	if err != nil {
		return Report{}, s.fail("streak", err, "owner", sess.OwnerID)
	}
	return ComputeStreak(days, today, s.milestones()), nil
}

func (s *Store) MilestoneTable() []Milestone { return s.milestones() }

// Awards lists the milestones the owner has been awarded, shortest first.
func (s *Store) Awards(ctx context.Context, sess *Session) ([]Award, error) {
	if !sess.authenticated() {
		return []Award{}, nil
	}
	awards, err := s.Repo.Awards(ctx, sess.OwnerID)
	if err != nil {
		return nil, s.fail("awards", err, "owner", sess.OwnerID)
	}
	return awards, nil
}

func (s *Store) Timeline(ctx context.Context, sess *Session, id string) ([]Event, Outcome, error) {
	if !sess.authenticated() {
		return nil, Unauthenticated, nil
	}
	evs, err := s.Repo.Events(ctx, sess.OwnerID, id)
	if errors.Is(err, ErrNotFound) {
		return nil, NotFound, nil
	}
	if err != nil {
		return nil, Applied, s.fail("timeline", err, "owner", sess.OwnerID, "entry", id)
	}
	return evs, Applied, nil
}

// Tags summarizes tag usage with each tag's display color.
func (s *Store) Tags(ctx context.Context, sess *Session) ([]TagCount, error) {
	if !sess.authenticated() {
		return []TagCount{}, nil
	}
	all, err := s.Entries(ctx, sess)
	if err != nil {
		return nil, err
	}
	colors, err := s.Repo.TagColors(ctx, sess.OwnerID)
	if err != nil {
		return nil, s.fail("tag colors", err, "owner", sess.OwnerID)
	}
	return SummarizeTags(all, colors, s.Palette), nil
}

func (s *Store) SetTagColor(ctx context.Context, sess *Session, tag, color string) (Outcome, error) {
	if !sess.authenticated() {
		return Unauthenticated, nil
	}
	tags := NormalizeTags([]string{tag})
	if len(tags) == 0 {
		return NotFound, nil
	}
	if err := s.Repo.SetTagColor(ctx, sess.OwnerID, tags[0], color); err != nil {
		return Applied, s.fail("set tag color", err, "owner", sess.OwnerID, "tag", tags[0])
	}
	return Applied, nil
}

// Moods counts moods in [from, to]; zero days leave the range open.
func (s *Store) Moods(ctx context.Context, sess *Session, from, to Day) ([]MoodCount, error) {
	all, err := s.Entries(ctx, sess)
	if err != nil {
		return nil, err
	}
	return MoodSummary(all, from, to), nil
}
