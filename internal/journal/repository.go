package journal

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("entry not found")

// Mutation edits e in place and returns the event to record. Returning a
// nil event means "no change": nothing is written.
type Mutation func(e *Entry) (*Event, error)

// Repository persists entries for many owners. Every method is scoped by
// owner; an entry owned by someone else is reported as ErrNotFound.
type Repository interface {
	List(ctx context.Context, ownerID uint64) ([]Entry, error)
	Get(ctx context.Context, ownerID uint64, id string) (Entry, error)
	// Create stores a new entry together with its CREATED event.
	Create(ctx context.Context, e Entry, ev Event) error
	// Mutate loads the entry under a write lock, applies m and persists the
	// result, any newly appended updates and the event atomically.
	Mutate(ctx context.Context, ownerID uint64, id string, m Mutation) (Entry, error)
	// Delete removes the entry, its updates and its events.
	Delete(ctx context.Context, ownerID uint64, id string) (Entry, error)
	// Days returns the distinct days on which the owner has entries.
	Days(ctx context.Context, ownerID uint64) ([]Day, error)
	// FindByIdempotencyKey returns the id of the entry created with key, or ErrNotFound.
	FindByIdempotencyKey(ctx context.Context, ownerID uint64, key string) (string, error)
	Events(ctx context.Context, ownerID uint64, id string) ([]Event, error)
	TagColors(ctx context.Context, ownerID uint64) (map[string]string, error)
	SetTagColor(ctx context.Context, ownerID uint64, tag, color string) error
	// Award records a reached milestone. It reports false when the owner
	// already holds an award for that length.
	Award(ctx context.Context, a Award) (bool, error)
	Awards(ctx context.Context, ownerID uint64) ([]Award, error)
}
