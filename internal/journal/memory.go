package journal

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is an in-process Repository. Safe for concurrent use.
type MemoryRepository struct {
	mu      sync.Mutex
	entries map[string]Entry
	events  []Event
	nextEv  uint64
	colors  map[uint64]map[string]string
	awards  []Award
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		entries: map[string]Entry{},
		colors:  map[uint64]map[string]string{},
	}
}

func (r *MemoryRepository) List(_ context.Context, ownerID uint64) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, 0)
	for _, e := range r.entries {
		if e.OwnerID == ownerID {
			out = append(out, e.clone())
		}
	}
	newestFirst(out)
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, ownerID uint64, id string) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.OwnerID != ownerID {
		return Entry{}, ErrNotFound
	}
	return e.clone(), nil
}

func (r *MemoryRepository) Create(_ context.Context, e Entry, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[e.ID] = e.clone()
	r.appendEvent(ev)
	return nil
}

func (r *MemoryRepository) Mutate(_ context.Context, ownerID uint64, id string, m Mutation) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.entries[id]
	if !ok || cur.OwnerID != ownerID {
		return Entry{}, ErrNotFound
	}
	next := cur.clone()
	ev, err := m(&next)
	if err != nil {
		return Entry{}, err
	}
	if ev == nil {
		return cur.clone(), nil
	}
	r.entries[id] = next.clone()
	r.appendEvent(*ev)
	return next, nil
}

func (r *MemoryRepository) Delete(_ context.Context, ownerID uint64, id string) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.OwnerID != ownerID {
		return Entry{}, ErrNotFound
	}
	delete(r.entries, id)
	kept := r.events[:0]
	for _, ev := range r.events {
		if ev.EntryID != id {
			kept = append(kept, ev)
		}
	}
	r.events = kept
	return e, nil
}

func (r *MemoryRepository) Days(_ context.Context, ownerID uint64) ([]Day, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := map[Day]struct{}{}
	out := make([]Day, 0)
	for _, e := range r.entries {
		if e.OwnerID != ownerID {
			continue
		}
		if _, ok := seen[e.Day]; ok {
			continue
		}
		seen[e.Day] = struct{}{}
		out = append(out, e.Day)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Before(out[b]) })
	return out, nil
}

func (r *MemoryRepository) FindByIdempotencyKey(_ context.Context, ownerID uint64, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ev := range r.events {
		if ev.OwnerID == ownerID && ev.IdempotencyKey != nil && *ev.IdempotencyKey == key {
			return ev.EntryID, nil
		}
	}
	return "", ErrNotFound
}

func (r *MemoryRepository) Events(_ context.Context, ownerID uint64, id string) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	out := make([]Event, 0)
	for _, ev := range r.events {
		if ev.EntryID == id {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *MemoryRepository) TagColors(_ context.Context, ownerID uint64) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := map[string]string{}
	for t, c := range r.colors[ownerID] {
		out[t] = c
	}
	return out, nil
}

func (r *MemoryRepository) SetTagColor(_ context.Context, ownerID uint64, tag, color string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.colors[ownerID] == nil {
		r.colors[ownerID] = map[string]string{}
	}
	r.colors[ownerID][tag] = color
	return nil
}

func (r *MemoryRepository) Award(_ context.Context, a Award) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, have := range r.awards {
		if have.OwnerID == a.OwnerID && have.Days == a.Days {
			return false, nil
		}
	}
	a.ID = uint64(len(r.awards) + 1)
	r.awards = append(r.awards, a)
	return true, nil
}

func (r *MemoryRepository) Awards(_ context.Context, ownerID uint64) ([]Award, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Award, 0)
	for _, a := range r.awards {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Days < out[j].Days })
	return out, nil
}

func (r *MemoryRepository) appendEvent(ev Event) {
	r.nextEv++
	ev.ID = r.nextEv
	r.events = append(r.events, ev)
}
