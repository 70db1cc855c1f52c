package journal

import (
	"context"
	"sync"
	"time"

	"inkwell/internal/logging"
)

// SaveFunc persists the latest content of one editor.
type SaveFunc func(ctx context.Context, content string) error

// Autosaver debounces the saves of a single editor. Every Edit re-arms one
// timer; when it fires the newest content is saved. Flush saves pending
// content immediately, as on focus loss. Failed saves are reported through
// Err and are not retried.
type Autosaver struct {
	delay  time.Duration
	save   SaveFunc
	logger logging.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending *string
	lastErr error
	closed  bool

	// serializes saves so an older write never lands after a newer one
	saveMu sync.Mutex
}

func NewAutosaver(delay time.Duration, save SaveFunc, logger logging.Logger) *Autosaver {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Autosaver{delay: delay, save: save, logger: logger}
}

// Edit records content as the latest text and restarts the countdown.
func (a *Autosaver) Edit(content string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.pending = &content
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() {
		if err := a.Flush(context.Background()); err != nil {
			a.logger.Warn("autosave failed", "err", err)
		}
	})
}

// Flush cancels the countdown and saves pending content now. It is a no-op
// when nothing is pending.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	content := a.pending
	a.pending = nil
	if content == nil {
		a.mu.Unlock()
		return nil
	}
	a.mu.Unlock()

	err := a.save(ctx, *content)

	a.mu.Lock()
	a.lastErr = err
	if err != nil && a.pending == nil {
		// keep the unsaved text so a later Flush can try again
		a.pending = content
	}
	a.mu.Unlock()
	return err
}

// Pending reports whether there is content not yet saved.
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending != nil
}

// Err returns the result of the most recent save.
func (a *Autosaver) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Close stops the countdown and discards pending content. Use Flush first
// to keep it.
func (a *Autosaver) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.pending = nil
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
