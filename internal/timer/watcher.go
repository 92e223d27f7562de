package timer

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hammamikhairi/larder/internal/domain"
	"github.com/hammamikhairi/larder/internal/logger"
)

// AvailabilitySink receives the names of usable products. editor.Session
// satisfies it.
type AvailabilitySink interface {
	SetAvailable(names []string)
}

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithWatchInterval sets how often the watcher reads the pantry.
func WithWatchInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithWatchClock replaces time.Now, for tests.
func WithWatchClock(now func() time.Time) WatcherOption {
	return func(w *Watcher) {
		w.now = now
	}
}

// WithOnChange registers a hook run when the available set changes.
func WithOnChange(fn func()) WatcherOption {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// Watcher periodically reads the products that have not expired and hands
// their names to the editor, so readiness follows the pantry. Runs on a
// slower cycle than the supervisor (default: 1 minute).
type Watcher struct {
	pantry   domain.PantrySource
	target   AvailabilitySink
	notifier domain.Notifier
	log      *logger.Logger
	interval time.Duration
	now      func() time.Time
	onChange func()

	last    []string
	failing bool
}

// NewWatcher creates a watcher with the given dependencies.
func NewWatcher(pantry domain.PantrySource, target AvailabilitySink, notifier domain.Notifier, log *logger.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		pantry:   pantry,
		target:   target,
		notifier: notifier,
		log:      log,
		interval: 1 * time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run refreshes once, then on every interval. Blocks until ctx is
// cancelled. Intended to be called as a goroutine.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("pantry watcher started (interval=%s)", w.interval)
	w.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("pantry watcher stopped")
			return
		case <-ticker.C:
			w.Refresh(ctx)
		}
	}
}

// Refresh reads the pantry once. A read failure is reported once until
// the pantry becomes readable again; the previous set stays in place.
func (w *Watcher) Refresh(ctx context.Context) {
	names, err := w.pantry.AvailableProducts(ctx, w.now())
	if err != nil {
		w.log.Error("watcher: reading pantry: %v", err)
		if !w.failing && w.notifier != nil {
			msg := fmt.Sprintf("Could not read the pantry: %v", err)
			if nerr := w.notifier.NotifyUrgent(ctx, msg); nerr != nil {
				w.log.Error("watcher: notifying pantry failure: %v", nerr)
			}
		}
		w.failing = true
		return
	}
	w.failing = false

	if w.last != nil && slices.Equal(w.last, names) {
		return
	}
	if names == nil {
		names = []string{}
	}
	w.last = names
	w.target.SetAvailable(names)
	w.log.Debug("watcher: %d products available", len(names))
	if w.onChange != nil {
		w.onChange()
	}
}
