// Package timer runs the editor's background work: the auto-save
// supervisor that sweeps pending edits on a fixed interval, and the pantry
// watcher that keeps the available-products set fresh.
package timer

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/larder/internal/domain"
	"github.com/hammamikhairi/larder/internal/logger"
)

// Sweeper commits every pending edit. editor.Session satisfies it.
type Sweeper interface {
	AutoSave(ctx context.Context)
}

// Option configures the supervisor.
type Option func(*Supervisor)

// WithTickInterval sets how often the supervisor sweeps.
func WithTickInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithAfterSweep registers a hook run after every sweep, e.g. to redraw
// the screen.
func WithAfterSweep(fn func()) Option {
	return func(s *Supervisor) {
		s.afterSweep = fn
	}
}

// WithWatcher enables the pantry watcher with the given source and target.
func WithWatcher(pantry domain.PantrySource, target AvailabilitySink, opts ...WatcherOption) Option {
	return func(s *Supervisor) {
		s.watcherPantry = pantry
		s.watcherTarget = target
		s.watcherOpts = opts
	}
}

// Supervisor runs the auto-save loop in the background. Sweeps never
// overlap: a tick that arrives while a sweep is running is dropped by the
// ticker. Optionally runs a Watcher on a slower cycle.
type Supervisor struct {
	sweeper      Sweeper
	notifier     domain.Notifier
	log          *logger.Logger
	tickInterval time.Duration
	afterSweep   func()

	watcherPantry domain.PantrySource
	watcherTarget AvailabilitySink
	watcherOpts   []WatcherOption
	watcher       *Watcher

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a supervisor with the given dependencies and options.
func New(sweeper Sweeper, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		sweeper:      sweeper,
		notifier:     notifier,
		log:          log,
		tickInterval: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the background loop. Non-blocking.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("auto-save supervisor already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(childCtx)
	}()

	if s.watcherPantry != nil && s.watcherTarget != nil {
		s.watcher = NewWatcher(s.watcherPantry, s.watcherTarget, s.notifier, s.log, s.watcherOpts...)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.watcher.Run(childCtx)
		}()
	}

	s.log.Info("auto-save supervisor started (tick=%s)", s.tickInterval)
}

// Stop shuts the loop and the watcher down and waits for an in-flight
// sweep or refresh to finish. Nothing reaches the sweeper or the watcher's
// target after Stop returns.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("auto-save supervisor stopped")
}

func (s *Supervisor) loop(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs one sweep.
func (s *Supervisor) tick(ctx context.Context) {
	start := time.Now()
	s.sweeper.AutoSave(ctx)
	if took := time.Since(start); took > s.tickInterval {
		s.log.Warn("sweep took %s, longer than the %s tick", took.Round(time.Millisecond), s.tickInterval)
	}
	if s.afterSweep != nil {
		s.afterSweep()
	}
}
