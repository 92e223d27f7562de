package timer

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hammamikhairi/larder/internal/logger"
)

// mockNotifier collects notifications for testing.
type mockNotifier struct {
	mu       sync.Mutex
	messages []string
	urgent   []string
}

func (m *mockNotifier) Notify(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockNotifier) NotifyUrgent(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urgent = append(m.urgent, msg)
	return nil
}

func (m *mockNotifier) urgentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.urgent)
}

// countingSweeper counts sweeps and flags overlapping ones.
type countingSweeper struct {
	sweeps  atomic.Int32
	active  atomic.Int32
	overlap atomic.Bool
	delay   time.Duration
}

func (c *countingSweeper) AutoSave(ctx context.Context) {
	if c.active.Add(1) > 1 {
		c.overlap.Store(true)
	}
	defer c.active.Add(-1)
	time.Sleep(c.delay)
	c.sweeps.Add(1)
}

func TestSupervisorSweepsOnEveryTick(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	sweeper := &countingSweeper{}
	var after atomic.Int32

	sup := New(sweeper, &mockNotifier{}, log,
		WithTickInterval(20*time.Millisecond),
		WithAfterSweep(func() { after.Add(1) }))
	sup.Start(context.Background())
	time.Sleep(150 * time.Millisecond)
	sup.Stop()

	n := sweeper.sweeps.Load()
	if n < 3 {
		t.Fatalf("expected at least 3 sweeps, got %d", n)
	}
	if after.Load() != n {
		t.Errorf("after-sweep hook ran %d times for %d sweeps", after.Load(), n)
	}

	// No sweeps after Stop returns.
	time.Sleep(60 * time.Millisecond)
	if got := sweeper.sweeps.Load(); got != n {
		t.Errorf("sweeps continued after stop: %d -> %d", n, got)
	}
}

func TestSupervisorNeverOverlapsSweeps(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	sweeper := &countingSweeper{delay: 30 * time.Millisecond}

	sup := New(sweeper, &mockNotifier{}, log, WithTickInterval(5*time.Millisecond))
	sup.Start(context.Background())
	time.Sleep(120 * time.Millisecond)
	sup.Stop()

	if sweeper.overlap.Load() {
		t.Fatal("two sweeps ran at once")
	}
	if sweeper.sweeps.Load() == 0 {
		t.Fatal("no sweeps ran")
	}
}

func TestSupervisorStartStopIdempotent(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	sup := New(&countingSweeper{}, &mockNotifier{}, log, WithTickInterval(10*time.Millisecond))

	sup.Start(context.Background())
	sup.Start(context.Background())
	sup.Stop()
	sup.Stop()
}

func TestSupervisorStopsWithContext(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	sweeper := &countingSweeper{}
	ctx, cancel := context.WithCancel(context.Background())

	sup := New(sweeper, &mockNotifier{}, log, WithTickInterval(10*time.Millisecond))
	sup.Start(ctx)
	cancel()
	time.Sleep(50 * time.Millisecond)
	n := sweeper.sweeps.Load()
	time.Sleep(50 * time.Millisecond)
	if got := sweeper.sweeps.Load(); got != n {
		t.Errorf("sweeps continued after cancel: %d -> %d", n, got)
	}
	sup.Stop()
}

// slowPantry takes delay to answer and ignores cancellation, like a
// driver call that is already on the wire.
type slowPantry struct {
	delay time.Duration
}

func (p slowPantry) AvailableProducts(ctx context.Context, asOf time.Time) ([]string, error) {
	time.Sleep(p.delay)
	return []string{"salt"}, nil
}

func TestSupervisorStopWaitsForWatcher(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	sink := &recordingSink{}

	sup := New(&countingSweeper{}, &mockNotifier{}, log,
		WithTickInterval(time.Hour),
		WithWatcher(slowPantry{delay: 80 * time.Millisecond}, sink, WithWatchInterval(time.Hour)))
	sup.Start(context.Background())
	time.Sleep(10 * time.Millisecond) // first refresh is in flight
	sup.Stop()

	n := sink.count()
	time.Sleep(150 * time.Millisecond)
	if got := sink.count(); got != n {
		t.Errorf("watcher published after Stop returned: %d -> %d", n, got)
	}
}
