package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	err      error
	acquires int
	releases int
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (f *fakeLocker) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	f.acquires++
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}

func (f *fakeLocker) ReleaseLock(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
	delete(f.held, key)
	return nil
}

func TestRunGuardSkipsOverlappingTick(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var runs int

	e := &entry{job: Job{
		Name:     "slow-job",
		Interval: time.Minute,
		Run: func(ctx context.Context) error {
			runs++
			close(started)
			<-release
			return nil
		},
	}}

	s := New(nil)

	done := make(chan struct{})
	go func() {
		s.runOnce(context.Background(), e)
		close(done)
	}()
	<-started

	// second tick fires while the first run is still in flight
	s.runOnce(context.Background(), e)
	assert.Equal(t, 1, runs, "overlapping tick must be skipped")

	close(release)
	<-done

	// with the first run finished, the next tick runs again
	release = make(chan struct{})
	started = make(chan struct{})
	close(release)
	s.runOnce(context.Background(), e)
	assert.Equal(t, 2, runs)
}

func TestRunErrorsAreSwallowed(t *testing.T) {
	e := &entry{job: Job{
		Name:     "failing-job",
		Interval: time.Minute,
		Run: func(ctx context.Context) error {
			return errors.New("store unavailable")
		},
	}}

	s := New(nil)
	assert.NotPanics(t, func() {
		s.runOnce(context.Background(), e)
	})
}

func TestDistributedLockSkipsWhenHeld(t *testing.T) {
	locker := newFakeLocker()
	locker.held["scheduler:guarded-job"] = true

	var runs int
	e := &entry{job: Job{
		Name:     "guarded-job",
		Interval: time.Minute,
		Run: func(ctx context.Context) error {
			runs++
			return nil
		},
	}}

	s := New(locker)
	s.runOnce(context.Background(), e)

	assert.Zero(t, runs, "tick must be skipped while another instance holds the lock")
}

func TestDistributedLockAcquiredAndReleased(t *testing.T) {
	locker := newFakeLocker()

	var runs int
	e := &entry{job: Job{
		Name:     "guarded-job",
		Interval: time.Minute,
		Run: func(ctx context.Context) error {
			runs++
			return nil
		},
	}}

	s := New(locker)
	s.runOnce(context.Background(), e)

	assert.Equal(t, 1, runs)
	assert.Equal(t, 1, locker.releases)
	assert.False(t, locker.held["scheduler:guarded-job"])
}

func TestLockErrorFailsOpen(t *testing.T) {
	locker := newFakeLocker()
	locker.err = errors.New("redis down")

	var runs int
	e := &entry{job: Job{
		Name:     "guarded-job",
		Interval: time.Minute,
		Run: func(ctx context.Context) error {
			runs++
			return nil
		},
	}}

	s := New(locker)
	s.runOnce(context.Background(), e)

	assert.Equal(t, 1, runs, "a lock error must not block the job")
}

func TestStartStopsOnContextCancel(t *testing.T) {
	var mu sync.Mutex
	var runs int

	s := New(nil)
	s.Register(Job{
		Name:     "tick-job",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			mu.Lock()
			runs++
			mu.Unlock()
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return runs >= 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	s.Stop()

	mu.Lock()
	after := runs
	mu.Unlock()
	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, after, runs, "no ticks after cancellation")
	mu.Unlock()
}
