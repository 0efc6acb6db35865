package core

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powertoolstore/forge/internal/generator"
)

// fakeGenerator records calls and returns canned content. Per-SKU failures
// are configurable, and an optional delay simulates a slow API.
type fakeGenerator struct {
	mu       sync.Mutex
	calls    []string
	ctxErrs  []error
	fail     map[string]bool
	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeGenerator) Generate(ctx context.Context, sku, description string) (*generator.Content, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, sku)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	shouldFail := f.fail[sku]
	f.mu.Unlock()

	if shouldFail {
		return nil, &generator.GenerationError{SKU: sku, Message: "service unavailable"}
	}
	return &generator.Content{
		Title:   "Milwaukee " + sku,
		HTML:    "<h3>x</h3>",
		Tags:    "milwaukee, " + sku,
		Persona: generator.PersonaToolExpert,
	}, nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeGenerator) callOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func newTestService(gen generator.Generator) *Service {
	return NewService(gen, ConstantPacer{Delay: time.Millisecond}, nil)
}

func waitForRunDone(t *testing.T, s *Service) {
	t.Helper()
	require.Eventually(t, func() bool {
		status, _ := s.RunState()
		return status != RunProcessing
	}, 5*time.Second, 5*time.Millisecond, "run did not finish")
}

func TestRunProcessesQueueInOrder(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestService(gen)
	s.BulkIngest("sku,description\nA,first\nB,second\nC,third")

	require.NoError(t, s.StartRun(context.Background()))
	waitForRunDone(t, s)

	status, index := s.RunState()
	assert.Equal(t, RunCompleted, status)
	assert.Equal(t, -1, index)
	assert.Equal(t, []string{"A", "B", "C"}, gen.callOrder())

	for _, rec := range s.Products() {
		assert.Equal(t, StatusCompleted, rec.Status)
		assert.Equal(t, "Milwaukee "+rec.SKU, rec.GeneratedTitle)
		assert.Equal(t, generator.PersonaToolExpert, rec.PersonaUsed)
		assert.Empty(t, rec.Error)
	}
}

func TestRunIsSequential(t *testing.T) {
	gen := &fakeGenerator{delay: 5 * time.Millisecond}
	s := newTestService(gen)
	s.BulkIngest("A,1\nB,2\nC,3\nD,4")

	require.NoError(t, s.StartRun(context.Background()))
	waitForRunDone(t, s)

	assert.Equal(t, int32(1), gen.maxSeen.Load(), "more than one generation in flight")
}

func TestRerunAfterCompletionDoesNothing(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestService(gen)
	s.BulkIngest("A,1\nB,2")

	require.NoError(t, s.StartRun(context.Background()))
	waitForRunDone(t, s)
	require.Equal(t, 2, gen.callCount())

	err := s.StartRun(context.Background())
	assert.ErrorIs(t, err, ErrQueueEmpty)
	assert.Equal(t, 2, gen.callCount(), "completed records must not be regenerated")
}

func TestFailedRecordContinuesRunAndIsRetried(t *testing.T) {
	gen := &fakeGenerator{fail: map[string]bool{"B": true}}
	s := newTestService(gen)
	s.BulkIngest("A,1\nB,2\nC,3")

	require.NoError(t, s.StartRun(context.Background()))
	waitForRunDone(t, s)

	status, _ := s.RunState()
	assert.Equal(t, RunCompleted, status)

	var failed ProductRecord
	for _, rec := range s.Products() {
		if rec.SKU == "B" {
			failed = rec
			continue
		}
		assert.Equal(t, StatusCompleted, rec.Status)
	}
	assert.Equal(t, StatusError, failed.Status)
	assert.Contains(t, failed.Error, "service unavailable")

	// A second run retries only the failed record.
	gen.mu.Lock()
	gen.fail = nil
	gen.mu.Unlock()

	require.NoError(t, s.StartRun(context.Background()))
	waitForRunDone(t, s)

	assert.Equal(t, []string{"A", "B", "C", "B"}, gen.callOrder())
	rec, ok := s.queue.Get(failed.ID)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, rec.Status)
	assert.Empty(t, rec.Error)
}

func TestStopRunLetsInFlightCallResolve(t *testing.T) {
	gen := &fakeGenerator{delay: 150 * time.Millisecond}
	s := newTestService(gen)
	s.BulkIngest("A,1\nB,2")

	require.NoError(t, s.StartRun(context.Background()))

	require.Eventually(t, func() bool {
		return gen.inFlight.Load() == 1
	}, time.Second, time.Millisecond, "run never started generating")

	require.NoError(t, s.StopRun())

	status, index := s.RunState()
	assert.Equal(t, RunCancelled, status)
	assert.Equal(t, -1, index)

	// The in-flight call is not aborted: it resolves and its result is
	// applied to the record.
	require.Eventually(t, func() bool {
		rec, ok := s.queue.Get(s.Products()[0].ID)
		return ok && rec.Status == StatusCompleted
	}, time.Second, 5*time.Millisecond)

	records := s.Products()
	assert.Equal(t, "Milwaukee A", records[0].GeneratedTitle)
	assert.Equal(t, StatusPending, records[1].Status, "run must not advance past a stop")

	// The pipeline made exactly one call and the generator never saw a
	// cancelled context.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, gen.callCount())
	gen.mu.Lock()
	for _, err := range gen.ctxErrs {
		assert.NoError(t, err, "generator context must survive StopRun")
	}
	gen.mu.Unlock()

	// The remaining record is picked up by a later run.
	require.NoError(t, s.StartRun(context.Background()))
	waitForRunDone(t, s)
	status, _ = s.RunState()
	assert.Equal(t, RunCompleted, status)
	assert.Equal(t, []string{"A", "B"}, gen.callOrder())
}

func TestParentContextCancellationEndsRun(t *testing.T) {
	gen := &fakeGenerator{delay: 50 * time.Millisecond}
	s := newTestService(gen)
	s.BulkIngest("A,1\nB,2")

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.StartRun(ctx))

	require.Eventually(t, func() bool {
		return gen.inFlight.Load() == 1
	}, time.Second, time.Millisecond, "run never started generating")

	cancel()

	// The run must reach a terminal state on its own, without StopRun.
	require.Eventually(t, func() bool {
		status, _ := s.RunState()
		return status == RunCancelled
	}, time.Second, 5*time.Millisecond)

	// The in-flight result is still applied.
	require.Eventually(t, func() bool {
		return s.Products()[0].Status == StatusCompleted
	}, time.Second, 5*time.Millisecond)

	// A new run can start afterwards.
	require.NoError(t, s.StartRun(context.Background()))
	waitForRunDone(t, s)
}

func TestStartRunWhileRunning(t *testing.T) {
	gen := &fakeGenerator{delay: 100 * time.Millisecond}
	s := newTestService(gen)
	s.BulkIngest("A,1")

	require.NoError(t, s.StartRun(context.Background()))
	assert.ErrorIs(t, s.StartRun(context.Background()), ErrRunInProgress)

	require.NoError(t, s.StopRun())
}

func TestStopRunWhenIdle(t *testing.T) {
	s := newTestService(&fakeGenerator{})
	assert.ErrorIs(t, s.StopRun(), ErrNoRunInProgress)
}

func TestStartRunEmptyQueue(t *testing.T) {
	s := newTestService(&fakeGenerator{})
	assert.ErrorIs(t, s.StartRun(context.Background()), ErrQueueEmpty)
}

func TestClearRejectedWhileProcessing(t *testing.T) {
	gen := &fakeGenerator{delay: 100 * time.Millisecond}
	s := newTestService(gen)
	s.BulkIngest("A,1")

	require.NoError(t, s.StartRun(context.Background()))
	assert.ErrorIs(t, s.ClearAll(), ErrRunInProgress)

	require.NoError(t, s.StopRun())
	require.NoError(t, s.ClearAll())
	assert.Empty(t, s.Products())
}

func TestRunEventsReachSubscribers(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestService(gen)
	s.BulkIngest("A,1")

	events := s.Subscribe()
	defer s.Unsubscribe(events)

	require.NoError(t, s.StartRun(context.Background()))
	waitForRunDone(t, s)

	var sawRecord, sawCompleted bool
	deadline := time.After(time.Second)
	for !(sawRecord && sawCompleted) {
		select {
		case ev := <-events:
			if ev.Type == EventRecordUpdated && ev.Record != nil && ev.Record.Status == StatusCompleted {
				sawRecord = true
			}
			if ev.Type == EventRunStateChanged && ev.RunStatus == RunCompleted {
				sawCompleted = true
			}
		case <-deadline:
			t.Fatalf("missing events: record=%v completed=%v", sawRecord, sawCompleted)
		}
	}
}
