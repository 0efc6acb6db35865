package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/powertoolstore/forge/internal/generator"
)

var (
	// ErrRunInProgress is returned when an operation cannot proceed while
	// the batch pipeline is active.
	ErrRunInProgress = errors.New("a batch run is already in progress")

	// ErrNoRunInProgress is returned by StopRun when nothing is running.
	ErrNoRunInProgress = errors.New("no batch run in progress")

	// ErrEmptySKU is returned by ManualSubmit for a blank SKU.
	ErrEmptySKU = errors.New("sku must not be empty")

	// ErrQueueEmpty is returned by StartRun when no record needs work.
	ErrQueueEmpty = errors.New("nothing to process")
)

// Service coordinates the queue, the batch pipeline, and event delivery.
// Exactly one batch run exists at a time; the manual submission path runs
// concurrently with it by design, merging results through replace-by-ID
// queue updates.
type Service struct {
	queue *Queue
	gen   generator.Generator
	pacer Pacer
	log   *slog.Logger

	mu           sync.Mutex
	runStatus    RunStatus
	currentIndex int
	cancelRun    context.CancelFunc
	runCtx       context.Context

	listenerMu sync.Mutex
	listeners  map[chan Event]struct{}
}

// NewService wires a service around the given generator. A nil pacer
// defaults to a ConstantPacer at DefaultPace.
func NewService(gen generator.Generator, pacer Pacer, log *slog.Logger) *Service {
	if pacer == nil {
		pacer = ConstantPacer{Delay: DefaultPace}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queue:        NewQueue(),
		gen:          gen,
		pacer:        pacer,
		log:          log,
		runStatus:    RunIdle,
		currentIndex: -1,
		listeners:    map[chan Event]struct{}{},
	}
}

// Subscribe registers an event channel. The returned channel is buffered;
// slow consumers miss intermediate events rather than stalling the pipeline.
func (s *Service) Subscribe() chan Event {
	ch := make(chan Event, 16)
	s.listenerMu.Lock()
	s.listeners[ch] = struct{}{}
	s.listenerMu.Unlock()
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe.
func (s *Service) Unsubscribe(ch chan Event) {
	s.listenerMu.Lock()
	if _, ok := s.listeners[ch]; ok {
		delete(s.listeners, ch)
		close(ch)
	}
	s.listenerMu.Unlock()
}

func (s *Service) emit(eventType EventType, record *ProductRecord) {
	s.mu.Lock()
	ev := Event{
		Type:         eventType,
		RunStatus:    s.runStatus,
		CurrentIndex: s.currentIndex,
		Record:       record,
		Stats:        s.queue.Stats(),
	}
	s.mu.Unlock()

	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	for ch := range s.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Products returns a snapshot of the queue in display order.
func (s *Service) Products() []ProductRecord {
	return s.queue.Snapshot()
}

// RunState reports the current run status and the index being processed
// (-1 when no record is in flight).
func (s *Service) RunState() (RunStatus, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runStatus, s.currentIndex
}

// Stats returns per-status record counts.
func (s *Service) Stats() Stats {
	return s.queue.Stats()
}

// StartRun begins a batch run over every pending and errored record, in
// queue order. It returns immediately; progress is reported via events.
func (s *Service) StartRun(ctx context.Context) error {
	s.mu.Lock()
	if s.runStatus == RunProcessing {
		s.mu.Unlock()
		return ErrRunInProgress
	}
	start := s.queue.FirstRunnable()
	if start == -1 {
		s.mu.Unlock()
		return ErrQueueEmpty
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.runStatus = RunProcessing
	s.currentIndex = start
	s.cancelRun = cancel
	s.runCtx = runCtx
	s.mu.Unlock()

	s.emit(EventRunStateChanged, nil)
	s.log.Info("batch run started", "queued", s.queue.Len(), "startIndex", start)

	go s.run(runCtx, start)
	return nil
}

// StopRun cancels the active run. An in-flight generator call is not
// aborted: it resolves on its own, its result is applied to the record, and
// only then does the pipeline stop advancing.
func (s *Service) StopRun() error {
	s.mu.Lock()
	if s.runStatus != RunProcessing {
		s.mu.Unlock()
		return ErrNoRunInProgress
	}
	cancel := s.cancelRun
	s.runStatus = RunCancelled
	s.currentIndex = -1
	s.cancelRun = nil
	s.mu.Unlock()

	cancel()
	s.emit(EventRunStateChanged, nil)
	s.log.Info("batch run cancelled")
	return nil
}

// ClearAll removes every record. It is rejected while a run is active.
func (s *Service) ClearAll() error {
	s.mu.Lock()
	if s.runStatus == RunProcessing {
		s.mu.Unlock()
		return ErrRunInProgress
	}
	s.runStatus = RunIdle
	s.currentIndex = -1
	s.mu.Unlock()

	s.queue.Clear()
	s.emit(EventQueueChanged, nil)
	return nil
}

// run is the pipeline loop: one generator call in flight at a time, a paced
// wait between records. Cancellation stops the loop from advancing but never
// interrupts a call already in flight.
func (s *Service) run(ctx context.Context, start int) {
	failures := 0
	for i := start; ; i++ {
		if ctx.Err() != nil {
			s.finish(ctx)
			return
		}

		rec, ok := s.queue.At(i)
		if !ok {
			s.finish(ctx)
			return
		}

		// Already-completed records and records claimed by the manual
		// path are skipped without burning a pacing delay.
		if rec.Status == StatusCompleted || rec.Status == StatusProcessing {
			continue
		}

		s.setCurrent(ctx, i)
		s.markProcessing(rec.ID)

		// The call itself is shielded from run cancellation: a stop takes
		// effect only after the in-flight call resolves, and its result is
		// still applied.
		content, err := s.gen.Generate(context.WithoutCancel(ctx), rec.SKU, rec.OriginalDescription)

		if err != nil {
			failures++
			s.log.Warn("generation failed", "sku", rec.SKU, "error", err)
			s.queue.Update(rec.ID, func(r *ProductRecord) {
				r.Status = StatusError
				r.Error = err.Error()
			})
		} else {
			failures = 0
			s.queue.Update(rec.ID, func(r *ProductRecord) {
				r.Status = StatusCompleted
				r.GeneratedTitle = content.Title
				r.GeneratedCopy = content.HTML
				r.GeneratedTags = content.Tags
				r.PersonaUsed = content.Persona
				r.Error = ""
			})
		}
		if updated, ok := s.queue.Get(rec.ID); ok {
			s.emit(EventRecordUpdated, &updated)
		}

		if ctx.Err() != nil {
			s.finish(ctx)
			return
		}

		select {
		case <-ctx.Done():
			s.finish(ctx)
			return
		case <-time.After(s.pacer.Pace(failures)):
		}
	}
}

// setCurrent publishes the index in flight, unless a newer run owns the
// state already.
func (s *Service) setCurrent(ctx context.Context, i int) {
	s.mu.Lock()
	if s.runCtx == ctx && s.runStatus == RunProcessing {
		s.currentIndex = i
	}
	s.mu.Unlock()
}

func (s *Service) markProcessing(id string) {
	s.queue.Update(id, func(r *ProductRecord) {
		r.Status = StatusProcessing
	})
	if rec, ok := s.queue.Get(id); ok {
		s.emit(EventRecordUpdated, &rec)
	}
}

// finish transitions the run to a terminal state. A cancelled context means
// StopRun already set RunCancelled; otherwise the run completed normally.
func (s *Service) finish(ctx context.Context) {
	s.mu.Lock()
	if s.runCtx != ctx {
		// A newer run took over; nothing to do.
		s.mu.Unlock()
		return
	}
	if ctx.Err() == nil {
		s.runStatus = RunCompleted
		s.log.Info("batch run completed", "stats", s.queue.Stats())
	} else if s.runStatus == RunProcessing {
		// The parent context died without StopRun ever running.
		s.runStatus = RunCancelled
	}
	s.currentIndex = -1
	s.cancelRun = nil
	s.runCtx = nil
	s.mu.Unlock()

	s.emit(EventRunStateChanged, nil)
}
