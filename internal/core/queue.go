package core

import "sync"

// Queue is the in-memory ordered collection of product records. Ordering is
// insertion order as the user sees it: newly added records are prepended as
// a block ahead of existing ones, preserving intra-batch order.
//
// The queue is the only shared mutable resource between the batch pipeline
// and the manual submission path. All mutation goes through replace-by-ID
// updates under the lock, so concurrent writers always merge against the
// latest state rather than a stale copy.
type Queue struct {
	mu      sync.RWMutex
	records []ProductRecord
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// PrependBatch inserts the batch, in order, ahead of all existing records.
func (q *Queue) PrependBatch(batch []ProductRecord) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.records = append(append([]ProductRecord{}, batch...), q.records...)
}

// Update applies mutate to the record with the given ID and reports whether
// it was found.
func (q *Queue) Update(id string, mutate func(*ProductRecord)) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.records {
		if q.records[i].ID == id {
			mutate(&q.records[i])
			return true
		}
	}
	return false
}

// Get returns a copy of the record with the given ID.
func (q *Queue) Get(id string) (ProductRecord, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	for i := range q.records {
		if q.records[i].ID == id {
			return q.records[i], true
		}
	}
	return ProductRecord{}, false
}

// At returns a copy of the record at index i.
func (q *Queue) At(i int) (ProductRecord, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if i < 0 || i >= len(q.records) {
		return ProductRecord{}, false
	}
	return q.records[i], true
}

// Len returns the number of records.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.records)
}

// Snapshot returns a copy of all records in queue order.
func (q *Queue) Snapshot() []ProductRecord {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]ProductRecord, len(q.records))
	copy(out, q.records)
	return out
}

// FirstRunnable returns the index of the first record a new run should
// process (status pending or error), or -1 if there is none.
func (q *Queue) FirstRunnable() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	for i := range q.records {
		if q.records[i].Status == StatusPending || q.records[i].Status == StatusError {
			return i
		}
	}
	return -1
}

// Clear removes every record. Callers must ensure no run is in progress.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.records = nil
}

// Stats counts records by status.
func (q *Queue) Stats() Stats {
	q.mu.RLock()
	defer q.mu.RUnlock()
	s := Stats{Queued: len(q.records)}
	for i := range q.records {
		switch q.records[i].Status {
		case StatusProcessing:
			s.Processing++
		case StatusCompleted:
			s.Completed++
		case StatusError:
			s.Errors++
		}
	}
	return s
}
