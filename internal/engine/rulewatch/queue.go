package rulewatch

import (
	"slices"
	"sync"

	"go.trai.ch/hotswap/internal/core/domain"
)

// Batch is a snapshot of the pending changes drained together.
// Epoch identifies the enabled period the changes were collected in.
type Batch struct {
	Paths []string
	Epoch uint64
}

// PendingQueue is a deduplicating set of changed absolute paths.
// It is written by notification callbacks and drained by the settle timer.
type PendingQueue struct {
	mu        sync.Mutex
	pending   map[domain.InternedString]struct{}
	accepting bool
	epoch     uint64
}

// NewPendingQueue creates a queue that does not accept changes until Open is called.
func NewPendingQueue() *PendingQueue {
	return &PendingQueue{
		pending: make(map[domain.InternedString]struct{}),
	}
}

// Open starts accepting changes and begins a new epoch.
func (q *PendingQueue) Open() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.accepting = true
	q.epoch++
}

// Close stops accepting changes. Paths already pending stay until Drain or Clear.
func (q *PendingQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.accepting = false
}

// Clear drops everything pending without processing it.
func (q *PendingQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	clear(q.pending)
}

// Enqueue adds path to the pending set. It reports whether path was newly added,
// which is false when the queue is closed or path is already pending.
func (q *PendingQueue) Enqueue(path string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.accepting {
		return false
	}
	key := domain.NewInternedString(path)
	if _, ok := q.pending[key]; ok {
		return false
	}
	q.pending[key] = struct{}{}
	return true
}

// Drain removes and returns all pending paths, sorted.
func (q *PendingQueue) Drain() Batch {
	q.mu.Lock()
	defer q.mu.Unlock()

	batch := Batch{Epoch: q.epoch}
	if len(q.pending) == 0 {
		return batch
	}

	batch.Paths = make([]string, 0, len(q.pending))
	for path := range q.pending {
		batch.Paths = append(batch.Paths, path.String())
	}
	clear(q.pending)
	slices.Sort(batch.Paths)

	return batch
}

// Len returns the number of pending paths.
func (q *PendingQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Epoch returns the current epoch.
func (q *PendingQueue) Epoch() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.epoch
}

// Accepting reports whether Enqueue currently records changes.
func (q *PendingQueue) Accepting() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.accepting
}
