package buffer

import (
	"sync"
)

// ActivityLog is a fixed-size log that keeps the most recent entries, newest first.
// Pushing onto a full log evicts the oldest entry. It is safe for concurrent use.
//
// ActivityLog differs from CircularBuffer in access pattern: entries are never
// consumed, only snapshotted, and the newest entry is always at index 0.
type ActivityLog[T any] struct {
	mu       sync.RWMutex
	items    []T
	capacity int
	stats    *Statistics
}

// NewActivityLog creates an activity log holding at most capacity entries.
func NewActivityLog[T any](capacity int) *ActivityLog[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &ActivityLog[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
		stats:    NewStatistics(),
	}
}

// Push inserts an entry at the front of the log, evicting the oldest entry
// when the log is full.
func (l *ActivityLog[T]) Push(entry T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.items) < l.capacity {
		var zero T
		l.items = append(l.items, zero)
	} else {
		l.stats.Overflow()
		l.stats.Drop()
	}

	// Shift everything toward the tail; overlapping copy is safe.
	copy(l.items[1:], l.items)
	l.items[0] = entry

	l.stats.Write()
	l.stats.UpdateSize(int64(len(l.items)))
}

// Items returns a snapshot of the log, newest entry first.
func (l *ActivityLog[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()

	l.stats.Peek()
	snapshot := make([]T, len(l.items))
	copy(snapshot, l.items)
	return snapshot
}

// Newest returns the most recent entry, or false if the log is empty.
func (l *ActivityLog[T]) Newest() (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var zero T
	if len(l.items) == 0 {
		return zero, false
	}
	l.stats.Peek()
	return l.items[0], true
}

// Len returns the current number of entries.
func (l *ActivityLog[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Capacity returns the maximum number of entries the log retains.
func (l *ActivityLog[T]) Capacity() int {
	return l.capacity
}

// Clear removes all entries.
func (l *ActivityLog[T]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = l.items[:0]
	l.stats.UpdateSize(0)
}

// Stats returns log statistics.
func (l *ActivityLog[T]) Stats() *Statistics {
	return l.stats
}
