package analytics

import (
	"errors"
	"sync"

	"boozedash/model"
)

// Queue errors
var (
	ErrQueueClosed = errors.New("dispatch queue is closed")
	ErrQueueFull   = errors.New("dispatch queue is full")
)

// dispatchQueue bounded FIFO queue feeding the single dispatch worker
type dispatchQueue struct {
	mu     sync.Mutex
	events chan model.AnalyticsEvent
	closed bool
}

func newDispatchQueue(size int) *dispatchQueue {
	return &dispatchQueue{
		events: make(chan model.AnalyticsEvent, size),
	}
}

// Enqueue appends an event without blocking; a full queue drops the event
func (q *dispatchQueue) Enqueue(ev model.AnalyticsEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.events <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Events returns the drain channel consumed by the worker
func (q *dispatchQueue) Events() <-chan model.AnalyticsEvent {
	return q.events
}

// Close stops accepting events; the worker drains whatever remains
func (q *dispatchQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.events)
}
