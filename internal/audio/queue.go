package audio

import (
	"context"
	"sync"
)

// Queue is an unbounded FIFO of chunks with a single consumer. Send never
// blocks, so it can be called from capture callbacks on foreign threads.
type Queue struct {
	mu     sync.Mutex
	items  []Chunk
	closed bool
	ready  chan struct{}
}

// NewQueue creates an open, empty queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Send enqueues a chunk. It returns false once the queue is closed.
func (q *Queue) Send(chunk Chunk) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, chunk)
	q.mu.Unlock()

	q.signal()
	return true
}

// Close drops the sending side. Buffered chunks remain receivable.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.signal()
}

// Receive blocks for the next chunk. ok is false after Close once every
// buffered chunk has been drained, or when ctx is done.
func (q *Queue) Receive(ctx context.Context) (Chunk, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			chunk := q.items[0]
			q.items[0] = Chunk{}
			q.items = q.items[1:]
			q.mu.Unlock()
			return chunk, true
		}
		if q.closed {
			q.mu.Unlock()
			// Wake any other waiter so it also observes the close.
			q.signal()
			return Chunk{}, false
		}
		q.mu.Unlock()

		select {
		case <-q.ready:
		case <-ctx.Done():
			return Chunk{}, false
		}
	}
}

// pending returns the number of buffered chunks.
func (q *Queue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// isClosed reports whether the sending side has been dropped.
func (q *Queue) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
