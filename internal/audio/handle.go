package audio

import "sync"

// Handle holds the sending side of the active queue, if any. At most one
// queue is installed at a time.
type Handle struct {
	mu    sync.Mutex
	queue *Queue
}

// Install makes q the active queue and closes the one it replaces.
func (h *Handle) Install(q *Queue) {
	h.mu.Lock()
	prev := h.queue
	h.queue = q
	h.mu.Unlock()

	if prev != nil && prev != q {
		prev.Close()
	}
}

// Clear closes and forgets the active queue.
func (h *Handle) Clear() {
	h.mu.Lock()
	prev := h.queue
	h.queue = nil
	h.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
}

// active reports whether a queue is installed.
func (h *Handle) active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.queue != nil
}

// Send forwards a chunk to the active queue. It returns false when nothing is
// installed or the queue was closed concurrently.
func (h *Handle) Send(chunk Chunk) bool {
	h.mu.Lock()
	q := h.queue
	h.mu.Unlock()

	if q == nil {
		return false
	}
	return q.Send(chunk)
}
