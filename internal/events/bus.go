package events

import (
	"sync"
	"time"

	"voice-journal/internal/domain"
)

// Type classifies messages emitted during a recording session.
type Type string

const (
	TypeStatus  Type = "status"
	TypeSegment Type = "segment"
	TypeError   Type = "error"
)

// Event is a sequenced payload consumed by UI subscribers.
type Event struct {
	Seq       int64                  `json:"seq"`
	Timestamp time.Time              `json:"timestamp"`
	SessionID string                 `json:"sessionId"`
	Type      Type                   `json:"type"`
	Status    domain.RecordingStatus `json:"status,omitempty"`
	Text      string                 `json:"text,omitempty"`
	ChunkSeq  int64                  `json:"chunkSeq,omitempty"`
	Kind      string                 `json:"kind,omitempty"`
	Message   string                 `json:"message,omitempty"`
}

// Bus keeps a bounded history of session events for incremental reads.
type Bus struct {
	mu        sync.RWMutex
	nextSeq   int64
	maxEvents int
	events    []Event
}

// NewBus creates a bus retaining at most maxEvents entries.
func NewBus(maxEvents int) *Bus {
	if maxEvents <= 0 {
		maxEvents = 500
	}

	return &Bus{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
	}
}

// Publish appends one event and assigns sequence and timestamp.
func (b *Bus) Publish(event Event) Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSeq++
	event.Seq = b.nextSeq
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.events = append(b.events, event)
	if len(b.events) > b.maxEvents {
		trim := len(b.events) - b.maxEvents
		b.events = append([]Event(nil), b.events[trim:]...)
	}

	return event
}

// Since returns events with sequence strictly greater than seq.
func (b *Bus) Since(seq int64) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Event
	for _, event := range b.events {
		if event.Seq > seq {
			out = append(out, event)
		}
	}
	return out
}
