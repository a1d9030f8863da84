package events

import (
	"sync"
	"testing"

	"voice-journal/internal/domain"
)

// TestBusSince verifies incremental event reads by sequence.
func TestBusSince(t *testing.T) {
	bus := NewBus(3)
	bus.Publish(Event{Type: TypeStatus, Status: domain.RecordingStatusRecording})
	bus.Publish(Event{Type: TypeSegment, Text: "hello"})
	bus.Publish(Event{Type: TypeStatus, Status: domain.RecordingStatusIdle})

	got := bus.Since(1)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Seq != 2 || got[1].Seq != 3 {
		t.Fatalf("unexpected seqs: %+v", got)
	}
	if got[0].Text != "hello" {
		t.Fatalf("text = %q, want hello", got[0].Text)
	}
	if got[0].Timestamp.IsZero() {
		t.Fatal("timestamp was not assigned")
	}
}

// TestBusCapsHistory verifies old events are trimmed once the cap is exceeded.
func TestBusCapsHistory(t *testing.T) {
	bus := NewBus(2)
	bus.Publish(Event{Text: "1"})
	bus.Publish(Event{Text: "2"})
	bus.Publish(Event{Text: "3"})

	got := bus.Since(0)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Text != "2" || got[1].Text != "3" {
		t.Fatalf("unexpected events: %+v", got)
	}
	if got[1].Seq != 3 {
		t.Fatalf("last seq = %d, want 3", got[1].Seq)
	}
}

// TestBusConcurrentPublish verifies sequence numbers stay unique under contention.
func TestBusConcurrentPublish(t *testing.T) {
	bus := NewBus(1000)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				bus.Publish(Event{Type: TypeSegment})
			}
		}()
	}
	wg.Wait()

	got := bus.Since(0)
	if len(got) != 500 {
		t.Fatalf("len = %d, want 500", len(got))
	}
	seen := make(map[int64]bool, len(got))
	for _, e := range got {
		if seen[e.Seq] {
			t.Fatalf("duplicate seq %d", e.Seq)
		}
		seen[e.Seq] = true
	}
}
