package audio

import (
	"context"
	"sync"
	"testing"
	"time"
)

// TestQueuePreservesOrderAndDrainsAfterClose checks FIFO delivery survives close.
func TestQueuePreservesOrderAndDrainsAfterClose(t *testing.T) {
	q := NewQueue()
	for i := int64(1); i <= 3; i++ {
		if !q.Send(NewSampleChunk(i, []float32{0}, Format{})) {
			t.Fatalf("send %d rejected", i)
		}
	}
	q.Close()

	for want := int64(1); want <= 3; want++ {
		chunk, ok := q.Receive(context.Background())
		if !ok {
			t.Fatalf("receive %d: queue reported drained early", want)
		}
		if chunk.Seq != want {
			t.Fatalf("seq = %d, want %d", chunk.Seq, want)
		}
	}
	if _, ok := q.Receive(context.Background()); ok {
		t.Fatal("expected drained queue after close")
	}
}

// TestQueueSendAfterCloseIsNoop checks late producers are rejected without panicking.
func TestQueueSendAfterCloseIsNoop(t *testing.T) {
	q := NewQueue()
	q.Close()
	q.Close()

	if q.Send(NewSampleChunk(1, []float32{0}, Format{})) {
		t.Fatal("send after close should report false")
	}
	if q.pending() != 0 {
		t.Fatalf("len = %d, want 0", q.pending())
	}
}

// TestQueueReceiveBlocksUntilSend checks the consumer suspends while empty.
func TestQueueReceiveBlocksUntilSend(t *testing.T) {
	q := NewQueue()
	got := make(chan int64, 1)
	go func() {
		chunk, ok := q.Receive(context.Background())
		if ok {
			got <- chunk.Seq
		}
		close(got)
	}()

	select {
	case <-got:
		t.Fatal("receive returned before any send")
	case <-time.After(20 * time.Millisecond):
	}

	q.Send(NewSampleChunk(7, nil, Format{}))
	select {
	case seq := <-got:
		if seq != 7 {
			t.Fatalf("seq = %d, want 7", seq)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("receive did not wake up")
	}
}

// TestQueueReceiveHonoursContext checks a cancelled context unblocks the consumer.
func TestQueueReceiveHonoursContext(t *testing.T) {
	q := NewQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, ok := q.Receive(ctx); ok {
		t.Fatal("expected receive to fail on cancelled context")
	}
}

// TestQueueConcurrentSendersWithClose races producers against teardown.
func TestQueueConcurrentSendersWithClose(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				q.Send(NewSampleChunk(int64(i), nil, Format{}))
			}
		}()
	}
	time.Sleep(time.Millisecond)
	q.Close()
	wg.Wait()

	n := 0
	for {
		if _, ok := q.Receive(context.Background()); !ok {
			break
		}
		n++
	}
	if n > 8*200 {
		t.Fatalf("received %d chunks, more than were sent", n)
	}
}

// TestHandleInstallClosesPrevious checks only one sender is live at a time.
func TestHandleInstallClosesPrevious(t *testing.T) {
	var h Handle
	if h.Send(NewSampleChunk(1, nil, Format{})) {
		t.Fatal("send without queue should fail")
	}

	first := NewQueue()
	h.Install(first)
	if !h.Send(NewSampleChunk(1, nil, Format{})) {
		t.Fatal("send to installed queue failed")
	}

	second := NewQueue()
	h.Install(second)
	if !first.isClosed() {
		t.Fatal("previous queue should be closed on install")
	}
	if !h.Send(NewSampleChunk(2, nil, Format{})) {
		t.Fatal("send to replacement queue failed")
	}
	if first.pending() != 1 || second.pending() != 1 {
		t.Fatalf("lens = %d/%d, want 1/1", first.pending(), second.pending())
	}

	h.Clear()
	if h.active() {
		t.Fatal("handle should be inactive after clear")
	}
	if !second.isClosed() {
		t.Fatal("cleared queue should be closed")
	}
	if h.Send(NewSampleChunk(3, nil, Format{})) {
		t.Fatal("send after clear should fail")
	}
}
