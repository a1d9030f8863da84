package capture

import (
	"sync"
	"sync/atomic"

	"voice-journal/internal/audio"
)

// minFinalSeconds is the shortest tail emitted on flush; shorter tails are
// dropped as too brief to transcribe.
const minFinalSeconds = 0.5

// StreamRecorder delivers fixed-length sample chunks through the data callback
// while recording. The partial window left at the end is emitted the same way
// on Flush, so Stop always reports StopStreamed.
type StreamRecorder struct {
	device
	chunkSeconds int

	cbMu     sync.RWMutex
	callback DataCallback

	chunker *audio.Chunker
	seq     atomic.Int64
}

// NewStreamRecorder creates a streaming recorder on the default input device.
func NewStreamRecorder(format audio.Format, chunkSeconds int) *StreamRecorder {
	r := &StreamRecorder{chunkSeconds: chunkSeconds}
	r.setup(format)
	return r
}

// SetDataCallback registers the receiver for completed chunks.
func (r *StreamRecorder) SetDataCallback(cb DataCallback) {
	r.cbMu.Lock()
	defer r.cbMu.Unlock()
	r.callback = cb
}

// Start begins capturing from the microphone.
func (r *StreamRecorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stream != nil {
		return ErrAlreadyStarted
	}
	r.chunker = audio.NewChunker(r.format, r.chunkSeconds)
	return r.startLocked(r.process)
}

// Flush halts capture and emits the remaining partial window through the data
// callback when it is at least minFinalSeconds long.
func (r *StreamRecorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.haltLocked(); err != nil {
		return err
	}
	r.flushTailLocked()
	return nil
}

// Stop ends capture. Any tail not yet flushed is emitted before it returns.
func (r *StreamRecorder) Stop() (StopResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stream == nil {
		return StopResult{Kind: StopStreamed}, ErrNotStarted
	}
	err := r.stopLocked()
	r.flushTailLocked()
	return StopResult{Kind: StopStreamed}, err
}

// flushTailLocked emits whatever the chunker still holds. r.mu must be held
// and the stream must no longer deliver samples.
func (r *StreamRecorder) flushTailLocked() {
	if r.chunker == nil {
		return
	}
	tail := r.chunker.Flush()
	minSamples := int(minFinalSeconds * float64(r.format.SampleRate*r.format.Channels))
	if len(tail) == 0 || len(tail) < minSamples {
		return
	}
	r.emit(audio.NewSampleChunk(r.seq.Add(1), tail, r.format))
}

// process runs on the audio thread for every captured buffer.
func (r *StreamRecorder) process(in []float32) {
	for _, window := range r.chunker.Write(in) {
		r.emit(audio.NewSampleChunk(r.seq.Add(1), window, r.format))
	}
}

func (r *StreamRecorder) emit(chunk audio.Chunk) {
	r.cbMu.RLock()
	cb := r.callback
	r.cbMu.RUnlock()

	if cb != nil {
		cb(chunk)
	}
}
