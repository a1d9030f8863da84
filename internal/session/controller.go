package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"voice-journal/internal/audio"
	"voice-journal/internal/capture"
	"voice-journal/internal/domain"
	"voice-journal/internal/telemetry"
	"voice-journal/internal/transcribe"
)

// Transcriber turns one audio chunk into text.
type Transcriber interface {
	Transcribe(ctx context.Context, chunk audio.Chunk) (string, error)
}

// Hooks receive session notifications. They run outside the accumulator lock
// and must not call back into Start or Stop.
type Hooks struct {
	OnStatus  func(sessionID string, status domain.RecordingStatus)
	OnSegment func(sessionID string, chunkSeq int64, text string)
	OnError   func(sessionID string, chunkSeq int64, err error)
}

// Options configures optional Controller collaborators.
type Options struct {
	Logger  *slog.Logger
	Metrics *telemetry.Metrics
	Hooks   Hooks
	NewID   func() string
	Now     func() time.Time
}

// Controller owns the single recording session and drives capture and
// transcription for it.
type Controller struct {
	// lifecycle serializes Start, Stop, Reconfigure and ResetTranscript.
	lifecycle sync.Mutex

	acc    *Accumulator
	handle audio.Handle

	cfgMu       sync.RWMutex
	bridge      capture.Bridge
	transcriber Transcriber

	logger  *slog.Logger
	metrics *telemetry.Metrics
	hooks   Hooks
	newID   func() string
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	wg sync.WaitGroup
	// lastDone closes when the most recent consumer exits.
	lastDone chan struct{}
}

// NewController creates an idle controller around bridge and transcriber.
func NewController(bridge capture.Bridge, transcriber Transcriber, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		acc:         NewAccumulator(),
		bridge:      bridge,
		transcriber: transcriber,
		logger:      logger.With(slog.String("component", "session")),
		metrics:     opts.Metrics,
		hooks:       opts.Hooks,
		newID:       newID,
		now:         now,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins a new recording session. A ctx that is already done aborts
// before capture is touched.
func (c *Controller) Start(ctx context.Context) error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if c.acc.Status() != domain.RecordingStatusIdle {
		return ErrAlreadyRecording
	}

	bridge, transcriber := c.components()
	sessionID := c.newID()
	queue := audio.NewQueue()
	c.handle.Install(queue)

	prev := c.lastDone
	done := make(chan struct{})
	c.lastDone = done
	c.wg.Add(1)
	go c.consume(sessionID, queue, transcriber, prev, done)

	bridge.SetDataCallback(c.receive)
	if err := bridge.Start(); err != nil {
		c.handle.Clear()
		c.logger.Error("capture start failed", slog.String("session_id", sessionID), slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrCaptureStartFailed, err)
	}

	if err := c.acc.begin(sessionID, c.now().UTC()); err != nil {
		c.abortStart(sessionID, bridge)
		return err
	}
	c.logger.Info("recording started", slog.String("session_id", sessionID))
	c.notifyStatus(sessionID, domain.RecordingStatusRecording)
	return nil
}

// abortStart undoes a bridge start whose session could not begin. Any final
// payload is released without being transcribed.
func (c *Controller) abortStart(sessionID string, bridge capture.Bridge) {
	c.handle.Clear()
	result, err := bridge.Stop()
	if err != nil {
		c.logger.Warn("capture stop after failed start", slog.String("session_id", sessionID), slog.String("error", err.Error()))
	}
	if result.Kind == capture.StopFinalPayload {
		if err := result.Final.Release(); err != nil {
			c.logger.Warn("release chunk failed", slog.Int64("chunk_seq", result.Final.Seq), slog.String("error", err.Error()))
		}
	}
}

// Stop ends the active session. Bridges that buffer audio are flushed through
// the data callback first, so streamed chunks still queued are transcribed in
// the background and Stop does not wait for them. A final payload returned by
// the bridge is transcribed before Stop returns. The session is idle on every
// return path.
func (c *Controller) Stop(ctx context.Context) error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if c.acc.Status() == domain.RecordingStatusIdle {
		return ErrNotRecording
	}

	sessionID := c.acc.currentSessionID()
	bridge, transcriber := c.components()
	if f, ok := bridge.(capture.Flusher); ok {
		if err := f.Flush(); err != nil {
			c.logger.Warn("capture flush failed", slog.String("session_id", sessionID), slog.String("error", err.Error()))
		}
	}
	c.handle.Clear()
	if err := c.acc.transition(domain.RecordingStatusStopping); err != nil {
		c.logger.Warn("unexpected status before stop", slog.String("error", err.Error()))
	}
	c.notifyStatus(sessionID, domain.RecordingStatusStopping)
	defer c.finish(sessionID)

	result, err := bridge.Stop()
	if err != nil {
		c.logger.Error("capture stop failed", slog.String("session_id", sessionID), slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrCaptureStopFailed, err)
	}
	c.logger.Debug("capture stopped", slog.String("session_id", sessionID), slog.String("stop_kind", result.Kind.String()))

	if result.Kind != capture.StopFinalPayload {
		return nil
	}
	if text, ok := c.transcribe(ctx, sessionID, transcriber, result.Final); ok {
		c.appendSegment(sessionID, result.Final.Seq, text)
	}
	return nil
}

// Wait blocks until every consumer started so far has drained and exited.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels in-flight transcriptions and waits for consumers to exit.
// Queued chunks are still released.
func (c *Controller) Close() {
	c.cancel()
	c.wg.Wait()
}

// IsRecording reports whether a session is recording or stopping.
func (c *Controller) IsRecording() bool {
	return c.acc.Status() != domain.RecordingStatusIdle
}

// Status returns the current lifecycle status.
func (c *Controller) Status() domain.RecordingStatus {
	return c.acc.Status()
}

// Transcript returns the accumulated transcript.
func (c *Controller) Transcript() string {
	return c.acc.Transcript()
}

// Snapshot returns the session state for display.
func (c *Controller) Snapshot() domain.SessionSnapshot {
	return c.acc.Snapshot()
}

// ResetTranscript clears the transcript between sessions.
func (c *Controller) ResetTranscript() error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	return c.acc.Reset()
}

// Reconfigure swaps the bridge and transcriber while idle and returns the
// previous bridge so the caller can close it.
func (c *Controller) Reconfigure(bridge capture.Bridge, transcriber Transcriber) (capture.Bridge, error) {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if c.acc.Status() != domain.RecordingStatusIdle {
		return nil, ErrAlreadyRecording
	}

	c.cfgMu.Lock()
	defer c.cfgMu.Unlock()
	prev := c.bridge
	c.bridge = bridge
	c.transcriber = transcriber
	return prev, nil
}

// Bridge returns the active capture bridge.
func (c *Controller) Bridge() capture.Bridge {
	bridge, _ := c.components()
	return bridge
}

func (c *Controller) components() (capture.Bridge, Transcriber) {
	c.cfgMu.RLock()
	defer c.cfgMu.RUnlock()
	return c.bridge, c.transcriber
}

// receive is the bridge data callback. It may run on a native audio thread.
func (c *Controller) receive(chunk audio.Chunk) {
	if !c.handle.Send(chunk) {
		_ = chunk.Release()
		return
	}
	c.metrics.ChunkReceived(context.Background())
}

// consume transcribes queued chunks one at a time until the queue is closed
// and drained. It waits for the previous session's consumer first so segments
// keep arrival order across sessions.
func (c *Controller) consume(sessionID string, queue *audio.Queue, transcriber Transcriber, prev <-chan struct{}, done chan<- struct{}) {
	defer c.wg.Done()
	defer close(done)

	if prev != nil {
		<-prev
	}

	for {
		chunk, ok := queue.Receive(context.Background())
		if !ok {
			c.logger.Debug("chunk queue drained", slog.String("session_id", sessionID))
			return
		}
		if text, ok := c.transcribe(c.ctx, sessionID, transcriber, chunk); ok {
			c.appendSegment(sessionID, chunk.Seq, text)
		}
	}
}

// transcribe runs one transcription outside any lock and always releases the chunk.
func (c *Controller) transcribe(ctx context.Context, sessionID string, transcriber Transcriber, chunk audio.Chunk) (string, bool) {
	defer func() {
		if err := chunk.Release(); err != nil {
			c.logger.Warn("release chunk failed", slog.Int64("chunk_seq", chunk.Seq), slog.String("error", err.Error()))
		}
	}()

	started := time.Now()
	text, err := transcriber.Transcribe(ctx, chunk)
	c.metrics.ObserveTranscription(ctx, time.Since(started))
	if err != nil {
		kind := transcribe.KindOf(err)
		if kind == "" {
			kind = "unknown"
		}
		c.acc.recordFailure()
		c.metrics.TranscriptionFailed(ctx, string(kind))
		c.logger.Warn("chunk transcription failed",
			slog.String("session_id", sessionID),
			slog.Int64("chunk_seq", chunk.Seq),
			slog.Duration("audio", chunk.Duration()),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
		if c.hooks.OnError != nil {
			c.hooks.OnError(sessionID, chunk.Seq, err)
		}
		return "", false
	}
	c.logger.Debug("chunk transcribed",
		slog.String("session_id", sessionID),
		slog.Int64("chunk_seq", chunk.Seq),
		slog.Duration("audio", chunk.Duration()),
		slog.Duration("took", time.Since(started)),
	)
	return text, true
}

// appendSegment adds text to the transcript. Blank results, such as the
// empty fallback for a response without text, never become segments.
func (c *Controller) appendSegment(sessionID string, chunkSeq int64, text string) {
	if !c.acc.Append(text) {
		c.logger.Debug("blank transcription skipped", slog.String("session_id", sessionID), slog.Int64("chunk_seq", chunkSeq))
		return
	}
	c.metrics.SegmentAppended(context.Background())
	if c.hooks.OnSegment != nil {
		c.hooks.OnSegment(sessionID, chunkSeq, text)
	}
}

// finish forces the session back to idle.
func (c *Controller) finish(sessionID string) {
	c.acc.forceIdle()
	c.logger.Info("recording stopped", slog.String("session_id", sessionID))
	c.notifyStatus(sessionID, domain.RecordingStatusIdle)
}

func (c *Controller) notifyStatus(sessionID string, status domain.RecordingStatus) {
	if c.hooks.OnStatus != nil {
		c.hooks.OnStatus(sessionID, status)
	}
}
