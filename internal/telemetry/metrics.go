package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records session counters. A nil *Metrics is a valid no-op recorder.
type Metrics struct {
	chunks   metric.Int64Counter
	segments metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
}

// NewMetrics registers the session instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	chunks, err := meter.Int64Counter("voice_journal.chunks.received",
		metric.WithDescription("Audio chunks accepted for transcription"))
	if err != nil {
		return nil, err
	}
	segments, err := meter.Int64Counter("voice_journal.segments.appended",
		metric.WithDescription("Transcript segments appended"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("voice_journal.transcriptions.failed",
		metric.WithDescription("Chunks whose transcription failed"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("voice_journal.transcription.duration",
		metric.WithDescription("Transcription request latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		chunks:   chunks,
		segments: segments,
		failures: failures,
		duration: duration,
	}, nil
}

func (m *Metrics) ChunkReceived(ctx context.Context) {
	if m == nil {
		return
	}
	m.chunks.Add(ctx, 1)
}

func (m *Metrics) SegmentAppended(ctx context.Context) {
	if m == nil {
		return
	}
	m.segments.Add(ctx, 1)
}

// TranscriptionFailed counts one failure labelled with its error kind.
func (m *Metrics) TranscriptionFailed(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func (m *Metrics) ObserveTranscription(ctx context.Context, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.duration.Record(ctx, elapsed.Seconds())
}
