package capture

import (
	"errors"
	"fmt"

	"voice-journal/internal/audio"
	"voice-journal/internal/domain"
)

// ErrNotStarted is returned when stopping a recorder that is not capturing.
var ErrNotStarted = errors.New("capture not started")

// ErrAlreadyStarted is returned when starting a recorder twice.
var ErrAlreadyStarted = errors.New("capture already started")

// DataCallback receives audio emitted while recording. It may be invoked from
// a native audio thread and must not block.
type DataCallback func(chunk audio.Chunk)

// StopKind tells the session which stop contract a bridge followed.
type StopKind int

const (
	// StopStreamed means every sample was already delivered through the data callback.
	StopStreamed StopKind = iota
	// StopFinalPayload means Final holds audio that must be transcribed before stop returns.
	StopFinalPayload
)

// String names the stop kind for logs.
func (k StopKind) String() string {
	switch k {
	case StopStreamed:
		return "streamed"
	case StopFinalPayload:
		return "final_payload"
	default:
		return fmt.Sprintf("StopKind(%d)", int(k))
	}
}

// StopResult is the discriminated outcome of Bridge.Stop.
type StopResult struct {
	Kind  StopKind
	Final audio.Chunk
}

// Bridge is the microphone capture subsystem the session drives.
type Bridge interface {
	Init() error
	Start() error
	Stop() (StopResult, error)
	SetDataCallback(cb DataCallback)
	Close() error
}

// Flusher is implemented by bridges that can push buffered audio through the
// data callback before capture stops. After Flush returns no further samples
// are captured; Stop still releases the device.
type Flusher interface {
	Flush() error
}

// New builds the bridge selected by settings.CaptureMode.
func New(settings domain.Settings) (Bridge, error) {
	format := audio.Format{
		Channels:   settings.Channels,
		SampleRate: settings.SampleRate,
		BitDepth:   settings.BitDepth,
	}
	switch settings.CaptureMode {
	case domain.CaptureModeStream:
		return NewStreamRecorder(format, settings.ChunkSeconds), nil
	case domain.CaptureModeFile:
		return NewFileRecorder(format, ""), nil
	default:
		return nil, fmt.Errorf("unknown capture mode: %q", settings.CaptureMode)
	}
}
