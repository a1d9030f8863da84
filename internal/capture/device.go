package capture

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"voice-journal/internal/audio"
)

// inputStream abstracts an opened microphone stream for testability.
type inputStream interface {
	Start() error
	Stop() error
	Close() error
}

// streamOpener opens an input stream that calls process with interleaved samples.
type streamOpener func(format audio.Format, process func(in []float32)) (inputStream, error)

// openPortAudio opens the default input device with a callback stream.
func openPortAudio(format audio.Format, process func(in []float32)) (inputStream, error) {
	framesPerBuffer := format.SampleRate / 10
	stream, err := portaudio.OpenDefaultStream(format.Channels, 0, float64(format.SampleRate), framesPerBuffer, process)
	if err != nil {
		return nil, fmt.Errorf("open default input stream: %w", err)
	}
	return stream, nil
}

// DefaultInputName reports the default input device. Init must have succeeded.
func DefaultInputName() (string, error) {
	info, err := portaudio.DefaultInputDevice()
	if err != nil {
		return "", err
	}
	return info.Name, nil
}

// device holds the PortAudio lifecycle shared by both recorders.
type device struct {
	format     audio.Format
	open       streamOpener
	initialize func() error
	terminate  func() error

	mu          sync.Mutex
	initialized bool
	stream      inputStream
	halted      bool
}

// setup binds the device to the real PortAudio host API.
func (d *device) setup(format audio.Format) {
	d.format = format
	d.open = openPortAudio
	d.initialize = portaudio.Initialize
	d.terminate = portaudio.Terminate
}

// Init prepares the audio host API. Repeated calls are no-ops.
func (d *device) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.initialized {
		return nil
	}
	if err := d.initialize(); err != nil {
		return fmt.Errorf("initialize audio: %w", err)
	}
	d.initialized = true
	return nil
}

// Close stops any running stream and releases the audio host API.
func (d *device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream != nil {
		if !d.halted {
			_ = d.stream.Stop()
		}
		_ = d.stream.Close()
		d.stream = nil
		d.halted = false
	}
	if !d.initialized {
		return nil
	}
	d.initialized = false
	return d.terminate()
}

// startLocked opens and starts a stream feeding process. d.mu must be held.
func (d *device) startLocked(process func(in []float32)) error {
	if d.stream != nil {
		return ErrAlreadyStarted
	}
	if !d.initialized {
		return fmt.Errorf("audio not initialized")
	}
	stream, err := d.open(d.format, process)
	if err != nil {
		return err
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("start input stream: %w", err)
	}
	d.stream = stream
	d.halted = false
	return nil
}

// haltLocked stops sample delivery but keeps the stream open so stopLocked
// can still close it. d.mu must be held.
func (d *device) haltLocked() error {
	if d.stream == nil {
		return ErrNotStarted
	}
	if d.halted {
		return nil
	}
	if err := d.stream.Stop(); err != nil {
		return fmt.Errorf("stop input stream: %w", err)
	}
	d.halted = true
	return nil
}

// stopLocked stops and closes the running stream. After it returns no more
// process callbacks are delivered. d.mu must be held.
func (d *device) stopLocked() error {
	if d.stream == nil {
		return ErrNotStarted
	}
	stream := d.stream
	halted := d.halted
	d.stream = nil
	d.halted = false

	var stopErr error
	if !halted {
		stopErr = stream.Stop()
	}
	closeErr := stream.Close()
	if stopErr != nil {
		return fmt.Errorf("stop input stream: %w", stopErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close input stream: %w", closeErr)
	}
	return nil
}
