package capture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"voice-journal/internal/audio"
)

// FileRecorder records the whole session into one temporary WAV file and
// hands it over when stopped. It never uses the data callback.
type FileRecorder struct {
	device
	dir string

	wmu      sync.Mutex
	file     *os.File
	writer   *audio.WAVWriter
	writeErr error
	seq      int64
}

// NewFileRecorder creates a batch recorder writing into dir, or the OS temp
// dir when dir is empty.
func NewFileRecorder(format audio.Format, dir string) *FileRecorder {
	r := &FileRecorder{dir: dir}
	r.setup(format)
	return r
}

// SetDataCallback is accepted for interface parity; batch recordings are only
// delivered through Stop.
func (r *FileRecorder) SetDataCallback(DataCallback) {}

// Start creates recording-<uuid>.wav and begins capturing into it.
func (r *FileRecorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stream != nil {
		return ErrAlreadyStarted
	}

	dir := r.dir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "recording-"+uuid.NewString()+".wav")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create recording file: %w", err)
	}
	writer, err := audio.NewWAVWriter(file, r.format)
	if err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return err
	}

	r.wmu.Lock()
	r.file = file
	r.writer = writer
	r.writeErr = nil
	r.wmu.Unlock()

	if err := r.startLocked(r.process); err != nil {
		r.discard()
		return err
	}
	return nil
}

// Stop ends capture, finalizes the WAV header and returns the file as the
// final payload. The caller owns the file from then on.
func (r *FileRecorder) Stop() (StopResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.stopLocked(); err != nil {
		if errors.Is(err, ErrNotStarted) {
			return StopResult{}, err
		}
		r.discard()
		return StopResult{}, err
	}

	r.wmu.Lock()
	file, writer, writeErr := r.file, r.writer, r.writeErr
	r.file, r.writer = nil, nil
	r.wmu.Unlock()

	path := file.Name()
	closeErr := errors.Join(writer.Close(), file.Close())
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(path)
		return StopResult{}, fmt.Errorf("finalize recording: %w", err)
	}

	r.seq++
	return StopResult{Kind: StopFinalPayload, Final: audio.NewFileChunk(r.seq, path)}, nil
}

// process appends one captured buffer to the file on the audio thread.
func (r *FileRecorder) process(in []float32) {
	r.wmu.Lock()
	defer r.wmu.Unlock()

	if r.writer == nil || r.writeErr != nil {
		return
	}
	r.writeErr = r.writer.Write(in)
}

// discard closes and deletes a recording that cannot be handed over.
func (r *FileRecorder) discard() {
	r.wmu.Lock()
	defer r.wmu.Unlock()

	if r.file == nil {
		return
	}
	path := r.file.Name()
	_ = r.file.Close()
	_ = os.Remove(path)
	r.file, r.writer = nil, nil
}
