package audio

import (
	"errors"
	"os"
	"sync"
	"time"
)

// Format describes interleaved sample buffers and the PCM depth they encode to.
type Format struct {
	Channels   int `json:"channels"`
	SampleRate int `json:"sampleRate"`
	BitDepth   int `json:"bitDepth"`
}

// Chunk is one unit of captured audio: either an in-memory sample buffer or a
// temporary encoded file on disk.
type Chunk struct {
	Seq     int64
	Samples []float32
	Format  Format
	Path    string

	release *sync.Once
}

// NewSampleChunk wraps an interleaved float sample buffer.
func NewSampleChunk(seq int64, samples []float32, format Format) Chunk {
	return Chunk{Seq: seq, Samples: samples, Format: format}
}

// NewFileChunk wraps a temporary file that is deleted on Release.
func NewFileChunk(seq int64, path string) Chunk {
	return Chunk{Seq: seq, Path: path, release: &sync.Once{}}
}

// IsFile reports whether the chunk is backed by an encoded file.
func (c Chunk) IsFile() bool {
	return c.Path != ""
}

// IsEmpty reports whether the chunk carries no audio.
func (c Chunk) IsEmpty() bool {
	return c.Path == "" && len(c.Samples) == 0
}

// Duration returns the buffered audio length; zero for file-backed chunks.
func (c Chunk) Duration() time.Duration {
	if c.IsFile() || c.Format.SampleRate <= 0 || c.Format.Channels <= 0 {
		return 0
	}
	frames := len(c.Samples) / c.Format.Channels
	return time.Duration(frames) * time.Second / time.Duration(c.Format.SampleRate)
}

// Release deletes the backing file of a file chunk. Safe to call repeatedly.
func (c Chunk) Release() error {
	if !c.IsFile() {
		return nil
	}

	var err error
	remove := func() {
		if rmErr := os.Remove(c.Path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = rmErr
		}
	}
	if c.release == nil {
		remove()
		return err
	}
	c.release.Do(remove)
	return err
}
