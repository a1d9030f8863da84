package audio

import (
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

// EncodeWAV writes float samples in [-1, 1] as integer PCM at format.BitDepth.
func EncodeWAV(w io.WriteSeeker, samples []float32, format Format) error {
	enc, err := NewWAVWriter(w, format)
	if err != nil {
		return err
	}
	if err := enc.Write(samples); err != nil {
		return err
	}
	return enc.Close()
}

// WAVWriter incrementally encodes float sample buffers into a WAV container.
type WAVWriter struct {
	enc    *wav.Encoder
	format Format
	scale  float64
}

// NewWAVWriter validates format and prepares a PCM encoder on w.
func NewWAVWriter(w io.WriteSeeker, format Format) (*WAVWriter, error) {
	if format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid wav format: %d channels at %d Hz", format.Channels, format.SampleRate)
	}
	switch format.BitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported wav bit depth: %d", format.BitDepth)
	}

	return &WAVWriter{
		enc:    wav.NewEncoder(w, format.SampleRate, format.BitDepth, format.Channels, wavFormatPCM),
		format: format,
		scale:  float64(int64(1)<<(format.BitDepth-1) - 1),
	}, nil
}

// Write appends one buffer of interleaved samples.
func (e *WAVWriter) Write(samples []float32) error {
	if len(samples) == 0 {
		return nil
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: e.format.Channels, SampleRate: e.format.SampleRate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: e.format.BitDepth,
	}
	for i, s := range samples {
		buf.Data[i] = e.quantize(s)
	}
	if err := e.enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return nil
}

// Close finalizes the WAV header sizes.
func (e *WAVWriter) Close() error {
	if err := e.enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}

func (e *WAVWriter) quantize(s float32) int {
	v := float64(s)
	if math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int(math.Round(v * e.scale))
}
