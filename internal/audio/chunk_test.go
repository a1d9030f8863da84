package audio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
)

// TestChunkerEmitsFullWindows checks buffering across callback boundaries.
func TestChunkerEmitsFullWindows(t *testing.T) {
	c := NewChunker(Format{Channels: 1, SampleRate: 4}, 1)
	if c.window != 4 {
		t.Fatalf("window = %d, want 4", c.window)
	}

	input := []float32{1, 2, 3}
	if full := c.Write(input); len(full) != 0 {
		t.Fatalf("unexpected window after 3 samples: %v", full)
	}
	input[0] = 99 // caller reuses its buffer

	full := c.Write([]float32{4, 5, 6, 7, 8, 9})
	if len(full) != 2 {
		t.Fatalf("windows = %d, want 2", len(full))
	}
	if full[0][0] != 1 || full[0][3] != 4 || full[1][0] != 5 || full[1][3] != 8 {
		t.Fatalf("unexpected windows: %v", full)
	}

	rest := c.Flush()
	if len(rest) != 1 || rest[0] != 9 {
		t.Fatalf("flush = %v, want [9]", rest)
	}
	if c.Flush() != nil {
		t.Fatal("second flush should be empty")
	}
}

// TestChunkReleaseRemovesFileOnce checks file-backed chunks clean up after themselves.
func TestChunkReleaseRemovesFileOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunk.m4a")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	chunk := NewFileChunk(1, path)
	copied := chunk
	if err := chunk.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err = %v", err)
	}
	if err := copied.Release(); err != nil {
		t.Fatalf("second release: %v", err)
	}

	if err := NewSampleChunk(2, []float32{0}, Format{}).Release(); err != nil {
		t.Fatalf("sample release: %v", err)
	}
}

// TestChunkDuration checks frame math for interleaved buffers.
func TestChunkDuration(t *testing.T) {
	chunk := NewSampleChunk(1, make([]float32, 44100*2), Format{Channels: 2, SampleRate: 44100})
	if got := chunk.Duration(); got != time.Second {
		t.Fatalf("duration = %s, want 1s", got)
	}
}

// TestEncodeWAVRoundTrip checks the container header and quantized samples.
func TestEncodeWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	format := Format{Channels: 1, SampleRate: 16000, BitDepth: 16}
	if err := EncodeWAV(f, []float32{0, 1, -1, 2}, format); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		t.Fatal("encoded file is not a valid wav")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dec.SampleRate != 16000 || dec.NumChans != 1 || dec.BitDepth != 16 {
		t.Fatalf("header = %d Hz %d ch %d bit", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
	want := []int{0, 32767, -32767, 32767}
	if len(buf.Data) != len(want) {
		t.Fatalf("samples = %v, want %v", buf.Data, want)
	}
	for i := range want {
		if buf.Data[i] != want[i] {
			t.Fatalf("samples = %v, want %v", buf.Data, want)
		}
	}
}

// TestEncodeWAVRejectsBadFormat checks format validation.
func TestEncodeWAVRejectsBadFormat(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "bad.wav"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	if err := EncodeWAV(f, []float32{0}, Format{Channels: 1, SampleRate: 16000, BitDepth: 8}); err == nil {
		t.Fatal("expected bit depth error")
	}
	if err := EncodeWAV(f, []float32{0}, Format{BitDepth: 16}); err == nil {
		t.Fatal("expected format error")
	}
}
