package audio

import "sync"

// Chunker groups variable-size capture buffers into fixed windows of samples.
type Chunker struct {
	mu     sync.Mutex
	window int
	buf    []float32
}

// NewChunker creates a chunker emitting windows of seconds*rate*channels samples.
func NewChunker(format Format, seconds int) *Chunker {
	window := seconds * format.SampleRate * format.Channels
	if window <= 0 {
		window = format.SampleRate * format.Channels
	}
	if window <= 0 {
		window = 1
	}
	return &Chunker{window: window, buf: make([]float32, 0, window)}
}

// Write copies in and returns every window it completed, oldest first.
func (c *Chunker) Write(in []float32) [][]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var full [][]float32
	for len(in) > 0 {
		n := c.window - len(c.buf)
		if n > len(in) {
			n = len(in)
		}
		c.buf = append(c.buf, in[:n]...)
		in = in[n:]

		if len(c.buf) == c.window {
			full = append(full, c.buf)
			c.buf = make([]float32, 0, c.window)
		}
	}
	return full
}

// Flush returns the partial window and resets the chunker.
func (c *Chunker) Flush() []float32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.buf) == 0 {
		return nil
	}
	rest := c.buf
	c.buf = make([]float32, 0, c.window)
	return rest
}
