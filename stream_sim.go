package mdhtml

import (
	"fmt"
	"io"
	"time"
)

// ChunkReader hands out the bytes of an underlying reader in chunks of at
// most a fixed size, sleeping before each non-empty chunk. It simulates a
// slow network source and makes chunk boundaries fall inside multi-byte
// characters and markers.
type ChunkReader struct {
	r        io.Reader
	maxChunk int
	delay    time.Duration
	chunks   int64
}

// NewChunkReader wraps r. A maxChunk below 1 means one byte per read.
func NewChunkReader(r io.Reader, maxChunk int, delay time.Duration) *ChunkReader {
	if maxChunk < 1 {
		maxChunk = 1
	}
	return &ChunkReader{r: r, maxChunk: maxChunk, delay: delay}
}

// Chunks returns the number of non-empty reads served.
func (c *ChunkReader) Chunks() int64 { return c.chunks }

func (c *ChunkReader) Read(p []byte) (int, error) {
	if len(p) > c.maxChunk {
		p = p[:c.maxChunk]
	}
	n, err := c.r.Read(p)
	if n > 0 {
		c.chunks++
		if c.delay > 0 {
			time.Sleep(c.delay)
		}
	}
	return n, err
}

// StreamSimulateRequest configures StreamSimulate.
type StreamSimulateRequest struct {
	Reader    io.Reader
	Writer    io.Writer
	Schema    Schema
	ChunkSize int
	Delay     time.Duration
	Options   []RenderOption
}

// StreamSimulate renders Reader as if it arrived over a slow link, ChunkSize
// bytes at a time with Delay between chunks. Output is flushed line by line.
func StreamSimulate(req StreamSimulateRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("stream simulate: Reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("stream simulate: Writer is nil")
	}
	if req.ChunkSize <= 0 {
		return fmt.Errorf("stream simulate: ChunkSize must be > 0")
	}
	opts := append([]RenderOption{WithLineFlush(true)}, req.Options...)
	return Render(RenderRequest{
		Reader:  NewChunkReader(req.Reader, req.ChunkSize, req.Delay),
		Writer:  req.Writer,
		Schema:  req.Schema,
		Options: opts,
	})
}
