package mdhtml

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"golang.org/x/text/transform"
)

var discardLogger = log.New(io.Discard)

// pipeline holds the reusable stages of one render.
type pipeline struct {
	dec    Decoder
	tok    Tokenizer
	parser Parser
	front  frontMatterReader
	sink   *HTMLSink
	html   HTMLRenderer
}

var pipelinePool = sync.Pool{
	New: func() any {
		return &pipeline{sink: NewHTMLSink(io.Discard)}
	},
}

var configPool = sync.Pool{
	New: func() any {
		return &renderConfig{}
	},
}

// Stats describes a finished render.
type Stats struct {
	BytesRead    int64
	BytesWritten int64
	Units        int64
	Tokens       int64
	Lines        int
	Used         ConstructSet
	Elapsed      time.Duration
}

// RenderRequest configures Render.
type RenderRequest struct {
	Reader io.Reader
	Writer io.Writer
	Schema Schema
	// Stats, when set, receives the counters of the render.
	Stats   *Stats
	Options []RenderOption
}

// ParseRequest configures Parse.
type ParseRequest struct {
	Reader   io.Reader
	Renderer Renderer
	Stats    *Stats
	Options  []RenderOption
}

// Render converts the Markdown subset read from Reader into HTML written to
// Writer. Output is streamed; on failure the markup produced so far is still
// flushed and the first error is returned.
func Render(req RenderRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("render: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("render: writer is nil")
	}
	cfg := loadRenderConfig(req.Options)
	p := pipelinePool.Get().(*pipeline)
	p.sink.Reset(req.Writer)
	p.html.Reset(p.sink, req.Schema)
	p.html.SetEscapeHTML(cfg.escapeHTML)
	p.html.SetLineFlush(cfg.lineFlush)
	stats, err := p.run(req.Reader, &p.html, cfg)
	if ferr := p.sink.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	stats.BytesWritten = p.sink.Written()
	p.release()
	pipelinePool.Put(p)
	logStats(cfg.logger, stats, err)
	if req.Stats != nil {
		*req.Stats = stats
	}
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// Parse runs the parser over Reader and sends its events to Renderer, which
// is flushed at the end of a successful parse.
func Parse(req ParseRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("parse: reader is nil")
	}
	if req.Renderer == nil {
		return fmt.Errorf("parse: renderer is nil")
	}
	cfg := loadRenderConfig(req.Options)
	p := pipelinePool.Get().(*pipeline)
	stats, err := p.run(req.Reader, req.Renderer, cfg)
	p.release()
	pipelinePool.Put(p)
	if err == nil {
		if ferr := req.Renderer.Flush(); ferr != nil {
			err = fmt.Errorf("flush: %w", ferr)
		}
	}
	logStats(cfg.logger, stats, err)
	if req.Stats != nil {
		*req.Stats = stats
	}
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	return nil
}

func (p *pipeline) run(r io.Reader, out Renderer, cfg renderConfig) (Stats, error) {
	start := time.Now()
	src := r
	if cfg.encoding != nil {
		src = transform.NewReader(src, cfg.encoding.NewDecoder())
	}
	if cfg.skipFrontMatter {
		p.front.reset(src)
		src = &p.front
	}
	p.dec.Reset(src, cfg.bufferSize)
	p.dec.strict = cfg.strictUTF8
	p.tok.Reset(&p.dec)
	p.parser.Reset(&p.tok, out)
	err := p.parser.Run()
	return Stats{
		BytesRead: p.dec.BytesRead(),
		Units:     p.dec.Units(),
		Tokens:    p.tok.Tokens(),
		Lines:     p.parser.Position().Line,
		Used:      p.parser.Used(),
		Elapsed:   time.Since(start),
	}, err
}

// release drops every reference to the caller's reader and writer so a
// pooled pipeline does not keep them alive. The read buffer is kept.
func (p *pipeline) release() {
	p.dec.Reset(nil, len(p.dec.buf))
	p.tok.Reset(nil)
	p.parser.Reset(nil, nil)
	p.front.reset(nil)
	p.sink.Reset(io.Discard)
	p.html.Reset(nil, nil)
}

func logStats(logger *log.Logger, s Stats, err error) {
	if err != nil {
		logger.Debug("render failed", "err", err, "read", humanize.Bytes(uint64(s.BytesRead)), "lines", s.Lines)
		return
	}
	logger.Debug("render finished",
		"read", humanize.Bytes(uint64(s.BytesRead)),
		"written", humanize.Bytes(uint64(s.BytesWritten)),
		"units", humanize.Comma(s.Units),
		"tokens", humanize.Comma(s.Tokens),
		"lines", s.Lines,
		"constructs", s.Used.String(),
		"elapsed", s.Elapsed,
	)
}
