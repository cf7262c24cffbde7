package mdhtml

import (
	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding"
)

// RenderOption configures rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	bufferSize      int
	strictUTF8      bool
	skipFrontMatter bool
	escapeHTML      bool
	lineFlush       bool
	encoding        encoding.Encoding
	logger          *log.Logger
}

func loadRenderConfig(opts []RenderOption) renderConfig {
	cfg := configPool.Get().(*renderConfig)
	*cfg = renderConfig{bufferSize: DefaultBufferSize}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.bufferSize < 1 {
		cfg.bufferSize = DefaultBufferSize
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger
	}
	cfgVal := *cfg
	configPool.Put(cfg)
	return cfgVal
}

// WithBufferSize sets the size of the decoder's read chunks. Any size of at
// least 1 byte produces the same output.
func WithBufferSize(n int) RenderOption {
	return func(cfg *renderConfig) {
		cfg.bufferSize = n
	}
}

// WithStrictUTF8 rejects malformed UTF-8 and NUL bytes instead of passing
// them through.
func WithStrictUTF8(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.strictUTF8 = enabled
	}
}

// WithSkipFrontMatter drops a YAML, TOML or JSON front-matter block at the
// start of the input.
func WithSkipFrontMatter(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.skipFrontMatter = enabled
	}
}

// WithEscapeHTML escapes HTML metacharacters in document text.
func WithEscapeHTML(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.escapeHTML = enabled
	}
}

// WithLineFlush flushes the output after every completed line so a consumer
// sees each line as soon as its input has arrived.
func WithLineFlush(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.lineFlush = enabled
	}
}

// WithInputEncoding transcodes the input from enc to UTF-8 before decoding.
// A nil encoding leaves the input untouched.
func WithInputEncoding(enc encoding.Encoding) RenderOption {
	return func(cfg *renderConfig) {
		cfg.encoding = enc
	}
}

// WithLogger sets the logger that receives per-document debug records.
func WithLogger(logger *log.Logger) RenderOption {
	return func(cfg *renderConfig) {
		cfg.logger = logger
	}
}
