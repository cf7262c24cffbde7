package mdhtml

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

var testBufferSizes = []int{1, 2, 3, 4, 5, 7, 16, DefaultBufferSize}

func renderString(t *testing.T, src string, opts ...RenderOption) string {
	t.Helper()
	return renderSchema(t, src, nil, opts...)
}

func renderSchema(t *testing.T, src string, s Schema, opts ...RenderOption) string {
	t.Helper()
	var out bytes.Buffer
	err := Render(RenderRequest{
		Reader:  strings.NewReader(src),
		Writer:  &out,
		Schema:  s,
		Options: opts,
	})
	if err != nil {
		t.Fatalf("render %q: %v", src, err)
	}
	return out.String()
}

func traceString(t *testing.T, src string) string {
	t.Helper()
	var tr TraceRenderer
	if err := Parse(ParseRequest{Reader: strings.NewReader(src), Renderer: &tr}); err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return tr.String()
}

// tokenize returns the token strings for src, with adjacent Text tokens
// merged so the result does not depend on how units were grouped.
func tokenize(t *testing.T, src string, bufSize int) []string {
	t.Helper()
	toks, err := tokenizeErr(strings.NewReader(src), bufSize)
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	return toks
}

func tokenizeErr(r io.Reader, bufSize int) ([]string, error) {
	tz := NewTokenizer(NewDecoder(r, bufSize))
	var out []string
	var text []byte
	flush := func() {
		if len(text) > 0 {
			out = append(out, TextToken(string(text)).String())
			text = text[:0]
		}
	}
	for {
		tok, err := tz.Next()
		if err == io.EOF {
			flush()
			return out, nil
		}
		if err != nil {
			flush()
			return out, err
		}
		if tok.Kind == TokenText {
			text = append(text, tok.Bytes()...)
			continue
		}
		flush()
		out = append(out, tok.String())
	}
}

// rebuild reconstructs the source from a token stream. Every line ending
// comes back as "\n" and escape markers are gone.
func rebuild(t *testing.T, src string, bufSize int) string {
	t.Helper()
	tz := NewTokenizer(NewDecoder(strings.NewReader(src), bufSize))
	var b strings.Builder
	for {
		tok, err := tz.Next()
		if err == io.EOF {
			return b.String()
		}
		if err != nil {
			t.Fatalf("tokenize %q: %v", src, err)
		}
		switch tok.Kind {
		case TokenSpace:
			b.WriteByte(' ')
		case TokenTab:
			b.WriteByte('\t')
		case TokenNewline:
			b.WriteByte('\n')
		case TokenTag:
			b.WriteString(tok.Construct.Source())
		case TokenText:
			b.Write(tok.Bytes())
		}
	}
}

// sliceSource replays a fixed token list.
type sliceSource struct {
	toks []Token
	err  error
}

func (s *sliceSource) Next() (Token, error) {
	if len(s.toks) == 0 {
		if s.err != nil {
			return Token{}, s.err
		}
		return Token{}, io.EOF
	}
	tok := s.toks[0]
	s.toks = s.toks[1:]
	return tok, nil
}

// failingReader returns data and then err.
type failingReader struct {
	data []byte
	err  error
	// withData returns err in the same call as the last bytes.
	withData bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if len(f.data) == 0 {
		return 0, f.err
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	if len(f.data) == 0 && f.withData {
		return n, f.err
	}
	return n, nil
}

// emptyReader never returns data or an error.
type emptyReader struct{}

func (emptyReader) Read([]byte) (int, error) { return 0, nil }

var errBoom = errors.New("boom")

// failingWriter fails every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errBoom }
