package mdhtml

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding/charmap"
)

func TestRenderRequiresReaderAndWriter(t *testing.T) {
	t.Parallel()
	if err := Render(RenderRequest{Writer: &bytes.Buffer{}}); err == nil || err.Error() != "render: reader is nil" {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Render(RenderRequest{Reader: strings.NewReader("")}); err == nil || err.Error() != "render: writer is nil" {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Parse(ParseRequest{Renderer: &TraceRenderer{}}); err == nil || err.Error() != "parse: reader is nil" {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Parse(ParseRequest{Reader: strings.NewReader("")}); err == nil || err.Error() != "parse: renderer is nil" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRenderBufferSizeDoesNotChangeOutput(t *testing.T) {
	t.Parallel()
	src := "# 日本語 title\n> quote ü\nmore\n\n- [x] done ✓\n- [ ] todo\n\\# esc\n"
	want := renderString(t, src)
	for _, size := range testBufferSizes {
		if got := renderString(t, src, WithBufferSize(size)); got != want {
			t.Fatalf("buffer %d: output differs\nwant: %q\n got: %q", size, want, got)
		}
	}
}

func TestRenderFlushesPartialOutputOnError(t *testing.T) {
	t.Parallel()
	bare, _ := SchemaByName("bare")
	var out bytes.Buffer
	err := Render(RenderRequest{
		Reader: strings.NewReader("# ok\nab\xe6"),
		Writer: &out,
		Schema: bare,
	})
	if !errors.Is(err, ErrTruncatedUnit) {
		t.Fatalf("expected ErrTruncatedUnit, got %v", err)
	}
	if got := out.String(); got != "<h1>\nok</h1>\nab" {
		t.Fatalf("partial output = %q", got)
	}
}

func TestRenderStrictUTF8(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	err := Render(RenderRequest{
		Reader:  strings.NewReader("ok \xc3("),
		Writer:  &out,
		Options: []RenderOption{WithStrictUTF8(true)},
	})
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
	// Without strict mode the byte passes through.
	if got := renderString(t, "ok \xc3("); got != "ok&nbsp;\xc3(" {
		t.Fatalf("lenient output = %q", got)
	}
}

func TestRenderInputEncoding(t *testing.T) {
	t.Parallel()
	bare, _ := SchemaByName("bare")
	latin1 := "# caf\xe9"
	got := renderSchema(t, latin1, bare, WithInputEncoding(charmap.ISO8859_1))
	if got != "<h1>\ncafé</h1>\n" {
		t.Fatalf("transcoded output = %q", got)
	}
}

func TestRenderStats(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	var stats Stats
	err := Render(RenderRequest{
		Reader: strings.NewReader("# 日本\nx"),
		Writer: &out,
		Stats:  &stats,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stats.BytesRead != 10 || stats.Units != 6 || stats.Lines != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	// Tag, two units, newline, one unit.
	if stats.Tokens != 5 {
		t.Fatalf("tokens = %d, want 5", stats.Tokens)
	}
	if stats.BytesWritten != int64(out.Len()) {
		t.Fatalf("bytes written = %d, output has %d", stats.BytesWritten, out.Len())
	}
	if !stats.Used.Has(Header(1).Index()) {
		t.Fatalf("used = %v", stats.Used)
	}
}

func TestRenderLogsDebugRecord(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})
	renderString(t, "> hi", WithLogger(logger))
	out := logs.String()
	if !strings.Contains(out, "render finished") || !strings.Contains(out, "constructs=BlockQuote") {
		t.Fatalf("unexpected log output: %q", out)
	}
}

func TestRenderReusesPooledPipeline(t *testing.T) {
	t.Parallel()
	bare, _ := SchemaByName("bare")
	for i := 0; i < 10; i++ {
		if got := renderSchema(t, "# a", bare); got != "<h1>\na</h1>\n" {
			t.Fatalf("iteration %d: output = %q", i, got)
		}
		if got := renderSchema(t, "b", bare, WithBufferSize(1)); got != "b" {
			t.Fatalf("iteration %d: output = %q", i, got)
		}
	}
}
