package mdhtml

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPRenderStreamsBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/markdown")
		flusher, _ := w.(http.Flusher)
		for _, part := range []string{"# Ti", "tle\n> q", "uote\n"} {
			_, _ = w.Write([]byte(part))
			if flusher != nil {
				flusher.Flush()
			}
		}
	}))
	defer srv.Close()

	bare, _ := SchemaByName("bare")
	var out bytes.Buffer
	var stats Stats
	err := HTTPRender(context.Background(), HTTPRenderRequest{
		URL:    srv.URL,
		Client: srv.Client(),
		Writer: &out,
		Schema: bare,
		Stats:  &stats,
	})
	if err != nil {
		t.Fatalf("http render: %v", err)
	}
	want := "<h1>\nTitle</h1>\n<blockquote>\nquote<br>\n</blockquote>"
	if got := out.String(); got != want {
		t.Fatalf("unexpected output\nwant: %q\n got: %q", want, got)
	}
	if stats.BytesRead != int64(len("# Title\n> quote\n")) {
		t.Fatalf("bytes read = %d", stats.BytesRead)
	}
}

func TestHTTPRenderUsesResponseCharset(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/markdown; charset=ISO-8859-1")
		_, _ = w.Write([]byte("caf\xe9"))
	}))
	defer srv.Close()
	var out bytes.Buffer
	if err := HTTPRender(context.Background(), HTTPRenderRequest{URL: srv.URL, Writer: &out}); err != nil {
		t.Fatalf("http render: %v", err)
	}
	if got := out.String(); got != "café" {
		t.Fatalf("output = %q, want café", got)
	}
}

func TestHTTPRenderErrors(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	// Parallel subtests run after this function returns.
	t.Cleanup(srv.Close)
	tests := []struct {
		name string
		req  HTTPRenderRequest
		want string
	}{
		{name: "no-url", req: HTTPRenderRequest{Writer: &bytes.Buffer{}}, want: "URL is required"},
		{name: "no-writer", req: HTTPRenderRequest{URL: srv.URL}, want: "Writer is nil"},
		{name: "scheme", req: HTTPRenderRequest{URL: "ftp://example.com/x.md", Writer: &bytes.Buffer{}}, want: "unsupported scheme"},
		{name: "status", req: HTTPRenderRequest{URL: srv.URL, Writer: &bytes.Buffer{}}, want: "404"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := HTTPRender(context.Background(), tc.req)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
