package mdhtml

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestRenderOmitsFrontMatterAtStreamStart(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		src      string
		contains []string
		omits    []string
	}{
		{
			name:     "yaml",
			src:      "---\ntitle: Post\ndate: 2026-02-09\n---\n\n# Hello\n\nBody.\n",
			contains: []string{"<h1>\nHello</h1>", "Body."},
			omits:    []string{"title:", "2026-02-09"},
		},
		{
			name:     "toml",
			src:      "+++\ntitle = \"Post\"\n+++\n\n# Hello\n",
			contains: []string{"<h1>\nHello</h1>"},
			omits:    []string{"title&nbsp;="},
		},
		{
			name:     "json",
			src:      ";;;\n{\"title\": \"Post\"}\n;;;\n\n# Hello\n",
			contains: []string{"<h1>\nHello</h1>"},
			omits:    []string{"\"title\":"},
		},
		{
			name:     "crlf",
			src:      "---\r\ntitle: Post\r\n---\r\n# Hello\r\n",
			contains: []string{"<h1>\nHello</h1>"},
			omits:    []string{"title:"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			for _, size := range []int{1, 5, DefaultBufferSize} {
				out := renderString(t, tc.src, WithSkipFrontMatter(true), WithBufferSize(size))
				for _, want := range tc.contains {
					if !strings.Contains(out, want) {
						t.Fatalf("missing %q in output: %q", want, out)
					}
				}
				for _, bad := range tc.omits {
					if strings.Contains(out, bad) {
						t.Fatalf("unexpected %q in output: %q", bad, out)
					}
				}
			}
		})
	}
}

func TestRenderKeepsFrontMatterByDefault(t *testing.T) {
	t.Parallel()
	out := renderString(t, "---\ntitle: Post\n---\nx")
	if !strings.Contains(out, "title:") {
		t.Fatalf("front matter dropped without option: %q", out)
	}
}

func TestRenderFrontMatterIsOnlyCheckedAtStart(t *testing.T) {
	t.Parallel()
	src := "# Intro\n\n+++\ntitle = \"Keep me\"\n+++\n\nTail\n"
	out := renderString(t, src, WithSkipFrontMatter(true))
	for _, want := range []string{"Intro", "title&nbsp;=&nbsp;\"Keep&nbsp;me\"", "Tail"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output: %q", want, out)
		}
	}
}

func TestRenderUnclosedFrontMatterIsNotStripped(t *testing.T) {
	t.Parallel()
	src := "---\ntitle: Post\n\n# Hello\n"
	out := renderString(t, src, WithSkipFrontMatter(true))
	for _, want := range []string{"title:&nbsp;Post", "<h1>\nHello</h1>"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output: %q", want, out)
		}
	}
}

func TestRenderStartDelimiterWithoutMetadataIsNotStripped(t *testing.T) {
	t.Parallel()
	src := "---\n# Keep\n---\n\nTail\n"
	out := renderString(t, src, WithSkipFrontMatter(true))
	for _, want := range []string{"<h1>\nKeep</h1>", "Tail"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output: %q", want, out)
		}
	}
}

func TestFrontMatterReaderPassesBytesThrough(t *testing.T) {
	t.Parallel()
	src := strings.Repeat("no front matter here\n", 500)
	var f frontMatterReader
	f.reset(iotest.HalfReader(strings.NewReader(src)))
	got, err := io.ReadAll(&f)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != src {
		t.Fatalf("passthrough changed %d bytes into %d", len(src), len(got))
	}
}

func TestFrontMatterReaderDefersSourceError(t *testing.T) {
	t.Parallel()
	var f frontMatterReader
	f.reset(&failingReader{data: []byte("---\na: b\n"), err: errBoom})
	got, err := io.ReadAll(&f)
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if string(got) != "---\na: b\n" {
		t.Fatalf("undecided prefix lost: %q", got)
	}
}
