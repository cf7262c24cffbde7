package mdhtml

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"testing"
)

func BenchmarkRenderBasic(b *testing.B) {
	data := bytes.Repeat(mustReadSample(b, "testdata/basic.md"), 100)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	reader := bytes.NewReader(data)
	for i := 0; i < b.N; i++ {
		reader.Reset(data)
		_ = Render(RenderRequest{Reader: reader, Writer: io.Discard})
	}
}

func BenchmarkRenderBufferSizes(b *testing.B) {
	data := bytes.Repeat(mustReadSample(b, "testdata/edge.md"), 100)
	for _, size := range []int{1, 16, DefaultBufferSize, 4096} {
		size := size
		b.Run("buf"+strconv.Itoa(size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			reader := bytes.NewReader(data)
			for i := 0; i < b.N; i++ {
				reader.Reset(data)
				_ = Render(RenderRequest{
					Reader:  reader,
					Writer:  io.Discard,
					Options: []RenderOption{WithBufferSize(size)},
				})
			}
		})
	}
}

func BenchmarkTokenizer(b *testing.B) {
	data := bytes.Repeat(mustReadSample(b, "testdata/edge.md"), 100)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	reader := bytes.NewReader(data)
	var dec Decoder
	var tok Tokenizer
	for i := 0; i < b.N; i++ {
		reader.Reset(data)
		dec.Reset(reader, DefaultBufferSize)
		tok.Reset(&dec)
		for {
			if _, err := tok.Next(); err != nil {
				break
			}
		}
	}
}

func mustReadSample(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read %s: %v", path, err)
	}
	return data
}
