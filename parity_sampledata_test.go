package mdhtml

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestRenderSampledataParity renders every testdata/*.md with each schema
// that has a golden and checks the output at several buffer and chunk sizes.
// Goldens are written by cmd/gen-golden.
func TestRenderSampledataParity(t *testing.T) {
	root := "testdata"
	paths, err := filepath.Glob(filepath.Join(root, "*.md"))
	if err != nil {
		t.Fatalf("glob testdata: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no markdown files found under %s", root)
	}
	for _, path := range paths {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			t.Parallel()
			src, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read %s: %v", path, err)
			}
			checked := 0
			for _, name := range AvailableSchemas() {
				goldenPath := strings.TrimSuffix(path, ".md") + "." + name + ".html"
				want, err := os.ReadFile(goldenPath)
				if os.IsNotExist(err) {
					continue
				}
				if err != nil {
					t.Fatalf("read golden %s: %v", goldenPath, err)
				}
				checked++
				schema, _ := SchemaByName(name)
				for _, size := range testBufferSizes {
					for _, chunk := range []int{1, 3, 1 << 20} {
						var out bytes.Buffer
						err := Render(RenderRequest{
							Reader:  NewChunkReader(bytes.NewReader(src), chunk, 0),
							Writer:  &out,
							Schema:  schema,
							Options: []RenderOption{WithBufferSize(size)},
						})
						if err != nil {
							t.Fatalf("%s buffer %d chunk %d: %v", name, size, chunk, err)
						}
						if diff := cmp.Diff(string(want), out.String()); diff != "" {
							t.Fatalf("%s buffer %d chunk %d: output mismatch (-want +got):\n%s", name, size, chunk, diff)
						}
					}
				}
			}
			if checked == 0 {
				t.Fatalf("no goldens for %s", path)
			}
		})
	}
}
