package mdhtml

import (
	"bytes"
	"io"
)

const (
	maxFrontMatterHeldBytes = 64 * 1024
	frontMatterReadSize     = 512
)

// frontMatterReader drops a front-matter block at the very start of a
// stream. It holds back input only until it can tell whether the stream
// opens with front matter; everything after that is passed through.
type frontMatterReader struct {
	r       io.Reader
	decided bool
	pending []byte
	srcErr  error
	held    []byte
	heldArr [4096]byte
}

func (f *frontMatterReader) reset(r io.Reader) {
	f.r = r
	f.decided = false
	f.pending = nil
	f.srcErr = nil
	f.held = f.heldArr[:0]
}

func (f *frontMatterReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	empty := 0
	for !f.decided {
		grew, err := f.fillHeld()
		if err != nil {
			return 0, err
		}
		if grew {
			empty = 0
			continue
		}
		empty++
		if empty >= maxConsecutiveEmptyReads {
			return 0, io.ErrNoProgress
		}
	}
	if len(f.pending) > 0 {
		n := copy(p, f.pending)
		f.pending = f.pending[n:]
		return n, nil
	}
	if f.srcErr != nil {
		return 0, f.srcErr
	}
	return f.r.Read(p)
}

// fillHeld reads one more chunk into the held prefix and tries to decide. It
// reports whether any progress was made.
func (f *frontMatterReader) fillHeld() (bool, error) {
	if f.r == nil {
		return false, errInvalidRead
	}
	if f.srcErr != nil {
		if f.srcErr == io.EOF {
			f.decide(true)
		} else {
			f.passthrough()
		}
		return true, nil
	}
	var chunk [frontMatterReadSize]byte
	n, err := f.r.Read(chunk[:])
	f.held = append(f.held, chunk[:n]...)
	if err != nil {
		f.srcErr = err
		return true, nil
	}
	if n == 0 {
		return false, nil
	}
	f.decide(false)
	if !f.decided && len(f.held) > maxFrontMatterHeldBytes {
		f.passthrough()
	}
	return true, nil
}

func (f *frontMatterReader) passthrough() {
	f.pending = f.held
	f.decided = true
}

func (f *frontMatterReader) skipTo(off int) {
	f.pending = f.held[off:]
	f.decided = true
}

func (f *frontMatterReader) decide(eof bool) {
	openLine, openNext, ok := nextLine(f.held, 0, eof)
	if !ok {
		return
	}
	delim, isFrontMatter := parseOpeningFrontMatterDelimiter(openLine)
	if !isFrontMatter {
		f.passthrough()
		return
	}
	secondLine, secondNext, ok := nextLine(f.held, openNext, eof)
	if !ok {
		return
	}
	if !frontMatterMetadataLikely(secondLine) {
		f.passthrough()
		return
	}
	closeNext, found := findClosingFrontMatterDelimiter(f.held, secondNext, delim, eof)
	if !found {
		if eof {
			f.passthrough()
		}
		return
	}
	f.skipTo(closeNext)
}

func nextLine(src []byte, start int, eof bool) ([]byte, int, bool) {
	if start > len(src) {
		return nil, 0, false
	}
	if start == len(src) {
		if eof {
			return src[start:], start, true
		}
		return nil, 0, false
	}
	i := bytes.IndexByte(src[start:], '\n')
	if i < 0 {
		if !eof {
			return nil, 0, false
		}
		return trimCR(src[start:]), len(src), true
	}
	lineEnd := start + i
	return trimCR(src[start:lineEnd]), lineEnd + 1, true
}

func parseOpeningFrontMatterDelimiter(line []byte) ([]byte, bool) {
	trimmed := bytes.TrimSpace(trimBOM(line))
	switch {
	case bytes.Equal(trimmed, []byte("---")):
		return []byte("---"), true
	case bytes.Equal(trimmed, []byte("+++")):
		return []byte("+++"), true
	case bytes.Equal(trimmed, []byte(";;;")):
		return []byte(";;;"), true
	default:
		return nil, false
	}
}

func frontMatterMetadataLikely(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	if bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("[")) {
		return true
	}
	return bytes.ContainsAny(trimmed, ":=")
}

func findClosingFrontMatterDelimiter(src []byte, start int, delim []byte, eof bool) (int, bool) {
	for idx := start; idx <= len(src); {
		line, next, ok := nextLine(src, idx, eof)
		if !ok {
			return 0, false
		}
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			return next, true
		}
		if next == idx {
			return 0, false
		}
		idx = next
	}
	return 0, false
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
