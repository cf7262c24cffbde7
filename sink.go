package mdhtml

import (
	"bufio"
	"io"
)

const (
	spaceSubstitute     = "&nbsp;"
	tabSubstitute       = spaceSubstitute + spaceSubstitute + spaceSubstitute + spaceSubstitute
	lineBreakSubstitute = "<br>"
)

// Sink accepts the output bytes of a render.
type Sink interface {
	Write(p []byte) (int, error)
	WriteString(s string) (int, error)
	WriteNewline() error
	WriteSpace() error
	WriteTab() error
	WriteLineBreak() error
	Flush() error
}

// HTMLSink is a buffered Sink with HTML substitutes for whitespace.
type HTMLSink struct {
	w       *bufio.Writer
	written int64
}

// NewHTMLSink returns a sink writing to w.
func NewHTMLSink(w io.Writer) *HTMLSink {
	return &HTMLSink{w: bufio.NewWriter(w)}
}

// Reset discards buffered output and switches the sink to w.
func (s *HTMLSink) Reset(w io.Writer) {
	s.w.Reset(w)
	s.written = 0
}

// Written returns the number of bytes accepted since the last Reset.
func (s *HTMLSink) Written() int64 { return s.written }

func (s *HTMLSink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.written += int64(n)
	return n, err
}

func (s *HTMLSink) WriteString(str string) (int, error) {
	n, err := s.w.WriteString(str)
	s.written += int64(n)
	return n, err
}

func (s *HTMLSink) WriteNewline() error {
	if err := s.w.WriteByte('\n'); err != nil {
		return err
	}
	s.written++
	return nil
}

// WriteSpace writes one non-breaking space entity.
func (s *HTMLSink) WriteSpace() error {
	_, err := s.WriteString(spaceSubstitute)
	return err
}

// WriteTab writes four space substitutes.
func (s *HTMLSink) WriteTab() error {
	_, err := s.WriteString(tabSubstitute)
	return err
}

// WriteLineBreak writes a <br> element.
func (s *HTMLSink) WriteLineBreak() error {
	_, err := s.WriteString(lineBreakSubstitute)
	return err
}

func (s *HTMLSink) Flush() error {
	return s.w.Flush()
}
