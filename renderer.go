package mdhtml

import (
	"strings"
)

// Renderer receives the markup events of a parse.
type Renderer interface {
	OpenTag(c Construct) error
	CloseTag(c Construct) error
	Text(p []byte) error
	Space() error
	Tab() error
	LineBreak() error
	// Styles is called once at the end of a document with the constructs
	// that were closed during it.
	Styles(used ConstructSet) error
	Flush() error
}

// HTMLRenderer writes a schema's markup to a Sink.
type HTMLRenderer struct {
	sink   Sink
	markup Markup
	escape bool
	flush  bool
}

// NewHTMLRenderer returns a renderer writing schema markup to sink. A nil
// schema selects DefaultSchema.
func NewHTMLRenderer(sink Sink, s Schema) *HTMLRenderer {
	r := &HTMLRenderer{}
	r.Reset(sink, s)
	return r
}

// Reset switches the renderer to a new sink and schema.
func (r *HTMLRenderer) Reset(sink Sink, s Schema) {
	if s == nil {
		s = DefaultSchema()
	}
	r.sink = sink
	r.markup = s.Markup()
	r.escape = false
	r.flush = false
}

// SetEscapeHTML makes Text escape &, <, > and " in content bytes.
func (r *HTMLRenderer) SetEscapeHTML(enabled bool) { r.escape = enabled }

// SetLineFlush makes the renderer flush the sink at the end of every line.
func (r *HTMLRenderer) SetLineFlush(enabled bool) { r.flush = enabled }

func (r *HTMLRenderer) endLine() error {
	if err := r.sink.WriteNewline(); err != nil {
		return err
	}
	if r.flush {
		return r.sink.Flush()
	}
	return nil
}

func (r *HTMLRenderer) OpenTag(c Construct) error {
	if _, err := r.sink.WriteString(r.markup.Tags(c).Start); err != nil {
		return err
	}
	return r.sink.WriteNewline()
}

// CloseTag writes the end markup. Headers are line constructs and get a
// trailing newline; blocks do not.
func (r *HTMLRenderer) CloseTag(c Construct) error {
	if _, err := r.sink.WriteString(r.markup.Tags(c).End); err != nil {
		return err
	}
	if c.Kind == KindHeader {
		return r.endLine()
	}
	return nil
}

func (r *HTMLRenderer) Text(p []byte) error {
	if !r.escape {
		_, err := r.sink.Write(p)
		return err
	}
	start := 0
	for i, b := range p {
		var entity string
		switch b {
		case '&':
			entity = "&amp;"
		case '<':
			entity = "&lt;"
		case '>':
			entity = "&gt;"
		case '"':
			entity = "&quot;"
		default:
			continue
		}
		if _, err := r.sink.Write(p[start:i]); err != nil {
			return err
		}
		if _, err := r.sink.WriteString(entity); err != nil {
			return err
		}
		start = i + 1
	}
	_, err := r.sink.Write(p[start:])
	return err
}

func (r *HTMLRenderer) Space() error { return r.sink.WriteSpace() }

func (r *HTMLRenderer) Tab() error { return r.sink.WriteTab() }

func (r *HTMLRenderer) LineBreak() error {
	if err := r.sink.WriteLineBreak(); err != nil {
		return err
	}
	return r.endLine()
}

// Styles writes the style block holding the fragment of every used construct,
// in index order. Nothing is written when no used construct has a fragment.
func (r *HTMLRenderer) Styles(used ConstructSet) error {
	emit := false
	for idx := 0; idx < NumConstructs; idx++ {
		if used.Has(idx) && r.markup.Style(idx) != "" {
			emit = true
			break
		}
	}
	if !emit {
		return nil
	}
	if err := r.sink.WriteNewline(); err != nil {
		return err
	}
	if _, err := r.sink.WriteString(r.markup.StyleOpen); err != nil {
		return err
	}
	if err := r.sink.WriteNewline(); err != nil {
		return err
	}
	for idx := 0; idx < NumConstructs; idx++ {
		if !used.Has(idx) {
			continue
		}
		frag := r.markup.Style(idx)
		if frag == "" {
			continue
		}
		if _, err := r.sink.WriteString(frag); err != nil {
			return err
		}
		if err := r.sink.WriteNewline(); err != nil {
			return err
		}
	}
	_, err := r.sink.WriteString(r.markup.StyleClose)
	return err
}

func (r *HTMLRenderer) Flush() error { return r.sink.Flush() }

// TraceEvent is one event recorded by TraceRenderer.
type TraceEvent struct {
	Op   string
	Text string
}

// TraceRenderer is a Renderer that records the events passed to it. Adjacent
// Text events are merged.
type TraceRenderer struct {
	Events []TraceEvent
}

func (t *TraceRenderer) add(op, text string) error {
	t.Events = append(t.Events, TraceEvent{Op: op, Text: text})
	return nil
}

func (t *TraceRenderer) OpenTag(c Construct) error  { return t.add("open", c.String()) }
func (t *TraceRenderer) CloseTag(c Construct) error { return t.add("close", c.String()) }
func (t *TraceRenderer) Space() error               { return t.add("space", "") }
func (t *TraceRenderer) Tab() error                 { return t.add("tab", "") }
func (t *TraceRenderer) LineBreak() error           { return t.add("br", "") }
func (t *TraceRenderer) Flush() error               { return nil }

func (t *TraceRenderer) Text(p []byte) error {
	if n := len(t.Events); n > 0 && t.Events[n-1].Op == "text" {
		t.Events[n-1].Text += string(p)
		return nil
	}
	return t.add("text", string(p))
}

func (t *TraceRenderer) Styles(used ConstructSet) error {
	names := make([]string, 0, NumConstructs)
	for _, c := range used.Constructs() {
		names = append(names, c.String())
	}
	return t.add("styles", strings.Join(names, " "))
}

// String renders the events one per line.
func (t *TraceRenderer) String() string {
	var b strings.Builder
	for i, e := range t.Events {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Op)
		if e.Text != "" {
			b.WriteByte(' ')
			b.WriteString(e.Text)
		}
	}
	return b.String()
}
