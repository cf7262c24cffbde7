package mdhtml

import (
	"io"
	"math/bits"
	"strings"
)

type parserState uint8

const (
	stateStart parserState = iota
	statePlainText
	stateAfterNewline
	stateInsideTag
	stateInsideValue
	stateBlockAfterNewline
)

func (s parserState) String() string {
	switch s {
	case stateStart:
		return "Start"
	case statePlainText:
		return "PlainTextRun"
	case stateAfterNewline:
		return "AfterNewline"
	case stateInsideTag:
		return "InsideTag"
	case stateInsideValue:
		return "InsideValue"
	case stateBlockAfterNewline:
		return "BlockValueAfterNewline"
	default:
		return "Unknown"
	}
}

// Position is the line (from 1) and column (from 0, in units) of the parser.
type Position struct {
	Line   int
	Column int
}

func (p *Position) advance(tok Token) {
	if tok.Kind == TokenNewline {
		p.Line++
		p.Column = 0
		return
	}
	p.Column += tok.ColumnWidth()
}

// ConstructSet is a set of construct indices. Iteration follows index order.
type ConstructSet uint16

// Add records c. None is ignored.
func (s *ConstructSet) Add(c Construct) {
	if idx := c.Index(); idx >= 0 {
		*s |= 1 << uint(idx)
	}
}

// Has reports whether the construct at idx was recorded.
func (s ConstructSet) Has(idx int) bool {
	return idx >= 0 && idx < NumConstructs && s&(1<<uint(idx)) != 0
}

// Empty reports whether no construct was recorded.
func (s ConstructSet) Empty() bool { return s == 0 }

// Constructs returns the recorded constructs in index order.
func (s ConstructSet) Constructs() []Construct {
	var out []Construct
	for idx := 0; idx < NumConstructs; idx++ {
		if s.Has(idx) {
			out = append(out, ConstructAt(idx))
		}
	}
	return out
}

// Len returns the number of recorded constructs.
func (s ConstructSet) Len() int { return bits.OnesCount16(uint16(s)) }

func (s ConstructSet) String() string {
	var b strings.Builder
	for i, c := range s.Constructs() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c.String())
	}
	return b.String()
}

// TokenSource yields tokens until io.EOF. *Tokenizer is the usual source.
type TokenSource interface {
	Next() (Token, error)
}

// Parser drives the tokenizer and turns tokens into renderer events.
type Parser struct {
	tok   TokenSource
	out   Renderer
	state parserState
	open  Construct
	pos   Position
	used  ConstructSet

	// cur holds the token being stepped. Text is passed to the renderer as
	// a slice of cur so tokens never escape to the heap.
	cur Token
}

// NewParser returns a parser reading tokens from tok and writing to out.
func NewParser(tok TokenSource, out Renderer) *Parser {
	p := &Parser{}
	p.Reset(tok, out)
	return p
}

// Reset prepares the parser for a new document with an empty used set.
func (p *Parser) Reset(tok TokenSource, out Renderer) {
	p.tok = tok
	p.out = out
	p.state = stateStart
	p.open = None
	p.pos = Position{Line: 1}
	p.used = 0
	p.cur = Token{}
}

// Position returns the current position record.
func (p *Parser) Position() Position { return p.pos }

// Used returns the constructs closed so far.
func (p *Parser) Used() ConstructSet { return p.used }

// Run parses the whole document. At the end of input it closes the open tag
// and asks the renderer for the style block of the used constructs. The first
// failure stops the parse and is returned as a *ParseError.
func (p *Parser) Run() error {
	for {
		tok, err := p.tok.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return p.fail(ErrorIO, err)
		}
		p.pos.advance(tok)
		p.cur = tok
		if err := p.step(tok); err != nil {
			return err
		}
	}
	if err := p.closeTag(); err != nil {
		return p.fail(ErrorIO, err)
	}
	if err := p.out.Styles(p.used); err != nil {
		return p.fail(ErrorIO, err)
	}
	return nil
}

func (p *Parser) fail(kind ErrorKind, err error) error {
	return &ParseError{Kind: kind, Line: p.pos.Line, Column: p.pos.Column, Err: err}
}

func (p *Parser) step(tok Token) error {
	var err error
	switch p.state {
	case stateStart, stateAfterNewline:
		err = p.lineStart(tok)
	case statePlainText:
		err = p.plainText(tok)
	case stateInsideTag, stateInsideValue:
		err = p.insideValue(tok)
	case stateBlockAfterNewline:
		err = p.blockAfterNewline(tok)
	}
	if err != nil {
		if err == ErrUnexpectedTag {
			return p.fail(ErrorConstruct, err)
		}
		return p.fail(ErrorIO, err)
	}
	return nil
}

func (p *Parser) text() []byte { return p.cur.text[:p.cur.n] }

// whitespace writes the substitute for a Space or Tab token.
func (p *Parser) whitespace(tok Token) error {
	if tok.Kind == TokenTab {
		return p.out.Tab()
	}
	return p.out.Space()
}

func (p *Parser) lineStart(tok Token) error {
	switch tok.Kind {
	case TokenSpace, TokenTab:
		p.state = statePlainText
		return p.whitespace(tok)
	case TokenNewline:
		p.state = stateAfterNewline
		return p.out.LineBreak()
	case TokenTag:
		return p.switchTag(tok.Construct)
	default:
		p.state = statePlainText
		return p.out.Text(p.text())
	}
}

func (p *Parser) plainText(tok Token) error {
	switch tok.Kind {
	case TokenSpace, TokenTab:
		return p.whitespace(tok)
	case TokenNewline:
		p.state = stateAfterNewline
		return p.out.LineBreak()
	case TokenTag:
		return ErrUnexpectedTag
	default:
		return p.out.Text(p.text())
	}
}

func (p *Parser) insideValue(tok Token) error {
	switch tok.Kind {
	case TokenSpace, TokenTab:
		p.state = stateInsideValue
		return p.whitespace(tok)
	case TokenNewline:
		if p.open.Kind == KindHeader {
			p.state = stateAfterNewline
			return p.closeTag()
		}
		p.state = stateBlockAfterNewline
		return p.out.LineBreak()
	case TokenTag:
		return ErrUnexpectedTag
	default:
		p.state = stateInsideValue
		return p.out.Text(p.text())
	}
}

func (p *Parser) blockAfterNewline(tok Token) error {
	switch tok.Kind {
	case TokenSpace, TokenTab:
		return p.whitespace(tok)
	case TokenNewline:
		// A blank line ends the block.
		p.state = stateAfterNewline
		return p.closeTag()
	case TokenTag:
		return p.switchTag(tok.Construct)
	default:
		p.state = stateInsideValue
		return p.out.Text(p.text())
	}
}

// switchTag closes the open tag, if any, and opens c. Tags never nest.
func (p *Parser) switchTag(c Construct) error {
	if err := p.closeTag(); err != nil {
		return err
	}
	if err := p.out.OpenTag(c); err != nil {
		return err
	}
	p.open = c
	p.state = stateInsideTag
	return nil
}

func (p *Parser) closeTag() error {
	if p.open == None {
		return nil
	}
	c := p.open
	p.open = None
	if err := p.out.CloseTag(c); err != nil {
		return err
	}
	p.used.Add(c)
	return nil
}
