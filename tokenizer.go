package mdhtml

import (
	"io"
)

type lineState uint8

const (
	lineStart lineState = iota
	lineAfterNewline
	lineTab
	lineOther
)

// taskPattern is the sequence expected after a leading '-'. The '?' slot is
// either ' ' (open) or 'x' (done).
var taskPattern = [...]byte{' ', '[', '?', ']', ' '}

// Tokenizer turns decoded units into tokens. Structural tags are only tried
// at the start of a line; a failed attempt is replayed as text.
type Tokenizer struct {
	dec *Decoder

	// one-unit lookahead
	peeked  Unit
	hasPeek bool

	state    lineState
	tabDepth int
	cache    replayBuffer
	tokens   int64
}

// NewTokenizer returns a tokenizer pulling units from dec.
func NewTokenizer(dec *Decoder) *Tokenizer {
	t := &Tokenizer{}
	t.Reset(dec)
	return t
}

// Reset prepares the tokenizer for a new document.
func (t *Tokenizer) Reset(dec *Decoder) {
	t.dec = dec
	t.hasPeek = false
	t.state = lineStart
	t.tabDepth = 0
	t.cache.reset()
	t.tokens = 0
}

// Tokens returns the number of tokens produced so far.
func (t *Tokenizer) Tokens() int64 { return t.tokens }

func (t *Tokenizer) next() (Unit, error) {
	if t.hasPeek {
		t.hasPeek = false
		return t.peeked, nil
	}
	return t.dec.Next()
}

func (t *Tokenizer) peek() (Unit, error) {
	if !t.hasPeek {
		u, err := t.dec.Next()
		if err != nil {
			return Unit{}, err
		}
		t.peeked = u
		t.hasPeek = true
	}
	return t.peeked, nil
}

// Next returns the next token, io.EOF at the end of input, or the decoder's
// error unchanged.
func (t *Tokenizer) Next() (Token, error) {
	tok, err := t.scan()
	if err == nil {
		t.tokens++
	}
	return tok, err
}

func (t *Tokenizer) scan() (Token, error) {
	u, err := t.next()
	if err != nil {
		return Token{}, err
	}
	if u.Len() > 1 {
		t.state = lineOther
		return unitToken(u), nil
	}
	switch b := u.b[0]; b {
	case escapeMarker:
		esc, err := t.next()
		if err != nil {
			// A trailing escape marker is dropped.
			return Token{}, err
		}
		t.state = lineOther
		return unitToken(esc), nil
	case ' ':
		t.state = lineOther
		return spaceToken(), nil
	case '\t':
		if t.state == lineTab {
			t.tabDepth++
		} else {
			t.tabDepth = 1
		}
		t.state = lineTab
		return tabToken(), nil
	case '\n':
		t.state = lineAfterNewline
		return newlineToken(), nil
	case '\r':
		nu, err := t.peek()
		switch {
		case err == io.EOF:
		case err != nil:
			return Token{}, err
		case nu.Is('\n'):
			t.hasPeek = false
		}
		t.state = lineAfterNewline
		return newlineToken(), nil
	default:
		last := t.state
		t.state = lineOther
		if last != lineStart && last != lineAfterNewline {
			return unitToken(u), nil
		}
		switch b {
		case headerMarker:
			return t.scanHeader()
		case quoteMarker:
			return t.scanBlockQuote()
		case taskMarker:
			return t.scanTaskList()
		default:
			return unitToken(u), nil
		}
	}
}

// fail ends a speculative match on u. The mismatching unit joins the replay,
// line terminators included, so the next line starts as ordinary text.
func (t *Tokenizer) fail(u Unit) Token {
	t.cache.push(u)
	return t.cache.abort()
}

// eof ends a speculative match at the end of input, replaying what was
// buffered.
func (t *Tokenizer) eof(err error) (Token, error) {
	if err != io.EOF {
		t.cache.reset()
		return Token{}, err
	}
	return t.cache.abort(), nil
}

func (t *Tokenizer) scanHeader() (Token, error) {
	t.cache.pushByte(headerMarker)
	level := 1
	for {
		u, err := t.next()
		if err != nil {
			return t.eof(err)
		}
		switch {
		case u.Is(headerMarker):
			t.cache.push(u)
			level++
			if level > maxHeaderLevel {
				return t.cache.abort(), nil
			}
		case u.Is(' '):
			t.cache.reset()
			return tagToken(Header(level)), nil
		default:
			return t.fail(u), nil
		}
	}
}

func (t *Tokenizer) scanBlockQuote() (Token, error) {
	u, err := t.next()
	if err == io.EOF {
		return unitToken(byteUnit(quoteMarker)), nil
	}
	if err != nil {
		return Token{}, err
	}
	if u.Is(' ') {
		return tagToken(BlockQuote()), nil
	}
	t.cache.pushByte(quoteMarker)
	return t.fail(u), nil
}

func (t *Tokenizer) scanTaskList() (Token, error) {
	t.cache.pushByte(taskMarker)
	done := false
	for _, want := range taskPattern {
		u, err := t.next()
		if err != nil {
			return t.eof(err)
		}
		if want == '?' {
			switch {
			case u.Is('x'):
				done = true
			case !u.Is(' '):
				return t.fail(u), nil
			}
		} else if !u.Is(want) {
			return t.fail(u), nil
		}
		t.cache.push(u)
	}
	t.cache.reset()
	return tagToken(TaskListItem(done)), nil
}
