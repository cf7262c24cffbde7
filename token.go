package mdhtml

import "strconv"

const (
	headerMarker = '#'
	quoteMarker  = '>'
	taskMarker   = '-'
	escapeMarker = '\\'

	maxHeaderLevel = 6
)

// Kind is the kind of a structural construct.
type Kind uint8

const (
	KindNone Kind = iota
	KindHeader
	KindBlockQuote
	KindTaskList
)

// NumConstructs is the number of distinct constructs that carry a style
// fragment: six header levels, the block quote and both task list states.
const NumConstructs = maxHeaderLevel + 3

const (
	indexBlockQuote = maxHeaderLevel
	indexTaskDone   = maxHeaderLevel + 1
	indexTaskTodo   = maxHeaderLevel + 2
)

// Construct is a recognized structural markup element.
type Construct struct {
	Kind  Kind
	Level uint8 // header level 1-6
	Done  bool  // task list state
}

// None is the zero construct, used when no tag is open.
var None = Construct{}

// Header returns the header construct of the given level.
func Header(level int) Construct { return Construct{Kind: KindHeader, Level: uint8(level)} }

// BlockQuote returns the block quote construct.
func BlockQuote() Construct { return Construct{Kind: KindBlockQuote} }

// TaskListItem returns the task list item construct.
func TaskListItem(done bool) Construct { return Construct{Kind: KindTaskList, Done: done} }

// Index returns the dense index of the construct in [0, NumConstructs), or -1
// for None.
func (c Construct) Index() int {
	switch c.Kind {
	case KindHeader:
		if c.Level < 1 || c.Level > maxHeaderLevel {
			return -1
		}
		return int(c.Level) - 1
	case KindBlockQuote:
		return indexBlockQuote
	case KindTaskList:
		if c.Done {
			return indexTaskDone
		}
		return indexTaskTodo
	default:
		return -1
	}
}

// ConstructAt is the inverse of Construct.Index.
func ConstructAt(idx int) Construct {
	switch {
	case idx >= 0 && idx < maxHeaderLevel:
		return Header(idx + 1)
	case idx == indexBlockQuote:
		return BlockQuote()
	case idx == indexTaskDone:
		return TaskListItem(true)
	case idx == indexTaskTodo:
		return TaskListItem(false)
	default:
		return None
	}
}

// Len is the number of source bytes (and units) the construct's marker takes,
// including its trailing space.
func (c Construct) Len() int {
	switch c.Kind {
	case KindHeader:
		return int(c.Level) + 1
	case KindBlockQuote:
		return 2
	case KindTaskList:
		return 6
	default:
		return 0
	}
}

var constructSources = [NumConstructs]string{
	"# ", "## ", "### ", "#### ", "##### ", "###### ",
	"> ",
	"- [x] ",
	"- [ ] ",
}

// Source returns the marker text that produces the construct.
func (c Construct) Source() string {
	idx := c.Index()
	if idx < 0 {
		return ""
	}
	return constructSources[idx]
}

func (c Construct) String() string {
	switch c.Kind {
	case KindHeader:
		return "Header(" + strconv.Itoa(int(c.Level)) + ")"
	case KindBlockQuote:
		return "BlockQuote"
	case KindTaskList:
		return "TaskListItem(" + strconv.FormatBool(c.Done) + ")"
	default:
		return "None"
	}
}

// TokenKind classifies a Token.
type TokenKind uint8

const (
	TokenSpace TokenKind = iota
	TokenTab
	TokenNewline
	TokenTag
	TokenText
)

func (k TokenKind) String() string {
	switch k {
	case TokenSpace:
		return "Space"
	case TokenTab:
		return "Tab"
	case TokenNewline:
		return "Newline"
	case TokenTag:
		return "Tag"
	case TokenText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Token is one tokenizer output. Text tokens own their bytes in a small
// inline buffer, so a Token stays valid after the next call to Tokenizer.Next.
type Token struct {
	Kind      TokenKind
	Construct Construct
	// Units is the number of scalar units in a Text token.
	Units int

	n    uint8
	text [replayCap]byte
}

func spaceToken() Token   { return Token{Kind: TokenSpace} }
func tabToken() Token     { return Token{Kind: TokenTab} }
func newlineToken() Token { return Token{Kind: TokenNewline} }

func tagToken(c Construct) Token {
	return Token{Kind: TokenTag, Construct: c}
}

func unitToken(u Unit) Token {
	t := Token{Kind: TokenText, Units: 1}
	t.n = uint8(copy(t.text[:], u.b[:u.n]))
	return t
}

// TextToken builds a Text token from s, counting one unit per rune. s must fit
// the inline buffer; longer input is truncated.
func TextToken(s string) Token {
	t := Token{Kind: TokenText}
	t.n = uint8(copy(t.text[:], s))
	for i := 0; i < int(t.n); {
		i += unitLen(t.text[i])
		t.Units++
	}
	return t
}

// Bytes returns the bytes of a Text token.
func (t Token) Bytes() []byte { return t.text[:t.n] }

// ColumnWidth is the number of columns the token advances the position
// record. Newline is 0 and resets the column.
func (t Token) ColumnWidth() int {
	switch t.Kind {
	case TokenSpace, TokenTab:
		return 1
	case TokenTag:
		return t.Construct.Len()
	case TokenText:
		return t.Units
	default:
		return 0
	}
}

func (t Token) String() string {
	switch t.Kind {
	case TokenTag:
		return "Tag(" + t.Construct.String() + ")"
	case TokenText:
		return "Text(" + strconv.Quote(string(t.text[:t.n])) + ")"
	default:
		return t.Kind.String()
	}
}
