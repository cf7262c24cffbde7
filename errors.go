package mdhtml

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedUnit reports input that ends in the middle of a multi-byte unit.
	ErrTruncatedUnit = errors.New("truncated multi-byte unit at end of input")
	// ErrUnexpectedTag reports a structural tag in a state where the tokenizer
	// never produces one.
	ErrUnexpectedTag = errors.New("unexpected structural tag")
)

// ErrorKind classifies a ParseError.
type ErrorKind uint8

const (
	// ErrorIO covers failed reads and writes and undecodable input.
	ErrorIO ErrorKind = iota
	// ErrorConstruct covers malformed markup. Unrecognized constructs are
	// replayed as text, so this only signals a broken tokenizer contract.
	ErrorConstruct
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorIO:
		return "io"
	case ErrorConstruct:
		return "construct"
	default:
		return "unknown"
	}
}

// ParseError is the error returned by Parser.Run. Line and Column locate the
// token being handled when the failure occurred.
type ParseError struct {
	Kind   ErrorKind
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s error at line %d column %d: %v", e.Kind, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsConstructError reports whether err is a ParseError of kind ErrorConstruct.
func IsConstructError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == ErrorConstruct
}
