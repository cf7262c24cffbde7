package mdhtml

import (
	"errors"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// ValidateInput returns an error if the input is not valid UTF-8 or appears binary.
func ValidateInput(src []byte) error {
	if !utf8.Valid(src) {
		return ErrInvalidUTF8
	}
	var total, control int
	for _, b := range src {
		total++
		if b == 0x00 {
			return ErrBinaryInput
		}
		if isControlByte(b) {
			control++
		}
	}
	if total >= minBinarySample && control*100 >= total*maxControlPct {
		return ErrBinaryInput
	}
	return nil
}

// validateUnit checks a decoded unit in strict mode. The decoder only infers
// lengths from leading bytes; this also checks the continuation bytes.
func validateUnit(u Unit) error {
	b := u.Bytes()
	if len(b) == 1 {
		if b[0] == 0x00 {
			return ErrBinaryInput
		}
		if b[0] >= utf8.RuneSelf {
			return ErrInvalidUTF8
		}
		return nil
	}
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 || size != len(b) {
		return ErrInvalidUTF8
	}
	return nil
}

func isControlByte(b byte) bool {
	if b < 0x09 {
		return true
	}
	if b > 0x0D && b < 0x20 {
		return true
	}
	if b == 0x7F {
		return true
	}
	return false
}
