package mdhtml

import (
	"bytes"
	"testing"
)

func TestValidateInputRejectsInvalidUTF8(t *testing.T) {
	data := []byte{0xff, 0xfe, 0xfd}
	if err := ValidateInput(data); err != ErrInvalidUTF8 {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestValidateInputRejectsBinary(t *testing.T) {
	data := append([]byte("hello"), 0x00)
	if err := ValidateInput(data); err != ErrBinaryInput {
		t.Fatalf("expected ErrBinaryInput, got %v", err)
	}
	noisy := bytes.Repeat([]byte{'a', 'b', 'c', 0x01}, 32)
	if err := ValidateInput(noisy); err != ErrBinaryInput {
		t.Fatalf("expected ErrBinaryInput for control-heavy input, got %v", err)
	}
}

func TestValidateInputAcceptsText(t *testing.T) {
	if err := ValidateInput([]byte("# 日本語\r\n\t> ok\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateUnit(t *testing.T) {
	tests := []struct {
		name string
		b    []byte
		want error
	}{
		{name: "ascii", b: []byte("a"), want: nil},
		{name: "two-byte", b: []byte("é"), want: nil},
		{name: "four-byte", b: []byte("\U0001F600"), want: nil},
		{name: "nul", b: []byte{0}, want: ErrBinaryInput},
		{name: "stray-continuation", b: []byte{0x80}, want: ErrInvalidUTF8},
		{name: "bad-continuation", b: []byte{0xe6, 0x41, 0x41}, want: ErrInvalidUTF8},
		{name: "surrogate", b: []byte{0xed, 0xa0, 0x80}, want: ErrInvalidUTF8},
	}
	for _, tc := range tests {
		var u Unit
		u.n = uint8(copy(u.b[:], tc.b))
		if err := validateUnit(u); err != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}
