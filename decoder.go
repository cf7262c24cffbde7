package mdhtml

import (
	"errors"
	"io"
)

var errInvalidRead = errors.New("decoder: reader returned invalid count")

// DefaultBufferSize is the read chunk size used when no WithBufferSize option is given.
const DefaultBufferSize = 8 * 1024

const maxConsecutiveEmptyReads = 100

// Unit is one decoded scalar unit: 1 to 4 raw bytes whose count is fixed by
// the leading byte.
type Unit struct {
	n uint8
	b [4]byte
}

func byteUnit(b byte) Unit {
	return Unit{n: 1, b: [4]byte{b}}
}

// Len returns the number of raw bytes in the unit.
func (u Unit) Len() int { return int(u.n) }

// Bytes returns the raw bytes of the unit.
func (u Unit) Bytes() []byte { return u.b[:u.n] }

// Is reports whether the unit is the single byte b.
func (u Unit) Is(b byte) bool { return u.n == 1 && u.b[0] == b }

func (u Unit) String() string { return string(u.b[:u.n]) }

// unitLen infers the unit length from the leading byte. Continuation bytes
// are not inspected.
func unitLen(lead byte) int {
	switch {
	case lead < 0b1100_0000:
		return 1
	case lead < 0b1110_0000:
		return 2
	case lead < 0b1111_0000:
		return 3
	default:
		return 4
	}
}

// carry holds the head of a unit that straddled a refill. head+tail <= 4.
type carry struct {
	head    [3]byte
	headLen uint8
	tailLen uint8
}

func (c *carry) empty() bool { return c.headLen == 0 }

func (c *carry) clear() {
	c.headLen = 0
	c.tailLen = 0
}

// Decoder pulls bytes from a reader in bounded chunks and yields scalar units.
// The read buffer never leaves the decoder.
type Decoder struct {
	r      io.Reader
	buf    []byte
	cursor int
	filled int
	reload bool
	eof    bool
	err    error
	// readErr is a read error deferred until the bytes read with it are used.
	readErr error
	carry   carry
	strict  bool

	bytesRead int64
	units     int64
}

// NewDecoder returns a decoder reading r in chunks of at most size bytes.
// A size below 1 selects DefaultBufferSize.
func NewDecoder(r io.Reader, size int) *Decoder {
	d := &Decoder{}
	d.Reset(r, size)
	return d
}

// Reset prepares the decoder for a new document, reusing the buffer when it
// already has the requested capacity.
func (d *Decoder) Reset(r io.Reader, size int) {
	if size < 1 {
		size = DefaultBufferSize
	}
	if cap(d.buf) != size {
		d.buf = make([]byte, size)
	}
	d.buf = d.buf[:size]
	d.r = r
	d.cursor = 0
	d.filled = 0
	d.reload = true
	d.eof = false
	d.err = nil
	d.readErr = nil
	d.carry.clear()
	d.strict = false
	d.bytesRead = 0
	d.units = 0
}

// BytesRead returns the number of raw bytes read from the source so far.
func (d *Decoder) BytesRead() int64 { return d.bytesRead }

// Units returns the number of units decoded so far.
func (d *Decoder) Units() int64 { return d.units }

// Next returns the next unit. It returns io.EOF once the source is exhausted
// and keeps returning it; ErrTruncatedUnit if the source ends inside a unit.
func (d *Decoder) Next() (Unit, error) {
	if d.err != nil {
		return Unit{}, d.err
	}
	for {
		if d.reload {
			if err := d.fill(); err != nil {
				d.err = err
				return Unit{}, err
			}
			if d.filled == 0 {
				if !d.carry.empty() {
					d.err = ErrTruncatedUnit
					return Unit{}, d.err
				}
				d.err = io.EOF
				return Unit{}, io.EOF
			}
			if !d.carry.empty() {
				u, ok := d.completeCarry()
				if !ok {
					continue
				}
				return d.emit(u)
			}
		}

		need := unitLen(d.buf[d.cursor])
		avail := d.filled - d.cursor
		if need > avail {
			// Only the head of the unit is in this chunk.
			d.carry.headLen = uint8(copy(d.carry.head[:], d.buf[d.cursor:d.filled]))
			d.carry.tailLen = uint8(need - avail)
			d.cursor = d.filled
			d.reload = true
			continue
		}
		// cursor+need <= filled, checked above.
		var u Unit
		u.n = uint8(copy(u.b[:need], d.buf[d.cursor:d.cursor+need]))
		d.cursor += need
		if d.cursor == d.filled {
			d.reload = true
		}
		return d.emit(u)
	}
}

// completeCarry finishes a pending unit from the start of the freshly filled
// buffer. When the chunk is shorter than the missing tail it absorbs what is
// there and asks for another refill.
func (d *Decoder) completeCarry() (Unit, bool) {
	tail := int(d.carry.tailLen)
	if tail > d.filled {
		n := copy(d.carry.head[d.carry.headLen:], d.buf[:d.filled])
		d.carry.headLen += uint8(n)
		d.carry.tailLen -= uint8(n)
		d.cursor = d.filled
		d.reload = true
		return Unit{}, false
	}
	var u Unit
	head := int(d.carry.headLen)
	copy(u.b[:head], d.carry.head[:head])
	copy(u.b[head:head+tail], d.buf[:tail])
	u.n = uint8(head + tail)
	d.cursor = tail
	d.carry.clear()
	if d.cursor == d.filled {
		d.reload = true
	}
	return u, true
}

func (d *Decoder) emit(u Unit) (Unit, error) {
	if d.strict {
		if err := validateUnit(u); err != nil {
			d.err = err
			return Unit{}, err
		}
	}
	d.units++
	return u, nil
}

// fill performs one bounded read into the start of the buffer. A read that
// reports io.EOF makes end of stream permanent. Any other error that arrives
// together with data is held back until that data has been consumed.
func (d *Decoder) fill() error {
	d.cursor = 0
	d.filled = 0
	d.reload = false
	if d.eof {
		return nil
	}
	if d.readErr != nil {
		return d.readErr
	}
	// A (0, nil) read is not end of stream: io.Reader allows it and
	// bufio.Reader retries it. Only io.EOF ends the stream; a reader that
	// keeps returning nothing fails with io.ErrNoProgress.
	for i := 0; i < maxConsecutiveEmptyReads; i++ {
		n, err := d.r.Read(d.buf)
		if n < 0 || n > len(d.buf) {
			return errInvalidRead
		}
		d.filled = n
		d.bytesRead += int64(n)
		if err == io.EOF {
			d.eof = true
			return nil
		}
		if err != nil {
			if n > 0 {
				d.readErr = err
				return nil
			}
			return err
		}
		if n > 0 {
			return nil
		}
	}
	return io.ErrNoProgress
}
