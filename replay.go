package mdhtml

// replayCap bounds the longest speculative match: six header markers plus a
// 4-byte deciding unit.
const replayCap = maxHeaderLevel + 4

// replayBuffer collects the bytes consumed while testing a structural
// pattern. If the pattern fails, abort hands all of them back as one Text
// token so no input byte is lost.
type replayBuffer struct {
	buf   [replayCap]byte
	n     int
	units int
}

func (r *replayBuffer) push(u Unit) {
	// Every pattern stops before exceeding replayCap.
	r.n += copy(r.buf[r.n:], u.b[:u.n])
	r.units++
}

func (r *replayBuffer) pushByte(b byte) {
	r.push(byteUnit(b))
}

func (r *replayBuffer) empty() bool { return r.n == 0 }

// abort returns the buffered bytes as a Text token and clears the buffer.
func (r *replayBuffer) abort() Token {
	t := Token{Kind: TokenText, Units: r.units}
	t.n = uint8(copy(t.text[:], r.buf[:r.n]))
	r.reset()
	return t
}

func (r *replayBuffer) reset() {
	r.n = 0
	r.units = 0
}
