package brotli

// bitReader extracts variable-width bit fields from a caller-owned input
// buffer. Bits are assembled least-significant-bit first per byte, as the
// format requires. The reader never holds more than 7 bits of private state
// across Decompress calls; whole unconsumed bytes are handed back to the
// caller by release.
type bitReader struct {
	in  []byte // input region of the current call
	pos int    // index of the next byte to load
	acc uint64 // bit accumulator; the next bit to consume is at bit 0
	cnt uint   // number of valid bits in acc
}

// bitReaderMark captures the cursor so a multi-step read can be rolled back
// when it cannot complete within the available input.
type bitReaderMark struct {
	pos int
	acc uint64
	cnt uint
}

// setInput connects the reader to the input region of the current call.
func (r *bitReader) setInput(p []byte) {
	r.in = p
	r.pos = 0
}

// release detaches the reader from the input region. Whole bytes still
// buffered in the accumulator are pushed back so that at most 7 bits remain
// private. It returns the number of input bytes consumed.
func (r *bitReader) release() int {
	for r.cnt >= 8 {
		r.cnt -= 8
		r.acc &= 1<<r.cnt - 1
		r.pos--
	}
	n := r.pos
	r.in = nil
	r.pos = 0
	return n
}

func (r *bitReader) mark() bitReaderMark {
	return bitReaderMark{pos: r.pos, acc: r.acc, cnt: r.cnt}
}

func (r *bitReader) reset(m bitReaderMark) {
	r.pos = m.pos
	r.acc = m.acc
	r.cnt = m.cnt
}

// fill loads input bytes into the accumulator while there is room for a
// whole byte.
func (r *bitReader) fill() {
	for r.cnt <= 56 && r.pos < len(r.in) {
		r.acc |= uint64(r.in[r.pos]) << r.cnt
		r.pos++
		r.cnt += 8
	}
}

// peek returns the next n bits without consuming them. It reports false
// without side effect if fewer than n bits are available. n must be at most
// 32; n == 0 is a no-op returning 0.
func (r *bitReader) peek(n uint) (bits uint32, ok bool) {
	if r.cnt < n {
		r.fill()
		if r.cnt < n {
			return 0, false
		}
	}
	return uint32(r.acc & (1<<n - 1)), true
}

// peekAvail returns all currently available bits, zero padded at the top,
// together with their count.
func (r *bitReader) peekAvail() (bits uint64, n uint) {
	r.fill()
	return r.acc, r.cnt
}

// drop consumes n bits. The caller must have established their availability
// with peek or peekAvail.
func (r *bitReader) drop(n uint) {
	r.acc >>= n
	r.cnt -= n
}

// take consumes and returns the next n bits, n <= 32. It reports false
// without side effect if fewer than n bits are available.
func (r *bitReader) take(n uint) (bits uint32, ok bool) {
	bits, ok = r.peek(n)
	if ok {
		r.drop(n)
	}
	return bits, ok
}

// alignByte discards the bits up to the next byte boundary and reports
// whether all of them were zero. The format requires zero padding at every
// alignment point.
func (r *bitReader) alignByte() (zero bool) {
	n := r.cnt & 7
	zero = r.acc&(1<<n-1) == 0
	r.drop(n)
	return zero
}

// copyBytes copies up to len(p) input bytes into p. The reader must be byte
// aligned. Bytes buffered in the accumulator are drained first.
func (r *bitReader) copyBytes(p []byte) int {
	n := 0
	for r.cnt >= 8 && n < len(p) {
		p[n] = byte(r.acc)
		r.drop(8)
		n++
	}
	if n < len(p) {
		k := copy(p[n:], r.in[r.pos:])
		r.pos += k
		n += k
	}
	return n
}
