package brotli

// Canonical prefix code tables. The format limits code lengths to 15 bits
// for symbol codes and 5 bits for the code-length code. Tables use a
// two-level layout: a root table indexed by the first rootBits bits of a
// code, with link entries pointing at secondary tables for longer codes.

const (
	maxCodeLength   = 15 // longest symbol prefix code
	maxCodeLenCode  = 5  // longest code in the code-length code
	rootBits        = 8
	codeLengthCodes = 18 // alphabet of the code-length code
)

// hEntry is a single decode table entry. For direct entries bits is the code
// length and sym the decoded symbol. A root entry with bits > rootBits is a
// link: sym indexes the secondary table and bits-rootBits is its width.
type hEntry struct {
	sym  uint16
	bits uint8
}

// huffTable is an immutable-once-built decode table for one prefix code.
type huffTable struct {
	entries []hEntry
}

// reverseBits mirrors the low n bits of x. Codes are transmitted starting
// with the most significant code bit while the reader assembles input
// least-significant first, so table indices are bit-reversed codes.
func reverseBits(x uint32, n uint) uint32 {
	var r uint32
	for i := uint(0); i < n; i++ {
		r = r<<1 | x&1
		x >>= 1
	}
	return r
}

// build constructs the canonical decode table for the given per-symbol code
// lengths (zero marks an unused symbol). Codes are assigned by length, then
// by symbol order. A distribution that is not a complete prefix code is
// rejected, with the single-symbol code as the format's one exception: it is
// decoded without consuming bits.
func (t *huffTable) build(lengths []uint8) error {
	var histo [maxCodeLength + 1]int
	total := 0
	single := -1
	for sym, n := range lengths {
		if n == 0 {
			continue
		}
		if int(n) > maxCodeLength {
			return newFormatError("code length %d exceeds %d", n, maxCodeLength)
		}
		histo[n]++
		total++
		single = sym
	}
	if total == 0 {
		return FormatError("empty code length table")
	}
	if total == 1 {
		t.entries = make([]hEntry, 1<<rootBits)
		for i := range t.entries {
			t.entries[i] = hEntry{sym: uint16(single)}
		}
		return nil
	}

	// Kraft check: the lengths must fill the code space exactly.
	space := 0
	for n := 1; n <= maxCodeLength; n++ {
		space += histo[n] << (maxCodeLength - n)
	}
	if space > 1<<maxCodeLength {
		return FormatError("over-subscribed code length table")
	}
	if space < 1<<maxCodeLength {
		return FormatError("incomplete code length table")
	}

	// First canonical code per length.
	var nextCode [maxCodeLength + 1]uint32
	code := uint32(0)
	for n := 1; n <= maxCodeLength; n++ {
		code = (code + uint32(histo[n-1])) << 1
		nextCode[n] = code
	}

	// Secondary table layout: per root index the width is determined by the
	// longest code sharing that root prefix.
	var subBits [1 << rootBits]uint8
	for _, n := range lengths {
		if uint(n) <= rootBits {
			continue
		}
		c := nextCode[n]
		nextCode[n]++
		root := reverseBits(c>>(uint(n)-rootBits), rootBits)
		if uint8(n)-rootBits > subBits[root] {
			subBits[root] = uint8(n) - rootBits
		}
	}
	size := 1 << rootBits
	for _, b := range subBits {
		if b > 0 {
			size += 1 << b
		}
	}
	entries := make([]hEntry, size)

	// Place link entries and remember each secondary table's offset.
	var subOffset [1 << rootBits]int
	off := 1 << rootBits
	for i, b := range subBits {
		if b == 0 {
			continue
		}
		subOffset[i] = off
		entries[i] = hEntry{sym: uint16(off), bits: rootBits + b}
		off += 1 << b
	}

	// Second pass assigns codes again and fills the tables.
	code = 0
	for n := 1; n <= maxCodeLength; n++ {
		code = (code + uint32(histo[n-1])) << 1
		nextCode[n] = code
	}
	for sym, n := range lengths {
		if n == 0 {
			continue
		}
		c := nextCode[n]
		nextCode[n]++
		if uint(n) <= rootBits {
			r := reverseBits(c, uint(n))
			for i := r; i < 1<<rootBits; i += 1 << uint(n) {
				entries[i] = hEntry{sym: uint16(sym), bits: n}
			}
			continue
		}
		root := reverseBits(c>>(uint(n)-rootBits), rootBits)
		sub := entries[subOffset[root]:]
		w := uint(subBits[root])
		r := reverseBits(c&(1<<(uint(n)-rootBits)-1), uint(n)-rootBits)
		for i := r; i < 1<<w; i += 1 << (uint(n) - rootBits) {
			sub[i] = hEntry{sym: uint16(sym), bits: n}
		}
	}
	t.entries = entries
	return nil
}

// peekSymbol decodes the next symbol from the peeked bits v (n of which are
// valid) without consuming anything. It reports the symbol and the number of
// bits its code occupies, or ok == false when n bits do not suffice.
func (t *huffTable) peekSymbol(v uint64, n uint) (sym uint32, bits uint, ok bool) {
	e := t.entries[v&(1<<rootBits-1)]
	if uint(e.bits) <= rootBits {
		if uint(e.bits) > n {
			return 0, 0, false
		}
		return uint32(e.sym), uint(e.bits), true
	}
	if n <= rootBits {
		return 0, 0, false
	}
	w := uint(e.bits) - rootBits
	e = t.entries[uint32(e.sym)+uint32(v>>rootBits)&(1<<w-1)]
	if uint(e.bits) > n {
		return 0, 0, false
	}
	return uint32(e.sym), uint(e.bits), true
}

// decodeSymbol reads one symbol via the bit reader. It reports ok == false
// without consuming any bits when the available input does not cover a full
// code; the walk restarts from the same unconsumed bits on the next call.
func (t *huffTable) decodeSymbol(br *bitReader) (sym uint32, ok bool) {
	v, n := br.peekAvail()
	sym, bits, ok := t.peekSymbol(v, n)
	if !ok {
		return 0, false
	}
	br.drop(bits)
	return sym, true
}

// buildSimple constructs the table for the format's simple code histogram:
// 1 to 4 symbols with implied lengths. For two or more symbols the assignment
// follows the format's sorting rules. The symbols slice is reordered in
// place.
func (t *huffTable) buildSimple(symbols []uint16, alphabetSize uint32, treeSelect bool) error {
	for _, s := range symbols {
		if uint32(s) >= alphabetSize {
			return newFormatError("simple code symbol %d outside alphabet of %d", s, alphabetSize)
		}
	}
	for i := 0; i < len(symbols); i++ {
		for j := i + 1; j < len(symbols); j++ {
			if symbols[i] == symbols[j] {
				return FormatError("duplicate symbol in simple code")
			}
		}
	}
	lengths := make([]uint8, alphabetSize)
	switch len(symbols) {
	case 1:
		lengths[symbols[0]] = 1 // degenerate: decoded with zero bits
	case 2:
		if symbols[0] > symbols[1] {
			symbols[0], symbols[1] = symbols[1], symbols[0]
		}
		lengths[symbols[0]] = 1
		lengths[symbols[1]] = 1
	case 3:
		if symbols[1] > symbols[2] {
			symbols[1], symbols[2] = symbols[2], symbols[1]
		}
		lengths[symbols[0]] = 1
		lengths[symbols[1]] = 2
		lengths[symbols[2]] = 2
	case 4:
		if treeSelect {
			if symbols[2] > symbols[3] {
				symbols[2], symbols[3] = symbols[3], symbols[2]
			}
			lengths[symbols[0]] = 1
			lengths[symbols[1]] = 2
			lengths[symbols[2]] = 3
			lengths[symbols[3]] = 3
		} else {
			for i := 0; i < 4; i++ {
				for j := i + 1; j < 4; j++ {
					if symbols[i] > symbols[j] {
						symbols[i], symbols[j] = symbols[j], symbols[i]
					}
				}
			}
			for _, s := range symbols {
				lengths[s] = 2
			}
		}
	}
	return t.build(lengths)
}
