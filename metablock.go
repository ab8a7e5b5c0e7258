package brotli

import "math/bits"

// Meta-block header machinery: reading prefix codes, context maps and block
// switch codes. Every reader here is resumable. A read method returns
// done == false with a nil error when the input ran dry; internal progress
// is kept in the reader and the bit reader is left exactly at the first
// unconsumed item, so the call can be repeated once more input arrives.

// readVarLenUint8 decodes the variable length encoding of values 0..255
// used for block type counts and context map tree counts. On short input it
// consumes nothing.
func readVarLenUint8(br *bitReader) (v uint32, ok bool) {
	m := br.mark()
	b, ok := br.take(1)
	if !ok {
		return 0, false
	}
	if b == 0 {
		return 0, true
	}
	n, ok := br.take(3)
	if !ok {
		br.reset(m)
		return 0, false
	}
	if n == 0 {
		return 1, true
	}
	b, ok = br.take(uint(n))
	if !ok {
		br.reset(m)
		return 0, false
	}
	return 1<<n + b, true
}

// readCodeLengthSymbol decodes one symbol of the fixed code over the code
// lengths 0..5.
func readCodeLengthSymbol(br *bitReader) (v uint32, ok bool) {
	bits, n := br.peekAvail()
	idx := bits & 15
	l := uint(codeLengthCodeLengths[idx])
	if n < l {
		return 0, false
	}
	br.drop(l)
	return uint32(codeLengthCodeValues[idx]), true
}

// huffReader reads one prefix code description from the stream and builds
// its decode table.
type huffReader struct {
	stage        int
	alphabetSize uint32
	maxBits      uint // width of a raw symbol in a simple code

	// simple code
	nsym    int
	symRead int
	symbols [4]uint16

	// complex code: first the code-length code, then the symbol lengths
	clIndex   int
	clSpace   int
	clCodes   int
	clLengths [codeLengthCodes]uint8
	clTable   huffTable

	symbol    uint32
	space     int
	prevLen   uint8
	repeat    uint32
	repeatLen uint8
	lengths   []uint8
}

const (
	hrHeader = iota
	hrSimpleSymbols
	hrSimpleSelect
	hrCodeLengths
	hrSymbolLengths
)

func (h *huffReader) init(alphabetSize uint32) {
	*h = huffReader{
		alphabetSize: alphabetSize,
		maxBits:      uint(bits.Len32(alphabetSize - 1)),
		clSpace:      32,
		space:        1 << maxCodeLength,
		prevLen:      8,
		lengths:      h.lengths,
	}
	if uint32(cap(h.lengths)) < alphabetSize {
		h.lengths = make([]uint8, alphabetSize)
	} else {
		h.lengths = h.lengths[:alphabetSize]
		for i := range h.lengths {
			h.lengths[i] = 0
		}
	}
}

// read advances the reader. When it returns done it has built the decode
// table in t.
func (h *huffReader) read(br *bitReader, t *huffTable) (done bool, err error) {
	if h.stage == hrHeader {
		hskip, ok := br.take(2)
		if !ok {
			return false, nil
		}
		if hskip == 1 {
			h.stage = hrSimpleSymbols
			h.nsym = -1
		} else {
			h.stage = hrCodeLengths
			h.clIndex = int(hskip)
		}
	}

	switch h.stage {
	case hrSimpleSymbols, hrSimpleSelect:
		return h.readSimple(br, t)
	}

	if h.stage == hrCodeLengths {
		for h.clIndex < codeLengthCodes && h.clSpace > 0 {
			m := br.mark()
			v, ok := readCodeLengthSymbol(br)
			if !ok {
				br.reset(m)
				return false, nil
			}
			h.clLengths[codeLengthOrder[h.clIndex]] = uint8(v)
			h.clIndex++
			if v != 0 {
				h.clSpace -= 32 >> v
				h.clCodes++
			}
		}
		if h.clCodes != 1 && h.clSpace != 0 {
			return false, FormatError("corrupt code length code")
		}
		if err := h.clTable.build(h.clLengths[:]); err != nil {
			return false, err
		}
		h.stage = hrSymbolLengths
	}

	for h.symbol < h.alphabetSize && h.space > 0 {
		m := br.mark()
		v, ok := h.clTable.decodeSymbol(br)
		if !ok {
			return false, nil
		}
		if v < repeatPrevious {
			h.repeat = 0
			h.lengths[h.symbol] = uint8(v)
			h.symbol++
			if v != 0 {
				h.prevLen = uint8(v)
				h.space -= 1 << maxCodeLength >> v
			}
			continue
		}
		extra := uint(v) - 14
		b, ok := br.take(extra)
		if !ok {
			br.reset(m)
			return false, nil
		}
		var newLen uint8
		if v == repeatPrevious {
			newLen = h.prevLen
		}
		if h.repeatLen != newLen {
			h.repeat = 0
			h.repeatLen = newLen
		}
		old := h.repeat
		if h.repeat > 0 {
			h.repeat -= 2
			h.repeat <<= extra
		}
		h.repeat += b + 3
		delta := h.repeat - old
		if h.symbol+delta > h.alphabetSize {
			return false, FormatError("repeat code overflows alphabet")
		}
		for i := uint32(0); i < delta; i++ {
			h.lengths[h.symbol] = h.repeatLen
			h.symbol++
		}
		if h.repeatLen != 0 {
			h.space -= int(delta) << (maxCodeLength - h.repeatLen)
		}
	}
	if h.space != 0 {
		return false, FormatError("corrupt symbol length table")
	}
	for i := h.symbol; i < h.alphabetSize; i++ {
		h.lengths[i] = 0
	}
	return true, t.build(h.lengths)
}

func (h *huffReader) readSimple(br *bitReader, t *huffTable) (done bool, err error) {
	if h.nsym < 0 {
		n, ok := br.take(2)
		if !ok {
			return false, nil
		}
		h.nsym = int(n) + 1
	}
	for h.symRead < h.nsym {
		s, ok := br.take(h.maxBits)
		if !ok {
			return false, nil
		}
		h.symbols[h.symRead] = uint16(s)
		h.symRead++
	}
	treeSelect := false
	if h.nsym == 4 {
		if h.stage != hrSimpleSelect {
			h.stage = hrSimpleSelect
		}
		b, ok := br.take(1)
		if !ok {
			return false, nil
		}
		treeSelect = b == 1
	}
	return true, t.buildSimple(h.symbols[:h.nsym], h.alphabetSize, treeSelect)
}

// contextMapReader reads one context map: the number of trees, an optional
// zero run-length extension, the map symbols and the optional inverse
// move-to-front pass.
type contextMapReader struct {
	stage     int
	numTrees  uint32
	runPrefix uint32
	hr        huffReader
	table     huffTable
	index     int
	cmap      []uint8
}

const (
	cmTreeCount = iota
	cmRunPrefix
	cmCode
	cmSymbols
	cmTransform
)

func (c *contextMapReader) init(cmap []uint8) {
	hr := c.hr
	*c = contextMapReader{cmap: cmap, hr: hr}
}

func (c *contextMapReader) read(br *bitReader) (numTrees uint32, done bool, err error) {
	switch c.stage {
	case cmTreeCount:
		v, ok := readVarLenUint8(br)
		if !ok {
			return 0, false, nil
		}
		c.numTrees = v + 1
		if c.numTrees == 1 {
			for i := range c.cmap {
				c.cmap[i] = 0
			}
			return 1, true, nil
		}
		c.stage = cmRunPrefix
		fallthrough

	case cmRunPrefix:
		m := br.mark()
		b, ok := br.take(1)
		if !ok {
			return 0, false, nil
		}
		if b == 1 {
			v, ok := br.take(4)
			if !ok {
				br.reset(m)
				return 0, false, nil
			}
			c.runPrefix = v + 1
		}
		c.hr.init(c.numTrees + c.runPrefix)
		c.stage = cmCode
		fallthrough

	case cmCode:
		done, err := c.hr.read(br, &c.table)
		if err != nil || !done {
			return 0, false, err
		}
		c.stage = cmSymbols
		fallthrough

	case cmSymbols:
		for c.index < len(c.cmap) {
			m := br.mark()
			sym, ok := c.table.decodeSymbol(br)
			if !ok {
				return 0, false, nil
			}
			switch {
			case sym == 0:
				c.cmap[c.index] = 0
				c.index++
			case sym <= c.runPrefix:
				b, ok := br.take(uint(sym))
				if !ok {
					br.reset(m)
					return 0, false, nil
				}
				reps := int(1<<sym + b)
				if c.index+reps > len(c.cmap) {
					return 0, false, FormatError("context map zero run too long")
				}
				for i := 0; i < reps; i++ {
					c.cmap[c.index] = 0
					c.index++
				}
			default:
				c.cmap[c.index] = uint8(sym - c.runPrefix)
				c.index++
			}
		}
		c.stage = cmTransform
		fallthrough

	default:
		b, ok := br.take(1)
		if !ok {
			return 0, false, nil
		}
		if b == 1 {
			inverseMoveToFront(c.cmap)
		}
		return c.numTrees, true, nil
	}
}

// inverseMoveToFront rewrites v in place, undoing the move-to-front
// transform applied by the encoder.
func inverseMoveToFront(v []uint8) {
	var mtf [256]uint8
	for i := range mtf {
		mtf[i] = uint8(i)
	}
	for i, idx := range v {
		value := mtf[idx]
		copy(mtf[1:int(idx)+1], mtf[:idx])
		mtf[0] = value
		v[i] = value
	}
}

// blockDecoder tracks the block type and remaining block length of one of
// the three symbol categories within a meta-block.
type blockDecoder struct {
	numTypes   uint32
	typeTable  huffTable
	countTable huffTable
	typeRB     [2]uint32
	remaining  uint32
}

func (b *blockDecoder) init(numTypes uint32) {
	b.numTypes = numTypes
	b.typeRB = [2]uint32{1, 0}
	b.remaining = 1 << 28 // single block type: never switches
}

// readCount decodes a block count symbol with its extra bits. On short
// input the bit reader is restored to the symbol start.
func (b *blockDecoder) readCount(br *bitReader) (n uint32, ok bool) {
	m := br.mark()
	sym, ok := b.countTable.decodeSymbol(br)
	if !ok {
		return 0, false
	}
	r := blockCountRanges[sym]
	extra, ok := br.take(uint(r.nbits))
	if !ok {
		br.reset(m)
		return 0, false
	}
	return r.offset + extra, true
}

// switchType decodes one block switch command: the new block type and the
// new block count. The read is atomic.
func (b *blockDecoder) switchType(br *bitReader) (ok bool) {
	m := br.mark()
	sym, ok := b.typeTable.decodeSymbol(br)
	if !ok {
		return false
	}
	n, ok := b.readCount(br)
	if !ok {
		br.reset(m)
		return false
	}
	var t uint32
	switch sym {
	case 0:
		t = b.typeRB[0]
	case 1:
		t = b.typeRB[1] + 1
		if t >= b.numTypes {
			t -= b.numTypes
		}
	default:
		t = sym - 2
	}
	b.typeRB[0] = b.typeRB[1]
	b.typeRB[1] = t
	b.remaining = n
	return true
}

// blockType returns the current block type.
func (b *blockDecoder) blockType() uint32 { return b.typeRB[1] }
