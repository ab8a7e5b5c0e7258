package brotli

// Test-side stream construction. The package has no encoder, so the tests
// assemble streams bit by bit: uncompressed meta-blocks for bulk data and
// simple prefix codes for the compressed paths.

type bitWriter struct {
	buf []byte
	acc uint64
	cnt uint
}

func (w *bitWriter) writeBits(v uint64, n uint) {
	w.acc |= v << w.cnt
	w.cnt += n
	for w.cnt >= 8 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc >>= 8
		w.cnt -= 8
	}
}

// align pads the current byte with zero bits.
func (w *bitWriter) align() {
	if w.cnt > 0 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc = 0
		w.cnt = 0
	}
}

func (w *bitWriter) writeBytes(p []byte) {
	w.buf = append(w.buf, p...)
}

// uncompressedStream wraps data into uncompressed meta-blocks followed by
// an empty last meta-block.
func uncompressedStream(data []byte) []byte {
	w := &bitWriter{}
	w.writeBits(0, 1) // 16-bit window
	for len(data) > 0 {
		n := len(data)
		if n > 1<<16 {
			n = 1 << 16
		}
		w.writeBits(0, 1)              // not last
		w.writeBits(0, 2)              // 4 length nibbles
		w.writeBits(uint64(n-1), 16)   // MLEN
		w.writeBits(1, 1)              // uncompressed
		w.align()
		w.writeBytes(data[:n])
		data = data[n:]
	}
	w.writeBits(1, 1) // last
	w.writeBits(1, 1) // empty
	w.align()
	return w.buf
}

// emptyStream is the shortest valid stream: an empty last meta-block.
func emptyStream() []byte {
	w := &bitWriter{}
	w.writeBits(0, 1)
	w.writeBits(1, 1)
	w.writeBits(1, 1)
	w.align()
	return w.buf
}

// writeSimpleTree emits a simple prefix code over the given symbols, each
// written with symBits bits. Four symbols get the flat 2-bit assignment.
func writeSimpleTree(w *bitWriter, symBits uint, syms ...uint64) {
	w.writeBits(1, 2) // simple code
	w.writeBits(uint64(len(syms)-1), 2)
	for _, s := range syms {
		w.writeBits(s, symBits)
	}
	if len(syms) == 4 {
		w.writeBits(0, 1)
	}
}

// beginCompressedBlock writes the stream header and the header of a single
// compressed meta-block with one block type per category, NPOSTFIX and
// NDIRECT zero, the LSB6 context mode and trivial context maps. The callers
// append the three tree descriptions and the command stream.
func beginCompressedBlock(w *bitWriter, mlen int, last bool) {
	w.writeBits(0, 1) // 16-bit window
	if last {
		w.writeBits(1, 1)
		w.writeBits(0, 1) // not empty
	} else {
		w.writeBits(0, 1)
	}
	w.writeBits(0, 2) // 4 length nibbles
	w.writeBits(uint64(mlen-1), 16)
	if !last {
		w.writeBits(0, 1) // compressed
	}
	w.writeBits(0, 1) // one literal block type
	w.writeBits(0, 1) // one command block type
	w.writeBits(0, 1) // one distance block type
	w.writeBits(0, 2) // NPOSTFIX
	w.writeBits(0, 4) // NDIRECT
	w.writeBits(0, 2) // context mode LSB6
	w.writeBits(0, 1) // one literal tree
	w.writeBits(0, 1) // one distance tree
}

// abcStream encodes "abcabcabc": three literals and a copy of six bytes at
// distance three.
func abcStream() []byte {
	w := &bitWriter{}
	beginCompressedBlock(w, 9, true)
	writeSimpleTree(w, 8, 'a', 'b', 'c', 'd') // literals, 2 bits each
	writeSimpleTree(w, 10, 156)               // insert 3, copy 6
	writeSimpleTree(w, 6, 17)                 // distance 3 after one extra bit
	w.writeBits(0, 2)                         // 'a'
	w.writeBits(2, 2)                         // 'b'
	w.writeBits(1, 2)                         // 'c'
	w.writeBits(0, 1)                         // distance extra bit
	w.align()
	return w.buf
}

// overlapStream encodes "abababababa": two literals and an overlapping copy
// of nine bytes at distance two.
func overlapStream() []byte {
	w := &bitWriter{}
	beginCompressedBlock(w, 11, true)
	writeSimpleTree(w, 8, 'a', 'b', 'c', 'd')
	writeSimpleTree(w, 10, 151) // insert 2, copy 9
	writeSimpleTree(w, 6, 16)   // distance 1 or 2 via one extra bit
	w.writeBits(0, 2)           // 'a'
	w.writeBits(2, 2)           // 'b'
	w.writeBits(1, 1)           // extra bit: distance 2
	w.align()
	return w.buf
}

// lastDistanceStream encodes "abababab" with two commands; the second
// reuses the previous distance implicitly.
func lastDistanceStream() []byte {
	w := &bitWriter{}
	beginCompressedBlock(w, 8, true)
	writeSimpleTree(w, 8, 'a', 'b', 'c', 'd')
	writeSimpleTree(w, 10, 2, 144) // implicit insert 0/copy 4; insert 2/copy 2
	writeSimpleTree(w, 6, 16)
	w.writeBits(1, 1) // command 144: insert 2, copy 2
	w.writeBits(0, 2) // 'a'
	w.writeBits(2, 2) // 'b'
	w.writeBits(1, 1) // distance extra bit: distance 2
	w.writeBits(0, 1) // command 2: insert 0, copy 4, last distance
	w.align()
	return w.buf
}

// customDictStream encodes "xyzabc" against the custom dictionary "abc":
// three literals and a copy of three bytes at distance six.
func customDictStream() []byte {
	w := &bitWriter{}
	beginCompressedBlock(w, 6, true)
	writeSimpleTree(w, 8, 'x', 'y', 'z', 'w')
	writeSimpleTree(w, 10, 153) // insert 3, copy 3
	writeSimpleTree(w, 6, 18)   // distance 5..8 via two extra bits
	w.writeBits(2, 2)           // 'x': the sorted flat code is w,x,y,z
	w.writeBits(1, 2)           // 'y'
	w.writeBits(3, 2)           // 'z'
	w.writeBits(1, 2)           // distance extra bits: distance 6
	w.align()
	return w.buf
}

// staticDictStream encodes two literals and a length-4 word reference; the
// distance symbol with its extra bits selects the word address (index plus
// transform) beyond the two bytes of history.
func staticDictStream(mlen int, distSym, extra uint64, extraBits uint) []byte {
	w := &bitWriter{}
	beginCompressedBlock(w, mlen, true)
	writeSimpleTree(w, 8, 'a', 'b', 'c', 'd')
	writeSimpleTree(w, 10, 146) // insert 2, copy 4
	writeSimpleTree(w, 6, distSym)
	w.writeBits(0, 2) // 'a'
	w.writeBits(2, 2) // 'b'
	w.writeBits(extra, extraBits)
	w.align()
	return w.buf
}

// shortCodeStream encodes "abcabcabccabc": an explicit distance of three,
// then a second command whose distance comes from a short code adding one to
// the last distance.
func shortCodeStream() []byte {
	w := &bitWriter{}
	beginCompressedBlock(w, 13, true)
	writeSimpleTree(w, 8, 'a', 'b', 'c', 'd')
	writeSimpleTree(w, 10, 130, 156) // insert 0/copy 4; insert 3/copy 6
	writeSimpleTree(w, 6, 5, 17)     // short code "last+1"; distance 3 or 4
	w.writeBits(1, 1)                // command 156
	w.writeBits(0, 2)                // 'a'
	w.writeBits(2, 2)                // 'b'
	w.writeBits(1, 2)                // 'c'
	w.writeBits(1, 1)                // distance symbol 17
	w.writeBits(0, 1)                // extra bit: distance 3
	w.writeBits(0, 1)                // command 130
	w.writeBits(0, 1)                // short code 5: distance 3+1
	w.align()
	return w.buf
}

// postfixStream encodes "abcabcabcbc" with NPOSTFIX 1 and NDIRECT 2: the
// first distance takes the postfix formula path, the second a direct code.
func postfixStream() []byte {
	w := &bitWriter{}
	w.writeBits(0, 1) // 16-bit window
	w.writeBits(1, 1) // last
	w.writeBits(0, 1) // not empty
	w.writeBits(0, 2)
	w.writeBits(10, 16) // MLEN 11
	w.writeBits(0, 1)   // one literal block type
	w.writeBits(0, 1)   // one command block type
	w.writeBits(0, 1)   // one distance block type
	w.writeBits(1, 2)   // NPOSTFIX 1
	w.writeBits(1, 4)   // NDIRECT 1<<1 = 2
	w.writeBits(0, 2)   // context mode LSB6
	w.writeBits(0, 1)   // one literal tree
	w.writeBits(0, 1)   // one distance tree
	writeSimpleTree(w, 8, 'a', 'b', 'c', 'd')
	writeSimpleTree(w, 10, 128, 156) // insert 0/copy 2; insert 3/copy 6
	writeSimpleTree(w, 7, 17, 18)    // direct distance 2; formula distances
	w.writeBits(1, 1)                // command 156
	w.writeBits(0, 2)                // 'a'
	w.writeBits(2, 2)                // 'b'
	w.writeBits(1, 2)                // 'c'
	w.writeBits(1, 1)                // distance symbol 18
	w.writeBits(0, 1)                // extra bit: distance 2+(0<<1)+0+1 = 3
	w.writeBits(0, 1)                // command 128
	w.writeBits(0, 1)                // direct symbol 17: distance 2
	w.align()
	return w.buf
}

// longInsertStream encodes n copies of 'a' with a single command whose
// literal code needs no bits, so output production outruns any window.
func longInsertStream(n int) []byte {
	w := &bitWriter{}
	w.writeBits(0, 1) // 16-bit window
	w.writeBits(1, 1) // last
	w.writeBits(0, 1) // not empty
	w.writeBits(1, 2) // 5 length nibbles
	w.writeBits(uint64(n-1), 20)
	w.writeBits(0, 1) // one literal block type
	w.writeBits(0, 1) // one command block type
	w.writeBits(0, 1) // one distance block type
	w.writeBits(0, 2) // NPOSTFIX
	w.writeBits(0, 4) // NDIRECT
	w.writeBits(0, 2) // context mode LSB6
	w.writeBits(0, 1) // one literal tree
	w.writeBits(0, 1) // one distance tree
	writeSimpleTree(w, 8, 'a')
	writeSimpleTree(w, 10, 504) // insert 22594+extra, copy 2
	writeSimpleTree(w, 6, 16)
	w.writeBits(uint64(n-22594), 24) // insert length extra bits
	w.align()
	return w.buf
}

// blockSwitchStream encodes "aabb" with two literal block types whose trees
// hold the single symbols 'a' and 'b'.
func blockSwitchStream() []byte {
	w := &bitWriter{}
	w.writeBits(0, 1) // 16-bit window
	w.writeBits(1, 1) // last
	w.writeBits(0, 1) // not empty
	w.writeBits(0, 2)
	w.writeBits(3, 16) // MLEN 4
	// two literal block types
	w.writeBits(1, 1)
	w.writeBits(0, 3)
	writeSimpleTree(w, 2, 0) // block type code: always "second to last"
	writeSimpleTree(w, 5, 0) // block count code: 1..4 via two extra bits
	w.writeBits(1, 2)        // first block length 2
	w.writeBits(0, 1)        // one command block type
	w.writeBits(0, 1)        // one distance block type
	w.writeBits(0, 2)        // NPOSTFIX
	w.writeBits(0, 4)        // NDIRECT
	w.writeBits(0, 2)        // context modes
	w.writeBits(0, 2)
	// literal context map: two trees, type 0 -> tree 0, type 1 -> tree 1
	w.writeBits(1, 1)
	w.writeBits(0, 3)
	w.writeBits(0, 1)        // no run length codes
	writeSimpleTree(w, 1, 0, 1)
	for i := 0; i < 64; i++ {
		w.writeBits(0, 1)
	}
	for i := 0; i < 64; i++ {
		w.writeBits(1, 1)
	}
	w.writeBits(0, 1) // no inverse MTF
	w.writeBits(0, 1) // one distance tree
	writeSimpleTree(w, 8, 'a')
	writeSimpleTree(w, 8, 'b')
	writeSimpleTree(w, 10, 160) // insert 4, copy 2
	writeSimpleTree(w, 6, 16)
	// single command: 4 literals, block switch after the first two
	w.writeBits(1, 2) // block switch length 2
	w.align()
	return w.buf
}

// metadataStream wraps "hi" between a skipped metadata block and the empty
// last block.
func metadataStream() []byte {
	w := &bitWriter{}
	w.writeBits(0, 1) // 16-bit window
	w.writeBits(0, 1) // not last
	w.writeBits(3, 2) // metadata
	w.writeBits(0, 1) // reserved
	w.writeBits(1, 2) // one length byte
	w.writeBits(2, 8) // skip 2+1 bytes of metadata
	w.align()
	w.writeBytes([]byte{0xde, 0xad, 0xbe})
	w.writeBits(0, 1) // not last
	w.writeBits(0, 2)
	w.writeBits(1, 16) // MLEN 2
	w.writeBits(1, 1)  // uncompressed
	w.align()
	w.writeBytes([]byte("hi"))
	w.writeBits(1, 1)
	w.writeBits(1, 1)
	w.align()
	return w.buf
}

// testDictionary returns a two-word static dictionary with an identity and
// a prefixed uppercase transform.
func testDictionary() *Dictionary {
	d := &Dictionary{Data: []byte("wordtion")}
	d.SizeBits[4] = 1
	d.Transforms = []Transform{
		{Op: TransformIdentity},
		{Prefix: " ", Op: TransformUppercaseFirst},
	}
	return d
}
