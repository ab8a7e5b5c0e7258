package brotli

import (
	"bytes"
	"testing"
)

func TestReadVarLenUint8(t *testing.T) {
	w := &bitWriter{}
	w.writeBits(0, 1) // 0
	w.writeBits(1, 1) // 1
	w.writeBits(0, 3)
	w.writeBits(1, 1) // 5 = 1<<2 + 1
	w.writeBits(2, 3)
	w.writeBits(1, 2)
	w.writeBits(1, 1) // 255 = 1<<7 + 127
	w.writeBits(7, 3)
	w.writeBits(127, 7)
	w.align()

	var br bitReader
	br.setInput(w.buf)
	for _, want := range []uint32{0, 1, 5, 255} {
		v, ok := readVarLenUint8(&br)
		if !ok || v != want {
			t.Fatalf("readVarLenUint8 = %d, %t; want %d, true", v, ok, want)
		}
	}
}

func TestReadVarLenUint8Suspends(t *testing.T) {
	w := &bitWriter{}
	w.writeBits(1, 1)
	w.writeBits(7, 3) // needs 7 more bits that are not there
	w.align()
	var br bitReader
	br.setInput(w.buf)
	if _, ok := readVarLenUint8(&br); ok {
		t.Fatal("readVarLenUint8 succeeded on short input")
	}
	if n := br.release(); n != 0 {
		t.Fatalf("suspension consumed %d bytes, want 0", n)
	}
}

func TestInverseMoveToFront(t *testing.T) {
	v := []uint8{1, 1, 0, 2}
	inverseMoveToFront(v)
	want := []uint8{1, 0, 0, 2}
	if !bytes.Equal(v, want) {
		t.Fatalf("inverse MTF %v, want %v", v, want)
	}
}

// writeFlatCode emits a complex prefix code description assigning length 3
// to all eight symbols, using a repeat code for the middle run.
func writeFlatCode(w *bitWriter) {
	w.writeBits(0, 2) // no skipped code length codes
	// code length code: lengths 1 for the values 3 and 16, transmitted in
	// the scrambled order with the fixed code (0 -> "00", 1 -> "1110")
	w.writeBits(0, 2)
	w.writeBits(0, 2)
	w.writeBits(7, 4) // order position 2: value 3
	for i := 0; i < 5; i++ {
		w.writeBits(0, 2)
	}
	w.writeBits(7, 4) // order position 8: value 16
	// symbol lengths: 3, repeat five more, then two explicit
	w.writeBits(0, 1)
	w.writeBits(1, 1) // repeat code
	w.writeBits(2, 2) // run of 5
	w.writeBits(0, 1)
	w.writeBits(0, 1)
}

func TestHuffReaderComplexCode(t *testing.T) {
	w := &bitWriter{}
	writeFlatCode(w)
	// two symbols under the flat 3-bit code
	w.writeBits(5, 3) // symbol 5
	w.writeBits(4, 3) // symbol 1
	w.align()

	var br bitReader
	br.setInput(w.buf)
	var hr huffReader
	var tab huffTable
	hr.init(8)
	done, err := hr.read(&br, &tab)
	if err != nil {
		t.Fatalf("read error %s", err)
	}
	if !done {
		t.Fatal("read did not complete on full input")
	}
	s, ok := tab.decodeSymbol(&br)
	if !ok || s != 5 {
		t.Fatalf("decoded %d, %t; want 5, true", s, ok)
	}
	s, ok = tab.decodeSymbol(&br)
	if !ok || s != 1 {
		t.Fatalf("decoded %d, %t; want 1, true", s, ok)
	}
}

// TestHuffReaderResumes feeds the code description one byte at a time.
func TestHuffReaderResumes(t *testing.T) {
	w := &bitWriter{}
	writeFlatCode(w)
	w.align()

	var br bitReader
	var hr huffReader
	var tab huffTable
	hr.init(8)
	var pending []byte
	for pos := 0; ; {
		br.setInput(pending)
		done, err := hr.read(&br, &tab)
		if err != nil {
			t.Fatalf("read error %s", err)
		}
		c := br.release()
		pending = append([]byte{}, pending[c:]...)
		if done {
			break
		}
		if pos >= len(w.buf) {
			t.Fatal("reader wants input beyond the description end")
		}
		pending = append(pending, w.buf[pos])
		pos++
	}
	if len(tab.entries) == 0 {
		t.Fatal("no table built")
	}
	for sym, wantLen := range []uint8{3, 3, 3, 3, 3, 3, 3, 3} {
		v, bits, ok := tab.peekSymbol(uint64(reverseBits(uint32(sym), 3)), 3)
		if !ok || bits != 3 || v != uint32(sym) {
			t.Fatalf("symbol %d: got %d in %d bits, want length %d",
				sym, v, bits, wantLen)
		}
	}
}
