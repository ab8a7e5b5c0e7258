package brotli

import (
	"github.com/ulikunitz/lz"
)

// window is the decoder's sliding history. It wraps an [lz.DecoderBuffer]
// whose buffer holds both the back-reference window and decoded bytes not
// yet handed to the caller. All writers report the number of bytes actually
// written; a short count means the buffer is full and output must be drained
// before decoding continues.
type window struct {
	buf lz.DecoderBuffer

	// dictSize is the number of custom dictionary bytes seeded into the
	// buffer. They count as history for back-references but are not part
	// of the output.
	dictSize int64
}

// init sets up the window for the given window size. A custom dictionary
// may be seeded; only its last windowSize bytes are kept and they are
// immediately marked as read.
func (w *window) init(windowSize int, dict []byte) error {
	err := w.buf.Init(lz.DecoderConfig{
		WindowSize: windowSize,
		BufferSize: 2 * windowSize,
	})
	if err != nil {
		return err
	}
	if len(dict) > windowSize {
		dict = dict[len(dict)-windowSize:]
	}
	if len(dict) > 0 {
		if _, err = w.buf.Write(dict); err != nil {
			return err
		}
		w.buf.R = len(w.buf.Data)
	}
	w.dictSize = int64(len(dict))
	return nil
}

// pos returns the number of stream bytes produced so far. Seeded dictionary
// bytes are not counted.
func (w *window) pos() int64 { return w.buf.Off - w.dictSize }

// history returns the number of bytes available for back-references.
func (w *window) history() int64 {
	n := w.buf.Off
	if n > int64(w.buf.WindowSize) {
		n = int64(w.buf.WindowSize)
	}
	return n
}

// pending returns the number of decoded bytes not yet read by the caller.
func (w *window) pending() int { return len(w.buf.Data) - w.buf.R }

// spare returns the number of bytes that can be written before the buffer
// is full, accounting for the space a shrink can reclaim without dropping
// unread output or window history.
func (w *window) spare() int {
	reclaim := len(w.buf.Data) - w.buf.WindowSize
	if reclaim < 0 {
		reclaim = 0
	}
	if reclaim > w.buf.R {
		reclaim = w.buf.R
	}
	return w.buf.BufferSize - len(w.buf.Data) + reclaim
}

// writeByte appends one literal byte. It reports false when the buffer is
// full.
func (w *window) writeByte(c byte) bool {
	return w.buf.WriteByte(c) == nil
}

// write appends as much of p as fits and returns the number of bytes
// written.
func (w *window) write(p []byte) int {
	n := 0
	for len(p) > 0 {
		k := w.spare()
		if k == 0 {
			break
		}
		if k > len(p) {
			k = len(p)
		}
		if _, err := w.buf.Write(p[:k]); err != nil {
			break
		}
		p = p[k:]
		n += k
	}
	return n
}

// copyMatch copies length bytes from distance bytes back, overlapping
// allowed. It copies in chunks so that copies longer than the free buffer
// space can resume after a drain; the return value is the number of bytes
// actually produced.
func (w *window) copyMatch(distance int64, length int) int {
	n := 0
	for length > 0 {
		k := w.spare()
		if k > length {
			k = length
		}
		if k > w.buf.WindowSize {
			k = w.buf.WindowSize
		}
		if k == 0 {
			break
		}
		if _, err := w.buf.WriteMatch(uint32(k), uint32(distance)); err != nil {
			break
		}
		length -= k
		n += k
	}
	return n
}

// byteAt returns the byte off positions before the write head, or zero when
// the buffer does not reach back that far.
func (w *window) byteAt(off int) byte { return w.buf.ByteAtEnd(off) }

// read drains decoded bytes into p.
func (w *window) read(p []byte) int {
	n, _ := w.buf.Read(p)
	return n
}
