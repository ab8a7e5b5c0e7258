package brotli

import "errors"

// ErrUnknownSize is returned by DecodedSize when the stream layout does not
// encode the decompressed size up front.
var ErrUnknownSize = errors.New("brotli: decompressed size cannot be determined")

// DecodedSize reads just enough of src to report the decompressed size of
// the stream. The size is only encoded for two layouts: a stream consisting
// of a single meta-block, and an uncompressed meta-block followed by an
// empty last one. Any other layout yields ErrUnknownSize. The data itself
// is not validated beyond the headers examined.
func DecodedSize(src []byte) (int64, error) {
	var br bitReader
	br.setInput(src)
	if !skipWindowBits(&br) {
		return 0, errTruncated
	}
	h, ok := readSizeHeader(&br)
	if !ok {
		return 0, errTruncated
	}
	switch {
	case h.lastEmpty:
		return 0, nil
	case h.last:
		if h.metadata {
			return 0, ErrUnknownSize
		}
		return h.length, nil
	case !h.uncompressed:
		return 0, ErrUnknownSize
	}
	// An uncompressed meta-block is followed by its raw bytes; the stream
	// size is known if an empty last meta-block comes right after.
	br.alignByte()
	for skip := h.length; skip > 0; {
		var p [512]byte
		n := len(p)
		if int64(n) > skip {
			n = int(skip)
		}
		if br.copyBytes(p[:n]) < n {
			return 0, errTruncated
		}
		skip -= int64(n)
	}
	h2, ok := readSizeHeader(&br)
	if !ok {
		return 0, errTruncated
	}
	if h2.lastEmpty {
		return h.length, nil
	}
	return 0, ErrUnknownSize
}

func skipWindowBits(br *bitReader) bool {
	b, ok := br.take(1)
	if !ok {
		return false
	}
	if b == 0 {
		return true
	}
	n, ok := br.take(3)
	if !ok {
		return false
	}
	if n != 0 {
		return true
	}
	_, ok = br.take(3)
	return ok
}

type sizeHeader struct {
	last         bool
	lastEmpty    bool
	metadata     bool
	uncompressed bool
	length       int64
}

func readSizeHeader(br *bitReader) (h sizeHeader, ok bool) {
	b, ok := br.take(1)
	if !ok {
		return h, false
	}
	h.last = b == 1
	if h.last {
		if b, ok = br.take(1); !ok {
			return h, false
		}
		if b == 1 {
			h.lastEmpty = true
			return h, true
		}
	}
	nib, ok := br.take(2)
	if !ok {
		return h, false
	}
	if nib == 3 {
		h.metadata = true
		if _, ok = br.take(1); !ok {
			return h, false
		}
		nBytes, ok := br.take(2)
		if !ok {
			return h, false
		}
		for i := uint32(0); i < nBytes; i++ {
			v, ok := br.take(8)
			if !ok {
				return h, false
			}
			h.length |= int64(v) << (8 * i)
		}
		if nBytes > 0 {
			h.length++
		}
		return h, true
	}
	for i := uint32(0); i < nib+4; i++ {
		v, ok := br.take(4)
		if !ok {
			return h, false
		}
		h.length |= int64(v) << (4 * i)
	}
	h.length++
	if !h.last {
		if b, ok = br.take(1); !ok {
			return h, false
		}
		h.uncompressed = b == 1
	}
	return h, true
}
