package brotli

// Decompress appends the decompressed form of src to dst and returns the
// extended slice. dst may be nil. The whole stream must be present in src;
// a stream that ends early is reported as truncated.
func Decompress(dst, src []byte) ([]byte, error) {
	d := NewDecoder()
	buf := make([]byte, 64<<10)
	for {
		consumed, written, st := d.Decompress(src, buf)
		src = src[consumed:]
		dst = append(dst, buf[:written]...)
		switch st {
		case StatusSuccess:
			return dst, nil
		case StatusNeedsMoreOutput:
			// next round drains the rest
		case StatusNeedsMoreInput:
			// src held the complete stream already
			return dst, errTruncated
		default:
			return dst, d.Err()
		}
	}
}
