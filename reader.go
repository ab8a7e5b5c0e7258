package brotli

import "io"

// Reader reads a brotli stream from an underlying io.Reader and produces
// the decompressed bytes. After the stream ends Read returns io.EOF; bytes
// following the stream remain buffered and are not consumed from the
// underlying reader beyond what was already read ahead.
type Reader struct {
	d        *Decoder
	r        io.Reader
	buf      []byte
	pos, end int
	err      error
}

// NewReader creates a Reader decompressing the stream from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		d:   NewDecoder(),
		r:   r,
		buf: make([]byte, 32<<10),
	}
}

// NewReaderDict is like NewReader with the history window seeded from dict.
func NewReaderDict(r io.Reader, dict []byte) *Reader {
	z := NewReader(r)
	z.d.SetCustomDictionary(dict)
	return z
}

// Read implements io.Reader. A stream that ends before the brotli stream is
// complete yields io.ErrUnexpectedEOF.
func (z *Reader) Read(p []byte) (n int, err error) {
	if z.err != nil {
		return 0, z.err
	}
	for {
		consumed, written, st := z.d.Decompress(z.buf[z.pos:z.end], p)
		z.pos += consumed
		if written > 0 {
			return written, nil
		}
		switch st {
		case StatusSuccess:
			z.err = io.EOF
			return 0, z.err
		case StatusNeedsMoreOutput:
			if len(p) == 0 {
				return 0, nil
			}
		case StatusNeedsMoreInput:
			if err = z.fill(); err != nil {
				z.err = err
				return 0, err
			}
		default:
			z.err = z.d.Err()
			return 0, z.err
		}
	}
}

func (z *Reader) fill() error {
	if z.pos > 0 {
		copy(z.buf, z.buf[z.pos:z.end])
		z.end -= z.pos
		z.pos = 0
	}
	n, err := z.r.Read(z.buf[z.end:])
	z.end += n
	if n > 0 {
		return nil
	}
	switch err {
	case nil:
		return io.ErrNoProgress
	case io.EOF:
		return io.ErrUnexpectedEOF
	}
	return err
}
