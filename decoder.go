package brotli

// NewDecoder creates a decoder ready for the start of a stream.
func NewDecoder() *Decoder {
	d := new(Decoder)
	d.Reset()
	return d
}

// Reset returns the decoder to the start-of-stream state. Configured
// dictionaries are kept; allocated buffers are reused.
func (d *Decoder) Reset() {
	d.br = bitReader{}
	d.win.buf.Reset()
	d.win.dictSize = 0
	d.phase = phaseStreamHeader
	d.substep = 0
	d.err = nil
	d.started = false
	d.distRB = [4]int32{16, 15, 11, 4}
	d.distRBIdx = 0
	d.totalOut = 0
}

// SetCustomDictionary seeds the history window with p before decoding
// starts. Only the last window-size bytes are effective. The slice is
// retained; the caller must not modify it while the decoder is in use.
func (d *Decoder) SetCustomDictionary(p []byte) error {
	if d.started {
		return errDictionaryAfterStart
	}
	d.customDict = p
	return nil
}

// SetStaticDictionary provides the static word dictionary that
// out-of-window back-references address. Without it such references fail
// with a ReferenceError.
func (d *Decoder) SetStaticDictionary(dict *Dictionary) error {
	if d.started {
		return errStaticAfterStart
	}
	d.dict = dict
	return nil
}

// Decompress advances the stream with the input bytes in and writes decoded
// bytes to out. It returns the number of input bytes consumed, the number
// of output bytes written and the resulting status.
//
// The decoder consumes all input it can use; unconsumed bytes (at most a
// few, when a partial bit field spans the buffer end) must be presented
// again on the next call. Either buffer may be empty. After StatusSuccess
// or StatusError further calls return the same status without consuming
// input; Err reports the detailed error for StatusError.
func (d *Decoder) Decompress(in, out []byte) (consumed, written int, st Status) {
	if d.phase == phaseErrored {
		return 0, 0, StatusError
	}
	d.started = true
	written = d.drain(out)
	d.br.setInput(in)

	st = StatusNeedsMoreInput
loop:
	for {
		switch d.advance() {
		case stepMore:
		case stepNeedInput:
			st = StatusNeedsMoreInput
			break loop
		case stepNeedOutput:
			if n := d.drain(out[written:]); n > 0 {
				written += n
				continue
			}
			st = StatusNeedsMoreOutput
			break loop
		case stepDone:
			st = StatusSuccess
			break loop
		default:
			st = StatusError
			break loop
		}
	}
	consumed = d.br.release()
	written += d.drain(out[written:])
	if st == StatusSuccess && d.win.pending() > 0 {
		st = StatusNeedsMoreOutput
	}
	return consumed, written, st
}

func (d *Decoder) drain(out []byte) int {
	n := d.win.read(out)
	d.totalOut += int64(n)
	return n
}

// TotalOut returns the total number of bytes written to output buffers so
// far.
func (d *Decoder) TotalOut() int64 { return d.totalOut }

// Err returns the error that put the decoder into StatusError, or nil.
func (d *Decoder) Err() error { return d.err }
