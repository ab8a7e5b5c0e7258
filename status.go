package brotli

// Status is the result of a single Decompress call.
type Status int

const (
	// StatusError indicates that the stream is corrupt or the usage
	// contract has been violated. The decoder must be discarded or Reset;
	// Err returns the detailed error.
	StatusError Status = iota
	// StatusSuccess indicates that the stream has been fully decoded and
	// all output has been written.
	StatusSuccess
	// StatusNeedsMoreInput indicates that the decoder consumed all usable
	// input and requires more to make progress.
	StatusNeedsMoreInput
	// StatusNeedsMoreOutput indicates that decoded bytes are pending and
	// the output buffer is full.
	StatusNeedsMoreOutput
)

func (s Status) String() string {
	switch s {
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	case StatusNeedsMoreInput:
		return "needs more input"
	case StatusNeedsMoreOutput:
		return "needs more output"
	}
	return "invalid status"
}
