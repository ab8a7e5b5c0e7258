package brotli

import "fmt"

// FormatError reports malformed compressed data: a bad stream or meta-block
// header, an invalid prefix code, an inconsistent context map or a violated
// padding constraint.
type FormatError string

func (e FormatError) Error() string { return "brotli: " + string(e) }

// newFormatError creates a FormatError with the given message.
func newFormatError(format string, args ...interface{}) error {
	return FormatError(fmt.Sprintf(format, args...))
}

// ReferenceError reports a back-reference whose distance exceeds the
// history available in the window (including any seeded dictionary bytes).
type ReferenceError struct {
	Distance  int64
	Available int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("brotli: back-reference distance %d exceeds %d bytes of history",
		e.Distance, e.Available)
}

// UsageError reports a violation of the calling contract, for example
// seeding a dictionary after decoding has started.
type UsageError string

func (e UsageError) Error() string { return "brotli: " + string(e) }

var (
	errDictionaryAfterStart = UsageError("custom dictionary must be set before decoding starts")
	errStaticAfterStart     = UsageError("static dictionary must be set before decoding starts")
	errTruncated            = FormatError("truncated stream")
)
