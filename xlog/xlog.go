// Package xlog provides a minimal logger interface whose helper functions
// tolerate a nil logger. It allows a package to carry debug statements that
// cost nothing unless a logger has been installed. The log.Logger type of
// the standard library satisfies the interface.
package xlog

import "fmt"

// Logger is the interface the helper functions print through. log.Logger
// implements it.
type Logger interface {
	Output(calldepth int, s string) error
}

// Print formats with fmt.Sprint and writes to l. A nil l discards the
// message without formatting it.
func Print(l Logger, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprint(v...))
	}
}

// Printf formats with fmt.Sprintf and writes to l. A nil l discards the
// message without formatting it.
func Printf(l Logger, format string, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprintf(format, v...))
	}
}

// Println formats with fmt.Sprintln and writes to l. A nil l discards the
// message without formatting it.
func Println(l Logger, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprintln(v...))
	}
}
