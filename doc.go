// Package brotli implements a streaming decompressor for the brotli
// compressed data format (RFC 7932).
//
// The core entry point is the Decoder type, which is driven with
// caller-supplied input and output buffers and suspends itself whenever
// either runs out. On top of it the package provides the whole-buffer
// Decompress function, the DecodedSize probe and an io.Reader adapter.
//
// The encoder is not part of this package.
package brotli
