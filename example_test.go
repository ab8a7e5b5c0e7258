package brotli_test

import (
	"bytes"
	"io"
	"log"
	"os"

	brotli "github.com/Bhanditz/brotli-go"
)

// fox holds "The quick brown fox jumps over the lazy dog." wrapped in an
// uncompressed meta-block followed by an empty last meta-block.
var fox = append(append([]byte{0xb0, 0x02, 0x10},
	"The quick brown fox jumps over the lazy dog."...), 0x03)

func ExampleReader() {
	r := brotli.NewReader(bytes.NewReader(fox))
	if _, err := io.Copy(os.Stdout, r); err != nil {
		log.Fatalf("io.Copy error %s", err)
	}
	// Output:
	// The quick brown fox jumps over the lazy dog.
}

func ExampleDecompress() {
	data, err := brotli.Decompress(nil, fox)
	if err != nil {
		log.Fatalf("brotli.Decompress error %s", err)
	}
	os.Stdout.Write(data)
	// Output:
	// The quick brown fox jumps over the lazy dog.
}
