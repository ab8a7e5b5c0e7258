// Command gbr decompresses brotli (.br) files. Without file arguments it
// decompresses standard input to standard output.
package main

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	brotli "github.com/Bhanditz/brotli-go"
)

var cli struct {
	Stdout  bool     `short:"c" help:"Write to standard output, keep input files."`
	Keep    bool     `short:"k" help:"Keep input files after decompression."`
	Force   bool     `short:"f" help:"Overwrite existing output files."`
	Verbose bool     `short:"v" help:"Enable debug logging."`
	Files   []string `arg:"" optional:"" type:"existingfile" help:"Files to decompress. Reads standard input when empty."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("gbr"),
		kong.Description("Decompress brotli compressed files."))
	log.SetOutput(os.Stderr)
	if cli.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	if len(cli.Files) == 0 {
		if err := decompress(os.Stdin, os.Stdout); err != nil {
			log.Fatalf("stdin: %v", err)
		}
		kctx.Exit(0)
	}

	for _, name := range cli.Files {
		if err := decompressFile(name); err != nil {
			log.Fatalf("%s: %v", name, err)
		}
	}
}

func decompress(r io.Reader, w io.Writer) error {
	z := brotli.NewReader(r)
	n, err := io.Copy(w, z)
	if err != nil {
		return errors.Wrap(err, "decompress")
	}
	log.Debugf("wrote %d bytes", n)
	return nil
}

func decompressFile(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if cli.Stdout {
		return decompress(f, os.Stdout)
	}

	outName := strings.TrimSuffix(name, ".br")
	if outName == name {
		return errors.Errorf("unknown suffix, expected %q", ".br")
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if cli.Force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	out, err := os.OpenFile(outName, flags, 0666)
	if err != nil {
		return err
	}
	if err = decompress(f, out); err != nil {
		out.Close()
		os.Remove(outName)
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	log.Debugf("%s -> %s", name, outName)
	if !cli.Keep && !cli.Stdout {
		f.Close()
		if err = os.Remove(name); err != nil {
			return errors.Wrap(err, "remove input")
		}
	}
	return nil
}
