package main

import (
	"errors"
	"findpng/png"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
)

var fix = flag.Bool("fix", false, "rewrite each file with recomputed chunk CRCs")
var strict = flag.Bool("strict", false, "also require IHDR, IDAT, IEND chunk types and matching CRCs")
var logFile = flag.String("log", "", "location to store per-file errors (default stderr)")

// errNotSimple marks files that hold more than the IHDR, IDAT, IEND triple.
var errNotSimple = errors.New("not a simple png")

func dumpChunk(w io.Writer, c *png.Chunk) {
	fmt.Fprintf(w, "  %v", c)
	if !png.VerifyCRC(c) {
		fmt.Fprintf(w, ": crc mismatch, expected %08x", png.ComputeCRC(c.Type, c.Data))
	}
	fmt.Fprintln(w)
}

// readFile reads the three chunks of path and reports whether any bytes
// follow them.
func readFile(path string) (*png.PNG, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Read(f)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var next [1]byte
	n, err := f.Read(next[:])
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return img, n > 0, nil
}

func inspect(w io.Writer, path string, fix, strict bool) error {
	img, trailing, err := readFile(path)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, path)
	if hdr, err := img.Header(); err != nil {
		fmt.Fprintf(w, "  header: %v\n", err)
	} else {
		fmt.Fprintf(w, "  header: %v\n", hdr)
	}
	dumpChunk(w, img.IHDR)
	dumpChunk(w, img.IDAT)
	dumpChunk(w, img.IEND)
	if trailing {
		fmt.Fprintln(w, "  more data follows the third chunk")
	}

	if strict {
		if err := img.Validate(); err != nil {
			return fmt.Errorf("%s is not a valid simple png: %w", path, err)
		}
	}

	if fix {
		// rewriting keeps only three chunks, anything else in the file would be lost
		if err := img.CheckTypes(); err != nil {
			return fmt.Errorf("refusing to fix %s: %w: %w", path, errNotSimple, err)
		}
		if trailing {
			return fmt.Errorf("refusing to fix %s: %w: data after IEND", path, errNotSimple)
		}

		fixed, err := img.FixCRC()
		if err != nil {
			return err
		}
		if len(fixed) == 0 {
			return nil
		}
		if err := png.WriteFile(path, img); err != nil {
			return fmt.Errorf("failed to rewrite %s: %w", path, err)
		}
		fmt.Fprintf(w, "  corrected crc of %v\n", fixed)
	}

	return nil
}

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		_, _ = fmt.Fprintln(os.Stderr, "Usage: pnginfo [flags] <file.png>...")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if len(*logFile) > 0 {
		logStream, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			panic(fmt.Errorf("failed to open log file: %w", err))
		}
		defer logStream.Close()
		log.SetOutput(logStream)
	}

	failed := 0
	for _, path := range flag.Args() {
		if err := inspect(os.Stdout, path, *fix, *strict); err != nil {
			failed++
			switch {
			case errors.Is(err, png.ErrSignatureMismatch):
				log.Printf("skipping %s: not a png\n", path)
			case errors.Is(err, png.ErrShortRead):
				log.Printf("skipping %s: truncated: %v\n", path, err)
			case errors.Is(err, errNotSimple):
				log.Printf("skipping %s: %v\n", path, err)
			default:
				log.Println(err)
			}
		}
	}

	if failed > 0 {
		os.Exit(2)
	}
}
