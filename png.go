package main

import (
	"errors"
	"findpng/png"
	"fmt"
	"io"
	"os"
)

// hasSignature reads the first bytes of the file at path and checks them
// against the PNG signature. Files shorter than the signature are not PNGs.
func hasSignature(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, png.SignatureSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, fmt.Errorf("cannot read signature: %w", err)
	}

	return png.IsPNG(buf[:n]), nil
}
