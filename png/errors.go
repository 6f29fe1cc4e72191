package png

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrShortRead means the stream ended before a field was fully read.
	ErrShortRead = errors.New("short read")
	// ErrIO wraps a failure reported by the underlying reader or writer.
	ErrIO = errors.New("i/o failure")

	ErrSignatureMismatch = errors.New("not a png signature")
	ErrMissingChunk      = errors.New("missing chunk")
	ErrTypeMismatch      = errors.New("unexpected chunk type")
	ErrSizeMismatch      = errors.New("unexpected chunk size")
	ErrCRCMismatch       = errors.New("crc mismatch")
)

// readErr classifies an error returned by io.ReadFull or io.CopyN.
func readErr(field string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("failed to read %s: %w: %v", field, ErrShortRead, err)
	}
	return fmt.Errorf("failed to read %s: %w: %w", field, ErrIO, err)
}

func writeErr(field string, err error) error {
	return fmt.Errorf("failed to write %s: %w: %w", field, ErrIO, err)
}
