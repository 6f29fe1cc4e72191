package png

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// PNG is a simplified PNG image made of exactly one IHDR, one IDAT and one
// IEND chunk, in that order.
//
// The three named slots are deliberate: ancillary chunks, multiple IDAT
// chunks and any other chunk sequence are not representable. A PNG returned
// by Read always has all three slots set.
type PNG struct {
	IHDR *Chunk
	IDAT *Chunk
	IEND *Chunk
}

func readSignature(r io.Reader) error {
	var sig [SignatureSize]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return readErr("png signature", err)
	}
	if !IsPNG(sig[:]) {
		return fmt.Errorf("mismatched png header %x: %w", sig, ErrSignatureMismatch)
	}
	return nil
}

// Read decodes the signature and then three chunks from r. The first chunk
// is stored as IHDR, the second as IDAT and the third as IEND without
// checking their types; use Validate for that. Nothing past the third chunk
// is read.
func Read(r io.Reader) (*PNG, error) {
	if err := readSignature(r); err != nil {
		return nil, err
	}

	var chunks [3]*Chunk
	for i := range chunks {
		c, err := ReadChunk(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read chunk %d: %w", i+1, err)
		}
		chunks[i] = c
	}

	return &PNG{IHDR: chunks[0], IDAT: chunks[1], IEND: chunks[2]}, nil
}

// ReadFile opens path and reads it with Read.
func ReadFile(path string) (*PNG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w: %w", path, ErrIO, err)
	}
	defer f.Close()

	return Read(f)
}

func (p *PNG) chunks() []*Chunk {
	return []*Chunk{p.IHDR, p.IDAT, p.IEND}
}

func (p *PNG) checkSlots() error {
	if p == nil {
		return fmt.Errorf("nil png: %w", ErrMissingChunk)
	}
	for i, c := range p.chunks() {
		if c == nil {
			return fmt.Errorf("%v slot is empty: %w", slotTypes[i], ErrMissingChunk)
		}
	}
	return nil
}

var slotTypes = [3]ChunkType{TypeIHDR, TypeIDAT, TypeIEND}

// Write emits the signature followed by the IHDR, IDAT and IEND chunks. It
// fails before writing anything if a slot is empty, and stops at the first
// failing chunk.
func Write(w io.Writer, p *PNG) error {
	if err := p.checkSlots(); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}

	if _, err := w.Write(signature[:]); err != nil {
		return writeErr("png signature", err)
	}
	for _, c := range p.chunks() {
		if err := WriteChunk(w, c); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile creates (or truncates) path and writes p to it. The file is
// closed on every path; a close failure is reported when nothing else failed.
func WriteFile(path string, p *PNG) (err error) {
	if err := p.checkSlots(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w: %w", path, ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w: %w", path, ErrIO, cerr)
		}
	}()

	return Write(f, p)
}

// Header decodes the IHDR slot.
func (p *PNG) Header() (IHDR, error) {
	return DecodeIHDR(p.IHDR)
}

// CheckTypes reports whether each slot holds the chunk type it is named
// after.
func (p *PNG) CheckTypes() error {
	if err := p.checkSlots(); err != nil {
		return err
	}

	var errs []error
	for i, c := range p.chunks() {
		if c.Type != slotTypes[i] {
			errs = append(errs, fmt.Errorf("slot %v holds '%v' chunk: %w", slotTypes[i], c.Type, ErrTypeMismatch))
		}
	}
	return errors.Join(errs...)
}

// Validate is the strict pass Read does not do: each slot holds the chunk
// type it is named after, the header decodes, and every CRC matches. All
// problems are reported together.
func (p *PNG) Validate() error {
	if err := p.checkSlots(); err != nil {
		return err
	}

	var errs []error
	if err := p.CheckTypes(); err != nil {
		errs = append(errs, err)
	}
	for _, c := range p.chunks() {
		if err := CheckCRC(c); err != nil {
			errs = append(errs, err)
		}
	}
	if p.IHDR.Type == TypeIHDR {
		if _, err := p.Header(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FixCRC recomputes the CRC of every chunk and reports which ones changed.
func (p *PNG) FixCRC() ([]ChunkType, error) {
	if err := p.checkSlots(); err != nil {
		return nil, err
	}

	var fixed []ChunkType
	for _, c := range p.chunks() {
		if !VerifyCRC(c) {
			c.CRC = ComputeCRC(c.Type, c.Data)
			fixed = append(fixed, c.Type)
		}
	}
	return fixed, nil
}
