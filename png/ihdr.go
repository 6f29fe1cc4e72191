package png

import (
	"fmt"
	bst "github.com/mixcode/binarystruct"
	"io"
)

// IHDRSize is the fixed data length of an IHDR chunk.
const IHDRSize = 13

// IHDR is the decoded image header. Field values are not range checked.
type IHDR struct {
	Width             uint32 `binary:"uint32"`
	Height            uint32 `binary:"uint32"`
	BitDepth          uint8  `binary:"uint8"`
	ColorType         uint8  `binary:"uint8"`
	CompressionMethod uint8  `binary:"uint8"`
	FilterMethod      uint8  `binary:"uint8"`
	InterlaceMethod   uint8  `binary:"uint8"`
}

func (h IHDR) String() string {
	return fmt.Sprintf("Width = %d, Height = %d, Bit depth = %d, Color type = %d, Compression method = %d, Filter method = %d, Interlace method = %d",
		h.Width, h.Height, h.BitDepth, h.ColorType, h.CompressionMethod, h.FilterMethod, h.InterlaceMethod)
}

// DecodeIHDR interprets c as an image header. c must be typed IHDR and carry
// exactly 13 data bytes.
func DecodeIHDR(c *Chunk) (IHDR, error) {
	if c == nil {
		return IHDR{}, fmt.Errorf("failed to decode header: %w", ErrMissingChunk)
	}
	if c.Type != TypeIHDR {
		return IHDR{}, fmt.Errorf("failed to decode header from '%v' chunk: %w", c.Type, ErrTypeMismatch)
	}
	if len(c.Data) != IHDRSize {
		return IHDR{}, fmt.Errorf("failed to decode header: %w: %d bytes, want %d", ErrSizeMismatch, len(c.Data), IHDRSize)
	}

	var h IHDR
	if _, err := bst.Unmarshal(c.Data, bst.BigEndian, &h); err != nil {
		return IHDR{}, fmt.Errorf("failed to decode header: %w", err)
	}
	return h, nil
}

// Chunk encodes h as an IHDR chunk with a valid CRC.
func (h IHDR) Chunk() (*Chunk, error) {
	data, err := bst.Marshal(&h, bst.BigEndian)
	if err != nil {
		return nil, fmt.Errorf("failed to encode header: %w", err)
	}
	return NewChunk(TypeIHDR, data), nil
}

// ReadHeader reads the signature and the first chunk of r and decodes it as
// the image header, leaving r positioned after the IHDR chunk. The IHDR CRC
// is not checked.
func ReadHeader(r io.Reader) (IHDR, error) {
	if err := readSignature(r); err != nil {
		return IHDR{}, err
	}
	c, err := ReadChunk(r)
	if err != nil {
		return IHDR{}, err
	}
	return DecodeIHDR(c)
}
