package png

import (
	"bytes"
	"encoding/binary"
	"fmt"
	bst "github.com/mixcode/binarystruct"
	"io"
)

// ChunkType is the 4-byte ASCII tag of a chunk.
type ChunkType [4]byte

var (
	TypeIHDR = ChunkType{'I', 'H', 'D', 'R'}
	TypeIDAT = ChunkType{'I', 'D', 'A', 'T'}
	TypeIEND = ChunkType{'I', 'E', 'N', 'D'}
)

func (t ChunkType) String() string {
	return string(t[:])
}

// Chunk is one length-prefixed unit of a PNG stream:
// {4-byte BE length, 4-byte type, data, 4-byte BE CRC over type||data}.
// The length is always len(Data); it is not stored separately.
type Chunk struct {
	Type ChunkType
	Data []byte
	CRC  uint32
}

// chunkHeader is the part of a chunk that precedes its data.
type chunkHeader struct {
	Length uint32 `binary:"uint32"`
	Type   [4]byte `binary:"[4]byte"`
}

const chunkHeaderSize = 8

// Lengths up to preallocLimit are read into an exactly sized buffer. Larger
// ones are buffered as bytes arrive, so allocation follows delivered bytes
// rather than the length field.
const preallocLimit = 1 << 20

func readData(r io.Reader, length uint32) ([]byte, error) {
	if length <= preallocLimit {
		data := make([]byte, length)
		if n, err := io.ReadFull(r, data); err != nil {
			return nil, fmt.Errorf("%d of %d bytes: %w", n, length, err)
		}
		return data, nil
	}

	var buf bytes.Buffer
	if n, err := io.CopyN(&buf, r, int64(length)); err != nil {
		return nil, fmt.Errorf("%d of %d bytes: %w", n, length, err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

// NewChunk builds a chunk over data with its CRC already computed.
func NewChunk(typ ChunkType, data []byte) *Chunk {
	return &Chunk{
		Type: typ,
		Data: data,
		CRC:  ComputeCRC(typ, data),
	}
}

// Length is the number of data bytes, as written in the length field.
func (c *Chunk) Length() uint32 {
	return uint32(len(c.Data))
}

func (c *Chunk) String() string {
	return fmt.Sprintf("chunk '%v' (%d bytes, crc %08x)", c.Type, c.Length(), c.CRC)
}

// ReadChunk decodes exactly one chunk from r. It either returns a complete
// chunk or an error: a stream that ends inside any of the four fields fails
// with ErrShortRead and nothing is returned. The CRC is not verified here;
// see VerifyCRC and CheckCRC.
func ReadChunk(r io.Reader) (*Chunk, error) {
	var raw [chunkHeaderSize]byte
	if n, err := io.ReadFull(r, raw[:]); err != nil {
		field := "chunk length"
		if n >= 4 {
			field = "chunk type"
		}
		return nil, readErr(field, err)
	}

	var hdr chunkHeader
	if _, err := bst.Unmarshal(raw[:], bst.BigEndian, &hdr); err != nil {
		return nil, fmt.Errorf("failed to decode chunk header: %w", err)
	}

	c := &Chunk{Type: hdr.Type}
	data, err := readData(r, hdr.Length)
	if err != nil {
		return nil, readErr(fmt.Sprintf("%v data", c.Type), err)
	}
	c.Data = data

	var crc [4]byte
	if _, err := io.ReadFull(r, crc[:]); err != nil {
		return nil, readErr(fmt.Sprintf("%v crc", c.Type), err)
	}
	c.CRC = binary.BigEndian.Uint32(crc[:])

	return c, nil
}

// WriteChunk writes c as length, type, data and CRC, in that order. A failed
// write is not rolled back: everything before the failing field is already
// in w.
func WriteChunk(w io.Writer, c *Chunk) error {
	if c == nil {
		return fmt.Errorf("failed to write chunk: %w", ErrMissingChunk)
	}
	if uint64(len(c.Data)) > uint64(^uint32(0)) {
		return fmt.Errorf("failed to write %v chunk: %w: %d data bytes", c.Type, ErrSizeMismatch, len(c.Data))
	}

	head, err := bst.Marshal(&chunkHeader{Length: c.Length(), Type: c.Type}, bst.BigEndian)
	if err != nil {
		return fmt.Errorf("failed to encode %v chunk header: %w", c.Type, err)
	}
	if _, err := w.Write(head); err != nil {
		return writeErr(fmt.Sprintf("%v chunk header", c.Type), err)
	}
	if _, err := w.Write(c.Data); err != nil {
		return writeErr(fmt.Sprintf("%v chunk data", c.Type), err)
	}

	var crc [4]byte
	binary.BigEndian.PutUint32(crc[:], c.CRC)
	if _, err := w.Write(crc[:]); err != nil {
		return writeErr(fmt.Sprintf("%v chunk crc", c.Type), err)
	}
	return nil
}

// VerifyCRC reports whether the stored CRC matches type||data.
func VerifyCRC(c *Chunk) bool {
	return c.CRC == ComputeCRC(c.Type, c.Data)
}

// CheckCRC is VerifyCRC for callers that want an error to propagate.
func CheckCRC(c *Chunk) error {
	if want := ComputeCRC(c.Type, c.Data); c.CRC != want {
		return fmt.Errorf("%v chunk: %w: stored %08x, computed %08x", c.Type, ErrCRCMismatch, c.CRC, want)
	}
	return nil
}
