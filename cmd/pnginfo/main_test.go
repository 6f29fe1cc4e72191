package main

import (
	"bytes"
	"findpng/png"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func sampleChunks(t *testing.T) []*png.Chunk {
	hdr, err := png.IHDR{Width: 4, Height: 3, BitDepth: 8, ColorType: 2}.Chunk()
	require.NoError(t, err)
	return []*png.Chunk{
		hdr,
		png.NewChunk(png.TypeIDAT, []byte{0x78, 0x9C, 0x01}),
		png.NewChunk(png.TypeIEND, []byte{}),
	}
}

// writeChunks stores the signature, the chunks and any trailing bytes.
func writeChunks(t *testing.T, chunks []*png.Chunk, trailing []byte) string {
	var b bytes.Buffer
	b.Write(png.Signature())
	for _, c := range chunks {
		require.NoError(t, png.WriteChunk(&b, c))
	}
	b.Write(trailing)

	path := filepath.Join(t.TempDir(), "image.png")
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0644))
	return path
}

func TestInspect(t *testing.T) {
	path := writeChunks(t, sampleChunks(t), nil)

	var out bytes.Buffer
	require.NoError(t, inspect(&out, path, false, true))
	assert.Contains(t, out.String(), "Width = 4, Height = 3, Bit depth = 8, Color type = 2")
	assert.Contains(t, out.String(), "chunk 'IDAT' (3 bytes")
	assert.NotContains(t, out.String(), "crc mismatch")
}

func TestInspectStrictRejectsSwappedTypes(t *testing.T) {
	chunks := sampleChunks(t)
	chunks[1], chunks[2] = chunks[2], chunks[1]
	path := writeChunks(t, chunks, nil)

	// lenient mode only reports
	require.NoError(t, inspect(&bytes.Buffer{}, path, false, false))

	err := inspect(&bytes.Buffer{}, path, false, true)
	assert.ErrorIs(t, err, png.ErrTypeMismatch)
}

func TestInspectFix(t *testing.T) {
	chunks := sampleChunks(t)
	chunks[1].CRC ^= 0xFF
	path := writeChunks(t, chunks, nil)

	var out bytes.Buffer
	require.NoError(t, inspect(&out, path, true, false))
	assert.Contains(t, out.String(), "crc mismatch")
	assert.Contains(t, out.String(), "corrected crc of [IDAT]")

	img, err := png.ReadFile(path)
	require.NoError(t, err)
	assert.NoError(t, img.Validate())
	assert.Equal(t, []byte{0x78, 0x9C, 0x01}, img.IDAT.Data)
}

func TestInspectFixRefusesOtherLayouts(t *testing.T) {
	gama := png.NewChunk(png.ChunkType{'g', 'A', 'M', 'A'}, []byte{0, 0, 0xB1, 0x8F})
	gama.CRC = 0
	base := sampleChunks(t)
	extraIDAT := png.NewChunk(png.TypeIDAT, []byte{0x02})

	tests := map[string]struct {
		chunks   []*png.Chunk
		trailing []byte
	}{
		"ancillary chunk": {chunks: []*png.Chunk{base[0], gama, base[1], base[2]}},
		"two idat chunks": {chunks: []*png.Chunk{base[0], base[1], extraIDAT, base[2]}},
		"trailing data":   {chunks: []*png.Chunk{base[0], base[1], base[2]}, trailing: []byte("junk")},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			bad := *tt.chunks[0]
			bad.CRC++
			chunks := append([]*png.Chunk{&bad}, tt.chunks[1:]...)
			path := writeChunks(t, chunks, tt.trailing)

			before, err := os.ReadFile(path)
			require.NoError(t, err)

			err = inspect(&bytes.Buffer{}, path, true, false)
			assert.ErrorIs(t, err, errNotSimple)

			after, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, before, after, "file is left untouched")
		})
	}
}

func TestInspectNotPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("definitely not an image"), 0644))

	err := inspect(&bytes.Buffer{}, path, true, false)
	assert.ErrorIs(t, err, png.ErrSignatureMismatch)
}
