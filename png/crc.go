package png

import "hash/crc32"

// CRC32 is the PNG/zlib checksum (reversed polynomial 0xEDB88320).
func CRC32(b []byte) uint32 {
	return crc32.ChecksumIEEE(b)
}

// ComputeCRC returns the checksum a chunk of the given type and data must
// carry: CRC-32 over type followed by data.
func ComputeCRC(typ ChunkType, data []byte) uint32 {
	h := crc32.NewIEEE()
	h.Write(typ[:])
	h.Write(data)
	return h.Sum32()
}
