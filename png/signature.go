package png

import "bytes"

// SignatureSize is the length of the magic bytes that open every PNG stream.
const SignatureSize = 8

// signature is compared against, never written to.
var signature = [SignatureSize]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// Signature returns a copy of the 8-byte PNG magic.
func Signature() []byte {
	s := signature
	return s[:]
}

// IsPNG reports whether buf starts with the PNG signature. Buffers shorter
// than the signature are never PNGs; anything after the first 8 bytes is
// ignored.
func IsPNG(buf []byte) bool {
	if len(buf) < SignatureSize {
		return false
	}
	return bytes.Equal(buf[:SignatureSize], signature[:])
}
