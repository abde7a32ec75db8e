package io

// Every chunk and buffer region in both tile formats is aligned to 8-byte
// boundaries.
const alignment = 8

// Padding byte values. JSON regions are padded with spaces so the payload
// stays parseable; binary regions are padded with NUL bytes. This convention
// applies to both content encoders.
const (
	paddingJSON   byte = 0x20
	paddingBinary byte = 0x00
)

// paddingLength computes how many bytes are needed to bring byteLength up to
// the next alignment boundary. Already aligned lengths need none.
func paddingLength(byteLength uint32) uint32 {
	remainder := byteLength % alignment
	if remainder == 0 {
		return 0
	}
	return alignment - remainder
}

// makePadding returns a padding slice filled with the given byte.
func makePadding(length uint32, pad byte) []byte {
	out := make([]byte, length)
	for i := range out {
		out[i] = pad
	}
	return out
}
