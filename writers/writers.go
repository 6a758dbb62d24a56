package writers

// Encoders for the little bits of the container format we produce.
// Everything appends to a caller-owned slice and returns it, append-style.

import "encoding/binary"

func Append_uint32_le(out []byte, i uint32) []byte {
	return binary.LittleEndian.AppendUint32(out, i)
}

// Append_int32_le writes the two's-complement form of i.
func Append_int32_le(out []byte, i int32) []byte {
	return binary.LittleEndian.AppendUint32(out, uint32(i))
}

// Append_lstring writes [u32 len(s)+1][s][0x00].
func Append_lstring(out []byte, s string) []byte {
	out = Append_uint32_le(out, uint32(len(s)+1))
	out = append(out, s...)
	return append(out, 0)
}

// Lstring_size is how many bytes Append_lstring would write for s.
func Lstring_size(s string) int {
	return 4 + len(s) + 1
}

// Put_uint32_le overwrites 4 bytes at target[0:4].
func Put_uint32_le(target []byte, i uint32) {
	binary.LittleEndian.PutUint32(target, i)
}
