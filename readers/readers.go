package readers

// Cursor-style readers over an in-memory save.  Every function reads at *cur
// and, on success, advances *cur past what it read.  On failure *cur is left alone.

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

func need(buf []byte, cur int, size int) error {
	if cur < 0 || size < 0 || cur+size > len(buf) {
		return fmt.Errorf("need %v bytes at offset %v, buffer has %v", size, cur, len(buf))
	}
	return nil
}

func Read_fixed(buf []byte, cur *int, size int) ([]byte, error) {
	if err := need(buf, *cur, size); err != nil {
		return nil, err
	}
	out := buf[*cur : *cur+size]
	*cur += size
	return out, nil
}

// Advance is a forward-only skip.
func Advance(buf []byte, cur *int, size int) error {
	_, err := Read_fixed(buf, cur, size)
	return err
}

func Read_uint8(buf []byte, cur *int) (uint8, error) {
	b, err := Read_fixed(buf, cur, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func Read_uint32_le(buf []byte, cur *int) (uint32, error) {
	b, err := Read_fixed(buf, cur, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Read_fixed_string checks that the next bytes are exactly target.
func Read_fixed_string(buf []byte, cur *int, target []byte) error {
	start := *cur
	got, err := Read_fixed(buf, cur, len(target))
	if err != nil {
		return err
	}
	if !bytes.Equal(got, target) {
		*cur = start
		return fmt.Errorf("could not find %q at offset %v (got %q)", target, start, got)
	}
	return nil
}

// Read_lstring reads a length-prefixed, null-terminated string:
// [u32 length incl. terminator][bytes][0x00].
// Returns the string without its terminator.
func Read_lstring(buf []byte, cur *int) (string, error) {
	start := *cur
	n, err := Read_uint32_le(buf, cur)
	if err != nil {
		return "", err
	}
	if n == 0 {
		*cur = start
		return "", fmt.Errorf("zero-length string at offset %v (no room for terminator)", start)
	}
	if uint64(n) > uint64(len(buf)-*cur) {
		*cur = start
		return "", fmt.Errorf("string at offset %v claims %v bytes, only %v left", start, n, len(buf)-*cur)
	}
	body, _ := Read_fixed(buf, cur, int(n))
	if body[n-1] != 0 {
		*cur = start
		return "", fmt.Errorf("string at offset %v is not null-terminated", start)
	}
	return string(body[:n-1]), nil
}

// Read_fixed_lstring checks that the next length-prefixed string is exactly target.
func Read_fixed_lstring(buf []byte, cur *int, target string) error {
	start := *cur
	got, err := Read_lstring(buf, cur)
	if err != nil {
		return err
	}
	if got != target {
		*cur = start
		return fmt.Errorf("expected %q at offset %v, got %q", target, start, got)
	}
	return nil
}
