// Package placeholder does literal sentinel substitution in save templates.
//
// It knows nothing about the container format: a sentinel is swapped for its
// replacement wherever it appears, and a sentinel that isn't there is simply
// skipped.  Apply reports per-binding counts so callers can tell the two apart.
package placeholder

import (
	"bytes"
	"math"

	"github.com/pkg/errors"

	"oaredit/types"
	"oaredit/writers"
)

// Binding pairs a sentinel with what replaces it.
// The replacement must not contain the sentinel.
type Binding struct {
	Sentinel    []byte
	Replacement []byte
}

// Resizes reports whether applying b changes the buffer length.
func (b Binding) Resizes() bool {
	return len(b.Sentinel) != len(b.Replacement)
}

// Identifier makes the binding for the user identifier.
func Identifier(sentinel []byte, id string) Binding {
	return Binding{Sentinel: sentinel, Replacement: []byte(id)}
}

// Int32 makes a numeric binding: value becomes 4 little-endian two's-complement bytes.
// Values outside the int32 range are rejected here, before anything is substituted.
func Int32(sentinel []byte, value int64) (Binding, error) {
	if value < math.MinInt32 || value > math.MaxInt32 {
		return Binding{}, errors.Wrapf(types.ErrOutOfRange, "%v does not fit in a signed 32-bit field", value)
	}
	return Binding{Sentinel: sentinel, Replacement: writers.Append_int32_le(nil, int32(value))}, nil
}

// Apply substitutes each binding in order, all occurrences, scanning left to right
// without overlap.  template is never modified; the result is always a new buffer.
// counts[i] is the number of replacements made for bindings[i].
func Apply(template []byte, bindings ...Binding) (out []byte, counts []int) {
	out = bytes.Clone(template)
	if out == nil {
		out = []byte{}
	}
	counts = make([]int, len(bindings))
	for i, b := range bindings {
		if len(b.Sentinel) == 0 {
			// bytes.ReplaceAll would insert between every byte
			continue
		}
		n := bytes.Count(out, b.Sentinel)
		if n == 0 {
			continue
		}
		out = bytes.ReplaceAll(out, b.Sentinel, b.Replacement)
		counts[i] = n
	}
	return out, counts
}

// Replaced is true if every binding matched at least once.
func Replaced(counts []int) bool {
	for _, n := range counts {
		if n == 0 {
			return false
		}
	}
	return true
}
