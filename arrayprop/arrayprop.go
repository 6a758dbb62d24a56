// Package arrayprop finds, reads and grows one array-of-strings property inside
// an otherwise opaque save blob.
//
// A blob is never parsed beyond the property itself.  Growing the array rewrites
// exactly three things: the byte size field, the count field, and the element
// sequence.  Every other byte is copied through.
package arrayprop

import (
	"bytes"
	"math"
	"slices"

	"github.com/pkg/errors"

	"oaredit/readers"
	"oaredit/types"
	"oaredit/writers"
)

// Property is a decoded array, plus where its pieces sit in the blob it came from.
type Property struct {
	Tag       string
	TagOffset int

	SizeOffset  int
	CountOffset int
	// ElementsOffset is the first byte of the first element.
	ElementsOffset int
	// EndOffset is one past the last element; new elements go here.
	EndOffset int

	// ByteSize is the header's size field as read; it is trusted, not recomputed.
	ByteSize uint32
	Elements []string
}

// Count is the number of elements.
func (p *Property) Count() int {
	return len(p.Elements)
}

func (p *Property) Contains(element string) bool {
	return slices.Contains(p.Elements, element)
}

func tag_bytes(tag string) []byte {
	return append([]byte(tag), 0)
}

// Decode locates tag (followed by its null terminator) and reads the array after it
// using the standard layout.
func Decode(blob []byte, tag string) (*Property, error) {
	return DecodeLayout(blob, tag, STRING_ARRAY)
}

// DecodeLayout is Decode with an explicit header layout.
func DecodeLayout(blob []byte, tag string, layout Layout) (*Property, error) {
	tb := tag_bytes(tag)
	at := bytes.Index(blob, tb)
	if at < 0 {
		return nil, errors.Wrapf(types.ErrNotFound, "property %q", tag)
	}

	h, err := layout.walk(blob, at+len(tb))
	if err != nil {
		return nil, errors.Wrapf(types.ErrMalformed, "property %q header: %v", tag, err)
	}

	p := &Property{
		Tag:            tag,
		TagOffset:      at,
		SizeOffset:     h.size_offset,
		CountOffset:    h.count_offset,
		ElementsOffset: h.end,
		ByteSize:       h.size,
	}

	// Don't trust count for the allocation; each element is at least 5 bytes
	alloc := min(int(h.count), (len(blob)-h.end)/5+1)
	p.Elements = make([]string, 0, alloc)

	cur := h.end
	for i := uint32(0); i < h.count; i++ {
		s, err := readers.Read_lstring(blob, &cur)
		if err != nil {
			return nil, errors.Wrapf(types.ErrMalformed, "property %q element %v of %v: %v", tag, i, h.count, err)
		}
		p.Elements = append(p.Elements, s)
	}
	p.EndOffset = cur

	return p, nil
}

// Encode writes p back over the blob it was decoded from: the size and count
// fields come from p, the element sequence is re-encoded from p.Elements, and
// everything else is copied from blob.  Decode followed by Encode with no
// changes gives back the original bytes.
func (p *Property) Encode(blob []byte) []byte {
	elements := 0
	for _, e := range p.Elements {
		elements += writers.Lstring_size(e)
	}

	out := make([]byte, 0, len(blob)-(p.EndOffset-p.ElementsOffset)+elements)
	out = append(out, blob[:p.SizeOffset]...)
	out = writers.Append_uint32_le(out, p.ByteSize)
	out = append(out, blob[p.SizeOffset+4:p.CountOffset]...)
	out = writers.Append_uint32_le(out, uint32(len(p.Elements)))
	out = append(out, blob[p.CountOffset+4:p.ElementsOffset]...)
	for _, e := range p.Elements {
		out = writers.Append_lstring(out, e)
	}
	out = append(out, blob[p.EndOffset:]...)
	return out
}

// Insert appends element at the end of the array and returns the new blob together
// with the property as it now stands.  blob and p are left as they were.
// An element already present gives ErrDuplicateElement and no new blob.
func Insert(blob []byte, p *Property, element string) ([]byte, *Property, error) {
	if p.Contains(element) {
		return nil, nil, errors.Wrapf(types.ErrDuplicateElement, "%q already in %q", element, p.Tag)
	}
	for i := 0; i < len(element); i++ {
		if element[i] == 0 || element[i] > 0x7F {
			return nil, nil, errors.Wrapf(types.ErrMalformed, "element %q is not plain ASCII", element)
		}
	}

	grow := writers.Lstring_size(element)
	if uint64(p.ByteSize)+uint64(grow) > math.MaxUint32 || uint64(len(p.Elements)) >= math.MaxUint32 {
		return nil, nil, errors.Wrapf(types.ErrOutOfRange, "property %q cannot grow any more", p.Tag)
	}

	q := *p
	q.Elements = append(slices.Clone(p.Elements), element)
	q.ByteSize = p.ByteSize + uint32(grow)
	out := q.Encode(blob)
	q.EndOffset = p.EndOffset + grow

	return out, &q, nil
}

// Append is decode + insert + re-decode of the result.  The re-decode catches any
// layout slip before the caller gets a chance to write the blob out.
func Append(blob []byte, tag string, element string) ([]byte, *Property, error) {
	p, err := Decode(blob, tag)
	if err != nil {
		return nil, nil, err
	}
	out, q, err := Insert(blob, p, element)
	if err != nil {
		return nil, p, err
	}

	check, err := Decode(out, tag)
	if err != nil {
		return nil, p, errors.Wrap(err, "re-reading patched array")
	}
	if check.Count() != p.Count()+1 || check.ByteSize != q.ByteSize || check.Elements[check.Count()-1] != element {
		return nil, p, errors.Wrapf(types.ErrMalformed, "patched array %q did not read back as written", tag)
	}
	return out, q, nil
}
