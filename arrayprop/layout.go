package arrayprop

import (
	"fmt"

	"oaredit/readers"
)

// Header layout between the property tag and the first element:
//
//	u32 14, "ArrayProperty\0"    container type
//	u32                          byte size of the element sequence
//	4 bytes                      padding (array index, always 0 in practice)
//	u32 15, "ObjectProperty\0"   element type
//	1 byte                       padding (no property GUID)
//	u32                          element count
//
// Only this one variant exists in the saves we edit, so the layout is fixed and
// walked field by field rather than discovered.

type FieldKind int

const (
	FIELD_LSTRING FieldKind = iota // length-prefixed constant string, checked
	FIELD_UINT32                   // little-endian u32, recorded
	FIELD_PAD                      // skipped, not checked
)

// Role marks the two u32 fields the codec later rewrites.
type Role int

const (
	ROLE_NONE Role = iota
	ROLE_SIZE
	ROLE_COUNT
)

type Field struct {
	Name  string
	Kind  FieldKind
	Value string // FIELD_LSTRING only
	Width int    // FIELD_PAD only
	Role  Role
}

// Size is the encoded width of the field.
func (f Field) Size() int {
	switch f.Kind {
	case FIELD_LSTRING:
		return 4 + len(f.Value) + 1
	case FIELD_UINT32:
		return 4
	}
	return f.Width
}

type Layout []Field

// STRING_ARRAY is the ArrayProperty-of-ObjectProperty header.
var STRING_ARRAY = Layout{
	{Name: "container type", Kind: FIELD_LSTRING, Value: "ArrayProperty"},
	{Name: "byte size", Kind: FIELD_UINT32, Role: ROLE_SIZE},
	{Name: "index padding", Kind: FIELD_PAD, Width: 4},
	{Name: "element type", Kind: FIELD_LSTRING, Value: "ObjectProperty"},
	{Name: "guid padding", Kind: FIELD_PAD, Width: 1},
	{Name: "count", Kind: FIELD_UINT32, Role: ROLE_COUNT},
}

// Size is the total header width.
func (l Layout) Size() int {
	n := 0
	for _, f := range l {
		n += f.Size()
	}
	return n
}

// header holds what walking a layout found.
type header struct {
	size_offset  int
	count_offset int
	size         uint32
	count        uint32
	end          int // first byte after the header
}

// walk folds over the layout from start.  Any mismatch is reported with the
// name of the field that failed.
func (l Layout) walk(blob []byte, start int) (header, error) {
	h := header{size_offset: -1, count_offset: -1}
	cur := start
	for _, f := range l {
		at := cur
		switch f.Kind {
		case FIELD_LSTRING:
			if err := readers.Read_fixed_lstring(blob, &cur, f.Value); err != nil {
				return h, fmt.Errorf("%v: %v", f.Name, err)
			}
		case FIELD_UINT32:
			v, err := readers.Read_uint32_le(blob, &cur)
			if err != nil {
				return h, fmt.Errorf("%v: %v", f.Name, err)
			}
			switch f.Role {
			case ROLE_SIZE:
				h.size_offset, h.size = at, v
			case ROLE_COUNT:
				h.count_offset, h.count = at, v
			}
		case FIELD_PAD:
			if err := readers.Advance(blob, &cur, f.Width); err != nil {
				return h, fmt.Errorf("%v: %v", f.Name, err)
			}
		}
	}
	if h.size_offset < 0 || h.count_offset < 0 {
		// Layout bug rather than a bad file, but still nothing we can edit
		return h, fmt.Errorf("layout has no size or count field")
	}
	h.end = cur
	return h, nil
}
