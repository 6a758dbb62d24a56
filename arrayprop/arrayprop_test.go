package arrayprop

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"oaredit/types"
)

func u32(n uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, n)
}

func lstr(s string) []byte {
	return append(append(u32(uint32(len(s)+1)), s...), 0)
}

// build_blob makes a save with some junk, the MapsSave array, and a trailer.
// byte_size is written as given so tests can use whatever the game wrote.
func build_blob(byte_size uint32, elements ...string) (blob []byte, size_at int, count_at int, end_at int) {
	blob = append(blob, "GVAS"...)
	blob = append(blob, 0x03, 0x00, 0x00, 0x00, 0x0A, 0x02)
	blob = append(blob, lstr("SaveGameClass")...)
	blob = append(blob, u32(9)...) // FString length of the tag itself
	blob = append(blob, "MapsSave\x00"...)
	blob = append(blob, lstr("ArrayProperty")...)
	size_at = len(blob)
	blob = append(blob, u32(byte_size)...)
	blob = append(blob, 0, 0, 0, 0)
	blob = append(blob, lstr("ObjectProperty")...)
	blob = append(blob, 0)
	count_at = len(blob)
	blob = append(blob, u32(uint32(len(elements)))...)
	for _, e := range elements {
		blob = append(blob, lstr(e)...)
	}
	end_at = len(blob)
	blob = append(blob, lstr("None")...)
	blob = append(blob, 0, 0, 0, 0)
	return blob, size_at, count_at, end_at
}

func Test_LayoutFieldByField(t *testing.T) {
	want := []int{18, 4, 4, 19, 1, 4}
	if len(STRING_ARRAY) != len(want) {
		t.Fatalf("expected %v fields, got %v", len(want), len(STRING_ARRAY))
	}
	for i, f := range STRING_ARRAY {
		if f.Size() != want[i] {
			t.Errorf("field %v (%v): size %v, want %v", i, f.Name, f.Size(), want[i])
		}
	}
	if STRING_ARRAY.Size() != 50 {
		t.Errorf("header size %v, want 50", STRING_ARRAY.Size())
	}
}

func Test_DecodeOffsets(t *testing.T) {
	blob, size_at, count_at, end_at := build_blob(19, "Harbour")
	p, err := Decode(blob, "MapsSave")
	if err != nil {
		t.Fatal(err)
	}
	tag_end := bytes.Index(blob, []byte("MapsSave\x00")) + 9
	if p.SizeOffset != size_at || p.SizeOffset != tag_end+18 {
		t.Errorf("size offset %v, want %v", p.SizeOffset, size_at)
	}
	if p.CountOffset != count_at || p.CountOffset != tag_end+46 {
		t.Errorf("count offset %v, want %v", p.CountOffset, count_at)
	}
	if p.ElementsOffset != count_at+4 {
		t.Errorf("elements offset %v, want %v", p.ElementsOffset, count_at+4)
	}
	if p.EndOffset != end_at {
		t.Errorf("end offset %v, want %v", p.EndOffset, end_at)
	}
	if p.ByteSize != 19 || p.Count() != 1 || p.Elements[0] != "Harbour" {
		t.Errorf("decoded %+v", p)
	}
}

// The worked example: one "Harbour", add "Docks".
func Test_InsertDocks(t *testing.T) {
	blob, size_at, count_at, end_at := build_blob(19, "Harbour")
	pristine := bytes.Clone(blob)

	p, err := Decode(blob, "MapsSave")
	if err != nil {
		t.Fatal(err)
	}
	out, q, err := Insert(blob, p, "Docks")
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(blob, pristine) {
		t.Error("input blob modified")
	}
	if len(out) != len(blob)+10 {
		t.Fatalf("length %v, want %v", len(out), len(blob)+10)
	}
	if got := binary.LittleEndian.Uint32(out[size_at:]); got != 29 {
		t.Errorf("byte_size %v, want 29", got)
	}
	if got := binary.LittleEndian.Uint32(out[count_at:]); got != 2 {
		t.Errorf("count %v, want 2", got)
	}

	harbour := []byte{0x08, 0x00, 0x00, 0x00, 'H', 'a', 'r', 'b', 'o', 'u', 'r', 0x00}
	if !bytes.Equal(out[count_at+4:count_at+4+12], harbour) {
		t.Errorf("first element bytes %x", out[count_at+4:count_at+16])
	}
	docks := []byte{0x06, 0x00, 0x00, 0x00, 'D', 'o', 'c', 'k', 's', 0x00}
	if !bytes.Equal(out[end_at:end_at+10], docks) {
		t.Errorf("new element bytes %x, want %x", out[end_at:end_at+10], docks)
	}

	// Everything else is where it was
	if !bytes.Equal(out[:size_at], blob[:size_at]) {
		t.Error("bytes before byte_size changed")
	}
	if !bytes.Equal(out[size_at+4:count_at], blob[size_at+4:count_at]) {
		t.Error("bytes between byte_size and count changed")
	}
	if !bytes.Equal(out[count_at+4:end_at], blob[count_at+4:end_at]) {
		t.Error("existing elements changed")
	}
	if !bytes.Equal(out[end_at+10:], blob[end_at:]) {
		t.Error("trailer changed")
	}

	if q.ByteSize != 29 || q.Count() != 2 || q.EndOffset != end_at+10 {
		t.Errorf("returned property %+v", q)
	}
	if p.Count() != 1 || p.ByteSize != 19 {
		t.Error("original property modified")
	}
}

func Test_InvariantPreserved(t *testing.T) {
	existing := []string{
		types.MapElement("Harbour"),
		types.MapElement("Factory"),
		types.MapElement("Lighthouse"),
	}
	size := uint32(0)
	for _, e := range existing {
		size += uint32(4 + len(e) + 1)
	}
	blob, _, _, _ := build_blob(size, existing...)

	out, q, err := Append(blob, "MapsSave", types.MapElement("Docks"))
	if err != nil {
		t.Fatal(err)
	}
	l := uint32(4 + len(types.MapElement("Docks")) + 1)
	if q.ByteSize != size+l {
		t.Errorf("byte_size %v, want %v", q.ByteSize, size+l)
	}

	back, err := Decode(out, "MapsSave")
	if err != nil {
		t.Fatal(err)
	}
	if back.Count() != len(existing)+1 {
		t.Fatalf("count %v", back.Count())
	}
	for i, e := range existing {
		if back.Elements[i] != e {
			t.Errorf("element %v: %q, want %q", i, back.Elements[i], e)
		}
	}
	sum := uint32(0)
	for _, e := range back.Elements {
		sum += uint32(4 + len(e) + 1)
	}
	if back.ByteSize != sum {
		t.Errorf("byte_size %v, elements take %v", back.ByteSize, sum)
	}
}

func Test_RoundTrip(t *testing.T) {
	for _, elements := range [][]string{
		{},
		{"Harbour"},
		{types.MapElement("Harbour"), types.MapElement("Docks")},
	} {
		blob, _, _, _ := build_blob(1234, elements...)
		p, err := Decode(blob, "MapsSave")
		if err != nil {
			t.Fatal(err)
		}
		if got := p.Encode(blob); !bytes.Equal(got, blob) {
			t.Errorf("%v elements: re-encode drifted", len(elements))
		}
	}
}

func Test_Duplicate(t *testing.T) {
	blob, _, _, _ := build_blob(12, "Harbour")
	p, err := Decode(blob, "MapsSave")
	if err != nil {
		t.Fatal(err)
	}
	out, _, err := Insert(blob, p, "Harbour")
	if !errors.Is(err, types.ErrDuplicateElement) {
		t.Errorf("expected ErrDuplicateElement, got %v", err)
	}
	if out != nil {
		t.Error("duplicate insert produced a blob")
	}

	// Case matters
	if _, _, err := Insert(blob, p, "harbour"); err != nil {
		t.Errorf("different case rejected: %v", err)
	}
}

func Test_NotFound(t *testing.T) {
	blob, _, _, _ := build_blob(12, "Harbour")
	_, err := Decode(blob, "ItemsSave")
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Tag without the terminator doesn't count
	_, err = Decode([]byte("xxMapsSave"), "MapsSave")
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func Test_Malformed(t *testing.T) {
	blob, size_at, count_at, end_at := build_blob(12, "Harbour")

	bad_type := bytes.Clone(blob)
	copy(bad_type[size_at-14:], "ArrayPropertX")

	bad_elem_type := bytes.Clone(blob)
	copy(bad_elem_type[count_at-16:], "StrProperty\x00\x00\x00\x00")

	big_count := bytes.Clone(blob)
	binary.LittleEndian.PutUint32(big_count[count_at:], 1000)

	no_null := bytes.Clone(blob)
	no_null[end_at-1] = 'X'

	truncated := bytes.Clone(blob[:size_at+2])

	tests := map[string][]byte{
		"container type": bad_type,
		"element type":   bad_elem_type,
		"count too big":  big_count,
		"no terminator":  no_null,
		"truncated":      truncated,
	}
	for name, b := range tests {
		_, err := Decode(b, "MapsSave")
		if !errors.Is(err, types.ErrMalformed) {
			t.Errorf("%v: expected ErrMalformed, got %v", name, err)
		}
	}
}

func Test_InsertRejectsNonASCII(t *testing.T) {
	blob, _, _, _ := build_blob(12, "Harbour")
	p, _ := Decode(blob, "MapsSave")
	for _, bad := range []string{"Do\x00cks", "Döcks"} {
		if _, _, err := Insert(blob, p, bad); !errors.Is(err, types.ErrMalformed) {
			t.Errorf("%q: expected ErrMalformed, got %v", bad, err)
		}
	}
}
