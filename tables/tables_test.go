package tables

import (
	"slices"
	"testing"

	"oaredit/types"
)

func Test_Default(t *testing.T) {
	tab := Default()

	keys := tab.DuplicateKeys()
	if !slices.Equal(keys, []string{"Cash", "Level", "InventoryItems", "Maps"}) {
		t.Errorf("duplicate keys %v", keys)
	}

	for _, c := range tab.Categories() {
		ci, _ := tab.Get(c)
		switch ci.Kind {
		case types.KIND_NUMERIC:
			if len(ci.ValueSentinel) == 0 || ci.ValueWidth != 4 {
				t.Errorf("%v: numeric row without value sentinel", c)
			}
			fallthrough
		case types.KIND_IDENTIFIER:
			if !slices.Equal(ci.IdentifierSentinel, SENTINEL_USER_ID) {
				t.Errorf("%v: identifier sentinel %q", c, ci.IdentifierSentinel)
			}
		case types.KIND_ARRAY:
			if ci.ArrayTag != MAPS_TAG || ci.HasDuplicate() {
				t.Errorf("%v: %+v", c, ci)
			}
		}
	}

	// Steam64 ids are 17 digits, same as the identifier sentinel
	if len(SENTINEL_USER_ID) != len("76561198000000000") {
		t.Errorf("identifier sentinel is %v bytes", len(SENTINEL_USER_ID))
	}
}
