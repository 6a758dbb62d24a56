package types

import (
	"fmt"
	"strings"
)

// Kind says how a category gets edited.
type Kind int

const (
	// KIND_IDENTIFIER templates only carry the identifier sentinel (unlock-style saves).
	KIND_IDENTIFIER Kind = iota
	// KIND_NUMERIC templates carry the identifier sentinel plus a value sentinel
	// that becomes a little-endian int32.
	KIND_NUMERIC
	// KIND_ARRAY edits the live save in place by growing an array-of-strings property.
	KIND_ARRAY
)

func (k Kind) String() string {
	switch k {
	case KIND_IDENTIFIER:
		return "identifier"
	case KIND_NUMERIC:
		return "numeric"
	case KIND_ARRAY:
		return "array"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Category names one logical save file.
type Category string

const (
	CAT_CASH   Category = "cash"
	CAT_LEVEL  Category = "level"
	CAT_ITEMS  Category = "items"
	CAT_MAPS   Category = "maps"
	CAT_ADDMAP Category = "add_map"
)

// CategoryInfo is one row of the category table.
type CategoryInfo struct {
	Category Category
	Kind     Kind

	// FileType is both the template base name ("Cash" -> "Cash.sav") and the
	// extension glued onto the identifier for the live file ("{id}Cash.sav").
	FileType string

	// IdentifierSentinel is replaced by the identifier in every template.
	IdentifierSentinel []byte
	// ValueSentinel is only set for KIND_NUMERIC.
	ValueSentinel []byte
	// ValueWidth is the encoded width of the numeric replacement.
	ValueWidth int

	// DuplicateKey feeds the hashed duplicate name. Empty means no duplicate is written.
	DuplicateKey string

	// ArrayTag is the property name searched for by KIND_ARRAY categories.
	ArrayTag string
}

// HasDuplicate reports whether writes to this category are mirrored into a hashed file.
func (ci CategoryInfo) HasDuplicate() bool {
	return ci.DuplicateKey != ""
}

// Table is an immutable lookup from category to its description.
// Build one with NewTable; the zero value is empty.
type Table struct {
	order []Category
	rows  map[Category]CategoryInfo
}

// NewTable builds a table. Row order is kept; a repeated category replaces
// the earlier row but keeps its position.
func NewTable(rows ...CategoryInfo) Table {
	t := Table{rows: map[Category]CategoryInfo{}}
	for _, r := range rows {
		if _, seen := t.rows[r.Category]; !seen {
			t.order = append(t.order, r.Category)
		}
		t.rows[r.Category] = r
	}
	return t
}

// Get returns a copy of the row for c.
func (t Table) Get(c Category) (CategoryInfo, bool) {
	ci, ok := t.rows[c]
	return ci, ok
}

// Categories lists the categories in table order.
func (t Table) Categories() []Category {
	return append([]Category{}, t.order...)
}

// DuplicateKeys lists the distinct duplicate keys in table order.
func (t Table) DuplicateKeys() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, c := range t.order {
		k := t.rows[c].DuplicateKey
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// ParseCategory matches a user-supplied category name, ignoring case and
// treating '-' like '_'.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch c {
	case CAT_CASH, CAT_LEVEL, CAT_ITEMS, CAT_MAPS, CAT_ADDMAP:
		return c, nil
	}
	return "", fmt.Errorf("%q is not a category (expected one of cash, level, items, maps, add_map)", s)
}
