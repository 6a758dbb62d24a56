package tables

// The category table.  Sentinels are whatever was baked into the shipped
// template files, so none of this is configurable.

import "oaredit/types"

// Sentinels as they appear in the templates.
var (
	SENTINEL_USER_ID = []byte("my_stupid_user_id")
	SENTINEL_CASH    = []byte("my_stupid_cash_id")
	SENTINEL_LEVEL   = []byte("my_stupid_level_id")
)

// The array property holding unlocked maps.
const MAPS_TAG = "MapsSave"

// Fixed suffix for both the live and the duplicate files.
const SAVE_EXT = ".sav"

// Default returns the table the game's templates were built for.
// Callers get a fresh Table each time, but the rows never change.
func Default() types.Table {
	return types.NewTable(
		types.CategoryInfo{
			Category:           types.CAT_CASH,
			Kind:               types.KIND_NUMERIC,
			FileType:           "Cash",
			IdentifierSentinel: SENTINEL_USER_ID,
			ValueSentinel:      SENTINEL_CASH,
			ValueWidth:         4,
			DuplicateKey:       "Cash",
		},
		types.CategoryInfo{
			Category:           types.CAT_LEVEL,
			Kind:               types.KIND_NUMERIC,
			FileType:           "Level",
			IdentifierSentinel: SENTINEL_USER_ID,
			ValueSentinel:      SENTINEL_LEVEL,
			ValueWidth:         4,
			DuplicateKey:       "Level",
		},
		types.CategoryInfo{
			Category:           types.CAT_ITEMS,
			Kind:               types.KIND_IDENTIFIER,
			FileType:           "InventoryItems",
			IdentifierSentinel: SENTINEL_USER_ID,
			DuplicateKey:       "InventoryItems",
		},
		types.CategoryInfo{
			Category:           types.CAT_MAPS,
			Kind:               types.KIND_IDENTIFIER,
			FileType:           "Maps",
			IdentifierSentinel: SENTINEL_USER_ID,
			DuplicateKey:       "Maps",
		},
		// Same file as CAT_MAPS, but edited where it lives rather than from a template.
		// No duplicate: only the live file is touched.
		types.CategoryInfo{
			Category: types.CAT_ADDMAP,
			Kind:     types.KIND_ARRAY,
			FileType: "Maps",
			ArrayTag: MAPS_TAG,
		},
	)
}
