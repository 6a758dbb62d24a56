package types

import "strings"

const (
	map_prefix = "/Game/Maps/Menu/BP/Shop/Maps/ShopItem_Map_"
	map_middle = ".ShopItem_Map_"
	map_suffix = "_C"
)

// MapElement builds the array element string for a short map name, e.g.
// "Docks" -> "/Game/Maps/Menu/BP/Shop/Maps/ShopItem_Map_Docks.ShopItem_Map_Docks_C".
func MapElement(name string) string {
	return map_prefix + name + map_middle + name + map_suffix
}

// ShortMapName undoes MapElement. Elements that don't follow the template come
// back unchanged with ok == false.
func ShortMapName(element string) (string, bool) {
	rest, ok := strings.CutPrefix(element, map_prefix)
	if !ok {
		return element, false
	}
	name, tail, ok := strings.Cut(rest, map_middle)
	if !ok || tail != name+map_suffix {
		return element, false
	}
	return name, true
}
