// Package dupnames works out the hashed file names the game looks for.
//
// For a category key K and identifier I the game reads
// hex(md5(I + K)) + ".sav" from the same directory as the live save.
package dupnames

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"

	"oaredit/tables"
)

// Name is the bare file name for one key.
func Name(identifier, key string) string {
	sum := md5.Sum([]byte(identifier + key))
	return hex.EncodeToString(sum[:]) + tables.SAVE_EXT
}

// Resolve maps every key to its full path under dir.  No I/O happens here;
// the same arguments always give the same map.
func Resolve(identifier, dir string, keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k] = filepath.Join(dir, Name(identifier, k))
	}
	return out
}
