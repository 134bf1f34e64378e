// Package hash provides the 64-bit digest used to index field names.
package hash

import "github.com/cespare/xxhash/v2"

// ID returns the xxHash64 digest of a field name.
func ID(name string) uint64 {
	return xxhash.Sum64String(name)
}

// IDBytes returns the xxHash64 digest of a field name held in a byte slice,
// without converting it to a string first.
func IDBytes(name []byte) uint64 {
	return xxhash.Sum64(name)
}
