package hash

import "github.com/cespare/xxhash/v2"

// Sum64 returns the 64-bit xxHash of s.
func Sum64(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Bucket maps feature to one of n buckets and a sign of ±1. The sign comes
// from a bit the bucket index does not use, so colliding features tend to
// cancel instead of pile up.
func Bucket(feature string, n int) (idx int, sign float32) {
	h := xxhash.Sum64String(feature)
	idx = int(h % uint64(n))
	if h>>63 == 0 {
		return idx, 1
	}
	return idx, -1
}
