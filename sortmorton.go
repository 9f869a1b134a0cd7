package bhoctree

import "golang.org/x/exp/slices"

// packMortonIndex combines a 30-bit Morton code and a point index into a
// single uint64 key: code in the high 32 bits, index in the low 32 bits.
// Sorting these ascending as plain integers orders points by Morton code
// with the original index as a tiebreaker, so no separate stable-sort
// guarantee is needed.
func packMortonIndex(code uint32, index int) uint64 {
	return uint64(code)<<32 | uint64(uint32(index))
}

func unpackMorton(key uint64) uint32 {
	return uint32(key >> 32)
}

func unpackIndex(key uint64) int {
	return int(uint32(key))
}

// sortMortonKeys sorts keys ascending in place.
func sortMortonKeys(keys []uint64) {
	slices.Sort(keys)
}
