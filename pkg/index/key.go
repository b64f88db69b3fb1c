package index

// MaxFastLength is the number of leading positions a packed key covers.
// Patterns up to this length are answered straight from a bucket; longer ones
// are verified against the remaining positions.
const MaxFastLength = 6

// packKey packs the letters of word selected by mask into a 48-bit key, one
// byte per position. Positions outside the mask, and positions at or beyond
// MaxFastLength, contribute zero.
func packKey(mask uint32, word string) uint64 {
	var key uint64
	n := min(len(word), MaxFastLength)
	for i := 0; i < n; i++ {
		if mask>>i&1 == 1 {
			key |= uint64(word[i]) << (8 * i)
		}
	}
	return key
}

// subsetCount is the number of distinct position subsets packKey can see for
// a word of the given length.
func subsetCount(length int) uint32 {
	return 1 << min(length, MaxFastLength)
}

// patternMask returns the mask of concrete positions among the first
// MaxFastLength of pattern.
func patternMask(pattern string, wildcard byte) uint32 {
	var mask uint32
	n := min(len(pattern), MaxFastLength)
	for i := 0; i < n; i++ {
		if pattern[i] != wildcard {
			mask |= 1 << i
		}
	}
	return mask
}
