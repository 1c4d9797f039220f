package synth

const (
	mixMultiplier uint32 = 1103515245
	mixIncrement  uint32 = 12345
	mixFinalizer  uint32 = 2654435761

	// seedStride spreads neighbouring tool seeds before the caller seed is added.
	seedStride uint32 = 97
	// sampleStride separates the per-record inputs derived from one base hash.
	sampleStride uint32 = 31
)

// mix is a linear congruential step followed by an xor-shift and a
// multiplicative finalizer. Each stage wraps modulo 2^32.
func mix(x uint32) uint32 {
	v := x*mixMultiplier + mixIncrement
	v ^= v >> 11
	return v * mixFinalizer
}

// baseHash combines a tool seed with the caller-provided seed.
func baseHash(toolSeed, argSeed uint32) uint32 {
	return mix(toolSeed*seedStride + argSeed)
}

// sampleHash derives the hash backing the i-th sample record.
func sampleHash(base uint32, i int) uint32 {
	return mix(base + uint32(i)*sampleStride)
}
