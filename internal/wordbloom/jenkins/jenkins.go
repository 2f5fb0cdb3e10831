// Package jenkins implements Bob Jenkins' one-at-a-time hash.
//
// The function mixes every input byte into a 32-bit accumulator with an
// add-shift-xor round, then runs a final avalanche so that each input byte
// influences many output bits. It is order sensitive: "ab" and "ba" hash to
// different values.
//
// All arithmetic is on uint32 and wraps modulo 2^32, which Go guarantees for
// unsigned integers. Outputs are bit-exact with the classic C implementation.
package jenkins

// Sum32 returns the one-at-a-time hash of s. Sum32("") is 0.
func Sum32(s string) uint32 {
	return Finish(Accumulate(0, s))
}

// Sum32Bytes is Sum32 over a byte slice.
func Sum32Bytes(b []byte) uint32 {
	return Finish(AccumulateBytes(0, b))
}

// Accumulate runs the per-byte mixing rounds of s on top of the running state
// h. Splitting a message across several Accumulate calls yields the same state
// as a single call over the concatenation, so callers can hash a shared prefix
// once and extend it with different suffixes.
func Accumulate(h uint32, s string) uint32 {
	for i := 0; i < len(s); i++ {
		h += uint32(s[i])
		h += h << 10
		h ^= h >> 6
	}
	return h
}

// AccumulateBytes is Accumulate over a byte slice.
func AccumulateBytes(h uint32, b []byte) uint32 {
	for _, c := range b {
		h += uint32(c)
		h += h << 10
		h ^= h >> 6
	}
	return h
}

// Finish applies the final avalanche to a running state.
func Finish(h uint32) uint32 {
	h += h << 3
	h ^= h >> 11
	h += h << 15
	return h
}
