package mathx

// Hash32 mixes 32-bit input into a well-distributed 32-bit output.
// Murmur-finalizer-style avalanche; stable across versions, no use of rand.
func Hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// Hash returns a stable mix of a seed and a counter. Repeated calls with an
// advancing counter form a reproducible counter-based random sequence, and the
// result is itself usable as a fresh seed.
func Hash(seed, counter uint32) uint32 {
	h := seed
	h ^= counter * 0x9e3779b1
	return Hash32(h)
}

// Hash2 returns a stable hash for 2D integer coordinates + seed.
func Hash2(seed uint32, x, y int32) uint32 {
	h := seed
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(y) * 0x85ebca6b
	return Hash32(h)
}

// Index draws a value in [0, n) from the (seed, counter) sequence.
// n must be > 0.
func Index(seed, counter, n uint32) uint32 {
	return Hash(seed, counter) % n
}

// Unit maps a hash value onto [0, 1).
func Unit(h uint32) float32 {
	return float32(h>>8) / float32(1<<24)
}
