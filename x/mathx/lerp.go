package mathx

// LerpU16 returns linear interpolation between a and b, with t in [0..65535] (Q16).
// Result is in [min(a,b), max(a,b)].
func LerpU16(a, b, t uint16) uint16 {
	// Unsigned 32-bit intermediates in either direction; a signed product
	// overflows when the full range meets a large t.
	if b >= a {
		return a + uint16(uint32(b-a)*uint32(t)/65535)
	}
	return a - uint16(uint32(a-b)*uint32(t)/65535)
}
