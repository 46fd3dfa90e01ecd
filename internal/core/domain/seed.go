package domain

// Seed is the random seed of a generation request.
type Seed int64

// ToU32 wraps the seed into the unsigned 32-bit range expected by the backend.
func (s Seed) ToU32() uint32 {
	return uint32(s) //nolint:gosec // wrapping modulo 2^32 is the intended conversion
}
