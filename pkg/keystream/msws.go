package keystream

import "math/bits"

// MSWS is the middle-square Weyl sequence mixer.
// S is the Weyl increment and stays fixed once seeded.
type MSWS struct {
	X, W, S uint64
}

// Next squares X, adds the Weyl sequence, swaps the 32-bit halves
// and returns the low half.
func (m *MSWS) Next() uint32 {
	m.X *= m.X
	m.W += m.S
	m.X += m.W
	m.X = bits.RotateLeft64(m.X, 32)
	return uint32(m.X)
}
