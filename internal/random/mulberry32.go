// Package random provides a small seeded pseudo-random stream. Curves built
// from the same seed and the same sequence of calls have the same shape.
package random

// Mulberry32 is a 32-bit state generator. It is not safe for concurrent use;
// each curve owns its own stream.
type Mulberry32 struct {
	state uint32
}

// New returns a stream starting from seed.
func New(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Uint32 returns the next 32 random bits.
func (m *Mulberry32) Uint32() uint32 {
	m.state += 0x6d2b79f5
	t := (m.state ^ m.state>>15) * (1 | m.state)
	t = (t + (t^t>>7)*(61|t)) ^ t
	return t ^ t>>14
}

// Float64 returns a value in [0, 1).
func (m *Mulberry32) Float64() float64 {
	return float64(m.Uint32()) / (1 << 32)
}
