package scatter

// Classic numerical-recipes LCG constants. The exact update rule is part of
// the contract: the same seed must reproduce the same scatter on every run.
const (
	lcgMultiplier uint32 = 1664525
	lcgIncrement  uint32 = 1013904223
)

// PRNG is a 32-bit linear congruential generator used for reproducible
// sensor placement. It is not safe for concurrent use; generation owns a
// single stream and consumes draws in a fixed order.
type PRNG struct {
	state uint32
}

// NewPRNG returns a generator seeded with the given value.
func NewPRNG(seed uint32) *PRNG {
	return &PRNG{state: seed}
}

// Next advances the generator and returns a value in [0, 1).
func (p *PRNG) Next() float64 {
	p.state = p.state*lcgMultiplier + lcgIncrement
	return float64(p.state) / (1 << 32)
}

// Range returns a value uniformly distributed in [min, max).
func (p *PRNG) Range(min, max float64) float64 {
	return min + p.Next()*(max-min)
}

// IntN returns an integer in [0, n). n must be positive.
func (p *PRNG) IntN(n int) int {
	return int(p.Next() * float64(n))
}
