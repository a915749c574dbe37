package service

import "math/rand/v2"

// NoiseSource draws the noise term added to a raw score.
type NoiseSource interface {
	// Draw returns an integer in [0, max]. A max of zero or less yields zero.
	Draw(max int) int
}

// UniformNoise draws uniformly from the process-wide generator. It is safe for
// concurrent use.
type UniformNoise struct{}

// Draw implements NoiseSource.
func (UniformNoise) Draw(max int) int {
	if max <= 0 {
		return 0
	}
	return rand.IntN(max + 1)
}

// FixedNoise always draws the same value, bounded to [0, max]. Tests use it to
// assert exact scores.
type FixedNoise int

// Draw implements NoiseSource.
func (f FixedNoise) Draw(max int) int {
	if max <= 0 || int(f) <= 0 {
		return 0
	}
	if int(f) > max {
		return max
	}
	return int(f)
}
