// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mockdata

import "math"

const (
	lcgMultiplier = 16807
	lcgModulus    = 2147483647 // 2^31 - 1
)

// Source is a deterministic Park-Miller sequence derived from one seed.
// Every generation run owns its own Source; instances are not safe for
// concurrent use and must not be shared.
type Source struct {
	state int64
}

// NewSource creates a Source from seed. Seeds that would collapse the
// sequence to zero are remapped to a valid state.
func NewSource(seed int64) *Source {
	state := seed % lcgModulus
	if state <= 0 {
		state += lcgModulus - 1
	}
	if state == 0 {
		state = 1
	}
	return &Source{state: state}
}

// Float64 returns the next value in [0, 1).
func (s *Source) Float64() float64 {
	s.state = (s.state * lcgMultiplier) % lcgModulus
	return float64(s.state-1) / float64(lcgModulus-1)
}

// Gaussian returns a normally distributed sample via the Box-Muller
// transform, consuming exactly two uniforms per call.
func (s *Source) Gaussian(mean, stddev float64) float64 {
	u1 := s.Float64()
	u2 := s.Float64()
	if u1 < 1e-12 {
		u1 = 1e-12
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + z*stddev
}
