package quant

import "math"

// RunningStats accumulates mean and variance incrementally (Welford).
// The zero value is ready to use.
type RunningStats struct {
	n    int
	mean float64
	m2   float64
}

// Push adds one observation.
func (s *RunningStats) Push(x float64) {
	s.n++
	delta := x - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (x - s.mean)
}

// Count returns the number of observations so far.
func (s *RunningStats) Count() int { return s.n }

// Mean returns the running mean, or 0 with no observations.
func (s *RunningStats) Mean() float64 { return s.mean }

// Variance returns the population variance.
func (s *RunningStats) Variance() float64 {
	if s.n < 2 {
		return 0
	}
	return s.m2 / float64(s.n)
}

// StdDev returns the population standard deviation.
func (s *RunningStats) StdDev() float64 {
	return math.Sqrt(s.Variance())
}
