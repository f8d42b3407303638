// Package burdenstat implements an online mean/variance accumulator for
// burden samples using Welford's algorithm, with the aging and pooling
// operations the goblin controller needs to blend live measurements with
// a decaying recent window and an optional past-run profile.
package burdenstat

import "math"

// Stat is a running (count, mean, sum-of-squared-deviations) accumulator.
// The zero value is an empty accumulator with mean 0 and variance 0.
type Stat struct {
	k      float64
	meanK  float64
	sumSqK float64
}

// Count returns the effective sample count, which is fractional once Decay
// or PushDecay has been applied.
func (s Stat) Count() float64 { return s.k }

// HasData reports whether any sample has ever been pushed.
func (s Stat) HasData() bool { return s.k > 0 }

// Mean returns the running mean, 0 for an empty accumulator.
func (s Stat) Mean() float64 { return s.meanK }

// Variance returns the sample variance. The denominator is clamped to at
// least 1 so a single-sample or empty accumulator reports 0 rather than
// dividing by zero or a negative count.
func (s Stat) Variance() float64 {
	denom := s.k - 1
	if denom < 1 {
		denom = 1
	}
	return s.sumSqK / denom
}

// Deviation returns the sample standard deviation.
func (s Stat) Deviation() float64 { return math.Sqrt(s.Variance()) }

// Push folds a new sample into the accumulator (Welford's online update).
func (s *Stat) Push(x float64) {
	s.k++
	d := x - s.meanK
	s.meanK += d / s.k
	s.sumSqK += d * (x - s.meanK)
}

// PushDecay ages the accumulator by alpha before folding in x, so older
// samples count for progressively less. alpha in (0,1]; alpha=1 behaves
// like Push.
func (s *Stat) PushDecay(x float64, alpha float64) {
	s.k *= alpha
	s.sumSqK *= alpha
	s.k++
	d := x - s.meanK
	s.meanK += d / s.k
	s.sumSqK += d * (x - s.meanK)
}

// Decay ages the accumulator by alpha without a new sample, e.g. for a
// task option that wasn't chosen this frame but should still lose weight
// relative to options that were measured.
func (s *Stat) Decay(alpha float64) {
	s.k = 1 + (s.k-1)*alpha
	s.sumSqK *= alpha
}

// Scale multiplies the mean by factor and the variance by factor^2, for
// example when converting a per-frame burden into a per-tick one.
func (s *Stat) Scale(factor float64) {
	s.meanK *= factor
	s.sumSqK *= factor * factor
}

// FromMoments reconstructs a Stat from a previously computed count, mean
// and standard deviation, as read back from a persisted profile. The
// n-1 sum-of-squares is backed out from the deviation so the result
// behaves identically to one built by repeated Push calls.
func FromMoments(count, mean, deviation float64) Stat {
	if count <= 0 {
		return Stat{}
	}
	denom := count - 1
	if denom < 1 {
		denom = 1
	}
	return Stat{k: count, meanK: mean, sumSqK: deviation * deviation * denom}
}

// Pool combines two independent accumulators into their unbiased union,
// following Chan/Golub/LeVeque's parallel variance combination.
func (s Stat) Pool(o Stat) Stat {
	netCount := s.k + o.k
	if netCount == 0 {
		return Stat{}
	}
	netMean := (s.k*s.meanK + o.k*o.meanK) / netCount
	diff := o.meanK - s.meanK
	netSumSq := s.sumSqK + o.sumSqK + diff*diff*(s.k*o.k)/netCount
	return Stat{k: netCount, meanK: netMean, sumSqK: netSumSq}
}
