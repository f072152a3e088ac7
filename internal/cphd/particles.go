package cphd

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ParticleSet is the weighted point-mass approximation of the multi-target
// intensity function at one time step. States[i] is a state vector whose
// coordinate 0 is the particle's detection probability and whose remaining
// coordinates are kinematic; Weights[i] is its non-negative mass.
//
// Invariant: len(States) == len(Weights) at all times. The weight sum is the
// expected target count, not a normalised probability. The recursion driver
// owns the set and replaces it wholesale each step; no particle survives by
// identity across steps beyond copy-on-resample.
type ParticleSet struct {
	States  [][]float64
	Weights []float64
}

// Len returns the number of particles.
func (p *ParticleSet) Len() int { return len(p.Weights) }

// TotalWeight returns the sum of particle weights, the expected target count
// carried by the intensity approximation.
func (p *ParticleSet) TotalWeight() float64 {
	return floats.Sum(p.Weights)
}

// EffectiveSampleSize returns Neff = 1/sum(normalisedWeight²), the standard
// particle-degeneracy diagnostic. A set whose mass has collapsed onto one
// particle reports 1; a uniformly weighted set reports Len(). Returns 0 for
// an empty set or one with no positive mass.
func (p *ParticleSet) EffectiveSampleSize() float64 {
	total := p.TotalWeight()
	if total <= 0 {
		return 0
	}
	var sumSq float64
	for _, w := range p.Weights {
		nw := w / total
		sumSq += nw * nw
	}
	if sumSq == 0 {
		return 0
	}
	return 1 / sumSq
}

// DetectionProbabilities returns each particle's own detection-probability
// coordinate (coordinate 0), clamped to [0,1].
func (p *ParticleSet) DetectionProbabilities() []float64 {
	pd := make([]float64, p.Len())
	for i, x := range p.States {
		pd[i] = clamp01(x[0])
	}
	return pd
}

// WeightedMeanDetectionProbability returns the weight-averaged detection
// probability coordinate across all particles, or 0 for a massless set.
func (p *ParticleSet) WeightedMeanDetectionProbability() float64 {
	total := p.TotalWeight()
	if total <= 0 {
		return 0
	}
	var acc float64
	for i, x := range p.States {
		acc += clamp01(x[0]) * p.Weights[i]
	}
	return acc / total
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	case math.IsNaN(v):
		return 0
	}
	return v
}

// CardinalityDist is a probability distribution over target-count hypotheses
// {0, ..., NMax}, stored as a vector of length NMax+1. It is normalised to
// sum 1 after every predict and update.
type CardinalityDist []float64

// Mean returns the expected cardinality sum_n n*P(n).
func (c CardinalityDist) Mean() float64 {
	var mean float64
	for n, p := range c {
		mean += float64(n) * p
	}
	return mean
}

// ArgMax returns the most probable cardinality hypothesis.
func (c CardinalityDist) ArgMax() int {
	best := 0
	for n := range c {
		if c[n] > c[best] {
			best = n
		}
	}
	return best
}

// normalize scales c to sum 1 in place. It reports errNonFiniteCardinality
// wrapped by the caller when the pre-normalisation sum is zero, negative, or
// non-finite, which signals the particle approximation has degenerated.
func (c CardinalityDist) normalize() error {
	sum := floats.Sum(c)
	if sum <= 0 || math.IsInf(sum, 0) || math.IsNaN(sum) {
		return errCardinalitySum(sum)
	}
	floats.Scale(1/sum, c)
	return nil
}
