package cphd

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// UpdateStatistics holds the combinatorial statistics of one measurement
// update: the elementary symmetric functions of the per-measurement
// pseudo-likelihoods and the three upsilon families evaluated across all
// cardinality hypotheses. The likelihood matrix is carried through for reuse
// by the intensity update so it is computed exactly once per step.
type UpdateStatistics struct {
	// XI[ell] = sum_i pD[i]*w[i]*L[i][ell] / clutterDensity, the
	// pseudo-likelihood mass of measurement ell.
	XI []float64

	// ESFFull has length m+1: the elementary symmetric functions of XI.
	ESFFull []float64

	// ESFLeaveOneOut[ell] has length m: the elementary symmetric functions
	// of XI with measurement ell removed. Empty when m == 0.
	ESFLeaveOneOut [][]float64

	// Upsilon0 and Upsilon1 have length NMax+1, indexed by cardinality
	// hypothesis.
	Upsilon0 []float64
	Upsilon1 []float64

	// Upsilon1LeaveOneOut[ell] has length NMax+1: the shifted upsilon
	// family with measurement ell excluded. Empty when m == 0.
	Upsilon1LeaveOneOut [][]float64

	// Likelihoods[i][ell] is the measurement-model density of measurement
	// ell at particle i, passed through for the intensity update.
	Likelihoods [][]float64
}

// ComputeUpdateStatistics evaluates the CPHD measurement-update statistics
// for the predicted particle set against m measurements.
//
// pd and qd are the per-particle detection and non-detection probabilities
// (qd[i] = 1-pd[i]); likelihoods is the particles × measurements density
// matrix; clutterRate and clutterDensity parameterise the Poisson clutter
// model; nMax bounds the cardinality hypotheses.
//
// Each upsilon value sums, over the number j of detected targets, a Poisson
// clutter factor, a falling-factorial target-selection factor, a power of
// the weighted average non-detection probability, and the matching ESF
// value. The terms span many orders of magnitude, so each is assembled in
// log space and only the per-hypothesis sum is exponentiated.
func ComputeUpdateStatistics(pred *ParticleSet, pd, qd []float64, likelihoods [][]float64, clutterRate, clutterDensity float64, nMax int) *UpdateStatistics {
	m := 0
	if len(likelihoods) > 0 {
		m = len(likelihoods[0])
	}

	s := &UpdateStatistics{
		XI:                  make([]float64, m),
		Upsilon0:            make([]float64, nMax+1),
		Upsilon1:            make([]float64, nMax+1),
		ESFLeaveOneOut:      make([][]float64, m),
		Upsilon1LeaveOneOut: make([][]float64, m),
		Likelihoods:         likelihoods,
	}

	// Per-measurement pseudo-likelihood masses.
	for ell := 0; ell < m; ell++ {
		var acc float64
		for i := range pred.Weights {
			acc += pd[i] * pred.Weights[i] * likelihoods[i][ell]
		}
		s.XI[ell] = acc / clutterDensity
	}

	s.ESFFull = ElementarySymmetric(s.XI)
	for ell := 0; ell < m; ell++ {
		s.ESFLeaveOneOut[ell] = elementarySymmetricWithout(s.XI, ell)
	}

	// Weighted average non-detection probability. A massless predicted set
	// leaves it undefined; treat as 0 like the survival average.
	logAvgQd := math.Inf(-1)
	if total := pred.TotalWeight(); total > 0 {
		var acc float64
		for i, q := range qd {
			acc += q * pred.Weights[i]
		}
		logAvgQd = math.Log(acc / total)
	}

	logClutter := math.Log(clutterRate)
	terms := make([]float64, 0, m+1)

	for n := 0; n <= nMax; n++ {
		// Upsilon0: all j detected targets drawn from n, m-j clutter.
		terms = terms[:0]
		for j := 0; j <= min(m, n); j++ {
			if s.ESFFull[j] <= 0 {
				continue
			}
			if clutterRate == 0 && m-j > 0 {
				continue
			}
			lt := -clutterRate + logPow(logClutter, m-j) +
				logFallingFactorial(n, j) +
				logPow(logAvgQd, n-j) +
				math.Log(s.ESFFull[j])
			terms = append(terms, lt)
		}
		s.Upsilon0[n] = expSumLog(terms)

		// Upsilon1: one extra target consumed by the shift, so the
		// falling factorial draws j+1 from n and needs n >= j+1.
		terms = terms[:0]
		for j := 0; j <= min(m, n); j++ {
			if n < j+1 {
				break
			}
			if s.ESFFull[j] <= 0 {
				continue
			}
			if clutterRate == 0 && m-j > 0 {
				continue
			}
			lt := -clutterRate + logPow(logClutter, m-j) +
				logFallingFactorial(n, j+1) +
				logPow(logAvgQd, n-(j+1)) +
				math.Log(s.ESFFull[j])
			terms = append(terms, lt)
		}
		s.Upsilon1[n] = expSumLog(terms)
	}

	// Upsilon1 with one measurement left out: the clutter exponent drops by
	// one and the ESF values come from the reduced set.
	for ell := 0; ell < m; ell++ {
		col := make([]float64, nMax+1)
		for n := 0; n <= nMax; n++ {
			terms = terms[:0]
			for j := 0; j <= min(m-1, n); j++ {
				if n < j+1 {
					break
				}
				esf := s.ESFLeaveOneOut[ell][j]
				if esf <= 0 {
					continue
				}
				if clutterRate == 0 && m-1-j > 0 {
					continue
				}
				lt := -clutterRate + logPow(logClutter, m-1-j) +
					logFallingFactorial(n, j+1) +
					logPow(logAvgQd, n-(j+1)) +
					math.Log(esf)
				terms = append(terms, lt)
			}
			col[n] = expSumLog(terms)
		}
		s.Upsilon1LeaveOneOut[ell] = col
	}

	return s
}

// dotCardinality returns the inner product of an upsilon family with a
// cardinality distribution.
func dotCardinality(upsilon []float64, cdn CardinalityDist) float64 {
	return floats.Dot(upsilon, cdn)
}
