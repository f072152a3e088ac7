package cphd

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ElementarySymmetric computes the elementary symmetric functions of z.
// The result has length len(z)+1: out[0] = 1 and out[j] is the sum over all
// size-j subsets of z of the product of their elements.
//
// It uses the standard polynomial-coefficient recurrence: the out vector is
// the coefficient list of prod_i (1 + z_i*t), extended by one linear factor
// per input element. O(m²) for m inputs, no factorials involved, so the
// values stay exact up to float64 rounding for m in the hundreds.
//
// An empty input yields [1].
func ElementarySymmetric(z []float64) []float64 {
	out := make([]float64, len(z)+1)
	out[0] = 1
	for i, zi := range z {
		// Descending j keeps out[j-1] from the previous factor intact.
		for j := i + 1; j >= 1; j-- {
			out[j] += zi * out[j-1]
		}
	}
	return out
}

// elementarySymmetricWithout computes the elementary symmetric functions of
// z with index skip removed. The result has length len(z).
func elementarySymmetricWithout(z []float64, skip int) []float64 {
	reduced := make([]float64, 0, len(z)-1)
	reduced = append(reduced, z[:skip]...)
	reduced = append(reduced, z[skip+1:]...)
	return ElementarySymmetric(reduced)
}

// expSumLog exponentiates the log-sum-exp of logTerms. All combinatorial
// sums in the cardinality and upsilon recursions route through here so that
// overflow is confined to a single place: individual terms are assembled in
// log space and only the accumulated sum returns to linear space.
//
// An empty term list is an empty sum, which is 0.
func expSumLog(logTerms []float64) float64 {
	if len(logTerms) == 0 {
		return 0
	}
	return math.Exp(floats.LogSumExp(logTerms))
}

// logFactorial returns log(n!) for n >= 0.
func logFactorial(n int) float64 {
	lg, _ := math.Lgamma(float64(n) + 1)
	return lg
}

// logFallingFactorial returns log(n!/(n-k)!) for 0 <= k <= n, the log of the
// number of ordered k-selections from n items.
func logFallingFactorial(n, k int) float64 {
	return logFactorial(n) - logFactorial(n-k)
}

// logPow returns e*logBase, treating the e == 0 case as exactly 0 so that a
// zero base (logBase == -Inf) with a zero exponent does not produce NaN.
func logPow(logBase float64, e int) float64 {
	if e == 0 {
		return 0
	}
	return float64(e) * logBase
}
