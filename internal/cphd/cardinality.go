package cphd

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/combin"
)

// PredictCardinality advances the posterior cardinality distribution one
// time step. Survival is modelled as binomial thinning of the previous
// count: each of ell targets independently survives with the particle
// weighted average survival probability. The thinned distribution is then
// convolved with a Poisson birth distribution of mean birthMass and clipped
// to the representable range 0..NMax.
//
// weights and survival run over the previous step's particles. When the
// total particle weight is zero the weighted average survival probability is
// undefined; it is taken as 0, so all predicted mass flows through the birth
// convolution.
//
// Every term is assembled in log space (binomial coefficient, survival
// powers, Poisson factor) before summation, which keeps hypotheses up to
// NMax well clear of overflow.
func PredictCardinality(prev CardinalityDist, weights, survival []float64, birthMass float64) (CardinalityDist, error) {
	nMax := len(prev) - 1

	// Weighted average survival and failure probabilities.
	avgPs, avgQs := 0.0, 1.0
	if total := floats.Sum(weights); total > 0 {
		var ps, qs float64
		for i, s := range survival {
			ps += s * weights[i]
			qs += (1 - s) * weights[i]
		}
		avgPs = ps / total
		avgQs = qs / total
	}
	logAvgPs := math.Log(avgPs)
	logAvgQs := math.Log(avgQs)

	// Survival step: probability that exactly j of the previous targets
	// survive, summed over previous-count hypotheses ell >= j.
	survived := make(CardinalityDist, nMax+1)
	terms := make([]float64, 0, nMax+1)
	for j := 0; j <= nMax; j++ {
		terms = terms[:0]
		for ell := j; ell <= nMax; ell++ {
			if prev[ell] <= 0 {
				continue
			}
			lt := combin.LogGeneralizedBinomial(float64(ell), float64(j)) +
				logPow(logAvgPs, j) +
				logPow(logAvgQs, ell-j) +
				math.Log(prev[ell])
			terms = append(terms, lt)
		}
		survived[j] = expSumLog(terms)
	}

	// Birth step: convolve with Poisson(birthMass), clipped to 0..NMax.
	pred := make(CardinalityDist, nMax+1)
	for n := 0; n <= nMax; n++ {
		terms = terms[:0]
		for j := 0; j <= n; j++ {
			if survived[n-j] <= 0 {
				continue
			}
			if birthMass == 0 && j > 0 {
				continue
			}
			lt := -birthMass + logPow(math.Log(birthMass), j) - logFactorial(j) +
				math.Log(survived[n-j])
			terms = append(terms, lt)
		}
		pred[n] = expSumLog(terms)
	}

	if err := pred.normalize(); err != nil {
		return nil, err
	}
	return pred, nil
}

// UpdateCardinality applies the CPHD cardinality measurement update:
// the predicted distribution is reweighted by the upsilon0 statistics and
// renormalised. A zero or non-finite normalisation sum is the fatal
// degeneracy condition described on ErrCardinalityCollapse.
func UpdateCardinality(upsilon0 []float64, pred CardinalityDist) (CardinalityDist, error) {
	post := make(CardinalityDist, len(pred))
	for n := range pred {
		post[n] = upsilon0[n] * pred[n]
	}
	if err := post.normalize(); err != nil {
		return nil, err
	}
	return post, nil
}
