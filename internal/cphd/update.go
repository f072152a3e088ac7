package cphd

import "math"

// UpdateIntensity computes the unnormalised posterior particle weights from
// the predicted set and the measurement-update statistics. Each particle's
// pseudo-likelihood is the missed-detection term plus one detection term per
// measurement:
//
//	pseudo[i] = (Υ1·cdn)/(Υ0·cdn) * qd[i]
//	          + Σ_ell (Υ1^(ell)·cdn)/(Υ0·cdn) * pd[i] * L[i][ell] / c
//
// where the dot products run over cardinality hypotheses and Υ1^(ell) is the
// leave-one-out family for measurement ell. The posterior weight is
// pseudo[i] * w_pred[i].
//
// A zero or non-finite Υ0·cdn denominator means no cardinality hypothesis
// explains the data; that is the fatal ErrCardinalityCollapse condition, not
// something to divide through.
func UpdateIntensity(pred *ParticleSet, pd, qd []float64, stats *UpdateStatistics, cdnPred CardinalityDist, clutterDensity float64) ([]float64, error) {
	denom := dotCardinality(stats.Upsilon0, cdnPred)
	if denom <= 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
		return nil, errUpsilonDenominator(denom)
	}

	missRatio := dotCardinality(stats.Upsilon1, cdnPred) / denom

	m := len(stats.XI)
	detRatio := make([]float64, m)
	for ell := 0; ell < m; ell++ {
		detRatio[ell] = dotCardinality(stats.Upsilon1LeaveOneOut[ell], cdnPred) / denom
	}

	post := make([]float64, pred.Len())
	for i := range post {
		pseudo := missRatio * qd[i]
		for ell := 0; ell < m; ell++ {
			pseudo += detRatio[ell] * pd[i] * stats.Likelihoods[i][ell] / clutterDensity
		}
		post[i] = pseudo * pred.Weights[i]
	}
	return post, nil
}
