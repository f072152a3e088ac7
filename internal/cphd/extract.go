package cphd

import "math"

// minExtractionMass is the aggregate-mass threshold below which no confident
// detection exists. It applies both to the whole particle set (no targets
// reported at all) and to individual clusters (clusters under the threshold
// are treated as clutter-induced and discarded).
const minExtractionMass = 0.5

// Estimate is the per-time-step filter output: the estimated target count,
// one kinematic state vector per promoted cluster (the detection-probability
// coordinate is stripped), and the weighted mean detection probability over
// the full resampled particle set.
type Estimate struct {
	Step                int
	Count               int
	States              [][]float64
	MeanDetectionProb   float64
	ExpectedCardinality float64
	MAPCardinality      int
}

// ExtractEstimates clusters the resampled particle set and promotes every
// cluster whose aggregate weight exceeds minExtractionMass to a point
// estimate. clusterHint is the desired minimum number of clusters passed to
// the collaborator, normally round(expected cardinality).
//
// If the set's total mass is at or below the threshold the result is a
// zero-count estimate with an empty state list; that is the recoverable
// degenerate-extraction case, not an error.
func ExtractEstimates(p *ParticleSet, clusterer Clusterer, clusterHint int) (int, [][]float64) {
	if p.TotalWeight() <= minExtractionMass {
		return 0, nil
	}
	if clusterHint < 1 {
		clusterHint = 1
	}

	groups := clusterer.Cluster(p.States, p.Weights, clusterHint)

	count := 0
	var states [][]float64
	for _, g := range groups {
		var mass float64
		for _, idx := range g.Members {
			mass += p.Weights[idx]
		}
		if mass <= minExtractionMass {
			continue
		}
		// Kinematic sub-vector only; coordinate 0 is the particle's
		// detection probability.
		kin := make([]float64, len(g.Centroid)-1)
		copy(kin, g.Centroid[1:])
		states = append(states, kin)
		count++
	}
	return count, states
}

// clusterHintFromCardinality converts an expected cardinality into the
// desired-minimum-clusters hint for the clustering collaborator.
func clusterHintFromCardinality(mean float64) int {
	h := int(math.Round(mean))
	if h < 1 {
		h = 1
	}
	return h
}
