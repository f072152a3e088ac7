package kmeans

import (
	"math"
	"testing"
)

// cloud builds a particle cloud around the given centres, 5 particles per
// centre in a small deterministic pattern.
func cloud(centres ...[2]float64) ([][]float64, []float64) {
	offsets := [][2]float64{{0, 0}, {0.2, 0}, {-0.2, 0}, {0, 0.2}, {0, -0.2}}
	var states [][]float64
	var weights []float64
	for _, c := range centres {
		for _, o := range offsets {
			states = append(states, []float64{0.9, c[0] + o[0], 0, c[1] + o[1], 0})
			weights = append(weights, 0.2)
		}
	}
	return states, weights
}

func TestCluster_SeparatesWellSpacedGroups(t *testing.T) {
	states, weights := cloud([2]float64{-20, -20}, [2]float64{20, 20})

	groups := New(0).Cluster(states, weights, 2)
	if len(groups) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(groups))
	}
	// Sorted by centroid x: negative centre first.
	if math.Abs(groups[0].Centroid[xIndex]+20) > 0.5 || math.Abs(groups[1].Centroid[xIndex]-20) > 0.5 {
		t.Errorf("centroids %g and %g, want about -20 and 20",
			groups[0].Centroid[xIndex], groups[1].Centroid[xIndex])
	}
	for _, g := range groups {
		if len(g.Members) != 5 {
			t.Errorf("cluster at x=%g has %d members, want 5", g.Centroid[xIndex], len(g.Members))
		}
	}
}

func TestCluster_CentroidIsWeightedMean(t *testing.T) {
	states := [][]float64{
		{1.0, 0, 0, 0, 0},
		{0.0, 2, 0, 0, 0},
	}
	weights := []float64{3, 1}

	groups := New(0).Cluster(states, weights, 1)
	if len(groups) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(groups))
	}
	// Weighted means: pD = (3·1+1·0)/4, x = (3·0+1·2)/4.
	if math.Abs(groups[0].Centroid[0]-0.75) > 1e-12 {
		t.Errorf("centroid pD = %g, want 0.75", groups[0].Centroid[0])
	}
	if math.Abs(groups[0].Centroid[xIndex]-0.5) > 1e-12 {
		t.Errorf("centroid x = %g, want 0.5", groups[0].Centroid[xIndex])
	}
}

func TestCluster_Deterministic(t *testing.T) {
	states, weights := cloud([2]float64{-10, 5}, [2]float64{12, -3}, [2]float64{0, 30})

	a := New(0).Cluster(states, weights, 3)
	b := New(0).Cluster(states, weights, 3)
	if len(a) != len(b) {
		t.Fatalf("cluster counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		for d := range a[i].Centroid {
			if a[i].Centroid[d] != b[i].Centroid[d] {
				t.Fatalf("centroid %d differs between identical runs", i)
			}
		}
	}
}

func TestCluster_DegenerateInputs(t *testing.T) {
	if got := New(0).Cluster(nil, nil, 3); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}

	// More clusters requested than particles: one cluster per particle.
	states := [][]float64{{0.5, 1, 0, 1, 0}, {0.5, 9, 0, 9, 0}}
	weights := []float64{1, 1}
	groups := New(0).Cluster(states, weights, 5)
	if len(groups) != 2 {
		t.Errorf("expected 2 clusters for 2 particles, got %d", len(groups))
	}
}
