// Package kmeans implements the weighted k-means clustering collaborator the
// CPHD state extractor uses to turn a resampled particle cloud into point
// estimates. The partition is computed over the kinematic position
// coordinates; centroids are weighted means over the full state vector, so
// the detection-probability coordinate of a centroid is the cluster's mean
// pD.
package kmeans

import (
	"sort"

	"github.com/duhaocui/rfs-filters/internal/cphd"
)

// State layout indices of the planar position coordinates within the full
// [pD, x, vx, y, vy] particle state.
const (
	xIndex = 1
	yIndex = 3
)

// Clusterer is a deterministic weighted k-means clusterer. Initial centroids
// are chosen by sorting particles along x and taking evenly spaced ones, so
// identical inputs always produce identical partitions with no RNG involved.
type Clusterer struct {
	maxIterations int
}

// New returns a clusterer running at most maxIterations Lloyd iterations per
// call. Zero or negative means the default of 50.
func New(maxIterations int) *Clusterer {
	if maxIterations <= 0 {
		maxIterations = 50
	}
	return &Clusterer{maxIterations: maxIterations}
}

// Cluster partitions the weighted particles into at most minClusters groups.
// Fewer groups are returned when there are fewer particles than requested or
// when a cluster loses all members. Output is sorted by centroid x then y so
// repeated runs are comparable.
func (c *Clusterer) Cluster(states [][]float64, weights []float64, minClusters int) []cphd.ClusterGroup {
	n := len(states)
	k := minClusters
	if n == 0 || k < 1 {
		return nil
	}
	if k > n {
		k = n
	}

	centroids := seedCentroids(states, k)
	assign := make([]int, n)

	for iter := 0; iter < c.maxIterations; iter++ {
		changed := false
		for i, s := range states {
			best, bestDist := 0, distSq(s, centroids[0])
			for j := 1; j < len(centroids); j++ {
				if d := distSq(s, centroids[j]); d < bestDist {
					best, bestDist = j, d
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}
		centroids = recompute(states, weights, assign, k)
	}

	// Collect members, dropping emptied clusters.
	members := make(map[int][]int)
	for i, a := range assign {
		members[a] = append(members[a], i)
	}
	groups := make([]cphd.ClusterGroup, 0, len(members))
	for j := 0; j < k; j++ {
		idx, ok := members[j]
		if !ok {
			continue
		}
		groups = append(groups, cphd.ClusterGroup{
			Centroid: weightedMean(states, weights, idx),
			Members:  idx,
		})
	}

	sort.Slice(groups, func(a, b int) bool {
		ga, gb := groups[a].Centroid, groups[b].Centroid
		if ga[xIndex] != gb[xIndex] {
			return ga[xIndex] < gb[xIndex]
		}
		return ga[yIndex] < gb[yIndex]
	})
	return groups
}

// seedCentroids picks k particles evenly spaced along the x axis.
func seedCentroids(states [][]float64, k int) [][]float64 {
	order := make([]int, len(states))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		sa, sb := states[order[a]], states[order[b]]
		if sa[xIndex] != sb[xIndex] {
			return sa[xIndex] < sb[xIndex]
		}
		return sa[yIndex] < sb[yIndex]
	})

	centroids := make([][]float64, k)
	for j := 0; j < k; j++ {
		pick := order[j*len(order)/k+(len(order)/k)/2]
		centroid := make([]float64, len(states[pick]))
		copy(centroid, states[pick])
		centroids[j] = centroid
	}
	return centroids
}

func recompute(states [][]float64, weights []float64, assign []int, k int) [][]float64 {
	centroids := make([][]float64, k)
	for j := 0; j < k; j++ {
		var idx []int
		for i, a := range assign {
			if a == j {
				idx = append(idx, i)
			}
		}
		if len(idx) == 0 {
			// Keep an emptied cluster pinned on the heaviest particle so it
			// can re-acquire members on the next iteration.
			heaviest := 0
			for i := range weights {
				if weights[i] > weights[heaviest] {
					heaviest = i
				}
			}
			centroid := make([]float64, len(states[heaviest]))
			copy(centroid, states[heaviest])
			centroids[j] = centroid
			continue
		}
		centroids[j] = weightedMean(states, weights, idx)
	}
	return centroids
}

// weightedMean averages the full state vectors of the indexed particles,
// weighted by particle mass. Falls back to an unweighted mean if the
// cluster's mass is zero.
func weightedMean(states [][]float64, weights []float64, idx []int) []float64 {
	dim := len(states[idx[0]])
	mean := make([]float64, dim)
	var mass float64
	for _, i := range idx {
		mass += weights[i]
		for d := 0; d < dim; d++ {
			mean[d] += weights[i] * states[i][d]
		}
	}
	if mass <= 0 {
		for d := range mean {
			mean[d] = 0
		}
		for _, i := range idx {
			for d := 0; d < dim; d++ {
				mean[d] += states[i][d] / float64(len(idx))
			}
		}
		return mean
	}
	for d := range mean {
		mean[d] /= mass
	}
	return mean
}

// distSq is the squared planar distance between two states' positions.
func distSq(a, b []float64) float64 {
	dx := a[xIndex] - b[xIndex]
	dy := a[yIndex] - b[yIndex]
	return dx*dx + dy*dy
}

var _ cphd.Clusterer = (*Clusterer)(nil)
