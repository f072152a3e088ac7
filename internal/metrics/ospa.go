// Package metrics scores multi-target estimates against ground truth with
// the OSPA (Optimal SubPattern Assignment) distance: a per-step metric that
// penalises both localisation error of optimally matched pairs and the
// cardinality mismatch between the two sets.
package metrics

import (
	"fmt"
	"math"
)

// OSPAParams configure the metric: Cutoff caps per-pair distances and prices
// each unmatched target, Order is the p-norm exponent.
type OSPAParams struct {
	Cutoff float64
	Order  float64
}

// DefaultOSPAParams returns the conventional c=100, p=1 configuration.
func DefaultOSPAParams() OSPAParams {
	return OSPAParams{Cutoff: 100, Order: 1}
}

// Validate reports the first problem with the parameters.
func (p OSPAParams) Validate() error {
	if p.Cutoff <= 0 {
		return fmt.Errorf("ospa cutoff must be positive, got %g", p.Cutoff)
	}
	if p.Order < 1 {
		return fmt.Errorf("ospa order must be at least 1, got %g", p.Order)
	}
	return nil
}

// OSPA computes the OSPA distance between two planar point sets. Estimates
// are [x, vx, y, vy] kinematic vectors or bare [x, y] points; only the
// position coordinates enter the distance. Two empty sets are at distance 0;
// one empty set scores the full cutoff.
func OSPA(estimates, truth [][]float64, params OSPAParams) (float64, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}

	n, m := len(estimates), len(truth)
	if n == 0 && m == 0 {
		return 0, nil
	}
	if n == 0 || m == 0 {
		return params.Cutoff, nil
	}

	cost := make([][]float64, n)
	for i := range cost {
		cost[i] = make([]float64, m)
		ex, ey, err := position(estimates[i])
		if err != nil {
			return 0, fmt.Errorf("estimate %d: %w", i, err)
		}
		for j := range cost[i] {
			tx, ty, err := position(truth[j])
			if err != nil {
				return 0, fmt.Errorf("truth %d: %w", j, err)
			}
			d := math.Hypot(ex-tx, ey-ty)
			cost[i][j] = math.Pow(math.Min(d, params.Cutoff), params.Order)
		}
	}

	assign := hungarianAssign(cost)

	var sum float64
	matched := 0
	for i, j := range assign {
		if j < 0 {
			continue
		}
		sum += cost[i][j]
		matched++
	}

	// Every unmatched point on either side is priced at the cutoff.
	larger := n
	if m > larger {
		larger = m
	}
	sum += float64(larger-matched) * math.Pow(params.Cutoff, params.Order)

	return math.Pow(sum/float64(larger), 1/params.Order), nil
}

// position extracts the planar position from a state or measurement vector.
func position(v []float64) (x, y float64, err error) {
	switch len(v) {
	case 2:
		return v[0], v[1], nil
	case 4:
		return v[0], v[2], nil
	default:
		return 0, 0, fmt.Errorf("vector has %d coordinates, want 2 or 4", len(v))
	}
}
