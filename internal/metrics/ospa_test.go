package metrics

import (
	"math"
	"testing"
)

func TestHungarianAssign_Empty(t *testing.T) {
	if got := hungarianAssign(nil); got != nil {
		t.Errorf("expected nil for empty matrix, got %v", got)
	}
	got := hungarianAssign([][]float64{{}, {}})
	if len(got) != 2 || got[0] != -1 || got[1] != -1 {
		t.Errorf("expected all unassigned for zero columns, got %v", got)
	}
}

func TestHungarianAssign_Optimal(t *testing.T) {
	// Optimal total is 10: 0→0 (1), 1→1 (4), 2→2 (5); greedy row-by-row
	// picking would reach 15.
	cost := [][]float64{
		{1, 2, 3},
		{4, 4, 6},
		{9, 8, 5},
	}
	assign := hungarianAssign(cost)
	if len(assign) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(assign))
	}
	var total float64
	for i, j := range assign {
		if j < 0 {
			t.Fatalf("row %d unassigned", i)
		}
		total += cost[i][j]
	}
	if total != 10 {
		t.Errorf("total cost %g, want 10 (assignments %v)", total, assign)
	}
}

func TestHungarianAssign_Rectangular(t *testing.T) {
	// Three rows, two columns: one row must stay unmatched.
	cost := [][]float64{
		{1, 9},
		{9, 1},
		{5, 5},
	}
	assign := hungarianAssign(cost)
	unmatched := 0
	seen := map[int]bool{}
	for _, j := range assign {
		if j < 0 {
			unmatched++
			continue
		}
		if seen[j] {
			t.Fatalf("column %d assigned twice: %v", j, assign)
		}
		seen[j] = true
	}
	if unmatched != 1 {
		t.Errorf("expected exactly 1 unmatched row, got %d (%v)", unmatched, assign)
	}
	if assign[0] != 0 || assign[1] != 1 {
		t.Errorf("expected rows 0 and 1 to take their cheap columns, got %v", assign)
	}
}

func TestOSPA_EmptySets(t *testing.T) {
	params := DefaultOSPAParams()

	d, err := OSPA(nil, nil, params)
	if err != nil || d != 0 {
		t.Errorf("two empty sets: d=%g err=%v, want 0", d, err)
	}

	d, err = OSPA([][]float64{{1, 2}}, nil, params)
	if err != nil || d != params.Cutoff {
		t.Errorf("one empty set: d=%g err=%v, want cutoff %g", d, err, params.Cutoff)
	}
}

func TestOSPA_PerfectMatch(t *testing.T) {
	est := [][]float64{{3, 0, 4, 0}, {-1, 0, -2, 0}}
	truth := [][]float64{{-1, -2}, {3, 4}}
	d, err := OSPA(est, truth, DefaultOSPAParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d > 1e-12 {
		t.Errorf("perfectly matched sets: d=%g, want 0", d)
	}
}

func TestOSPA_CardinalityPenalty(t *testing.T) {
	params := OSPAParams{Cutoff: 10, Order: 1}
	est := [][]float64{{0, 0}, {50, 50}}
	truth := [][]float64{{0, 0}}

	d, err := OSPA(est, truth, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One perfect match plus one unmatched estimate at full cutoff over the
	// larger set size: (0 + 10) / 2.
	if math.Abs(d-5) > 1e-12 {
		t.Errorf("d=%g, want 5", d)
	}
}

func TestOSPA_Validation(t *testing.T) {
	if _, err := OSPA(nil, nil, OSPAParams{Cutoff: 0, Order: 1}); err == nil {
		t.Error("expected error for zero cutoff")
	}
	if _, err := OSPA(nil, nil, OSPAParams{Cutoff: 1, Order: 0.5}); err == nil {
		t.Error("expected error for order below 1")
	}
	if _, err := OSPA([][]float64{{1, 2, 3}}, [][]float64{{0, 0}}, DefaultOSPAParams()); err == nil {
		t.Error("expected error for a 3-coordinate vector")
	}
}
