// Package report renders the outputs of a filter run: static PNG plots via
// gonum/plot and a self-contained interactive HTML page via go-echarts.
// Rendering consumes only the per-step summaries; it never touches filter
// state.
package report

import "fmt"

// RunSeries is the per-step summary of one run, aligned by step index.
// TrueCounts and OSPA may be nil when no ground truth is available.
type RunSeries struct {
	EstimatedCounts []int
	TrueCounts      []int
	MeanPD          []float64
	OSPA            []float64

	// TruePD, when positive, is drawn as a reference line on the pD plot.
	TruePD float64

	// EstimatedXY and TruthXY are the planar positions of every estimate
	// and every true target across all steps, for the overview scatter.
	EstimatedXY [][2]float64
	TruthXY     [][2]float64
}

// Steps returns the number of steps in the series.
func (s RunSeries) Steps() int { return len(s.EstimatedCounts) }

// Validate reports the first length mismatch between the aligned series.
func (s RunSeries) Validate() error {
	n := s.Steps()
	if len(s.MeanPD) != n {
		return fmt.Errorf("mean pD series has %d entries, want %d", len(s.MeanPD), n)
	}
	if s.TrueCounts != nil && len(s.TrueCounts) != n {
		return fmt.Errorf("true count series has %d entries, want %d", len(s.TrueCounts), n)
	}
	if s.OSPA != nil && len(s.OSPA) != n {
		return fmt.Errorf("ospa series has %d entries, want %d", len(s.OSPA), n)
	}
	return nil
}
