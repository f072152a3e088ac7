package cphd

import "fmt"

// StepDiagnostics summarises one time step of the recursion for logging and
// offline analysis. It is emitted through the monitoring side channel after
// extraction and never feeds back into filter state.
type StepDiagnostics struct {
	Step               int
	Measurements       int
	Particles          int
	MeanDetectionProb  float64
	ExpectedCount      float64
	EstimatedCount     int
	NeffBeforeResample float64
	NeffAfterResample  float64
}

func (d StepDiagnostics) String() string {
	return fmt.Sprintf("step %d: m=%d particles=%d avg_pd=%.3f expected_n=%.2f est_n=%d neff=%.1f/%.1f",
		d.Step, d.Measurements, d.Particles, d.MeanDetectionProb,
		d.ExpectedCount, d.EstimatedCount, d.NeffBeforeResample, d.NeffAfterResample)
}
