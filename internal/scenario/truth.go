// Package scenario generates synthetic multi-target ground truth and the
// cluttered, detection-thinned measurement scans the filter consumes. All
// randomness comes from a caller-supplied seeded RNG, so a scenario is fully
// reproducible.
package scenario

import "fmt"

// Target is one ground-truth trajectory: constant-velocity motion from
// Initial, alive on steps [Birth, Death).
type Target struct {
	// Birth is the first step the target exists; Death is the first step
	// it no longer does. Death <= 0 means alive until the end.
	Birth int
	Death int

	// Initial is the kinematic state [x, vx, y, vy] at the birth step.
	Initial [4]float64

	// DetectionProb is the target's true detection probability.
	DetectionProb float64
}

// Truth is the expanded ground truth: per step, the kinematic states of all
// alive targets.
type Truth struct {
	Steps  int
	States [][][]float64
}

// Counts returns the number of alive targets per step.
func (tr *Truth) Counts() []int {
	counts := make([]int, tr.Steps)
	for k, states := range tr.States {
		counts[k] = len(states)
	}
	return counts
}

// Expand rolls the targets forward over the given number of steps with
// noise-free constant-velocity motion. Truth trajectories are deterministic;
// stochasticity enters only through measurement simulation.
func Expand(targets []Target, steps int, dt float64) (*Truth, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", steps)
	}
	if dt <= 0 {
		return nil, fmt.Errorf("dt must be positive, got %g", dt)
	}
	for i, tg := range targets {
		if tg.Birth < 0 || tg.Birth >= steps {
			return nil, fmt.Errorf("target %d: birth step %d outside [0,%d)", i, tg.Birth, steps)
		}
		if tg.DetectionProb < 0 || tg.DetectionProb > 1 {
			return nil, fmt.Errorf("target %d: detection probability %g outside [0,1]", i, tg.DetectionProb)
		}
	}

	tr := &Truth{Steps: steps, States: make([][][]float64, steps)}
	for k := 0; k < steps; k++ {
		for _, tg := range targets {
			death := tg.Death
			if death <= 0 {
				death = steps
			}
			if k < tg.Birth || k >= death {
				continue
			}
			age := float64(k-tg.Birth) * dt
			tr.States[k] = append(tr.States[k], []float64{
				tg.Initial[0] + tg.Initial[1]*age,
				tg.Initial[1],
				tg.Initial[2] + tg.Initial[3]*age,
				tg.Initial[3],
			})
		}
	}
	return tr, nil
}

// CrossingTargets returns a default two-target scenario: targets born at
// different steps on crossing constant-velocity paths inside the default
// [-100,100]² region, one dying before the end.
func CrossingTargets(steps int, detectionProb float64) []Target {
	return []Target{
		{Birth: 0, Death: 0, Initial: [4]float64{-60, 2.5, -60, 2.2}, DetectionProb: detectionProb},
		{Birth: steps / 5, Death: steps - steps/6, Initial: [4]float64{60, -2.4, -60, 2.3}, DetectionProb: detectionProb},
	}
}
