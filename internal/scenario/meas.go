package scenario

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/duhaocui/rfs-filters/internal/cphdmodel"
)

// Simulate produces one measurement scan per step from the ground truth:
// each alive target is detected with its true detection probability and
// observed through Gaussian position noise; a Poisson-distributed number of
// clutter points is scattered uniformly over the surveillance region.
//
// Measurement order within a scan is targets first, then clutter, but the
// filter treats scans as unordered sets.
func Simulate(targets []Target, truth *Truth, params cphdmodel.Params, rng *rand.Rand) [][][]float64 {
	noise := distuv.Normal{Mu: 0, Sigma: params.MeasurementNoise, Src: rng}
	clutterCount := distuv.Poisson{Lambda: params.ClutterRate, Src: rng}

	scans := make([][][]float64, truth.Steps)
	for k := 0; k < truth.Steps; k++ {
		var scan [][]float64

		ti := 0
		for _, tg := range targets {
			death := tg.Death
			if death <= 0 {
				death = truth.Steps
			}
			if k < tg.Birth || k >= death {
				continue
			}
			state := truth.States[k][ti]
			ti++
			if rng.Float64() >= tg.DetectionProb {
				continue
			}
			scan = append(scan, []float64{
				state[0] + noise.Rand(),
				state[2] + noise.Rand(),
			})
		}

		if params.ClutterRate > 0 {
			n := int(clutterCount.Rand())
			for i := 0; i < n; i++ {
				scan = append(scan, []float64{
					params.Region[0] + rng.Float64()*(params.Region[1]-params.Region[0]),
					params.Region[2] + rng.Float64()*(params.Region[3]-params.Region[2]),
				})
			}
		}
		scans[k] = scan
	}
	return scans
}
