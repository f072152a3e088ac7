package cphdmodel

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// BirthIntensityMass implements cphd.Model: the summed weight of the birth
// mixture, the expected number of targets born per step.
func (m *Model) BirthIntensityMass() float64 {
	var mass float64
	for _, s := range m.params.BirthSites {
		mass += s.Weight
	}
	return mass
}

// SampleBirths implements cphd.Model. Each draw picks a mixture component
// with probability proportional to its weight, samples the kinematic
// coordinates from that component's Gaussian, and draws the
// detection-probability coordinate from the configured Beta prior.
func (m *Model) SampleBirths(rng *rand.Rand, count int) [][]float64 {
	if count <= 0 {
		return nil
	}
	mass := m.BirthIntensityMass()
	pdPrior := distuv.Beta{Alpha: m.params.BirthPDAlpha, Beta: m.params.BirthPDBeta, Src: rng}
	unit := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}

	out := make([][]float64, count)
	for i := range out {
		site := m.pickSite(rng.Float64() * mass)
		state := make([]float64, StateDim)
		state[0] = clampPD(pdPrior.Rand())
		for k := 0; k < 4; k++ {
			state[k+1] = site.Mean[k] + site.StdDev[k]*unit.Rand()
		}
		out[i] = state
	}
	return out
}

// pickSite selects the mixture component whose cumulative weight interval
// contains u ∈ [0, mass).
func (m *Model) pickSite(u float64) BirthSite {
	var cum float64
	for _, s := range m.params.BirthSites {
		cum += s.Weight
		if u < cum {
			return s
		}
	}
	return m.params.BirthSites[len(m.params.BirthSites)-1]
}
