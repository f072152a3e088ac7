package cphd

import "math/rand/v2"

// Model supplies the motion, birth, measurement, and clutter models the
// filter consumes. Implementations live outside this package; the filter
// treats them as opaque collaborators. All batch methods are vectorised over
// particles: they take the full state slice and return one value per state.
//
// Stochastic methods draw exclusively from the supplied rng so that a run is
// reproducible under a fixed seed.
type Model interface {
	// StateDim returns the particle state dimension, including the
	// detection-probability coordinate at index 0.
	StateDim() int

	// MeasurementDim returns the measurement vector dimension.
	MeasurementDim() int

	// SurvivalProbabilities returns each state's probability of surviving
	// to the next time step, each in [0,1].
	SurvivalProbabilities(states [][]float64) []float64

	// SampleTransitions draws one next state per input state from the
	// single-target transition density. The returned slices are fresh;
	// inputs are not mutated.
	SampleTransitions(states [][]float64, rng *rand.Rand) [][]float64

	// MeasurementLikelihoods returns the measurement-model density of z
	// evaluated at every state, each >= 0.
	MeasurementLikelihoods(z []float64, states [][]float64) []float64

	// PredictedDetectionProbabilities returns the model's deterministic
	// detection probability for each state. The filter uses this only for
	// prediction diagnostics; the measurement update reads each particle's
	// own detection-probability coordinate instead.
	PredictedDetectionProbabilities(states [][]float64) []float64

	// SampleBirths draws count states from the birth intensity.
	SampleBirths(rng *rand.Rand, count int) [][]float64

	// BirthIntensityMass returns the total mass of the birth intensity,
	// the expected number of targets born per step.
	BirthIntensityMass() float64

	// ClutterRate returns the expected number of clutter measurements per
	// scan (Poisson rate).
	ClutterRate() float64

	// ClutterDensity returns the clutter spatial density, the value of the
	// (typically uniform) clutter distribution over the observation region.
	ClutterDensity() float64
}

// ClusterGroup is one cluster produced by a Clusterer: a representative
// centroid in full state space and the indices of the member particles.
type ClusterGroup struct {
	Centroid []float64
	Members  []int
}

// Clusterer partitions a weighted particle set into clusters for point
// estimate extraction. minClusters is a hint for the desired number of
// clusters; implementations may return fewer when the data cannot support
// that many. Implementations must be deterministic for a fixed construction
// seed so that whole-filter runs reproduce.
type Clusterer interface {
	Cluster(states [][]float64, weights []float64, minClusters int) []ClusterGroup
}
