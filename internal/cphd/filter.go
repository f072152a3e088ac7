package cphd

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/duhaocui/rfs-filters/internal/monitoring"
)

// Phase identifies where the recursion driver is within the current time
// step. The driver cycles predicted → updated → resampled → extracted and
// returns to predicted at the start of the next step.
type Phase string

const (
	PhaseInitialized Phase = "initialized"
	PhasePredicted   Phase = "predicted"
	PhaseUpdated     Phase = "updated"
	PhaseResampled   Phase = "resampled"
	PhaseExtracted   Phase = "extracted"
)

// Config holds the filter's fixed parameters. It is immutable for the
// lifetime of a Filter.
type Config struct {
	// MaxParticles is the hard cap on the particle count after resampling.
	MaxParticles int

	// ParticlesPerTarget is the desired number of particles per unit of
	// expected target count.
	ParticlesPerTarget int

	// BirthParticles is the number of birth particles appended each
	// prediction. Zero means derive it as ceil(birthMass * ParticlesPerTarget)
	// from the model's birth intensity.
	BirthParticles int

	// MaxCardinality is the largest representable target count; the
	// cardinality distribution has MaxCardinality+1 entries.
	MaxCardinality int

	// InitialState is the kinematic part of the bootstrap prior particle
	// (the detection-probability coordinate is drawn uniformly). Nil means
	// the origin.
	InitialState []float64

	// Verbose enables the per-step diagnostic line through the monitoring
	// side channel. Diagnostics never affect filter state.
	Verbose bool
}

// DefaultConfig returns the filter parameters used by the simulation CLI.
func DefaultConfig() Config {
	return Config{
		MaxParticles:       30000,
		ParticlesPerTarget: 1000,
		MaxCardinality:     20,
	}
}

// Validate reports the first problem with the configuration.
func (c Config) Validate() error {
	if c.MaxParticles <= 0 {
		return fmt.Errorf("max particles must be positive, got %d", c.MaxParticles)
	}
	if c.ParticlesPerTarget <= 0 {
		return fmt.Errorf("particles per target must be positive, got %d", c.ParticlesPerTarget)
	}
	if c.BirthParticles < 0 {
		return fmt.Errorf("birth particles must be non-negative, got %d", c.BirthParticles)
	}
	if c.MaxCardinality < 0 {
		return fmt.Errorf("max cardinality must be non-negative, got %d", c.MaxCardinality)
	}
	return nil
}

// Filter is the recursion driver. It owns the particle set and cardinality
// distribution threaded across time steps and runs
// predict → update → resample → extract once per measurement scan.
//
// A Filter is not safe for concurrent use; independent filter instances are
// fully isolated and may run in parallel.
type Filter struct {
	model     Model
	clusterer Clusterer
	cfg       Config
	rng       *rand.Rand
	births    int

	phase       Phase
	step        int
	particles   *ParticleSet
	cardinality CardinalityDist
	lastDiag    StepDiagnostics
}

// New builds a filter around the supplied model and clustering collaborator
// and installs the bootstrap prior: a single unit-weight particle at the
// configured initial state with its detection-probability coordinate drawn
// from Beta(1,1), and all cardinality mass on the single-target hypothesis.
//
// rng is the only randomness source the filter ever draws from; seeding it
// makes whole runs reproducible.
func New(model Model, clusterer Clusterer, cfg Config, rng *rand.Rand) (*Filter, error) {
	if clusterer == nil || rng == nil {
		return nil, fmt.Errorf("clusterer and rng are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("filter config: %w", err)
	}
	if err := validateModel(model); err != nil {
		return nil, fmt.Errorf("model config: %w", err)
	}
	if cfg.InitialState != nil && len(cfg.InitialState) != model.StateDim()-1 {
		return nil, fmt.Errorf("initial state has %d coordinates, want %d kinematic", len(cfg.InitialState), model.StateDim()-1)
	}

	births := cfg.BirthParticles
	if births == 0 {
		births = int(math.Ceil(model.BirthIntensityMass() * float64(cfg.ParticlesPerTarget)))
	}

	prior := make([]float64, model.StateDim())
	prior[0] = distuv.Beta{Alpha: 1, Beta: 1, Src: rng}.Rand()
	if cfg.InitialState != nil {
		copy(prior[1:], cfg.InitialState)
	}

	cdn := make(CardinalityDist, cfg.MaxCardinality+1)
	if cfg.MaxCardinality >= 1 {
		cdn[1] = 1
	} else {
		cdn[0] = 1
	}

	return &Filter{
		model:     model,
		clusterer: clusterer,
		cfg:       cfg,
		rng:       rng,
		births:    births,
		phase:     PhaseInitialized,
		particles: &ParticleSet{
			States:  [][]float64{prior},
			Weights: []float64{1},
		},
		cardinality: cdn,
	}, nil
}

func validateModel(m Model) error {
	if m == nil {
		return fmt.Errorf("model is nil")
	}
	if m.StateDim() < 2 {
		return fmt.Errorf("state dimension %d too small: need the detection-probability coordinate plus kinematics", m.StateDim())
	}
	if m.MeasurementDim() < 1 {
		return fmt.Errorf("measurement dimension must be positive, got %d", m.MeasurementDim())
	}
	if m.ClutterRate() < 0 {
		return fmt.Errorf("clutter rate must be non-negative, got %g", m.ClutterRate())
	}
	if m.ClutterDensity() <= 0 {
		return fmt.Errorf("clutter density must be positive, got %g", m.ClutterDensity())
	}
	if m.BirthIntensityMass() < 0 {
		return fmt.Errorf("birth intensity mass must be non-negative, got %g", m.BirthIntensityMass())
	}
	return nil
}

// Config returns the configuration the filter was built with.
func (f *Filter) Config() Config { return f.cfg }

// Phase returns the driver's current lifecycle phase.
func (f *Filter) Phase() Phase { return f.phase }

// Cardinality returns a copy of the current posterior cardinality
// distribution.
func (f *Filter) Cardinality() CardinalityDist {
	out := make(CardinalityDist, len(f.cardinality))
	copy(out, f.cardinality)
	return out
}

// Diagnostics returns the diagnostics record of the most recent step.
func (f *Filter) Diagnostics() StepDiagnostics { return f.lastDiag }

// Step runs one full predict → update → resample → extract cycle against a
// single measurement scan and returns the step's estimate. Measurement
// vectors with the wrong dimension are rejected before any likelihood is
// evaluated. A numerical-collapse error aborts the step and leaves the
// previous step's state in place.
func (f *Filter) Step(measurements [][]float64) (Estimate, error) {
	zdim := f.model.MeasurementDim()
	for i, z := range measurements {
		if len(z) != zdim {
			return Estimate{}, stepError(f.step, errMeasurementDim(i, len(z), zdim))
		}
	}

	// Predict: cardinality by binomial thinning + Poisson birth, particles
	// by per-particle transition sampling plus fresh birth particles.
	survival := f.model.SurvivalProbabilities(f.particles.States)
	cdnPred, err := PredictCardinality(f.cardinality, f.particles.Weights, survival, f.model.BirthIntensityMass())
	if err != nil {
		return Estimate{}, stepError(f.step, err)
	}
	pred := f.predictParticles(survival)
	f.phase = PhasePredicted

	// Update: combinatorial statistics, then intensity and cardinality.
	pd := pred.DetectionProbabilities()
	qd := make([]float64, len(pd))
	for i, p := range pd {
		qd[i] = 1 - p
	}
	likelihoods := f.likelihoodMatrix(measurements, pred.States)
	stats := ComputeUpdateStatistics(pred, pd, qd, likelihoods,
		f.model.ClutterRate(), f.model.ClutterDensity(), f.cfg.MaxCardinality)

	wPost, err := UpdateIntensity(pred, pd, qd, stats, cdnPred, f.model.ClutterDensity())
	if err != nil {
		return Estimate{}, stepError(f.step, err)
	}
	cdnPost, err := UpdateCardinality(stats.Upsilon0, cdnPred)
	if err != nil {
		return Estimate{}, stepError(f.step, err)
	}
	updated := &ParticleSet{States: pred.States, Weights: wPost}
	f.phase = PhaseUpdated

	neffBefore := updated.EffectiveSampleSize()
	resampled := Resample(updated, float64(f.cfg.ParticlesPerTarget), f.cfg.MaxParticles, f.rng)
	neffAfter := resampled.EffectiveSampleSize()
	f.phase = PhaseResampled

	count, states := ExtractEstimates(resampled, f.clusterer, clusterHintFromCardinality(cdnPost.Mean()))
	est := Estimate{
		Step:                f.step,
		Count:               count,
		States:              states,
		MeanDetectionProb:   resampled.WeightedMeanDetectionProbability(),
		ExpectedCardinality: cdnPost.Mean(),
		MAPCardinality:      cdnPost.ArgMax(),
	}
	f.phase = PhaseExtracted

	f.particles = resampled
	f.cardinality = cdnPost
	f.lastDiag = StepDiagnostics{
		Step:               f.step,
		Measurements:       len(measurements),
		Particles:          resampled.Len(),
		MeanDetectionProb:  est.MeanDetectionProb,
		ExpectedCount:      est.ExpectedCardinality,
		EstimatedCount:     count,
		NeffBeforeResample: neffBefore,
		NeffAfterResample:  neffAfter,
	}
	if f.cfg.Verbose {
		monitoring.Logf("%s", f.lastDiag)
	}
	f.step++
	return est, nil
}

// Run feeds the filter every scan in sequence and collects the per-step
// estimates. The first error aborts the run; the returned error carries the
// offending step index.
func (f *Filter) Run(scans [][][]float64) ([]Estimate, error) {
	estimates := make([]Estimate, 0, len(scans))
	for _, scan := range scans {
		est, err := f.Step(scan)
		if err != nil {
			return estimates, err
		}
		estimates = append(estimates, est)
	}
	return estimates, nil
}

// predictParticles builds the predicted particle set: one transition-sampled
// successor per current particle, weighted by its survival probability, plus
// birth particles sharing the birth intensity mass equally.
func (f *Filter) predictParticles(survival []float64) *ParticleSet {
	n := f.particles.Len()
	birthMass := f.model.BirthIntensityMass()
	births := f.births
	if birthMass == 0 {
		births = 0
	}

	states := make([][]float64, 0, n+births)
	weights := make([]float64, 0, n+births)

	if n > 0 {
		moved := f.model.SampleTransitions(f.particles.States, f.rng)
		states = append(states, moved...)
		for i, w := range f.particles.Weights {
			weights = append(weights, w*survival[i])
		}
	}
	if births > 0 {
		born := f.model.SampleBirths(f.rng, births)
		w := birthMass / float64(len(born))
		states = append(states, born...)
		for range born {
			weights = append(weights, w)
		}
	}
	return &ParticleSet{States: states, Weights: weights}
}

// likelihoodMatrix evaluates the measurement model for every particle ×
// measurement pair, one vectorised model call per measurement.
func (f *Filter) likelihoodMatrix(measurements, states [][]float64) [][]float64 {
	out := make([][]float64, len(states))
	for i := range out {
		out[i] = make([]float64, len(measurements))
	}
	for ell, z := range measurements {
		col := f.model.MeasurementLikelihoods(z, states)
		for i, v := range col {
			out[i][ell] = v
		}
	}
	return out
}
