// Package cphdmodel provides a constant-velocity motion/measurement model
// bundle for the CPHD filter: planar position/velocity kinematics with a
// detection-probability coordinate, Gaussian position measurements, uniform
// Poisson clutter over a rectangular surveillance region, and a
// Gaussian-mixture birth intensity.
//
// The particle state layout is [pD, x, vx, y, vy]; measurements are [x, y].
package cphdmodel

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/duhaocui/rfs-filters/internal/cphd"
)

// StateDim is the particle state dimension: the detection-probability
// coordinate plus four kinematic coordinates.
const StateDim = 5

// MeasurementDim is the measurement space dimension (planar position).
const MeasurementDim = 2

// BirthSite is one component of the Gaussian-mixture birth intensity. Weight
// is the component's share of the total birth mass; Mean and StdDev describe
// the kinematic birth density [x, vx, y, vy].
type BirthSite struct {
	Weight float64
	Mean   [4]float64
	StdDev [4]float64
}

// Params are the model's fixed parameters.
type Params struct {
	// Dt is the time-step length in seconds.
	Dt float64

	// SurvivalProb is the constant per-target survival probability.
	SurvivalProb float64

	// ProcessNoisePos and ProcessNoiseVel are the standard deviations of
	// the additive position and velocity process noise per step.
	ProcessNoisePos float64
	ProcessNoiseVel float64

	// DetectionWalk is the standard deviation of the random walk applied
	// to each particle's detection-probability coordinate per step.
	DetectionWalk float64

	// NominalDetectionProb is the deterministic detection probability the
	// model reports for prediction diagnostics. The filter's measurement
	// update reads each particle's own pD coordinate instead.
	NominalDetectionProb float64

	// MeasurementNoise is the standard deviation of the Gaussian position
	// measurement noise, per axis.
	MeasurementNoise float64

	// ClutterRate is the expected number of clutter points per scan.
	ClutterRate float64

	// Region is the rectangular surveillance region [xmin, xmax, ymin,
	// ymax]; clutter is uniform over it.
	Region [4]float64

	// BirthSites is the Gaussian-mixture birth intensity.
	BirthSites []BirthSite

	// BirthPDAlpha and BirthPDBeta parameterise the Beta distribution the
	// pD coordinate of a birth particle is drawn from.
	BirthPDAlpha float64
	BirthPDBeta  float64
}

// DefaultParams returns the parameters used by the simulation CLI: a
// 100x100 region with a single central birth site.
func DefaultParams() Params {
	return Params{
		Dt:                   1,
		SurvivalProb:         0.99,
		ProcessNoisePos:      0.3,
		ProcessNoiseVel:      0.1,
		DetectionWalk:        0.01,
		NominalDetectionProb: 0.95,
		MeasurementNoise:     1,
		ClutterRate:          5,
		Region:               [4]float64{-100, 100, -100, 100},
		BirthSites: []BirthSite{
			{Weight: 0.1, Mean: [4]float64{0, 0, 0, 0}, StdDev: [4]float64{40, 2, 40, 2}},
		},
		BirthPDAlpha: 1,
		BirthPDBeta:  1,
	}
}

// Validate reports the first problem with the parameters.
func (p Params) Validate() error {
	if p.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", p.Dt)
	}
	if p.SurvivalProb < 0 || p.SurvivalProb > 1 {
		return fmt.Errorf("survival probability must be in [0,1], got %g", p.SurvivalProb)
	}
	if p.ProcessNoisePos < 0 || p.ProcessNoiseVel < 0 || p.DetectionWalk < 0 {
		return fmt.Errorf("process noise must be non-negative")
	}
	if p.NominalDetectionProb < 0 || p.NominalDetectionProb > 1 {
		return fmt.Errorf("nominal detection probability must be in [0,1], got %g", p.NominalDetectionProb)
	}
	if p.MeasurementNoise <= 0 {
		return fmt.Errorf("measurement noise must be positive, got %g", p.MeasurementNoise)
	}
	if p.ClutterRate < 0 {
		return fmt.Errorf("clutter rate must be non-negative, got %g", p.ClutterRate)
	}
	if p.Region[1] <= p.Region[0] || p.Region[3] <= p.Region[2] {
		return fmt.Errorf("region [%g,%g]x[%g,%g] is empty", p.Region[0], p.Region[1], p.Region[2], p.Region[3])
	}
	if len(p.BirthSites) == 0 {
		return fmt.Errorf("at least one birth site is required")
	}
	for i, s := range p.BirthSites {
		if s.Weight <= 0 {
			return fmt.Errorf("birth site %d weight must be positive, got %g", i, s.Weight)
		}
		for k, sd := range s.StdDev {
			if sd < 0 {
				return fmt.Errorf("birth site %d stddev[%d] must be non-negative, got %g", i, k, sd)
			}
		}
	}
	if p.BirthPDAlpha <= 0 || p.BirthPDBeta <= 0 {
		return fmt.Errorf("birth pD Beta parameters must be positive, got alpha=%g beta=%g", p.BirthPDAlpha, p.BirthPDBeta)
	}
	return nil
}

// RegionArea returns the surveillance region area.
func (p Params) RegionArea() float64 {
	return (p.Region[1] - p.Region[0]) * (p.Region[3] - p.Region[2])
}

// Model implements cphd.Model for the constant-velocity bundle.
type Model struct {
	params Params

	// measurementNoise is the zero-mean Gaussian the measurement residual
	// is scored against, built once at construction.
	measurementNoise *distmv.Normal
}

// New validates params and builds the model.
func New(params Params) (*Model, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s2 := params.MeasurementNoise * params.MeasurementNoise
	cov := mat.NewSymDense(MeasurementDim, []float64{s2, 0, 0, s2})
	noise, ok := distmv.NewNormal(make([]float64, MeasurementDim), cov, nil)
	if !ok {
		return nil, fmt.Errorf("measurement covariance is not positive definite")
	}
	return &Model{params: params, measurementNoise: noise}, nil
}

// Params returns the parameters the model was built with.
func (m *Model) Params() Params { return m.params }

// StateDim implements cphd.Model.
func (m *Model) StateDim() int { return StateDim }

// MeasurementDim implements cphd.Model.
func (m *Model) MeasurementDim() int { return MeasurementDim }

// ClutterRate implements cphd.Model.
func (m *Model) ClutterRate() float64 { return m.params.ClutterRate }

// ClutterDensity implements cphd.Model: uniform clutter over the region.
func (m *Model) ClutterDensity() float64 { return 1 / m.params.RegionArea() }

var _ cphd.Model = (*Model)(nil)
