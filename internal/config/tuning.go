// Package config loads filter and model tuning parameters from JSON. Fields
// are pointers so a partial file only overrides what it names; the Apply
// methods overlay the set fields onto the package defaults of the filter and
// the model bundle.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/duhaocui/rfs-filters/internal/cphd"
	"github.com/duhaocui/rfs-filters/internal/cphdmodel"
)

// TuningConfig is the root tuning document. Omitted fields keep their
// defaults, so partial configs are safe.
type TuningConfig struct {
	// Filter params
	MaxParticles       *int `json:"max_particles,omitempty"`
	ParticlesPerTarget *int `json:"particles_per_target,omitempty"`
	MaxCardinality     *int `json:"max_cardinality,omitempty"`

	// Model params
	SurvivalProb         *float64 `json:"survival_prob,omitempty"`
	ProcessNoisePos      *float64 `json:"process_noise_pos,omitempty"`
	ProcessNoiseVel      *float64 `json:"process_noise_vel,omitempty"`
	DetectionWalk        *float64 `json:"detection_walk,omitempty"`
	NominalDetectionProb *float64 `json:"nominal_detection_prob,omitempty"`
	MeasurementNoise     *float64 `json:"measurement_noise,omitempty"`
	ClutterRate          *float64 `json:"clutter_rate,omitempty"`

	// Metric params
	OSPACutoff *float64 `json:"ospa_cutoff,omitempty"`
	OSPAOrder  *float64 `json:"ospa_order,omitempty"`
}

// Load reads a TuningConfig from a JSON file. The path must have a .json
// extension and the file is capped at 1MB.
func Load(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &TuningConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that any set values are valid.
func (c *TuningConfig) Validate() error {
	if c.MaxParticles != nil && *c.MaxParticles <= 0 {
		return fmt.Errorf("max_particles must be positive, got %d", *c.MaxParticles)
	}
	if c.ParticlesPerTarget != nil && *c.ParticlesPerTarget <= 0 {
		return fmt.Errorf("particles_per_target must be positive, got %d", *c.ParticlesPerTarget)
	}
	if c.MaxCardinality != nil && *c.MaxCardinality < 0 {
		return fmt.Errorf("max_cardinality must be non-negative, got %d", *c.MaxCardinality)
	}
	if c.SurvivalProb != nil && (*c.SurvivalProb < 0 || *c.SurvivalProb > 1) {
		return fmt.Errorf("survival_prob must be between 0 and 1, got %f", *c.SurvivalProb)
	}
	if c.NominalDetectionProb != nil && (*c.NominalDetectionProb < 0 || *c.NominalDetectionProb > 1) {
		return fmt.Errorf("nominal_detection_prob must be between 0 and 1, got %f", *c.NominalDetectionProb)
	}
	if c.MeasurementNoise != nil && *c.MeasurementNoise <= 0 {
		return fmt.Errorf("measurement_noise must be positive, got %f", *c.MeasurementNoise)
	}
	if c.ClutterRate != nil && *c.ClutterRate < 0 {
		return fmt.Errorf("clutter_rate must be non-negative, got %f", *c.ClutterRate)
	}
	if c.OSPACutoff != nil && *c.OSPACutoff <= 0 {
		return fmt.Errorf("ospa_cutoff must be positive, got %f", *c.OSPACutoff)
	}
	if c.OSPAOrder != nil && *c.OSPAOrder < 1 {
		return fmt.Errorf("ospa_order must be at least 1, got %f", *c.OSPAOrder)
	}
	return nil
}

// ApplyFilter overlays the set filter fields onto cfg.
func (c *TuningConfig) ApplyFilter(cfg cphd.Config) cphd.Config {
	if c.MaxParticles != nil {
		cfg.MaxParticles = *c.MaxParticles
	}
	if c.ParticlesPerTarget != nil {
		cfg.ParticlesPerTarget = *c.ParticlesPerTarget
	}
	if c.MaxCardinality != nil {
		cfg.MaxCardinality = *c.MaxCardinality
	}
	return cfg
}

// ApplyModel overlays the set model fields onto params.
func (c *TuningConfig) ApplyModel(params cphdmodel.Params) cphdmodel.Params {
	if c.SurvivalProb != nil {
		params.SurvivalProb = *c.SurvivalProb
	}
	if c.ProcessNoisePos != nil {
		params.ProcessNoisePos = *c.ProcessNoisePos
	}
	if c.ProcessNoiseVel != nil {
		params.ProcessNoiseVel = *c.ProcessNoiseVel
	}
	if c.DetectionWalk != nil {
		params.DetectionWalk = *c.DetectionWalk
	}
	if c.NominalDetectionProb != nil {
		params.NominalDetectionProb = *c.NominalDetectionProb
	}
	if c.MeasurementNoise != nil {
		params.MeasurementNoise = *c.MeasurementNoise
	}
	if c.ClutterRate != nil {
		params.ClutterRate = *c.ClutterRate
	}
	return params
}

// GetOSPACutoff returns the configured OSPA cutoff or the default.
func (c *TuningConfig) GetOSPACutoff() float64 {
	if c.OSPACutoff == nil {
		return 100
	}
	return *c.OSPACutoff
}

// GetOSPAOrder returns the configured OSPA order or the default.
func (c *TuningConfig) GetOSPAOrder() float64 {
	if c.OSPAOrder == nil {
		return 1
	}
	return *c.OSPAOrder
}
