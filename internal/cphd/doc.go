// Package cphd implements a sequential Monte Carlo approximation of the
// Cardinalized Probability Hypothesis Density (CPHD) filter, extended to
// jointly estimate an unknown, state-dependent detection probability
// alongside target kinematics.
//
// The filter propagates two objects across time steps: a weighted particle
// set approximating the multi-target intensity function, and a discrete
// cardinality distribution over target counts 0..NMax. Each time step runs
// predict → update → resample → extract; the measurement update marginalises
// measurement-to-target association through elementary symmetric functions
// of per-measurement pseudo-likelihoods.
//
// Key types: Filter (the recursion driver), ParticleSet, CardinalityDist,
// Estimate. Model and Clusterer are the external collaborator contracts:
// motion/birth/measurement/clutter models and the point-estimate clustering
// routine are supplied by the caller, not owned by this package.
//
// No persistence or transport code is allowed in this package; stores and
// report rendering live in their own packages and consume the outputs.
package cphd
