package cphd

import (
	"errors"
	"fmt"
)

// ErrCardinalityCollapse reports that the cardinality-normalisation
// denominator (upsilon0 · predicted cardinality) became zero or non-finite
// during a measurement update. It means the particle approximation has
// degenerated: no cardinality hypothesis explains the data with nonzero
// probability. The step is aborted rather than letting NaN/Inf leak into
// subsequent steps.
var ErrCardinalityCollapse = errors.New("cphd: cardinality distribution collapsed")

// ErrMeasurementDim reports a measurement vector whose dimension does not
// match the model's measurement space. Raised before any likelihood is
// evaluated.
var ErrMeasurementDim = errors.New("cphd: measurement dimension mismatch")

func errCardinalitySum(sum float64) error {
	return fmt.Errorf("%w: normalisation sum %g", ErrCardinalityCollapse, sum)
}

func errUpsilonDenominator(denom float64) error {
	return fmt.Errorf("%w: upsilon0·cardinality denominator %g", ErrCardinalityCollapse, denom)
}

func errMeasurementDim(index, got, want int) error {
	return fmt.Errorf("%w: measurement %d has dimension %d, want %d", ErrMeasurementDim, index, got, want)
}

// stepError wraps an error with the time-step index at which it occurred so
// callers can locate the offending scan in a long sequence.
func stepError(step int, err error) error {
	return fmt.Errorf("step %d: %w", step, err)
}
