package analysis

import (
	"errors"
	"fmt"
)

// ErrNoMeasurementTypes is returned when schema detection finds no
// measurement-noise column for any catalog type. With zero active types the
// chi-squared reference has no degrees of freedom, so the run must abort
// rather than default to a degenerate distribution.
var ErrNoMeasurementTypes = errors.New("no measurement noise columns found for any known measurement type")

// MissingColumnError reports a computation invoked on a table that lacks a
// required column. It is fatal for that computation only; computations on
// other measurement types may still proceed.
type MissingColumnError struct {
	Column          string
	MeasurementType string // empty when the column is type-independent
}

func (e *MissingColumnError) Error() string {
	if e.MeasurementType != "" {
		return fmt.Sprintf("missing column %q for measurement type %q", e.Column, e.MeasurementType)
	}
	return fmt.Sprintf("missing column %q", e.Column)
}

// DegenerateDistributionError reports a chi-squared reference requested with
// fewer than one degree of freedom.
type DegenerateDistributionError struct {
	Freedoms int
}

func (e *DegenerateDistributionError) Error() string {
	return fmt.Sprintf("chi-squared distribution requires at least 1 degree of freedom, got %d", e.Freedoms)
}
