package model

import "strings"

// MeasurementType identifies one kind of estimator measurement. The string
// value is the type label used in column names of the estimator export,
// unit included, e.g. "Range (km)".
type MeasurementType string

const (
	Range     MeasurementType = "Range (km)"
	Doppler   MeasurementType = "Doppler (km/s)"
	Azimuth   MeasurementType = "Azimuth (deg)"
	Elevation MeasurementType = "Elevation (deg)"
)

// Catalog returns the supported measurement types in canonical order.
// The catalog is fixed; schema detection selects a subset of it.
func Catalog() []MeasurementType {
	return []MeasurementType{Range, Doppler, Azimuth, Elevation}
}

// Unit extracts the unit string from the type label, e.g. "km/s" for
// "Doppler (km/s)". Labels without a parenthesized trailing token return "".
func (m MeasurementType) Unit() string {
	fields := strings.Fields(string(m))
	if len(fields) == 0 {
		return ""
	}
	last := fields[len(fields)-1]
	if len(last) < 2 || last[0] != '(' || last[len(last)-1] != ')' {
		return ""
	}
	return last[1 : len(last)-1]
}

// NoiseColumn returns the per-epoch measurement noise column for this type.
// Presence of this column in a table is what marks the type as active.
func (m MeasurementType) NoiseColumn() string {
	return "Measurement noise: " + string(m)
}

// PrefitColumn returns the prefit residual column for this type.
func (m MeasurementType) PrefitColumn() string {
	return "Prefit residual: " + string(m)
}

// PostfitColumn returns the postfit residual column for this type.
func (m MeasurementType) PostfitColumn() string {
	return "Postfit residual: " + string(m)
}

// EnvelopePlusColumn returns the derived +3-sigma noise envelope column.
func (m MeasurementType) EnvelopePlusColumn() string {
	return "Measurement noise 3-Sigma: " + string(m)
}

// EnvelopeMinusColumn returns the derived -3-sigma noise envelope column.
func (m MeasurementType) EnvelopeMinusColumn() string {
	return "Measurement noise -3-Sigma: " + string(m)
}
