package model

// Column names shared by both estimator export tables. Epochs are parsed
// upstream; the remaining columns are carried through the analysis as-is.
const (
	EpochColumn            = "Epoch (UTC)"
	ResidualRatioColumn    = "Residual ratio"
	ResidualRejectedColumn = "Residual Rejected"
)

// RIC error table columns (position deltas in km, velocity deltas in km/s)
// and the derived magnitude columns appended by the analysis.
const (
	DeltaXColumn  = "Delta X (RIC) (km)"
	DeltaYColumn  = "Delta Y (RIC) (km)"
	DeltaZColumn  = "Delta Z (RIC) (km)"
	DeltaVxColumn = "Delta Vx (RIC) (km/s)"
	DeltaVyColumn = "Delta Vy (RIC) (km/s)"
	DeltaVzColumn = "Delta Vz (RIC) (km/s)"

	RICRangeColumn     = "RIC Range (km)"
	RICRangeRateColumn = "RIC Range Rate (km/s)"
)

// Covariance-derived RIC uncertainty columns. Optional in the observation
// table; rendered when present, never required by the core.
const (
	SigmaXColumn  = "Sigma X (RIC) (km)"
	SigmaYColumn  = "Sigma Y (RIC) (km)"
	SigmaZColumn  = "Sigma Z (RIC) (km)"
	SigmaVxColumn = "Sigma Vx (RIC) (km/s)"
	SigmaVyColumn = "Sigma Vy (RIC) (km/s)"
	SigmaVzColumn = "Sigma Vz (RIC) (km/s)"
)

// PositionDeltaColumns returns the three RIC position delta columns in order.
func PositionDeltaColumns() []string {
	return []string{DeltaXColumn, DeltaYColumn, DeltaZColumn}
}

// VelocityDeltaColumns returns the three RIC velocity delta columns in order.
func VelocityDeltaColumns() []string {
	return []string{DeltaVxColumn, DeltaVyColumn, DeltaVzColumn}
}
