package analysis

import (
	"github.com/signalsfoundry/od-analyzer/model"
	"github.com/signalsfoundry/od-analyzer/odtable"
)

// DetectMeasurementTypes returns the ordered subset of the measurement type
// catalog whose noise column exists in the table. The estimator export only
// carries noise columns for types that were actually tracked, so column
// existence is the schema signal; it is resolved once per run, not re-probed
// per operation.
//
// An empty subset is a configuration error (ErrNoMeasurementTypes): the
// chi-squared stage cannot run with zero degrees of freedom.
func DetectMeasurementTypes(t *odtable.Table) ([]model.MeasurementType, error) {
	var active []model.MeasurementType
	for _, m := range model.Catalog() {
		if t.HasSeries(m.NoiseColumn()) {
			active = append(active, m)
		}
	}
	if len(active) == 0 {
		return nil, ErrNoMeasurementTypes
	}
	return active, nil
}
