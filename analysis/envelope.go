package analysis

import (
	"github.com/signalsfoundry/od-analyzer/model"
	"github.com/signalsfoundry/od-analyzer/odtable"
)

const envelopeSigmas = 3.0

// AddNoiseEnvelopes appends, for every given measurement type, two derived
// series equal to +3 and -3 times the per-row noise estimate. Rows where the
// noise estimate is absent stay absent in both envelope series; there is no
// interpolation across untracked epochs.
//
// The table is mutated in place, so callers pass a clone of the input. A
// type whose noise column is missing yields a MissingColumnError for that
// type; types already processed keep their envelopes.
func AddNoiseEnvelopes(t *odtable.Table, types []model.MeasurementType) error {
	for _, m := range types {
		noise, ok := t.Series(m.NoiseColumn())
		if !ok {
			return &MissingColumnError{Column: m.NoiseColumn(), MeasurementType: string(m)}
		}

		n := noise.Len()
		plus := make([]float64, n)
		minus := make([]float64, n)
		valid := make([]bool, n)
		for i := 0; i < n; i++ {
			v, present := noise.At(i)
			if !present {
				continue
			}
			plus[i] = envelopeSigmas * v
			minus[i] = -envelopeSigmas * v
			valid[i] = true
		}

		if err := t.AddSeries(m.EnvelopePlusColumn(), plus, valid); err != nil {
			return err
		}
		if err := t.AddSeries(m.EnvelopeMinusColumn(), minus, valid); err != nil {
			return err
		}
	}
	return nil
}
