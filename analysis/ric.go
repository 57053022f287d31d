package analysis

import (
	"math"

	"github.com/signalsfoundry/od-analyzer/model"
	"github.com/signalsfoundry/od-analyzer/odtable"
)

// AddRICMagnitudes returns a copy of the RIC error table with two derived
// series appended: the Euclidean magnitude of the position delta ("RIC
// Range (km)") and of the velocity delta ("RIC Range Rate (km/s)"),
// computed row-wise in the right-handed radial/intrack/crosstrack frame.
// A row missing any component is left absent in the derived series. The
// input table is untouched.
func AddRICMagnitudes(t *odtable.Table) (*odtable.Table, error) {
	out := t.Clone()
	if err := addMagnitude(out, model.PositionDeltaColumns(), model.RICRangeColumn); err != nil {
		return nil, err
	}
	if err := addMagnitude(out, model.VelocityDeltaColumns(), model.RICRangeRateColumn); err != nil {
		return nil, err
	}
	return out, nil
}

func addMagnitude(t *odtable.Table, components []string, name string) error {
	series := make([]*odtable.Series, len(components))
	for i, col := range components {
		s, ok := t.Series(col)
		if !ok {
			return &MissingColumnError{Column: col}
		}
		series[i] = s
	}

	n := t.Len()
	values := make([]float64, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		var sum float64
		present := true
		for _, s := range series {
			v, ok := s.At(i)
			if !ok {
				present = false
				break
			}
			sum += v * v
		}
		if !present {
			continue
		}
		values[i] = math.Sqrt(sum)
		valid[i] = true
	}
	return t.AddSeries(name, values, valid)
}
