package analysis

import (
	"errors"
	"testing"

	"github.com/signalsfoundry/od-analyzer/model"
	"github.com/signalsfoundry/od-analyzer/odtable"
)

func ricTable(t *testing.T, dx, dy, dz, dvx, dvy, dvz []float64) *odtable.Table {
	t.Helper()
	tab := odtable.New(testEpochs(len(dx)))
	mustAddSeries(t, tab, model.DeltaXColumn, dx, nil)
	mustAddSeries(t, tab, model.DeltaYColumn, dy, nil)
	mustAddSeries(t, tab, model.DeltaZColumn, dz, nil)
	mustAddSeries(t, tab, model.DeltaVxColumn, dvx, nil)
	mustAddSeries(t, tab, model.DeltaVyColumn, dvy, nil)
	mustAddSeries(t, tab, model.DeltaVzColumn, dvz, nil)
	return tab
}

func TestAddRICMagnitudes(t *testing.T) {
	tab := ricTable(t,
		[]float64{3, 0}, []float64{4, 0}, []float64{0, 0},
		[]float64{0, 1}, []float64{0, 2}, []float64{0, 2},
	)

	out, err := AddRICMagnitudes(tab)
	if err != nil {
		t.Fatalf("AddRICMagnitudes: %v", err)
	}

	pos, ok := out.Series(model.RICRangeColumn)
	if !ok {
		t.Fatal("missing position magnitude series")
	}
	if v, _ := pos.At(0); v != 5.0 {
		t.Fatalf("position magnitude = %v, want exactly 5.0", v)
	}
	if v, _ := pos.At(1); v != 0 {
		t.Fatalf("all-zero components must give magnitude 0, got %v", v)
	}

	vel, ok := out.Series(model.RICRangeRateColumn)
	if !ok {
		t.Fatal("missing velocity magnitude series")
	}
	if v, _ := vel.At(1); v != 3.0 {
		t.Fatalf("velocity magnitude = %v, want 3.0", v)
	}

	for i := 0; i < out.Len(); i++ {
		if v, _ := pos.At(i); v < 0 {
			t.Fatalf("row %d: magnitude %v < 0", i, v)
		}
	}

	// The input table must be untouched.
	if tab.HasSeries(model.RICRangeColumn) || tab.HasSeries(model.RICRangeRateColumn) {
		t.Fatal("input table gained derived series")
	}
}

func TestAddRICMagnitudesNullComponent(t *testing.T) {
	tab := odtable.New(testEpochs(2))
	mustAddSeries(t, tab, model.DeltaXColumn, []float64{1, 1}, []bool{true, false})
	mustAddSeries(t, tab, model.DeltaYColumn, []float64{0, 0}, nil)
	mustAddSeries(t, tab, model.DeltaZColumn, []float64{0, 0}, nil)
	mustAddSeries(t, tab, model.DeltaVxColumn, []float64{0, 0}, nil)
	mustAddSeries(t, tab, model.DeltaVyColumn, []float64{0, 0}, nil)
	mustAddSeries(t, tab, model.DeltaVzColumn, []float64{0, 0}, nil)

	out, err := AddRICMagnitudes(tab)
	if err != nil {
		t.Fatalf("AddRICMagnitudes: %v", err)
	}
	pos, _ := out.Series(model.RICRangeColumn)
	if _, present := pos.At(1); present {
		t.Fatal("row with absent component must yield absent magnitude")
	}
	if v, present := pos.At(0); !present || v != 1 {
		t.Fatalf("row 0 magnitude = %v, %v, want 1, true", v, present)
	}
}

func TestAddRICMagnitudesMissingColumn(t *testing.T) {
	tab := odtable.New(testEpochs(1))
	mustAddSeries(t, tab, model.DeltaXColumn, []float64{1}, nil)

	_, err := AddRICMagnitudes(tab)
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingColumnError", err)
	}
	if missing.Column != model.DeltaYColumn {
		t.Fatalf("missing column = %q, want %q", missing.Column, model.DeltaYColumn)
	}
}
