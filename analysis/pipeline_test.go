package analysis

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/signalsfoundry/od-analyzer/model"
	"github.com/signalsfoundry/od-analyzer/odtable"
)

type capturingRecorder struct {
	stages      map[string]int
	activeTypes int
	rows        int
	rejected    int
}

func (c *capturingRecorder) ObserveStage(stage string, d time.Duration) {
	if c.stages == nil {
		c.stages = make(map[string]int)
	}
	c.stages[stage]++
}

func (c *capturingRecorder) SetActiveMeasurementTypes(n int) { c.activeTypes = n }
func (c *capturingRecorder) AddRowsProcessed(n int)          { c.rows += n }
func (c *capturingRecorder) AddResidualsRejected(n int)      { c.rejected += n }

// observationFixture builds the three-row Range/Doppler scenario used
// across the pipeline tests.
func observationFixture(t *testing.T) *odtable.Table {
	t.Helper()
	tab := odtable.New(testEpochs(3))
	mustAddSeries(t, tab, model.Range.NoiseColumn(),
		[]float64{0.1, 0, 0.2}, []bool{true, false, true})
	mustAddSeries(t, tab, model.Doppler.NoiseColumn(),
		[]float64{0.05, 0.05, 0}, []bool{true, true, false})
	mustAddSeries(t, tab, model.Range.PrefitColumn(), []float64{0.02, 0, 0.04}, []bool{true, false, true})
	mustAddSeries(t, tab, model.Range.PostfitColumn(), []float64{0.01, 0, 0.02}, []bool{true, false, true})
	mustAddSeries(t, tab, model.ResidualRatioColumn,
		[]float64{1.2, 0, 2.8}, []bool{true, false, true})
	mustAddFlag(t, tab, model.ResidualRejectedColumn, []bool{false, false, true})
	return tab
}

func TestRunEndToEnd(t *testing.T) {
	input := observationFixture(t)
	recorder := &capturingRecorder{}

	result, err := Run(context.Background(), input, Options{Metrics: recorder})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Types) != 2 {
		t.Fatalf("detected %d types, want 2", len(result.Types))
	}
	if result.Reference.Freedoms != 2 {
		t.Fatalf("freedoms = %d, want 2", result.Reference.Freedoms)
	}
	if !result.Table.HasSeries(model.Range.EnvelopePlusColumn()) ||
		!result.Table.HasSeries(model.Doppler.EnvelopeMinusColumn()) {
		t.Fatal("derived table missing envelope series")
	}
	if result.Accepted.Len() != 2 || result.Rejected.Len() != 1 {
		t.Fatalf("partition = %d/%d, want 2/1", result.Accepted.Len(), result.Rejected.Len())
	}

	if recorder.activeTypes != 2 {
		t.Fatalf("recorded active types = %d, want 2", recorder.activeTypes)
	}
	if recorder.rows != 3 || recorder.rejected != 1 {
		t.Fatalf("recorded rows/rejected = %d/%d, want 3/1", recorder.rows, recorder.rejected)
	}
	for _, stage := range []string{
		"detect_measurement_types",
		"noise_envelopes",
		"chi_squared_reference",
		"residual_partition",
	} {
		if recorder.stages[stage] != 1 {
			t.Fatalf("stage %q observed %d times, want 1", stage, recorder.stages[stage])
		}
	}
}

func TestRunDoesNotMutateInput(t *testing.T) {
	input := observationFixture(t)
	pristine := input.Clone()

	if _, err := Run(context.Background(), input, Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(input, pristine) {
		t.Fatal("pipeline mutated its input table")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	input := observationFixture(t)

	first, err := Run(context.Background(), input, Options{})
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := Run(context.Background(), input, Options{})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("two runs over the same input differ")
	}
}

func TestRunFailsWithoutMeasurementTypes(t *testing.T) {
	tab := odtable.New(testEpochs(2))
	mustAddSeries(t, tab, model.ResidualRatioColumn, []float64{1, 2}, nil)
	mustAddFlag(t, tab, model.ResidualRejectedColumn, []bool{false, false})

	_, err := Run(context.Background(), tab, Options{})
	if !errors.Is(err, ErrNoMeasurementTypes) {
		t.Fatalf("err = %v, want ErrNoMeasurementTypes", err)
	}
}

func TestRunFailsWithoutRatioColumn(t *testing.T) {
	tab := odtable.New(testEpochs(1))
	mustAddSeries(t, tab, model.Range.NoiseColumn(), []float64{0.1}, nil)

	_, err := Run(context.Background(), tab, Options{})
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingColumnError", err)
	}
	if missing.Column != model.ResidualRatioColumn {
		t.Fatalf("missing column = %q, want %q", missing.Column, model.ResidualRatioColumn)
	}
}
