package analysis

import (
	"errors"
	"testing"

	"github.com/signalsfoundry/od-analyzer/model"
	"github.com/signalsfoundry/od-analyzer/odtable"
)

func TestDetectMeasurementTypesCountsNoiseColumns(t *testing.T) {
	tab := odtable.New(testEpochs(2))
	mustAddSeries(t, tab, model.Range.NoiseColumn(), []float64{0.1, 0.2}, nil)
	mustAddSeries(t, tab, model.Elevation.NoiseColumn(), []float64{0.01, 0.02}, nil)
	// Residual columns alone must not activate a type.
	mustAddSeries(t, tab, model.Doppler.PrefitColumn(), []float64{0, 0}, nil)

	types, err := DetectMeasurementTypes(tab)
	if err != nil {
		t.Fatalf("DetectMeasurementTypes: %v", err)
	}
	if len(types) != 2 {
		t.Fatalf("degrees of freedom = %d, want 2", len(types))
	}
	if types[0] != model.Range || types[1] != model.Elevation {
		t.Fatalf("detected types = %v, want catalog order Range, Elevation", types)
	}
}

func TestDetectMeasurementTypesEmptyIsError(t *testing.T) {
	tab := odtable.New(testEpochs(1))
	mustAddSeries(t, tab, model.ResidualRatioColumn, []float64{1}, nil)

	if _, err := DetectMeasurementTypes(tab); !errors.Is(err, ErrNoMeasurementTypes) {
		t.Fatalf("err = %v, want ErrNoMeasurementTypes", err)
	}
}
