package analysis

import (
	"errors"
	"testing"

	"github.com/signalsfoundry/od-analyzer/model"
	"github.com/signalsfoundry/od-analyzer/odtable"
)

func TestAddNoiseEnvelopesScalesByThreeSigma(t *testing.T) {
	tab := odtable.New(testEpochs(3))
	mustAddSeries(t, tab, model.Range.NoiseColumn(),
		[]float64{0.1, 0, 0.2}, []bool{true, false, true})

	if err := AddNoiseEnvelopes(tab, []model.MeasurementType{model.Range}); err != nil {
		t.Fatalf("AddNoiseEnvelopes: %v", err)
	}

	plus, ok := tab.Series(model.Range.EnvelopePlusColumn())
	if !ok {
		t.Fatal("missing +3-sigma series")
	}
	minus, ok := tab.Series(model.Range.EnvelopeMinusColumn())
	if !ok {
		t.Fatal("missing -3-sigma series")
	}

	noise, _ := tab.Series(model.Range.NoiseColumn())
	for i := 0; i < tab.Len(); i++ {
		n, nOK := noise.At(i)
		p, pOK := plus.At(i)
		m, mOK := minus.At(i)
		if pOK != nOK || mOK != nOK {
			t.Fatalf("row %d: envelope validity %v/%v, noise validity %v", i, pOK, mOK, nOK)
		}
		if !nOK {
			continue
		}
		if p != 3.0*n {
			t.Fatalf("row %d: +3-sigma = %v, want %v", i, p, 3.0*n)
		}
		if m != -p {
			t.Fatalf("row %d: -3-sigma = %v, want %v", i, m, -p)
		}
	}
}

// The three-row Range/Doppler scenario: noise [0.1, null, 0.2] must yield
// envelopes [0.3, null, 0.6] and [-0.3, null, -0.6].
func TestAddNoiseEnvelopesRangeDopplerScenario(t *testing.T) {
	tab := odtable.New(testEpochs(3))
	mustAddSeries(t, tab, model.Range.NoiseColumn(),
		[]float64{0.1, 0, 0.2}, []bool{true, false, true})
	mustAddSeries(t, tab, model.Doppler.NoiseColumn(),
		[]float64{0.05, 0.05, 0}, []bool{true, true, false})

	types, err := DetectMeasurementTypes(tab)
	if err != nil {
		t.Fatalf("DetectMeasurementTypes: %v", err)
	}
	if len(types) != 2 {
		t.Fatalf("degrees of freedom = %d, want 2", len(types))
	}
	if err := AddNoiseEnvelopes(tab, types); err != nil {
		t.Fatalf("AddNoiseEnvelopes: %v", err)
	}

	plus, _ := tab.Series(model.Range.EnvelopePlusColumn())
	minus, _ := tab.Series(model.Range.EnvelopeMinusColumn())

	wantValues := []float64{0.3, 0, 0.6}
	wantValid := []bool{true, false, true}
	for i := range wantValues {
		p, ok := plus.At(i)
		if ok != wantValid[i] {
			t.Fatalf("row %d: +3-sigma present = %v, want %v", i, ok, wantValid[i])
		}
		if ok && p != wantValues[i] {
			t.Fatalf("row %d: +3-sigma = %v, want %v", i, p, wantValues[i])
		}
		m, ok := minus.At(i)
		if ok && m != -wantValues[i] {
			t.Fatalf("row %d: -3-sigma = %v, want %v", i, m, -wantValues[i])
		}
	}
}

func TestAddNoiseEnvelopesMissingColumn(t *testing.T) {
	tab := odtable.New(testEpochs(1))
	err := AddNoiseEnvelopes(tab, []model.MeasurementType{model.Azimuth})

	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingColumnError", err)
	}
	if missing.Column != model.Azimuth.NoiseColumn() {
		t.Fatalf("missing column = %q, want %q", missing.Column, model.Azimuth.NoiseColumn())
	}
	if missing.MeasurementType != string(model.Azimuth) {
		t.Fatalf("missing type = %q, want %q", missing.MeasurementType, model.Azimuth)
	}
}
