package analysis

import (
	"testing"
	"time"

	"github.com/signalsfoundry/od-analyzer/odtable"
)

func testEpochs(n int) []time.Time {
	base := time.Date(2023, 11, 16, 13, 35, 30, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = base.Add(time.Duration(i) * time.Minute)
	}
	return out
}

func mustAddSeries(t *testing.T, tab *odtable.Table, name string, values []float64, valid []bool) {
	t.Helper()
	if err := tab.AddSeries(name, values, valid); err != nil {
		t.Fatalf("AddSeries(%q): %v", name, err)
	}
}

func mustAddFlag(t *testing.T, tab *odtable.Table, name string, values []bool) {
	t.Helper()
	if err := tab.AddFlag(name, values); err != nil {
		t.Fatalf("AddFlag(%q): %v", name, err)
	}
}
