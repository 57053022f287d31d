package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/signalsfoundry/od-analyzer/odtable"
)

func TestDescribe(t *testing.T) {
	tab := odtable.New(testEpochs(5))
	mustAddSeries(t, tab, "v", []float64{1, 2, 3, 4, 0}, []bool{true, true, true, true, false})
	s, _ := tab.Series("v")

	stats := Describe(s)
	if stats.Count != 4 || stats.NullCount != 1 {
		t.Fatalf("count/null = %d/%d, want 4/1", stats.Count, stats.NullCount)
	}
	if stats.Mean != 2.5 {
		t.Fatalf("mean = %v, want 2.5", stats.Mean)
	}
	if stats.Min != 1 || stats.Max != 4 {
		t.Fatalf("min/max = %v/%v, want 1/4", stats.Min, stats.Max)
	}
	if want := math.Sqrt(5.0 / 3.0); math.Abs(stats.Std-want) > 1e-12 {
		t.Fatalf("std = %v, want %v", stats.Std, want)
	}
	if stats.P25 != 1 || stats.Median != 2 || stats.P75 != 3 {
		t.Fatalf("quantiles = %v/%v/%v, want 1/2/3", stats.P25, stats.Median, stats.P75)
	}
}

func TestDescribeEmptySeries(t *testing.T) {
	tab := odtable.New(testEpochs(2))
	mustAddSeries(t, tab, "v", []float64{0, 0}, []bool{false, false})
	s, _ := tab.Series("v")

	stats := Describe(s)
	if stats.Count != 0 || stats.NullCount != 2 {
		t.Fatalf("count/null = %d/%d, want 0/2", stats.Count, stats.NullCount)
	}
	if stats.Mean != 0 || stats.Std != 0 {
		t.Fatalf("empty series stats should be zero, got %+v", stats)
	}
}

func TestDescribeString(t *testing.T) {
	out := SeriesStats{Count: 3, Mean: 1.5}.String()
	if !strings.Contains(out, "count=3") || !strings.Contains(out, "mean=1.5") {
		t.Fatalf("unexpected stats format: %s", out)
	}
}
