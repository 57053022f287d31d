package analysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/signalsfoundry/od-analyzer/odtable"
)

// SeriesStats summarises one numeric series over its present rows.
type SeriesStats struct {
	Count     int
	NullCount int
	Mean      float64
	Std       float64
	Min       float64
	P25       float64
	Median    float64
	P75       float64
	Max       float64
}

// Describe computes summary statistics over the present rows of a series.
// Absent rows are counted in NullCount and excluded from every statistic.
func Describe(s *odtable.Series) SeriesStats {
	var values []float64
	nulls := 0
	for i := 0; i < s.Len(); i++ {
		if v, ok := s.At(i); ok {
			values = append(values, v)
		} else {
			nulls++
		}
	}

	stats := SeriesStats{Count: len(values), NullCount: nulls}
	if len(values) == 0 {
		return stats
	}

	sort.Float64s(values)
	stats.Min = values[0]
	stats.Max = values[len(values)-1]
	stats.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		stats.Std = stat.StdDev(values, nil)
	}
	stats.P25 = stat.Quantile(0.25, stat.Empirical, values, nil)
	stats.Median = stat.Quantile(0.5, stat.Empirical, values, nil)
	stats.P75 = stat.Quantile(0.75, stat.Empirical, values, nil)
	return stats
}

// String renders the stats in a compact fixed-order form for report output.
func (s SeriesStats) String() string {
	return fmt.Sprintf(
		"count=%d null=%d mean=%.6g std=%.6g min=%.6g 25%%=%.6g 50%%=%.6g 75%%=%.6g max=%.6g",
		s.Count, s.NullCount, s.Mean, s.Std, s.Min, s.P25, s.Median, s.P75, s.Max,
	)
}
