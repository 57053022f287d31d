package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/signalsfoundry/od-analyzer/model"
	"github.com/signalsfoundry/od-analyzer/odtable"
)

const (
	histogramBins   = 50
	referencePoints = 100

	// The reference curve spans the 1st to 99th percentile of the
	// chi-squared distribution; the tails carry no visual information.
	lowerQuantile = 0.01
	upperQuantile = 0.99
)

// ChiSquaredReference is the theoretical chi-squared density sampled over a
// bounded support, together with the scale factor that aligns its peak with
// the observed residual-ratio histogram peak. The alignment is a
// visualization aid for a qualitative shape overlay, not a fitted estimator
// or a hypothesis test; no test statistic is computed anywhere in this
// package.
type ChiSquaredReference struct {
	Freedoms int

	// X holds 100 evenly spaced abscissa points between the 1% and 99%
	// chi-squared quantiles; Y holds the unscaled density at each point.
	X []float64
	Y []float64

	// Hist holds the 50-bin residual-ratio histogram counts used to derive
	// the scale factor, with HistDividers as the 51 bin edges. Bin 0
	// collects the null-filled zero bucket and is excluded from the peak.
	Hist         []float64
	HistDividers []float64

	ScaleFactor float64
}

// ScaledY returns the density scaled to the histogram peak.
func (r *ChiSquaredReference) ScaledY() []float64 {
	out := make([]float64, len(r.Y))
	for i, y := range r.Y {
		out[i] = y * r.ScaleFactor
	}
	return out
}

// BuildChiSquaredReference computes the chi-squared reference curve for the
// table's residual-ratio series with the given degrees of freedom (the
// count of active measurement types, from DetectMeasurementTypes).
//
// Missing ratios are filled with zero for histogram purposes only, so the
// first bin is inflated by untracked epochs; the peak is therefore taken
// over bins[1:]. Freedoms below one fail fast with a
// DegenerateDistributionError.
func BuildChiSquaredReference(t *odtable.Table, freedoms int) (*ChiSquaredReference, error) {
	if freedoms < 1 {
		return nil, &DegenerateDistributionError{Freedoms: freedoms}
	}
	ratio, ok := t.Series(model.ResidualRatioColumn)
	if !ok {
		return nil, &MissingColumnError{Column: model.ResidualRatioColumn}
	}

	ratios := fillMissingRatioWithZero(ratio)
	hist, dividers := ratioHistogram(ratios)

	// Peak over bins[1:]: bin 0 holds the null-inflated zero bucket and
	// must never dominate the scale estimate.
	var peak float64
	for _, c := range hist[1:] {
		if c > peak {
			peak = c
		}
	}

	dist := distuv.ChiSquared{K: float64(freedoms)}
	x := make([]float64, referencePoints)
	floats.Span(x, dist.Quantile(lowerQuantile), dist.Quantile(upperQuantile))
	y := make([]float64, referencePoints)
	for i, xi := range x {
		y[i] = dist.Prob(xi)
	}

	return &ChiSquaredReference{
		Freedoms:     freedoms,
		X:            x,
		Y:            y,
		Hist:         hist,
		HistDividers: dividers,
		ScaleFactor:  peak / floats.Max(y),
	}, nil
}

// fillMissingRatioWithZero substitutes 0.0 for rows without a residual
// ratio. This is an explicit, documented approximation carried over from
// the estimator's report tooling: epochs where no measurement was processed
// still occupy a histogram slot, collected in bin 0 and discarded when the
// peak is computed. It is not a statistical correction.
func fillMissingRatioWithZero(s *odtable.Series) []float64 {
	out := make([]float64, s.Len())
	for i := range out {
		if v, ok := s.At(i); ok {
			out[i] = v
		}
	}
	return out
}

// ratioHistogram bins the filled ratios into 50 equal-width bins over the
// observed range. An all-equal sample widens the range by half a unit on
// each side so the bins stay well-formed.
func ratioHistogram(ratios []float64) (counts, dividers []float64) {
	counts = make([]float64, histogramBins)
	dividers = make([]float64, histogramBins+1)
	if len(ratios) == 0 {
		floats.Span(dividers, 0, 1)
		return counts, dividers
	}

	sorted := make([]float64, len(ratios))
	copy(sorted, ratios)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	floats.Span(dividers, lo, hi)
	// stat.Histogram requires the maximum sample to sit strictly below the
	// last divider.
	dividers[len(dividers)-1] = math.Nextafter(hi, math.Inf(1))

	stat.Histogram(counts, dividers, sorted, nil)
	return counts, dividers
}
