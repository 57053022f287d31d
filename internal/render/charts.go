// Package render draws the report figures with go-chart. It is a thin
// presentation layer: every numeric input arrives precomputed from the
// analysis package and nothing here feeds back into the core.
package render

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/signalsfoundry/od-analyzer/analysis"
	"github.com/signalsfoundry/od-analyzer/model"
	"github.com/signalsfoundry/od-analyzer/odtable"
)

// Config selects which figures a report includes. The overlay variant is
// off by default, matching the estimator's own report tooling where it is
// an optional diagnostic.
type Config struct {
	ResidualRatioScatter bool `json:"residual_ratio_scatter"`
	ChiSquaredOverlay    bool `json:"chi_squared_overlay"`
	MeasurementResiduals bool `json:"measurement_residuals"`
	RICUncertainty       bool `json:"ric_uncertainty"`
	RICError             bool `json:"ric_error"`
}

// DefaultConfig enables the standard report figures.
func DefaultConfig() Config {
	return Config{
		ResidualRatioScatter: true,
		ChiSquaredOverlay:    false,
		MeasurementResiduals: true,
		RICUncertainty:       true,
		RICError:             true,
	}
}

// Figure is one renderable report chart with a file-name-friendly slug.
type Figure struct {
	Name  string
	chart chart.Chart
}

// Render writes the figure as a PNG.
func (f *Figure) Render(w io.Writer) error {
	if err := f.chart.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %q: %w", f.Name, err)
	}
	return nil
}

// Figures builds the selected figures for one analysis result. Figures
// whose inputs are missing (no rejected rows, no sigma columns) are
// silently omitted rather than rendered empty.
func Figures(cfg Config, result *analysis.Result) []Figure {
	var figures []Figure
	if cfg.ResidualRatioScatter {
		if f, ok := residualRatioScatter(result); ok {
			figures = append(figures, f)
		}
	}
	if cfg.ChiSquaredOverlay {
		if f, ok := chiSquaredOverlay(result.Reference); ok {
			figures = append(figures, f)
		}
	}
	if cfg.MeasurementResiduals {
		for _, m := range result.Types {
			if f, ok := measurementResiduals(result.Accepted, m); ok {
				figures = append(figures, f)
			}
		}
	}
	if cfg.RICUncertainty {
		if f, ok := lineFigure(result.Table, "ric_position_uncertainty", "RIC position uncertainty", "km",
			model.SigmaXColumn, model.SigmaYColumn, model.SigmaZColumn); ok {
			figures = append(figures, f)
		}
		if f, ok := lineFigure(result.Table, "ric_velocity_uncertainty", "RIC velocity uncertainty", "km/s",
			model.SigmaVxColumn, model.SigmaVyColumn, model.SigmaVzColumn); ok {
			figures = append(figures, f)
		}
	}
	return figures
}

// RICErrorFigures builds the position and velocity error figures for one
// RIC error table that already carries its magnitude series.
func RICErrorFigures(cfg Config, t *odtable.Table, label string) []Figure {
	if !cfg.RICError {
		return nil
	}
	var figures []Figure
	if f, ok := lineFigure(t, "ric_position_error_"+label, "Position error: "+label, "km",
		model.DeltaXColumn, model.DeltaYColumn, model.DeltaZColumn, model.RICRangeColumn); ok {
		figures = append(figures, f)
	}
	if f, ok := lineFigure(t, "ric_velocity_error_"+label, "Velocity error: "+label, "km/s",
		model.DeltaVxColumn, model.DeltaVyColumn, model.DeltaVzColumn, model.RICRangeRateColumn); ok {
		figures = append(figures, f)
	}
	return figures
}

func residualRatioScatter(result *analysis.Result) (Figure, bool) {
	var series []chart.Series
	if s, ok := ratioPoints(result.Accepted, "Accepted", pointStyle(chart.ColorBlue)); ok {
		series = append(series, s)
	}
	if s, ok := ratioPoints(result.Rejected, "Rejected", pointStyle(chart.ColorRed)); ok {
		series = append(series, s)
	}
	if len(series) == 0 {
		return Figure{}, false
	}

	ch := chart.Chart{
		Title:  "Residual ratios",
		XAxis:  chart.XAxis{Name: model.EpochColumn},
		YAxis:  chart.YAxis{Name: model.ResidualRatioColumn},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return Figure{Name: "residual_ratios", chart: ch}, true
}

func chiSquaredOverlay(ref *analysis.ChiSquaredReference) (Figure, bool) {
	if ref == nil || len(ref.X) < 2 {
		return Figure{}, false
	}

	// Histogram counts plotted at bin centres; the scaled density peak is
	// aligned with the histogram peak by construction.
	centers := make([]float64, len(ref.Hist))
	for i := range ref.Hist {
		centers[i] = (ref.HistDividers[i] + ref.HistDividers[i+1]) / 2
	}

	ch := chart.Chart{
		Title: fmt.Sprintf("Residual ratios vs chi-squared (k=%d)", ref.Freedoms),
		XAxis: chart.XAxis{Name: model.ResidualRatioColumn},
		YAxis: chart.YAxis{Name: "count"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Residual ratio histogram",
				XValues: centers,
				YValues: ref.Hist,
				Style:   chart.Style{StrokeColor: chart.ColorBlue},
			},
			chart.ContinuousSeries{
				Name:    "Scaled chi-squared density",
				XValues: ref.X,
				YValues: ref.ScaledY(),
				Style:   chart.Style{StrokeColor: chart.ColorRed},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return Figure{Name: "chi_squared_overlay", chart: ch}, true
}

func measurementResiduals(accepted *odtable.Table, m model.MeasurementType) (Figure, bool) {
	var series []chart.Series
	for _, spec := range []struct {
		column string
		style  chart.Style
	}{
		{m.PrefitColumn(), pointStyle(chart.ColorBlue)},
		{m.PostfitColumn(), pointStyle(chart.ColorGreen)},
		{m.EnvelopePlusColumn(), envelopeStyle()},
		{m.EnvelopeMinusColumn(), envelopeStyle()},
	} {
		if s, ok := timeSeries(accepted, spec.column, spec.style); ok {
			series = append(series, s)
		}
	}
	if len(series) == 0 {
		return Figure{}, false
	}

	ch := chart.Chart{
		Title:  "Residuals: " + string(m),
		XAxis:  chart.XAxis{Name: model.EpochColumn},
		YAxis:  chart.YAxis{Name: m.Unit()},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return Figure{Name: "residuals_" + slug(m), chart: ch}, true
}

func lineFigure(t *odtable.Table, name, title, unit string, columns ...string) (Figure, bool) {
	var series []chart.Series
	for i, column := range columns {
		if s, ok := timeSeries(t, column, lineStyle(lineColor(i))); ok {
			series = append(series, s)
		}
	}
	if len(series) == 0 {
		return Figure{}, false
	}

	ch := chart.Chart{
		Title:  title,
		XAxis:  chart.XAxis{Name: model.EpochColumn},
		YAxis:  chart.YAxis{Name: unit},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return Figure{Name: name, chart: ch}, true
}

// timeSeries extracts the valid rows of a column as a time series. Gaps
// from absent rows are skipped, which draws envelope lines straight across
// untracked epochs.
func timeSeries(t *odtable.Table, column string, style chart.Style) (chart.Series, bool) {
	s, ok := t.Series(column)
	if !ok {
		return nil, false
	}
	var (
		times  []time.Time
		values []float64
	)
	for i := 0; i < s.Len(); i++ {
		if v, present := s.At(i); present {
			times = append(times, t.Epoch(i))
			values = append(values, v)
		}
	}
	if len(times) < 2 {
		return nil, false
	}
	return chart.TimeSeries{Name: column, XValues: times, YValues: values, Style: style}, true
}

func ratioPoints(t *odtable.Table, name string, style chart.Style) (chart.Series, bool) {
	s, ok := timeSeries(t, model.ResidualRatioColumn, style)
	if !ok {
		return nil, false
	}
	ts := s.(chart.TimeSeries)
	ts.Name = name
	return ts, true
}

// pointStyle renders points only (no connecting line).
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{StrokeColor: col, StrokeWidth: 1.5}
}

func envelopeStyle() chart.Style {
	return chart.Style{
		StrokeColor:     chart.ColorBlack,
		StrokeWidth:     1.0,
		StrokeDashArray: []float64{5.0, 5.0},
	}
}

func lineColor(i int) drawing.Color {
	colors := []drawing.Color{chart.ColorBlue, chart.ColorGreen, chart.ColorOrange, chart.ColorBlack}
	return colors[i%len(colors)]
}

func slug(m model.MeasurementType) string {
	out := make([]rune, 0, len(m))
	for _, r := range string(m) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '/':
			out = append(out, '_')
		}
	}
	return string(out)
}
