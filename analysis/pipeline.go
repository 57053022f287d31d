package analysis

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/od-analyzer/internal/logging"
	"github.com/signalsfoundry/od-analyzer/model"
	"github.com/signalsfoundry/od-analyzer/odtable"
)

const tracerName = "od-analysis"

// RunMetricsRecorder receives pipeline counters. It is satisfied by
// observability.RunCollector; a nil recorder disables metrics.
type RunMetricsRecorder interface {
	ObserveStage(stage string, d time.Duration)
	SetActiveMeasurementTypes(n int)
	AddRowsProcessed(n int)
	AddResidualsRejected(n int)
}

// Options carries the ambient collaborators of a pipeline run. The zero
// value runs silently with no metrics.
type Options struct {
	Logger  logging.Logger
	Metrics RunMetricsRecorder
}

// Result bundles everything the rendering collaborator needs: the derived
// table (envelopes appended), the accept/reject partitions, the active
// measurement types, and the scaled chi-squared reference.
type Result struct {
	Table     *odtable.Table
	Accepted  *odtable.Table
	Rejected  *odtable.Table
	Types     []model.MeasurementType
	Reference *ChiSquaredReference
}

// Run executes the full consistency analysis over a clone of the input
// table: schema detection, noise envelopes, chi-squared reference, and
// accept/reject partition. The input is never mutated, so repeated runs
// over the same table yield identical results. Any stage error aborts the
// run before partial output is surfaced.
func Run(ctx context.Context, input *odtable.Table, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Noop()
	}
	tracer := otel.Tracer(tracerName)

	ctx, span := tracer.Start(ctx, "analysis.run",
		trace.WithAttributes(attribute.Int("rows", input.Len())))
	defer span.End()

	t := input.Clone()

	types, err := runStage(ctx, tracer, opts.Metrics, "detect_measurement_types",
		func(context.Context) ([]model.MeasurementType, error) {
			return DetectMeasurementTypes(t)
		})
	if err != nil {
		log.Error(ctx, "schema detection failed", logging.String("error", err.Error()))
		return nil, err
	}
	span.SetAttributes(attribute.Int("freedoms", len(types)))
	log.Info(ctx, "measurement types detected",
		logging.Int("count", len(types)),
		logging.Any("types", types))

	if _, err = runStage(ctx, tracer, opts.Metrics, "noise_envelopes",
		func(context.Context) (struct{}, error) {
			return struct{}{}, AddNoiseEnvelopes(t, types)
		}); err != nil {
		log.Error(ctx, "noise envelope computation failed", logging.String("error", err.Error()))
		return nil, err
	}

	ref, err := runStage(ctx, tracer, opts.Metrics, "chi_squared_reference",
		func(context.Context) (*ChiSquaredReference, error) {
			return BuildChiSquaredReference(t, len(types))
		})
	if err != nil {
		log.Error(ctx, "chi-squared reference failed", logging.String("error", err.Error()))
		return nil, err
	}
	log.Info(ctx, "chi-squared reference built",
		logging.Int("freedoms", ref.Freedoms),
		logging.Any("scale_factor", ref.ScaleFactor))

	partition, err := runStage(ctx, tracer, opts.Metrics, "residual_partition",
		func(context.Context) ([2]*odtable.Table, error) {
			accepted, rejected, err := PartitionByRejection(t)
			return [2]*odtable.Table{accepted, rejected}, err
		})
	if err != nil {
		log.Error(ctx, "residual partition failed", logging.String("error", err.Error()))
		return nil, err
	}
	accepted, rejected := partition[0], partition[1]

	if opts.Metrics != nil {
		opts.Metrics.SetActiveMeasurementTypes(len(types))
		opts.Metrics.AddRowsProcessed(t.Len())
		opts.Metrics.AddResidualsRejected(rejected.Len())
	}
	log.Info(ctx, "analysis complete",
		logging.Int("rows", t.Len()),
		logging.Int("accepted", accepted.Len()),
		logging.Int("rejected", rejected.Len()))

	return &Result{
		Table:     t,
		Accepted:  accepted,
		Rejected:  rejected,
		Types:     types,
		Reference: ref,
	}, nil
}

func runStage[T any](ctx context.Context, tracer trace.Tracer, metrics RunMetricsRecorder, name string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	start := time.Now()
	out, err := fn(ctx)
	if metrics != nil {
		metrics.ObserveStage(name, time.Since(start))
	}
	if err != nil {
		span.RecordError(err)
	}
	return out, err
}
