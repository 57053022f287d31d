package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/signalsfoundry/od-analyzer/analysis"
	"github.com/signalsfoundry/od-analyzer/internal/ingest"
	"github.com/signalsfoundry/od-analyzer/internal/logging"
	"github.com/signalsfoundry/od-analyzer/internal/observability"
	"github.com/signalsfoundry/od-analyzer/internal/render"
	"github.com/signalsfoundry/od-analyzer/model"
)

// ricInput is one labeled RIC error file, given as -ric label=path.
type ricInput struct {
	label string
	path  string
}

type ricInputs []ricInput

func (r *ricInputs) String() string {
	parts := make([]string, len(*r))
	for i, in := range *r {
		parts[i] = in.label + "=" + in.path
	}
	return strings.Join(parts, ",")
}

func (r *ricInputs) Set(value string) error {
	label, path, ok := strings.Cut(value, "=")
	if !ok || label == "" || path == "" {
		return fmt.Errorf("expected label=path, got %q", value)
	}
	*r = append(*r, ricInput{label: label, path: path})
	return nil
}

func main() {
	obsPath := flag.String("obs", "", "observation table CSV exported by the estimator")
	outDir := flag.String("out", "report", "directory for rendered figures")
	configPath := flag.String("config", "", "optional JSON report config selecting figures")
	metricsAddr := flag.String("metrics-addr", "", "optional address to expose /metrics on while the run executes")
	var rics ricInputs
	flag.Var(&rics, "ric", "labeled RIC error CSV as label=path (repeatable)")
	flag.Parse()

	if *obsPath == "" {
		fmt.Fprintln(os.Stderr, "odreport: -obs is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, log := logging.WithRunLogger(context.Background(), logging.NewFromEnv())

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "tracing init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	collector, err := observability.NewRunCollector(nil)
	if err != nil {
		log.Error(ctx, "metrics init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Warn(ctx, "metrics listener stopped", logging.String("error", err.Error()))
			}
		}()
		log.Info(ctx, "metrics exposed", logging.String("addr", *metricsAddr))
	}

	cfg := render.DefaultConfig()
	if *configPath != "" {
		if cfg, err = loadReportConfig(*configPath); err != nil {
			log.Error(ctx, "report config load failed", logging.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if err := run(ctx, log, collector, cfg, *obsPath, *outDir, rics); err != nil {
		collector.IncRun("error")
		log.Error(ctx, "run failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	collector.IncRun("ok")
}

func run(ctx context.Context, log logging.Logger, collector *observability.RunCollector, cfg render.Config, obsPath, outDir string, rics ricInputs) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	table, err := ingest.LoadObservationFile(obsPath)
	if err != nil {
		return err
	}
	log.Info(ctx, "observation table loaded",
		logging.String("path", obsPath),
		logging.Int("rows", table.Len()))

	result, err := analysis.Run(ctx, table, analysis.Options{Logger: log, Metrics: collector})
	if err != nil {
		return err
	}

	fmt.Printf("Active measurement types (%d degrees of freedom):\n", len(result.Types))
	for _, m := range result.Types {
		fmt.Printf("  %s\n", m)
	}
	fmt.Printf("Residuals: %d accepted, %d rejected of %d rows\n",
		result.Accepted.Len(), result.Rejected.Len(), result.Table.Len())
	fmt.Printf("Chi-squared scale factor: %.6g\n", result.Reference.ScaleFactor)

	figures := render.Figures(cfg, result)
	for _, ric := range rics {
		ricTable, err := ingest.LoadRICErrorFile(ric.path)
		if err != nil {
			return err
		}
		ricTable, err = analysis.AddRICMagnitudes(ricTable)
		if err != nil {
			return fmt.Errorf("ric %q: %w", ric.label, err)
		}

		fmt.Printf("== %s (%s) ==\n", ric.label, ric.path)
		for _, column := range []string{model.RICRangeColumn, model.RICRangeRateColumn} {
			s, _ := ricTable.Series(column)
			fmt.Printf("%s\n  %s\n", column, analysis.Describe(s))
		}

		figures = append(figures, render.RICErrorFigures(cfg, ricTable, ric.label)...)
	}

	for i := range figures {
		if err := writeFigure(outDir, &figures[i]); err != nil {
			return err
		}
	}
	log.Info(ctx, "report written",
		logging.String("dir", outDir),
		logging.Int("figures", len(figures)))
	return nil
}

func writeFigure(outDir string, figure *render.Figure) error {
	path := filepath.Join(outDir, figure.Name+".png")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := figure.Render(f); err != nil {
		return err
	}
	return f.Close()
}

func loadReportConfig(path string) (render.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return render.Config{}, err
	}
	cfg := render.DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return render.Config{}, fmt.Errorf("parse report config %q: %w", path, err)
	}
	return cfg, nil
}
