package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpgo/fund-calculator/internal/calculation"
	"github.com/rpgo/fund-calculator/internal/config"
	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/internal/metrics"
	"github.com/rpgo/fund-calculator/internal/navdata"
	"github.com/rpgo/fund-calculator/internal/output"
	"github.com/rpgo/fund-calculator/internal/tracing"
)

// app holds the flag values and lazily built services shared by all commands.
type app struct {
	configPath  string
	format      string
	outDir      string
	csvPath     string
	logLevel    string
	dumpMetrics bool

	stdout io.Writer
	stderr io.Writer

	settings *config.Settings
	logger   *cliLogger
	store    *navdata.Store
	closers  []func(context.Context) error
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "navcalc",
		Short:         "Mutual fund SIP, SWP, lumpsum, goal and loan calculator",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "settings YAML file")
	pf.StringVarP(&a.format, "format", "f", "console",
		"report format: "+strings.Join(output.AvailableFormatterNames(), ", "))
	pf.StringVar(&a.outDir, "out", "", "write the report to a timestamped file in this directory")
	pf.StringVar(&a.csvPath, "csv", "", "read NAV history from a date,nav CSV file instead of the API")
	pf.StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.BoolVar(&a.dumpMetrics, "metrics", false, "print collected metrics to stderr on exit")

	root.AddCommand(
		a.fundsCmd(),
		a.navCmd(),
		a.exportCmd(),
		a.sipCmd(),
		a.swpCmd(),
		a.lumpsumCmd(),
		a.goalCmd(),
		a.loanCmd(),
		a.runCmd(),
		a.examplePlanCmd(),
		a.metricsCmd(),
	)
	return root
}

// setup loads settings and starts logging and tracing.
func (a *app) setup(ctx context.Context) error {
	settings, err := config.LoadSettings(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		settings.LogLevel = a.logLevel
	}
	a.settings = settings
	a.logger = newCLILogger(a.stderr, settings.LogLevel)

	shutdown, err := tracing.Init(ctx, settings.ServiceName, version, settings.OTLPEndpoint)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, shutdown)
	return nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close(ctx context.Context) error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	if a.dumpMetrics {
		if err := metrics.WriteText(a.stderr); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// csvInstrumentID is the id a --csv series is registered under.
func (a *app) csvInstrumentID() string {
	if a.csvPath == "" {
		return ""
	}
	return strings.TrimSuffix(filepath.Base(a.csvPath), filepath.Ext(a.csvPath))
}

// navStore builds the NAV store on first use: a CSV-backed static source
// when --csv is given, the HTTP API otherwise.
func (a *app) navStore(ctx context.Context) (*navdata.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	var (
		source navdata.Source
		cache  navdata.Cache
	)
	if a.csvPath != "" {
		series, err := navdata.LoadCSVFile(a.csvPath, a.csvInstrumentID())
		if err != nil {
			return nil, err
		}
		a.logger.Infof("loaded %d NAV samples from %s", series.Len(), a.csvPath)
		source = navdata.NewStaticSource(series)
	} else {
		client := navdata.NewClient(a.settings.BaseURL, a.settings.RequestTimeout)
		client.Logger = a.logger
		source = client

		if a.settings.CacheDriver == config.CacheSQLite {
			c, err := navdata.OpenSQLiteCache(ctx, a.settings.CachePath)
			if err != nil {
				return nil, err
			}
			a.closers = append(a.closers, func(context.Context) error { return c.Close() })
			cache = c
		}
	}

	a.store = navdata.NewStore(source, cache, navdata.WithLogger(a.logger))
	return a.store, nil
}

// engine returns a calculation engine. The NAV store is only built when the
// plan needs price history, so loan and fixed-rate commands work offline.
func (a *app) engine(ctx context.Context, plan *domain.Plan) (*calculation.CalculationEngine, error) {
	var provider calculation.SeriesProvider
	for _, c := range plan.Calculations {
		if c.Type.NeedsPriceSeries() {
			store, err := a.navStore(ctx)
			if err != nil {
				return nil, err
			}
			provider = store
			break
		}
	}
	engine := calculation.NewCalculationEngine(provider)
	engine.SetLogger(a.logger)
	return engine, nil
}

// runPlan validates and runs a plan, then emits the report.
func (a *app) runPlan(ctx context.Context, plan *domain.Plan) error {
	if plan.Fund == "" {
		plan.Fund = a.csvInstrumentID()
	}
	if err := config.NewInputParser().ValidateConfiguration(plan); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	engine, err := a.engine(ctx, plan)
	if err != nil {
		return err
	}
	report, err := engine.RunPlan(ctx, plan)
	if err != nil {
		return err
	}
	return a.emit(report)
}

func (a *app) runSingle(ctx context.Context, calc domain.Calculation) error {
	return a.runPlan(ctx, &domain.Plan{Calculations: []domain.Calculation{calc}})
}

// emit renders the report to stdout, or to a file when --out is set or the
// format is binary.
func (a *app) emit(report *domain.Report) error {
	if a.outDir == "" && !output.IsBinaryFormat(a.format) {
		return output.Render(a.stdout, report, a.format)
	}
	dir := a.outDir
	if dir == "" {
		dir = "."
	}
	files, err := output.GenerateReport(report, a.format, dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintf(a.stdout, "Report written to %s\n", f)
	}
	return nil
}
