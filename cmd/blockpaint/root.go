package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/piwi3910/BlockPaint/internal/engine"
	"github.com/piwi3910/BlockPaint/internal/export"
	"github.com/piwi3910/BlockPaint/internal/importer"
	"github.com/piwi3910/BlockPaint/internal/model"
	"github.com/piwi3910/BlockPaint/internal/oplog"
	"github.com/piwi3910/BlockPaint/internal/project"
	"github.com/piwi3910/BlockPaint/internal/target"
)

// options holds the flag values shared by all commands.
type options struct {
	configPath  string
	verbose     bool
	veryVerbose bool
	quiet       bool

	step     int
	workers  int
	strategy string
	sampler  string
	stride   int
	seed     int64
	initial  string

	// Artifacts of the best result
	png   string
	scale int
	pdf   string
	xlsx  string
	dxf   string
	save  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "blockpaint <problem-id> <algorithm>",
		Short: "Approximate a target image with block-painting operations",
		Long: "Searches the cut coordinates of a partition topology for the operation log\n" +
			"with the lowest score (operation cost plus similarity to the target image).\n" +
			"Each improvement is printed as <score>|<op>|<op>|...\n\n" +
			"Algorithms: " + algorithmNames() + ".",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, args[0], model.Algorithm(args[1]))
		},
	}

	opts.bindSearchFlags(cmd.PersistentFlags())

	f := cmd.Flags()
	f.StringVar(&opts.png, "png", "", "write the best canvas as a PNG image")
	f.IntVar(&opts.scale, "scale", 1, "PNG enlargement factor")
	f.StringVar(&opts.pdf, "pdf", "", "write a PDF run report")
	f.StringVar(&opts.xlsx, "xlsx", "", "write an XLSX improvement history")
	f.StringVar(&opts.dxf, "dxf", "", "write the best block layout as a DXF drawing")
	f.StringVar(&opts.save, "save", "", "save the best solution (.json, or .isl for operation text)")

	cmd.AddCommand(newReplayCmd(opts), newCompareCmd(opts), newAlgorithmsCmd(opts))
	return cmd
}

// bindSearchFlags registers the flags shared by every command on fs.
func (o *options) bindSearchFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.configPath, "config", project.DefaultConfigPath(), "app config file (.toml or .json)")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log progress")
	fs.BoolVar(&o.veryVerbose, "vv", false, "log debug diagnostics, including skipped candidates")
	fs.BoolVarP(&o.quiet, "quiet", "q", false, "log errors only")
	fs.IntVar(&o.step, "step", 0, "coordinate step (0 uses the topology default)")
	fs.IntVar(&o.workers, "workers", 1, "parallel search workers")
	fs.StringVar(&o.strategy, "strategy", string(model.StrategyExhaustive), "search strategy: exhaustive or genetic")
	fs.StringVar(&o.sampler, "sampler", string(model.SampleMostFrequent), "representative color: most-frequent or mean")
	fs.IntVar(&o.stride, "stride", model.DefaultSampleStride, "representative color sampling stride")
	fs.Int64Var(&o.seed, "seed", model.DefaultGeneticConfig().Seed, "genetic strategy random seed")
	fs.StringVar(&o.initial, "initial", "", "starting canvas (.json, .csv, .xlsx or .dxf) instead of the problem's own")
}

func algorithmNames() string {
	names := make([]string, len(model.Algorithms))
	for i, a := range model.Algorithms {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	return newLogger(cmd.ErrOrStderr(), LevelFromFlags(o.veryVerbose, o.verbose, o.quiet))
}

// settings resolves the search settings: defaults, then the app config,
// then any flag given on the command line.
func (o *options) settings(cmd *cobra.Command, cfg model.AppConfig, algo model.Algorithm) (model.SearchSettings, error) {
	s := model.DefaultSettings()
	cfg.ApplyToSettings(&s)
	s.Algorithm = algo

	flags := cmd.Flags()
	if flags.Changed("step") {
		s.Step = o.step
	}
	if flags.Changed("workers") {
		s.Workers = o.workers
	}
	if flags.Changed("strategy") {
		s.Strategy = model.Strategy(o.strategy)
	}
	if flags.Changed("sampler") {
		s.Sampler = model.SamplerMode(o.sampler)
	}
	if flags.Changed("stride") {
		s.SampleStride = o.stride
	}
	if flags.Changed("seed") {
		s.Genetic.Seed = o.seed
	}

	switch s.Strategy {
	case model.StrategyExhaustive, model.StrategyGenetic:
	default:
		return s, fmt.Errorf("unknown strategy %q", s.Strategy)
	}
	switch s.Sampler {
	case model.SampleMostFrequent, model.SampleMean:
	default:
		return s, fmt.Errorf("unknown sampler %q", s.Sampler)
	}
	if s.SampleStride <= 0 {
		return s, fmt.Errorf("sample stride must be positive, got %d", s.SampleStride)
	}
	return s, nil
}

// loadProblem reads the app config and the problem, replacing the starting
// canvas when --initial is given.
func (o *options) loadProblem(logger *slog.Logger, id string) (model.AppConfig, *project.Problem, error) {
	cfg, err := project.LoadAppConfig(o.configPath)
	if err != nil {
		return cfg, nil, err
	}
	problem, err := project.LoadProblem(id, cfg)
	if err != nil {
		return cfg, nil, err
	}
	logger.Info("problem loaded", "id", id, "image", problem.ImagePath, "initial", problem.InitialPath)

	if o.initial != "" {
		canvas, err := loadInitial(logger, o.initial)
		if err != nil {
			return cfg, nil, err
		}
		problem.Initial = canvas
		problem.InitialPath = o.initial
	}

	b := problem.Image.Bounds()
	if problem.Initial.Width != b.Dx() || problem.Initial.Height != b.Dy() {
		return cfg, nil, fmt.Errorf("starting canvas is %dx%d but target image is %dx%d",
			problem.Initial.Width, problem.Initial.Height, b.Dx(), b.Dy())
	}
	return cfg, problem, nil
}

// loadInitial reads a starting canvas, choosing the reader by extension.
func loadInitial(logger *slog.Logger, path string) (*model.Canvas, error) {
	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return project.LoadInitialCanvas(path)
	case ".csv", ".tsv", ".txt":
		result = importer.ImportCSV(path)
	case ".xlsx", ".xlsm":
		result = importer.ImportExcel(path)
	case ".dxf":
		result = importer.ImportDXF(path)
	default:
		return nil, fmt.Errorf("unsupported starting canvas format %q", filepath.Ext(path))
	}
	for _, w := range result.Warnings {
		logger.Warn("import", "file", path, "warning", w)
	}
	canvas, err := result.Canvas()
	if err != nil {
		return nil, fmt.Errorf("failed to import starting canvas %s: %w", path, err)
	}
	return canvas, nil
}

func runSearch(cmd *cobra.Command, opts *options, problemID string, algo model.Algorithm) error {
	logger := opts.logger(cmd)

	// An unknown algorithm is fatal before any work is done
	if _, err := engine.Lookup(algo); err != nil {
		return err
	}

	cfg, problem, err := opts.loadProblem(logger, problemID)
	if err != nil {
		return err
	}
	settings, err := opts.settings(cmd, cfg, algo)
	if err != nil {
		return err
	}

	eval := engine.NewEvaluator(problem.Initial, target.FromSettings(problem.Image, settings))
	eng := &engine.Engine{Settings: settings, Logger: logger}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	lines := oplog.NewWriter(cmd.OutOrStdout())
	history := export.NewHistory()
	stats, err := eng.Run(ctx, eval, engine.Tee(lines, history))
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Warn("search interrupted, keeping the best result so far", "evaluated", stats.Evaluated)
	}
	if err := lines.Err(); err != nil {
		return fmt.Errorf("failed to write improvement: %w", err)
	}
	if !stats.Found {
		logger.Warn("no candidate could be evaluated", "skipped", stats.Skipped)
		return nil
	}

	_, final, err := eval.Replay(stats.Best.Log)
	if err != nil {
		return fmt.Errorf("failed to replay best log: %w", err)
	}
	solution := project.NewSolution(problemID, settings, stats.Best)
	report := export.Report{
		ProblemID: problemID,
		RunID:     solution.RunID,
		Settings:  settings,
		Stats:     stats,
		History:   history.Improvements(),
		Initial:   eval.Initial(),
		Final:     final,
		Target:    problem.Image,
	}
	if err := opts.writeArtifacts(logger, report, solution); err != nil {
		return err
	}

	if opts.save != "" {
		rememberRun(logger, opts.configPath, cfg, solution.RunID)
	}
	return nil
}

// writeArtifacts writes every requested output file of a run.
func (o *options) writeArtifacts(logger *slog.Logger, report export.Report, solution project.Solution) error {
	artifacts := []struct {
		path  string
		write func(string) error
	}{
		{o.save, func(p string) error { return project.SaveSolution(p, solution) }},
		{o.png, func(p string) error { return export.ExportPNG(p, report.Final, o.scale) }},
		{o.pdf, func(p string) error { return export.ExportPDF(p, report) }},
		{o.xlsx, func(p string) error { return export.ExportHistory(p, report) }},
		{o.dxf, func(p string) error { return export.ExportDXF(p, report.Final) }},
	}
	for _, a := range artifacts {
		if a.path == "" {
			continue
		}
		if err := a.write(a.path); err != nil {
			return err
		}
		logger.Info("wrote artifact", "path", a.path)
	}
	return nil
}

// rememberRun adds runID to the recent runs of an existing config file.
func rememberRun(logger *slog.Logger, path string, cfg model.AppConfig, runID string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	cfg.AddRecentRun(runID)
	if err := project.SaveAppConfig(path, cfg); err != nil {
		logger.Warn("failed to record run in config", "path", path, "error", err)
	}
}
