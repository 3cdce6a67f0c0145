package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BlockPaint/internal/engine"
	"github.com/piwi3910/BlockPaint/internal/model"
	"github.com/piwi3910/BlockPaint/internal/target"
)

func newCompareCmd(opts *options) *cobra.Command {
	var whatIf bool

	cmd := &cobra.Command{
		Use:   "compare <problem-id> [algorithms...]",
		Short: "Run several searches on one problem and compare their results",
		Long: "Runs one search per algorithm (all of them when none are named) and prints\n" +
			"a table of best score, candidates, evaluations, skips, improvements and\n" +
			"duration. With --what-if, compares the current settings against the other\n" +
			"strategy and the other sampler for the first algorithm instead.",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger(cmd)

			algorithms := make([]model.Algorithm, 0, len(args)-1)
			for _, name := range args[1:] {
				if _, err := engine.Lookup(model.Algorithm(name)); err != nil {
					return err
				}
				algorithms = append(algorithms, model.Algorithm(name))
			}

			cfg, problem, err := opts.loadProblem(logger, args[0])
			if err != nil {
				return err
			}
			base, err := opts.settings(cmd, cfg, model.AlgorithmXCut)
			if err != nil {
				return err
			}

			var scenarios []engine.ComparisonScenario
			if whatIf {
				if len(algorithms) > 0 {
					base.Algorithm = algorithms[0]
				}
				scenarios = engine.BuildDefaultScenarios(base)
			} else {
				scenarios = engine.BuildAlgorithmScenarios(base, algorithms)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			newEval := func(s model.SearchSettings) *engine.Evaluator {
				return engine.NewEvaluator(problem.Initial, target.FromSettings(problem.Image, s))
			}
			results, err := engine.CompareScenarios(ctx, scenarios, newEval, logger)
			if werr := writeComparison(cmd.OutOrStdout(), results); werr != nil {
				return werr
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&whatIf, "what-if", false, "compare strategy and sampler alternatives instead of algorithms")
	return cmd
}

// writeComparison prints one aligned row per scenario.
func writeComparison(w io.Writer, results []engine.ComparisonResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tALGORITHM\tSTRATEGY\tSAMPLER\tBEST\tCANDIDATES\tEVALUATED\tSKIPPED\tIMPROVEMENTS\tDURATION")
	for _, r := range results {
		s := r.Scenario.Settings
		best := "-"
		switch {
		case r.Err != nil:
			best = "error: " + r.Err.Error()
		case r.Stats.Found:
			best = fmt.Sprintf("%d", r.Stats.Best.Score)
		}
		candidates := "-"
		if r.Stats.Candidates > 0 {
			candidates = fmt.Sprintf("%d", r.Stats.Candidates)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.Scenario.Name, s.Algorithm, s.Strategy, s.Sampler, best, candidates,
			r.Stats.Evaluated, r.Stats.Skipped, r.Stats.Improvements,
			r.Stats.Duration.Round(time.Millisecond))
	}
	return tw.Flush()
}
