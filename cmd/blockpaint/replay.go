package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BlockPaint/internal/engine"
	"github.com/piwi3910/BlockPaint/internal/export"
	"github.com/piwi3910/BlockPaint/internal/oplog"
	"github.com/piwi3910/BlockPaint/internal/project"
	"github.com/piwi3910/BlockPaint/internal/target"
)

func newReplayCmd(opts *options) *cobra.Command {
	var png, dxf string
	var scale int

	cmd := &cobra.Command{
		Use:   "replay <problem-id> <solution-file>",
		Short: "Score a saved operation log against a problem",
		Long: "Replays a solution (JSON, one operation per line, or a search output line)\n" +
			"on the problem's starting canvas and prints <score>|<op>|<op>|...",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger(cmd)

			cfg, problem, err := opts.loadProblem(logger, args[0])
			if err != nil {
				return err
			}
			solution, log, err := project.LoadSolution(args[1])
			if err != nil {
				return err
			}

			settings, err := opts.settings(cmd, cfg, solution.Settings.Algorithm)
			if err != nil {
				return err
			}
			// Score with the sampler the solution was found with unless overridden
			if solution.Settings.Sampler != "" && !cmd.Flags().Changed("sampler") {
				settings.Sampler = solution.Settings.Sampler
			}

			eval := engine.NewEvaluator(problem.Initial, target.FromSettings(problem.Image, settings))
			result, final, err := eval.Replay(log)
			if err != nil {
				return fmt.Errorf("failed to replay %s: %w", args[1], err)
			}
			logger.Info("replayed",
				"operations", len(log),
				"cost", result.Cost,
				"similarity", result.Similarity,
				"score", result.Score)
			if solution.Score != 0 && solution.Score != result.Score {
				logger.Warn("score differs from the saved solution", "saved", solution.Score, "replayed", result.Score)
			}

			if _, err := fmt.Fprintln(cmd.OutOrStdout(), oplog.FormatLine(result)); err != nil {
				return err
			}

			if png != "" {
				if err := export.ExportPNG(png, final, scale); err != nil {
					return err
				}
			}
			if dxf != "" {
				if err := export.ExportDXF(dxf, final); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&png, "png", "", "write the replayed canvas as a PNG image")
	cmd.Flags().IntVar(&scale, "scale", 1, "PNG enlargement factor")
	cmd.Flags().StringVar(&dxf, "dxf", "", "write the replayed block layout as a DXF drawing")
	return cmd
}
