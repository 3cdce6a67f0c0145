package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BlockPaint/internal/engine"
)

func newAlgorithmsCmd(opts *options) *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:   "algorithms",
		Short: "List the partition topologies and the size of their search spaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSTEP\tCANDIDATES\tDESCRIPTION")
			for _, t := range engine.Topologies() {
				space := t.Space(width, height, opts.step)
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", t.Name, space.Step, space.Count(), t.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&width, "width", 400, "canvas width")
	cmd.Flags().IntVar(&height, "height", 400, "canvas height")
	return cmd
}
