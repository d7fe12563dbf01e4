package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/skill-taxonomy/internal/observability"
)

var overlapCmd = &cobra.Command{
	Use:   "overlap",
	Short: "Measure how much two skill lists have in common",
	RunE:  runOverlap,
}

var (
	overlapSource []string
	overlapTarget []string
)

func init() {
	overlapCmd.Flags().StringSliceVar(&overlapSource, "source", nil, "First skill list, comma separated")
	overlapCmd.Flags().StringSliceVar(&overlapTarget, "target", nil, "Second skill list, comma separated")
	_ = overlapCmd.MarkFlagRequired("source")
	_ = overlapCmd.MarkFlagRequired("target")

	rootCmd.AddCommand(overlapCmd)
}

func runOverlap(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	overlap, err := a.matcher.Overlap(ctx, splitList(overlapSource), splitList(overlapTarget))
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), overlap, func(p *observability.Printer) {
		p.PrintOverlap(overlap)
	})
}
