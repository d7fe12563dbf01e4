package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-taxonomy/internal/observability"
	"github.com/jonathan/skill-taxonomy/internal/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Pair skills from a source list with skills from a target list",
	RunE:  runMatch,
}

var (
	matchSource    []string
	matchTarget    []string
	matchStrategy  string
	matchThreshold float64
)

func init() {
	matchCmd.Flags().StringSliceVar(&matchSource, "source", nil, "Source skills, comma separated")
	matchCmd.Flags().StringSliceVar(&matchTarget, "target", nil, "Target skills, comma separated")
	matchCmd.Flags().StringVar(&matchStrategy, "strategy", string(types.StrategyHybrid), "Matching strategy: exact, fuzzy, semantic or hybrid")
	matchCmd.Flags().Float64Var(&matchThreshold, "threshold", 0, "Minimum confidence (default from config)")
	_ = matchCmd.MarkFlagRequired("source")
	_ = matchCmd.MarkFlagRequired("target")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.matcher.Match(ctx, splitList(matchSource), splitList(matchTarget), types.Strategy(matchStrategy), matchThreshold)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	return render(cmd.OutOrStdout(), result, func(p *observability.Printer) {
		p.PrintMatchResult(result)
	})
}
