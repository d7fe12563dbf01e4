package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var suggestAliasesCmd = &cobra.Command{
	Use:   "suggest-aliases <skill>",
	Short: "Suggest spelling variations not yet registered as aliases",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggestAliases,
}

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Record source -> canonical skill mappings for review",
	Long:  "Record pairwise mappings from --source to --target. Mappings are persisted with the postgres store; other stores keep them for the current run only.",
	RunE:  runLearn,
}

var (
	suggestLimit int
	learnSource  []string
	learnTarget  []string
)

func init() {
	suggestAliasesCmd.Flags().IntVar(&suggestLimit, "limit", 0, "Maximum suggestions (default 10)")

	learnCmd.Flags().StringSliceVar(&learnSource, "source", nil, "Raw skills, comma separated")
	learnCmd.Flags().StringSliceVar(&learnTarget, "target", nil, "Canonical skills in the same order, comma separated")
	_ = learnCmd.MarkFlagRequired("source")
	_ = learnCmd.MarkFlagRequired("target")

	rootCmd.AddCommand(suggestAliasesCmd)
	rootCmd.AddCommand(learnCmd)
}

func runSuggestAliases(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	suggestions := a.normalizer.SuggestAliases(ctx, args[0], suggestLimit)
	return render(cmd.OutOrStdout(), suggestions, nil)
}

func runLearn(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	source, target := splitList(learnSource), splitList(learnTarget)
	if len(source) != len(target) {
		return fmt.Errorf("--source has %d skills but --target has %d", len(source), len(target))
	}
	if err := a.normalizer.LearnFromMappings(ctx, source, target); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d mappings\n", len(source))
	return nil
}
