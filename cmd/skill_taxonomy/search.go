package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/skill-taxonomy/internal/observability"
	"github.com/jonathan/skill-taxonomy/internal/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search taxonomy skills by name and alias",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var (
	searchCategory  string
	searchLimit     int
	searchThreshold float64
)

func init() {
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "Restrict results to one category")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum results (default 20)")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", 0, "Minimum score (default 0.6)")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.store.Search(ctx, args[0], types.SearchOptions{
		Category:  searchCategory,
		Limit:     searchLimit,
		Threshold: searchThreshold,
	})
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), results, func(p *observability.Printer) {
		p.PrintSearchResults(args[0], results)
	})
}
