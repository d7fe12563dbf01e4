package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/skill-taxonomy/internal/observability"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <skills...>",
	Short: "Resolve raw skill strings to canonical taxonomy skills",
	Long: "Normalize each argument against the taxonomy using exact, fuzzy, semantic and " +
		"pattern strategies. With the postgres store the results are also persisted.",
	Args: cobra.MinimumNArgs(1),
	RunE: runNormalize,
}

var normalizeSource string

func init() {
	normalizeCmd.Flags().StringVar(&normalizeSource, "source", "", "Label recorded with every result (e.g. resume, job_posting)")

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.normalizer.NormalizeSkills(ctx, args, normalizeSource)
	if err != nil {
		return fmt.Errorf("failed to normalize skills: %w", err)
	}

	if a.database != nil {
		batchID, err := a.database.StoreNormalizationResults(ctx, result, normalizeSource)
		if err != nil {
			return err
		}
		a.logger.Info("stored normalization results", zap.String("batch_id", batchID.String()))
	}

	return render(cmd.OutOrStdout(), result, func(p *observability.Printer) {
		p.PrintNormalizeResult(result)
	})
}
