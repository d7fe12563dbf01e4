package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/skill-taxonomy/internal/observability"
)

var bestMatchesCmd = &cobra.Command{
	Use:   "best-matches <skill>",
	Short: "Rank candidate skills by similarity to one skill",
	Long:  "Rank candidates by similarity to the skill. Without --candidates every taxonomy skill name is a candidate.",
	Args:  cobra.ExactArgs(1),
	RunE:  runBestMatches,
}

var (
	bestCandidates []string
	bestTopK       int
	bestThreshold  float64
)

func init() {
	bestMatchesCmd.Flags().StringSliceVar(&bestCandidates, "candidates", nil, "Candidate skills, comma separated")
	bestMatchesCmd.Flags().IntVar(&bestTopK, "top-k", 0, "Number of candidates to return (default from config)")
	bestMatchesCmd.Flags().Float64Var(&bestThreshold, "threshold", 0, "Minimum confidence (default from config)")

	rootCmd.AddCommand(bestMatchesCmd)
}

func runBestMatches(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	candidates := splitList(bestCandidates)
	if len(candidates) == 0 {
		skills, err := a.store.GetAllSkills(ctx)
		if err != nil {
			return err
		}
		for _, s := range skills {
			candidates = append(candidates, s.Name)
		}
	}

	ranked := a.matcher.FindBestMatches(args[0], candidates, bestTopK, bestThreshold)
	return render(cmd.OutOrStdout(), ranked, func(p *observability.Printer) {
		p.PrintBestMatches(args[0], ranked)
	})
}
