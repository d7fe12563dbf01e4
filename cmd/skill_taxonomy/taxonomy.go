package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/skill-taxonomy/internal/observability"
	"github.com/jonathan/skill-taxonomy/internal/taxonomy"
	"github.com/jonathan/skill-taxonomy/internal/types"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect and edit the canonical skill taxonomy",
}

var taxonomyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List canonical skills",
	RunE:  runTaxonomyList,
}

var taxonomyCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories with skill counts",
	RunE:  runTaxonomyCategories,
}

var taxonomyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show taxonomy statistics",
	RunE:  runTaxonomyStats,
}

var (
	listCategory string
	listLimit    int
	listOffset   int
)

func init() {
	taxonomyListCmd.Flags().StringVar(&listCategory, "category", "", "Only list skills in this category")
	taxonomyListCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum skills to list (0 for all)")
	taxonomyListCmd.Flags().IntVar(&listOffset, "offset", 0, "Skills to skip")

	taxonomyCmd.AddCommand(taxonomyListCmd)
	taxonomyCmd.AddCommand(taxonomyCategoriesCmd)
	taxonomyCmd.AddCommand(taxonomyStatsCmd)
	rootCmd.AddCommand(taxonomyCmd)
}

func runTaxonomyList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var skills []types.CanonicalSkill
	if listCategory != "" {
		skills, err = a.store.FindByCategory(ctx, listCategory, listLimit, listOffset)
	} else {
		skills, err = a.store.GetAllSkills(ctx)
		skills = taxonomy.Paginate(skills, listLimit, listOffset)
	}
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), skills, func(p *observability.Printer) {
		p.PrintSkills(skills)
	})
}

func runTaxonomyCategories(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	defs, err := a.categories(ctx)
	if err != nil {
		return err
	}
	categories, err := taxonomy.Categories(ctx, a.store, defs)
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), categories, func(p *observability.Printer) {
		p.PrintCategories(categories)
	})
}

func runTaxonomyStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := taxonomy.Stats(ctx, a.store)
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), stats, func(p *observability.Printer) {
		p.PrintStats(stats)
	})
}
