package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-taxonomy/internal/types"
)

var taxonomyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a canonical skill",
	RunE:  runTaxonomyAdd,
}

var taxonomyUpdateCmd = &cobra.Command{
	Use:   "update <category:name>",
	Short: "Update fields of a canonical skill",
	Long:  "Update a skill. Only flags that are set are applied; --aliases replaces the whole alias list.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaxonomyUpdate,
}

var taxonomyDeleteCmd = &cobra.Command{
	Use:   "delete <category:name>",
	Short: "Delete a canonical skill",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaxonomyDelete,
}

var (
	skillName        string
	skillCategory    string
	skillAliases     []string
	skillDescription string
	skillLevel       string
)

func init() {
	for _, c := range []*cobra.Command{taxonomyAddCmd, taxonomyUpdateCmd} {
		c.Flags().StringVar(&skillName, "name", "", "Canonical skill name")
		c.Flags().StringVar(&skillCategory, "category", "", "Category key")
		c.Flags().StringSliceVar(&skillAliases, "aliases", nil, "Aliases, comma separated")
		c.Flags().StringVar(&skillDescription, "description", "", "Short description")
		c.Flags().StringVar(&skillLevel, "level", "", "Proficiency level label")
	}
	_ = taxonomyAddCmd.MarkFlagRequired("name")
	_ = taxonomyAddCmd.MarkFlagRequired("category")

	taxonomyCmd.AddCommand(taxonomyAddCmd)
	taxonomyCmd.AddCommand(taxonomyUpdateCmd)
	taxonomyCmd.AddCommand(taxonomyDeleteCmd)
}

func runTaxonomyAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.store.AddSkill(ctx, types.CanonicalSkill{
		Name:        skillName,
		Category:    skillCategory,
		Aliases:     splitList(skillAliases),
		Description: skillDescription,
		Level:       skillLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to add skill: %w", err)
	}
	return render(cmd.OutOrStdout(), map[string]string{"id": id}, nil)
}

// skillPatch builds a patch from the flags the user actually set
func skillPatch(cmd *cobra.Command) types.SkillPatch {
	var patch types.SkillPatch
	flags := cmd.Flags()
	if flags.Changed("name") {
		patch.Name = &skillName
	}
	if flags.Changed("category") {
		patch.Category = &skillCategory
	}
	if flags.Changed("aliases") {
		aliases := splitList(skillAliases)
		patch.Aliases = &aliases
	}
	if flags.Changed("description") {
		patch.Description = &skillDescription
	}
	if flags.Changed("level") {
		patch.Level = &skillLevel
	}
	return patch
}

func runTaxonomyUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.UpdateSkill(ctx, args[0], skillPatch(cmd)); err != nil {
		return fmt.Errorf("failed to update skill: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", args[0])
	return nil
}

func runTaxonomyDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.DeleteSkill(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete skill: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}
