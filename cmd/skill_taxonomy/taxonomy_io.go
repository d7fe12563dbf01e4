package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-taxonomy/internal/taxonomy"
)

var taxonomyImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge a JSON or TOML taxonomy document into the store",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaxonomyImport,
}

var taxonomyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the taxonomy as a JSON or TOML document",
	RunE:  runTaxonomyExport,
}

var (
	exportFormat string
	exportOut    string
)

func init() {
	taxonomyExportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json or toml")
	taxonomyExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")

	taxonomyCmd.AddCommand(taxonomyImportCmd)
	taxonomyCmd.AddCommand(taxonomyExportCmd)
}

func runTaxonomyImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	summary, err := taxonomy.Import(ctx, a.store, doc)
	if err != nil {
		return fmt.Errorf("import stopped after %d added, %d updated: %w", summary.Added, summary.Updated, err)
	}
	return render(cmd.OutOrStdout(), summary, nil)
}

func runTaxonomyExport(cmd *cobra.Command, _ []string) error {
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
	doc, err := taxonomy.Export(ctx, a.store, defs)
	if err != nil {
		return err
	}

	var data []byte
	switch exportFormat {
	case "json":
		data, err = taxonomy.EncodeJSON(doc)
	case "toml":
		data, err = taxonomy.EncodeTOML(doc)
	default:
		return fmt.Errorf("unsupported format %q (want json or toml)", exportFormat)
	}
	if err != nil {
		return err
	}

	if exportOut == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(exportOut, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d categories to %s\n", len(doc.Taxonomy), exportOut)
	return nil
}
