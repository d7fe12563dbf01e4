// Package main provides the entry point for the skill taxonomy CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skill_taxonomy",
	Short: "Skill taxonomy normalization, matching and clustering",
	Long: "skill_taxonomy normalizes free-form skill strings against a canonical taxonomy, " +
		"matches and compares skill lists, and groups related skills into clusters.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configFile string
	jsonLogs   bool
	debugLogs  bool
	pretty     bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML, JSON or TOML config file")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Print a styled summary instead of JSON")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
