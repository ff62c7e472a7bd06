package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artpar/fieldprop/core/loader"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate model definitions before deployment",
	Long: `Validate the model definition files in a directory.

Checks:
  - YAML syntax is valid
  - Model and field names are valid identifiers
  - Field types are known
  - Every field's type is declared or inferable

Examples:
  fieldprop validate
  fieldprop validate ./models`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir := cfg.Models.Dir
	if len(args) == 1 {
		dir = args[0]
	}

	defs, err := loader.ParseDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}

	for _, def := range defs {
		fmt.Printf("✓ %s (%d fields)\n", def.Model, len(def.Fields))
	}
	fmt.Printf("\n%d definitions valid\n", len(defs))
	return nil
}
