package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artpar/fieldprop/adapters/basesys"
	"github.com/artpar/fieldprop/core/loader"
	"github.com/artpar/fieldprop/core/meta"
)

var modelsCmd = &cobra.Command{
	Use:   "models [dir]",
	Short: "Build and list model types",
	Long: `Build the model types defined in a directory and list them with
their fields. Definitions that reference named getter/setter functions
only resolve inside an embedding program, so this command reports them
as build errors.

Examples:
  fieldprop models
  fieldprop models ./models`,
	Args: cobra.MaximumNArgs(1),
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
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
		return err
	}

	builder, err := meta.New(meta.Config{
		System: basesys.NewWithLogger(newLogger(cfg)),
		Logger: newLogger(cfg),
	})
	if err != nil {
		return err
	}

	catalog := loader.NewCatalog(builder, nil)
	if _, err := catalog.Build(defs); err != nil {
		return fmt.Errorf("build models: %w", err)
	}

	for _, name := range catalog.Names() {
		t, _ := catalog.Type(name)

		fields := make([]string, 0, t.Annotations().Len())
		for _, fname := range t.Annotations().Names() {
			ft, _ := t.Annotations().Get(fname)
			marker := ""
			if t.Registry().Has(fname) {
				marker = "*"
			}
			fields = append(fields, fmt.Sprintf("%s%s:%s", marker, fname, ft))
		}
		fmt.Printf("%s  [%s]\n", name, strings.Join(fields, ", "))
	}
	fmt.Printf("\n%d model types (* = descriptor field)\n", len(catalog.Names()))
	return nil
}
