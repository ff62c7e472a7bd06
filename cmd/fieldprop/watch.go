package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/artpar/fieldprop/adapters/basesys"
	"github.com/artpar/fieldprop/core/loader"
	"github.com/artpar/fieldprop/core/meta"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Rebuild model types when definitions change",
	Long: `Watch a definitions directory and rebuild the model catalog on
every change. A failed rebuild keeps the previous catalog.

Examples:
  fieldprop watch
  fieldprop watch ./models`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	dir := cfg.Models.Dir
	if len(args) == 1 {
		dir = args[0]
	}

	builder, err := meta.New(meta.Config{
		System: basesys.New(),
		Logger: logger,
	})
	if err != nil {
		return err
	}

	watcher, err := loader.NewWatcher(dir, loader.NewCatalog(builder, nil), logger)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	if err := watcher.Watch(); err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	return nil
}
