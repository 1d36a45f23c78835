package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/murmur/torrentcore/internal/config"
	"github.com/murmur/torrentcore/internal/engine"
	"github.com/murmur/torrentcore/internal/logging"
)

var (
	cfgFile string
	logger  *zap.Logger
	eng     *engine.Engine
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "torrentcore-cli",
	Short: "Reference CLI for the torrent engine core",
	Long: `torrentcore-cli is a thin harness over the engine package: it adds,
lists, pauses, resumes, removes, and creates torrents against a local
engine instance, for development and manual testing.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		logger, err = logging.NewLogger(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}

		eng, err = engine.New(cfg, logging.Adapt(logger))
		if err != nil {
			return fmt.Errorf("starting engine: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if eng != nil {
			_ = eng.Shutdown(5 * time.Second)
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and runs it. Called
// once by main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (default: ./torrentcore.yaml)")
}
