package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/meshvault/internal/config"
	"github.com/philipparndt/meshvault/internal/logger"
	"github.com/philipparndt/meshvault/version"
)

var (
	flagConfig  string
	flagVerbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "meshvault",
	Short: "STL model library: view, thumbnail, inspect and serve 3D models",
	Long: `meshvault manages a library of STL (Stereolithography) models.
It decodes ASCII and binary STL files, renders them interactively or into
PNG thumbnails, and serves a model directory over HTTP.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}

		level := cfg.Logging.Level
		if flagVerbose {
			level = "debug"
		}
		return logger.Init(level, cfg.Logging.LogFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to meshvault.yaml")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

func main() {
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
