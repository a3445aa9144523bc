package main

import (
	"github.com/spf13/cobra"

	"github.com/philipparndt/meshvault/internal/app"
)

var viewFullscreen bool

var viewCmd = &cobra.Command{
	Use:   "view <file-or-url>",
	Short: "Open a model in the interactive viewer",
	Long: `Open an STL file or URL in the 3D viewer. Local files reload
automatically when they change on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	viewCmd.Flags().BoolVar(&viewFullscreen, "fullscreen", false, "start fullscreen")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	if viewFullscreen {
		cfg.Viewer.Fullscreen = true
	}
	return app.Run(args[0], cfg)
}
