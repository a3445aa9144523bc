package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/philipparndt/meshvault/pkg/thumbnail"
)

var thumbnailOut string

var thumbnailCmd = &cobra.Command{
	Use:   "thumbnail <file>",
	Short: "Render a PNG thumbnail of a model",
	Long: `Render an STL file into a PNG thumbnail with the offscreen software
renderer. The output is deterministic for identical input.`,
	Args: cobra.ExactArgs(1),
	RunE: runThumbnail,
}

func init() {
	thumbnailCmd.Flags().StringVarP(&thumbnailOut, "output", "o", "", "output PNG path (default: input with .png extension)")
	thumbnailCmd.Flags().Int("size", 0, "thumbnail edge length in pixels (overrides config)")
	rootCmd.AddCommand(thumbnailCmd)
}

func runThumbnail(cmd *cobra.Command, args []string) error {
	in := args[0]

	out := thumbnailOut
	if out == "" {
		out = strings.TrimSuffix(in, ".stl") + ".png"
	}

	size := cfg.Thumbnail.Size
	if flagSize, err := cmd.Flags().GetInt("size"); err == nil && flagSize > 0 {
		size = flagSize
	}

	return thumbnail.NewGenerator(size).GenerateFile(in, out)
}
