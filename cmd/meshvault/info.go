package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/meshvault/pkg/mesh"
	"github.com/philipparndt/meshvault/pkg/stl"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Display information about an STL file",
	Long:  "Show triangle and vertex counts, bounding dimensions and surface area of a model.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	model, err := stl.Parse(filename)
	if err != nil {
		return err
	}

	geom, err := mesh.Normalize(model)
	if err != nil {
		return err
	}

	fmt.Println("STL File Information")
	fmt.Println("====================")
	if model.Name != "" {
		fmt.Printf("Name: %s\n", model.Name)
	}
	fmt.Printf("File: %s\n\n", filename)

	fmt.Println("Model Statistics:")
	fmt.Printf("  Triangles: %d\n", geom.TriangleCount())
	fmt.Printf("  Unique vertices: %d\n", geom.VertexCount())
	fmt.Printf("  Surface Area: %.6f square units\n\n", geom.SurfaceArea())

	size := geom.Size()
	fmt.Println("Dimensions:")
	fmt.Printf("  Width (X): %.6f units\n", size.X)
	fmt.Printf("  Depth (Y): %.6f units\n", size.Y)
	fmt.Printf("  Height (Z): %.6f units\n", size.Z)
	fmt.Printf("  Diagonal: %.6f units\n", geom.Bounds.Diagonal())

	return nil
}
