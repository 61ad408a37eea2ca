package cli

import (
	"github.com/spf13/cobra"

	"github.com/planstack/floorplan/pkg/layout"
)

// newCommand creates the "new" command for scaffolding a layout document.
func (c *CLI) newCommand() *cobra.Command {
	var (
		name   string
		width  float64
		height float64
		grid   float64
		author string
	)

	cmd := &cobra.Command{
		Use:   "new [file.json]",
		Short: "Create an empty layout document",
		Long: `Create an empty layout document.

The document is written with the current schema version, the given canvas
dimensions, and a creation timestamp. Objects are added afterwards with
'floorplan add'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if name == "" {
				name = "Untitled Layout"
			}

			l := layout.New(name, width, height)
			l.GridSize = grid
			l.Metadata.Author = author

			if err := layout.WriteFile(l, path); err != nil {
				return err
			}

			printSuccess("Created %s", path)
			printDetail("canvas %gx%g, grid %g", l.CanvasSize.Width, l.CanvasSize.Height, l.Grid())
			printNextStep("Add an object", "floorplan add "+path+" --type desk")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "layout name (default \"Untitled Layout\")")
	cmd.Flags().Float64Var(&width, "width", 900, "canvas width")
	cmd.Flags().Float64Var(&height, "height", 600, "canvas height")
	cmd.Flags().Float64Var(&grid, "grid", 0, "grid cell size (0 = default)")
	cmd.Flags().StringVar(&author, "author", "", "document author")

	return cmd
}
