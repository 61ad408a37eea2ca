package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planstack/floorplan/pkg/layout"
	"github.com/planstack/floorplan/pkg/route"
)

// gridCommand creates the "grid" command for dumping the occupancy grid.
func (c *CLI) gridCommand() *cobra.Command {
	var cellSize float64

	cmd := &cobra.Command{
		Use:   "grid [file.json]",
		Short: "Print the routing occupancy grid as ASCII",
		Long: `Print the routing occupancy grid as ASCII.

Blocked cells show as '#', free cells as '.'. This is the raster the
route command searches, so it is the first place to look when a seat
unexpectedly has no path to an exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := layout.ReadFile(args[0])
			if err != nil {
				return err
			}

			g := route.BuildGrid(l, cellSize)
			fmt.Print(g.String())
			printDetail("%d x %d cells at size %g", g.Rows(), g.Cols(), g.CellSize())
			return nil
		},
	}

	cmd.Flags().Float64Var(&cellSize, "cell", 0, "grid cell size (default layout grid)")

	return cmd
}
