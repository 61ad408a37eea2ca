package cli

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/planstack/floorplan/pkg/errors"
	"github.com/planstack/floorplan/pkg/layout"
	"github.com/planstack/floorplan/pkg/route"
)

// routeCommand creates the "route" command for computing escape paths.
func (c *CLI) routeCommand() *cobra.Command {
	var (
		from     string
		at       string
		all      bool
		cellSize float64
		format   string
	)

	cmd := &cobra.Command{
		Use:   "route [file.json]",
		Short: "Compute escape routes to the nearest exit",
		Long: `Compute escape routes to the nearest exit.

Routes start at an object's center (--from), an arbitrary canvas point
(--at), or every seat in the layout (--all). Exits are the document's
explicit exit points plus any exit-type objects.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return errors.New(errors.ErrCodeInvalidInput, "invalid output format %q (must be text or json)", format)
			}

			l, err := layout.ReadFile(args[0])
			if err != nil {
				return err
			}

			var opts []route.Option
			if cellSize > 0 {
				opts = append(opts, route.WithCellSize(cellSize))
			}

			switch {
			case all:
				return printAllRoutes(l, format, opts)
			case from != "":
				p, err := route.FromObject(l, from, opts...)
				if err != nil {
					return err
				}
				return printRoute(from, p, format)
			case at != "":
				start, err := parsePoint(at)
				if err != nil {
					return err
				}
				p, err := route.ToExit(l, start, opts...)
				if err != nil {
					return err
				}
				return printRoute(at, p, format)
			default:
				return errors.New(errors.ErrCodeInvalidInput, "one of --from, --at or --all is required")
			}
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start at the named object's center")
	cmd.Flags().StringVar(&at, "at", "", "start at a canvas point x,y")
	cmd.Flags().BoolVar(&all, "all", false, "route every seat to its nearest exit")
	cmd.Flags().Float64Var(&cellSize, "cell", 0, "routing grid cell size (default layout grid)")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")

	return cmd
}

func printRoute(origin string, p route.Path, format string) error {
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	printSuccess("Route from %s: %.1f units over %d cells", origin, p.Length(), p.Cells)
	for _, pt := range p.Points {
		printDetail("(%g, %g)", pt.X, pt.Y)
	}
	return nil
}

func printAllRoutes(l *layout.Layout, format string, opts []route.Option) error {
	paths, stranded := route.AllSeats(l, opts...)

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(paths)
	}

	ids := make([]string, 0, len(paths))
	for id := range paths {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := paths[id]
		printSuccess("%s: %.1f units over %d cells", id, p.Length(), p.Cells)
	}

	strandedIDs := make([]string, 0, len(stranded))
	for id := range stranded {
		strandedIDs = append(strandedIDs, id)
	}
	sort.Strings(strandedIDs)
	for _, id := range strandedIDs {
		printWarning("%s: no route to any exit", id)
	}

	if len(stranded) > 0 {
		return errors.New(errors.ErrCodeNoPath, "%d seat(s) cannot reach an exit", len(stranded))
	}
	if len(paths) == 0 {
		printInfo("Layout has no seats to route")
	}
	return nil
}
