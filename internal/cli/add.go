package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planstack/floorplan/pkg/layout"
	"github.com/planstack/floorplan/pkg/place"
)

// addCommand creates the "add" command for placing an object.
func (c *CLI) addCommand() *cobra.Command {
	var (
		typeTag string
		id      string
		at      string
		size    string
		snap    bool
	)

	cmd := &cobra.Command{
		Use:   "add [file.json]",
		Short: "Place an object in a layout document",
		Long: `Place an object in a layout document.

Without --at, the object goes to the first free grid-aligned position.
Without --size, the object gets its catalog default dimensions. Without
--id, a fresh id is minted from the type tag. The file is rewritten
atomically on success.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			l, err := layout.ReadFile(path)
			if err != nil {
				return err
			}

			opts, err := buildPlaceOpts(id, at, size, snap)
			if err != nil {
				return err
			}

			o, err := place.Place(l, typeTag, opts...)
			if err != nil {
				return fmt.Errorf("add object to %s: %w", path, err)
			}

			if err := layout.WriteFile(l, path); err != nil {
				return err
			}

			printSuccess("Added %s (%s)", o.ID, o.Type)
			printDetail("at (%g, %g), size %gx%g", o.X, o.Y, o.Width, o.Height)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeTag, "type", "t", "", "object type tag (desk, chair, wall, ...)")
	cmd.Flags().StringVar(&id, "id", "", "explicit object id (default minted from type)")
	cmd.Flags().StringVar(&at, "at", "", "position as x,y (default first free spot)")
	cmd.Flags().StringVar(&size, "size", "", "dimensions as WxH (default catalog size)")
	cmd.Flags().BoolVar(&snap, "snap", true, "snap coordinates to the layout grid")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

// buildPlaceOpts translates add flags into placement options.
func buildPlaceOpts(id, at, size string, snap bool) ([]place.Option, error) {
	var opts []place.Option
	if id != "" {
		opts = append(opts, place.WithID(id))
	}
	if at != "" {
		p, err := parsePoint(at)
		if err != nil {
			return nil, err
		}
		opts = append(opts, place.At(p.X, p.Y))
	}
	if size != "" {
		w, h, err := parseSize(size)
		if err != nil {
			return nil, err
		}
		opts = append(opts, place.WithSize(w, h))
	}
	if snap {
		opts = append(opts, place.Snapped())
	}
	return opts, nil
}
