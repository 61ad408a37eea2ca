package cli

import (
	"github.com/spf13/cobra"

	"github.com/planstack/floorplan/pkg/errors"
	"github.com/planstack/floorplan/pkg/layout"
	"github.com/planstack/floorplan/pkg/place"
)

// moveCommand creates the "move" command for repositioning an object.
func (c *CLI) moveCommand() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "move [file.json] [object-id]",
		Short: "Move an object to a new position",
		Long: `Move an object to a new position.

The move is placement-checked: it fails without touching the file when
the target position leaves the canvas or collides with another object.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, id := args[0], args[1]
			l, err := layout.ReadFile(path)
			if err != nil {
				return err
			}

			p, err := parsePoint(to)
			if err != nil {
				return err
			}

			ok, reason := place.Move(l, id, p.X, p.Y)
			if !ok {
				return errors.New(errors.ErrCodePlacementBlocked, "move %s: %s", id, reason)
			}

			if err := layout.WriteFile(l, path); err != nil {
				return err
			}

			printSuccess("Moved %s to (%g, %g)", id, p.X, p.Y)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "target position as x,y")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
