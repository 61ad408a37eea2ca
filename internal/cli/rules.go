package cli

import (
	"github.com/spf13/cobra"

	"github.com/planstack/floorplan/pkg/rules"
)

// rulesCommand creates the "rules" command for dumping the active ruleset.
func (c *CLI) rulesCommand() *cobra.Command {
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the active validation ruleset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs := rules.Default()
			source := "built-in defaults"
			if rulesPath != "" {
				var err error
				if rs, err = rules.Load(rulesPath); err != nil {
					return err
				}
				source = rulesPath
			}

			printInfo("Ruleset (%s)", source)
			printNewline()
			printKeyValue("Spacing", "")
			printDetail("desk to desk         %g", rs.Spacing.DeskToDesk)
			printDetail("chair to chair       %g", rs.Spacing.ChairToChair)
			printDetail("armchair to armchair %g", rs.Spacing.ArmchairToArmchair)
			printKeyValue("Safety", "")
			printDetail("desk to wall         %g", rs.Safety.DeskToWall)
			printDetail("chair to wall        %g", rs.Safety.ChairToWall)
			printDetail("corridor width       %g", rs.Safety.CorridorWidth)
			printKeyValue("Capacity", "")
			printDetail("persons per unit²    %g", rs.Capacity.PersonsPerUnitArea)
			printDetail("max room capacity    %d", rs.Capacity.MaxRoomCapacity)
			printNewline()
			printDetail("capacity of a 900x600 floor: %d", rs.MaxOccupants(900*600))
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "ruleset TOML file (default built-in rules)")

	return cmd
}
