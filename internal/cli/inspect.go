package cli

import (
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/planstack/floorplan/pkg/catalog"
	"github.com/planstack/floorplan/pkg/layout"
	"github.com/planstack/floorplan/pkg/rules"
	"github.com/planstack/floorplan/pkg/validate"
)

// inspectCommand creates the "inspect" command for summarizing a document.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		browse    bool
		rulesPath string
	)

	cmd := &cobra.Command{
		Use:   "inspect [file.json]",
		Short: "Show a summary of a layout document",
		Long: `Show a summary of a layout document.

Prints the document's canvas dimensions, object counts by type, floor
area, occupancy and exits. With --browse, opens an interactive object
browser where audit-flagged objects are highlighted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := layout.ReadFile(args[0])
			if err != nil {
				return err
			}

			rs := rules.Default()
			if rulesPath != "" {
				if rs, err = rules.Load(rulesPath); err != nil {
					return err
				}
			}
			report := validate.Check(l, rs)

			if browse {
				return c.browseObjects(l, report)
			}

			printKeyValue("Name", l.Name)
			printKeyValue("Canvas", fmt.Sprintf("%g x %g (area %g)", l.CanvasSize.Width, l.CanvasSize.Height, l.Area()))
			printKeyValue("Grid", fmt.Sprintf("%g", l.Grid()))
			printKeyValue("Objects", fmt.Sprintf("%d", len(l.Objects)))
			printKeyValue("Occupancy", fmt.Sprintf("%d seated / %d capacity", occupants(l), rs.MaxOccupants(l.Area())))
			printKeyValue("Exits", fmt.Sprintf("%d", len(l.ExitPoints())))
			if l.Metadata.Author != "" {
				printKeyValue("Author", l.Metadata.Author)
			}
			if l.Metadata.CreatedAt != "" {
				printKeyValue("Created", l.Metadata.CreatedAt)
			}

			if len(l.Objects) > 0 {
				printNewline()
				printInfo("Objects by type")
				for _, tc := range typeCounts(l) {
					printDetail("%-16s %d", tc.tag, tc.count)
				}
			}

			printNewline()
			if report.OK() {
				printSuccess("No issues found")
			} else {
				printWarning("%d issue(s) found - run 'floorplan validate %s' for details", len(report.Issues), args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&browse, "browse", false, "open the interactive object browser")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "ruleset TOML file (default built-in rules)")

	return cmd
}

// browseObjects runs the bubbletea object browser.
func (c *CLI) browseObjects(l *layout.Layout, report validate.Report) error {
	model := NewObjectListModel(l, report)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("object browser: %w", err)
	}
	return nil
}

type typeCount struct {
	tag   string
	count int
}

// typeCounts groups objects by type tag, most frequent first.
func typeCounts(l *layout.Layout) []typeCount {
	counts := make(map[string]int)
	for i := range l.Objects {
		counts[l.Objects[i].TypeTag()]++
	}
	out := make([]typeCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, typeCount{tag: tag, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].tag < out[j].tag
	})
	return out
}

// occupants sums the catalog seat count of every object.
func occupants(l *layout.Layout) int {
	total := 0
	for i := range l.Objects {
		total += catalog.Seats(l.Objects[i].TypeTag())
	}
	return total
}
