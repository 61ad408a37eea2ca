package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/planstack/floorplan/pkg/errors"
	"github.com/planstack/floorplan/pkg/pipeline"
)

// validateCommand creates the "validate" command for auditing a document.
func (c *CLI) validateCommand() *cobra.Command {
	var (
		rulesPath string
		format    string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "validate [file.json]",
		Short: "Audit a layout against spacing and safety rules",
		Long: `Audit a layout against spacing and safety rules.

The document is first checked structurally (schema, unique ids, canvas
dimensions), then the floor plan itself is audited: bounds, collisions,
minimum distances, room capacity and escape-route reachability.

The command exits non-zero when the audit finds issues, so it can gate
CI pipelines and pre-commit hooks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return errors.New(errors.ErrCodeInvalidInput, "invalid output format %q (must be text or json)", format)
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			l, err := runner.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			opts := pipeline.Options{RulesPath: rulesPath, Logger: c.Logger}
			report, cached, err := runner.CheckWithCacheInfo(cmd.Context(), l, opts)
			if err != nil {
				return err
			}

			if format == "json" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			if report.OK() {
				printSuccess("%s passes all checks", args[0])
				printStats(len(l.Objects), 0, cached)
				return nil
			}

			printError("%s has %d issue(s)", args[0], len(report.Issues))
			for _, issue := range report.Issues {
				printDetail("[%s] %s", issue.Code, issue.Message)
			}
			printStats(len(l.Objects), len(report.Issues), cached)
			return errors.New(errors.ErrCodeInvalidLayout, "%d issue(s) found", len(report.Issues))
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "ruleset TOML file (default built-in rules)")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")

	return cmd
}
