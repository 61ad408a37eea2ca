package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/planstack/floorplan/pkg/pipeline"
)

// renderCommand creates the "render" command for generating floor-plan
// artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{Labels: true}

	cmd := &cobra.Command{
		Use:   "render [file.json]",
		Short: "Render a layout to SVG, PNG, PDF, DOT or JSON",
		Long: `Render a layout to SVG, PNG, PDF, DOT or JSON.

The full planning pipeline runs first (load, audit, escape routing), so
--issues can outline flagged objects and --routes can overlay escape
paths. Results are cached locally for faster subsequent runs.

PNG and PDF output require the rsvg-convert binary on PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if opts.Style != "" {
				if err := pipeline.ValidateStyle(opts.Style); err != nil {
					return err
				}
			}
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style: plan (default), blueprint")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "scale factor for canvas units to pixels")
	cmd.Flags().BoolVar(&opts.Grid, "grid", false, "draw grid lines")
	cmd.Flags().BoolVar(&opts.Labels, "labels", opts.Labels, "draw object labels")
	cmd.Flags().BoolVar(&opts.ShowRoutes, "routes", false, "overlay escape routes")
	cmd.Flags().BoolVar(&opts.ShowIssues, "issues", false, "outline audit-flagged objects")
	cmd.Flags().StringVar(&opts.RulesPath, "rules", "", "ruleset TOML file for the audit stage")

	return cmd
}

// runRender executes the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Input))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     opts.Input,
		output:    output,
	}); err != nil {
		return err
	}

	printStats(result.Stats.ObjectCount, result.Stats.IssueCount, result.CacheInfo.RenderHit)
	if result.Stats.IssueCount > 0 && !opts.ShowIssues {
		printNextStep("See the issues", "floorplan validate "+opts.Input)
	}
	return nil
}

// artifactWriteParams bundles everything writeArtifacts needs.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes each rendered format to disk. A single format
// goes to the --output path verbatim; multiple formats share a base
// path and get their format as extension.
func writeArtifacts(p artifactWriteParams) error {
	if len(p.formats) == 1 {
		path := p.output
		if path == "" {
			path = basePath("", p.input) + "." + p.formats[0]
		}
		if err := writeArtifact(path, p.artifacts[p.formats[0]]); err != nil {
			return err
		}
		printFile(path)
		return nil
	}

	base := basePath(p.output, p.input)
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := fmt.Sprintf("%s.%s", base, format)
		if err := writeArtifact(path, data); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// openOutput returns a WriteCloser for the given path. "-" writes to
// stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return os.Stdout, nil
	}
	return os.Create(path)
}

// basePath derives the base output path from the output and input file
// paths. If output is empty, it strips the extension from input. If
// output ends in a format extension (.svg, .pdf, ...), that extension
// is stripped too.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
