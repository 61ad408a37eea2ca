package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/planstack/floorplan/pkg/pipeline"
)

// debounceDelay coalesces editor save bursts into a single run.
const debounceDelay = 500 * time.Millisecond

// watchCommand creates the "watch" command that revalidates a layout on
// every save.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		render     bool
		formatsStr string
		output     string
	)
	opts := pipeline.Options{Labels: true}

	cmd := &cobra.Command{
		Use:   "watch [file.json]",
		Short: "Revalidate a layout whenever the file changes",
		Long: `Revalidate a layout whenever the file changes.

With --render the full pipeline runs on each change and the artifacts
are rewritten, which pairs well with an image viewer that reloads on
file change. Press Ctrl+C to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), opts, render, output)
		},
	}

	cmd.Flags().BoolVar(&render, "render", false, "re-render artifacts on each change")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s) when rendering (default svg)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path when rendering")
	cmd.Flags().StringVar(&opts.RulesPath, "rules", "", "ruleset TOML file for the audit stage")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "scale factor when rendering")
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style when rendering")
	cmd.Flags().BoolVar(&opts.ShowRoutes, "routes", false, "overlay escape routes when rendering")
	cmd.Flags().BoolVar(&opts.ShowIssues, "issues", false, "outline flagged objects when rendering")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, opts pipeline.Options, render bool, output string) error {
	runner, err := c.newRunner(false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	ctx = withLogger(ctx, c.Logger)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directory: editors replace files on save, which
	// would silently drop a watch on the file itself.
	dir := filepath.Dir(opts.Input)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Base(opts.Input)
	printInfo("Watching %s (Ctrl+C to stop)", opts.Input)

	run := func() {
		c.watchPass(ctx, runner, opts, render, output)
	}
	run()

	var (
		mu      sync.Mutex
		pending *time.Timer
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			mu.Lock()
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(debounceDelay, run)
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			loggerFromContext(ctx).Error("watch error", "error", err)
		}
	}
}

// watchPass runs one validate (or render) pass and reports the outcome
// without stopping the watch loop.
func (c *CLI) watchPass(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, render bool, output string) {
	printDetail("%s", time.Now().Format("15:04:05"))

	if !render {
		l, err := runner.Load(ctx, opts.Input)
		if err != nil {
			printError("%v", err)
			return
		}
		report, err := runner.Check(ctx, l, opts)
		if err != nil {
			printError("%v", err)
			return
		}
		if len(report.Issues) == 0 {
			printSuccess("Layout is valid (%d objects)", len(l.Objects))
			return
		}
		printWarning("%d issue(s)", len(report.Issues))
		for _, issue := range report.Issues {
			printDetail("[%s] %s", issue.Code, issue.Message)
		}
		return
	}

	prog := newProgress(loggerFromContext(ctx))
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		printError("%v", err)
		return
	}
	prog.done(fmt.Sprintf("Re-rendered %d format(s)", len(result.Artifacts)))
	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     opts.Input,
		output:    output,
	}); err != nil {
		printError("%v", err)
		return
	}
	printStats(result.Stats.ObjectCount, result.Stats.IssueCount, result.CacheInfo.RenderHit)
}
