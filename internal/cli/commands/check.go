package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/leapfilter/internal/cli/output"
	"github.com/leapstack-labs/leapfilter/pkg/parser"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Check files of conditions",
		Long: `Check that every condition in the given files parses.

Each non-empty line that does not start with '#' is one condition. Problems
are reported as file:line:col: kind: message. Files are checked in parallel.

With --watch the files are re-checked whenever they change, until the
command is interrupted.`,
		Example: `  leapfilter check rules/*.cond
  leapfilter check --catalog schema.yaml --watch alerts.cond`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check files when they change")

	return cmd
}

func runCheck(cmd *cobra.Command, paths []string, opts *CheckOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	results, summary, err := checkFiles(cmd.Context(), cc.Parser, paths)
	if err != nil {
		return err
	}
	if err := renderCheck(cc.Renderer, results, summary); err != nil {
		return err
	}

	if opts.Watch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return watchFiles(ctx, cc.Logger, paths, func() {
			results, summary, err := checkFiles(ctx, cc.Parser, paths)
			if err != nil {
				cc.Renderer.Error(err.Error())
				return
			}
			_ = renderCheck(cc.Renderer, results, summary)
		})
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d conditions failed", summary.Failed, summary.Conditions)
	}
	return nil
}

// checkFiles checks paths concurrently. Results keep the order of paths.
func checkFiles(ctx context.Context, p *parser.Parser, paths []string) ([]output.CheckFileResult, output.CheckSummary, error) {
	results := make([]output.CheckFileResult, len(paths))
	counts := make([]int, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			res, n, err := checkFile(gctx, p, path)
			if err != nil {
				return err
			}
			results[i], counts[i] = res, n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, output.CheckSummary{}, err
	}

	summary := output.CheckSummary{Files: len(paths)}
	for i, res := range results {
		summary.Conditions += counts[i]
		summary.Failed += failedLines(res.Problems)
	}
	return results, summary, nil
}

// checkFile parses every condition line of path and returns its problems
// and the number of conditions checked.
func checkFile(ctx context.Context, p *parser.Parser, path string) (output.CheckFileResult, int, error) {
	res := output.CheckFileResult{Path: path}

	f, err := os.Open(path) //nolint:gosec // path is a command-line argument
	if err != nil {
		return res, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var n int
	sc := bufio.NewScanner(f)
	for lineNo := 1; sc.Scan(); lineNo++ {
		if err := ctx.Err(); err != nil {
			return res, n, err
		}
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		n++
		if _, errs := p.ParseString(line); errs != nil {
			for _, d := range errs {
				col := d.Token.Column
				if d.Token.IsEnd() {
					col = len(strings.TrimRight(line, " \t")) + 1
				}
				res.Problems = append(res.Problems, output.CheckProblem{
					Line:    lineNo,
					Column:  col,
					Kind:    d.Kind.String(),
					Message: d.Message,
				})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return res, n, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return res, n, nil
}

func failedLines(problems []output.CheckProblem) int {
	seen := make(map[int]bool, len(problems))
	for _, pr := range problems {
		seen[pr.Line] = true
	}
	return len(seen)
}

func renderCheck(r *output.Renderer, results []output.CheckFileResult, summary output.CheckSummary) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.CheckOutput{Summary: summary, Files: results})
	}

	for _, res := range results {
		for _, pr := range res.Problems {
			r.Println(pr.Location(res.Path))
		}
	}
	if summary.Failed == 0 {
		r.Success(fmt.Sprintf("%d conditions in %d files OK", summary.Conditions, summary.Files))
	} else {
		r.Warning(fmt.Sprintf("%d of %d conditions failed", summary.Failed, summary.Conditions))
	}
	return nil
}

const debounceDelay = 100 * time.Millisecond

// watchFiles calls onChange after writes to any of paths, debounced, until
// ctx is done. Directories are watched so that editors replacing a file on
// save are still seen.
func watchFiles(ctx context.Context, logger *slog.Logger, paths []string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	logger.Info("watching for changes", slog.Int("files", len(watched)))

	// onChange runs from this loop, so re-checks never overlap.
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-debounce.C:
			onChange()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !watched[filepath.Clean(event.Name)] {
				continue
			}
			logger.Debug("change detected", slog.String("file", event.Name))
			debounce.Reset(debounceDelay)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}
