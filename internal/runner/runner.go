// Package runner orchestrates the read -> check -> fix -> materialize
// pipeline across a batch of files.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/stjepanp/pyfix/internal/config"
	"github.com/stjepanp/pyfix/internal/engine"
	"github.com/stjepanp/pyfix/internal/output"
	"github.com/stjepanp/pyfix/internal/rules"
	"github.com/stjepanp/pyfix/internal/source"
	"github.com/stjepanp/pyfix/internal/walker"
	"github.com/stjepanp/pyfix/pkg/diff"
)

// Exit codes.
const (
	ExitOK         = 0 // No unresolved violations anywhere.
	ExitUnresolved = 1 // At least one unresolved violation or skipped file.
	ExitFatal      = 2 // Configuration or catastrophic I/O error.
)

// Report formats.
const (
	ReportText = "text"
	ReportYAML = "yaml"
)

// Options configures one batch run.
type Options struct {
	Paths      []string // Files or directories; directories are walked.
	ConfigPath string
	Check      bool // Report violations without materializing output.
	Diff       bool // Print a unified diff instead of materializing.
	Report     string
	Quiet      bool
	Verbose    bool

	Config *config.Config // Pre-loaded configuration; overrides ConfigPath.
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// Run executes the batch and returns a process exit code.
func Run(ctx context.Context, opts *Options) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	log := opts.Logger
	if log == nil {
		log = newLogger(opts.Stderr, opts.Verbose, opts.Quiet)
	}

	cfg := opts.Config
	if cfg == nil {
		var err error
		cfg, err = config.Load(opts.ConfigPath, nil)
		if err != nil {
			log.Error("configuration error", "err", err)
			return ExitFatal
		}
	}

	files, root, err := collectFiles(opts.Paths, cfg)
	if err != nil {
		log.Error("file discovery failed", "err", err)
		return ExitFatal
	}
	if len(files) == 0 {
		log.Warn("no Python files found", "paths", opts.Paths)
		return ExitOK
	}

	summaries := processAll(ctx, files, root, cfg, opts, log)

	summary := &output.RunSummary{}
	for _, fs := range summaries {
		summary.Add(fs)
	}

	if !opts.Quiet {
		switch opts.Report {
		case ReportYAML:
			if err := summary.WriteYAML(opts.Stdout); err != nil {
				log.Error("writing report", "err", err)
				return ExitFatal
			}
		default:
			summary.WriteText(opts.Stdout)
		}
	}

	if !summary.Clean() {
		return ExitUnresolved
	}
	if opts.Check && summary.Found > 0 {
		// Check mode: a file that needs fixing fails the run even though
		// nothing was materialized.
		return ExitUnresolved
	}
	return ExitOK
}

// processAll dispatches each file to an independent worker. Results and diff
// text land at the worker's own index, so no mutex is needed; cancellation
// is honored at file granularity by checking ctx before each file starts.
func processAll(ctx context.Context, files []string, root string, cfg *config.Config, opts *Options, log *slog.Logger) []output.FileSummary {
	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]output.FileSummary, len(files))
	diffs := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				// Batch aborted: remaining files are skipped, not failed.
				results[i] = output.FileSummary{Path: path, Skipped: true,
					Error: "cancelled"}
				return nil
			default:
			}

			results[i], diffs[i] = processFile(gctx, path, root, cfg, opts, log)
			return nil
		})
	}

	// Workers only report per-file outcomes; the group never carries an
	// error across files.
	_ = g.Wait()

	// Diff output is emitted only after every worker has finished: stdout is
	// shared, so hunks print sequentially, in file order.
	for _, d := range diffs {
		if d != "" {
			fmt.Fprint(opts.Stdout, d)
		}
	}

	return results
}

// processFile runs the full pipeline for one file. Every failure mode is
// folded into the summary; partial success is an expected outcome, not a
// failure state. In diff mode the hunks are returned to the caller rather
// than printed, since workers run concurrently.
func processFile(ctx context.Context, path, root string, cfg *config.Config, opts *Options, log *slog.Logger) (output.FileSummary, string) {
	fs := output.FileSummary{Path: path}

	readCtx, cancel := context.WithTimeout(ctx, cfg.IOTimeout)
	defer cancel()

	f, err := source.Read(readCtx, path, cfg.TabWidth)
	if err != nil {
		var unreadable *source.UnreadableFileError
		var timeout *source.IOTimeoutError
		switch {
		case errors.As(err, &unreadable):
			log.Warn("skipping unreadable file", "file", path, "err", err)
		case errors.As(err, &timeout):
			log.Warn("read timed out", "file", path)
		default:
			log.Warn("skipping file", "file", path, "err", err)
		}
		fs.Skipped = true
		fs.Error = err.Error()
		return fs, ""
	}

	res := engine.Process(f, rules.StyleRules(), cfg, log)
	fs.Found = res.Found
	fs.Fixed = res.Fixed
	fs.Unresolved = len(res.Unresolved)

	for _, v := range res.Unresolved {
		log.Info("unresolved violation",
			"file", path, "line", v.Line, "rule", v.RuleID, "msg", v.Message)
	}

	if opts.Check {
		return fs, ""
	}

	if opts.Diff {
		return fs, diff.Unified(path, f.Content(), res.Output.Content())
	}

	if res.Found == 0 {
		// Conformant file: nothing to materialize.
		return fs, ""
	}

	dest, err := output.DestPath(path, root, cfg)
	if err != nil {
		fs.Error = err.Error()
		return fs, ""
	}

	writeCtx, cancelWrite := context.WithTimeout(ctx, cfg.IOTimeout)
	defer cancelWrite()

	if err := output.Write(writeCtx, res.Output, dest, cfg); err != nil {
		var conflict *output.WriteConflictError
		if errors.As(err, &conflict) {
			log.Warn("destination exists", "file", path, "dest", dest)
		} else {
			log.Warn("write failed", "file", path, "dest", dest, "err", err)
		}
		fs.Error = err.Error()
		return fs, ""
	}

	fs.Dest = dest
	log.Debug("materialized corrected file", "file", path, "dest", dest)
	return fs, ""
}

// collectFiles expands the given paths into a sorted file list. The first
// directory argument becomes the root for mirror-mode path derivation.
func collectFiles(paths []string, cfg *config.Config) ([]string, string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	root := ""
	var files []string
	seen := make(map[string]bool)

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, "", fmt.Errorf("stat %s: %w", p, err)
		}

		if info.IsDir() {
			if root == "" {
				root = p
			}
			found, err := walker.Walk(p, cfg)
			if err != nil {
				return nil, "", fmt.Errorf("walking %s: %w", p, err)
			}
			for _, f := range found {
				if !seen[f] {
					seen[f] = true
					files = append(files, f)
				}
			}
			continue
		}

		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	if root == "" {
		root = "."
	}

	sort.Strings(files)
	return files, root, nil
}

// newLogger builds the run logger: slog text on stderr, level driven by the
// verbosity flags.
func newLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
