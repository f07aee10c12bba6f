// Package output materializes corrected file content. The original file is
// never overwritten; corrected text goes to a distinct destination derived
// from the configured output mode.
package output

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/stjepanp/pyfix/internal/config"
	"github.com/stjepanp/pyfix/internal/source"
)

// WriteConflictError reports a destination that already exists while
// overwrite is not permitted. Fatal for the file, not for the batch.
type WriteConflictError struct {
	Path string
}

func (e *WriteConflictError) Error() string {
	return fmt.Sprintf("destination %s already exists (use overwrite to replace)", e.Path)
}

// DestPath derives the destination for a corrected file. In suffix mode the
// output sits next to the original: foo.py -> foo_fixed.py. In
// mirror-directory mode the original's path relative to root is recreated
// under output_dir.
//
// Destinations are derived 1:1 from distinct input paths, so concurrent
// workers never write the same destination.
func DestPath(path, root string, cfg *config.Config) (string, error) {
	switch cfg.OutputMode {
	case config.OutputModeSuffix:
		ext := filepath.Ext(path)
		base := strings.TrimSuffix(path, ext)
		return base + cfg.Suffix + ext, nil

	case config.OutputModeMirror:
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return "", fmt.Errorf("resolving %s against %s: %w", path, root, err)
		}
		return filepath.Join(cfg.OutputDir, rel), nil
	}

	return "", fmt.Errorf("unknown output_mode %q", cfg.OutputMode)
}

// Write materializes the corrected file at dest. It fails with
// *WriteConflictError when dest exists and overwrite is off, and with
// *source.IOTimeoutError when the write misses the ctx deadline.
func Write(ctx context.Context, f *source.File, dest string, cfg *config.Config) error {
	if !cfg.Overwrite {
		if _, err := os.Stat(dest); err == nil {
			return &WriteConflictError{Path: dest}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking destination %s: %w", dest, err)
		}
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}

	if ctx.Err() != nil {
		return &source.IOTimeoutError{Path: dest, Op: "write"}
	}

	done := make(chan error, 1)
	go func() {
		done <- os.WriteFile(dest, []byte(f.Content()), 0o644)
	}()

	select {
	case <-ctx.Done():
		return &source.IOTimeoutError{Path: dest, Op: "write"}
	case err := <-done:
		if err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}
		return nil
	}
}
