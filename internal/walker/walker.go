// Package walker discovers candidate Python files for a batch run. It is an
// external collaborator of the rule engine: the engine consumes the file
// list and never discovers files itself.
package walker

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stjepanp/pyfix/internal/config"
)

// Walk returns every .py file under root, sorted for a deterministic
// processing order. Dot-directories are skipped, as are files that look like
// pyfix's own suffix-mode output, so re-running over a tree never fixes the
// fixes.
func Walk(root string, cfg *config.Config) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".py") {
			return nil
		}
		if isGeneratedOutput(path, cfg) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// isGeneratedOutput reports whether the file carries the configured output
// suffix, e.g. foo_fixed.py when the suffix is "_fixed".
func isGeneratedOutput(path string, cfg *config.Config) bool {
	if cfg.OutputMode != config.OutputModeSuffix || cfg.Suffix == "" {
		return false
	}
	base := strings.TrimSuffix(filepath.Base(path), ".py")
	return strings.HasSuffix(base, cfg.Suffix)
}
