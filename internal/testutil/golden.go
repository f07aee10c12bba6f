// Package testutil provides shared test helpers: golden-file comparison and
// a slog logger routed through testing.T.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stjepanp/pyfix/pkg/diff"
)

// Update regenerates golden files from current output when set:
// go test ./... -update
var Update = flag.Bool("update", false, "update golden files")

// FixFunc corrects Python source text.
type FixFunc func(input string) string

// RunGolden applies fix to dir/input.py and compares the result against
// dir/expected.py. Mismatches are reported as a unified diff of expected
// versus actual, so a failure reads like the correction that went wrong.
func RunGolden(t *testing.T, dir string, fix FixFunc) {
	t.Helper()

	input, err := os.ReadFile(filepath.Join(dir, "input.py"))
	if err != nil {
		t.Fatalf("reading golden input: %v", err)
	}
	got := fix(string(input))

	goldenPath := filepath.Join(dir, "expected.py")
	if *Update {
		if err := os.WriteFile(goldenPath, []byte(got), 0o644); err != nil {
			t.Fatalf("updating %s: %v", goldenPath, err)
		}
		t.Logf("updated %s", goldenPath)
		return
	}

	want, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("reading golden output: %v (run with -update to create it)", err)
	}

	if got != string(want) {
		t.Errorf("corrected output differs from %s:\n%s",
			goldenPath, diff.Unified("expected.py", string(want), got))
	}
}

// RunGoldenDir runs RunGolden as a subtest for every subdirectory of
// testdataDir, named after the case directory.
func RunGoldenDir(t *testing.T, testdataDir string, fix FixFunc) {
	t.Helper()

	entries, err := os.ReadDir(testdataDir)
	if err != nil {
		t.Fatalf("reading %s: %v", testdataDir, err)
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		t.Run(e.Name(), func(t *testing.T) {
			RunGolden(t, filepath.Join(testdataDir, e.Name()), fix)
		})
	}
}
