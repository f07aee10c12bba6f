package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/stjepanp/pyfix/internal/config"
	"github.com/stjepanp/pyfix/internal/output"
	"github.com/stjepanp/pyfix/internal/testutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testOpts(t *testing.T, cfg *config.Config, paths ...string) (*Options, *bytes.Buffer) {
	t.Helper()
	var stdout bytes.Buffer
	return &Options{
		Paths:  paths,
		Config: cfg,
		Stdout: &stdout,
		Stderr: &bytes.Buffer{},
		Logger: testutil.NewTestLogger(t),
	}, &stdout
}

func TestRunFixesBatchAndKeepsOriginals(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.py", "import os, sys\n")
	writeFile(t, dir, "clean.py", "import os\n")

	opts, _ := testOpts(t, config.DefaultConfig(), dir)
	code := Run(context.Background(), opts)
	assert.Equal(t, ExitOK, code)

	orig, err := os.ReadFile(bad)
	require.NoError(t, err)
	assert.Equal(t, "import os, sys\n", string(orig), "original is never touched")

	fixed, err := os.ReadFile(filepath.Join(dir, "bad_fixed.py"))
	require.NoError(t, err)
	assert.Equal(t, "import os\nimport sys\n", string(fixed))

	_, err = os.Stat(filepath.Join(dir, "clean_fixed.py"))
	assert.True(t, os.IsNotExist(err), "conformant files produce no output")
}

func TestRunCheckModeWritesNothingAndFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.py", "x = 1   \n")

	opts, _ := testOpts(t, config.DefaultConfig(), dir)
	opts.Check = true

	code := Run(context.Background(), opts)
	assert.Equal(t, ExitUnresolved, code)

	_, err := os.Stat(filepath.Join(dir, "bad_fixed.py"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunCheckModeCleanTree(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "clean.py", "x = 1\n")

	opts, _ := testOpts(t, config.DefaultConfig(), dir)
	opts.Check = true

	assert.Equal(t, ExitOK, Run(context.Background(), opts))
}

func TestRunDiffMode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.py", "import os, sys\n")

	opts, stdout := testOpts(t, config.DefaultConfig(), dir)
	opts.Diff = true

	Run(context.Background(), opts)

	assert.Contains(t, stdout.String(), "-import os, sys")
	assert.Contains(t, stdout.String(), "+import os")

	_, err := os.Stat(filepath.Join(dir, "bad_fixed.py"))
	assert.True(t, os.IsNotExist(err), "diff mode materializes nothing")
}

func TestRunDiffModeConcurrentBatch(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 32; i++ {
		name := fmt.Sprintf("f%02d.py", i)
		writeFile(t, dir, name, "import os, sys\n")
		paths = append(paths, filepath.Join(dir, name))
	}

	cfg := config.DefaultConfig()
	cfg.Jobs = 8

	opts, stdout := testOpts(t, cfg, dir)
	opts.Diff = true

	Run(context.Background(), opts)

	// Every file's hunks arrive intact and in file order, regardless of
	// which worker finished first.
	out := stdout.String()
	last := -1
	for _, p := range paths {
		idx := strings.Index(out, "--- a/"+p+"\n")
		require.GreaterOrEqual(t, idx, 0, "missing diff for %s", p)
		assert.Greater(t, idx, last, "diff for %s out of order", p)
		last = idx
	}
	assert.Equal(t, 32, strings.Count(out, "+import sys\n"))
}

func TestRunMirrorMode(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pkg"), 0o755))
	writeFile(t, filepath.Join(dir, "pkg"), "bad.py", "import os,sys\n")

	cfg := config.DefaultConfig()
	cfg.OutputMode = config.OutputModeMirror
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")

	opts, _ := testOpts(t, cfg, dir)
	assert.Equal(t, ExitOK, Run(context.Background(), opts))

	fixed, err := os.ReadFile(filepath.Join(cfg.OutputDir, "pkg", "bad.py"))
	require.NoError(t, err)
	assert.Equal(t, "import os\nimport sys\n", string(fixed))
}

func TestRunSkipsUnreadableFileAndContinues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bin.py", "x\x00y")
	writeFile(t, dir, "ok.py", "import os,sys\n")

	opts, _ := testOpts(t, config.DefaultConfig(), dir)
	code := Run(context.Background(), opts)
	assert.Equal(t, ExitUnresolved, code, "skipped file fails the batch")

	_, err := os.Stat(filepath.Join(dir, "ok_fixed.py"))
	assert.NoError(t, err, "remaining files are still processed")
}

func TestRunDestinationConflict(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.py", "import os,sys\n")
	writeFile(t, dir, "bad_fixed.py", "stale\n")

	opts, _ := testOpts(t, config.DefaultConfig(), filepath.Join(dir, "bad.py"))
	code := Run(context.Background(), opts)
	assert.Equal(t, ExitUnresolved, code)

	stale, err := os.ReadFile(filepath.Join(dir, "bad_fixed.py"))
	require.NoError(t, err)
	assert.Equal(t, "stale\n", string(stale), "existing destination untouched")
}

func TestRunYAMLReport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.py", "x = 1  \n")

	opts, stdout := testOpts(t, config.DefaultConfig(), dir)
	opts.Report = ReportYAML

	Run(context.Background(), opts)

	var summary output.RunSummary
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &summary))
	assert.Equal(t, 1, summary.Found)
	assert.Equal(t, 1, summary.Fixed)
	require.Len(t, summary.Files, 1)
}

func TestRunUnresolvedViolationExitCode(t *testing.T) {
	dir := t.TempDir()
	// No safe split point: the violation survives as unresolved.
	long := "x" + string(bytes.Repeat([]byte("y"), 100))
	writeFile(t, dir, "bad.py", long+"\n")

	opts, _ := testOpts(t, config.DefaultConfig(), dir)
	assert.Equal(t, ExitUnresolved, Run(context.Background(), opts))
}

func TestRunMissingPathIsFatal(t *testing.T) {
	opts, _ := testOpts(t, config.DefaultConfig(),
		filepath.Join(t.TempDir(), "nope"))
	assert.Equal(t, ExitFatal, Run(context.Background(), opts))
}

func TestCollectFilesDeduplicates(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.py", "x = 1\n")

	files, root, err := collectFiles([]string{dir, path}, config.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
	assert.Equal(t, dir, root)
}
