package output

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stjepanp/pyfix/internal/config"
	"github.com/stjepanp/pyfix/internal/source"
)

func TestDestPathSuffixMode(t *testing.T) {
	cfg := config.DefaultConfig()

	dest, err := DestPath(filepath.Join("pkg", "foo.py"), "", cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("pkg", "foo_fixed.py"), dest)
}

func TestDestPathMirrorMode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputMode = config.OutputModeMirror
	cfg.OutputDir = filepath.Join("out")

	dest, err := DestPath(
		filepath.Join("src", "pkg", "foo.py"), "src", cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "pkg", "foo.py"), dest)
}

func TestWriteCreatesDestination(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "nested", "out.py")
	f := source.FromString("in.py", "x = 1\n", 8)

	require.NoError(t, Write(context.Background(), f, dest, config.DefaultConfig()))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(data))
}

func TestWriteConflictWithoutOverwrite(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.py")
	require.NoError(t, os.WriteFile(dest, []byte("old\n"), 0o644))

	f := source.FromString("in.py", "new\n", 8)
	err := Write(context.Background(), f, dest, config.DefaultConfig())

	var conflict *WriteConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, dest, conflict.Path)

	data, _ := os.ReadFile(dest)
	assert.Equal(t, "old\n", string(data), "existing file untouched")
}

func TestWriteOverwriteReplaces(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.py")
	require.NoError(t, os.WriteFile(dest, []byte("old\n"), 0o644))

	cfg := config.DefaultConfig()
	cfg.Overwrite = true

	f := source.FromString("in.py", "new\n", 8)
	require.NoError(t, Write(context.Background(), f, dest, cfg))

	data, _ := os.ReadFile(dest)
	assert.Equal(t, "new\n", string(data))
}

func TestWriteHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := source.FromString("in.py", "x = 1\n", 8)
	err := Write(ctx, f, filepath.Join(t.TempDir(), "out.py"), config.DefaultConfig())

	var timeout *source.IOTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "write", timeout.Op)
}
