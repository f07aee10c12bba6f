package rules

import (
	"testing"

	"github.com/stjepanp/pyfix/internal/config"
	"github.com/stjepanp/pyfix/internal/engine"
	"github.com/stjepanp/pyfix/internal/source"
	"github.com/stjepanp/pyfix/internal/testutil"
)

// TestGolden runs the full rule set over each case in testdata and compares
// the corrected output against expected.py. Regenerate with -update.
func TestGolden(t *testing.T) {
	cfg := config.DefaultConfig()

	testutil.RunGoldenDir(t, "testdata", func(input string) string {
		f := source.FromString("input.py", input, cfg.TabWidth)
		res := engine.Process(f, StyleRules(), cfg, testutil.NewTestLogger(t))
		return res.Output.Content()
	})
}
