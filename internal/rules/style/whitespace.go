// Package style contains the individual style rule implementations.
package style

import (
	"fmt"
	"strings"

	"github.com/stjepanp/pyfix/internal/config"
	"github.com/stjepanp/pyfix/internal/engine"
	"github.com/stjepanp/pyfix/internal/source"
)

// Whitespace strips trailing whitespace and collapses blank-line runs that
// exceed the configured maximum, including runs at end of file.
type Whitespace struct{}

// ID returns the config identifier for this rule.
func (*Whitespace) ID() string { return "whitespace" }

// Category returns the conflict-resolution priority.
func (*Whitespace) Category() engine.Category { return engine.CategoryWhitespace }

// Check flags trailing whitespace on any line and every blank line beyond
// the allowed run length. Each excess blank line gets its own deletion
// action, keeping the one-action-per-line invariant.
func (*Whitespace) Check(f *source.File, cfg *config.Config) []engine.Violation {
	var out []engine.Violation

	blankRun := 0
	for _, l := range f.Lines {
		if l.IsBlank() {
			blankRun++
			if blankRun > cfg.MaxBlankLines {
				out = append(out, engine.Violation{
					RuleID:   "whitespace",
					Category: engine.CategoryWhitespace,
					Line:     l.Num,
					Message: fmt.Sprintf("blank-line run exceeds %d lines",
						cfg.MaxBlankLines),
					Action: &engine.Action{Line: l.Num, Replacement: nil},
				})
			}
			// A whitespace-only line is also a trailing-whitespace hit, but
			// deleting it (above) or emptying it both clear it; avoid two
			// actions for one line.
			if blankRun <= cfg.MaxBlankLines && l.Raw != "" {
				out = append(out, trailingWS(l, ""))
			}
			continue
		}
		blankRun = 0

		if l.Kind == source.KindContinuation {
			// Continuation text may sit inside a string literal; trimming it
			// would change the literal's value.
			continue
		}

		if trimmed := strings.TrimRight(l.Raw, " \t"); trimmed != l.Raw {
			out = append(out, trailingWS(l, trimmed))
		}
	}

	return out
}

func trailingWS(l source.Line, fixed string) engine.Violation {
	return engine.Violation{
		RuleID:   "whitespace",
		Category: engine.CategoryWhitespace,
		Line:     l.Num,
		Message:  "trailing whitespace",
		Action:   &engine.Action{Line: l.Num, Replacement: []string{fixed}},
	}
}
