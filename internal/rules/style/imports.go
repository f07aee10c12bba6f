package style

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/stjepanp/pyfix/internal/config"
	"github.com/stjepanp/pyfix/internal/engine"
	"github.com/stjepanp/pyfix/internal/source"
)

// multiImportRe matches a plain import statement naming more than one module,
// e.g. "import os, sys". From-imports are a single statement and never match.
var multiImportRe = regexp.MustCompile(`^(\s*)import\s+([^#]*,[^#]*?)\s*(#.*)?$`)

// ImportSplit rewrites "import a, b" into one import statement per name.
// A trailing comment shared by the statement is kept on the first generated
// line only; duplicating it per line would invent text the author never
// wrote, and dropping it would lose information.
type ImportSplit struct{}

// ID returns the config identifier for this rule.
func (*ImportSplit) ID() string { return "import-split" }

// Category returns the conflict-resolution priority.
func (*ImportSplit) Category() engine.Category { return engine.CategoryImport }

// Check flags every import line declaring multiple names.
func (*ImportSplit) Check(f *source.File, cfg *config.Config) []engine.Violation {
	var out []engine.Violation

	for _, l := range f.Lines {
		if l.Kind != source.KindImport {
			continue
		}
		m := multiImportRe.FindStringSubmatch(l.Raw)
		if m == nil {
			continue
		}

		indent, nameList, comment := m[1], m[2], m[3]
		names := splitNames(nameList)
		if len(names) < 2 {
			continue
		}

		replacement := make([]string, 0, len(names))
		for i, name := range names {
			line := indent + "import " + name
			if i == 0 && comment != "" {
				line += " " + comment
			}
			replacement = append(replacement, line)
		}

		out = append(out, engine.Violation{
			RuleID:   "import-split",
			Category: engine.CategoryImport,
			Line:     l.Num,
			Message: fmt.Sprintf("%d imports on one line; one import per line",
				len(names)),
			Action: &engine.Action{Line: l.Num, Replacement: replacement},
		})
	}

	return out
}

// splitNames splits a comma-separated module list, preserving declaration
// order and dropping empty entries from stray commas.
func splitNames(list string) []string {
	parts := strings.Split(list, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}
