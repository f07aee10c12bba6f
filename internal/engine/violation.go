// Package engine drives the style rule set over a source file and merges the
// proposed corrections into a single, conflict-free plan.
package engine

import "fmt"

// Category orders rules for conflict resolution. Lower values win when two
// rules propose corrections for the same line: structural rewrites run
// before rules that only react to line content.
type Category int

const (
	CategoryIndent Category = iota
	CategoryImport
	CategoryLength
	CategoryWhitespace
)

// String returns the category name used in reports.
func (c Category) String() string {
	switch c {
	case CategoryIndent:
		return "indentation"
	case CategoryImport:
		return "import"
	case CategoryLength:
		return "line-length"
	case CategoryWhitespace:
		return "whitespace"
	}
	return "unknown"
}

// Action is a described text transformation: replace one source line with
// zero or more replacement lines. Zero replacements delete the line. Because
// every action targets exactly one line, actions never overlap.
type Action struct {
	Line        int // 1-based line to rewrite.
	Replacement []string
}

// Violation is one style finding from one rule against one file.
type Violation struct {
	RuleID   string
	Category Category
	Line     int // 1-based; start of the range for multi-line findings.
	EndLine  int // 0 for single-line findings.
	Message  string

	// Action is the corrective transformation, nil when the rule could not
	// produce one. Unfixable marks findings explicitly downgraded to
	// "manual review required".
	Action    *Action
	Unfixable bool
}

// Fixable reports whether the violation carries an applicable correction.
func (v *Violation) Fixable() bool {
	return v.Action != nil && !v.Unfixable
}

// RuleConflictError reports two same-priority corrections for one line that
// the category ordering cannot resolve. It is escalated to an unresolved
// violation, never silently dropped.
type RuleConflictError struct {
	Line  int
	Rules [2]string
}

func (e *RuleConflictError) Error() string {
	return fmt.Sprintf("line %d: conflicting corrections from %s and %s",
		e.Line, e.Rules[0], e.Rules[1])
}
