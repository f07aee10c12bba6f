package engine

import (
	"github.com/stjepanp/pyfix/internal/config"
	"github.com/stjepanp/pyfix/internal/source"
)

// Rule checks one style concern against a file. Rules are pure: they never
// mutate the input file and depend only on the file and the configuration,
// which keeps each one unit-testable against a synthetic line sequence.
type Rule interface {
	// ID returns the config identifier for this rule (e.g. "import-split").
	ID() string

	// Category determines the rule's conflict-resolution priority.
	Category() Category

	// Check evaluates the rule and returns its violations in line order.
	Check(f *source.File, cfg *config.Config) []Violation
}
