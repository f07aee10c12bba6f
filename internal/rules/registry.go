// Package rules manages registration of style rules.
package rules

import (
	"github.com/stjepanp/pyfix/internal/engine"
)

var styleRules []engine.Rule

// RegisterStyleRule adds a rule to the registry. Rules are evaluated in the
// order they are registered, which must follow category priority.
func RegisterStyleRule(r engine.Rule) {
	styleRules = append(styleRules, r)
}

// StyleRules returns all registered rules in evaluation order.
func StyleRules() []engine.Rule {
	return styleRules
}
