package engine

import (
	"io"
	"log/slog"
	"sort"

	"github.com/stjepanp/pyfix/internal/config"
	"github.com/stjepanp/pyfix/internal/source"
)

// maxPasses bounds the fix iteration. Rules whose corrections depend on
// another rule's output (length recalculated after an import split, for
// example) get exactly one re-evaluation over the materialized lines; a
// third rewrite pass never runs, so the fixed point is bounded rather than
// an open-ended loop.
const maxPasses = 2

// Result is the outcome of processing one file.
type Result struct {
	// Output is the corrected file content. When nothing needed fixing it is
	// identical to the input.
	Output *source.File

	// Violations holds every finding from the first pass, in line order.
	Violations []Violation

	// Unresolved holds findings that survived both passes: unfixable
	// violations, priority-conflict escalations, and anything a second
	// application could not clear.
	Unresolved []Violation

	// SkippedRules lists configured-off rules. Recorded explicitly so a
	// disabled rule never masquerades as a pass.
	SkippedRules []string

	Found int
	Fixed int
}

// Process evaluates every enabled rule against f, merges the results into a
// correction plan, and applies it in at most two passes. The input File is
// never mutated.
func Process(f *source.File, rules []Rule, cfg *config.Config, log *slog.Logger) *Result {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	res := &Result{}

	enabled := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if cfg.RuleEnabled(r.ID()) {
			enabled = append(enabled, r)
			continue
		}
		res.SkippedRules = append(res.SkippedRules, r.ID())
		log.Debug("rule disabled by configuration", "rule", r.ID(), "file", f.Path)
	}

	current := f
	for pass := 1; pass <= maxPasses; pass++ {
		violations := check(current, enabled, cfg)
		if pass == 1 {
			res.Violations = violations
			res.Found = len(violations)
		}
		if len(violations) == 0 {
			break
		}

		plan := buildPlan(refs(violations))
		for _, c := range plan.conflicts {
			log.Warn("rule conflict escalated", "file", f.Path, "detail", c.Error())
		}
		if plan.Len() == 0 {
			break
		}

		raw := plan.Apply(current.RawLines())
		current = source.FromLines(current, raw, cfg.TabWidth)
		log.Debug("applied correction pass",
			"file", f.Path, "pass", pass, "actions", plan.Len())
	}

	// Final check-only verification: whatever still trips a rule is
	// reported as unresolved rather than iterated further.
	res.Unresolved = check(current, enabled, cfg)
	res.Fixed = res.Found - len(res.Unresolved)
	if res.Fixed < 0 {
		res.Fixed = 0
	}

	res.Output = current
	return res
}

// check runs every rule and returns the combined violations sorted by line,
// then by category priority.
func check(f *source.File, rules []Rule, cfg *config.Config) []Violation {
	var all []Violation
	for _, r := range rules {
		all = append(all, r.Check(f, cfg)...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Line != all[j].Line {
			return all[i].Line < all[j].Line
		}
		return all[i].Category < all[j].Category
	})

	return all
}

func refs(vs []Violation) []*Violation {
	out := make([]*Violation, len(vs))
	for i := range vs {
		out[i] = &vs[i]
	}
	return out
}
