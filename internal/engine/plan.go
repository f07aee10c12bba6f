package engine

import "sort"

// planEntry is one accepted corrective action together with the violation
// that produced it.
type planEntry struct {
	action   Action
	ruleID   string
	category Category
}

// Plan is the merged, conflict-resolved sequence of corrective actions for
// one file, ordered by line index ascending. At most one action survives per
// line; losers of a priority conflict are returned so the engine can count
// them as deferred to the next pass.
type Plan struct {
	entries []planEntry

	// conflicts holds same-priority collisions that the category ordering
	// could not resolve.
	conflicts []*RuleConflictError
}

// buildPlan merges violations into a Plan. When two actions target the same
// line, the lower category (higher priority) wins; the loser is dropped from
// this pass and will be re-derived in the next pass over the corrected
// lines. Equal-category collisions from different rules are recorded as
// conflicts.
func buildPlan(violations []*Violation) *Plan {
	byLine := make(map[int]*Violation)
	var conflicts []*RuleConflictError

	for _, v := range violations {
		if !v.Fixable() {
			continue
		}
		cur, ok := byLine[v.Action.Line]
		if !ok {
			byLine[v.Action.Line] = v
			continue
		}

		switch {
		case v.Category < cur.Category:
			byLine[v.Action.Line] = v
		case v.Category == cur.Category && v.RuleID != cur.RuleID:
			conflicts = append(conflicts, &RuleConflictError{
				Line:  v.Action.Line,
				Rules: [2]string{cur.RuleID, v.RuleID},
			})
		}
		// Lower priority, or a duplicate from the same rule: drop.
	}

	p := &Plan{conflicts: conflicts}
	for _, v := range byLine {
		p.entries = append(p.entries, planEntry{
			action:   *v.Action,
			ruleID:   v.RuleID,
			category: v.Category,
		})
	}
	sort.Slice(p.entries, func(i, j int) bool {
		return p.entries[i].action.Line < p.entries[j].action.Line
	})

	return p
}

// Len returns the number of actions in the plan.
func (p *Plan) Len() int { return len(p.entries) }

// Apply rewrites raw lines according to the plan and returns the new line
// sequence. Line numbers in the plan refer to the input; applying back to
// front keeps earlier indices stable while replacements grow or shrink the
// slice.
func (p *Plan) Apply(raw []string) []string {
	out := make([]string, len(raw))
	copy(out, raw)

	for i := len(p.entries) - 1; i >= 0; i-- {
		a := p.entries[i].action
		idx := a.Line - 1
		if idx < 0 || idx >= len(out) {
			continue
		}
		merged := make([]string, 0, len(out)+len(a.Replacement)-1)
		merged = append(merged, out[:idx]...)
		merged = append(merged, a.Replacement...)
		merged = append(merged, out[idx+1:]...)
		out = merged
	}

	return out
}
