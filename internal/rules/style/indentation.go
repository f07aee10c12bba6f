package style

import (
	"fmt"
	"strings"

	"github.com/stjepanp/pyfix/internal/config"
	"github.com/stjepanp/pyfix/internal/engine"
	"github.com/stjepanp/pyfix/internal/source"
)

// Indentation validates that each code line sits at a depth the surrounding
// block structure allows: depths are multiples of the configured unit,
// indents only follow a block introducer and grow by exactly one unit, and
// dedents land on a depth recorded in the stack of open blocks.
//
// The stack of block depths is explicit and local to one Check call, so the
// rule can be exercised with synthetic line sequences.
type Indentation struct{}

// ID returns the config identifier for this rule.
func (*Indentation) ID() string { return "indentation" }

// Category returns the conflict-resolution priority.
func (*Indentation) Category() engine.Category { return engine.CategoryIndent }

// Check walks the file once, pushing on block open and popping on dedent.
// Blank, comment, and continuation lines carry no block structure and are
// exempt.
func (*Indentation) Check(f *source.File, cfg *config.Config) []engine.Violation {
	var out []engine.Violation

	stack := []int{0}
	opensBlock := false

	for _, l := range f.Lines {
		switch l.Kind {
		case source.KindBlank, source.KindComment:
			continue
		case source.KindContinuation:
			// A multi-line header ends its statement on a continuation
			// line; that line decides whether a block opens.
			if opensBlockLine(l) {
				opensBlock = true
			}
			continue
		}

		top := stack[len(stack)-1]
		depth := l.Indent

		switch {
		case depth > top:
			expected := top + cfg.IndentUnit
			if !opensBlock {
				// Indent with no block introducer above: pull back to the
				// enclosing depth.
				out = append(out, indentViolation(l, top,
					"unexpected indent outside a block"))
				depth = top
			} else if depth != expected {
				out = append(out, indentViolation(l, expected,
					fmt.Sprintf("indent is %d columns, expected %d", depth, expected)))
				depth = expected
			}
			if depth > top {
				stack = append(stack, depth)
			}

		case depth < top:
			for len(stack) > 1 && stack[len(stack)-1] > depth {
				stack = stack[:len(stack)-1]
			}
			if landed := stack[len(stack)-1]; landed != depth {
				// Dedent does not match any enclosing block; snap to the
				// nearest recorded depth.
				out = append(out, indentViolation(l, landed,
					fmt.Sprintf("dedent to %d columns matches no open block", depth)))
				depth = landed
			}

		default:
			if depth%cfg.IndentUnit != 0 {
				nearest := nearestMultiple(depth, cfg.IndentUnit)
				out = append(out, indentViolation(l, nearest,
					fmt.Sprintf("indent of %d is not a multiple of %d",
						depth, cfg.IndentUnit)))
				// The stack keeps its recorded depth; the corrected line
				// will match it on the next pass.
			}
		}

		opensBlock = opensBlockLine(l)
	}

	return out
}

// indentViolation builds a violation whose action rewrites the leading
// whitespace to the target depth in spaces.
func indentViolation(l source.Line, target int, msg string) engine.Violation {
	fixed := strings.Repeat(" ", target) + l.Content()
	return engine.Violation{
		RuleID:   "indentation",
		Category: engine.CategoryIndent,
		Line:     l.Num,
		Message:  msg,
		Action:   &engine.Action{Line: l.Num, Replacement: []string{fixed}},
	}
}

// opensBlockLine reports whether a code line introduces a new indented
// block: its content, with any trailing comment stripped string-aware,
// ends in a colon.
func opensBlockLine(l source.Line) bool {
	code := stripTrailingComment(l.Raw)
	code = strings.TrimRight(code, " \t")
	return strings.HasSuffix(code, ":")
}

// stripTrailingComment removes a trailing # comment, leaving # characters
// inside string literals alone.
func stripTrailingComment(raw string) string {
	inString := false
	var quote rune
	escaped := false

	for i, r := range raw {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == quote:
				inString = false
			}
			continue
		}
		switch r {
		case '\'', '"':
			inString = true
			quote = r
		case '#':
			return raw[:i]
		}
	}
	return raw
}

// nearestMultiple rounds depth to the closest non-negative multiple of unit,
// rounding half up.
func nearestMultiple(depth, unit int) int {
	lower := (depth / unit) * unit
	upper := lower + unit
	if depth-lower < upper-depth {
		return lower
	}
	return upper
}
