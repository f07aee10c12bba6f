package style

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/stjepanp/pyfix/internal/config"
	"github.com/stjepanp/pyfix/internal/engine"
	"github.com/stjepanp/pyfix/internal/source"
)

// LineLength flags lines wider than the configured maximum and soft-breaks
// them at the last safe split point. Lines with no safe split point are
// reported but left unmodified.
type LineLength struct{}

// ID returns the config identifier for this rule.
func (*LineLength) ID() string { return "line-length" }

// Category returns the conflict-resolution priority.
func (*LineLength) Category() engine.Category { return engine.CategoryLength }

// Check measures every line in display columns, tabs expanded to the
// configured width.
func (*LineLength) Check(f *source.File, cfg *config.Config) []engine.Violation {
	var out []engine.Violation

	for _, l := range f.Lines {
		width := displayWidth(l.Raw, cfg.TabWidth)
		if width <= cfg.MaxLineLength {
			continue
		}

		v := engine.Violation{
			RuleID:   "line-length",
			Category: engine.CategoryLength,
			Line:     l.Num,
			Message: fmt.Sprintf("line is %d columns, limit is %d",
				width, cfg.MaxLineLength),
		}

		if l.Kind == source.KindContinuation {
			// The line may be the interior of a string literal or depend on
			// enclosing bracket context; cutting it is not safe.
			v.Unfixable = true
			v.Message += "; continuation line, manual review required"
			out = append(out, v)
			continue
		}

		if head, tail, needsBackslash := splitAt(l, cfg); head != "" {
			cont := continuationLine(l, tail, cfg)
			if needsBackslash {
				head += " \\"
			}
			v.Action = &engine.Action{
				Line:        l.Num,
				Replacement: []string{head, cont},
			}
		} else {
			v.Unfixable = true
			v.Message += "; no safe split point, manual review required"
		}

		out = append(out, v)
	}

	return out
}

// displayWidth measures a line in terminal columns. Tabs advance to the next
// tab stop; everything else is counted by rune display width.
func displayWidth(raw string, tabWidth int) int {
	col := 0
	for _, r := range raw {
		if r == '\t' {
			col = (col/tabWidth + 1) * tabWidth
			continue
		}
		col += runewidth.RuneWidth(r)
	}
	return col
}

// splitAt finds the last safe split point at or before the limit and cuts
// the line there. It returns empty head when no safe point exists. The third
// result reports whether the break lands outside brackets, where Python
// needs an explicit backslash continuation.
func splitAt(l source.Line, cfg *config.Config) (head, tail string, needsBackslash bool) {
	best := -1
	bestDepth := 0

	inString := false
	var quote rune
	escaped := false
	depth := 0
	col := 0

	raw := l.Raw
scan:
	for i, r := range raw {
		if r == '\t' {
			col = (col/cfg.TabWidth + 1) * cfg.TabWidth
		} else {
			col += runewidth.RuneWidth(r)
		}

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
			continue
		case '#':
			// Never split inside a comment.
			break scan
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		}

		// The head must itself fit, leaving room for the trailing " \"
		// a bracket-free break requires.
		if col > cfg.MaxLineLength-2 {
			continue
		}

		if safePointAfter(raw, i, r) {
			best = i
			bestDepth = depth
		}
	}

	if best < 0 || best >= len(raw)-1 {
		return "", "", false
	}

	head = strings.TrimRight(raw[:best+1], " \t")
	tail = strings.TrimLeft(raw[best+1:], " \t")
	if tail == "" {
		return "", "", false
	}
	return head, tail, bestDepth == 0
}

// safePointAfter reports whether position i is a safe split point: just
// after a comma, an open bracket, or a boolean operator, outside any string
// literal.
func safePointAfter(raw string, i int, r rune) bool {
	switch r {
	case ',', '(', '[', '{':
		return true
	case ' ':
		// " and " or " or ": split after the operator's trailing space.
		return hasOperatorBefore(raw, i)
	}
	return false
}

func hasOperatorBefore(raw string, i int) bool {
	for _, op := range []string{" and", " or"} {
		if i >= len(op) && raw[i-len(op):i] == op {
			return true
		}
	}
	return false
}

// continuationLine indents the carried-over text one unit past the original
// line, the conventional hanging indent.
func continuationLine(l source.Line, tail string, cfg *config.Config) string {
	indent := strings.Repeat(" ", l.Indent+cfg.IndentUnit)
	return indent + tail
}
