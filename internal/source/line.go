// Package source provides the line reader that loads a Python file into an
// ordered sequence of classified lines.
package source

import "strings"

// LineKind classifies a source line.
type LineKind int

const (
	// KindCode is any line that is not one of the kinds below.
	KindCode LineKind = iota
	// KindComment is a line whose first non-whitespace character is #.
	KindComment
	// KindBlank is an empty or whitespace-only line.
	KindBlank
	// KindImport is a line starting an import statement.
	KindImport
	// KindContinuation is a line continuing the previous one: a trailing
	// backslash, an unclosed bracket, or an unterminated string literal.
	KindContinuation
)

// String returns the kind name used in violation messages and logs.
func (k LineKind) String() string {
	switch k {
	case KindCode:
		return "code"
	case KindComment:
		return "comment"
	case KindBlank:
		return "blank"
	case KindImport:
		return "import"
	case KindContinuation:
		return "continuation"
	}
	return "unknown"
}

// Line is a single source line. Raw holds the original text, untouched, so
// corrected output can be diffed against it.
type Line struct {
	Num    int    // 1-based index.
	Raw    string // Original text without the line terminator.
	Indent int    // Leading whitespace in columns, tabs expanded.
	Kind   LineKind
}

// IsBlank reports whether the line is empty or whitespace-only.
func (l Line) IsBlank() bool {
	return l.Kind == KindBlank
}

// Content returns the line text without leading whitespace.
func (l Line) Content() string {
	return strings.TrimLeft(l.Raw, " \t")
}

// indentWidth measures leading whitespace in columns. A tab advances to the
// next multiple of tabWidth, matching how Python's tokenizer counts columns.
func indentWidth(raw string, tabWidth int) int {
	col := 0
	for _, r := range raw {
		switch r {
		case ' ':
			col++
		case '\t':
			col = (col/tabWidth + 1) * tabWidth
		default:
			return col
		}
	}
	return col
}

// classify determines the kind of a line given whether the previous line
// left an open continuation (backslash or unclosed bracket).
func classify(raw string, continued bool) LineKind {
	trimmed := strings.TrimSpace(raw)

	if continued {
		return KindContinuation
	}
	if trimmed == "" {
		return KindBlank
	}
	if strings.HasPrefix(trimmed, "#") {
		return KindComment
	}
	if isImportStatement(trimmed) {
		return KindImport
	}
	return KindCode
}

// isImportStatement reports whether the trimmed line begins an import or
// from-import statement.
func isImportStatement(trimmed string) bool {
	return trimmed == "import" ||
		strings.HasPrefix(trimmed, "import ") ||
		strings.HasPrefix(trimmed, "from ")
}

// lineState is scanner state carried across physical lines: open bracket
// depth and an unterminated string literal. A quote still open at end of
// line (triple-quoted text, or an escaped newline inside a string) puts the
// following lines inside the literal until it closes.
type lineState struct {
	depth    int
	inString bool
	quote    byte
}

// continuesNext reports whether a line leaves the statement open for the
// following line: a trailing backslash outside a comment, a positive bracket
// depth, or an unterminated string literal. It returns the updated state.
func continuesNext(raw string, st lineState) (bool, lineState) {
	inString := st.inString
	quote := st.quote
	depth := st.depth
	escaped := false

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				inString = false
			}
			continue
		}

		switch c {
		case '\'', '"':
			inString = true
			quote = c
		case '#':
			// Comment runs to end of line; nothing after it counts.
			return depth > 0, lineState{depth: depth}
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		}
	}

	st = lineState{depth: depth, inString: inString, quote: quote}
	if inString || depth > 0 {
		return true, st
	}

	trimmed := strings.TrimRight(raw, " \t")
	return strings.HasSuffix(trimmed, "\\"), st
}
