package source

import "strings"

// File is one Python source file loaded into classified lines. A File is
// created fresh per processing pass and never mutated after construction;
// the engine materializes corrected content as a new File.
type File struct {
	Path  string
	Lines []Line

	// Encoding metadata, preserved by the materializer.
	CRLF         bool // Lines were terminated with \r\n.
	FinalNewline bool // The file ended with a line terminator.
}

// FromString builds a File from in-memory content. Used by the engine to
// re-read its own output between passes, and by tests.
func FromString(path, content string, tabWidth int) *File {
	f := &File{
		Path:         path,
		CRLF:         strings.Contains(content, "\r\n"),
		FinalNewline: strings.HasSuffix(content, "\n"),
	}

	raw := strings.ReplaceAll(content, "\r\n", "\n")
	f.Lines = buildLines(splitLines(raw), tabWidth)
	return f
}

// FromLines builds a File from raw line text, re-running classification.
// Encoding metadata is carried over from the original file.
func FromLines(orig *File, raw []string, tabWidth int) *File {
	return &File{
		Path:         orig.Path,
		Lines:        buildLines(raw, tabWidth),
		CRLF:         orig.CRLF,
		FinalNewline: orig.FinalNewline,
	}
}

// Content reassembles the file text from raw lines, using the recorded
// line-ending style. The output always ends with a final newline.
func (f *File) Content() string {
	eol := "\n"
	if f.CRLF {
		eol = "\r\n"
	}

	var b strings.Builder
	for _, l := range f.Lines {
		b.WriteString(l.Raw)
		b.WriteString(eol)
	}
	return b.String()
}

// RawLines returns the raw text of every line, in order.
func (f *File) RawLines() []string {
	out := make([]string, len(f.Lines))
	for i, l := range f.Lines {
		out[i] = l.Raw
	}
	return out
}

// buildLines classifies raw lines, tracking continuation state (bracket
// depth and open string literals) across the sequence so each Line gets a
// stable kind and indent.
func buildLines(raw []string, tabWidth int) []Line {
	lines := make([]Line, 0, len(raw))

	continued := false
	var st lineState
	for i, text := range raw {
		kind := classify(text, continued)
		lines = append(lines, Line{
			Num:    i + 1,
			Raw:    text,
			Indent: indentWidth(text, tabWidth),
			Kind:   kind,
		})
		continued, st = continuesNext(text, st)
	}

	return lines
}

// splitLines splits source text into lines, dropping the empty element a
// trailing newline produces but keeping intentional blank lines.
func splitLines(src string) []string {
	if src == "" {
		return nil
	}
	lines := strings.Split(src, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
