package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// FileSummary is the per-file correction report.
type FileSummary struct {
	Path       string `yaml:"path"`
	Dest       string `yaml:"dest,omitempty"`
	Found      int    `yaml:"found"`
	Fixed      int    `yaml:"fixed"`
	Unresolved int    `yaml:"unresolved"`
	Skipped    bool   `yaml:"skipped,omitempty"` // File skipped due to an I/O failure.
	Error      string `yaml:"error,omitempty"`
}

// RunSummary aggregates a whole batch.
type RunSummary struct {
	Files      []FileSummary `yaml:"files"`
	Found      int           `yaml:"found"`
	Fixed      int           `yaml:"fixed"`
	Unresolved int           `yaml:"unresolved"`
	Errors     int           `yaml:"errors"`
}

// Add folds one file's summary into the totals.
func (s *RunSummary) Add(fs FileSummary) {
	s.Files = append(s.Files, fs)
	s.Found += fs.Found
	s.Fixed += fs.Fixed
	s.Unresolved += fs.Unresolved
	if fs.Skipped || fs.Error != "" {
		s.Errors++
	}
}

// Clean reports whether the batch ended with no unresolved violations and
// no per-file errors.
func (s *RunSummary) Clean() bool {
	return s.Unresolved == 0 && s.Errors == 0
}

// WriteText renders the human-readable report. Per-file lines only appear
// for files that had findings or failed.
func (s *RunSummary) WriteText(w io.Writer) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, f := range s.Files {
		switch {
		case f.Error != "":
			fmt.Fprintf(w, "%s %s: %s\n", red("error"), f.Path, f.Error)
		case f.Unresolved > 0:
			fmt.Fprintf(w, "%s %s: %d found, %d fixed, %d unresolved\n",
				yellow("partial"), f.Path, f.Found, f.Fixed, f.Unresolved)
		case f.Found > 0:
			fmt.Fprintf(w, "%s %s: %d found, %d fixed -> %s\n",
				green("fixed"), f.Path, f.Found, f.Fixed, f.Dest)
		}
	}

	fmt.Fprintf(w, "%d files, %d violations found, %d fixed, %d unresolved, %d errors\n",
		len(s.Files), s.Found, s.Fixed, s.Unresolved, s.Errors)
}

// WriteYAML renders the machine-readable report.
func (s *RunSummary) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(s)
}
