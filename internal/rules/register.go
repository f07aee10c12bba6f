package rules

import (
	"github.com/stjepanp/pyfix/internal/rules/style"
)

func init() {
	// Registration order mirrors conflict-resolution priority:
	// indentation > import-split > line-length > whitespace.
	RegisterStyleRule(&style.Indentation{})
	RegisterStyleRule(&style.ImportSplit{})
	RegisterStyleRule(&style.LineLength{})
	RegisterStyleRule(&style.Whitespace{})
}
