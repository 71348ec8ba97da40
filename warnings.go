package strata

import (
	"strings"

	"github.com/docstrata/strata/model"
)

// Warning is a non-fatal problem reported alongside conversion results
type Warning = model.Warning

// FormatWarnings formats a list of warnings as a single human-readable
// string, one warning per line.
//
// Example:
//
//	doc, warnings, err := strata.FromPages(pages).Document()
//	if len(warnings) > 0 {
//	    log.Println(strata.FormatWarnings(warnings))
//	}
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, 0, len(warnings))
	for _, w := range warnings {
		parts = append(parts, w.String())
	}
	return strings.Join(parts, "\n")
}
