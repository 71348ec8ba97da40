package model

import "fmt"

// Warning records a non-fatal problem encountered while converting a
// document. Warnings accompany results instead of aborting them; a page
// that cannot be processed yields a Placeholder block plus a Warning.
type Warning struct {
	// Page is the 1-indexed page number the warning applies to, or 0 for
	// document-level warnings
	Page int

	// Message describes the problem
	Message string
}

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}
