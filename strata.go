// Package strata reconstructs document structure from positioned page
// content: given pages of glyph runs, images, and ruling lines, it
// infers paragraphs, headings, lists, tables, figures, and footnotes in
// reading order and serializes them to Markdown or plain text.
//
// Basic usage:
//
//	doc, warnings, err := strata.FromPages(pages).Document()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", strata.FormatWarnings(warnings))
//	}
//
// With options:
//
//	md, _, err := strata.FromPages(pages).
//	    Pages(1, 2, 3).
//	    ExcludeHeaders().
//	    ExcludeFooters().
//	    Markdown()
//
// For advanced use cases, the lower-level classify, layout, tables,
// assemble, and markdown packages are also available.
package strata

import (
	"github.com/docstrata/strata/model"
)

// FromPages creates a Converter for the given pages. Pages must be in
// document order with 1-indexed page numbers.
//
// Example:
//
//	doc, warnings, err := strata.FromPages(pages).Document()
func FromPages(pages []*model.Page) *Converter {
	return &Converter{
		pages:   pages,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	doc := strata.Must(buildPages(input))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustText is a helper that wraps a call to a terminal operation like
// Text() or Markdown() and panics if the error is non-nil. It discards
// warnings and returns just the value. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	md := strata.MustText(strata.FromPages(pages).Markdown())
func MustText[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
