package strata

import (
	"context"
	"fmt"

	"github.com/docstrata/strata/detect"
	"github.com/docstrata/strata/markdown"
	"github.com/docstrata/strata/model"
)

// Converter provides a fluent interface for converting positioned page
// content into a structured document. Each configuration method returns
// a new Converter instance, making it safe for concurrent use and
// allowing method chaining.
type Converter struct {
	pages   []*model.Page
	options ConvertOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Converter with a deep copy of
// options. This ensures immutability; each chain method returns a new
// instance.
func (c *Converter) clone() *Converter {
	return &Converter{
		pages:   c.pages,
		options: c.options.clone(),
		err:     c.err,
	}
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// Pages specifies which pages to convert (1-indexed). Multiple calls are
// cumulative.
//
// Example:
//
//	md, _, err := strata.FromPages(pages).Pages(1, 3, 5).Markdown()
func (c *Converter) Pages(pages ...int) *Converter {
	newConv := c.clone()
	newConv.options.pages = append(newConv.options.pages, pages...)
	return newConv
}

// PageRange specifies a range of pages to convert (1-indexed,
// inclusive).
func (c *Converter) PageRange(start, end int) *Converter {
	newConv := c.clone()
	if start < 1 || end < start {
		newConv.err = fmt.Errorf("invalid page range %d-%d", start, end)
		return newConv
	}
	for p := start; p <= end; p++ {
		newConv.options.pages = append(newConv.options.pages, p)
	}
	return newConv
}

// ExcludeHeaders drops recurring page headers from the output
func (c *Converter) ExcludeHeaders() *Converter {
	newConv := c.clone()
	newConv.options.excludeHeaders = true
	return newConv
}

// ExcludeFooters drops recurring page footers from the output
func (c *Converter) ExcludeFooters() *Converter {
	newConv := c.clone()
	newConv.options.excludeFooters = true
	return newConv
}

// WithDetector plugs in an external region detector whose proposals are
// merged into the geometric classification as hints.
func (c *Converter) WithDetector(d detect.RegionDetector) *Converter {
	newConv := c.clone()
	newConv.options.detector = d
	return newConv
}

// Workers sets the number of pages processed concurrently. Values below
// one select sequential processing.
func (c *Converter) Workers(n int) *Converter {
	newConv := c.clone()
	if n < 1 {
		n = 1
	}
	newConv.options.workers = n
	return newConv
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Document runs the conversion and returns the assembled document tree
func (c *Converter) Document() (*model.Document, []Warning, error) {
	return c.DocumentContext(context.Background())
}

// DocumentContext runs the conversion with a context. Cancellation stops
// page processing between stages; a partially processed result is never
// returned.
func (c *Converter) DocumentContext(ctx context.Context) (*model.Document, []Warning, error) {
	if c.err != nil {
		return nil, nil, c.err
	}
	if len(c.pages) == 0 {
		return nil, nil, fmt.Errorf("no pages to convert")
	}
	return c.run(ctx)
}

// Markdown runs the conversion and serializes the document to Markdown
func (c *Converter) Markdown() (string, []Warning, error) {
	return c.MarkdownContext(context.Background())
}

// MarkdownContext runs the conversion with a context and serializes the
// document to Markdown
func (c *Converter) MarkdownContext(ctx context.Context) (string, []Warning, error) {
	doc, warnings, err := c.DocumentContext(ctx)
	if err != nil {
		return "", warnings, err
	}
	return markdown.NewSerializer().Serialize(doc), warnings, nil
}

// Text runs the conversion and returns the document's plain text in
// reading order
func (c *Converter) Text() (string, []Warning, error) {
	return c.TextContext(context.Background())
}

// TextContext runs the conversion with a context and returns plain text
func (c *Converter) TextContext(ctx context.Context) (string, []Warning, error) {
	doc, warnings, err := c.DocumentContext(ctx)
	if err != nil {
		return "", warnings, err
	}
	return doc.ExtractText(), warnings, nil
}
