// Package classify implements the region classifier: the first pipeline
// stage, which groups a page's positioned primitives into line clusters
// and assigns each cluster a semantic region type (body text, heading,
// list item, table candidate, caption, footnote, figure) with a
// confidence score.
//
// Classification is purely geometric and typographic: font-size
// percentiles computed per page (never document-wide, since base sizes
// differ between documents), vertical band position for headers, footers
// and footnotes, left-edge alignment signatures for table candidates, and
// marker patterns for lists and footnotes.
//
// Header and footer identification needs a cross-page view: a cluster in
// the top or bottom band is only demoted out of the main flow when the
// same text recurs on consecutive pages (see HeaderFooterDetector).
// Ambiguous clusters are tagged RegionUnknown and passed through to
// assembly as plain text; content is never silently discarded.
package classify
