package strata

import (
	"runtime"

	"github.com/docstrata/strata/detect"
)

// ConvertOptions holds configuration for document conversion.
type ConvertOptions struct {
	// Page selection (1-indexed in API, stored as-is)
	pages []int

	// Layout filtering
	excludeHeaders bool
	excludeFooters bool

	// Processing options
	workers  int
	detector detect.RegionDetector
}

// defaultOptions returns the default conversion options.
func defaultOptions() ConvertOptions {
	return ConvertOptions{
		pages:          nil, // nil means all pages
		excludeHeaders: false,
		excludeFooters: false,
		workers:        runtime.NumCPU(),
		detector:       nil,
	}
}

// clone creates a deep copy of ConvertOptions.
func (o ConvertOptions) clone() ConvertOptions {
	newOpts := ConvertOptions{
		excludeHeaders: o.excludeHeaders,
		excludeFooters: o.excludeFooters,
		workers:        o.workers,
		detector:       o.detector,
	}

	// Deep copy pages slice
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	return newOpts
}
