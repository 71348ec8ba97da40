package strata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/docstrata/strata/assemble"
	"github.com/docstrata/strata/classify"
	"github.com/docstrata/strata/detect"
	"github.com/docstrata/strata/layout"
	"github.com/docstrata/strata/model"
	"github.com/docstrata/strata/tables"
)

// pageWork carries one page through the pipeline stages
type pageWork struct {
	page     *model.Page
	stats    model.PageStats
	clusters []classify.Cluster
	blocks   []model.Block
	warnings []Warning
	failed   string // non-empty reason marks the page as failed
}

// run executes the conversion pipeline: classification per page in
// parallel, header/footer resolution across pages, layout and table
// reconstruction per page in parallel, then sequential assembly. Page
// failure is isolated: a failed page contributes a Placeholder block and
// a Warning, never an error for the whole document.
func (c *Converter) run(ctx context.Context) (*model.Document, []Warning, error) {
	work := c.selectPages()
	if len(work) == 0 {
		return nil, nil, fmt.Errorf("page selection matched no pages")
	}

	// Stage 1: per-page classification
	if err := c.forEachPage(ctx, work, c.classifyPage); err != nil {
		return nil, nil, err
	}

	// Stage 2: cross-page header/footer resolution (sequential, needs
	// every page's clusters)
	pageClusters := make([]classify.PageClusters, len(work))
	for i, w := range work {
		pageClusters[i] = classify.PageClusters{
			PageNumber: w.page.Number,
			Width:      w.page.Width,
			Height:     w.page.Height,
			Clusters:   w.clusters,
		}
	}
	classify.NewHeaderFooterDetector().Resolve(pageClusters)
	for i := range work {
		work[i].clusters = pageClusters[i].Clusters
	}

	// Stage 3: per-page layout resolution and table reconstruction
	if err := c.forEachPage(ctx, work, c.buildBlocks); err != nil {
		return nil, nil, err
	}

	// Stage 4: sequential assembly in page order
	assembler := assemble.NewAssembler()
	var warnings []Warning
	for _, w := range work {
		assembler.AddPageStats(w.stats)
		warnings = append(warnings, w.warnings...)

		if w.failed != "" {
			assembler.AddPage(assemble.PageInput{
				Number: w.page.Number,
				Width:  w.page.Width,
				Height: w.page.Height,
				Blocks: []model.Block{&model.Placeholder{
					Reason: w.failed,
					Page:   w.page.Number,
				}},
			})
			continue
		}

		assembler.AddPage(assemble.PageInput{
			Number: w.page.Number,
			Width:  w.page.Width,
			Height: w.page.Height,
			Blocks: w.blocks,
		})
	}

	doc, assemblyWarnings := assembler.Finalize()
	warnings = append(warnings, assemblyWarnings...)
	return doc, warnings, nil
}

// selectPages applies the page filter and returns work items in page
// order
func (c *Converter) selectPages() []*pageWork {
	var wanted map[int]bool
	if len(c.options.pages) > 0 {
		wanted = make(map[int]bool, len(c.options.pages))
		for _, p := range c.options.pages {
			wanted[p] = true
		}
	}

	var work []*pageWork
	for _, page := range c.pages {
		if wanted != nil && !wanted[page.Number] {
			continue
		}
		work = append(work, &pageWork{page: page})
	}
	sort.SliceStable(work, func(i, j int) bool {
		return work[i].page.Number < work[j].page.Number
	})
	return work
}

// forEachPage runs fn over the work items with the configured number of
// workers. The first context error wins; per-page processing errors are
// recorded on the work item instead of failing the run.
func (c *Converter) forEachPage(ctx context.Context, work []*pageWork, fn func(ctx context.Context, w *pageWork)) error {
	workers := c.options.workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(work) {
		workers = len(work)
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indices {
				if ctx.Err() != nil {
					return
				}
				fn(ctx, work[idx])
			}
		}()
	}

	for i := range work {
		select {
		case indices <- i:
		case <-ctx.Done():
			close(indices)
			wg.Wait()
			return ctx.Err()
		}
	}
	close(indices)
	wg.Wait()
	return ctx.Err()
}

// classifyPage runs stage 1 for one page: statistics, geometric
// classification, and optional detector hints.
func (c *Converter) classifyPage(ctx context.Context, w *pageWork) {
	if len(w.page.Primitives) == 0 {
		w.failed = "no extractable content"
		w.warnings = append(w.warnings, Warning{
			Page:    w.page.Number,
			Message: "page has no extractable content",
		})
		w.stats = model.PageStats{
			PageNumber: w.page.Number,
			Width:      w.page.Width,
			Height:     w.page.Height,
		}
		return
	}

	w.stats = classify.ComputePageStats(w.page)
	w.clusters = classify.NewClassifier().ClassifyPage(w.page, w.stats)

	if c.options.detector != nil {
		hints, err := c.options.detector.DetectRegions(ctx, w.page)
		switch {
		case err == nil:
			w.clusters = detect.ApplyHints(w.clusters, hints)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			// Cancellation surfaces through forEachPage
		default:
			w.warnings = append(w.warnings, Warning{
				Page:    w.page.Number,
				Message: "region detector failed: " + err.Error(),
			})
		}
	}
}

// buildBlocks runs stage 3 for one page: reading-order resolution, table
// reconstruction, and cluster-to-block conversion.
func (c *Converter) buildBlocks(ctx context.Context, w *pageWork) {
	if w.failed != "" {
		return
	}

	result := layout.NewResolver().Resolve(w.clusters, w.page.Width, w.page.Height)

	var blocks []model.Block
	if !c.options.excludeHeaders {
		for _, h := range result.Headers {
			blocks = append(blocks, clusterParagraph(h))
		}
	}

	reconstructor := tables.NewReconstructor()
	rules := w.page.VectorLines()
	for _, cluster := range result.Ordered {
		if cluster.Kind == classify.RegionTableCandidate {
			table, err := reconstructor.Reconstruct(cluster, rules, w.stats)
			if err == nil {
				blocks = append(blocks, table)
				continue
			}
			if !errors.Is(err, tables.ErrNotTabular) {
				w.warnings = append(w.warnings, Warning{
					Page:    w.page.Number,
					Message: "table reconstruction failed: " + err.Error(),
				})
			}
			// Fall through: the region's text is preserved as paragraphs
			blocks = append(blocks, regionParagraphs(cluster)...)
			continue
		}
		if block := clusterBlock(cluster); block != nil {
			blocks = append(blocks, block)
		}
	}

	if !c.options.excludeFooters {
		for _, f := range result.Footers {
			blocks = append(blocks, clusterParagraph(f))
		}
	}

	w.blocks = mergeAdjacentParagraphs(blocks)
}

// clusterBlock converts one classified cluster into its block variant.
// Unknown content is preserved as an unclassified paragraph, never
// dropped.
func clusterBlock(cluster classify.Cluster) model.Block {
	switch cluster.Kind {
	case classify.RegionHeading:
		return &model.Heading{
			Text:     cluster.Text,
			FontSize: cluster.FontSize,
			Bold:     cluster.Bold,
			BBox:     cluster.BBox,
			Page:     cluster.Page,
		}
	case classify.RegionListItem:
		return &model.ListItem{
			Text:    cluster.Text,
			Depth:   cluster.Depth,
			Marker:  cluster.Marker,
			Ordered: cluster.Ordered,
			BBox:    cluster.BBox,
			Page:    cluster.Page,
		}
	case classify.RegionFigure:
		return &model.Figure{
			ImageRef: cluster.ImageRef,
			BBox:     cluster.BBox,
			Page:     cluster.Page,
		}
	case classify.RegionFootnote:
		return &model.Footnote{
			Marker: cluster.Marker,
			Text:   cluster.Text,
			BBox:   cluster.BBox,
			Page:   cluster.Page,
		}
	case classify.RegionCaption:
		return &model.Caption{
			Text:   cluster.Text,
			Target: cluster.Target,
			BBox:   cluster.BBox,
			Page:   cluster.Page,
		}
	case classify.RegionUnknown:
		if cluster.Text == "" {
			return nil
		}
		p := clusterParagraph(cluster)
		p.Unclassified = true
		return p
	default:
		if cluster.Text == "" {
			return nil
		}
		return clusterParagraph(cluster)
	}
}

// regionParagraphs re-emits a rejected table region as one paragraph per
// source line; the usual adjacent-paragraph merging then folds them back
// into flowing text.
func regionParagraphs(cluster classify.Cluster) []model.Block {
	lines := classify.BuildLines(cluster.Primitives)
	if len(lines) == 0 {
		if cluster.Text == "" {
			return nil
		}
		return []model.Block{clusterParagraph(cluster)}
	}
	out := make([]model.Block, 0, len(lines))
	for _, line := range lines {
		out = append(out, clusterParagraph(line))
	}
	return out
}

func clusterParagraph(cluster classify.Cluster) *model.Paragraph {
	return &model.Paragraph{
		Text:     cluster.Text,
		FontSize: cluster.FontSize,
		BBox:     cluster.BBox,
		Page:     cluster.Page,
	}
}

// mergeAdjacentParagraphs folds consecutive single-line paragraphs into
// multi-line ones: vertically adjacent lines at the same font size read
// as one paragraph.
func mergeAdjacentParagraphs(blocks []model.Block) []model.Block {
	var out []model.Block
	for _, block := range blocks {
		p, ok := block.(*model.Paragraph)
		if !ok {
			out = append(out, block)
			continue
		}
		if len(out) > 0 {
			if prev, ok := out[len(out)-1].(*model.Paragraph); ok &&
				prev.Page == p.Page &&
				prev.Unclassified == p.Unclassified &&
				sameSize(prev.FontSize, p.FontSize) &&
				linesAdjacent(prev.BBox, p.BBox) {
				prev.Text = prev.Text + " " + p.Text
				prev.BBox = prev.BBox.Union(p.BBox)
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func sameSize(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= 0.5
}

// linesAdjacent reports whether b directly follows a vertically
func linesAdjacent(a, b model.BBox) bool {
	gap := a.Bottom() - b.Top()
	limit := b.Height * 1.6
	if limit < 4 {
		limit = 4
	}
	return gap > -b.Height*0.5 && gap < limit
}
