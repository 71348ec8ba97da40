package tables

import (
	"errors"
	"sort"

	"github.com/docstrata/strata/classify"
	"github.com/docstrata/strata/model"
)

// ErrNotTabular signals that a candidate region could not be
// reconstructed into a well-formed table and should be re-emitted as
// paragraph blocks instead.
var ErrNotTabular = errors.New("region is not tabular")

// Config holds configuration for table reconstruction
type Config struct {
	// MinRows is the minimum row count for a valid table; degenerate
	// 1-row regions are rejected as non-tabular
	// Default: 2
	MinRows int

	// MinCols is the minimum column count for a valid table; degenerate
	// 1-column regions (aligned list items) are rejected
	// Default: 2
	MinCols int

	// AlignmentTolerance is the maximum coordinate difference for two
	// edges to be considered aligned, in points
	// Default: 3.0
	AlignmentTolerance float64

	// MinAlignedRows is the minimum number of rows a left edge must
	// recur in to define a column boundary in a whitespace table
	// Default: 3
	MinAlignedRows int

	// CellGapFactor scales the body font size to the minimum horizontal
	// gap separating two cell runs on one line
	// Default: 1.8
	CellGapFactor float64

	// WrapMergeRatio is the column-occupancy fraction at or below which
	// a row is treated as wrapped continuation of the row above
	// Default: 0.5
	WrapMergeRatio float64

	// DetectSpans enables merged-cell (rowspan/colspan) detection
	// Default: true
	DetectSpans bool

	// HeaderSizeRatio is the font-size ratio over the remaining rows at
	// which the first row is marked as a header row
	// Default: 1.05
	HeaderSizeRatio float64
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		MinRows:            2,
		MinCols:            2,
		AlignmentTolerance: 3.0,
		MinAlignedRows:     3,
		CellGapFactor:      1.8,
		WrapMergeRatio:     0.5,
		DetectSpans:        true,
		HeaderSizeRatio:    1.05,
	}
}

// Reconstructor infers table structure from candidate regions
type Reconstructor struct {
	config Config
}

// NewReconstructor creates a reconstructor with default configuration
func NewReconstructor() *Reconstructor {
	return &Reconstructor{config: DefaultConfig()}
}

// NewReconstructorWithConfig creates a reconstructor with custom
// configuration
func NewReconstructorWithConfig(config Config) *Reconstructor {
	return &Reconstructor{config: config}
}

// cellContent accumulates the text runs assigned to one grid position
type cellContent struct {
	text     string
	bbox     model.BBox
	fontSize float64
	bold     bool
	baseline float64
}

func (cc *cellContent) add(run classify.Cluster) {
	if cc.text == "" {
		cc.fontSize = run.FontSize
		cc.bold = run.Bold
	} else if run.Baseline < cc.baseline-run.BBox.Height*0.5 {
		// New line within the same cell: wrapped content keeps an
		// internal line break rather than becoming a separate cell
		cc.text += "\n"
	} else {
		cc.text += " "
	}
	cc.text += run.Text
	cc.bbox = cc.bbox.Union(run.BBox)
	cc.baseline = run.Baseline
}

// Reconstruct builds a table from a candidate region. The rules slice
// holds the page's vector-line primitives; stats supplies the page's
// typographic baseline. Returns ErrNotTabular when no rectangular,
// invariant-satisfying grid can be produced.
func (r *Reconstructor) Reconstruct(region classify.Cluster, rules []model.Primitive, stats model.PageStats) (*model.Table, error) {
	lines := classify.BuildLines(region.Primitives)
	if len(lines) < r.config.MinRows {
		return nil, ErrNotTabular
	}

	cellGap := r.config.CellGapFactor * stats.BodyFontSize
	if cellGap < 6 {
		cellGap = 6
	}

	regionRules := rulesInRegion(rules, region.BBox, r.config.AlignmentTolerance*2)
	rowBounds, colBounds, ruled := r.gridFromRules(regionRules, region.BBox)

	var grid [][]cellContent
	if ruled {
		grid = r.fillRuledGrid(lines, rowBounds, colBounds, cellGap)
	} else {
		var err error
		grid, colBounds, err = r.inferWhitespaceGrid(lines, region.BBox, cellGap)
		if err != nil {
			return nil, err
		}
		grid = r.mergeWrappedRows(grid, lines)
	}

	if len(grid) < r.config.MinRows || len(colBounds)-1 < r.config.MinCols {
		return nil, ErrNotTabular
	}

	table := r.buildTable(grid, rowBounds, colBounds, regionRules, ruled)
	table.BBox = region.BBox
	table.Page = region.Page
	table.HasGrid = ruled
	table.Confidence = region.Confidence

	r.markHeaderRow(table, grid)

	if err := table.Validate(); err != nil {
		return nil, ErrNotTabular
	}
	if table.RowCount() < r.config.MinRows || table.ColumnCount() < r.config.MinCols {
		return nil, ErrNotTabular
	}
	return table, nil
}

// gridFromRules derives row and column boundaries from ruling lines.
// Returns ruled=false when the lines do not form at least a 2x2 grid.
func (r *Reconstructor) gridFromRules(rules []model.Primitive, region model.BBox) (rowBounds, colBounds []float64, ruled bool) {
	var ys, xs []float64
	for _, rule := range rules {
		if rule.BBox.Width >= rule.BBox.Height {
			ys = append(ys, rule.BBox.Center().Y)
		} else {
			xs = append(xs, rule.BBox.Center().X)
		}
	}

	ys = clusterValues(ys, r.config.AlignmentTolerance)
	xs = clusterValues(xs, r.config.AlignmentTolerance)
	if len(ys) < r.config.MinRows+1 || len(xs) < r.config.MinCols+1 {
		return nil, nil, false
	}

	// Row boundaries run top to bottom (descending Y)
	sort.Sort(sort.Reverse(sort.Float64Slice(ys)))
	sort.Float64s(xs)
	return ys, xs, true
}

// fillRuledGrid assigns every cell run to the ruled grid cell containing
// its center.
func (r *Reconstructor) fillRuledGrid(lines []classify.Cluster, rowBounds, colBounds []float64, cellGap float64) [][]cellContent {
	rows := len(rowBounds) - 1
	cols := len(colBounds) - 1
	grid := make([][]cellContent, rows)
	for i := range grid {
		grid[i] = make([]cellContent, cols)
	}

	for _, line := range lines {
		for _, run := range classify.SplitCellRuns(line, cellGap) {
			center := run.BBox.Center()
			row, col := -1, -1
			for i := 0; i < rows; i++ {
				if center.Y <= rowBounds[i]+r.config.AlignmentTolerance &&
					center.Y >= rowBounds[i+1]-r.config.AlignmentTolerance {
					row = i
					break
				}
			}
			for j := 0; j < cols; j++ {
				if center.X >= colBounds[j]-r.config.AlignmentTolerance &&
					center.X <= colBounds[j+1]+r.config.AlignmentTolerance {
					col = j
					break
				}
			}
			if row >= 0 && col >= 0 {
				grid[row][col].add(run)
			}
		}
	}
	return grid
}

// inferWhitespaceGrid builds the grid for a table without ruling lines:
// column boundaries from left edges recurring across MinAlignedRows
// rows, one row per line band.
func (r *Reconstructor) inferWhitespaceGrid(lines []classify.Cluster, region model.BBox, cellGap float64) ([][]cellContent, []float64, error) {
	runRows := make([][]classify.Cluster, len(lines))
	var edges []float64
	for i, line := range lines {
		runRows[i] = classify.SplitCellRuns(line, cellGap)
		for _, run := range runRows[i] {
			edges = append(edges, run.BBox.Left())
		}
	}

	columns := r.alignedEdges(edges)
	if len(columns) < r.config.MinCols {
		return nil, nil, ErrNotTabular
	}

	colBounds := append(columns, region.Right())

	grid := make([][]cellContent, len(runRows))
	for i, runs := range runRows {
		grid[i] = make([]cellContent, len(columns))
		for _, run := range runs {
			col := r.columnIndex(columns, run.BBox.Left())
			grid[i][col].add(run)
		}
	}
	return grid, colBounds, nil
}

// alignedEdges clusters left-edge positions and keeps those recurring in
// at least MinAlignedRows rows, sorted left to right.
func (r *Reconstructor) alignedEdges(edges []float64) []float64 {
	if len(edges) == 0 {
		return nil
	}
	sort.Float64s(edges)

	var columns []float64
	i := 0
	for i < len(edges) {
		j := i + 1
		sum := edges[i]
		for j < len(edges) && edges[j]-edges[i] <= r.config.AlignmentTolerance {
			sum += edges[j]
			j++
		}
		if j-i >= r.config.MinAlignedRows {
			columns = append(columns, sum/float64(j-i))
		}
		i = j
	}
	return columns
}

// columnIndex returns the rightmost column whose boundary lies at or
// left of x (within tolerance).
func (r *Reconstructor) columnIndex(columns []float64, x float64) int {
	idx := 0
	for i, edge := range columns {
		if x >= edge-r.config.AlignmentTolerance {
			idx = i
		} else {
			break
		}
	}
	return idx
}

// mergeWrappedRows folds sparse continuation rows into the row above. A
// ragged last column wrapping onto its own line produces a row occupying
// far fewer columns than the table width; its content belongs to the
// previous row's cells with an internal line break.
func (r *Reconstructor) mergeWrappedRows(grid [][]cellContent, lines []classify.Cluster) [][]cellContent {
	if len(grid) < 2 {
		return grid
	}
	cols := len(grid[0])

	merged := [][]cellContent{grid[0]}
	for i := 1; i < len(grid); i++ {
		occupied := 0
		for _, cc := range grid[i] {
			if cc.text != "" {
				occupied++
			}
		}

		isWrap := occupied > 0 &&
			float64(occupied) <= r.config.WrapMergeRatio*float64(cols) &&
			i < len(lines) && i-1 >= 0 &&
			linesAdjacent(lines[i-1], lines[i])

		if !isWrap {
			merged = append(merged, grid[i])
			continue
		}

		prev := merged[len(merged)-1]
		for j := 0; j < cols; j++ {
			if grid[i][j].text == "" {
				continue
			}
			if prev[j].text != "" {
				prev[j].text += "\n" + grid[i][j].text
				prev[j].bbox = prev[j].bbox.Union(grid[i][j].bbox)
			} else {
				prev[j] = grid[i][j]
			}
		}
	}
	return merged
}

// buildTable converts the content grid into a model.Table of origin
// cells, detecting merged cells when enabled.
func (r *Reconstructor) buildTable(grid [][]cellContent, rowBounds, colBounds []float64, rules []model.Primitive, ruled bool) *model.Table {
	rows := len(grid)
	cols := len(grid[0])

	// covered marks positions consumed by a span's origin cell
	covered := make([][]bool, rows)
	for i := range covered {
		covered[i] = make([]bool, cols)
	}

	table := &model.Table{Rows: make([][]model.Cell, rows)}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if covered[i][j] {
				continue
			}
			cc := grid[i][j]
			cell := model.Cell{
				Text:    cc.text,
				BBox:    cc.bbox,
				RowSpan: 1,
				ColSpan: 1,
			}

			if r.config.DetectSpans && cc.text != "" {
				cell.ColSpan = r.colSpan(grid, covered, i, j, colBounds, rules, ruled)
				if ruled {
					cell.RowSpan = r.rowSpan(grid, covered, i, j, cell.ColSpan, rowBounds, colBounds, rules)
				}
				for rr := i; rr < i+cell.RowSpan; rr++ {
					for ccc := j; ccc < j+cell.ColSpan; ccc++ {
						if rr != i || ccc != j {
							covered[rr][ccc] = true
						}
					}
				}
			}

			table.Rows[i] = append(table.Rows[i], cell)
		}
	}

	// Drop rows that became empty after span coverage
	var kept [][]model.Cell
	for _, row := range table.Rows {
		if len(row) > 0 {
			kept = append(kept, row)
		}
	}
	table.Rows = kept
	return table
}

// colSpan counts how many columns a cell spans: its content extends into
// following column bands that hold no content of their own, with no
// vertical rule in between for ruled grids.
func (r *Reconstructor) colSpan(grid [][]cellContent, covered [][]bool, i, j int, colBounds []float64, rules []model.Primitive, ruled bool) int {
	span := 1
	cc := grid[i][j]
	for k := j + 1; k < len(grid[i]); k++ {
		if covered[i][k] || grid[i][k].text != "" {
			break
		}
		boundary := colBounds[k]
		if ruled && hasVerticalRule(rules, boundary, cc.bbox.Bottom(), cc.bbox.Top(), r.config.AlignmentTolerance) {
			break
		}
		if !ruled && cc.bbox.Right() <= boundary+r.config.AlignmentTolerance {
			break
		}
		span++
	}
	return span
}

// rowSpan counts how many rows a ruled cell spans: the cells directly
// below are empty and no horizontal rule separates the bands across the
// cell's columns.
func (r *Reconstructor) rowSpan(grid [][]cellContent, covered [][]bool, i, j, colSpan int, rowBounds, colBounds []float64, rules []model.Primitive) int {
	span := 1
	left := colBounds[j]
	right := colBounds[minInt(j+colSpan, len(colBounds)-1)]

	for k := i + 1; k < len(grid); k++ {
		empty := true
		for c := j; c < j+colSpan && c < len(grid[k]); c++ {
			if covered[k][c] || grid[k][c].text != "" {
				empty = false
				break
			}
		}
		if !empty {
			break
		}
		if k < len(rowBounds) && hasHorizontalRule(rules, rowBounds[k], left, right, r.config.AlignmentTolerance) {
			break
		}
		span++
	}
	return span
}

// markHeaderRow flags the first row as a header when its cells are bold
// or a font-size outlier relative to the remaining rows.
func (r *Reconstructor) markHeaderRow(table *model.Table, grid [][]cellContent) {
	if len(grid) < 2 || len(table.Rows) < 2 {
		return
	}

	var firstSize, restSize float64
	var firstCount, restCount int
	firstBold := true
	for _, cc := range grid[0] {
		if cc.text == "" {
			continue
		}
		firstSize += cc.fontSize
		firstCount++
		if !cc.bold {
			firstBold = false
		}
	}
	for _, row := range grid[1:] {
		for _, cc := range row {
			if cc.text == "" {
				continue
			}
			restSize += cc.fontSize
			restCount++
		}
	}
	if firstCount == 0 || restCount == 0 {
		return
	}

	firstAvg := firstSize / float64(firstCount)
	restAvg := restSize / float64(restCount)
	if firstBold || firstAvg >= restAvg*r.config.HeaderSizeRatio {
		for j := range table.Rows[0] {
			table.Rows[0][j].IsHeader = true
		}
	}
}

// rulesInRegion filters vector lines to those intersecting the region
func rulesInRegion(rules []model.Primitive, region model.BBox, margin float64) []model.Primitive {
	expanded := region.Expand(margin)
	var out []model.Primitive
	for _, rule := range rules {
		if expanded.Intersects(rule.BBox) {
			out = append(out, rule)
		}
	}
	return out
}

// hasVerticalRule reports whether a vertical rule exists near x spanning
// the given Y range
func hasVerticalRule(rules []model.Primitive, x, y0, y1, tolerance float64) bool {
	for _, rule := range rules {
		if rule.BBox.Width >= rule.BBox.Height {
			continue
		}
		if absFloat(rule.BBox.Center().X-x) > tolerance {
			continue
		}
		if rule.BBox.Bottom() <= y0+tolerance && rule.BBox.Top() >= y1-tolerance {
			return true
		}
	}
	return false
}

// hasHorizontalRule reports whether a horizontal rule exists near y
// spanning the given X range
func hasHorizontalRule(rules []model.Primitive, y, x0, x1, tolerance float64) bool {
	for _, rule := range rules {
		if rule.BBox.Height > rule.BBox.Width {
			continue
		}
		if absFloat(rule.BBox.Center().Y-y) > tolerance {
			continue
		}
		if rule.BBox.Left() <= x0+tolerance && rule.BBox.Right() >= x1-tolerance {
			return true
		}
	}
	return false
}

// clusterValues clusters nearby values within the given tolerance,
// averaging values that fall within the tolerance of the cluster start
func clusterValues(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sort.Float64s(values)

	clustered := []float64{values[0]}
	for i := 1; i < len(values); i++ {
		if values[i]-clustered[len(clustered)-1] > tolerance {
			clustered = append(clustered, values[i])
		} else {
			clustered[len(clustered)-1] = (clustered[len(clustered)-1] + values[i]) / 2
		}
	}
	return clustered
}

// linesAdjacent reports whether two line clusters are vertically adjacent
func linesAdjacent(a, b classify.Cluster) bool {
	gap := a.BBox.Bottom() - b.BBox.Top()
	limit := b.BBox.Height * 1.6
	if limit < 4 {
		limit = 4
	}
	return gap > -b.BBox.Height*0.5 && gap < limit
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
