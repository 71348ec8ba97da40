package model

import (
	"fmt"
	"strings"
)

// Table represents a table with cells organized in rows and columns.
//
// Rows hold origin cells only: a cell spanning several rows or columns
// appears once, at its top-left position, carrying RowSpan/ColSpan. The
// well-formedness invariant (spans tile the grid exactly, no overlap,
// every row covering the same column count) is enforced by Validate.
type Table struct {
	Rows       [][]Cell
	HasGrid    bool    // whether the table had visible ruling lines
	Confidence float64 // reconstruction confidence (0-1)
	BBox       BBox
	Page       int
	Order      int
}

func (t *Table) Kind() BlockKind   { return BlockTable }
func (t *Table) BoundingBox() BBox { return t.BBox }
func (t *Table) PageNumber() int   { return t.Page }
func (t *Table) OrderIndex() int   { return t.Order }

func (t *Table) GetText() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			sb.WriteString(cell.Text)
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Cell represents a table cell
type Cell struct {
	Text     string
	BBox     BBox
	RowSpan  int // grid rows occupied, >= 1
	ColSpan  int // grid columns occupied, >= 1
	IsHeader bool
}

// NewTable creates a table with the given dimensions, all cells empty
// with unit spans.
func NewTable(rows, cols int) *Table {
	table := &Table{
		Rows:       make([][]Cell, rows),
		Confidence: 1.0,
	}
	for i := 0; i < rows; i++ {
		table.Rows[i] = make([]Cell, cols)
		for j := 0; j < cols; j++ {
			table.Rows[i][j] = Cell{RowSpan: 1, ColSpan: 1}
		}
	}
	return table
}

// RowCount returns the number of grid rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the number of logical grid columns, derived from
// the first row's colspans. Zero for an empty table.
func (t *Table) ColumnCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	count := 0
	for _, cell := range t.Rows[0] {
		count += cell.ColSpan
	}
	return count
}

// GetCell returns the origin cell at the given row and position within
// the row (0-indexed), or nil if out of bounds. Note the second index is
// the position in the row's cell sequence, not the logical grid column.
func (t *Table) GetCell(row, idx int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if idx < 0 || idx >= len(t.Rows[row]) {
		return nil
	}
	return &t.Rows[row][idx]
}

// HeaderRow reports whether the first row is marked as a header row
// (every cell in it flagged IsHeader).
func (t *Table) HeaderRow() bool {
	if len(t.Rows) == 0 || len(t.Rows[0]) == 0 {
		return false
	}
	for _, cell := range t.Rows[0] {
		if !cell.IsHeader {
			return false
		}
	}
	return true
}

// Validate checks the structural invariant: every cell has spans >= 1,
// spans never overlap, and every row covers exactly the same number of
// logical columns once rowspans from earlier rows are accounted for.
func (t *Table) Validate() error {
	if len(t.Rows) == 0 {
		return fmt.Errorf("table has no rows")
	}

	colCount := t.ColumnCount()
	if colCount == 0 {
		return fmt.Errorf("table has no columns")
	}

	// carry[c] counts how many more rows column c is occupied by a
	// rowspan started in an earlier row
	carry := make([]int, colCount)

	for i, row := range t.Rows {
		col := 0
		for _, cell := range row {
			if cell.RowSpan < 1 || cell.ColSpan < 1 {
				return fmt.Errorf("row %d: cell has invalid span %dx%d", i, cell.RowSpan, cell.ColSpan)
			}

			// Skip columns still occupied from above
			for col < colCount && carry[col] > 0 {
				col++
			}
			if col+cell.ColSpan > colCount {
				return fmt.Errorf("row %d: cells overflow column count %d", i, colCount)
			}
			for c := col; c < col+cell.ColSpan; c++ {
				if carry[c] > 0 {
					return fmt.Errorf("row %d: cell overlaps rowspan in column %d", i, c)
				}
				carry[c] = cell.RowSpan
			}
			col += cell.ColSpan
		}

		// Remaining columns must all be occupied from above
		for col < colCount && carry[col] > 0 {
			col++
		}
		if col != colCount {
			return fmt.Errorf("row %d covers %d of %d columns", i, col, colCount)
		}

		for c := range carry {
			if carry[c] > 0 {
				carry[c]--
			}
		}
	}

	return nil
}

// Expand flattens the table into a full rectangular matrix. Spanned
// positions are filled with copies of the origin cell so that the text of
// a merged cell appears at every grid position it covers. The table must
// be valid; Expand returns nil otherwise.
func (t *Table) Expand() [][]Cell {
	if t.Validate() != nil {
		return nil
	}

	colCount := t.ColumnCount()
	grid := make([][]Cell, len(t.Rows))
	for i := range grid {
		grid[i] = make([]Cell, colCount)
	}
	filled := make([][]bool, len(t.Rows))
	for i := range filled {
		filled[i] = make([]bool, colCount)
	}

	for i, row := range t.Rows {
		col := 0
		for _, cell := range row {
			for col < colCount && filled[i][col] {
				col++
			}
			for r := i; r < i+cell.RowSpan && r < len(t.Rows); r++ {
				for c := col; c < col+cell.ColSpan; c++ {
					grid[r][c] = cell
					filled[r][c] = true
				}
			}
			col += cell.ColSpan
		}
	}

	return grid
}

// AppendRows appends the rows of a continuation table (a table split
// across a page boundary) and extends the bounding box. The caller is
// responsible for checking column-count compatibility first.
func (t *Table) AppendRows(cont *Table) {
	t.Rows = append(t.Rows, cont.Rows...)
	t.BBox = t.BBox.Union(cont.BBox)
	if cont.Confidence < t.Confidence {
		t.Confidence = cont.Confidence
	}
}

// ToCSV converts the table to CSV format, expanding merged cells
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.Expand() {
		for j, cell := range row {
			text := cell.Text
			if strings.ContainsAny(text, ",\"\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(row)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
