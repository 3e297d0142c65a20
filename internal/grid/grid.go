// Package grid provides the sparse typed cell grid the block extractor scans.
// A grid is produced by a workbook decoder and treated as read-only input for
// the rest of the run.
package grid

import "sort"

// Value is one typed cell value: text or number.
type Value struct {
	Text     string
	Number   float64
	IsNumber bool
}

// Text builds a text value.
func Text(s string) Value { return Value{Text: s} }

// Number builds a numeric value.
func Number(f float64) Value { return Value{Number: f, IsNumber: true} }

// Ref addresses a cell by 1-based row index and column letter.
type Ref struct {
	Row int
	Col string
}

// Grid is a sparse mapping from cell references to typed values.
type Grid struct {
	Name  string // worksheet name
	cells map[Ref]Value
}

// New returns an empty grid for the named worksheet.
func New(name string) *Grid {
	return &Grid{Name: name, cells: make(map[Ref]Value)}
}

// Set records a cell value. Empty text values are dropped, matching the
// sparseness of the underlying sheet.
func (g *Grid) Set(row int, col string, v Value) {
	if !v.IsNumber && v.Text == "" {
		return
	}
	g.cells[Ref{Row: row, Col: col}] = v
}

// Get returns the cell value at (row, col), ok=false when absent.
func (g *Grid) Get(row int, col string) (Value, bool) {
	v, ok := g.cells[Ref{Row: row, Col: col}]
	return v, ok
}

// Number returns the numeric value at (row, col), ok=false when the cell is
// absent or textual.
func (g *Grid) Number(row int, col string) (float64, bool) {
	v, ok := g.cells[Ref{Row: row, Col: col}]
	if !ok || !v.IsNumber {
		return 0, false
	}
	return v.Number, true
}

// Textual returns the text value at (row, col), ok=false when the cell is
// absent or numeric.
func (g *Grid) Textual(row int, col string) (string, bool) {
	v, ok := g.cells[Ref{Row: row, Col: col}]
	if !ok || v.IsNumber {
		return "", false
	}
	return v.Text, true
}

// Rows returns the distinct populated row indices in ascending order.
func (g *Grid) Rows() []int {
	seen := make(map[int]bool)
	var rows []int
	for ref := range g.cells {
		if !seen[ref.Row] {
			seen[ref.Row] = true
			rows = append(rows, ref.Row)
		}
	}
	sort.Ints(rows)
	return rows
}

// Len returns the number of populated cells.
func (g *Grid) Len() int { return len(g.cells) }
