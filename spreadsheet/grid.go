package spreadsheet

import "fmt"

// Grid owns the R×C arena of cells (C2). Cells are allocated once at
// construction time and never moved, so a *Cell pointer is a stable handle
// for the lifetime of the Grid: the dependency index, cycle detector, and
// recomputer all hold onto *Cell rather than re-resolving labels.
type Grid struct {
	rows, cols int
	cells      [][]*Cell
}

// NewGrid allocates an R×C grid. R and C must satisfy the engine's bounds
// (1..=999 rows, 1..=18278 columns); NewGrid returns an error for any
// dimension outside MaxRows/MaxCols, even though callers at the command
// layer normally validate them first.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows < 1 || rows > MaxRows {
		return nil, fmt.Errorf("spreadsheet: rows %d out of range 1..=%d", rows, MaxRows)
	}
	if cols < 1 || cols > MaxCols {
		return nil, fmt.Errorf("spreadsheet: cols %d out of range 1..=%d", cols, MaxCols)
	}
	g := &Grid{rows: rows, cols: cols}
	g.cells = make([][]*Cell, rows)
	for r := 0; r < rows; r++ {
		row := make([]*Cell, cols)
		for c := 0; c < cols; c++ {
			row[c] = newCell(r, c)
		}
		g.cells[r] = row
	}
	return g, nil
}

// Rows and Cols report the grid's dimensions.
func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether (row, col) is a valid 0-based coordinate.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// CellAt returns the cell at (row, col), or nil if out of bounds.
func (g *Grid) CellAt(row, col int) *Cell {
	if !g.InBounds(row, col) {
		return nil
	}
	return g.cells[row][col]
}

// bitmapIndex returns the flat R*C index used by the cycle detector's
// reusable visited bitmap and by the recomputer's per-call one.
func (g *Grid) bitmapIndex(c *Cell) int {
	return c.row*g.cols + c.col
}

// size returns R*C, the size of the reusable visited bitmap.
func (g *Grid) size() int {
	return g.rows * g.cols
}
