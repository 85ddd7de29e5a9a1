package spreadsheet

import (
	"fmt"
	"strings"
)

const viewportSpan = 10

// Scroll moves the viewport origin in blocks of 10, saturating at grid
// edges. dir is one of "w","a","s","d".
func (e *Engine) Scroll(dir string) {
	rows, cols := e.Grid.Rows(), e.Grid.Cols()
	switch dir {
	case "w":
		e.StartRow -= viewportSpan
		if e.StartRow < 0 {
			e.StartRow = 0
		}
	case "s":
		e.StartRow += viewportSpan
		if max := rows - viewportSpan; e.StartRow > max {
			if max < 0 {
				max = 0
			}
			e.StartRow = max
		}
	case "a":
		e.StartCol -= viewportSpan
		if e.StartCol < 0 {
			e.StartCol = 0
		}
	case "d":
		e.StartCol += viewportSpan
		if max := cols - viewportSpan; e.StartCol > max {
			if max < 0 {
				max = 0
			}
			e.StartCol = max
		}
	}
}

// ScrollTo sets the viewport origin to the cell named by label.
func (e *Engine) ScrollTo(label string) bool {
	row, col, err := ParseLabel(label)
	if err != nil || !e.Grid.InBounds(row, col) {
		return false
	}
	e.StartRow, e.StartCol = row, col
	return true
}

// RenderViewport prints the 10×10 window anchored at (StartRow, StartCol):
// a header row of column labels, a leading column of 1-based row numbers,
// tab-separated, with "ERR" for tainted cells.
func (e *Engine) RenderViewport(w *strings.Builder) {
	rows, cols := e.Grid.Rows(), e.Grid.Cols()

	fmt.Fprint(w, "\t")
	for c := e.StartCol; c < e.StartCol+viewportSpan && c < cols; c++ {
		fmt.Fprintf(w, "%s\t", FormatCol(c))
	}
	fmt.Fprint(w, "\n")

	for r := e.StartRow; r < e.StartRow+viewportSpan && r < rows; r++ {
		fmt.Fprintf(w, "%d\t", r+1)
		for c := e.StartCol; c < e.StartCol+viewportSpan && c < cols; c++ {
			cell := e.Grid.CellAt(r, c)
			if cell.Status == StatusErr {
				fmt.Fprint(w, "ERR\t")
			} else {
				fmt.Fprintf(w, "%d\t", cell.Value)
			}
		}
		fmt.Fprint(w, "\n")
	}
}
