package model

import "image"

// Region is a rectangular area of a page that likely contains a table,
// together with the cropped sub-image. Produced by region detection and
// consumed (then discarded) by grid resolution.
type Region struct {
	X, Y, W, H int
	Image      image.Image
}

// Bounds returns the region rectangle in page coordinates.
func (r Region) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Area returns the region's area in pixels.
func (r Region) Area() int {
	return r.W * r.H
}

// GridStructure holds resolved row and column boundary positions within a
// region. Boundaries are monotonically increasing and lie within region
// bounds. At least two boundaries per axis, so the grid always defines at
// least one cell.
type GridStructure struct {
	RowBounds []int
	ColBounds []int
}

// RowCount returns the number of cell rows the boundaries define.
func (g GridStructure) RowCount() int {
	if len(g.RowBounds) < 2 {
		return 0
	}
	return len(g.RowBounds) - 1
}

// ColCount returns the number of cell columns the boundaries define.
func (g GridStructure) ColCount() int {
	if len(g.ColBounds) < 2 {
		return 0
	}
	return len(g.ColBounds) - 1
}

// CellRect returns the sub-image rectangle of the cell at (row, col),
// or false if the indices are out of range.
func (g GridStructure) CellRect(row, col int) (image.Rectangle, bool) {
	if row < 0 || row >= g.RowCount() || col < 0 || col >= g.ColCount() {
		return image.Rectangle{}, false
	}
	return image.Rect(g.ColBounds[col], g.RowBounds[row], g.ColBounds[col+1], g.RowBounds[row+1]), true
}

// RawTableRow holds the extracted cell texts of one table row in
// left-to-right column order. Row 0 of a table is treated as a probable
// header by the assembler.
type RawTableRow []string
