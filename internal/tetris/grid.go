package tetris

// Grid is the playfield. Cell value 0 is empty, 1..7 are block ids.
type Grid struct {
	rows  int
	cols  int
	cells []int
}

// NewGrid creates an empty grid.
func NewGrid(rows, cols int) *Grid {
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]int, rows*cols),
	}
}

// Rows returns the number of rows, hidden spawn rows included.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// At returns the cell at (r, c).
func (g *Grid) At(r, c int) int {
	return g.cells[r*g.cols+c]
}

// Set writes the cell at (r, c).
func (g *Grid) Set(r, c, id int) {
	g.cells[r*g.cols+c] = id
}

// IsInside reports whether (r, c) lies on the grid.
func (g *Grid) IsInside(r, c int) bool {
	return r >= 0 && r < g.rows && c >= 0 && c < g.cols
}

// IsEmpty reports whether (r, c) is on the grid and free.
func (g *Grid) IsEmpty(r, c int) bool {
	return g.IsInside(r, c) && g.At(r, c) == 0
}

// IsRowFull reports whether every cell of row r is occupied.
func (g *Grid) IsRowFull(r int) bool {
	for c := 0; c < g.cols; c++ {
		if g.At(r, c) == 0 {
			return false
		}
	}
	return true
}

// IsRowEmpty reports whether every cell of row r is free.
func (g *Grid) IsRowEmpty(r int) bool {
	for c := 0; c < g.cols; c++ {
		if g.At(r, c) != 0 {
			return false
		}
	}
	return true
}

// ClearFullRows removes full rows, shifts the rows above down, and returns
// how many were removed.
func (g *Grid) ClearFullRows() int {
	cleared := 0
	for r := g.rows - 1; r >= 0; r-- {
		switch {
		case g.IsRowFull(r):
			g.clearRow(r)
			cleared++
		case cleared > 0:
			g.moveRowDown(r, cleared)
		}
	}
	return cleared
}

func (g *Grid) clearRow(r int) {
	clear(g.cells[r*g.cols : (r+1)*g.cols])
}

func (g *Grid) moveRowDown(r, n int) {
	copy(g.cells[(r+n)*g.cols:(r+n+1)*g.cols], g.cells[r*g.cols:(r+1)*g.cols])
	g.clearRow(r)
}

// Cells returns a copy of the grid in row-major order.
func (g *Grid) Cells() []int {
	out := make([]int, len(g.cells))
	copy(out, g.cells)
	return out
}
