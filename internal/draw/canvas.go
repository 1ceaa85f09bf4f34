package draw

import "unicode/utf8"

// Cell is one terminal cell.
type Cell struct {
	Ch    rune
	Color Color
}

var blank = Cell{Ch: BlockEmpty}

// Canvas is a grid of terminal cells. Render only emits cells that changed
// since the previous Render, so steady frames cost almost nothing over SSH.
type Canvas struct {
	width  int
	height int
	cells  []Cell // [row*width + col]
	prev   []Cell
	force  bool

	// 0-based terminal offsets used to center the canvas.
	offsetCol int
	offsetRow int
}

// NewCanvas creates a canvas of width x height terminal cells.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize reallocates the canvas when the dimensions change and forces a full
// redraw.
func (c *Canvas) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == c.width && height == c.height && c.cells != nil {
		return
	}
	c.width = width
	c.height = height
	c.cells = make([]Cell, width*height)
	c.prev = make([]Cell, width*height)
	c.Clear()
	c.force = true
}

// SetOffset sets the 0-based column and row offset of the canvas origin.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.force = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// Width returns the canvas width in cells.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in cells.
func (c *Canvas) Height() int { return c.height }

// ForceRedraw makes the next Render emit every cell.
func (c *Canvas) ForceRedraw() { c.force = true }

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = blank
	}
}

// Set writes one cell. col and row are 0-based; out-of-range writes are
// ignored.
func (c *Canvas) Set(col, row int, ch rune, color Color) {
	if col < 0 || col >= c.width || row < 0 || row >= c.height {
		return
	}
	c.cells[row*c.width+col] = Cell{Ch: ch, Color: color}
}

// At returns the cell at (col, row).
func (c *Canvas) At(col, row int) Cell {
	if col < 0 || col >= c.width || row < 0 || row >= c.height {
		return blank
	}
	return c.cells[row*c.width+col]
}

// Text writes s starting at (col, row) and returns the number of cells used.
func (c *Canvas) Text(col, row int, s string, color Color) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		c.Set(col+n, row, r, color)
		s = s[size:]
		n++
	}
	return n
}

// CenterText writes s centered on row.
func (c *Canvas) CenterText(row int, s string, color Color) {
	c.Text((c.width-utf8.RuneCountInString(s))/2, row, s, color)
}

// Box draws a single-line frame whose outer corners are (col, row) and
// (col+w-1, row+h-1).
func (c *Canvas) Box(col, row, w, h int, color Color) {
	if w < 2 || h < 2 {
		return
	}
	right, bottom := col+w-1, row+h-1
	for x := col + 1; x < right; x++ {
		c.Set(x, row, '─', color)
		c.Set(x, bottom, '─', color)
	}
	for y := row + 1; y < bottom; y++ {
		c.Set(col, y, '│', color)
		c.Set(right, y, '│', color)
	}
	c.Set(col, row, '┌', color)
	c.Set(right, row, '┐', color)
	c.Set(col, bottom, '└', color)
	c.Set(right, bottom, '┘', color)
}

// Render writes the changed cells to cw. Cursor moves are skipped for runs of
// adjacent cells and color codes are only emitted on color changes.
func (c *Canvas) Render(cw *ChunkWriter) {
	color := Color(255)
	for row := 0; row < c.height; row++ {
		nextCol := -1
		for col := 0; col < c.width; col++ {
			i := row*c.width + col
			cell := c.cells[i]
			if !c.force && cell == c.prev[i] {
				continue
			}
			if col != nextCol {
				cw.MoveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			}
			if cell.Color != color {
				cw.WriteString(cell.Color.SGR())
				color = cell.Color
			}
			cw.WriteRune(cell.Ch)
			nextCol = col + 1
		}
	}
	if color != Color(255) && color != ColorDefault {
		cw.WriteString(ColorDefault.SGR())
	}
	copy(c.prev, c.cells)
	c.force = false
}
