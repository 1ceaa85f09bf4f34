package tetris

// Snapshot is a point-in-time copy of a game, safe to share between
// goroutines.
type Snapshot struct {
	Rows      int
	Cols      int
	Cells     []int
	Current   [4]Position
	CurrentID int
	Ghost     [4]Position
	NextID    int
	HeldID    int
	CanHold   bool
	Score     int
	GameOver  bool
}

// At returns the settled cell at (r, c).
func (s Snapshot) At(r, c int) int {
	if r < 0 || r >= s.Rows || c < 0 || c >= s.Cols {
		return IDEmpty
	}
	return s.Cells[r*s.Cols+c]
}

// MinCol returns the leftmost column of the current block.
func (s Snapshot) MinCol() int {
	col := s.Current[0].Col
	for _, p := range s.Current[1:] {
		col = min(col, p.Col)
	}
	return col
}

// Shape returns the tiles of block id in its spawn rotation, relative to the
// block origin. Used to draw the next and held previews.
func Shape(id int) [4]Position {
	if id < IDI || id > IDZ {
		return [4]Position{}
	}
	return shapes[id-1].rotations[0]
}
