// Package tetris holds the falling-block game state: grid, blocks, queue,
// hold slot and score.
package tetris

import (
	"math/rand/v2"
	"time"
)

// Grid dimensions. The top two rows are hidden spawn rows.
const (
	Rows       = 22
	Cols       = 10
	HiddenRows = 2
)

// Game is a single game session. It is not safe for concurrent use; the
// server goroutine owns it.
type Game struct {
	grid    *Grid
	queue   *Queue
	current Block
	held    Block
	hasHeld bool
	canHold bool
	score   int
	over    bool
}

// NewGame starts a game. A nil rng is seeded from the clock.
func NewGame(rng *rand.Rand) *Game {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	g := &Game{
		grid:    NewGrid(Rows, Cols),
		queue:   NewQueue(rng),
		canHold: true,
	}
	g.setCurrent(g.queue.Take())
	return g
}

// NewSeededGame starts a game with a deterministic block sequence.
func NewSeededGame(seed uint64) *Game {
	return NewGame(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func (g *Game) setCurrent(b Block) {
	b.Reset()
	g.current = b
	for i := 0; i < 2; i++ {
		g.current.Move(1, 0)
		if !g.fits() {
			g.current.Move(-1, 0)
		}
	}
}

func (g *Game) fits() bool {
	for _, p := range g.current.Tiles() {
		if !g.grid.IsEmpty(p.Row, p.Col) {
			return false
		}
	}
	return true
}

// GameOver reports whether the game has ended.
func (g *Game) GameOver() bool { return g.over }

// Score returns the number of cleared rows.
func (g *Game) Score() int { return g.score }

// RotateCW rotates the current block clockwise if it fits.
func (g *Game) RotateCW() {
	if g.over {
		return
	}
	g.current.RotateCW()
	if !g.fits() {
		g.current.RotateCCW()
	}
}

// RotateCCW rotates the current block counter-clockwise if it fits.
func (g *Game) RotateCCW() {
	if g.over {
		return
	}
	g.current.RotateCCW()
	if !g.fits() {
		g.current.RotateCW()
	}
}

// MoveLeft shifts the current block one column left if it fits.
func (g *Game) MoveLeft() { g.shift(0, -1) }

// MoveRight shifts the current block one column right if it fits.
func (g *Game) MoveRight() { g.shift(0, 1) }

func (g *Game) shift(rows, cols int) bool {
	if g.over {
		return false
	}
	g.current.Move(rows, cols)
	if !g.fits() {
		g.current.Move(-rows, -cols)
		return false
	}
	return true
}

// MoveDown lowers the current block one row, placing it when it cannot move.
func (g *Game) MoveDown() {
	if g.over {
		return
	}
	if !g.shift(1, 0) {
		g.place()
	}
}

// Drop moves the current block as far down as it goes and places it.
func (g *Game) Drop() {
	if g.over {
		return
	}
	g.current.Move(g.DropDistance(), 0)
	g.place()
}

// Hold swaps the current block with the held one. Allowed once per placed
// block.
func (g *Game) Hold() {
	if g.over || !g.canHold {
		return
	}
	if !g.hasHeld {
		g.held = g.current
		g.hasHeld = true
		g.setCurrent(g.queue.Take())
	} else {
		g.held, g.current = g.current, g.held
		g.setCurrent(g.current)
	}
	g.canHold = false
}

// DropDistance returns how many rows the current block can fall.
func (g *Game) DropDistance() int {
	dist := g.grid.Rows()
	for _, p := range g.current.Tiles() {
		d := 0
		for g.grid.IsEmpty(p.Row+d+1, p.Col) {
			d++
		}
		dist = min(dist, d)
	}
	return dist
}

func (g *Game) place() {
	for _, p := range g.current.Tiles() {
		g.grid.Set(p.Row, p.Col, g.current.ID())
	}
	g.score += g.grid.ClearFullRows()

	for r := 0; r < HiddenRows; r++ {
		if !g.grid.IsRowEmpty(r) {
			g.over = true
			return
		}
	}
	g.setCurrent(g.queue.Take())
	g.canHold = true
}

// Snapshot returns an immutable copy of the visible state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Rows:      g.grid.Rows(),
		Cols:      g.grid.Cols(),
		Cells:     g.grid.Cells(),
		Current:   g.current.Tiles(),
		CurrentID: g.current.ID(),
		NextID:    g.queue.Next().ID(),
		CanHold:   g.canHold,
		Score:     g.score,
		GameOver:  g.over,
	}
	drop := g.DropDistance()
	for i, p := range s.Current {
		s.Ghost[i] = Position{Row: p.Row + drop, Col: p.Col}
	}
	if g.hasHeld {
		s.HeldID = g.held.ID()
	}
	return s
}
