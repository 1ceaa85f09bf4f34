package tetris

// Position is a grid coordinate.
type Position struct {
	Row int
	Col int
}

// Block ids, also used as grid cell values.
const (
	IDEmpty = iota
	IDI
	IDJ
	IDL
	IDO
	IDS
	IDT
	IDZ
)

// NumBlocks is the number of distinct blocks.
const NumBlocks = 7

type shape struct {
	id        int
	rotations [4][4]Position
	start     Position
}

var shapes = [NumBlocks]shape{
	{
		id: IDI,
		rotations: [4][4]Position{
			{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
			{{0, 2}, {1, 2}, {2, 2}, {3, 2}},
			{{2, 0}, {2, 1}, {2, 2}, {2, 3}},
			{{0, 1}, {1, 1}, {2, 1}, {3, 1}},
		},
		start: Position{-1, 3},
	},
	{
		id: IDJ,
		rotations: [4][4]Position{
			{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
			{{0, 1}, {0, 2}, {1, 1}, {2, 1}},
			{{1, 0}, {1, 1}, {1, 2}, {2, 2}},
			{{0, 1}, {1, 1}, {2, 1}, {2, 0}},
		},
		start: Position{0, 3},
	},
	{
		id: IDL,
		rotations: [4][4]Position{
			{{0, 2}, {1, 0}, {1, 1}, {1, 2}},
			{{0, 1}, {1, 1}, {2, 1}, {2, 2}},
			{{1, 0}, {1, 1}, {1, 2}, {2, 0}},
			{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		},
		start: Position{0, 3},
	},
	{
		id: IDO,
		rotations: [4][4]Position{
			{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
			{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
			{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
			{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		},
		start: Position{0, 4},
	},
	{
		id: IDS,
		rotations: [4][4]Position{
			{{0, 1}, {0, 2}, {1, 0}, {1, 1}},
			{{0, 1}, {1, 1}, {1, 2}, {2, 2}},
			{{1, 1}, {1, 2}, {2, 0}, {2, 1}},
			{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		},
		start: Position{0, 3},
	},
	{
		id: IDT,
		rotations: [4][4]Position{
			{{0, 1}, {1, 0}, {1, 1}, {1, 2}},
			{{0, 1}, {1, 1}, {1, 2}, {2, 1}},
			{{1, 0}, {1, 1}, {1, 2}, {2, 1}},
			{{0, 1}, {1, 0}, {1, 1}, {2, 1}},
		},
		start: Position{0, 3},
	},
	{
		id: IDZ,
		rotations: [4][4]Position{
			{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
			{{0, 2}, {1, 1}, {1, 2}, {2, 1}},
			{{1, 0}, {1, 1}, {2, 1}, {2, 2}},
			{{0, 1}, {1, 0}, {1, 1}, {2, 0}},
		},
		start: Position{0, 3},
	},
}

// Block is a piece with its rotation state and grid offset.
type Block struct {
	shape    *shape
	rotation int
	offset   Position
}

// NewBlock returns the block with the given id (IDI..IDZ) at its spawn offset.
func NewBlock(id int) Block {
	b := Block{shape: &shapes[id-1]}
	b.Reset()
	return b
}

// ID returns the block id.
func (b Block) ID() int {
	return b.shape.id
}

// Tiles returns the grid positions the block occupies.
func (b Block) Tiles() [4]Position {
	var out [4]Position
	for i, p := range b.shape.rotations[b.rotation] {
		out[i] = Position{Row: p.Row + b.offset.Row, Col: p.Col + b.offset.Col}
	}
	return out
}

// RotateCW turns the block clockwise.
func (b *Block) RotateCW() {
	b.rotation = (b.rotation + 1) % 4
}

// RotateCCW turns the block counter-clockwise.
func (b *Block) RotateCCW() {
	b.rotation = (b.rotation + 3) % 4
}

// Move shifts the block.
func (b *Block) Move(rows, cols int) {
	b.offset.Row += rows
	b.offset.Col += cols
}

// Reset restores the spawn rotation and offset.
func (b *Block) Reset() {
	b.rotation = 0
	b.offset = b.shape.start
}
