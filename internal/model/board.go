package model

import "fmt"

// BoardSize is the number of rows and columns on the board.
const BoardSize = 8

type Side string

const (
	Light Side = "light"
	Dark  Side = "dark"
)

func (s Side) Opponent() Side {
	switch s {
	case Light:
		return Dark
	case Dark:
		return Light
	}
	panic(fmt.Sprintf("model: undefined side %q", string(s)))
}

// Forward is the row delta of a simple move for a man of this side.
func (s Side) Forward() int {
	switch s {
	case Light:
		return 1
	case Dark:
		return -1
	}
	panic(fmt.Sprintf("model: undefined side %q", string(s)))
}

// PromotionRow is the far rank a man of this side must reach to become a queen.
func (s Side) PromotionRow() int {
	if s.Forward() > 0 {
		return BoardSize - 1
	}
	return 0
}

// HomeRow is the back rank this side starts from.
func (s Side) HomeRow() int {
	return BoardSize - 1 - s.PromotionRow()
}

func ParseSide(s string) (Side, bool) {
	switch Side(s) {
	case Light, Dark:
		return Side(s), true
	}
	return "", false
}

type Rank string

const (
	Man   Rank = "man"
	Queen Rank = "queen"
)

type Piece struct {
	Side Side `json:"side"`
	Rank Rank `json:"rank"`
}

func (p *Piece) IsQueen() bool {
	return p.Rank == Queen
}

func (p *Piece) IsEnemyOf(other *Piece) bool {
	return other != nil && p.Side != other.Side
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Diagonals lists the four diagonal directions in scan order.
var Diagonals = []Position{{X: -1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: -1}}

func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

func (p Position) Step(d Position, n int) Position {
	return Position{X: p.X + d.X*n, Y: p.Y + d.Y*n}
}

func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < BoardSize && p.Y >= 0 && p.Y < BoardSize
}

// Playable reports whether the cell colour is the one pieces live on.
func (p Position) Playable() bool {
	return (p.X+p.Y)%2 == 0
}

func (p Position) Notation() string {
	return fmt.Sprintf("%c%d", p.X+'a', p.Y+1)
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func (p Position) index() int {
	return p.Y*BoardSize + p.X
}

// Cell is created once with the board; only its occupant changes.
type Cell struct {
	Position Position `json:"position"`
	Piece    *Piece   `json:"piece"`
}

func (c *Cell) Empty() bool {
	return c.Piece == nil
}

func (c *Cell) Playable() bool {
	return c.Position.Playable()
}

// Board is a flat arena of cells indexed by y*BoardSize+x.
type Board struct {
	cells [BoardSize * BoardSize]Cell
}

func NewBoard() *Board {
	b := &Board{}
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			pos := Position{X: x, Y: y}
			b.cells[pos.index()].Position = pos
		}
	}
	return b
}

// NewStandardBoard returns a board with twelve men per side in their starting cells.
func NewStandardBoard() *Board {
	b := NewBoard()
	b.Setup()
	return b
}

// Setup clears the board and places both sides on their first three rows.
func (b *Board) Setup() {
	for i := range b.cells {
		b.cells[i].Piece = nil
	}
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			pos := Position{X: x, Y: y}
			if !pos.Playable() {
				continue
			}
			switch {
			case y < 3:
				b.cells[pos.index()].Piece = &Piece{Side: Light, Rank: Man}
			case y > BoardSize-4:
				b.cells[pos.index()].Piece = &Piece{Side: Dark, Rank: Man}
			}
		}
	}
}

// At returns the cell at p. Out-of-bounds access is a programming error.
func (b *Board) At(p Position) *Cell {
	if !p.InBounds() {
		panic(fmt.Sprintf("model: position %v out of bounds", p))
	}
	return &b.cells[p.index()]
}

// Lookup is the non-panicking variant of At for externally supplied positions.
func (b *Board) Lookup(p Position) (*Cell, bool) {
	if !p.InBounds() {
		return nil, false
	}
	return &b.cells[p.index()], true
}

func (b *Board) PieceAt(p Position) *Piece {
	return b.At(p).Piece
}

// Place puts piece on p, replacing any occupant. Used for setup and tests.
func (b *Board) Place(p Position, piece *Piece) {
	b.At(p).Piece = piece
}

// Relocate transfers the occupant of from to the empty cell to.
func (b *Board) Relocate(from, to Position) *Piece {
	src, dst := b.At(from), b.At(to)
	if src.Piece == nil {
		panic(fmt.Sprintf("model: relocate from empty cell %v", from))
	}
	if dst.Piece != nil {
		panic(fmt.Sprintf("model: relocate onto occupied cell %v", to))
	}
	dst.Piece, src.Piece = src.Piece, nil
	return dst.Piece
}

// Remove clears p and returns the piece that was there.
func (b *Board) Remove(p Position) *Piece {
	c := b.At(p)
	piece := c.Piece
	c.Piece = nil
	return piece
}

// Cells returns every cell in row-major order.
func (b *Board) Cells() []*Cell {
	out := make([]*Cell, len(b.cells))
	for i := range b.cells {
		out[i] = &b.cells[i]
	}
	return out
}

// Occupied returns the cells holding a piece of side, in row-major order.
func (b *Board) Occupied(side Side) []*Cell {
	var out []*Cell
	for i := range b.cells {
		if pc := b.cells[i].Piece; pc != nil && pc.Side == side {
			out = append(out, &b.cells[i])
		}
	}
	return out
}

// Count returns the number of men and queens side has on the board.
func (b *Board) Count(side Side) (men, queens int) {
	for i := range b.cells {
		pc := b.cells[i].Piece
		if pc == nil || pc.Side != side {
			continue
		}
		if pc.IsQueen() {
			queens++
		} else {
			men++
		}
	}
	return men, queens
}

// Grid returns a row-major copy of the occupants, indexed [y][x].
func (b *Board) Grid() [][]*Piece {
	grid := make([][]*Piece, BoardSize)
	for y := 0; y < BoardSize; y++ {
		grid[y] = make([]*Piece, BoardSize)
		for x := 0; x < BoardSize; x++ {
			if pc := b.cells[y*BoardSize+x].Piece; pc != nil {
				cp := *pc
				grid[y][x] = &cp
			}
		}
	}
	return grid
}
