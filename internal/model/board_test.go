package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	b := NewBoard()

	t.Run("all cells empty with fixed positions", func(t *testing.T) {
		cells := b.Cells()
		require.Len(t, cells, BoardSize*BoardSize)
		for i, c := range cells {
			assert.True(t, c.Empty(), "cell %v", c.Position)
			assert.Equal(t, Position{X: i % BoardSize, Y: i / BoardSize}, c.Position)
		}
	})

	t.Run("colour follows x+y parity", func(t *testing.T) {
		assert.True(t, b.At(Position{X: 0, Y: 0}).Playable())
		assert.False(t, b.At(Position{X: 1, Y: 0}).Playable())
		assert.True(t, b.At(Position{X: 3, Y: 5}).Playable())
	})
}

func TestSetup(t *testing.T) {
	b := NewStandardBoard()

	lightMen, lightQueens := b.Count(Light)
	darkMen, darkQueens := b.Count(Dark)
	assert.Equal(t, 12, lightMen)
	assert.Equal(t, 12, darkMen)
	assert.Zero(t, lightQueens)
	assert.Zero(t, darkQueens)

	for _, c := range b.Cells() {
		if c.Piece == nil {
			continue
		}
		assert.True(t, c.Playable(), "piece on unplayable cell %v", c.Position)
		switch c.Piece.Side {
		case Light:
			assert.Less(t, c.Position.Y, 3)
		case Dark:
			assert.Greater(t, c.Position.Y, 4)
		}
	}
}

func TestAtPanicsOutOfBounds(t *testing.T) {
	b := NewBoard()
	assert.Panics(t, func() { b.At(Position{X: 8, Y: 0}) })
	assert.Panics(t, func() { b.At(Position{X: 0, Y: -1}) })

	_, ok := b.Lookup(Position{X: -1, Y: 3})
	assert.False(t, ok)
	c, ok := b.Lookup(Position{X: 2, Y: 4})
	require.True(t, ok)
	assert.Equal(t, Position{X: 2, Y: 4}, c.Position)
}

func TestRelocateTransfersOwnership(t *testing.T) {
	b := NewBoard()
	piece := &Piece{Side: Light, Rank: Man}
	b.Place(Position{X: 2, Y: 2}, piece)

	moved := b.Relocate(Position{X: 2, Y: 2}, Position{X: 3, Y: 3})

	assert.Same(t, piece, moved)
	assert.Nil(t, b.PieceAt(Position{X: 2, Y: 2}))
	assert.Same(t, piece, b.PieceAt(Position{X: 3, Y: 3}))

	b.Place(Position{X: 4, Y: 4}, &Piece{Side: Dark, Rank: Man})
	assert.Panics(t, func() { b.Relocate(Position{X: 3, Y: 3}, Position{X: 4, Y: 4}) })
	assert.Panics(t, func() { b.Relocate(Position{X: 0, Y: 0}, Position{X: 1, Y: 1}) })
}

func TestGridIsACopy(t *testing.T) {
	b := NewBoard()
	b.Place(Position{X: 1, Y: 1}, &Piece{Side: Dark, Rank: Man})

	grid := b.Grid()
	require.NotNil(t, grid[1][1])
	grid[1][1].Rank = Queen

	assert.Equal(t, Man, b.PieceAt(Position{X: 1, Y: 1}).Rank)
}

func TestSideRows(t *testing.T) {
	assert.Equal(t, 1, Light.Forward())
	assert.Equal(t, -1, Dark.Forward())
	assert.Equal(t, 7, Light.PromotionRow())
	assert.Equal(t, 0, Dark.PromotionRow())
	assert.Equal(t, 0, Light.HomeRow())
	assert.Equal(t, 7, Dark.HomeRow())
	assert.Equal(t, Dark, Light.Opponent())
	assert.Panics(t, func() { Side("").Forward() })
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want Difficulty
		ok   bool
	}{
		{"easy", Low, true},
		{"Low", Low, true},
		{"medium", Mid, true},
		{"mid", Mid, true},
		{" hard ", High, true},
		{"high", High, true},
		{"impossible", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDifficulty(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlyNotation(t *testing.T) {
	move := NewMovePly(Light, Move{From: Position{X: 2, Y: 2}, To: Position{X: 3, Y: 3}}, false)
	assert.Equal(t, "c3-d4", move.Notation)
	assert.False(t, move.IsCapture())

	capture := NewCapturePly(Dark, Capture{
		From:     Position{X: 2, Y: 2},
		Captured: Position{X: 1, Y: 1},
		To:       Position{X: 0, Y: 0},
	}, true)
	assert.Equal(t, "c3xa1=Q", capture.Notation)
	require.True(t, capture.IsCapture())
	assert.Equal(t, Position{X: 1, Y: 1}, *capture.Captured)
}

func TestGameStateWinner(t *testing.T) {
	side, ok := WinFor(Dark).Winner()
	assert.True(t, ok)
	assert.Equal(t, Dark, side)
	_, ok = Draw.Winner()
	assert.False(t, ok)
	assert.True(t, Draw.Over())
	assert.False(t, InProgress.Over())
}

func TestClockAccumulates(t *testing.T) {
	now := time.Unix(0, 0)
	c := NewClock()
	c.now = func() time.Time { return now }

	c.Start()
	now = now.Add(2 * time.Second)
	assert.Equal(t, 2*time.Second, c.Used())
	c.Stop()

	now = now.Add(time.Minute)
	assert.Equal(t, 2*time.Second, c.Used())

	c.Start()
	now = now.Add(time.Second)
	c.Stop()
	assert.Equal(t, 3*time.Second, c.Used())
	assert.False(t, c.Running())
}
