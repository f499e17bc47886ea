package rules

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/checkers-backend/internal/model"
)

func pos(x, y int) model.Position {
	return model.Position{X: x, Y: y}
}

func man(side model.Side) *model.Piece {
	return &model.Piece{Side: side, Rank: model.Man}
}

func queen(side model.Side) *model.Piece {
	return &model.Piece{Side: side, Rank: model.Queen}
}

func boardWith(pieces map[model.Position]*model.Piece) *model.Board {
	b := model.NewBoard()
	for p, pc := range pieces {
		b.Place(p, pc)
	}
	return b
}

var sortPositions = cmpopts.SortSlices(func(a, b model.Position) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
})

func TestGetSimpleMovesMan(t *testing.T) {
	tests := []struct {
		name   string
		pieces map[model.Position]*model.Piece
		from   model.Position
		want   []model.Position
	}{
		{
			name:   "light man moves toward higher rows",
			pieces: map[model.Position]*model.Piece{pos(3, 2): man(model.Light)},
			from:   pos(3, 2),
			want:   []model.Position{pos(2, 3), pos(4, 3)},
		},
		{
			name:   "dark man moves toward lower rows",
			pieces: map[model.Position]*model.Piece{pos(3, 5): man(model.Dark)},
			from:   pos(3, 5),
			want:   []model.Position{pos(2, 4), pos(4, 4)},
		},
		{
			name:   "edge drops the out of bounds option",
			pieces: map[model.Position]*model.Piece{pos(0, 2): man(model.Light)},
			from:   pos(0, 2),
			want:   []model.Position{pos(1, 3)},
		},
		{
			name: "blocked by own pieces",
			pieces: map[model.Position]*model.Piece{
				pos(3, 2): man(model.Light),
				pos(2, 3): man(model.Light),
				pos(4, 3): man(model.Light),
			},
			from: pos(3, 2),
			want: []model.Position{},
		},
		{
			name:   "man on far rank has no forward moves",
			pieces: map[model.Position]*model.Piece{pos(1, 7): man(model.Light)},
			from:   pos(1, 7),
			want:   []model.Position{},
		},
		{
			name: "enemy in front is not a destination",
			pieces: map[model.Position]*model.Piece{
				pos(3, 2): man(model.Light),
				pos(4, 3): man(model.Dark),
			},
			from: pos(3, 2),
			want: []model.Position{pos(2, 3)},
		},
		{
			name: "empty cell yields nothing",
			from: pos(3, 3),
			want: []model.Position{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardWith(tt.pieces)
			got := GetSimpleMoves(b, tt.from)
			if diff := cmp.Diff(tt.want, got, sortPositions); diff != "" {
				t.Errorf("GetSimpleMoves mismatch (-want +got):\n%s\nboard: %s", diff, spew.Sdump(b.Grid()))
			}
		})
	}
}

func TestGetSimpleMovesQueenEmptyBoard(t *testing.T) {
	for y := 0; y < model.BoardSize; y++ {
		for x := 0; x < model.BoardSize; x++ {
			if (x+y)%2 != 0 {
				continue
			}
			b := boardWith(map[model.Position]*model.Piece{pos(x, y): queen(model.Dark)})
			last := model.BoardSize - 1
			want := min(x, y) + min(last-x, y) + min(x, last-y) + min(last-x, last-y)
			assert.Len(t, GetSimpleMoves(b, pos(x, y)), want, "queen at (%d,%d)", x, y)
		}
	}
}

func TestGetSimpleMovesQueenStopsBeforeBlocker(t *testing.T) {
	b := boardWith(map[model.Position]*model.Piece{
		pos(3, 3): queen(model.Light),
		pos(5, 5): man(model.Light),
		pos(1, 1): man(model.Dark),
	})

	moves := GetSimpleMoves(b, pos(3, 3))

	assert.Contains(t, moves, pos(4, 4))
	assert.NotContains(t, moves, pos(5, 5))
	assert.NotContains(t, moves, pos(6, 6))
	assert.Contains(t, moves, pos(2, 2))
	assert.NotContains(t, moves, pos(1, 1))
	assert.NotContains(t, moves, pos(0, 0))
	for _, m := range moves {
		assert.Nil(t, b.PieceAt(m), "destination %v occupied", m)
	}
}

func TestGetCaptureMapMan(t *testing.T) {
	t.Run("single forward capture", func(t *testing.T) {
		b := boardWith(map[model.Position]*model.Piece{
			pos(3, 2): man(model.Light),
			pos(4, 3): man(model.Dark),
		})

		got := GetCaptureMap(b, pos(3, 2))

		want := map[model.Position]model.Capture{
			pos(5, 4): {From: pos(3, 2), Captured: pos(4, 3), To: pos(5, 4)},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("GetCaptureMap mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("men capture backward too", func(t *testing.T) {
		b := boardWith(map[model.Position]*model.Piece{
			pos(3, 3): man(model.Light),
			pos(4, 4): man(model.Dark),
			pos(2, 2): man(model.Dark),
		})

		got := GetCaptureMap(b, pos(3, 3))

		require.Len(t, got, 2)
		assert.Equal(t, pos(2, 2), got[pos(1, 1)].Captured)
		assert.Equal(t, pos(4, 4), got[pos(5, 5)].Captured)
	})

	t.Run("occupied landing blocks capture", func(t *testing.T) {
		b := boardWith(map[model.Position]*model.Piece{
			pos(3, 2): man(model.Light),
			pos(4, 3): man(model.Dark),
			pos(5, 4): man(model.Light),
		})
		assert.Empty(t, GetCaptureMap(b, pos(3, 2)))
	})

	t.Run("own piece cannot be captured", func(t *testing.T) {
		b := boardWith(map[model.Position]*model.Piece{
			pos(3, 2): man(model.Light),
			pos(4, 3): man(model.Light),
		})
		assert.Empty(t, GetCaptureMap(b, pos(3, 2)))
	})

	t.Run("landing off board", func(t *testing.T) {
		b := boardWith(map[model.Position]*model.Piece{
			pos(6, 6): man(model.Light),
			pos(7, 7): man(model.Dark),
		})
		assert.Empty(t, GetCaptureMap(b, pos(6, 6)))
	})

	t.Run("empty cell", func(t *testing.T) {
		assert.Empty(t, GetCaptureMap(model.NewBoard(), pos(4, 4)))
	})
}

func TestGetCaptureMapQueen(t *testing.T) {
	t.Run("second enemy blocks further landing", func(t *testing.T) {
		b := boardWith(map[model.Position]*model.Piece{
			pos(1, 1): queen(model.Light),
			pos(3, 3): man(model.Dark),
			pos(5, 5): man(model.Dark),
		})

		got := GetCaptureMap(b, pos(1, 1))

		want := map[model.Position]model.Capture{
			pos(4, 4): {From: pos(1, 1), Captured: pos(3, 3), To: pos(4, 4)},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("GetCaptureMap mismatch (-want +got):\n%s", diff)
		}
		assert.NotContains(t, got, pos(6, 6))
	})

	t.Run("every empty cell past the enemy is a landing", func(t *testing.T) {
		b := boardWith(map[model.Position]*model.Piece{
			pos(0, 0): queen(model.Dark),
			pos(2, 2): man(model.Light),
		})

		got := GetCaptureMap(b, pos(0, 0))

		require.Len(t, got, 5)
		for _, landing := range []model.Position{pos(3, 3), pos(4, 4), pos(5, 5), pos(6, 6), pos(7, 7)} {
			c, ok := got[landing]
			require.True(t, ok, "missing landing %v", landing)
			assert.Equal(t, pos(2, 2), c.Captured)
			assert.Equal(t, pos(0, 0), c.From)
		}
	})

	t.Run("friendly first occupant stops the scan", func(t *testing.T) {
		b := boardWith(map[model.Position]*model.Piece{
			pos(0, 0): queen(model.Dark),
			pos(2, 2): man(model.Dark),
			pos(4, 4): man(model.Light),
		})
		assert.Empty(t, GetCaptureMap(b, pos(0, 0)))
	})

	t.Run("adjacent enemies leave no landing", func(t *testing.T) {
		b := boardWith(map[model.Position]*model.Piece{
			pos(0, 0): queen(model.Light),
			pos(2, 2): man(model.Dark),
			pos(3, 3): man(model.Dark),
		})
		assert.Empty(t, GetCaptureMap(b, pos(0, 0)))
	})
}

func TestCaptureMapInvariants(t *testing.T) {
	b := model.NewStandardBoard()
	// open the centre so both sides have contact
	b.Relocate(pos(2, 2), pos(3, 3))
	b.Relocate(pos(5, 5), pos(4, 4))
	b.Place(pos(6, 2), queen(model.Dark))
	b.Remove(pos(7, 1))

	for _, c := range b.Cells() {
		if c.Piece == nil {
			continue
		}
		for landing, capture := range GetCaptureMap(b, c.Position) {
			assert.Nil(t, b.PieceAt(landing), "landing %v occupied", landing)
			victim := b.PieceAt(capture.Captured)
			require.NotNil(t, victim, "captured cell %v empty", capture.Captured)
			assert.NotEqual(t, c.Piece.Side, victim.Side, "friendly capture from %v", c.Position)
		}
	}
}

func TestSideCaptureMap(t *testing.T) {
	b := boardWith(map[model.Position]*model.Piece{
		pos(3, 2): man(model.Light),
		pos(4, 3): man(model.Dark),
		pos(0, 0): man(model.Light),
	})

	light := SideCaptureMap(b, model.Light)
	require.Len(t, light, 1)
	assert.Contains(t, light, pos(3, 2))

	dark := SideCaptureMap(b, model.Dark)
	require.Len(t, dark, 1)
	assert.Equal(t, pos(3, 2), dark[pos(4, 3)][pos(2, 1)].Captured)
}

func TestCheckGameState(t *testing.T) {
	tests := []struct {
		name   string
		pieces map[model.Position]*model.Piece
		want   model.GameState
	}{
		{
			name:   "only dark pieces remain",
			pieces: map[model.Position]*model.Piece{pos(3, 5): man(model.Dark), pos(1, 7): queen(model.Dark)},
			want:   model.DarkWins,
		},
		{
			name:   "only light pieces remain",
			pieces: map[model.Position]*model.Piece{pos(3, 3): man(model.Light)},
			want:   model.LightWins,
		},
		{
			name: "light blocked with pieces on board",
			pieces: map[model.Position]*model.Piece{
				pos(0, 6): man(model.Light),
				pos(1, 7): man(model.Dark),
				pos(4, 4): man(model.Dark),
			},
			want: model.DarkWins,
		},
		{
			name: "dark blocked with pieces on board",
			pieces: map[model.Position]*model.Piece{
				pos(0, 0): man(model.Dark),
				pos(5, 5): man(model.Light),
			},
			want: model.LightWins,
		},
		{
			name: "blocked man that can capture is not stuck",
			pieces: map[model.Position]*model.Piece{
				pos(2, 2): man(model.Dark),
				pos(1, 1): man(model.Light),
				pos(3, 1): man(model.Light),
			},
			want: model.InProgress,
		},
		{
			name: "both sides mobile",
			pieces: map[model.Position]*model.Piece{
				pos(2, 2): man(model.Light),
				pos(5, 5): man(model.Dark),
			},
			want: model.InProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardWith(tt.pieces)
			assert.Equal(t, tt.want, CheckGameState(b, b.Cells()))
		})
	}
}

func TestCheckGameStateStartingPosition(t *testing.T) {
	b := model.NewStandardBoard()
	assert.Equal(t, model.InProgress, CheckGameState(b, b.Cells()))
	assert.True(t, HasAnyAction(b, model.Light))
	assert.Empty(t, SideCaptureMap(b, model.Light))
}

func TestCheckGameStatePanicsOnUndefinedSide(t *testing.T) {
	b := boardWith(map[model.Position]*model.Piece{pos(2, 2): {Rank: model.Man}})
	assert.Panics(t, func() { CheckGameState(b, b.Cells()) })
}
