package rules

import (
	"fmt"

	"github.com/benbeisheim/checkers-backend/internal/model"
)

// CaptureResult reports what an executed capture removed from the game.
type CaptureResult struct {
	Removed  model.Piece
	Promoted bool
}

// LosingSide is the side that lost a piece, for scorekeeping.
func (r CaptureResult) LosingSide() model.Side {
	return r.Removed.Side
}

// ExecuteSimpleMove relocates the piece on from to to and checks promotion.
// It reports whether the piece was promoted.
func ExecuteSimpleMove(b *model.Board, from, to model.Position) bool {
	b.Relocate(from, to)
	return Promote(b, to)
}

// ExecuteCapture relocates the piece on from to to, removes the piece on captured
// permanently and checks promotion.
func ExecuteCapture(b *model.Board, from, captured, to model.Position) CaptureResult {
	mover := b.PieceAt(from)
	victim := b.PieceAt(captured)
	if mover == nil || victim == nil || !mover.IsEnemyOf(victim) {
		panic(fmt.Sprintf("rules: invalid capture %v x %v -> %v", from, captured, to))
	}

	b.Relocate(from, to)
	removed := b.Remove(captured)
	return CaptureResult{
		Removed:  *removed,
		Promoted: Promote(b, to),
	}
}

// Promote turns the man on pos into a queen if it stands on its promotion row.
// Queens are left untouched.
func Promote(b *model.Board, pos model.Position) bool {
	piece := b.PieceAt(pos)
	if piece == nil || piece.IsQueen() {
		return false
	}
	if pos.Y != piece.Side.PromotionRow() {
		return false
	}
	piece.Rank = model.Queen
	return true
}
