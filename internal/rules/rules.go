// Package rules implements draughts move generation, terminal-state detection
// and the executors that apply a chosen move to the board.
package rules

import "github.com/benbeisheim/checkers-backend/internal/model"

// GetSimpleMoves returns the empty destinations the piece on pos can step or slide to.
// An empty cell yields no moves.
func GetSimpleMoves(b *model.Board, pos model.Position) []model.Position {
	piece := b.PieceAt(pos)
	if piece == nil {
		return []model.Position{}
	}

	moves := []model.Position{}
	if piece.IsQueen() {
		for _, dir := range model.Diagonals {
			target := pos.Add(dir)
			for target.InBounds() && b.PieceAt(target) == nil {
				moves = append(moves, target)
				target = target.Add(dir)
			}
		}
		return moves
	}

	forward := piece.Side.Forward()
	for _, dx := range []int{-1, 1} {
		target := model.Position{X: pos.X + dx, Y: pos.Y + forward}
		if target.InBounds() && b.PieceAt(target) == nil {
			moves = append(moves, target)
		}
	}
	return moves
}

// Captures returns the captures available to the piece on pos in scan order.
func Captures(b *model.Board, pos model.Position) []model.Capture {
	piece := b.PieceAt(pos)
	if piece == nil {
		return nil
	}

	var captures []model.Capture
	for _, dir := range model.Diagonals {
		if piece.IsQueen() {
			captures = appendQueenCaptures(b, piece, pos, dir, captures)
			continue
		}
		jumped, landing := pos.Add(dir), pos.Step(dir, 2)
		if !landing.InBounds() {
			continue
		}
		if !piece.IsEnemyOf(b.PieceAt(jumped)) || b.PieceAt(landing) != nil {
			continue
		}
		captures = append(captures, model.Capture{From: pos, Captured: jumped, To: landing})
	}
	return captures
}

// appendQueenCaptures scans one direction: empty cells are skipped until the first
// occupant; an enemy there may be jumped onto any empty cell up to the next occupant.
func appendQueenCaptures(b *model.Board, queen *model.Piece, pos, dir model.Position, out []model.Capture) []model.Capture {
	var enemy *model.Position
	for target := pos.Add(dir); target.InBounds(); target = target.Add(dir) {
		occupant := b.PieceAt(target)
		if occupant != nil {
			if enemy != nil || !queen.IsEnemyOf(occupant) {
				break
			}
			jumped := target
			enemy = &jumped
			continue
		}
		if enemy != nil {
			out = append(out, model.Capture{From: pos, Captured: *enemy, To: target})
		}
	}
	return out
}

// GetCaptureMap returns the captures available to the piece on pos keyed by landing cell.
func GetCaptureMap(b *model.Board, pos model.Position) map[model.Position]model.Capture {
	captureMap := make(map[model.Position]model.Capture)
	for _, c := range Captures(b, pos) {
		captureMap[c.To] = c
	}
	return captureMap
}

// SideCaptureMap returns, for every piece of side that can capture, its capture map.
// Capture is mandatory for side whenever the result is non-empty.
func SideCaptureMap(b *model.Board, side model.Side) map[model.Position]map[model.Position]model.Capture {
	out := make(map[model.Position]map[model.Position]model.Capture)
	for _, cell := range b.Occupied(side) {
		if m := GetCaptureMap(b, cell.Position); len(m) > 0 {
			out[cell.Position] = m
		}
	}
	return out
}

// HasAnyAction reports whether side can capture or move with at least one piece.
func HasAnyAction(b *model.Board, side model.Side) bool {
	return hasAnyAction(b, b.Occupied(side))
}

func hasAnyAction(b *model.Board, cells []*model.Cell) bool {
	for _, cell := range cells {
		if len(Captures(b, cell.Position)) > 0 {
			return true
		}
		if len(GetSimpleMoves(b, cell.Position)) > 0 {
			return true
		}
	}
	return false
}

// CheckGameState recomputes the terminal state from every cell of the board.
// A side without pieces, or without any capture or move, loses. Draw is never
// produced here.
func CheckGameState(b *model.Board, cells []*model.Cell) model.GameState {
	var light, dark []*model.Cell
	for _, cell := range cells {
		if cell.Piece == nil {
			continue
		}
		switch cell.Piece.Side {
		case model.Light:
			light = append(light, cell)
		case model.Dark:
			dark = append(dark, cell)
		default:
			panic("rules: piece with undefined side at " + cell.Position.String())
		}
	}

	if len(light) == 0 {
		return model.DarkWins
	}
	if len(dark) == 0 {
		return model.LightWins
	}
	if !hasAnyAction(b, light) {
		return model.DarkWins
	}
	if !hasAnyAction(b, dark) {
		return model.LightWins
	}
	return model.InProgress
}
