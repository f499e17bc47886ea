package bot

import (
	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/rules"
)

// Candidate is a simple move or a capture being considered by a bot, with its score.
type Candidate struct {
	From     model.Position  `json:"from"`
	To       model.Position  `json:"to"`
	Captured *model.Position `json:"captured,omitempty"`
	Score    float64         `json:"score"`
}

func (c Candidate) IsCapture() bool {
	return c.Captured != nil
}

func (c Candidate) Capture() model.Capture {
	return model.Capture{From: c.From, Captured: *c.Captured, To: c.To}
}

func (c Candidate) Move() model.Move {
	return model.Move{From: c.From, To: c.To}
}

func fromCapture(c model.Capture) Candidate {
	captured := c.Captured
	return Candidate{From: c.From, To: c.To, Captured: &captured}
}

// captureCandidates flattens the capture maps of every piece of side found in cells.
func captureCandidates(b *model.Board, side model.Side, cells []*model.Cell) []Candidate {
	var out []Candidate
	for _, cell := range cells {
		if cell.Piece == nil || cell.Piece.Side != side {
			continue
		}
		out = append(out, pieceCaptureCandidates(b, cell.Position)...)
	}
	return out
}

func pieceCaptureCandidates(b *model.Board, pos model.Position) []Candidate {
	var out []Candidate
	for _, c := range rules.Captures(b, pos) {
		out = append(out, fromCapture(c))
	}
	return out
}

func moveCandidates(b *model.Board, side model.Side, cells []*model.Cell) []Candidate {
	var out []Candidate
	for _, cell := range cells {
		if cell.Piece == nil || cell.Piece.Side != side {
			continue
		}
		for _, to := range rules.GetSimpleMoves(b, cell.Position) {
			out = append(out, Candidate{From: cell.Position, To: to})
		}
	}
	return out
}
