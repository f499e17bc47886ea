package model

import "fmt"

// Move is a simple (non-capturing) move candidate.
type Move struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Capture is a capture candidate: the piece on From jumps Captured and lands on To.
type Capture struct {
	From     Position `json:"from"`
	Captured Position `json:"captured"`
	To       Position `json:"to"`
}

// Ply records one executed step of a turn. A multi-jump produces one Ply per jump.
type Ply struct {
	Side     Side      `json:"side"`
	From     Position  `json:"from"`
	To       Position  `json:"to"`
	Captured *Position `json:"captured"`
	Promoted bool      `json:"promoted"`
	Notation string    `json:"notation"`
}

func (p Ply) IsCapture() bool {
	return p.Captured != nil
}

// NewMovePly builds the history entry for an executed simple move.
func NewMovePly(side Side, m Move, promoted bool) Ply {
	return Ply{
		Side:     side,
		From:     m.From,
		To:       m.To,
		Promoted: promoted,
		Notation: notation(m.From, m.To, "-", promoted),
	}
}

// NewCapturePly builds the history entry for an executed capture.
func NewCapturePly(side Side, c Capture, promoted bool) Ply {
	captured := c.Captured
	return Ply{
		Side:     side,
		From:     c.From,
		To:       c.To,
		Captured: &captured,
		Promoted: promoted,
		Notation: notation(c.From, c.To, "x", promoted),
	}
}

func notation(from, to Position, sep string, promoted bool) string {
	n := fmt.Sprintf("%s%s%s", from.Notation(), sep, to.Notation())
	if promoted {
		n += "=Q"
	}
	return n
}
