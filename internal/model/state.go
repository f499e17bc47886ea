package model

// GameState is recomputed from the whole board after every turn.
type GameState string

const (
	InProgress GameState = "inProgress"
	LightWins  GameState = "lightWins"
	DarkWins   GameState = "darkWins"
	Draw       GameState = "draw"
)

// WinFor returns the winning state for side.
func WinFor(side Side) GameState {
	if side == Light {
		return LightWins
	}
	return DarkWins
}

func (s GameState) Over() bool {
	return s != InProgress
}

// Winner reports the winning side, if any.
func (s GameState) Winner() (Side, bool) {
	switch s {
	case LightWins:
		return Light, true
	case DarkWins:
		return Dark, true
	}
	return "", false
}
