package game

import "errors"

var (
	ErrNotYourTurn      = errors.New("not your turn")
	ErrIllegalSelection = errors.New("illegal selection")
	ErrGameOver         = errors.New("game is over")
	ErrBotBusy          = errors.New("bot is already playing")
)
