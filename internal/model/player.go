package model

import "strings"

type ControllerKind string

const (
	HumanController ControllerKind = "human"
	BotController   ControllerKind = "bot"
)

// Difficulty selects the bot tier.
type Difficulty string

const (
	Low  Difficulty = "low"
	Mid  Difficulty = "mid"
	High Difficulty = "high"
)

// ParseDifficulty accepts low|mid|high and the easy|medium|hard aliases.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "easy":
		return Low, true
	case "mid", "medium":
		return Mid, true
	case "high", "hard":
		return High, true
	}
	return "", false
}

// Controller describes who plays a side.
type Controller struct {
	Kind       ControllerKind `json:"kind"`
	Difficulty Difficulty     `json:"difficulty,omitempty"`
}

func Human() Controller {
	return Controller{Kind: HumanController}
}

func Bot(d Difficulty) Controller {
	return Controller{Kind: BotController, Difficulty: d}
}

func (c Controller) IsBot() bool {
	return c.Kind == BotController
}

type ClientPlayer struct {
	Side       Side       `json:"side"`
	Controller Controller `json:"controller"`
	Score      int        `json:"score"`
	TimeUsed   int64      `json:"timeUsedMs"`
}
