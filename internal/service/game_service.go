package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/checkers-backend/internal/game"
	"github.com/benbeisheim/checkers-backend/internal/model"
)

var ErrInvalidRequest = errors.New("invalid request")

// Defaults fill in whatever a create request leaves out.
type Defaults struct {
	Difficulty    model.Difficulty
	BotDelay      time.Duration
	QuietPlyLimit int
	Seed          uint64
}

// CreateGameRequest picks the controller of each side. Empty fields mean a human
// Light against a bot Dark at the default difficulty.
type CreateGameRequest struct {
	Light      string `json:"light"`
	Dark       string `json:"dark"`
	Difficulty string `json:"difficulty"`
}

type GameService struct {
	gameManager *GameManager
	defaults    Defaults
}

func NewGameService(gameManager *GameManager, defaults Defaults) *GameService {
	return &GameService{
		gameManager: gameManager,
		defaults:    defaults,
	}
}

func (gs *GameService) CreateGame(playerID string, req CreateGameRequest) (string, error) {
	cfg, err := gs.gameConfig(req)
	if err != nil {
		return "", err
	}
	return gs.gameManager.CreateGame(playerID, cfg).ID, nil
}

func (gs *GameService) gameConfig(req CreateGameRequest) (game.Config, error) {
	difficulty := gs.defaults.Difficulty
	if req.Difficulty != "" {
		d, ok := model.ParseDifficulty(req.Difficulty)
		if !ok {
			return game.Config{}, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidRequest, req.Difficulty)
		}
		difficulty = d
	}

	light, err := parseController(req.Light, model.HumanController, difficulty)
	if err != nil {
		return game.Config{}, err
	}
	dark, err := parseController(req.Dark, model.BotController, difficulty)
	if err != nil {
		return game.Config{}, err
	}

	return game.Config{
		Light:         light,
		Dark:          dark,
		BotDelay:      gs.defaults.BotDelay,
		QuietPlyLimit: gs.defaults.QuietPlyLimit,
		Seed:          gs.defaults.Seed,
	}, nil
}

func parseController(s string, fallback model.ControllerKind, d model.Difficulty) (model.Controller, error) {
	kind := model.ControllerKind(strings.ToLower(strings.TrimSpace(s)))
	if kind == "" {
		kind = fallback
	}
	switch kind {
	case model.HumanController:
		return model.Human(), nil
	case model.BotController:
		return model.Bot(d), nil
	}
	return model.Controller{}, fmt.Errorf("%w: unknown controller %q", ErrInvalidRequest, s)
}

func (gs *GameService) GetGameState(gameID string) (game.State, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return game.State{}, err
	}
	return session.GetState(), nil
}

func (gs *GameService) GetOptions(gameID string, pos model.Position) (game.Options, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return game.Options{}, err
	}
	return session.Options(pos)
}

func (gs *GameService) HandleSelection(gameID string, playerID string, pos model.Position) (game.SelectionResult, error) {
	res, err := gs.gameManager.Select(gameID, playerID, pos)
	if err != nil {
		log.Debugf("game %s: selection %s by %s rejected: %v", gameID, pos, playerID, err)
	}
	return res, err
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn game.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn game.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}
