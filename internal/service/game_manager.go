// service/game_manager.go
package service

import (
	"context"
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/checkers-backend/internal/game"
	"github.com/benbeisheim/checkers-backend/internal/model"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrNotAuthorized = errors.New("player may not play in this game")
)

// GameManager owns every running session and the goroutines that play bot turns.
type GameManager struct {
	games map[string]*game.Session
	mu    sync.RWMutex

	ctx  context.Context
	bots sync.WaitGroup
}

// NewGameManager returns a manager whose bot goroutines stop between turns once ctx
// is done.
func NewGameManager(ctx context.Context) *GameManager {
	return &GameManager{
		games: make(map[string]*game.Session),
		ctx:   ctx,
	}
}

func (gm *GameManager) CreateGame(owner string, cfg game.Config) *game.Session {
	session := game.NewSession(uuid.New().String(), owner, cfg)

	gm.mu.Lock()
	gm.games[session.ID] = session
	gm.mu.Unlock()

	log.Infof("created game %s for player %s (light=%s dark=%s)", session.ID, owner, describe(cfg.Light), describe(cfg.Dark))
	gm.driveBots(session)
	return session
}

func (gm *GameManager) GetGame(gameID string) (*game.Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	session, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return session, nil
}

// Select forwards a human selection and hands the turn to the bot when it is due.
func (gm *GameManager) Select(gameID, playerID string, pos model.Position) (game.SelectionResult, error) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return game.SelectionResult{}, err
	}
	if session.Owner != playerID {
		return game.SelectionResult{}, ErrNotAuthorized
	}

	res, err := session.SubmitSelection(pos)
	if err != nil {
		return res, err
	}
	session.Broadcast()
	if res.TurnOver {
		gm.driveBots(session)
	}
	return res, nil
}

func (gm *GameManager) driveBots(session *game.Session) {
	if !session.BotToMove() {
		return
	}

	gm.bots.Add(1)
	go func() {
		defer gm.bots.Done()
		err := session.PlayBotTurns(gm.ctx)
		switch {
		case err == nil, errors.Is(err, game.ErrBotBusy):
		case errors.Is(err, context.Canceled):
			log.Debugf("game %s: bot play cancelled", session.ID)
		default:
			log.Errorf("game %s: bot play failed: %v", session.ID, err)
		}
	}()
}

// Wait blocks until every bot goroutine has returned.
func (gm *GameManager) Wait() {
	gm.bots.Wait()
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn game.Conn) error {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return session.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn game.Conn) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	session.UnregisterConnection(playerID, conn)
}

func describe(c model.Controller) string {
	if c.IsBot() {
		return string(c.Kind) + "/" + string(c.Difficulty)
	}
	return string(c.Kind)
}
