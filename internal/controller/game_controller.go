package controller

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/checkers-backend/internal/game"
	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/service"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	var req service.CreateGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	gameID, err := gc.gameService.CreateGame(playerID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(gameState)
}

// GetMoves lists the simple moves and captures of the piece on ?x=&y=.
func (gc *GameController) GetMoves(c *fiber.Ctx) error {
	x, errX := strconv.Atoi(c.Query("x"))
	y, errY := strconv.Atoi(c.Query("y"))
	if errX != nil || errY != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "x and y query parameters must be integers",
		})
	}

	opts, err := gc.gameService.GetOptions(c.Params("gameId"), model.Position{X: x, Y: y})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(opts)
}

func (gc *GameController) Select(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	var pos model.Position
	if err := c.BodyParser(&pos); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	res, err := gc.gameService.HandleSelection(c.Params("gameId"), playerID, pos)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrInvalidRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, game.ErrNotYourTurn), errors.Is(err, game.ErrGameOver), errors.Is(err, game.ErrBotBusy):
		return fiber.StatusConflict
	case errors.Is(err, game.ErrIllegalSelection):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
