package controller

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/checkers-backend/internal/game"
	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/benbeisheim/checkers-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Locals("wsGameID").(string)
	playerID := c.Locals("wsPlayerID").(string)
	wsc.serve(gameID, playerID, c, game.NewSyncConn(c))
}

type messageReader interface {
	ReadMessage() (messageType int, p []byte, err error)
}

// serve registers conn with the game and handles messages read from r until it fails.
func (wsc *WebSocketController) serve(gameID, playerID string, r messageReader, conn game.Conn) {
	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		log.Warnf("failed to register connection for game %s: %v", gameID, err)
		wsc.sendError(conn, err)
		_ = conn.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, conn)

	for {
		messageType, message, err := r.ReadMessage()
		if err != nil {
			log.Debugf("game %s: read from %s stopped: %v", gameID, playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(conn, fmt.Errorf("malformed message: %w", err))
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			wsc.sendError(conn, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeSelect:
		var pos model.Position
		if err := json.Unmarshal(msg.Payload, &pos); err != nil {
			return fmt.Errorf("malformed selection: %w", err)
		}
		// Accepted selections reach every observer through the session broadcast.
		_, err := wsc.gameService.HandleSelection(gameID, playerID, pos)
		return err

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(c game.Conn, err error) {
	payload, _ := json.Marshal(ws.ErrorPayload{Error: err.Error()})
	if werr := c.WriteJSON(ws.Message{Type: ws.MessageTypeError, Payload: payload}); werr != nil {
		log.Debugf("failed to send error: %v", werr)
	}
}
