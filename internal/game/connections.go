package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/checkers-backend/internal/ws"
)

// Conn is the part of a websocket connection a session writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// SyncConn serialises writes to a connection that both its reader loop and game
// broadcasts write to.
type SyncConn struct {
	mu   sync.Mutex
	conn Conn
}

func NewSyncConn(conn Conn) *SyncConn {
	return &SyncConn{conn: conn}
}

func (c *SyncConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *SyncConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

func (c *SyncConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

// Connections are the observers of a single game, keyed by player id.
type Connections struct {
	mu          sync.RWMutex
	connections map[string]Conn
}

func NewConnections() *Connections {
	return &Connections{
		connections: make(map[string]Conn),
	}
}

var errDuplicateConnection = errors.New("connection already exists")

// Add registers conn for playerID. A second connection for the same player is closed
// and the existing one kept.
func (c *Connections) Add(playerID string, conn Conn) error {
	c.mu.Lock()
	if _, exists := c.connections[playerID]; exists {
		c.mu.Unlock()
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, errDuplicateConnection.Error()),
		)
		_ = conn.Close()
		return errDuplicateConnection
	}
	c.connections[playerID] = conn
	c.mu.Unlock()
	log.Debugf("registered connection %p for player %s", conn, playerID)
	return nil
}

// Remove drops playerID's connection if it is still conn.
func (c *Connections) Remove(playerID string, conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if current, exists := c.connections[playerID]; exists && current == conn {
		delete(c.connections, playerID)
		log.Debugf("unregistered connection %p for player %s", conn, playerID)
	}
}

func (c *Connections) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.connections)
}

// Broadcast sends msg to every connection and drops the ones that fail.
func (c *Connections) Broadcast(msgType ws.MessageType, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", msgType, err)
	}
	msg := ws.Message{Type: msgType, Payload: json.RawMessage(data)}

	c.mu.RLock()
	active := make(map[string]Conn, len(c.connections))
	for playerID, conn := range c.connections {
		active[playerID] = conn
	}
	c.mu.RUnlock()

	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("failed to send %s to player %s: %v", msgType, playerID, err)
			c.Remove(playerID, conn)
		}
	}
	return nil
}
