package service

import (
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/typechess-backend/internal/ws"
)

// Sender is the write side of a client connection; *websocket.Conn satisfies it.
type Sender interface {
	WriteJSON(v any) error
}

type connection struct {
	id       string
	playerID string
	mu       sync.Mutex // one writer at a time per connection
	sender   Sender
}

func (c *connection) send(msg ws.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sender.WriteJSON(msg)
}

// Hub keeps the open connections of every game.
type Hub struct {
	mu    sync.RWMutex
	games map[string]map[string]*connection // gameID -> connID -> connection
}

func NewHub() *Hub {
	return &Hub{games: make(map[string]map[string]*connection)}
}

// Register adds a connection to gameID and returns its connection ID.
// A player may hold several connections, e.g. one per browser tab.
func (h *Hub) Register(gameID, playerID string, sender Sender) string {
	conn := &connection{id: uuid.NewString(), playerID: playerID, sender: sender}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.games[gameID] == nil {
		h.games[gameID] = make(map[string]*connection)
	}
	h.games[gameID][conn.id] = conn
	log.Debugf("registered connection %s for player %s in game %s", conn.id, playerID, gameID)
	return conn.id
}

func (h *Hub) Unregister(gameID, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.games[gameID]
	if !ok {
		return
	}
	delete(conns, connID)
	if len(conns) == 0 {
		delete(h.games, gameID)
	}
	log.Debugf("unregistered connection %s from game %s", connID, gameID)
}

func (h *Hub) lookup(gameID, connID string) (*connection, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conn, ok := h.games[gameID][connID]
	return conn, ok
}

// Send writes msg to a single connection.
func (h *Hub) Send(gameID, connID string, msg ws.Message) error {
	conn, ok := h.lookup(gameID, connID)
	if !ok {
		return nil
	}
	return conn.send(msg)
}

// Broadcast writes msg to every connection of gameID. Connections that fail
// to take the write are dropped.
func (h *Hub) Broadcast(gameID string, msg ws.Message) {
	h.mu.RLock()
	targets := make([]*connection, 0, len(h.games[gameID]))
	for _, conn := range h.games[gameID] {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		if err := conn.send(msg); err != nil {
			log.Warnf("dropping connection %s of player %s in game %s: %v", conn.id, conn.playerID, gameID, err)
			h.Unregister(gameID, conn.id)
		}
	}
}

// Count reports how many connections gameID has open.
func (h *Hub) Count(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}
