package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/typechess-backend/internal/model"
	"github.com/benbeisheim/typechess-backend/internal/store"
	"github.com/benbeisheim/typechess-backend/internal/ws"
)

// GameManager serializes every change to a game behind a per-game lock and
// persists the result before telling the connected clients.
type GameManager struct {
	store store.Store
	hub   *Hub

	mu    sync.RWMutex
	locks map[string]*sync.Mutex

	rngMu sync.Mutex
	rng   *rand.Rand
	newID func() string
}

// NewGameManager falls back to a fresh Hub when hub is nil.
func NewGameManager(st store.Store, hub *Hub) *GameManager {
	if hub == nil {
		hub = NewHub()
	}
	return &GameManager{
		store: st,
		hub:   hub,
		locks: make(map[string]*sync.Mutex),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		newID: uuid.NewString,
	}
}

// lock returns the lock of a stored game. Locks exist only for games the
// store knows, so lookups of unknown IDs leave no trace.
func (gm *GameManager) lock(ctx context.Context, gameID string) (*sync.Mutex, error) {
	gm.mu.RLock()
	l, ok := gm.locks[gameID]
	gm.mu.RUnlock()
	if ok {
		return l, nil
	}

	exists, err := gm.store.Exists(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrNotFound
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	if l, ok := gm.locks[gameID]; ok {
		return l, nil
	}
	l = &sync.Mutex{}
	gm.locks[gameID] = l
	return l, nil
}

// CreateGame needs no lock: nobody can address the game before it is saved.
func (gm *GameManager) CreateGame(ctx context.Context, settings model.Settings) (*model.Game, error) {
	gameID := gm.newID()
	exists, err := gm.store.Exists(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("game %s already exists", gameID)
	}

	gm.rngMu.Lock()
	game := model.NewGame(gameID, settings, gm.rng)
	gm.rngMu.Unlock()

	if err := gm.store.Save(ctx, game); err != nil {
		return nil, err
	}
	log.Infof("created game %s (local play: %t)", gameID, settings.LocalPlay)
	return game, nil
}

// GetGame loads a snapshot of the game; changes to it are not persisted.
func (gm *GameManager) GetGame(ctx context.Context, gameID string) (*model.Game, error) {
	l, err := gm.lock(ctx, gameID)
	if err != nil {
		return nil, err
	}
	l.Lock()
	defer l.Unlock()
	return gm.store.Load(ctx, gameID)
}

func (gm *GameManager) AddPlayerToGame(ctx context.Context, gameID, playerID string) (model.PlayerColor, error) {
	var color model.PlayerColor
	_, err := gm.update(ctx, gameID, func(g *model.Game) error {
		c, err := g.AddPlayer(playerID)
		color = c
		return err
	})
	if err != nil {
		return "", err
	}
	log.Infof("player %s joined game %s as %s", playerID, gameID, color)
	return color, nil
}

func (gm *GameManager) GetValidMoves(ctx context.Context, gameID string, pos model.Position) ([]model.Move, error) {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return game.CurrentState().GetValidMoves(pos), nil
}

func (gm *GameManager) MakeMove(ctx context.Context, gameID, playerID string, move model.SimpleMove) (*model.Game, error) {
	return gm.update(ctx, gameID, func(g *model.Game) error {
		if !g.CanMove(playerID) {
			return model.ErrNotYourTurn
		}
		state, err := g.MovePiece(move.From, move.To)
		if err != nil {
			return err
		}
		log.Debugf("game %s: %s played %s-%s (%s)", gameID, playerID, move.From, move.To, state.InfoMessage)
		return nil
	})
}

func (gm *GameManager) SelectPromotion(ctx context.Context, gameID, playerID, choice string) (*model.Game, error) {
	return gm.update(ctx, gameID, func(g *model.Game) error {
		if !g.CanMove(playerID) {
			return model.ErrNotYourTurn
		}
		_, err := g.SelectPawnPromotionPiece(choice)
		return err
	})
}

func (gm *GameManager) PreviousState(ctx context.Context, gameID, playerID string) (*model.Game, error) {
	return gm.update(ctx, gameID, func(g *model.Game) error {
		if err := checkSeated(g, playerID); err != nil {
			return err
		}
		_, err := g.Previous()
		return err
	})
}

func (gm *GameManager) NextState(ctx context.Context, gameID, playerID string) (*model.Game, error) {
	return gm.update(ctx, gameID, func(g *model.Game) error {
		if err := checkSeated(g, playerID); err != nil {
			return err
		}
		_, err := g.Next()
		return err
	})
}

func checkSeated(g *model.Game, playerID string) error {
	if g.Settings.LocalPlay || g.IsPlayerInGame(playerID) {
		return nil
	}
	return model.ErrNotInGame
}

// update runs fn on the stored game under the game's lock, saves the result and
// broadcasts the new view. Nothing is saved when fn fails.
func (gm *GameManager) update(ctx context.Context, gameID string, fn func(*model.Game) error) (*model.Game, error) {
	l, err := gm.lock(ctx, gameID)
	if err != nil {
		return nil, err
	}
	l.Lock()
	defer l.Unlock()

	game, err := gm.store.Load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := fn(game); err != nil {
		return nil, err
	}
	if err := gm.store.Save(ctx, game); err != nil {
		log.Errorf("failed to save game %s: %v", gameID, err)
		return nil, err
	}
	gm.broadcastState(game)
	return game, nil
}

func (gm *GameManager) broadcastState(game *model.Game) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, game.View())
	if err != nil {
		log.Errorf("failed to encode state of game %s: %v", game.ID, err)
		return
	}
	gm.hub.Broadcast(game.ID, msg)
}

// RegisterConnection attaches a client to a game and sends it the current state.
// Anyone may watch; only seated players can act.
func (gm *GameManager) RegisterConnection(ctx context.Context, gameID, playerID string, sender Sender) (string, error) {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return "", err
	}
	connID := gm.hub.Register(gameID, playerID, sender)
	msg, err := ws.NewMessage(ws.MessageTypeGameState, game.View())
	if err == nil {
		err = gm.hub.Send(gameID, connID, msg)
	}
	if err != nil {
		gm.hub.Unregister(gameID, connID)
		return "", err
	}
	return connID, nil
}

func (gm *GameManager) UnregisterConnection(gameID, connID string) {
	gm.hub.Unregister(gameID, connID)
}

// IsNotFound reports whether err means the game does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
