package service

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/typechess-backend/internal/model"
)

type MatchStatus string

const (
	MatchQueued  MatchStatus = "queued"
	MatchFound   MatchStatus = "matched"
	MatchUnknown MatchStatus = "none"
)

type Match struct {
	Status MatchStatus       `json:"status"`
	GameID string            `json:"gameId,omitempty"`
	Color  model.PlayerColor `json:"color,omitempty"`
}

// Matchmaker pairs waiting players into new online games. The player who waited
// plays white. A waiting player learns about its game by polling Status.
type Matchmaker struct {
	gameManager *GameManager

	mu      sync.Mutex // serializes pairing so a player is matched once
	queue   *model.Queue
	matches map[string]Match // playerID -> match not yet collected
}

func NewMatchmaker(gameManager *GameManager) *Matchmaker {
	return &Matchmaker{
		gameManager: gameManager,
		queue:       model.NewQueue(),
		matches:     make(map[string]Match),
	}
}

// Join pairs playerID with the longest waiting player, or queues it.
func (m *Matchmaker) Join(ctx context.Context, playerID string) (Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if match, ok := m.matches[playerID]; ok {
		delete(m.matches, playerID)
		return match, nil
	}
	if m.queue.Contains(playerID) {
		return Match{Status: MatchQueued}, nil
	}

	opponent, ok := m.queue.PopOpponent(playerID)
	if !ok {
		if err := m.queue.AddPlayer(playerID); err != nil {
			return Match{}, err
		}
		log.Debugf("player %s is waiting for an opponent", playerID)
		return Match{Status: MatchQueued}, nil
	}

	game, err := m.gameManager.CreateGame(ctx, model.DefaultSettings())
	if err == nil {
		_, err = m.gameManager.AddPlayerToGame(ctx, game.ID, opponent.PlayerID)
	}
	if err == nil {
		_, err = m.gameManager.AddPlayerToGame(ctx, game.ID, playerID)
	}
	if err != nil {
		m.queue.PushFront(opponent)
		return Match{}, err
	}

	m.matches[opponent.PlayerID] = Match{Status: MatchFound, GameID: game.ID, Color: model.PlayerColorWhite}
	log.Infof("matched %s and %s in game %s", opponent.PlayerID, playerID, game.ID)
	return Match{Status: MatchFound, GameID: game.ID, Color: model.PlayerColorBlack}, nil
}

// Status reports a pending match once; afterwards the player is no longer known.
func (m *Matchmaker) Status(playerID string) Match {
	m.mu.Lock()
	defer m.mu.Unlock()

	if match, ok := m.matches[playerID]; ok {
		delete(m.matches, playerID)
		return match
	}
	if m.queue.Contains(playerID) {
		return Match{Status: MatchQueued}
	}
	return Match{Status: MatchUnknown}
}

func (m *Matchmaker) Leave(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Remove(playerID)
}
