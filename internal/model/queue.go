package model

import (
	"sync"
	"time"
)

type QueuedPlayer struct {
	PlayerID string    `json:"playerId"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Queue holds players waiting for an opponent, longest waiting first.
type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{
		players: []QueuedPlayer{},
	}
}

func (q *Queue) AddPlayer(playerID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.PlayerID == playerID {
			return ErrAlreadyQueued
		}
	}
	q.players = append(q.players, QueuedPlayer{PlayerID: playerID, JoinedAt: time.Now().UTC()})
	return nil
}

// PushFront puts p back at the head of the line, keeping its original join time.
func (q *Queue) PushFront(p QueuedPlayer) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.players = append([]QueuedPlayer{p}, q.players...)
}

// PopOpponent removes and returns the longest waiting player other than playerID.
func (q *Queue) PopOpponent(playerID string) (QueuedPlayer, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, p := range q.players {
		if p.PlayerID != playerID {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return p, true
		}
	}
	return QueuedPlayer{}, false
}

// Remove takes playerID out of the queue and reports whether it was waiting.
func (q *Queue) Remove(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, p := range q.players {
		if p.PlayerID == playerID {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return true
		}
	}
	return false
}

func (q *Queue) Contains(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.PlayerID == playerID {
			return true
		}
	}
	return false
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
