package model

import (
	"fmt"
	"math/rand"
	"time"
)

// Game is one named session: its settings, seats and the timeline of states.
// Game does no locking; the session owner serializes access.
type Game struct {
	ID        string    `json:"id"`
	Settings  Settings  `json:"settings"`
	Players   Players   `json:"players"`
	Timeline  *Timeline `json:"timeline"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GameView is what clients receive: the current state plus session metadata.
type GameView struct {
	ID           string     `json:"id"`
	Settings     Settings   `json:"settings"`
	Players      Players    `json:"players"`
	State        *GameState `json:"state"`
	CanUndo      bool       `json:"canUndo"`
	CanRedo      bool       `json:"canRedo"`
	IsCheck      bool       `json:"isCheck"`
	LastMove     *Move      `json:"lastMove"`
	LastNotation string     `json:"lastNotation"`
	Placement    string     `json:"placement"`
}

func NewGame(id string, settings Settings, rng *rand.Rand) *Game {
	return NewGameFromState(id, settings, NewGameState(rng))
}

func NewGameFromState(id string, settings Settings, state *GameState) *Game {
	now := time.Now().UTC()
	return &Game{
		ID:        id,
		Settings:  settings,
		Timeline:  NewTimeline(state),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (g *Game) touch() {
	g.UpdatedAt = time.Now().UTC()
}

// Clone deep-copies the game, including every state of its timeline.
func (g *Game) Clone() *Game {
	c := *g
	if g.Timeline != nil {
		states := make([]*GameState, len(g.Timeline.States))
		for i, s := range g.Timeline.States {
			states[i] = s.Clone()
		}
		c.Timeline = &Timeline{States: states, Cursor: g.Timeline.Cursor}
	}
	return &c
}

func (g *Game) CurrentState() *GameState {
	state, ok := g.Timeline.Current()
	if !ok {
		// a game always holds its initial state
		panic(fmt.Sprintf("game %s has an empty timeline", g.ID))
	}
	return state
}

// AddPlayer seats playerID: the first joiner plays white, the second black.
// Joining again returns the seat already held.
func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	if color, ok := g.Players.ColorOf(playerID); ok {
		return color, nil
	}
	if g.Players.White.ID == "" {
		g.Players.White = ClientPlayer{ID: playerID, Color: PlayerColorWhite}
		g.touch()
		return PlayerColorWhite, nil
	}
	if g.Players.Black.ID == "" {
		g.Players.Black = ClientPlayer{ID: playerID, Color: PlayerColorBlack}
		g.touch()
		return PlayerColorBlack, nil
	}
	return "", ErrGameFull
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	_, ok := g.Players.ColorOf(playerID)
	return ok
}

// CanMove reports whether playerID may act for the side to move.
func (g *Game) CanMove(playerID string) bool {
	if g.Settings.LocalPlay {
		return true
	}
	seat := g.Players.seat(g.CurrentState().Player)
	return seat.ID != "" && seat.ID == playerID
}

// MovePiece plays a move on a copy of the current state and records it.
func (g *Game) MovePiece(from, to Position) (*GameState, error) {
	state := g.CurrentState()
	switch {
	case state.IsOver():
		return nil, ErrGameOver
	case state.RequirePieceSelection:
		return nil, ErrPromotionPending
	}
	if !state.MovePiece(from, to) {
		return nil, fmt.Errorf("%w: %s to %s", ErrIllegalMove, from, to)
	}
	g.Timeline.Push(state)
	g.touch()
	return state, nil
}

func (g *Game) SelectPawnPromotionPiece(choice string) (*GameState, error) {
	state := g.CurrentState()
	if err := state.SelectPawnPromotionPiece(choice); err != nil {
		return nil, err
	}
	g.Timeline.Push(state)
	g.touch()
	return state, nil
}

func (g *Game) Previous() (*GameState, error) {
	state, ok := g.Timeline.Previous()
	if !ok {
		return nil, ErrNoPreviousState
	}
	g.touch()
	return state, nil
}

func (g *Game) Next() (*GameState, error) {
	state, ok := g.Timeline.Next()
	if !ok {
		return nil, ErrNoNextState
	}
	g.touch()
	return state, nil
}

func (g *Game) View() GameView {
	state := g.CurrentState()
	view := GameView{
		ID:        g.ID,
		Settings:  g.Settings,
		Players:   g.Players,
		State:     state,
		CanUndo:   g.Timeline.Cursor > 0,
		CanRedo:   g.Timeline.Cursor < g.Timeline.Len()-1,
		IsCheck:   state.Board.IsKingInCheck(state.Player),
		Placement: state.Board.Placement(),
	}
	if last, ok := state.Board.History.LastMove(); ok {
		view.LastMove = &last
		view.LastNotation = last.Notation()
	}
	return view
}
