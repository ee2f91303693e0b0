package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/typechess-backend/internal/model"
	"github.com/benbeisheim/typechess-backend/internal/store"
	"github.com/benbeisheim/typechess-backend/internal/ws"
)

type recordingSender struct {
	mu   sync.Mutex
	msgs []ws.Message
	fail bool
}

func (s *recordingSender) WriteJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("connection closed")
	}
	s.msgs = append(s.msgs, v.(ws.Message))
	return nil
}

func (s *recordingSender) messages() []ws.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ws.Message(nil), s.msgs...)
}

func (s *recordingSender) lastView(t *testing.T) model.GameView {
	t.Helper()
	msgs := s.messages()
	require.NotEmpty(t, msgs)
	last := msgs[len(msgs)-1]
	require.Equal(t, ws.MessageTypeGameState, last.Type)
	var v model.GameView
	require.NoError(t, json.Unmarshal(last.Payload, &v))
	return v
}

func newTestService(t *testing.T) (*GameService, store.Store, *Hub) {
	t.Helper()
	st := store.NewMemoryStore()
	hub := NewHub()
	gm := NewGameManager(st, hub)
	n := 0
	gm.newID = func() string {
		n++
		return fmt.Sprintf("game-%d", n)
	}
	return NewGameService(gm), st, hub
}

func mv(from, to string) model.SimpleMove {
	return model.SimpleMove{From: model.MustPosition(from), To: model.MustPosition(to)}
}

func TestCreateAndJoin(t *testing.T) {
	ctx := context.Background()
	gs, st, _ := newTestService(t)

	v, err := gs.CreateGame(ctx, model.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "game-1", v.ID)
	assert.Equal(t, model.PlayerColorWhite, v.State.Player)

	ok, err := st.Exists(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	color, err := gs.JoinGame(ctx, v.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.PlayerColorWhite, color)
	color, err = gs.JoinGame(ctx, v.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, model.PlayerColorBlack, color)
	_, err = gs.JoinGame(ctx, v.ID, "carol")
	assert.ErrorIs(t, err, model.ErrGameFull)

	_, err = gs.JoinGame(ctx, "missing", "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.True(t, IsNotFound(err))
}

func TestMoveFlow(t *testing.T) {
	ctx := context.Background()
	gs, st, _ := newTestService(t)
	v, err := gs.CreateGame(ctx, model.DefaultSettings())
	require.NoError(t, err)
	_, _ = gs.JoinGame(ctx, v.ID, "alice")
	_, _ = gs.JoinGame(ctx, v.ID, "bob")

	moves, err := gs.GetValidMoves(ctx, v.ID, model.MustPosition("e2"))
	require.NoError(t, err)
	assert.Len(t, moves, 2)

	_, err = gs.HandleMove(ctx, v.ID, "bob", mv("e7", "e5"))
	assert.ErrorIs(t, err, model.ErrNotYourTurn)

	_, err = gs.HandleMove(ctx, v.ID, "alice", mv("e2", "e5"))
	assert.ErrorIs(t, err, model.ErrIllegalMove)

	after, err := gs.HandleMove(ctx, v.ID, "alice", mv("e2", "e4"))
	require.NoError(t, err)
	assert.Equal(t, model.PlayerColorBlack, after.State.Player)
	assert.Equal(t, "Pe2-e4", after.LastNotation)

	stored, err := st.Load(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Timeline.Len(), "rejected moves are not saved")

	_, err = gs.HandleMove(ctx, v.ID, "alice", model.SimpleMove{From: model.Position{Row: 8}, To: model.Position{}})
	assert.ErrorIs(t, err, ErrBadRequest)
	_, err = gs.GetValidMoves(ctx, v.ID, model.Position{Row: -1})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestUndoRedo(t *testing.T) {
	ctx := context.Background()
	gs, _, _ := newTestService(t)
	v, err := gs.CreateGame(ctx, model.Settings{LocalPlay: true})
	require.NoError(t, err)

	_, err = gs.PreviousState(ctx, v.ID, "anyone")
	assert.ErrorIs(t, err, model.ErrNoPreviousState)

	_, err = gs.HandleMove(ctx, v.ID, "anyone", mv("g1", "f3"))
	require.NoError(t, err)
	_, err = gs.HandleMove(ctx, v.ID, "anyone", mv("g8", "f6"))
	require.NoError(t, err)

	prev, err := gs.PreviousState(ctx, v.ID, "anyone")
	require.NoError(t, err)
	assert.Equal(t, model.PlayerColorBlack, prev.State.Player)
	assert.True(t, prev.CanRedo)

	next, err := gs.NextState(ctx, v.ID, "anyone")
	require.NoError(t, err)
	assert.Equal(t, model.PlayerColorWhite, next.State.Player)
	assert.False(t, next.CanRedo)

	_, err = gs.NextState(ctx, v.ID, "anyone")
	assert.ErrorIs(t, err, model.ErrNoNextState)
}

func TestUndoNeedsASeat(t *testing.T) {
	ctx := context.Background()
	gs, _, _ := newTestService(t)
	v, err := gs.CreateGame(ctx, model.DefaultSettings())
	require.NoError(t, err)
	_, _ = gs.JoinGame(ctx, v.ID, "alice")
	_, err = gs.HandleMove(ctx, v.ID, "alice", mv("e2", "e4"))
	require.NoError(t, err)

	_, err = gs.PreviousState(ctx, v.ID, "mallory")
	assert.ErrorIs(t, err, model.ErrNotInGame)
	_, err = gs.PreviousState(ctx, v.ID, "alice")
	assert.NoError(t, err)
}

func TestPromotionThroughService(t *testing.T) {
	ctx := context.Background()
	gs, st, _ := newTestService(t)

	b := model.NewEmptyBoard()
	b.Set(model.MustPosition("e1"), model.Piece{Kind: model.WhiteKing, Affinity: model.Normal})
	b.Set(model.MustPosition("b7"), model.Piece{Kind: model.WhitePawn, Affinity: model.Steel})
	b.Set(model.MustPosition("h8"), model.Piece{Kind: model.BlackKing, Affinity: model.Normal})
	g := model.NewGameFromState("promo", model.Settings{LocalPlay: true}, model.NewGameStateFromBoard(b, model.PlayerColorWhite))
	require.NoError(t, st.Save(ctx, g))

	v, err := gs.HandleMove(ctx, "promo", "p", mv("b7", "b8"))
	require.NoError(t, err)
	assert.True(t, v.State.RequirePieceSelection)

	_, err = gs.HandleMove(ctx, "promo", "p", mv("e1", "e2"))
	assert.ErrorIs(t, err, model.ErrPromotionPending)
	_, err = gs.SelectPromotion(ctx, "promo", "p", "wizard")
	assert.ErrorIs(t, err, model.ErrInvalidPromotionChoice)

	v, err = gs.SelectPromotion(ctx, "promo", "p", "knight")
	require.NoError(t, err)
	assert.False(t, v.State.RequirePieceSelection)
	assert.Equal(t, model.Piece{Kind: model.WhiteKnight, Affinity: model.Steel}, v.State.Board.At(model.MustPosition("b8")))
}

func TestBroadcast(t *testing.T) {
	ctx := context.Background()
	gs, _, hub := newTestService(t)
	v, err := gs.CreateGame(ctx, model.Settings{LocalPlay: true})
	require.NoError(t, err)

	watcher := &recordingSender{}
	broken := &recordingSender{}
	connID, err := gs.RegisterConnection(ctx, v.ID, "watcher", watcher)
	require.NoError(t, err)
	_, err = gs.RegisterConnection(ctx, v.ID, "broken", broken)
	require.NoError(t, err)
	assert.Equal(t, 2, hub.Count(v.ID))
	assert.Len(t, watcher.messages(), 1, "a new connection receives the current state")

	broken.mu.Lock()
	broken.fail = true
	broken.mu.Unlock()

	_, err = gs.HandleMove(ctx, v.ID, "watcher", mv("d2", "d4"))
	require.NoError(t, err)
	assert.Equal(t, "Pd2-d4", watcher.lastView(t).LastNotation)
	assert.Equal(t, 1, hub.Count(v.ID), "failed connections are dropped")

	_, err = gs.HandleMove(ctx, v.ID, "watcher", mv("d2", "d4"))
	require.Error(t, err)
	assert.Len(t, watcher.messages(), 2, "rejected moves are not broadcast")

	gs.UnregisterConnection(v.ID, connID)
	assert.Zero(t, hub.Count(v.ID))

	_, err = gs.RegisterConnection(ctx, "missing", "watcher", watcher)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestConcurrentJoinsSeatTwoPlayers(t *testing.T) {
	ctx := context.Background()
	gs, st, _ := newTestService(t)
	v, err := gs.CreateGame(ctx, model.DefaultSettings())
	require.NoError(t, err)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		seated []model.PlayerColor
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			color, err := gs.JoinGame(ctx, v.ID, fmt.Sprintf("player-%d", i))
			if err != nil {
				assert.ErrorIs(t, err, model.ErrGameFull)
				return
			}
			mu.Lock()
			seated = append(seated, color)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.ElementsMatch(t, []model.PlayerColor{model.PlayerColorWhite, model.PlayerColorBlack}, seated)
	g, err := st.Load(ctx, v.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, g.Players.White.ID)
	assert.NotEmpty(t, g.Players.Black.ID)
}

func TestUnknownGamesLeaveNoLocks(t *testing.T) {
	ctx := context.Background()
	gm := NewGameManager(store.NewMemoryStore(), NewHub())

	for i := 0; i < 100; i++ {
		id := fmt.Sprintf("missing-%d", i)
		_, err := gm.GetGame(ctx, id)
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = gm.AddPlayerToGame(ctx, id, "alice")
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = gm.RegisterConnection(ctx, id, "alice", &recordingSender{})
		assert.ErrorIs(t, err, store.ErrNotFound)
	}
	gm.mu.RLock()
	assert.Empty(t, gm.locks)
	gm.mu.RUnlock()

	game, err := gm.CreateGame(ctx, model.DefaultSettings())
	require.NoError(t, err)
	_, err = gm.GetGame(ctx, game.ID)
	require.NoError(t, err)
	gm.mu.RLock()
	assert.Len(t, gm.locks, 1)
	gm.mu.RUnlock()
}

func TestNilHubFallsBack(t *testing.T) {
	ctx := context.Background()
	gm := NewGameManager(store.NewMemoryStore(), nil)
	game, err := gm.CreateGame(ctx, model.Settings{LocalPlay: true})
	require.NoError(t, err)

	sender := &recordingSender{}
	connID, err := gm.RegisterConnection(ctx, game.ID, "alice", sender)
	require.NoError(t, err)
	_, err = gm.MakeMove(ctx, game.ID, "alice", mv("e2", "e4"))
	require.NoError(t, err)
	assert.Len(t, sender.messages(), 2)
	gm.UnregisterConnection(game.ID, connID)
}
