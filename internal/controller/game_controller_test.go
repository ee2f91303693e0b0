package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/typechess-backend/internal/middleware"
	"github.com/benbeisheim/typechess-backend/internal/model"
	"github.com/benbeisheim/typechess-backend/internal/service"
	"github.com/benbeisheim/typechess-backend/internal/store"
	"github.com/benbeisheim/typechess-backend/internal/ws"
)

func newTestApp(t *testing.T) (*fiber.App, *service.GameService) {
	t.Helper()
	gs := service.NewGameService(service.NewGameManager(store.NewMemoryStore(), service.NewHub()))
	app := fiber.New()
	NewGameController(gs).Register(app.Group("/api/game", middleware.EnsurePlayerID()))
	return app, gs
}

func doJSON(t *testing.T, app *fiber.App, method, target, playerID string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if playerID != "" {
		req.Header.Set(middleware.PlayerIDHeader, playerID)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type createResponse struct {
	GameID string         `json:"game_id"`
	Game   model.GameView `json:"game"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func createGame(t *testing.T, app *fiber.App, settings *model.Settings) string {
	t.Helper()
	var created createResponse
	var body any
	if settings != nil {
		body = settings
	}
	status := doJSON(t, app, http.MethodPost, "/api/game/create", "alice", body, &created)
	require.Equal(t, fiber.StatusCreated, status)
	require.NotEmpty(t, created.GameID)
	return created.GameID
}

func TestCreateJoinAndMove(t *testing.T) {
	app, _ := newTestApp(t)
	id := createGame(t, app, nil)

	var joined struct {
		Color model.PlayerColor `json:"color"`
	}
	assert.Equal(t, fiber.StatusOK, doJSON(t, app, http.MethodPost, "/api/game/join/"+id, "alice", nil, &joined))
	assert.Equal(t, model.PlayerColorWhite, joined.Color)
	assert.Equal(t, fiber.StatusOK, doJSON(t, app, http.MethodPost, "/api/game/join/"+id, "bob", nil, &joined))
	assert.Equal(t, model.PlayerColorBlack, joined.Color)

	var moves struct {
		Moves []model.Move `json:"moves"`
	}
	assert.Equal(t, fiber.StatusOK, doJSON(t, app, http.MethodGet, "/api/game/"+id+"/moves?square=e2", "alice", nil, &moves))
	assert.Len(t, moves.Moves, 2)
	assert.Equal(t, fiber.StatusOK, doJSON(t, app, http.MethodGet, "/api/game/"+id+"/moves?row=0&col=1", "alice", nil, &moves))
	assert.Len(t, moves.Moves, 2)

	move := model.SimpleMove{From: model.MustPosition("e2"), To: model.MustPosition("e4")}
	var errResp errorResponse
	assert.Equal(t, fiber.StatusForbidden, doJSON(t, app, http.MethodPost, "/api/game/"+id+"/move", "bob", move, &errResp))
	assert.Equal(t, model.ErrNotYourTurn.Error(), errResp.Error)

	var view model.GameView
	assert.Equal(t, fiber.StatusOK, doJSON(t, app, http.MethodPost, "/api/game/"+id+"/move", "alice", move, &view))
	assert.Equal(t, model.PlayerColorBlack, view.State.Player)
	assert.True(t, view.CanUndo)

	assert.Equal(t, fiber.StatusOK, doJSON(t, app, http.MethodGet, "/api/game/"+id, "carol", nil, &view))
	assert.Equal(t, "Pe2-e4", view.LastNotation)
}

func TestErrorStatuses(t *testing.T) {
	app, _ := newTestApp(t)
	id := createGame(t, app, &model.Settings{LocalPlay: true})

	tests := []struct {
		name   string
		method string
		target string
		body   any
		want   int
	}{
		{"unknown game", http.MethodGet, "/api/game/nope", nil, fiber.StatusNotFound},
		{"bad square", http.MethodGet, "/api/game/" + id + "/moves?square=z9", nil, fiber.StatusBadRequest},
		{"square off board", http.MethodGet, "/api/game/" + id + "/moves?row=9&col=0", nil, fiber.StatusBadRequest},
		{"illegal move", http.MethodPost, "/api/game/" + id + "/move",
			model.SimpleMove{From: model.MustPosition("e2"), To: model.MustPosition("e5")}, fiber.StatusConflict},
		{"no promotion pending", http.MethodPost, "/api/game/" + id + "/promotion",
			promotionRequest{Piece: "queen"}, fiber.StatusConflict},
		{"nothing to undo", http.MethodPost, "/api/game/" + id + "/previous", nil, fiber.StatusConflict},
		{"nothing to redo", http.MethodPost, "/api/game/" + id + "/next", nil, fiber.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp errorResponse
			assert.Equal(t, tt.want, doJSON(t, app, tt.method, tt.target, "alice", tt.body, &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/game/"+id, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "requests need a player ID")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, statusFor(store.ErrNotFound))
	assert.Equal(t, fiber.StatusConflict, statusFor(model.ErrGameFull))
	assert.Equal(t, fiber.StatusForbidden, statusFor(model.ErrNotInGame))
	assert.Equal(t, fiber.StatusBadRequest, statusFor(model.ErrInvalidPromotionChoice))
	assert.Equal(t, fiber.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}

func TestUndoRedoRoutes(t *testing.T) {
	app, _ := newTestApp(t)
	id := createGame(t, app, &model.Settings{LocalPlay: true})

	move := model.SimpleMove{From: model.MustPosition("b1"), To: model.MustPosition("c3")}
	require.Equal(t, fiber.StatusOK, doJSON(t, app, http.MethodPost, "/api/game/"+id+"/move", "alice", move, nil))

	var view model.GameView
	require.Equal(t, fiber.StatusOK, doJSON(t, app, http.MethodPost, "/api/game/"+id+"/previous", "alice", nil, &view))
	assert.Equal(t, model.PlayerColorWhite, view.State.Player)
	assert.True(t, view.CanRedo)

	require.Equal(t, fiber.StatusOK, doJSON(t, app, http.MethodPost, "/api/game/"+id+"/next", "alice", nil, &view))
	assert.Equal(t, model.PlayerColorBlack, view.State.Player)
}

func TestHandleMessage(t *testing.T) {
	ctx := context.Background()
	gs := service.NewGameService(service.NewGameManager(store.NewMemoryStore(), service.NewHub()))
	wsc := NewWebSocketController(gs)
	created, err := gs.CreateGame(ctx, model.Settings{LocalPlay: true})
	require.NoError(t, err)

	send := func(t *testing.T, typ ws.MessageType, payload any) *ws.Message {
		t.Helper()
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		frame, err := json.Marshal(ws.Message{Type: typ, Payload: raw})
		require.NoError(t, err)
		return wsc.dispatch(ctx, created.ID, "alice", frame)
	}

	t.Run("get moves", func(t *testing.T) {
		reply := send(t, ws.MessageTypeGetMoves, ws.GetMovesPayload{Position: model.MustPosition("g1")})
		require.NotNil(t, reply)
		assert.Equal(t, ws.MessageTypeMoves, reply.Type)
		var moves ws.MovesPayload
		require.NoError(t, json.Unmarshal(reply.Payload, &moves))
		assert.Len(t, moves.Moves, 2)
	})

	t.Run("move is answered by broadcast", func(t *testing.T) {
		reply := send(t, ws.MessageTypeMovePiece, model.SimpleMove{From: model.MustPosition("g1"), To: model.MustPosition("f3")})
		assert.Nil(t, reply)

		reply = send(t, ws.MessageTypeGetCurrentState, nil)
		require.NotNil(t, reply)
		require.Equal(t, ws.MessageTypeGameState, reply.Type)
		var view model.GameView
		require.NoError(t, json.Unmarshal(reply.Payload, &view))
		assert.Equal(t, "Ng1-f3", view.LastNotation)
	})

	t.Run("undo and redo", func(t *testing.T) {
		assert.Nil(t, send(t, ws.MessageTypeGetPreviousState, nil))
		assert.Nil(t, send(t, ws.MessageTypeGetNextState, nil))
	})

	t.Run("errors", func(t *testing.T) {
		for _, reply := range []*ws.Message{
			send(t, ws.MessageTypeMovePiece, model.SimpleMove{From: model.MustPosition("a1"), To: model.MustPosition("a5")}),
			send(t, ws.MessageTypeSelectPromotion, ws.SelectPromotionPayload{Piece: "queen"}),
			send(t, "resign", nil),
			wsc.dispatch(ctx, created.ID, "alice", []byte("{not json")),
		} {
			require.NotNil(t, reply)
			assert.Equal(t, ws.MessageTypeError, reply.Type)
			var payload ws.ErrorPayload
			require.NoError(t, json.Unmarshal(reply.Payload, &payload))
			assert.NotEmpty(t, payload.Error)
		}
	})
}

func TestMatchmakingRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	var match service.Match
	assert.Equal(t, fiber.StatusAccepted, doJSON(t, app, http.MethodPost, "/api/game/matchmaking/join", "alice", nil, &match))
	assert.Equal(t, service.MatchQueued, match.Status)

	assert.Equal(t, fiber.StatusOK, doJSON(t, app, http.MethodPost, "/api/game/matchmaking/join", "bob", nil, &match))
	assert.Equal(t, service.MatchFound, match.Status)
	gameID := match.GameID

	assert.Equal(t, fiber.StatusOK, doJSON(t, app, http.MethodGet, "/api/game/matchmaking/status", "alice", nil, &match))
	assert.Equal(t, service.MatchFound, match.Status)
	assert.Equal(t, gameID, match.GameID)
	assert.Equal(t, model.PlayerColorWhite, match.Color)

	var left struct {
		Left bool `json:"left"`
	}
	assert.Equal(t, fiber.StatusOK, doJSON(t, app, http.MethodPost, "/api/game/matchmaking/leave", "alice", nil, &left))
	assert.False(t, left.Left)
}
