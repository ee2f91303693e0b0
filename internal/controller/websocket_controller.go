package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/typechess-backend/internal/middleware"
	"github.com/benbeisheim/typechess-backend/internal/model"
	"github.com/benbeisheim/typechess-backend/internal/service"
	"github.com/benbeisheim/typechess-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection serves one client until it disconnects. Actions that change
// the game are answered by the broadcast that follows them; queries are
// answered on this connection only.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	ctx := context.Background()

	connID, err := wsc.gameService.RegisterConnection(ctx, gameID, playerID, c)
	if err != nil {
		log.Warnf("failed to register connection for player %s in game %s: %v", playerID, gameID, err)
		_ = c.WriteJSON(ws.NewErrorMessage(err))
		_ = c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, connID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("read error for player %s in game %s: %v", playerID, gameID, err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		reply := wsc.dispatch(ctx, gameID, playerID, message)
		if reply == nil {
			continue
		}
		if err := wsc.gameService.Reply(gameID, connID, *reply); err != nil {
			log.Warnf("write error for player %s in game %s: %v", playerID, gameID, err)
			return
		}
	}
}

// dispatch decodes and handles one frame, turning failures into error replies.
func (wsc *WebSocketController) dispatch(ctx context.Context, gameID, playerID string, raw []byte) *ws.Message {
	var msg ws.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		errMsg := ws.NewErrorMessage(fmt.Errorf("%w: malformed message: %v", service.ErrBadRequest, err))
		return &errMsg
	}
	reply, err := wsc.handleMessage(ctx, gameID, playerID, msg)
	if err != nil {
		log.Debugf("game %s: %s from %s failed: %v", gameID, msg.Type, playerID, err)
		errMsg := ws.NewErrorMessage(err)
		return &errMsg
	}
	return reply
}

func (wsc *WebSocketController) handleMessage(ctx context.Context, gameID, playerID string, msg ws.Message) (*ws.Message, error) {
	switch msg.Type {
	case ws.MessageTypeGetMoves:
		var req ws.GetMovesPayload
		if err := decodePayload(msg, &req); err != nil {
			return nil, err
		}
		moves, err := wsc.gameService.GetValidMoves(ctx, gameID, req.Position)
		if err != nil {
			return nil, err
		}
		return newReply(ws.MessageTypeMoves, ws.MovesPayload{Position: req.Position, Moves: moves})

	case ws.MessageTypeMovePiece:
		var move model.SimpleMove
		if err := decodePayload(msg, &move); err != nil {
			return nil, err
		}
		_, err := wsc.gameService.HandleMove(ctx, gameID, playerID, move)
		return nil, err

	case ws.MessageTypeSelectPromotion:
		var req ws.SelectPromotionPayload
		if err := decodePayload(msg, &req); err != nil {
			return nil, err
		}
		_, err := wsc.gameService.SelectPromotion(ctx, gameID, playerID, req.Piece)
		return nil, err

	case ws.MessageTypeGetPreviousState:
		_, err := wsc.gameService.PreviousState(ctx, gameID, playerID)
		return nil, err

	case ws.MessageTypeGetNextState:
		_, err := wsc.gameService.NextState(ctx, gameID, playerID)
		return nil, err

	case ws.MessageTypeGetCurrentState:
		view, err := wsc.gameService.GetGameState(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return newReply(ws.MessageTypeGameState, view)

	default:
		return nil, fmt.Errorf("%w: unknown message type: %s", service.ErrBadRequest, msg.Type)
	}
}

func decodePayload(msg ws.Message, v any) error {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%w: %s payload: %v", service.ErrBadRequest, msg.Type, err)
	}
	return nil
}

func newReply(t ws.MessageType, payload any) (*ws.Message, error) {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
