package ws

import (
	"encoding/json"

	"github.com/benbeisheim/typechess-backend/internal/model"
)

// MessageType names both the actions a client sends and the replies it receives.
type MessageType string

const (
	// client actions
	MessageTypeGetMoves         MessageType = "getMoves"
	MessageTypeMovePiece        MessageType = "movePiece"
	MessageTypeSelectPromotion  MessageType = "selectPromotion"
	MessageTypeGetPreviousState MessageType = "getPreviousState"
	MessageTypeGetNextState     MessageType = "getNextState"
	MessageTypeGetCurrentState  MessageType = "getCurrentState"

	// server replies
	MessageTypeMoves     MessageType = "moves"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message is the envelope of every WebSocket frame.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type GetMovesPayload struct {
	Position model.Position `json:"position"`
}

type MovesPayload struct {
	Position model.Position `json:"position"`
	Moves    []model.Move   `json:"moves"`
}

type SelectPromotionPayload struct {
	Piece string `json:"piece"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

func NewMessage(t MessageType, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}

func NewErrorMessage(err error) Message {
	// ErrorPayload always marshals
	msg, _ := NewMessage(MessageTypeError, ErrorPayload{Error: err.Error()})
	return msg
}
