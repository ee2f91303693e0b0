package model

import "errors"

var (
	ErrIllegalMove            = errors.New("illegal move")
	ErrPromotionPending       = errors.New("pawn promotion pending")
	ErrNoPromotionPending     = errors.New("no pawn promotion pending")
	ErrNoLastMove             = errors.New("no move has been played")
	ErrInvalidPromotionChoice = errors.New("invalid promotion choice")
	ErrGameOver               = errors.New("game is over")
	ErrGameFull               = errors.New("game is full")
	ErrNotYourTurn            = errors.New("not your turn")
	ErrNotInGame              = errors.New("player is not seated in this game")
	ErrNoPreviousState        = errors.New("no previous state")
	ErrNoNextState            = errors.New("no next state")
	ErrAlreadyQueued          = errors.New("player already in queue")
)
