package model

import "math/rand"

// InfoMessage tells the players what the last type interaction did.
type InfoMessage string

const (
	InfoNone                  InfoMessage = ""
	InfoSuperEffective        InfoMessage = "superEffective"
	InfoSuperEffectiveNoMoves InfoMessage = "superEffectiveNoMoves"
	InfoNotVeryEffective      InfoMessage = "notVeryEffective"
	InfoNoEffect              InfoMessage = "noEffect"
)

func infoMessageFor(t InteractionType) InfoMessage {
	switch t {
	case SuperEffective:
		return InfoSuperEffective
	case NotVeryEffective:
		return InfoNotVeryEffective
	case NoEffect:
		return InfoNoEffect
	}
	return InfoNone
}

// GameState wraps a Board with whose turn it is, the winner, the pending
// promotion gate and a turn counter. It is a self-contained snapshot: the
// caller serializes writers, GameState itself does no locking.
type GameState struct {
	Board                 *Board      `json:"board"`
	Player                PlayerColor `json:"player"`
	Winner                Winner      `json:"winner"`
	InfoMessage           InfoMessage `json:"infoMessage"`
	RequirePieceSelection bool        `json:"requirePieceSelection"`
	TurnCount             int         `json:"turnCount"`
}

func NewGameState(rng *rand.Rand) *GameState {
	return NewGameStateFromBoard(NewBoard(rng), PlayerColorWhite)
}

// NewGameStateFromBoard starts play on an arbitrary board with player to move.
func NewGameStateFromBoard(board *Board, player PlayerColor) *GameState {
	return &GameState{
		Board:  board,
		Player: player,
		Winner: board.Winner(player),
	}
}

func (s *GameState) Clone() *GameState {
	c := *s
	c.Board = s.Board.Clone()
	return &c
}

func (s *GameState) IsOver() bool {
	return s.Winner != WinnerNone
}

// GetValidMoves lists the moves the side to move may play from pos. Moves that
// would leave the mover's own king in check are excluded.
func (s *GameState) GetValidMoves(pos Position) []Move {
	if s.IsOver() {
		return []Move{}
	}
	moves := s.Board.LegalMovesForPiece(pos, s.Player)
	if moves == nil {
		return []Move{}
	}
	return moves
}

// MovePiece plays from -> to for the side to move. It returns false, leaving
// the state untouched, when the game is over, a promotion choice is pending or
// the move is not valid.
func (s *GameState) MovePiece(from, to Position) bool {
	if s.IsOver() || s.RequirePieceSelection {
		return false
	}
	if !s.Board.IsMoveLegal(from, to, s.Player) {
		return false
	}

	move, err := s.Board.ExecuteMove(from, to)
	if err != nil {
		return false
	}

	s.InfoMessage = infoMessageFor(move.Interaction)
	// the promotion gate is decided first; the turn holds until the choice is made
	if s.Board.LastMoveRequiresPawnPromotion() {
		s.RequirePieceSelection = true
	} else {
		s.advanceTurn(move)
	}
	s.Winner = s.Board.Winner(s.Player)
	s.TurnCount++
	return true
}

// advanceTurn passes the turn unless move was a super-effective hit and the
// piece that landed can keep going.
func (s *GameState) advanceTurn(move Move) {
	if move.Interaction != SuperEffective {
		s.Player = s.Player.Opponent()
		return
	}
	if len(s.Board.LegalMovesForPiece(move.To, s.Player)) == 0 {
		s.InfoMessage = InfoSuperEffectiveNoMoves
		s.Player = s.Player.Opponent()
	}
}

// SelectPawnPromotionPiece resolves the promotion gate with choice
// ("queen", "rook", "bishop", "knight" or "pawn").
func (s *GameState) SelectPawnPromotionPiece(choice string) error {
	if !s.RequirePieceSelection {
		return ErrNoPromotionPending
	}
	if err := s.Board.SelectPawnPromotionPiece(choice, s.Player); err != nil {
		return err
	}
	s.RequirePieceSelection = false
	if last, ok := s.Board.History.LastMove(); ok {
		s.advanceTurn(last)
	} else {
		s.Player = s.Player.Opponent()
	}
	s.Winner = s.Board.Winner(s.Player)
	return nil
}
