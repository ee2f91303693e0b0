package model

import "golang.org/x/exp/constraints"

const (
	whiteHomeRow    = 0
	blackHomeRow    = BoardSize - 1
	whitePawnRow    = 1
	blackPawnRow    = BoardSize - 2
	kingStartCol    = 4
	queenRookCol    = 0
	kingRookCol     = BoardSize - 1
	whiteEnPassRow  = 4
	blackEnPassRow  = 3
	pawnDoubleSteps = 2
)

// History is the append-only log of executed moves. Castling rights, the en
// passant window, bonus turns and promotion requirements are all derived from it.
type History struct {
	Moves []Move `json:"moves"`
}

func (h *History) Add(m Move) {
	h.Moves = append(h.Moves, m)
}

func (h History) Len() int { return len(h.Moves) }

func (h History) clone() History {
	if h.Moves == nil {
		return History{}
	}
	moves := make([]Move, len(h.Moves))
	copy(moves, h.Moves)
	return History{Moves: moves}
}

func (h History) LastMove() (Move, bool) {
	if len(h.Moves) == 0 {
		return Move{}, false
	}
	return h.Moves[len(h.Moves)-1], true
}

// Disturbed reports whether pos has been left by any piece or entered by a
// piece of type t. Either loses the castling right tied to that square.
func (h History) Disturbed(pos Position, t PieceType) bool {
	for i := len(h.Moves) - 1; i >= 0; i-- {
		m := h.Moves[i]
		if m.From == pos || (m.To == pos && m.PieceKind.Type() == t) {
			return true
		}
	}
	return false
}

func homeRow(color PlayerColor) int {
	if color == PlayerColorWhite {
		return whiteHomeRow
	}
	return blackHomeRow
}

func (h History) CanCastleKingside(color PlayerColor) bool {
	row := homeRow(color)
	return !h.Disturbed(Position{Row: row, Col: kingStartCol}, King) &&
		!h.Disturbed(Position{Row: row, Col: kingRookCol}, Rook)
}

func (h History) CanCastleQueenside(color PlayerColor) bool {
	row := homeRow(color)
	return !h.Disturbed(Position{Row: row, Col: kingStartCol}, King) &&
		!h.Disturbed(Position{Row: row, Col: queenRookCol}, Rook)
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// EnPassantTarget returns the square of a pawn that double-advanced from its
// start rank on the last move.
func (h History) EnPassantTarget() (Position, bool) {
	last, ok := h.LastMove()
	if !ok || last.PieceKind.Type() != Pawn {
		return Position{}, false
	}
	if abs(last.To.Row-last.From.Row) != pawnDoubleSteps || last.From.Col != last.To.Col {
		return Position{}, false
	}
	startRow := whitePawnRow
	if last.PieceKind.IsBlack() {
		startRow = blackPawnRow
	}
	if last.From.Row != startRow {
		return Position{}, false
	}
	return last.To, true
}

// LastSuperEffective returns the landing square and kind of the piece that
// scored a super-effective hit on the last move.
func (h History) LastSuperEffective() (Position, PieceKind, bool) {
	last, ok := h.LastMove()
	if !ok || last.Interaction != SuperEffective {
		return Position{}, Empty, false
	}
	return last.To, last.PieceKind, true
}

// LastInteraction is the outcome of the last move, or InteractionEmpty before any move.
func (h History) LastInteraction() InteractionType {
	last, ok := h.LastMove()
	if !ok {
		return InteractionEmpty
	}
	return last.Interaction
}

func promotionRow(color PlayerColor) int {
	return homeRow(color.Opponent())
}
