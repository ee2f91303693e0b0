package model

import "fmt"

// Castle is the rook relocation bound to a castling king move.
type Castle struct {
	RookFrom Position `json:"rookFrom"`
	RookTo   Position `json:"rookTo"`
}

// Capture records the square and piece taken by a move. For en passant the
// square differs from the move's destination.
type Capture struct {
	Square Position `json:"square"`
	Piece  Piece    `json:"piece"`
}

type Move struct {
	PieceKind   PieceKind       `json:"pieceKind"`
	From        Position        `json:"from"`
	To          Position        `json:"to"`
	Interaction InteractionType `json:"interaction"`
	Capture     *Capture        `json:"capture,omitempty"`
	Castle      *Castle         `json:"castle,omitempty"`
}

// SimpleMove is a from/to pair as submitted by clients.
type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

func (m Move) IsCastle() bool { return m.Castle != nil }

func (m Move) IsEnPassant() bool {
	return m.Capture != nil && m.Capture.Square != m.To
}

// Notation renders a short, human readable form of the move, e.g. "Nb1-c3" or "Pe4xd5".
func (m Move) Notation() string {
	if m.Castle != nil {
		if m.Castle.RookFrom.Col == 0 {
			return "O-O-O"
		}
		return "O-O"
	}
	sep := "-"
	if m.Capture != nil {
		sep = "x"
	}
	s := fmt.Sprintf("%s%s%s%s", m.PieceKind.Type().getPieceNotation(), m.From, sep, m.To)
	if m.IsEnPassant() {
		s += " e.p."
	}
	return s
}
