package model

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

const BoardSize = 8

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

func (c PlayerColor) Opponent() PlayerColor {
	if c == PlayerColorWhite {
		return PlayerColorBlack
	}
	return PlayerColorWhite
}

func (c PlayerColor) Valid() bool {
	return c == PlayerColorWhite || c == PlayerColorBlack
}

// PieceType names a piece's role independent of its colour.
type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	}
	return ""
}

// ParsePieceType accepts a promotion choice such as "Queen" or "knight".
func ParsePieceType(s string) (PieceType, error) {
	switch t := PieceType(strings.ToLower(strings.TrimSpace(s))); t {
	case Queen, Rook, Bishop, Knight, Pawn:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPromotionChoice, s)
}

// PieceKind encodes presence, colour and role of whatever occupies a square.
type PieceKind int

const (
	Empty PieceKind = iota
	WhitePawn
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
)

var pieceKindNames = [...]string{
	"empty",
	"whitePawn", "whiteKnight", "whiteBishop", "whiteRook", "whiteQueen", "whiteKing",
	"blackPawn", "blackKnight", "blackBishop", "blackRook", "blackQueen", "blackKing",
}

var pieceTypeOrder = [...]PieceType{Pawn, Knight, Bishop, Rook, Queen, King}

// NewPieceKind combines a colour and a role.
func NewPieceKind(color PlayerColor, t PieceType) PieceKind {
	for i, candidate := range pieceTypeOrder {
		if candidate != t {
			continue
		}
		if color == PlayerColorWhite {
			return WhitePawn + PieceKind(i)
		}
		return BlackPawn + PieceKind(i)
	}
	return Empty
}

func (k PieceKind) IsEmpty() bool { return k == Empty }
func (k PieceKind) IsWhite() bool { return k >= WhitePawn && k <= WhiteKing }
func (k PieceKind) IsBlack() bool { return k >= BlackPawn && k <= BlackKing }

// Color reports the owner of the piece; ok is false for empty squares.
func (k PieceKind) Color() (color PlayerColor, ok bool) {
	switch {
	case k.IsWhite():
		return PlayerColorWhite, true
	case k.IsBlack():
		return PlayerColorBlack, true
	}
	return "", false
}

func (k PieceKind) BelongsTo(color PlayerColor) bool {
	c, ok := k.Color()
	return ok && c == color
}

// IsOpponentOf is true when both kinds are pieces of different colours.
func (k PieceKind) IsOpponentOf(other PieceKind) bool {
	return (k.IsWhite() && other.IsBlack()) || (k.IsBlack() && other.IsWhite())
}

func (k PieceKind) Type() PieceType {
	switch {
	case k.IsWhite():
		return pieceTypeOrder[k-WhitePawn]
	case k.IsBlack():
		return pieceTypeOrder[k-BlackPawn]
	}
	return ""
}

func (k PieceKind) String() string {
	if k < Empty || k > BlackKing {
		return fmt.Sprintf("PieceKind(%d)", int(k))
	}
	return pieceKindNames[k]
}

func (k PieceKind) MarshalText() ([]byte, error) {
	if k < Empty || k > BlackKing {
		return nil, fmt.Errorf("invalid piece kind %d", int(k))
	}
	return []byte(pieceKindNames[k]), nil
}

func (k *PieceKind) UnmarshalText(text []byte) error {
	for i, name := range pieceKindNames {
		if name == string(text) {
			*k = PieceKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown piece kind %q", string(text))
}

type Piece struct {
	Kind     PieceKind `json:"kind"`
	Affinity Affinity  `json:"affinity"`
}

// EmptyPiece is the value held by every unoccupied square.
func EmptyPiece() Piece {
	return Piece{Kind: Empty, Affinity: NoType}
}

func (p Piece) IsEmpty() bool { return p.Kind.IsEmpty() }

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

func (p Position) offset(dRow, dCol int) Position {
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

func (p Position) square() chess.Square {
	return chess.Square(p.Row*BoardSize + p.Col)
}

// String returns the algebraic square name, e.g. "e1" for {0, 4}.
func (p Position) String() string {
	if !p.InBounds() {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return p.square().String()
}

// ParsePosition converts an algebraic square name such as "e2".
func ParsePosition(s string) (Position, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if len(name) != 2 {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	for f := chess.FileA; f <= chess.FileH; f++ {
		if f.String() != name[:1] {
			continue
		}
		for r := chess.Rank1; r <= chess.Rank8; r++ {
			if r.String() == name[1:] {
				return Position{Row: int(r), Col: int(f)}, nil
			}
		}
	}
	return Position{}, fmt.Errorf("invalid square %q", s)
}

// MustPosition is ParsePosition for literals known to be valid.
func MustPosition(s string) Position {
	p, err := ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return p
}
