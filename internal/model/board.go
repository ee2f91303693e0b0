package model

import (
	"fmt"
	"math/rand"
	"strings"
)

type Winner string

const (
	WinnerWhite Winner = "white"
	WinnerBlack Winner = "black"
	WinnerTie   Winner = "tie"
	WinnerNone  Winner = "none"
)

func winnerFor(color PlayerColor) Winner {
	if color == PlayerColorWhite {
		return WinnerWhite
	}
	return WinnerBlack
}

// Board is the 8x8 grid plus the history of moves that produced it.
// Row 0 is White's back rank; every square always holds a Piece value.
type Board struct {
	Squares [BoardSize][BoardSize]Piece `json:"squares"`
	History History                     `json:"history"`
}

var backRank = [BoardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

const piecesPerSide = 2 * BoardSize

// NewEmptyBoard returns a board with every square empty and no history.
func NewEmptyBoard() *Board {
	b := &Board{}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			b.Squares[row][col] = EmptyPiece()
		}
	}
	return b
}

// NewBoard sets up the initial position, dealing each side distinct random affinities.
func NewBoard(rng *rand.Rand) *Board {
	b, err := NewBoardWithAffinities(ShuffledAffinities(rng), ShuffledAffinities(rng))
	if err != nil {
		// both decks hold 18 affinities
		panic(err)
	}
	return b
}

// NewBoardWithAffinities sets up the initial position. Each slice assigns
// affinities to the back rank from the a-file to the h-file, then to the pawns
// from the a-file to the h-file.
func NewBoardWithAffinities(white, black []Affinity) (*Board, error) {
	if len(white) < piecesPerSide || len(black) < piecesPerSide {
		return nil, fmt.Errorf("need %d affinities per side, got %d white and %d black",
			piecesPerSide, len(white), len(black))
	}
	b := NewEmptyBoard()
	for col, t := range backRank {
		b.Squares[whiteHomeRow][col] = Piece{Kind: NewPieceKind(PlayerColorWhite, t), Affinity: white[col]}
		b.Squares[whitePawnRow][col] = Piece{Kind: WhitePawn, Affinity: white[BoardSize+col]}
		b.Squares[blackHomeRow][col] = Piece{Kind: NewPieceKind(PlayerColorBlack, t), Affinity: black[col]}
		b.Squares[blackPawnRow][col] = Piece{Kind: BlackPawn, Affinity: black[BoardSize+col]}
	}
	return b, nil
}

// At returns the piece on pos, or the empty piece when pos is off the board.
func (b *Board) At(pos Position) Piece {
	if !pos.InBounds() {
		return EmptyPiece()
	}
	return b.Squares[pos.Row][pos.Col]
}

// Set places piece on pos; used for custom setups.
func (b *Board) Set(pos Position, piece Piece) {
	if !pos.InBounds() {
		return
	}
	b.Squares[pos.Row][pos.Col] = piece
}

func (b *Board) clear(pos Position) {
	b.Set(pos, EmptyPiece())
}

func (b *Board) Clone() *Board {
	return &Board{Squares: b.Squares, History: b.History.clone()}
}

func (b *Board) FindKing(color PlayerColor) (Position, bool) {
	king := NewPieceKind(color, King)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b.Squares[row][col].Kind == king {
				return Position{Row: row, Col: col}, true
			}
		}
	}
	return Position{}, false
}

// annotatedMoves returns the pseudo-legal moves of player's piece on pos with
// their type interaction filled in. It ignores any bonus-turn restriction.
func (b *Board) annotatedMoves(pos Position, player PlayerColor) []Move {
	piece := b.At(pos)
	if !piece.Kind.BelongsTo(player) {
		return nil
	}
	moves := b.PseudoLegalMoves(pos)
	for i := range moves {
		moves[i].Interaction = Matchup(piece.Affinity, b.At(moves[i].To).Affinity)
	}
	return moves
}

// PossibleMovesForPiece lists player's pseudo-legal moves from pos annotated
// with their type interaction. Right after a super-effective hit by player, only
// the piece that landed may move.
func (b *Board) PossibleMovesForPiece(pos Position, player PlayerColor) []Move {
	moves := b.annotatedMoves(pos, player)
	if landed, kind, ok := b.History.LastSuperEffective(); ok && kind.BelongsTo(player) && landed != pos {
		return nil
	}
	return moves
}

func findMove(moves []Move, to Position) (Move, bool) {
	for _, m := range moves {
		if m.To == to {
			return m, true
		}
	}
	return Move{}, false
}

// IsMoveValid reports whether from -> to is one of player's possible moves.
// It does not look at check; see IsMoveLegal.
func (b *Board) IsMoveValid(from, to Position, player PlayerColor) bool {
	_, ok := findMove(b.PossibleMovesForPiece(from, player), to)
	return ok
}

// IsMoveLegal is IsMoveValid for moves that also keep player's king out of check.
func (b *Board) IsMoveLegal(from, to Position, player PlayerColor) bool {
	_, ok := findMove(b.LegalMovesForPiece(from, player), to)
	return ok
}

// LegalMovesForPiece is PossibleMovesForPiece without the moves that leave
// player's own king in check.
func (b *Board) LegalMovesForPiece(pos Position, player PlayerColor) []Move {
	return b.withoutSelfCheck(b.PossibleMovesForPiece(pos, player), player)
}

func (b *Board) withoutSelfCheck(moves []Move, player PlayerColor) []Move {
	var legal []Move
	for _, m := range moves {
		sim := b.Clone()
		sim.apply(m)
		if !sim.IsKingInCheck(player) {
			legal = append(legal, m)
		}
	}
	return legal
}

// ExecuteMove plays the move from -> to for the owner of the piece on from,
// resolving the type interaction, and returns the recorded move.
func (b *Board) ExecuteMove(from, to Position) (Move, error) {
	color, ok := b.At(from).Kind.Color()
	if !ok {
		return Move{}, fmt.Errorf("%w: no piece on %s", ErrIllegalMove, from)
	}
	if !b.IsMoveValid(from, to, color) {
		return Move{}, fmt.Errorf("%w: %s to %s", ErrIllegalMove, from, to)
	}
	m, _ := findMove(b.PossibleMovesForPiece(from, color), to)
	b.apply(m)
	return m, nil
}

func (b *Board) apply(m Move) {
	switch m.Interaction {
	case NotVeryEffective:
		// both pieces are destroyed
		b.clear(m.From)
		b.clear(m.To)
	case NoEffect:
		// the attack bounces off
	default:
		piece := b.At(m.From)
		if m.Capture != nil {
			b.clear(m.Capture.Square)
		}
		if m.Castle != nil {
			b.Set(m.Castle.RookTo, b.At(m.Castle.RookFrom))
			b.clear(m.Castle.RookFrom)
		}
		b.clear(m.From)
		b.Set(m.To, piece)
	}
	b.History.Add(m)
}

// IsKingInCheck reports whether player's king is attacked. A missing king is never in check.
func (b *Board) IsKingInCheck(player PlayerColor) bool {
	king, ok := b.FindKing(player)
	if !ok {
		return false
	}
	return b.IsSquareAttacked(king, player.Opponent())
}

// Winner decides the game from the perspective of the side to move. Kings can be
// destroyed by type interactions, so missing kings decide the game directly.
// Otherwise current loses only when its king is attacked and the king itself has
// no legal move; the rest of its army is not considered.
func (b *Board) Winner(current PlayerColor) Winner {
	opponent := current.Opponent()
	king, hasKing := b.FindKing(current)
	_, opponentHasKing := b.FindKing(opponent)

	switch {
	case !hasKing && !opponentHasKing:
		return WinnerTie
	case !hasKing:
		return winnerFor(opponent)
	case !opponentHasKing:
		return winnerFor(current)
	}

	if b.IsSquareAttacked(king, opponent) &&
		len(b.withoutSelfCheck(b.annotatedMoves(king, current), current)) == 0 {
		return winnerFor(opponent)
	}
	return WinnerNone
}

// LastMoveRequiresPawnPromotion is true when the last move left a pawn standing
// on the far rank.
func (b *Board) LastMoveRequiresPawnPromotion() bool {
	last, ok := b.History.LastMove()
	if !ok || last.PieceKind.Type() != Pawn {
		return false
	}
	color, _ := last.PieceKind.Color()
	return last.To.Row == promotionRow(color) && b.At(last.To).Kind == last.PieceKind
}

// SelectPawnPromotionPiece replaces the piece on the last move's destination
// with player's choice, keeping its affinity.
func (b *Board) SelectPawnPromotionPiece(choice string, player PlayerColor) error {
	last, ok := b.History.LastMove()
	if !ok {
		return ErrNoLastMove
	}
	t, err := ParsePieceType(choice)
	if err != nil {
		return err
	}
	current := b.At(last.To)
	if current.Kind != NewPieceKind(player, Pawn) {
		return fmt.Errorf("%w: no %s pawn on %s", ErrNoPromotionPending, player, last.To)
	}
	b.Set(last.To, Piece{Kind: NewPieceKind(player, t), Affinity: current.Affinity})
	return nil
}

func formatPiece(p Piece) string {
	if p.IsEmpty() {
		return "       "
	}
	color := "W"
	if p.Kind.IsBlack() {
		color = "B"
	}
	name := p.Affinity.String()
	if len(name) > 4 {
		name = name[:4]
	}
	return fmt.Sprintf("%s%s %-4s", color, p.Kind.Type().getPieceNotation(), name)
}

// String renders the board with White at the bottom.
func (b *Board) String() string {
	var sb strings.Builder
	for row := BoardSize - 1; row >= 0; row-- {
		fmt.Fprintf(&sb, "%d ", row+1)
		for col := 0; col < BoardSize; col++ {
			fmt.Fprintf(&sb, "|%s", formatPiece(b.Squares[row][col]))
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("  ")
	for col := 0; col < BoardSize; col++ {
		fmt.Fprintf(&sb, "    %c   ", 'a'+col)
	}
	sb.WriteString("\n")
	return sb.String()
}
