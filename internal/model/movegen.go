package model

var (
	rookDirs    = []Position{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}}
	bishopDirs  = []Position{{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	queenDirs   = append(append([]Position{}, rookDirs...), bishopDirs...)
	kingSteps   = queenDirs
	knightJumps = []Position{
		{Row: 2, Col: 1}, {Row: 2, Col: -1}, {Row: -2, Col: 1}, {Row: -2, Col: -1},
		{Row: 1, Col: 2}, {Row: 1, Col: -2}, {Row: -1, Col: 2}, {Row: -1, Col: -2},
	}
)

// PseudoLegalMoves lists the moves of the piece on pos following movement rules
// and occupancy, without checking whether the mover's king is left attacked.
// Moves carry no interaction yet.
func (b *Board) PseudoLegalMoves(pos Position) []Move {
	return b.generateMoves(pos, true)
}

// AttackMoves lists the squares the piece on pos attacks. Pawns attack both
// forward diagonals whether or not they are occupied; castling is never included,
// so attack detection cannot recurse into castling legality.
func (b *Board) AttackMoves(pos Position) []Move {
	if !pos.InBounds() {
		return nil
	}
	piece := b.At(pos)
	if piece.Kind.Type() == Pawn {
		return b.pawnAttacks(piece, pos)
	}
	return b.generateMoves(pos, false)
}

func (b *Board) generateMoves(pos Position, withCastling bool) []Move {
	if !pos.InBounds() {
		return nil
	}
	piece := b.At(pos)
	switch piece.Kind.Type() {
	case Pawn:
		return b.getPseudoPawnMoves(piece, pos)
	case Knight:
		return b.stepMoves(piece, pos, knightJumps)
	case Bishop:
		return b.slideMoves(piece, pos, bishopDirs)
	case Rook:
		return b.slideMoves(piece, pos, rookDirs)
	case Queen:
		return b.slideMoves(piece, pos, queenDirs)
	case King:
		moves := b.stepMoves(piece, pos, kingSteps)
		if withCastling {
			moves = append(moves, b.getCastleMoves(piece, pos)...)
		}
		return moves
	default:
		return nil
	}
}

func (b *Board) newMove(piece Piece, from, to Position) Move {
	m := Move{PieceKind: piece.Kind, From: from, To: to}
	if target := b.At(to); !target.IsEmpty() {
		m.Capture = &Capture{Square: to, Piece: target}
	}
	return m
}

func pawnDirection(kind PieceKind) int {
	if kind.IsWhite() {
		return 1
	}
	return -1
}

func (b *Board) getPseudoPawnMoves(piece Piece, from Position) []Move {
	var moves []Move
	dir := pawnDirection(piece.Kind)

	// forward one, and two from the start rank
	one := from.offset(dir, 0)
	if one.InBounds() && b.At(one).IsEmpty() {
		moves = append(moves, b.newMove(piece, from, one))
		startRow := whitePawnRow
		if piece.Kind.IsBlack() {
			startRow = blackPawnRow
		}
		two := from.offset(2*dir, 0)
		if from.Row == startRow && two.InBounds() && b.At(two).IsEmpty() {
			moves = append(moves, b.newMove(piece, from, two))
		}
	}

	for _, dCol := range []int{-1, 1} {
		to := from.offset(dir, dCol)
		if !to.InBounds() {
			continue
		}
		if piece.Kind.IsOpponentOf(b.At(to).Kind) {
			moves = append(moves, b.newMove(piece, from, to))
		}
	}

	return append(moves, b.getEnPassantMoves(piece, from)...)
}

func (b *Board) getEnPassantMoves(piece Piece, from Position) []Move {
	row := whiteEnPassRow
	if piece.Kind.IsBlack() {
		row = blackEnPassRow
	}
	if from.Row != row {
		return nil
	}
	target, ok := b.History.EnPassantTarget()
	if !ok || target.Row != from.Row || abs(target.Col-from.Col) != 1 {
		return nil
	}
	// the double-advanced pawn must still be standing where it landed
	victim := b.At(target)
	if victim.Kind.Type() != Pawn || !piece.Kind.IsOpponentOf(victim.Kind) {
		return nil
	}
	to := target.offset(pawnDirection(piece.Kind), 0)
	if !to.InBounds() || !b.At(to).IsEmpty() {
		return nil
	}
	return []Move{{
		PieceKind: piece.Kind,
		From:      from,
		To:        to,
		Capture:   &Capture{Square: target, Piece: victim},
	}}
}

func (b *Board) pawnAttacks(piece Piece, from Position) []Move {
	var moves []Move
	dir := pawnDirection(piece.Kind)
	for _, dCol := range []int{-1, 1} {
		to := from.offset(dir, dCol)
		if !to.InBounds() {
			continue
		}
		if target := b.At(to); target.IsEmpty() || piece.Kind.IsOpponentOf(target.Kind) {
			moves = append(moves, b.newMove(piece, from, to))
		}
	}
	return moves
}

func (b *Board) stepMoves(piece Piece, from Position, offsets []Position) []Move {
	var moves []Move
	for _, d := range offsets {
		to := from.offset(d.Row, d.Col)
		if !to.InBounds() {
			continue
		}
		if target := b.At(to); target.IsEmpty() || piece.Kind.IsOpponentOf(target.Kind) {
			moves = append(moves, b.newMove(piece, from, to))
		}
	}
	return moves
}

func (b *Board) slideMoves(piece Piece, from Position, dirs []Position) []Move {
	var moves []Move
	for _, d := range dirs {
		for to := from.offset(d.Row, d.Col); to.InBounds(); to = to.offset(d.Row, d.Col) {
			target := b.At(to)
			if target.IsEmpty() {
				moves = append(moves, b.newMove(piece, from, to))
				continue
			}
			if piece.Kind.IsOpponentOf(target.Kind) {
				moves = append(moves, b.newMove(piece, from, to))
			}
			break
		}
	}
	return moves
}

func (b *Board) getCastleMoves(king Piece, from Position) []Move {
	color, ok := king.Kind.Color()
	if !ok || from != (Position{Row: homeRow(color), Col: kingStartCol}) {
		return nil
	}
	var moves []Move
	if b.History.CanCastleKingside(color) {
		if m, ok := b.castleMove(king, color, from, kingRookCol); ok {
			moves = append(moves, m)
		}
	}
	if b.History.CanCastleQueenside(color) {
		if m, ok := b.castleMove(king, color, from, queenRookCol); ok {
			moves = append(moves, m)
		}
	}
	return moves
}

func (b *Board) castleMove(king Piece, color PlayerColor, from Position, rookCol int) (Move, bool) {
	rookFrom := Position{Row: from.Row, Col: rookCol}
	if b.At(rookFrom).Kind != NewPieceKind(color, Rook) {
		return Move{}, false
	}
	dir := 1
	if rookCol < from.Col {
		dir = -1
	}
	for col := from.Col + dir; col != rookCol; col += dir {
		if !b.At(Position{Row: from.Row, Col: col}).IsEmpty() {
			return Move{}, false
		}
	}
	// the king may not start on, pass through or land on an attacked square
	opponent := color.Opponent()
	for i := 0; i <= 2; i++ {
		if b.IsSquareAttacked(from.offset(0, i*dir), opponent) {
			return Move{}, false
		}
	}
	return Move{
		PieceKind: king.Kind,
		From:      from,
		To:        from.offset(0, 2*dir),
		Castle: &Castle{
			RookFrom: rookFrom,
			RookTo:   from.offset(0, dir),
		},
	}, true
}

// IsSquareAttacked reports whether any piece of attacker attacks pos.
func (b *Board) IsSquareAttacked(pos Position, attacker PlayerColor) bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			from := Position{Row: row, Col: col}
			if !b.At(from).Kind.BelongsTo(attacker) {
				continue
			}
			for _, m := range b.AttackMoves(from) {
				if m.To == pos {
					return true
				}
			}
		}
	}
	return false
}
