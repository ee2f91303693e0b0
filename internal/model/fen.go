package model

import "github.com/notnil/chess"

var chessPieces = map[PieceKind]chess.Piece{
	WhitePawn:   chess.WhitePawn,
	WhiteKnight: chess.WhiteKnight,
	WhiteBishop: chess.WhiteBishop,
	WhiteRook:   chess.WhiteRook,
	WhiteQueen:  chess.WhiteQueen,
	WhiteKing:   chess.WhiteKing,
	BlackPawn:   chess.BlackPawn,
	BlackKnight: chess.BlackKnight,
	BlackBishop: chess.BlackBishop,
	BlackRook:   chess.BlackRook,
	BlackQueen:  chess.BlackQueen,
	BlackKing:   chess.BlackKing,
}

func (k PieceKind) chessPiece() chess.Piece {
	if p, ok := chessPieces[k]; ok {
		return p
	}
	return chess.NoPiece
}

// chessBoard is the board without affinities.
func (b *Board) chessBoard() *chess.Board {
	squares := make(map[chess.Square]chess.Piece)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			pos := Position{Row: row, Col: col}
			if p := b.At(pos).Kind.chessPiece(); p != chess.NoPiece {
				squares[pos.square()] = p
			}
		}
	}
	return chess.NewBoard(squares)
}

// Placement is the FEN piece placement field of the board, e.g.
// "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR". Affinities are not part of it.
func (b *Board) Placement() string {
	return b.chessBoard().String()
}
