package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func uniformAffinities(a Affinity) []Affinity {
	out := make([]Affinity, piecesPerSide)
	for i := range out {
		out[i] = a
	}
	return out
}

// normalBoard is the initial position with every piece of Normal affinity,
// which makes every capture resolve like plain chess.
func normalBoard(t *testing.T) *Board {
	t.Helper()
	b, err := NewBoardWithAffinities(uniformAffinities(Normal), uniformAffinities(Normal))
	require.NoError(t, err)
	return b
}

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func place(b *Board, square string, kind PieceKind, a Affinity) {
	b.Set(MustPosition(square), Piece{Kind: kind, Affinity: a})
}

// play makes each move in order, failing the test on the first rejection.
func play(t *testing.T, s *GameState, moves ...string) {
	t.Helper()
	for i := 0; i+1 < len(moves); i += 2 {
		from, to := moves[i], moves[i+1]
		require.Truef(t, s.MovePiece(MustPosition(from), MustPosition(to)),
			"move %s-%s rejected\n%s", from, to, s.Board)
	}
}

func destinations(moves []Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.To.String())
	}
	return out
}
