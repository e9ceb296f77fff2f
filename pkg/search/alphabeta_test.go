package search_test

import (
	"context"
	"testing"

	"github.com/herohde/gyrfalcon/pkg/board"
	"github.com/herohde/gyrfalcon/pkg/board/fen"
	"github.com/herohde/gyrfalcon/pkg/eval"
	"github.com/herohde/gyrfalcon/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSearchBoard(t *testing.T, f string) *board.Board {
	t.Helper()
	pos, turn, np, fm, err := fen.Decode(f)
	require.NoError(t, err)
	return board.NewBoard(board.NewZobristTable(0), pos, turn, np, fm)
}

func TestAlphaBeta_ScoresAtDepth3(t *testing.T) {
	ctx := context.Background()
	ab := search.AlphaBeta{Eval: search.Quiescence{Eval: eval.NewClassical(0, 1)}}

	// The initial position is symmetric, but at an odd depth White makes one more move than
	// Black, which the piece-square tables reward. Kiwipete is not symmetric.
	tests := []struct {
		fen   string
		score board.Score
	}{
		{fen.Initial, 20},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 143},
	}
	for _, tt := range tests {
		b := mustSearchBoard(t, tt.fen)
		sctx := &search.Context{Alpha: board.MinScore, Beta: board.MaxScore, TT: search.NoTranspositionTable{}}

		_, score, _, err := ab.Search(ctx, sctx, b, 3)
		require.NoError(t, err)
		assert.Equal(t, tt.score, score, "unexpected depth-3 score: %v", tt.fen)
	}
}

func TestAlphaBeta_FindsForcedMate(t *testing.T) {
	ctx := context.Background()
	ab := search.AlphaBeta{Eval: search.Quiescence{Eval: eval.NewClassical(0, 1)}}

	// Two rooks force mate on the back rank in a handful of plies.
	b := mustSearchBoard(t, "k7/7R/6R1/8/8/8/8/7K w - - 0 1")
	sctx := &search.Context{Alpha: board.MinScore, Beta: board.MaxScore, TT: search.NoTranspositionTable{}}

	_, score, moves, err := ab.Search(ctx, sctx, b, 3)
	require.NoError(t, err)
	require.NotEmpty(t, moves)
	assert.True(t, score.IsMate())
	assert.Greater(t, int(score), 0)
}

func TestAlphaBeta_AgreesWithMinimax(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping minimax comparison test")
	}
	ctx := context.Background()

	minimax := search.Minimax{Eval: eval.NewClassical(0, 1)}
	ab := search.AlphaBeta{Eval: search.Quiescence{Explore: noQuiescence, Eval: eval.NewClassical(0, 1)}}

	tests := []string{
		fen.Initial,
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, f := range tests {
		b := mustSearchBoard(t, f)
		sctx := &search.Context{Alpha: board.MinScore, Beta: board.MaxScore, TT: search.NoTranspositionTable{}}

		n, actual, _, err := ab.Search(ctx, sctx, b, 3)
		require.NoError(t, err)

		m, expected, _, err := minimax.Search(ctx, b, 3, make(chan struct{}))
		require.NoError(t, err)

		t.Logf("POS: %v; NODES: %v (minimax %v)", f, n, m)
		assert.LessOrEqualf(t, n, m, "more than minimax nodes: %v", f)
		assert.Equalf(t, expected, actual, "failed: %v", f)
	}
}

// noQuiescence disables the quiescence recursion so AlphaBeta's depth-0 leaves compare
// directly against Minimax's, which has no quiescence of its own.
func noQuiescence(b *board.Board) (board.MovePriorityFn, search.MovePredicate) {
	return search.MVVLVA, search.NoMove
}
