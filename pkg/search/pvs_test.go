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

func TestPVS_InitialPositionScoreAtDepth3(t *testing.T) {
	ctx := context.Background()
	pvs := search.PVS{Eval: search.Quiescence{Eval: eval.NewClassical(0, 1)}}

	b := mustSearchBoard(t, fen.Initial)
	sctx := &search.Context{Alpha: board.MinScore, Beta: board.MaxScore, TT: search.NoTranspositionTable{}}

	// Same value as AlphaBeta: at depth 3 White's extra move is worth 20 centipawns.
	_, score, _, err := pvs.Search(ctx, sctx, b, 3)
	require.NoError(t, err)
	assert.Equal(t, board.Score(20), score)
}

func TestPVS_AgreesWithAlphaBeta(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping alpha-beta comparison test")
	}
	ctx := context.Background()

	tests := []string{
		fen.Initial,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, f := range tests {
		b := mustSearchBoard(t, f)

		pvs := search.PVS{Eval: search.Quiescence{Eval: eval.NewClassical(0, 1)}}
		ab := search.AlphaBeta{Eval: search.Quiescence{Eval: eval.NewClassical(0, 1)}}

		sctx1 := &search.Context{Alpha: board.MinScore, Beta: board.MaxScore, TT: search.NoTranspositionTable{}}
		sctx2 := &search.Context{Alpha: board.MinScore, Beta: board.MaxScore, TT: search.NoTranspositionTable{}}

		_, actual, _, err := pvs.Search(ctx, sctx1, b, 3)
		require.NoError(t, err)
		_, expected, _, err := ab.Search(ctx, sctx2, b, 3)
		require.NoError(t, err)

		assert.Equalf(t, expected, actual, "failed: %v", f)
	}
}

// TestPVS_RepeatedSearchKeepsBestMoveWithPersistentTT guards against a transposition hit at or
// near the root short-circuiting with no principal variation: searching the same position at the
// same depth twice against one warm table must still return a legal best move both times.
func TestPVS_RepeatedSearchKeepsBestMoveWithPersistentTT(t *testing.T) {
	ctx := context.Background()
	pvs := search.PVS{Eval: search.Quiescence{Eval: eval.NewClassical(0, 1)}, Prune: true}

	b := mustSearchBoard(t, "k7/7R/6R1/8/8/8/8/7K w - - 0 1")
	tt := search.NewTranspositionTable(ctx, 1<<20)

	for i := 0; i < 2; i++ {
		sctx := &search.Context{Alpha: board.MinScore, Beta: board.MaxScore, TT: tt}

		_, score, moves, err := pvs.Search(ctx, sctx, b, 3)
		require.NoError(t, err)
		require.NotEmptyf(t, moves, "run %d: empty principal variation against a warm transposition table", i)
		assert.True(t, score.IsMate())
	}
}
