package eval_test

import (
	"testing"

	"github.com/herohde/gyrfalcon/pkg/board"
	"github.com/herohde/gyrfalcon/pkg/board/fen"
	"github.com/herohde/gyrfalcon/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, f string) *board.Board {
	t.Helper()
	pos, turn, fifty, full, err := fen.Decode(f)
	require.NoError(t, err)
	return board.NewBoard(board.NewZobristTable(1), pos, turn, fifty, full)
}

func TestClassical_InitialPositionIsBalanced(t *testing.T) {
	b := mustBoard(t, fen.Initial)
	c := eval.NewClassical(0, 1)

	assert.Equal(t, board.Score(0), c.Evaluate(b))
}

func TestClassical_MaterialAdvantage(t *testing.T) {
	// White is up a queen.
	b := mustBoard(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	c := eval.NewClassical(0, 1)

	assert.Greater(t, int(c.Evaluate(b)), int(eval.NominalValue(board.Queen)-100))
}

func TestClassical_InsufficientMaterialIsZero(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	c := eval.NewClassical(0, 1)

	assert.Equal(t, board.Score(0), c.Evaluate(b))
}

func TestClassical_BishopPairOfSameColorIsInsufficient(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/8/B7/8/2B1K3 w - - 0 1")
	c := eval.NewClassical(0, 1)

	// C1 and A3 are the same color complex: a dead draw even with two bishops.
	assert.Equal(t, board.Score(0), c.Evaluate(b))
}

func TestNominalValueGain(t *testing.T) {
	capture := board.Move{Type: board.Capture, Capture: board.Rook}
	assert.Equal(t, eval.NominalValue(board.Rook), eval.NominalValueGain(capture))

	promo := board.Move{Type: board.Promotion, Promotion: board.Queen}
	assert.Equal(t, eval.NominalValue(board.Queen)-eval.NominalValue(board.Pawn), eval.NominalValueGain(promo))

	quiet := board.Move{Type: board.Push}
	assert.Equal(t, board.Score(0), eval.NominalValueGain(quiet))
}

func TestPhase(t *testing.T) {
	start := mustBoard(t, fen.Initial)
	assert.Equal(t, 0, eval.Phase(start.Position()))

	bare := mustBoard(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	assert.Equal(t, 256, eval.Phase(bare.Position()))
}

func TestPassedPawn(t *testing.T) {
	// White pawn on A7, nothing in front of it: passed.
	b := mustBoard(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	c := eval.NewClassical(0, 1)

	assert.Greater(t, int(c.Evaluate(b)), int(eval.NominalValue(board.Pawn)))
}
