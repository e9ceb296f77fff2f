package search

import (
	"context"

	"github.com/herohde/gyrfalcon/pkg/board"
	"github.com/herohde/gyrfalcon/pkg/eval"
)

// Minimax implements naive full-width minimax search with no pruning, transposition table, or
// quiescence. Useful only as a slow, obviously-correct reference for validating AlphaBeta and
// PVS against on small test positions. Does not implement the Search interface: it is never
// used by the engine's iterative deepening harness.
//
// Pseudo-code:
//
// function minimax(node, depth, maximizingPlayer) is
//    if depth = 0 or node is a terminal node then
//        return the heuristic value of node
//    if maximizingPlayer then
//        value := −∞
//        for each child of node do
//            value := max(value, minimax(child, depth − 1, FALSE))
//        return value
//    else (* minimizing player *)
//        value := +∞
//        for each child of node do
//            value := min(value, minimax(child, depth − 1, TRUE))
//        return value
//
// See: https://en.wikipedia.org/wiki/Minimax.
type Minimax struct {
	Eval eval.Evaluator
}

func (m Minimax) Search(ctx context.Context, b *board.Board, depth int, quit <-chan struct{}) (uint64, board.Score, []board.Move, error) {
	run := &runMinimax{eval: m.Eval, b: b, quit: quit}
	score, moves := run.search(0, depth)
	if isClosed(quit) {
		return 0, 0, nil, ErrHalted
	}
	return run.nodes, score, moves, nil
}

type runMinimax struct {
	eval  eval.Evaluator
	b     *board.Board
	nodes uint64

	quit <-chan struct{}
	buf  [maxSearchPly][board.MaxMoves]board.Move
}

// search returns the positive score for the side to move.
func (m *runMinimax) search(ply, depth int) (board.Score, []board.Move) {
	m.nodes++

	if isClosed(m.quit) {
		return 0, nil
	}
	if m.b.Result().Outcome == board.Draw {
		return 0, nil
	}
	if depth == 0 {
		score := m.eval.Evaluate(m.b)
		if m.b.Turn() == board.Black {
			score = -score
		}
		return score, nil
	}

	hasLegalMove := false
	score := -board.MaxScore
	var pv []board.Move

	moves := m.b.Position().GeneratePseudoLegalMoves(m.b.Turn(), m.buf[ply][:0])
	for _, move := range moves {
		if m.b.PushMove(move) {
			s, rem := m.search(ply+1, depth-1)
			m.b.PopMove()

			hasLegalMove = true
			s = board.IncrementMateDistance(s).Negate()
			if score < s {
				score = s
				pv = append([]board.Move{move}, rem...)
			}
		}
	}

	if !hasLegalMove {
		if result := m.b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			return -board.MateIn(0), nil
		}
		return 0, nil
	}

	return score, pv
}

func isClosed(quit <-chan struct{}) bool {
	select {
	case <-quit:
		return true
	default:
		return false
	}
}
