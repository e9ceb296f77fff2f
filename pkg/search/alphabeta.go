package search

import (
	"context"

	"github.com/herohde/gyrfalcon/pkg/board"
	"github.com/herohde/gyrfalcon/pkg/eval"
)

// maxSearchPly bounds the recursion depth of a single Search/QuietSearch call, spanning both
// full-width and quiescence plies. Generous for any realistic depth setting; recursion below
// this never allocates a move buffer, since each ply indexes its own slot of a fixed array.
const maxSearchPly = 128

// AlphaBeta implements alpha-beta pruning. Pseudo-code:
//
// function alphabeta(node, depth, α, β, maximizingPlayer) is
//
//	if depth = 0 or node is a terminal node then
//	    return the heuristic value of node
//	if maximizingPlayer then
//	    value := −∞
//	    for each child of node do
//	        value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
//	        α := max(α, value)
//	        if α ≥ β then
//	            break (* β cutoff *)
//	    return value
//	else
//	    value := +∞
//	    for each child of node do
//	        value := min(value, alphabeta(child, depth − 1, α, β, TRUE))
//	        β := min(β, value)
//	        if β ≤ α then
//	            break (* α cutoff *)
//	    return value
//
// See: https://en.wikipedia.org/wiki/Alpha–beta_pruning.
type AlphaBeta struct {
	Explore Exploration
	Eval    QuietSearch
}

func (p AlphaBeta) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, board.Score, []board.Move, error) {
	run := &runAlphaBeta{
		explore: fullIfNotSet(p.Explore),
		eval:    p.Eval,
		tt:      sctx.TT,
		noise:   sctx.Noise,
		ponder:  sctx.Ponder,
		b:       b,
	}

	score, moves := run.search(ctx, 0, depth, sctx.Alpha, sctx.Beta)
	if isCancelled(ctx) {
		return 0, 0, nil, ErrHalted
	}
	return run.nodes, score, moves, nil
}

type runAlphaBeta struct {
	explore Exploration
	eval    QuietSearch
	tt      TranspositionTable
	noise   eval.Random
	b       *board.Board
	nodes   uint64

	ponder []board.Move
	buf    [maxSearchPly][board.MaxMoves]board.Move
}

// search returns the positive score for the color to move at the given ply.
func (m *runAlphaBeta) search(ctx context.Context, ply, depth int, alpha, beta board.Score) (board.Score, []board.Move) {
	if isCancelled(ctx) {
		return 0, nil
	}
	if m.b.Result().Outcome == board.Draw {
		return 0, nil
	}

	var best board.Move
	if bound, d, score, mv, ok := m.tt.Read(m.b.Hash()); ok {
		best = mv
		if depth == d && bound == ExactBound {
			return score, nil // cutoff
		} // else: not deep enough or precise enough
	}

	if depth == 0 {
		sctx := &Context{Alpha: alpha, Beta: beta, TT: m.tt, Noise: m.noise}
		nodes, score := m.eval.QuietSearch(ctx, sctx, m.b)
		m.nodes += nodes

		m.tt.Write(m.b.Hash(), ExactBound, m.b.Ply(), 0, score, board.Move{})
		return score, nil
	}

	m.nodes++

	hasLegalMove := false
	bound := ExactBound
	var pv []board.Move

	priority, explore := m.explore(m.b)
	if len(m.ponder) > 0 {
		explore = m.ponder[0].Equals // overwrite: use ponder move even if not intended to be explored
		m.ponder = m.ponder[1:]
	}
	rank := board.First(best, priority)

	moves := m.b.Position().GeneratePseudoLegalMoves(m.b.Turn(), m.buf[ply][:0])
	for i := 0; i < len(moves); i++ {
		move := board.SelectNextBest(moves, i, rank)
		if !m.b.PushMove(move) {
			continue // skip: not legal
		}

		if explore(move) {
			score, rem := m.search(ctx, ply+1, depth-1, beta.Negate(), alpha.Negate())
			score = board.IncrementMateDistance(score).Negate()
			if alpha < score {
				alpha = score
				pv = append([]board.Move{move}, rem...)
			}
		}

		m.b.PopMove()
		hasLegalMove = true

		if alpha >= beta {
			bound = LowerBound
			break // cutoff
		}
	}

	if !hasLegalMove {
		if result := m.b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			return -board.MateIn(0), nil
		}
		return 0, nil
	}

	if bound == ExactBound {
		m.tt.Write(m.b.Hash(), bound, m.b.Ply(), depth, alpha, firstOrNone(pv))
	}
	return alpha, pv
}

func firstOrNone(pv []board.Move) board.Move {
	if len(pv) == 0 {
		return board.Move{}
	}
	return pv[0]
}

func isCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
