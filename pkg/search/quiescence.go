package search

import (
	"context"

	"github.com/herohde/gyrfalcon/pkg/board"
	"github.com/herohde/gyrfalcon/pkg/eval"
)

// Quiescence implements a configurable alpha-beta QuietSearch: a capture/promotion-only search
// run at the horizon of full-width search to avoid misjudging a position mid-exchange.
type Quiescence struct {
	Explore Exploration
	Eval    eval.Evaluator
}

func (q Quiescence) QuietSearch(ctx context.Context, sctx *Context, b *board.Board) (uint64, board.Score) {
	explore := q.Explore
	if explore == nil {
		explore = QuiescenceExploration
	}
	run := &runQuiescence{explore: explore, eval: q.Eval, b: b}
	score := run.search(ctx, 0, sctx.Alpha, sctx.Beta)
	return run.nodes, score
}

type runQuiescence struct {
	explore Exploration
	eval    eval.Evaluator
	b       *board.Board
	nodes   uint64

	buf [maxSearchPly][board.MaxMoves]board.Move
}

// search returns the positive score for the side to move at ply.
func (r *runQuiescence) search(ctx context.Context, ply int, alpha, beta board.Score) board.Score {
	if isCancelled(ctx) {
		return 0
	}
	if r.b.Result().Outcome == board.Draw {
		return 0
	}

	r.nodes++

	hasLegalMoves := false
	turn := r.b.Turn()

	score := r.eval.Evaluate(r.b)
	if turn == board.Black {
		score = -score
	}
	if alpha < score {
		alpha = score
	}

	// Don't cut off based on the stand-pat evaluation here: a position with no legal quiet
	// gain can still be checkmate, which this must detect before returning.

	priority, explore := r.explore(r.b)
	rank := priority

	moves := r.b.Position().GeneratePseudoLegalMoves(turn, r.buf[ply][:0])
	for i := 0; i < len(moves); i++ {
		m := board.SelectNextBest(moves, i, rank)
		if !r.b.PushMove(m) {
			continue // skip: not legal
		}

		if explore(m) {
			score := r.search(ctx, ply+1, beta.Negate(), alpha.Negate())
			score = board.IncrementMateDistance(score).Negate()
			if alpha < score {
				alpha = score
			}
		}

		r.b.PopMove()
		hasLegalMoves = true

		if alpha >= beta {
			break // cutoff
		}
	}

	if !hasLegalMoves {
		if result := r.b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			return -board.MateIn(0)
		}
		return 0
	}
	return alpha
}
