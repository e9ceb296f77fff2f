package search

import (
	"context"

	"github.com/herohde/gyrfalcon/pkg/board"
	"github.com/herohde/gyrfalcon/pkg/eval"
)

const (
	// nullMoveMinDepth is the remaining depth above which null-move pruning is attempted.
	nullMoveMinDepth = 3
	nullMoveR        = 3
	nullMoveMargin   = 13

	// futilityMaxDepth is the remaining depth at or below which static futility pruning is
	// attempted.
	futilityMaxDepth = 4
	futilityPerDepth = 116
	futilityMaxScore = 9000
	lmrMinMoveIndex  = 4
	lmrMinDepth      = 3
	riskCentipawns   = 11

	// ttHeightGuard is the ply a node must be beyond (ply > ttHeightGuard) before a transposition
	// table hit may narrow its window or cut it off outright. Without it, a stale or
	// coincidental hit at or near the root can return a score with no principal variation,
	// overwriting the best move found so far.
	ttHeightGuard = 3

	// killerBonus ranks a killer move above any history-scored quiet move, but below the
	// TT move (math.MaxInt16, via board.First) and any scored capture (the lowest MVVLVA
	// capture priority is 650, a queen taking a pawn).
	killerBonus board.MovePriority = 1 << 9
)

// PVS implements principal variation search. Pseudo-code:
//
// function pvs(node, depth, α, β, color) is
//    if depth = 0 or node is a terminal node then
//        return color × the heuristic value of node
//    for each child of node do
//        if child is first child then
//            score := −pvs(child, depth − 1, −β, −α, −color)
//        else
//            score := −pvs(child, depth − 1, −α − 1, −α, −color) (* search with a null window *)
//            if α < score < β then
//                score := −pvs(child, depth − 1, −β, −score, −color) (* if it failed high, do a full re-search *)
//        α := max(α, score)
//        if α ≥ β then
//            break (* beta cut-off *)
//    return α
//
// See: https://en.wikipedia.org/wiki/Principal_variation_search.
//
// If Prune is set, the search also applies static (futility) pruning and null-move pruning at
// non-PV nodes (here: nodes reached through a null window), and late-move reductions of late
// quiet moves at any node; a reduced move that beats alpha is searched again at full depth.
// Off by default, so a bare PVS remains an exact reference search agreeing with
// AlphaBeta/Minimax.
type PVS struct {
	Explore Exploration
	Eval    QuietSearch
	Prune   bool
}

func (p PVS) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, board.Score, []board.Move, error) {
	run := &runPVS{
		explore: fullIfNotSet(p.Explore),
		eval:    p.Eval,
		tt:      sctx.TT,
		noise:   sctx.Noise,
		ponder:  sctx.Ponder,
		prune:   p.Prune,
		tb:      sctx.Tablebase,
		stats:   sctx.Stats,
		b:       b,
	}

	if mv, ok := run.probeTablebase(); ok {
		return 0, 0, []board.Move{mv}, nil
	}

	score, moves := run.search(ctx, 0, depth, sctx.Alpha, sctx.Beta, true)
	if isCancelled(ctx) {
		return 0, 0, nil, ErrHalted
	}
	return run.nodes, score, moves, nil
}

type runPVS struct {
	explore Exploration
	eval    QuietSearch
	tt      TranspositionTable
	noise   eval.Random
	prune   bool
	tb      Tablebase
	stats   *Stats
	b       *board.Board
	nodes   uint64

	ponder  []board.Move
	buf     [maxSearchPly][board.MaxMoves]board.Move
	killers [maxSearchPly][2]board.Move
	history [board.NumSquares][board.NumSquares]int32
}

// probeTablebase consults the optional endgame oracle for the root position. A nil Tablebase
// is never probed.
func (m *runPVS) probeTablebase() (board.Move, bool) {
	if m.tb == nil {
		return board.Move{}, false
	}
	return m.tb.ProbeBestMove(m.b)
}

// search returns the positive score for the side to move at ply. nullOK disallows a second
// consecutive null move, which would otherwise make the heuristic unsound in zugzwang.
func (m *runPVS) search(ctx context.Context, ply, depth int, alpha, beta board.Score, nullOK bool) (board.Score, []board.Move) {
	if isCancelled(ctx) {
		return 0, nil
	}
	if m.b.Result().Outcome == board.Draw {
		return 0, nil
	}

	var best board.Move
	if bound, d, score, mv, ok := m.tt.Read(m.b.Hash()); ok {
		best = mv // usable for move ordering regardless of depth or bound

		if d >= depth && ply > ttHeightGuard {
			switch bound {
			case ExactBound:
				return score, nil
			case LowerBound:
				if score > alpha {
					alpha = score
				}
			case UpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score, nil
			}
		}
	}

	if depth == 0 {
		sctx := &Context{Alpha: alpha, Beta: beta, TT: m.tt, Noise: m.noise}
		nodes, score := m.eval.QuietSearch(ctx, sctx, m.b)
		m.nodes += nodes
		if m.stats != nil {
			m.stats.QSearchNodes += nodes
		}

		m.tt.Write(m.b.Hash(), ExactBound, m.b.Ply(), 0, score, board.Move{})
		return score, nil
	}

	turn := m.b.Turn()
	inCheck := m.b.Position().IsChecked(turn)
	nonPV := beta-alpha == 1 // reached through a null window: not on the principal variation

	if m.prune && ply > 0 && nonPV && !inCheck {
		if depth <= futilityMaxDepth {
			if ev, ok := m.staticEval(ctx, alpha, beta); ok {
				if ev-board.Score(futilityPerDepth*depth) >= beta && ev < futilityMaxScore {
					return ev, nil
				}
			}
		}

		if depth > nullMoveMinDepth && nullOK && hasNonPawnMaterial(m.b, turn) {
			if m.b.PushNullMove() {
				r := nullMoveR
				if depth >= 10 {
					r = depth/4 + 1
				}
				reduced := depth - r - 1
				if reduced < 0 {
					reduced = 0
				}

				nullBeta := beta - nullMoveMargin
				score, _ := m.search(ctx, ply+1, reduced, nullBeta.Negate()-1, nullBeta.Negate(), false)
				score = board.IncrementMateDistance(score).Negate()
				m.b.PopNullMove()

				if score >= nullBeta {
					if m.stats != nil {
						m.stats.NullCutoffs++
					}
					return beta, nil
				}
			}
		}
	}

	m.nodes++

	hasLegalMove := false
	originalAlpha := alpha
	var pv []board.Move

	priority, explore := m.explore(m.b)
	if len(m.ponder) > 0 {
		explore = m.ponder[0].Equals
		m.ponder = m.ponder[1:]
	}
	rank := board.First(best, m.rankMoves(priority, ply))

	// bestRepeats tracks whether the currently selected root move heads towards a repetition,
	// used by the RISK tie-break below.
	bestRepeats := false

	moves := m.b.Position().GeneratePseudoLegalMoves(turn, m.buf[ply][:0])
	for i := 0; i < len(moves); i++ {
		move := board.SelectNextBest(moves, i, rank)
		if !m.b.PushMove(move) {
			continue // skip: not legal
		}
		if !explore(move) {
			m.b.PopMove()
			continue
		}

		repeats := m.b.IsTwofold()

		var score board.Score
		var rem []board.Move

		switch {
		case !hasLegalMove:
			score, rem = m.search(ctx, ply+1, depth-1, beta.Negate(), alpha.Negate(), true)
			score = board.IncrementMateDistance(score).Negate()

		default:
			r := 0
			if m.prune && depth >= lmrMinDepth && i > lmrMinMoveIndex && isQuietMove(move) && !inCheck {
				r = 1
			}

			score, rem = m.search(ctx, ply+1, depth-1-r, alpha.Negate()-1, alpha.Negate(), true)
			score = board.IncrementMateDistance(score).Negate()
			if alpha < score && (score < beta || r > 0) {
				if m.stats != nil {
					m.stats.Researches++
				}
				lo := score
				if r > 0 {
					lo = alpha // a reduced-depth score is no bound for the full-depth search
				}
				score, rem = m.search(ctx, ply+1, depth-1, beta.Negate(), lo.Negate(), true)
				score = board.IncrementMateDistance(score).Negate()
			}
		}
		m.b.PopMove()

		hasLegalMove = true
		if alpha < score {
			alpha = score
			pv = append([]board.Move{move}, rem...)
			bestRepeats = repeats
		} else if ply == 0 && pv != nil && bestRepeats && !repeats && alpha-score <= riskCentipawns {
			// RISK tie-break: among near-equal root candidates, steer away from a line that
			// repeats towards one that does not.
			pv = append([]board.Move{move}, rem...)
			bestRepeats = false
		}

		if alpha >= beta {
			if isQuietMove(move) {
				m.recordCutoff(ply, move, depth)
			}
			if m.stats != nil {
				m.stats.BetaCutoffs++
			}
			break // cutoff
		}
	}

	if !hasLegalMove {
		if result := m.b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			return -board.MateIn(0), nil
		}
		return 0, nil
	}

	bound := ExactBound
	switch {
	case alpha <= originalAlpha:
		bound = UpperBound
	case alpha >= beta:
		bound = LowerBound
	}
	m.tt.Write(m.b.Hash(), bound, m.b.Ply(), depth, alpha, firstOrNone(pv))
	return alpha, pv
}

// rankMoves layers killer moves and the history heuristic beneath base: captures keep their
// MVV/LVA priority, then come this ply's killers, then quiet moves by history score. Grounded
// in original_source/src/search.c's addKM/addHistory and move-ordering loop.
func (m *runPVS) rankMoves(base board.MovePriorityFn, ply int) board.MovePriorityFn {
	k0, k1 := m.killers[ply][0], m.killers[ply][1]
	return func(mv board.Move) board.MovePriority {
		if p := base(mv); p != 0 {
			return p
		}
		switch {
		case k0.Equals(mv):
			return killerBonus + 1
		case k1.Equals(mv):
			return killerBonus
		default:
			return board.MovePriority(m.history[mv.From][mv.To])
		}
	}
}

// recordCutoff updates the killer slots for ply and bumps the history score for a quiet move
// that caused a beta cutoff, per original_source/src/search.c:483 (addHistory) and :491 (addKM).
func (m *runPVS) recordCutoff(ply int, move board.Move, depth int) {
	if !m.killers[ply][0].Equals(move) {
		m.killers[ply][1] = m.killers[ply][0]
		m.killers[ply][0] = move
	}

	if v := m.history[move.From][move.To] + int32(depth*depth); v < int32(killerBonus) {
		m.history[move.From][move.To] = v
	} else {
		m.history[move.From][move.To] = int32(killerBonus) - 1
	}
}

// staticEval returns a stabilized static evaluation of the current node, used only to decide
// whether to prune. It is the quiescence-search value rather than a bare Evaluator call, since
// QuietSearch is the only evaluation surface a configured PVS holds.
func (m *runPVS) staticEval(ctx context.Context, alpha, beta board.Score) (board.Score, bool) {
	sctx := &Context{Alpha: alpha, Beta: beta, TT: m.tt, Noise: m.noise}
	nodes, score := m.eval.QuietSearch(ctx, sctx, m.b)
	m.nodes += nodes
	if m.stats != nil {
		m.stats.QSearchNodes += nodes
	}
	return score, true
}

// hasNonPawnMaterial reports whether turn holds any piece beyond pawns and king, the standard
// zugzwang guard for null-move pruning.
func hasNonPawnMaterial(b *board.Board, turn board.Color) bool {
	pos := b.Position()
	for _, p := range board.Officers {
		if pos.Piece(turn, p) != 0 {
			return true
		}
	}
	return false
}

// isQuietMove reports whether a move is neither a capture nor a promotion, the move class late-
// move reductions apply to.
func isQuietMove(m board.Move) bool {
	return !m.IsCapture() && m.Type != board.Promotion && m.Type != board.CapturePromotion
}
