// Package search contains game tree search: negamax/PVS with a transposition table and
// quiescence search. Iterative deepening and time control live in the searchctl subpackage.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/herohde/gyrfalcon/pkg/board"
	"github.com/herohde/gyrfalcon/pkg/eval"
)

// ErrHalted indicates the search was halted before completing the requested depth.
var ErrHalted = errors.New("search halted")

// Context carries the dynamic, per-call search state: the alpha-beta window, the shared
// transposition table, evaluation noise, and any forced ponder line to follow first.
type Context struct {
	Alpha, Beta board.Score
	TT          TranspositionTable
	Noise       eval.Random
	Ponder      []board.Move

	// Tablebase is an optional endgame oracle consulted at the search root. Never probed
	// if nil.
	Tablebase Tablebase
	// Stats, if non-nil, accumulates debug counters for the lifetime of one Launch. Purely
	// diagnostic: never affects the search result.
	Stats *Stats
}

// WDL is the outcome of a tablebase probe from the side-to-move's perspective.
type WDL uint8

const (
	UnknownWDL WDL = iota
	Win
	DrawWDL
	Loss
)

// Tablebase is an optional endgame oracle: a small, variant collaborator over the same
// capability set as Evaluator, plus an exact best-move lookup for positions it covers. A nil
// Tablebase is never consulted; there is no concrete implementation shipped.
type Tablebase interface {
	// ProbeBestMove returns the provably best move for b, if b is covered.
	ProbeBestMove(b *board.Board) (board.Move, bool)
	// ProbeWDL returns the exact game-theoretic outcome for b, if b is covered.
	ProbeWDL(b *board.Board) (WDL, bool)
}

// Stats accumulates debug counters over the lifetime of a search launch. Purely diagnostic;
// logged at debug verbosity and never read by the search itself.
type Stats struct {
	NullCutoffs   uint64
	BetaCutoffs   uint64
	Researches    uint64
	QSearchNodes  uint64
}

func (s *Stats) String() string {
	if s == nil {
		return "{}"
	}
	return fmt.Sprintf("{nullCutoffs=%v, betaCutoffs=%v, researches=%v, qsearchNodes=%v}", s.NullCutoffs, s.BetaCutoffs, s.Researches, s.QSearchNodes)
}

// Search implements full-width search of the game tree to a fixed depth, returning nodes
// visited, the score from the side to move's perspective, and the principal variation.
type Search interface {
	Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, board.Score, []board.Move, error)
}

// QuietSearch implements quiescence search: a capture/promotion-only search used at the
// horizon of a full-width search to avoid the horizon effect.
type QuietSearch interface {
	QuietSearch(ctx context.Context, sctx *Context, b *board.Board) (uint64, board.Score)
}

// PV represents the principal variation found for a given search depth.
type PV struct {
	Depth int
	Moves []board.Move
	Score board.Score
	Nodes uint64
	Time  time.Duration
	Hash  float64 // transposition table utilization [0;1]
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v hash=%v%% pv=%v", p.Depth, p.Score, p.Nodes, p.Time, int(100*p.Hash), board.FormatMoves(p.Moves))
}
