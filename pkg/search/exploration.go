package search

import (
	"github.com/herohde/gyrfalcon/pkg/board"
	"github.com/herohde/gyrfalcon/pkg/eval"
)

// MovePredicate reports whether a move just made on the board should be explored further.
// Quiescence search uses this to restrict recursion to captures and promotions; full search
// defaults to exploring everything.
type MovePredicate func(m board.Move) bool

// Exploration selects a move order and a recursion predicate for a position. The default,
// FullExploration, orders by MVV/LVA and explores every legal move.
type Exploration func(b *board.Board) (board.MovePriorityFn, MovePredicate)

// FullExploration explores all moves in MVV/LVA order.
func FullExploration(b *board.Board) (board.MovePriorityFn, MovePredicate) {
	return MVVLVA, IsAnyMove
}

// QuiescenceExploration orders by MVV/LVA and restricts recursion to quick-gain captures and
// promotions, the default move set for quiescence search.
func QuiescenceExploration(b *board.Board) (board.MovePriorityFn, MovePredicate) {
	return MVVLVA, IsQuickGain(b)
}

// MVVLVA implements the MVV-LVA ("most valuable victim, least valuable attacker") move
// priority: captures and promotions sort ahead of quiet moves, ordered by material swing.
// The priority is 16 times the material gain minus the value of the moving piece.
func MVVLVA(m board.Move) board.MovePriority {
	if gain := int(eval.NominalValueGain(m)); gain > 0 {
		return board.MovePriority(16*gain - int(eval.NominalValue(m.Piece)))
	}
	return 0
}

// IsAnyMove selects all moves.
func IsAnyMove(m board.Move) bool {
	return true
}

// NoMove selects no moves. Used to disable quiescence entirely.
func NoMove(m board.Move) bool {
	return false
}

// IsNotUnderPromotion selects any move except an under-promotion.
func IsNotUnderPromotion(m board.Move) bool {
	return (m.Type != board.Promotion && m.Type != board.CapturePromotion) || m.Promotion == board.Queen
}

// IsQuickGain selects promotions and captures that gain material or land on an undefended
// square: the move set quiescence search expands to avoid the horizon effect.
func IsQuickGain(b *board.Board) MovePredicate {
	return func(m board.Move) bool {
		if m.Type == board.Promotion || m.Type == board.CapturePromotion {
			return true
		}
		if m.IsCapture() {
			if eval.NominalValue(m.Piece) < eval.NominalValue(m.Capture) {
				return true
			}
			if !b.Position().IsAttacked(b.Turn().Opponent(), m.To) {
				return true
			}
		}
		return false
	}
}

func fullIfNotSet(p Exploration) Exploration {
	if p == nil {
		return FullExploration
	}
	return p
}
