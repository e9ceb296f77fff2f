package board

import (
	"math"
	"sort"
	"strings"
)

// MovePriority represents the move order priority.
type MovePriority int16

// MovePriorityFn assigns a priority to moves.
type MovePriorityFn func(move Move) MovePriority

// First puts the given move first. Otherwise uses the given function.
func First(first Move, fn MovePriorityFn) MovePriorityFn {
	return func(m Move) MovePriority {
		if first.Equals(m) {
			return math.MaxInt16
		}
		return fn(m)
	}
}

// SortByPriority sorts the moves in place by priority, preserving relative order of equal
// priority moves. Suitable for root-level move lists, where the list is small and this runs
// once per iteration rather than once per node.
func SortByPriority(moves []Move, fn MovePriorityFn) {
	sort.SliceStable(moves, func(i, j int) bool {
		return fn(moves[i]) > fn(moves[j])
	})
}

// SelectNextBest finds the highest-priority move among moves[from:], swaps it into moves[from]
// and returns it. Unlike SortByPriority, this picks one move at a time without touching the
// remainder of the slice, so a node that cuts off early never pays for ordering moves it never
// looks at. moves is the caller-owned, fixed-capacity move buffer; no allocation occurs here.
func SelectNextBest(moves []Move, from int, fn MovePriorityFn) Move {
	best := from
	bestVal := fn(moves[from])
	for i := from + 1; i < len(moves); i++ {
		if v := fn(moves[i]); v > bestVal {
			best, bestVal = i, v
		}
	}
	moves[from], moves[best] = moves[best], moves[from]
	return moves[from]
}

// FormatMoves renders a principal variation as a space-separated coordinate move string,
// e.g. "e2e4 e7e5 g1f3".
func FormatMoves(moves []Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
