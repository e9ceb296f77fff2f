// Package eval contains static position evaluation.
package eval

import "github.com/herohde/gyrfalcon/pkg/board"

// Evaluator is a static position evaluator, the variant collaborator the search consults for
// a centipawn judgement of non-terminal positions.
type Evaluator interface {
	// Evaluate returns the position score in centipawns, from White's perspective.
	Evaluate(b *board.Board) board.Score
}

// NominalValue is the material value of a piece kind, in centipawns. The king is never
// material-counted (it has no nominal value here; mate is handled by search, not eval).
func NominalValue(p board.Piece) board.Score {
	switch p {
	case board.Pawn:
		return 100
	case board.Knight:
		return 320
	case board.Bishop:
		return 335
	case board.Rook:
		return 525
	case board.Queen:
		return 950
	default:
		return 0
	}
}

// NominalValueGain is the nominal material swing of a move, used for move ordering (MVV/LVA)
// and quiescence delta pruning rather than for the static evaluation itself.
func NominalValueGain(m board.Move) board.Score {
	switch m.Type {
	case board.CapturePromotion:
		return NominalValue(m.Capture) + NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Promotion:
		return NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Capture:
		return NominalValue(m.Capture)
	case board.EnPassant:
		return NominalValue(board.Pawn)
	default:
		return 0
	}
}

// Classical is the hand-crafted evaluator: material, tapered piece-square tables, passed
// pawns, and a handful of piece-activity terms. The sole concrete Evaluator.
type Classical struct {
	Noise Random
}

// NewClassical returns a Classical evaluator with the given noise amplitude in millipawns
// (0 disables it).
func NewClassical(noiseMillipawns int, seed int64) Classical {
	return Classical{Noise: NewRandom(noiseMillipawns, seed)}
}

func (c Classical) Evaluate(b *board.Board) board.Score {
	pos := b.Position()

	if pos.HasInsufficientMaterial() {
		return 0
	}

	phase := Phase(pos)

	var score board.Score
	for p := board.Pawn; p <= board.King; p++ {
		score += material(pos, p)
		score += pstTerm(pos, p, phase)
	}
	score += passedPawns(pos, board.White) - passedPawns(pos, board.Black)
	score += activity(pos, board.White) - activity(pos, board.Black)
	score += c.Noise.Sample()

	return board.Crop(score)
}

func material(pos *board.Position, p board.Piece) board.Score {
	v := NominalValue(p)
	if v == 0 {
		return 0
	}
	white := pos.Piece(board.White, p).PopCount()
	black := pos.Piece(board.Black, p).PopCount()
	return v * board.Score(white-black)
}
