package eval

import "github.com/herohde/gyrfalcon/pkg/board"

// Piece-square tables, in centipawns, grounded on the engine's original flat per-piece
// matrices. Each table is laid out rank8->rank1, file a->h, the conventional diagram order;
// pstIndex maps a Square into that layout. Values apply to both colors identically (the king
// and rook tables are already rank-symmetric in the source; the two pawn tables are given
// separately per side rather than mirrored).
var (
	kingMatrix = [64]int16{
		3, 8, 2, -10, 0, -10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, -4, -5, -5, -5, -4, 0,
		0, 0, -5, -10, -10, -5, 0, 0,

		0, 0, -5, -10, -10, -5, 0, 0,
		0, 0, -4, -5, -5, -4, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		3, 8, 2, -10, 0, -10, 10, 5,
	}

	queenMatrix = [64]int16{}

	rookMatrix = [64]int16{
		0, 0, 0, 0, 0, 0, 0, 0,
		-5, 7, 7, 7, 7, 7, 7, -5,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,

		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		-5, 7, 7, 7, 7, 7, 7, -5,
		0, 0, 0, 0, 0, 0, 0, 0,
	}

	bishMatrix = [64]int16{
		5, 5, 5, 5, 5, 5, 5, 5,
		9, 9, 11, 5, 9, 9, 11, 5,
		11, 13, 9, 5, 11, 13, 9, 5,
		15, 11, 9, 5, 15, 11, 9, 5,

		5, 5, 5, 9, 5, 5, 5, 9,
		9, 9, 11, 5, 9, 9, 11, 5,
		11, 13, 9, 5, 11, 13, 9, 5,
		5, 5, 5, 5, 5, 5, 5, 5,
	}

	knightMatrix = [64]int16{
		-50, -10, -10, -10, -10, -10, -10, -50,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 10, 15, 15, 10, 0, -10,
		-10, 0, 15, 20, 20, 15, 0, -10,

		-10, 0, 15, 20, 20, 15, 0, -10,
		-10, 0, 10, 15, 15, 10, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-50, -10, -10, -10, -10, -10, -10, -50,
	}

	wPawnMatrix = [64]int16{
		0, 0, 0, 0, 0, 0, 0, 0,
		175, 200, 200, 200, 200, 200, 200, 175,
		-10, 10, 0, 0, 0, 0, 10, -10,
		-5, 5, 0, 15, 15, 0, 5, -5,

		0, 0, 0, 20, 20, 0, 0, 0,
		0, 3, 0, 10, 10, 0, 3, 0,
		5, 5, 5, 0, 0, 5, 5, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	}

	bPawnMatrix = [64]int16{
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 5, 5, 0, 0, 5, 5, 5,
		0, 3, 0, 15, 15, 0, 3, 0,
		0, 0, 0, 20, 20, 0, 0, 0,

		-5, 5, 0, 10, 10, 0, 5, -5,
		-10, 10, 0, 0, 0, 0, 10, -10,
		175, 200, 200, 200, 200, 200, 200, 175,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
)

// pstIndex maps a Square (H1=0..A8=63) into the rank8->rank1/file-a->h layout the tables
// above are written in.
func pstIndex(sq board.Square) int {
	row := 7 - int(sq.Rank())
	col := 7 - int(sq.File())
	return row*8 + col
}

func pstValue(table [64]int16, bb board.Bitboard) board.Score {
	var sum int16
	for _, sq := range bb.ToSquares() {
		sum += table[pstIndex(sq)]
	}
	return board.Score(sum)
}

// kingCentralization scores distance to the center, the usual endgame counterpart to the
// king's midgame safety table: a king wants to hide near the back rank early and run to the
// center once the board empties out.
func kingCentralization(sq board.Square) board.Score {
	df := int(sq.File()) - int(board.FileD)
	if df < 0 {
		df = -df
	}
	dr := int(sq.Rank()) - int(board.Rank4)
	if dr < 0 {
		dr = -dr
	}
	dist := df
	if dr > dist {
		dist = dr
	}
	return board.Score(3 * (3 - dist))
}

// Phase returns a tapering weight in [0,256]: 0 with a full army on the board, rising to 256
// as major and minor pieces come off, the chess-programming-wiki convention where a higher
// phase means more endgame-like.
func Phase(pos *board.Position) int {
	knights := pos.Piece(board.White, board.Knight).PopCount() + pos.Piece(board.Black, board.Knight).PopCount()
	bishops := pos.Piece(board.White, board.Bishop).PopCount() + pos.Piece(board.Black, board.Bishop).PopCount()
	rooks := pos.Piece(board.White, board.Rook).PopCount() + pos.Piece(board.Black, board.Rook).PopCount()
	queens := pos.Piece(board.White, board.Queen).PopCount() + pos.Piece(board.Black, board.Queen).PopCount()

	phase := ((24-knights-bishops-2*rooks-4*queens)*256 + 12) / 24
	switch {
	case phase < 0:
		return 0
	case phase > 256:
		return 256
	default:
		return phase
	}
}

// pstTerm returns the piece-square contribution of a piece kind, White minus Black, in
// centipawns. The king blends its midgame safety table against an endgame centralization
// term by phase; every other piece uses its single table unconditionally, matching the
// original evaluator's lack of taper for non-king pieces.
func pstTerm(pos *board.Position, p board.Piece, phase int) board.Score {
	switch p {
	case board.Pawn:
		return pstValue(wPawnMatrix, pos.Piece(board.White, board.Pawn)) -
			pstValue(bPawnMatrix, pos.Piece(board.Black, board.Pawn))
	case board.Knight:
		return pstValue(knightMatrix, pos.Piece(board.White, board.Knight)) -
			pstValue(knightMatrix, pos.Piece(board.Black, board.Knight))
	case board.Bishop:
		return pstValue(bishMatrix, pos.Piece(board.White, board.Bishop)) -
			pstValue(bishMatrix, pos.Piece(board.Black, board.Bishop))
	case board.Rook:
		return pstValue(rookMatrix, pos.Piece(board.White, board.Rook)) -
			pstValue(rookMatrix, pos.Piece(board.Black, board.Rook))
	case board.Queen:
		return pstValue(queenMatrix, pos.Piece(board.White, board.Queen)) -
			pstValue(queenMatrix, pos.Piece(board.Black, board.Queen))
	case board.King:
		wk := pos.Piece(board.White, board.King)
		bk := pos.Piece(board.Black, board.King)
		if wk == 0 || bk == 0 {
			return 0
		}
		mg := pstValue(kingMatrix, wk) - pstValue(kingMatrix, bk)
		eg := kingCentralization(wk.LastPopSquare()) - kingCentralization(bk.LastPopSquare())
		return board.Score((int(mg)*(256-phase) + int(eg)*phase) / 256)
	default:
		return 0
	}
}

const (
	connectedRooksBonus  board.Score = 50
	rookOpenFileBonus    board.Score = 60
	twoBishopsBonus      board.Score = 30
	bishopMobilityWeight board.Score = 1
)

// activity scores the piece-activity terms the original evaluator hand-rolls: connected
// rooks, rooks on an open file, the bishop pair, and bishop mobility along open diagonals.
func activity(pos *board.Position, c board.Color) board.Score {
	var score board.Score

	rooks := pos.Piece(c, board.Rook)
	if rooks.PopCount() == 2 {
		sqs := rooks.ToSquares()
		a, b := sqs[0], sqs[1]
		if a.Rank() == b.Rank() || a.File() == b.File() {
			if board.RookAttackboard(pos.Rotated(), a)&board.BitMask(b) != 0 {
				score += connectedRooksBonus
			}
		}
	}

	pawns := pos.Piece(c, board.Pawn)
	for _, sq := range rooks.ToSquares() {
		if pawns&board.BitFile(sq.File()) == 0 {
			score += rookOpenFileBonus
		}
	}

	bishops := pos.Piece(c, board.Bishop)
	if bishops.PopCount() == 2 {
		score += twoBishopsBonus
	}
	for _, sq := range bishops.ToSquares() {
		n := board.BishopAttackboard(pos.Rotated(), sq).PopCount()
		score += bishopMobilityWeight * board.Score(n)
	}

	return score
}

// passedPawns scores pawns with no opposing pawn on their own or adjacent files ahead of
// them, the original evaluator's forward-declared but never wired passedPawns() term. Bonus
// grows with rank advanced, since a passed pawn gets more dangerous the closer it is to
// promotion.
func passedPawns(pos *board.Position, c board.Color) board.Score {
	own := pos.Piece(c, board.Pawn)
	opp := pos.Piece(c.Opponent(), board.Pawn)

	var score board.Score
	for _, sq := range own.ToSquares() {
		if isPassed(sq, opp, c) {
			score += passedPawnBonus(sq, c)
		}
	}
	return score
}

func isPassed(sq board.Square, oppPawns board.Bitboard, c board.Color) bool {
	file := int(sq.File())
	var mask board.Bitboard
	for _, f := range []int{file - 1, file, file + 1} {
		if f < 0 || f > 7 {
			continue
		}
		mask |= board.BitFile(board.File(f))
	}

	var ahead board.Bitboard
	if c == board.White {
		for r := int(sq.Rank()) + 1; r < 8; r++ {
			ahead |= board.BitRank(board.Rank(r))
		}
	} else {
		for r := int(sq.Rank()) - 1; r >= 0; r-- {
			ahead |= board.BitRank(board.Rank(r))
		}
	}
	return oppPawns&mask&ahead == 0
}

func passedPawnBonus(sq board.Square, c board.Color) board.Score {
	rank := int(sq.Rank())
	if c == board.Black {
		rank = 7 - rank
	}
	// steps is squares advanced from the second rank (0 on rank2, 5 on rank7).
	steps := rank - 1
	if steps < 0 {
		steps = 0
	}
	return board.Score(10 * steps * steps / 4)
}
