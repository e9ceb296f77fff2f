// Package board contains chess board representation and utilities.
package board

import "fmt"

const (
	// maxHistory bounds the number of plies a single Board can hold across its lifetime: a
	// full game plus whatever recursion depth the search pushes on top of it. Preallocated
	// once at construction, never grown, so make/undo never allocates.
	maxHistory = 1024

	// repetitionCap is the bounded ring of recent hashes used for two/three-fold detection.
	repetitionCap = 128

	// fiftyMoveLimit is the half-move (ply) count since the last pawn push or capture at
	// which the fifty-move rule forces a draw.
	fiftyMoveLimit = 100

	threefoldCount = 3
)

type historyRecord struct {
	move  Move
	undo  positionUndo
	fifty int
	hash  ZobristHash
}

// Board represents a chess board together with turn, fifty-move counter, incremental Zobrist
// hash, and the bounded history/repetition state needed to detect draws. Make/undo mutate the
// board in place; no node is heap-allocated per move. Not thread-safe.
type Board struct {
	zt  *ZobristTable
	pos Position

	turn      Color
	fifty     int
	fullmoves int
	hash      ZobristHash
	result    Result

	history [maxHistory]historyRecord
	ply     int

	repetition [repetitionCap]ZobristHash
	repHead    int
	repLen     int
}

// NewBoard constructs a board from a starting position, side to move, half-move (fifty-move)
// counter, and full-move number (as found in a FEN string).
func NewBoard(zt *ZobristTable, pos *Position, turn Color, fifty, fullmoves int) *Board {
	b := &Board{zt: zt, pos: *pos, turn: turn, fifty: fifty, fullmoves: fullmoves}
	b.hash = zt.Hash(&b.pos, turn)
	b.pushRepetition(b.hash)
	return b
}

func (b *Board) Position() *Position {
	return &b.pos
}

func (b *Board) Turn() Color {
	return b.turn
}

func (b *Board) Fifty() int {
	return b.fifty
}

// NoProgress is an alias for Fifty, the name FEN's halfmove clock field uses.
func (b *Board) NoProgress() int {
	return b.fifty
}

// Fork returns an independent copy of the board, safe to mutate without affecting the
// original. Search launches against a forked board so the engine's own copy is never
// touched by a running search.
func (b *Board) Fork() *Board {
	cp := *b
	return &cp
}

func (b *Board) FullMoves() int {
	return b.fullmoves
}

func (b *Board) Hash() ZobristHash {
	return b.hash
}

func (b *Board) Result() Result {
	return b.result
}

// Ply returns the number of moves made since the board was constructed (i.e. the size of the
// history stack, not the game's full-move number).
func (b *Board) Ply() int {
	return b.ply
}

// PushMove attempts to make a pseudo-legal move. Returns false (and leaves the board
// unchanged) if the move is illegal (leaves the mover's own king in check) or the game has
// already ended.
func (b *Board) PushMove(m Move) bool {
	if b.result.IsDecided() {
		return false
	}
	if b.ply >= maxHistory {
		return false
	}

	newHash := b.zt.Move(b.hash, &b.pos, m) // must run against the pre-move position
	undo := b.pos.makeMove(b.turn, m)

	if b.pos.IsChecked(b.turn) {
		b.pos.undoMove(b.turn, m, undo)
		return false
	}

	rec := &b.history[b.ply]
	rec.move, rec.undo, rec.fifty, rec.hash = m, undo, b.fifty, b.hash
	b.ply++

	b.fifty = updateFifty(b.fifty, m)
	b.hash = newHash
	b.turn = b.turn.Opponent()
	if b.turn == White {
		b.fullmoves++
	}
	b.pushRepetition(b.hash)
	b.updateResult()

	return true
}

// PopMove reverses the last move made with PushMove. Returns false if there is no move to pop.
func (b *Board) PopMove() (Move, bool) {
	if b.ply == 0 {
		return Move{}, false
	}

	b.ply--
	rec := b.history[b.ply]

	b.popRepetition()
	b.turn = b.turn.Opponent()
	if b.turn == Black {
		b.fullmoves--
	}
	b.fifty = rec.fifty
	b.hash = rec.hash
	b.result = Result{}

	b.pos.undoMove(b.turn, rec.move, rec.undo)
	return rec.move, true
}

// PushNullMove passes the turn without making a move, forfeiting the en passant target: the
// null-move heuristic used to test whether the opponent can still not reach beta even given a
// free move. Returns false (and leaves the board unchanged) if the history stack is full.
// Callers must not call this while the side to move is in check.
func (b *Board) PushNullMove() bool {
	if b.ply >= maxHistory {
		return false
	}

	rec := &b.history[b.ply]
	rec.move = Move{}
	rec.undo = positionUndo{prevCastling: b.pos.castling, prevEnPassant: b.pos.enpassant, captured: NoPiece}
	rec.fifty = b.fifty
	rec.hash = b.hash
	b.ply++

	b.hash = b.zt.NullMove(b.hash, &b.pos, b.turn)
	b.pos.enpassant = 0
	b.fifty++
	b.turn = b.turn.Opponent()
	if b.turn == White {
		b.fullmoves++
	}
	b.pushRepetition(b.hash)
	b.result = Result{}

	return true
}

// PopNullMove reverses PushNullMove.
func (b *Board) PopNullMove() {
	b.ply--
	rec := b.history[b.ply]

	b.popRepetition()
	b.turn = b.turn.Opponent()
	if b.turn == Black {
		b.fullmoves--
	}
	b.fifty = rec.fifty
	b.hash = rec.hash
	b.pos.enpassant = rec.undo.prevEnPassant
	b.result = Result{}
}

// LastMove returns the most recently pushed move, if any.
func (b *Board) LastMove() (Move, bool) {
	if b.ply == 0 {
		return Move{}, false
	}
	return b.history[b.ply-1].move, true
}

// HasCastled returns true iff the color has castled at some point in this board's history.
func (b *Board) HasCastled(c Color) bool {
	turn := b.turn
	for i := b.ply - 1; i >= 0; i-- {
		turn = turn.Opponent()
		m := b.history[i].move
		if turn == c && (m.Type == QueenSideCastle || m.Type == KingSideCastle) {
			return true
		}
	}
	return false
}

// AdjudicateNoLegalMoves is called by a caller that has already established the side to move
// has no legal moves, and records the corresponding checkmate/stalemate result.
func (b *Board) AdjudicateNoLegalMoves() Result {
	result := Result{Outcome: Draw, Reason: Stalemate}
	if b.pos.IsChecked(b.turn) {
		result = Result{Outcome: winnerOf(b.turn.Opponent()), Reason: Checkmate}
	}
	b.result = result
	return result
}

func winnerOf(c Color) Outcome {
	if c == White {
		return WhiteWins
	}
	return BlackWins
}

func (b *Board) updateResult() {
	if b.countRepetition(b.hash) >= threefoldCount {
		b.result = Result{Outcome: Draw, Reason: ThreefoldRepetition}
		return
	}
	if b.fifty >= fiftyMoveLimit {
		b.result = Result{Outcome: Draw, Reason: FiftyMoveRule}
		return
	}
	if b.pos.HasInsufficientMaterial() {
		b.result = Result{Outcome: Draw, Reason: InsufficientMaterial}
		return
	}
}

// updateFifty resets the fifty-move counter on a pawn move or a capture, and increments it
// otherwise (this includes castling, which is neither).
func updateFifty(old int, m Move) int {
	switch m.Type {
	case Push, Jump, Capture, EnPassant, Promotion, CapturePromotion:
		return 0
	default:
		return old + 1
	}
}

func (b *Board) pushRepetition(h ZobristHash) {
	b.repetition[b.repHead] = h
	b.repHead = (b.repHead + 1) % repetitionCap
	if b.repLen < repetitionCap {
		b.repLen++
	}
}

func (b *Board) popRepetition() {
	b.repHead = (b.repHead - 1 + repetitionCap) % repetitionCap
	if b.repLen > 0 {
		b.repLen--
	}
}

// countRepetition returns how many times hash appears in the current repetition window,
// including the most recent push.
func (b *Board) countRepetition(h ZobristHash) int {
	count := 0
	idx := b.repHead
	for i := 0; i < b.repLen; i++ {
		idx = (idx - 1 + repetitionCap) % repetitionCap
		if b.repetition[idx] == h {
			count++
		}
	}
	return count
}

// IsTwofold reports whether the current hash has occurred at least once earlier, the weaker
// repetition signal search uses as a cheap draw-score heuristic before three-fold is reached.
func (b *Board) IsTwofold() bool {
	return b.countRepetition(b.hash) >= 2
}

func (b *Board) String() string {
	return fmt.Sprintf("board{pos=%v, turn=%v, hash=%x, fifty=%v, fullmoves=%v, result=%v}",
		&b.pos, b.turn, b.hash, b.fifty, b.fullmoves, b.result)
}
