// Package board contains the chess board representation: bitboards, move
// generation, and the mutable game state used by search.
package board

import "fmt"

const (
	repetition3Limit   = 3
	repetition5Limit   = 5
	noprogressPlyLimit = 100
)

// undo holds everything Pop needs to reverse a single Push that Position's mutation
// alone can't recover (captured piece, prior rights, prior hash).
type undo struct {
	move       Move
	captured   Piece
	capturedAt Square
	castling   Castling
	enpassant  Square
	noprogress int
	hash       ZobristHash
	result     Result
}

// Board is a mutable chess position plus the metadata needed to adjudicate draws:
// side to move, move counters, repetition history and a running zobrist hash. Moves
// are applied and reverted in place via Push/Pop, which is considerably cheaper than
// the functional, copy-on-write style of allocating a new position per ply. Not
// thread-safe; a search worker owns one Board for its lifetime.
type Board struct {
	zt  *ZobristTable
	pos *Position

	turn       Color
	fullmoves  int
	noprogress int
	hash       ZobristHash
	result     Result

	history     []undo
	nullHistory []nullUndo
	repetitions map[ZobristHash]int
}

func NewBoard(zt *ZobristTable, pos *Position, turn Color, noprogress, fullmoves int) *Board {
	hash := zt.Hash(pos, turn)
	return &Board{
		zt:          zt,
		pos:         pos,
		turn:        turn,
		fullmoves:   fullmoves,
		noprogress:  noprogress,
		hash:        hash,
		repetitions: map[ZobristHash]int{hash: 1},
	}
}

func (b *Board) Position() *Position {
	return b.pos
}

// Copy returns an independent board in the same position, for handing an identical
// starting point to concurrent Lazy SMP search workers. The copy has its own
// position and history; the zobrist table is shared, since it's read-only.
func (b *Board) Copy() *Board {
	cp := &Board{
		zt:          b.zt,
		pos:         b.pos.Copy(),
		turn:        b.turn,
		fullmoves:   b.fullmoves,
		noprogress:  b.noprogress,
		hash:        b.hash,
		result:      b.result,
		history:     append([]undo(nil), b.history...),
		nullHistory: append([]nullUndo(nil), b.nullHistory...),
		repetitions: make(map[ZobristHash]int, len(b.repetitions)),
	}
	for k, v := range b.repetitions {
		cp.repetitions[k] = v
	}
	return cp
}

func (b *Board) Turn() Color {
	return b.turn
}

func (b *Board) NoProgress() int {
	return b.noprogress
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

func (b *Board) LastMove() (Move, bool) {
	if len(b.history) == 0 {
		return NoMove, false
	}
	return b.history[len(b.history)-1].move, true
}

// HasCastled returns true iff the color has castled earlier in the game.
func (b *Board) HasCastled(c Color) bool {
	turn := b.turn.Opponent()
	for i := len(b.history) - 1; i >= 0; i-- {
		if turn == c && b.history[i].move.IsCastling() {
			return true
		}
		turn = turn.Opponent()
	}
	return false
}

// Push applies a pseudo-legal move and returns false (leaving the board unchanged)
// iff it leaves the mover's own king in check, which is the one pseudo-legal-but-not-
// legal case this representation can produce.
func (b *Board) Push(m Move) bool {
	turn := b.turn
	from, to := m.From(), m.To()
	piece := m.Piece()

	u := undo{
		move:       m,
		captured:   NoPiece,
		castling:   b.pos.Castling(),
		enpassant:  b.pos.enpassant,
		noprogress: b.noprogress,
		hash:       b.hash,
		result:     b.result,
	}

	hash := b.hash
	hash ^= b.zt.CastlingKey(u.castling)
	if u.enpassant != NoSquare {
		hash ^= b.zt.EnPassantKey(u.enpassant)
	}

	b.pos.Remove(from)
	hash ^= b.zt.PieceKey(piece, from)

	switch {
	case m.IsEnPassant():
		capSq := m.EnPassantCaptureSquare()
		u.captured = b.pos.Remove(capSq)
		u.capturedAt = capSq
		hash ^= b.zt.PieceKey(u.captured, capSq)
	case m.IsCapture():
		u.captured = b.pos.Remove(to)
		u.capturedAt = to
		hash ^= b.zt.PieceKey(u.captured, to)
	}

	placed := piece
	if m.IsPromotion() {
		placed = m.Promoted()
	}
	b.pos.Put(to, placed)
	hash ^= b.zt.PieceKey(placed, to)

	if m.IsCastling() {
		rookFrom, rookTo := castlingRookSquares(to)
		rook := b.pos.Remove(rookFrom)
		b.pos.Put(rookTo, rook)
		hash ^= b.zt.PieceKey(rook, rookFrom)
		hash ^= b.zt.PieceKey(rook, rookTo)
	}

	newCastling := u.castling &^ (RightsLostBySquare(from) | RightsLostBySquare(to))
	b.pos.SetCastling(newCastling)
	hash ^= b.zt.CastlingKey(newCastling)

	newEnPassant := NoSquare
	if m.IsDoublePush() {
		if turn == White {
			newEnPassant = to + 8
		} else {
			newEnPassant = to - 8
		}
	}
	b.pos.SetEnPassant(newEnPassant)
	if newEnPassant != NoSquare {
		hash ^= b.zt.EnPassantKey(newEnPassant)
	}

	hash ^= b.zt.TurnKey(turn) ^ b.zt.TurnKey(turn.Opponent())

	if b.pos.IsChecked(turn) {
		// Illegal: undo everything and report failure.
		b.undoMutation(u, turn)
		return false
	}

	if piece.Type() == Pawn || u.captured != NoPiece {
		b.noprogress = 0
	} else {
		b.noprogress++
	}

	b.hash = hash
	b.turn = turn.Opponent()
	if b.turn == White {
		b.fullmoves++
	}
	b.history = append(b.history, u)
	b.repetitions[b.hash]++

	// Re-adjudicate from scratch: the prior result belongs to the prior position
	// and must not leak into this one.
	b.result = Result{}
	b.updateResult()
	return true
}

// undoMutation reverses the board-state changes Push already applied, used only when
// Push discovers the move was pseudo-legal but not legal (self-check).
func (b *Board) undoMutation(u undo, _ Color) {
	m := u.move
	from, to := m.From(), m.To()

	if m.IsCastling() {
		rookFrom, rookTo := castlingRookSquares(to)
		rook := b.pos.Remove(rookTo)
		b.pos.Put(rookFrom, rook)
	}

	b.pos.Remove(to)
	b.pos.Put(from, m.Piece())

	if u.captured != NoPiece {
		b.pos.Put(u.capturedAt, u.captured)
	}

	b.pos.SetCastling(u.castling)
	b.pos.SetEnPassant(u.enpassant)
}

// Pop reverses the most recent Push. Panics if the history is empty.
func (b *Board) Pop() Move {
	n := len(b.history)
	if n == 0 {
		panic("pop on empty board history")
	}
	u := b.history[n-1]
	b.history = b.history[:n-1]

	b.repetitions[b.hash]--
	b.turn = b.turn.Opponent()
	if b.turn == Black {
		b.fullmoves--
	}

	m := u.move
	from, to := m.From(), m.To()

	if m.IsCastling() {
		rookFrom, rookTo := castlingRookSquares(to)
		rook := b.pos.Remove(rookTo)
		b.pos.Put(rookFrom, rook)
	}

	b.pos.Remove(to)
	b.pos.Put(from, m.Piece())

	if u.captured != NoPiece {
		b.pos.Put(u.capturedAt, u.captured)
	}

	b.pos.SetCastling(u.castling)
	b.pos.SetEnPassant(u.enpassant)

	b.noprogress = u.noprogress
	b.hash = u.hash
	b.result = u.result
	return m
}

// nullUndo holds what PopNull needs to reverse PushNull.
type nullUndo struct {
	enpassant Square
	hash      ZobristHash
}

// PushNull passes the turn without moving a piece, for null-move pruning: the
// opponent gets a free tempo, and if they still can't refute the position, it's
// safely good regardless of whose move it really is. Illegal while in check, since
// passing would leave the king in an impossible state.
func (b *Board) PushNull() {
	u := nullUndo{enpassant: b.pos.enpassant, hash: b.hash}
	b.nullHistory = append(b.nullHistory, u)

	hash := b.hash
	if u.enpassant != NoSquare {
		hash ^= b.zt.EnPassantKey(u.enpassant)
	}
	b.pos.SetEnPassant(NoSquare)

	hash ^= b.zt.TurnKey(b.turn) ^ b.zt.TurnKey(b.turn.Opponent())
	b.hash = hash
	b.turn = b.turn.Opponent()
}

// PopNull reverses the most recent PushNull. Panics if there is no null move to pop.
func (b *Board) PopNull() {
	n := len(b.nullHistory)
	if n == 0 {
		panic("pop null on empty null history")
	}
	u := b.nullHistory[n-1]
	b.nullHistory = b.nullHistory[:n-1]

	b.turn = b.turn.Opponent()
	b.pos.SetEnPassant(u.enpassant)
	b.hash = u.hash
}

func castlingRookSquares(kingTo Square) (from, to Square) {
	return RightForKingTarget(kingTo).RookSquares()
}

func (b *Board) updateResult() {
	switch seen := b.repetitions[b.hash]; {
	case seen >= repetition5Limit:
		b.result = Result{Outcome: DrawOutcome, Reason: Repetition5}
	case seen >= repetition3Limit:
		b.result = Result{Outcome: DrawOutcome, Reason: Repetition3}
	}
	if b.noprogress >= noprogressPlyLimit {
		b.result = Result{Outcome: DrawOutcome, Reason: NoProgress}
	}
	if b.pos.HasInsufficientMaterial() {
		b.result = Result{Outcome: DrawOutcome, Reason: InsufficientMaterial}
	}
}

// AdjudicateNoLegalMoves adjudicates the position assuming no legal moves exist for
// the side to move: checkmate if in check, stalemate otherwise.
func (b *Board) AdjudicateNoLegalMoves() Result {
	result := Result{Outcome: DrawOutcome, Reason: Stalemate}
	if b.pos.IsChecked(b.turn) {
		result = Result{Outcome: Loss(b.turn), Reason: Checkmate}
	}
	b.result = result
	return result
}

func (b *Board) Adjudicate(result Result) {
	b.result = result
}

func (b *Board) String() string {
	return fmt.Sprintf("board{pos=%v, turn=%v, hash=%x, noprogress=%v, fullmoves=%v, result=%v}",
		b.pos, b.turn, b.hash, b.noprogress, b.fullmoves, b.result)
}
