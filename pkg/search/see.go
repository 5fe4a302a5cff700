package search

import (
	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
)

// attackersTo returns every piece of color c that attacks sq given the occupancy
// occ, which may differ from the live position's occupancy -- this is what lets
// StaticExchange "see through" a piece already removed from the exchange and
// discover the slider behind it (an x-ray attacker).
func attackersTo(pos *board.Position, occ board.Bitboard, c board.Color, sq board.Square) board.Bitboard {
	var attackers board.Bitboard
	if pawns := pos.PieceBitboard(board.NewPiece(c, board.Pawn)); pawns != 0 {
		attackers |= board.PawnAttackboard(c.Opponent(), sq) & pawns & occ
	}
	attackers |= board.KnightAttackboard(sq) & pos.PieceBitboard(board.NewPiece(c, board.Knight)) & occ
	attackers |= board.KingAttackboard(sq) & pos.PieceBitboard(board.NewPiece(c, board.King)) & occ

	bishopsQueens := (pos.PieceBitboard(board.NewPiece(c, board.Bishop)) | pos.PieceBitboard(board.NewPiece(c, board.Queen))) & occ
	attackers |= board.BishopAttackboard(sq, occ) & bishopsQueens

	rooksQueens := (pos.PieceBitboard(board.NewPiece(c, board.Rook)) | pos.PieceBitboard(board.NewPiece(c, board.Queen))) & occ
	attackers |= board.RookAttackboard(sq, occ) & rooksQueens

	return attackers
}

// leastValuableAttacker picks the cheapest piece of color c (by nominal value) among
// the given attacker set, restricted to occ.
func leastValuableAttacker(pos *board.Position, attackers board.Bitboard, c board.Color) (board.Square, board.PieceType, bool) {
	for pt := board.Pawn; pt <= board.King; pt++ {
		bb := attackers & pos.PieceBitboard(board.NewPiece(c, pt))
		if bb != 0 {
			return bb.LastPopSquare(), pt, true
		}
	}
	return board.NoSquare, 0, false
}

// StaticExchange evaluates the net material gain of a capture (or the move itself,
// for non-captures, which always evaluates to 0) by simulating the full capture
// sequence on the target square: both sides keep recapturing with their cheapest
// available attacker until one side chooses to stop, at the point in the exchange
// that's most favorable to it. Returns the result in centipawns from the mover's
// perspective.
func StaticExchange(pos *board.Position, m board.Move) int {
	to := m.To()
	mover := m.Piece().Color()

	occ := pos.All() &^ board.BitMask(m.From())

	var capturedValue int
	if m.IsEnPassant() {
		capturedValue = eval.NominalValue[board.Pawn]
		occ &^= board.BitMask(m.EnPassantCaptureSquare())
	} else if captured := pos.PieceAt(to); captured != board.NoPiece {
		capturedValue = eval.NominalValue[captured.Type()]
	} else {
		return 0
	}

	gain := []int{capturedValue}
	attackerValue := eval.NominalValue[m.Piece().Type()]
	side := mover.Opponent()

	for {
		attackers := attackersTo(pos, occ, side, to)
		sq, pt, ok := leastValuableAttacker(pos, attackers, side)
		if !ok {
			break
		}
		occ &^= board.BitMask(sq)

		gain = append(gain, attackerValue-gain[len(gain)-1])
		attackerValue = eval.NominalValue[pt]
		side = side.Opponent()
	}

	for i := len(gain) - 2; i >= 0; i-- {
		if v := -gain[i+1]; v < gain[i] {
			gain[i] = v
		}
	}
	return gain[0]
}
