package eval

import "github.com/herohde/morlock/pkg/board"

// Piece-specific positional terms beyond material, PST and raw mobility: knight
// outposts, the bishop pair and bad bishops, and the rook's file/rank/passer
// interactions.
const (
	outpostBonus         = 15
	outpostDefendedBonus = 10

	bishopPairBonus  = 30
	badBishopPenalty = -5 // per own pawn on the bishop's square color

	rookOpenFileBonus     = 20
	rookSemiOpenFileBonus = 10
	rookSeventhMG         = 15
	rookSeventhEG         = 25
	rookBehindPasserBonus = 20
	connectedRooksBonus   = 15
)

// evaluatePieces returns the white-black piece-term score. The passed-pawn
// bitboards come from the pawn evaluation, so the rook-behind-passer term doesn't
// re-derive passer status.
func evaluatePieces(pos *board.Position, phase int, passedWhite, passedBlack board.Bitboard) int {
	white := pieceScore(pos, board.White, phase, passedWhite)
	black := pieceScore(pos, board.Black, phase, passedBlack)
	return white - black
}

func pieceScore(pos *board.Position, c board.Color, phase int, ownPassed board.Bitboard) int {
	score := 0
	score += knightScore(pos, c)
	score += bishopScore(pos, c)
	score += rookScore(pos, c, phase, ownPassed)
	return score
}

func knightScore(pos *board.Position, c board.Color) int {
	knights := pos.PieceBitboard(board.NewPiece(c, board.Knight))
	own := pos.PieceBitboard(board.NewPiece(c, board.Pawn))
	opp := pos.PieceBitboard(board.NewPiece(c.Opponent(), board.Pawn))

	score := 0
	for knights != 0 {
		var sq board.Square
		knights, sq = knights.PopLSB()
		if !inEnemyHalf(c, sq) || pawnAttackable(opp, c.Opponent(), sq) {
			continue
		}
		score += outpostBonus
		if hasPawnSupport(own, c, sq) {
			score += outpostDefendedBonus
		}
	}
	return score
}

// inEnemyHalf reports whether sq lies in the opponent's half of the board.
func inEnemyHalf(c board.Color, sq board.Square) bool {
	if c == board.White {
		return sq.Rank() <= board.Rank5
	}
	return sq.Rank() >= board.Rank4
}

// pawnAttackable reports whether a pawn of color pc could ever attack sq: one
// already attacks it, or one sits on an adjacent file early enough to advance into
// attacking range.
func pawnAttackable(pawns board.Bitboard, pc board.Color, sq board.Square) bool {
	for _, f := range adjacentFiles(sq.File()) {
		if f == sq.File() {
			continue
		}
		candidates := pawns & board.BitFile(f)
		for candidates != 0 {
			var psq board.Square
			candidates, psq = candidates.PopLSB()
			// The pawn attacks sq from one rank "before" it in its own direction of
			// travel; any pawn at or before that rank can advance there.
			if !isAhead(pc, psq.Rank(), sq.Rank()) && psq.Rank() != sq.Rank() {
				return true
			}
		}
	}
	return false
}

func bishopScore(pos *board.Position, c board.Color) int {
	bishops := pos.PieceBitboard(board.NewPiece(c, board.Bishop))
	own := pos.PieceBitboard(board.NewPiece(c, board.Pawn))

	score := 0
	if bishops.PopCount() >= 2 {
		score += bishopPairBonus
	}

	rest := bishops
	for rest != 0 {
		var sq board.Square
		rest, sq = rest.PopLSB()
		score += badBishopPenalty * (own & sameColorSquares(sq)).PopCount()
	}
	return score
}

const lightSquares board.Bitboard = 0x55aa55aa55aa55aa

// sameColorSquares returns the mask of all squares of sq's color.
func sameColorSquares(sq board.Square) board.Bitboard {
	if lightSquares.IsSet(sq) {
		return lightSquares
	}
	return ^lightSquares
}

func rookScore(pos *board.Position, c board.Color, phase int, ownPassed board.Bitboard) int {
	rooks := pos.PieceBitboard(board.NewPiece(c, board.Rook))
	own := pos.PieceBitboard(board.NewPiece(c, board.Pawn))
	opp := pos.PieceBitboard(board.NewPiece(c.Opponent(), board.Pawn))
	occ := pos.All()

	seventh := board.Rank7
	if c == board.Black {
		seventh = board.Rank2
	}

	score := 0
	rest := rooks
	for rest != 0 {
		var sq board.Square
		rest, sq = rest.PopLSB()
		file := board.BitFile(sq.File())

		switch {
		case (own|opp)&file == 0:
			score += rookOpenFileBonus
		case own&file == 0:
			score += rookSemiOpenFileBonus
		}

		if sq.Rank() == seventh {
			score += Taper(phase, rookSeventhMG, rookSeventhEG)
		}

		// Behind a passer: on the passer's file, on the rank the pawn came from, so
		// the rook escorts it all the way to promotion.
		passers := ownPassed & file
		for passers != 0 {
			var psq board.Square
			passers, psq = passers.PopLSB()
			if isAhead(c, psq.Rank(), sq.Rank()) {
				score += rookBehindPasserBonus
				break
			}
		}
	}

	// Connected rooks: sharing a file or rank with nothing between them.
	if rooks.PopCount() >= 2 {
		remaining, first := rooks.PopLSB()
		second := remaining.LastPopSquare()
		sameLine := first.File() == second.File() || first.Rank() == second.Rank()
		if sameLine && board.RookAttackboard(first, occ).IsSet(second) {
			score += connectedRooksBonus
		}
	}
	return score
}
