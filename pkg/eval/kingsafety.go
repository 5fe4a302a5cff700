package eval

import "github.com/herohde/morlock/pkg/board"

// King safety splits into two entirely different regimes by game phase: in the
// middlegame an exposed king is a liability (shield pawns, open files, attacker
// pressure), in the endgame it is an asset (centralization, opposition, mobility).

const (
	shieldImmediateBonus = 15 // shield pawn directly in front of the king's rank
	shieldAdvancedBonus  = 8  // shield pawn advanced one extra rank

	kingOpenFilePenalty     = -10
	kingSemiOpenFilePenalty = -5

	kingDangerCap = 150

	endgameCentralizeWeight = 10 // per square of distance from the center
	endgameApproachWeight   = 5  // per square of distance to the enemy king
	endgameMobilityBonus    = 3  // per free square around the king
)

// kingDangerWeight is the danger contributed by an enemy piece attacking a square
// in the king zone, by attacker type.
var kingDangerWeight = [board.NumPieceTypes]int{
	board.Pawn:   1,
	board.Knight: 2,
	board.Bishop: 2,
	board.Rook:   3,
	board.Queen:  5,
}

func evaluateKingSafety(pos *board.Position, phase int) int {
	white := kingSafetyScore(pos, board.White, phase)
	black := kingSafetyScore(pos, board.Black, phase)
	return white - black
}

func kingSafetyScore(pos *board.Position, c board.Color, phase int) int {
	if IsEndgame(phase) {
		return kingActivityScore(pos, c)
	}
	return kingShieldAndDangerScore(pos, c)
}

// kingShieldAndDangerScore rewards intact shield pawns on the king's file and its
// neighbors, penalizes open/semi-open files there, and applies a quadratic penalty
// for enemy pressure on the king zone.
func kingShieldAndDangerScore(pos *board.Position, c board.Color) int {
	king := pos.King(c)
	own := pos.PieceBitboard(board.NewPiece(c, board.Pawn))
	opp := pos.PieceBitboard(board.NewPiece(c.Opponent(), board.Pawn))

	score := 0
	for _, f := range adjacentFiles(king.File()) {
		file := board.BitFile(f)

		switch {
		case shieldSquare(c, f, king.Rank(), 1)&own != 0:
			score += shieldImmediateBonus
		case shieldSquare(c, f, king.Rank(), 2)&own != 0:
			score += shieldAdvancedBonus
		}

		hasOwn := own&file != 0
		hasOpp := opp&file != 0
		switch {
		case !hasOwn && !hasOpp:
			score += kingOpenFilePenalty
		case !hasOwn && hasOpp:
			score += kingSemiOpenFilePenalty
		}
	}

	danger := 0
	zone := board.KingAttackboard(king)
	occ := pos.All()
	for pt := board.Pawn; pt <= board.Queen; pt++ {
		attackers := pos.PieceBitboard(board.NewPiece(c.Opponent(), pt))
		for attackers != 0 {
			var sq board.Square
			attackers, sq = attackers.PopLSB()

			var attacks board.Bitboard
			if pt == board.Pawn {
				attacks = board.PawnAttackboard(c.Opponent(), sq)
			} else {
				attacks = board.AttackboardFor(pt, sq, occ)
			}
			danger += kingDangerWeight[pt] * (attacks & zone).PopCount()
		}
	}
	penalty := danger * danger / 4
	if penalty > kingDangerCap {
		penalty = kingDangerCap
	}
	return score - penalty
}

// shieldSquare returns the mask of the square on file f that is steps ranks in
// front of the king's rank, or empty if off the board.
func shieldSquare(c board.Color, f board.File, kr board.Rank, steps int) board.Bitboard {
	var r int
	if c == board.White {
		r = int(kr) - steps
	} else {
		r = int(kr) + steps
	}
	if r < 0 || r > 7 {
		return board.EmptyBitboard
	}
	return board.BitMask(board.NewSquare(f, board.Rank(r)))
}

// kingActivityScore rewards central, active kings in the endgame, where the king is
// an attacking piece rather than a liability to be sheltered: walk it toward the
// center, toward the enemy king, and keep its neighborhood unblocked.
func kingActivityScore(pos *board.Position, c board.Color) int {
	king := pos.King(c)
	enemy := pos.King(c.Opponent())

	score := -endgameCentralizeWeight * centerDistance(king)
	score -= endgameApproachWeight * chebyshev(king, enemy)
	score += endgameMobilityBonus * (board.KingAttackboard(king) &^ pos.Occupancy(c)).PopCount()
	return score
}

// axisCenterDistance is the distance from a file or rank index to the nearer of
// the two central indices (3 and 4).
var axisCenterDistance = [8]int{3, 2, 1, 0, 0, 1, 2, 3}

// centerDistance is the Chebyshev distance from sq to the nearest center square.
func centerDistance(sq board.Square) int {
	f := axisCenterDistance[sq.File()]
	r := axisCenterDistance[sq.Rank()]
	if f > r {
		return f
	}
	return r
}

// chebyshev is the king-move distance between two squares.
func chebyshev(a, b board.Square) int {
	df := int(a.File()) - int(b.File())
	if df < 0 {
		df = -df
	}
	dr := int(a.Rank()) - int(b.Rank())
	if dr < 0 {
		dr = -dr
	}
	if df > dr {
		return df
	}
	return dr
}
