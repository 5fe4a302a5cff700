package eval

import "github.com/herohde/morlock/pkg/board"

// isqrtX20 is a precomputed round(20*sqrt(n)) table used to convert a raw mobility
// count into a diminishing-returns centipawn bonus: the first few reachable squares
// matter a lot, the twentieth barely more than the nineteenth.
var isqrtX20 = [32]int{
	0, 20, 28, 35, 40, 45, 49, 53, 57, 60,
	63, 66, 69, 72, 75, 77, 80, 82, 85, 87,
	89, 92, 94, 96, 98, 100, 102, 104, 106, 108,
	110, 111,
}

func mobilityBonus(n int) int {
	if n >= len(isqrtX20) {
		n = len(isqrtX20) - 1
	}
	return isqrtX20[n]
}

// mobilityScore returns the mobility score for one side's officers, counting moves
// to squares not occupied by the side's own pieces.
func mobilityScore(pos *board.Position, c board.Color) int {
	occ := pos.All()
	own := pos.Occupancy(c)

	total := 0
	for pt := board.Knight; pt <= board.Queen; pt++ {
		pieces := pos.PieceBitboard(board.NewPiece(c, pt))
		for pieces != 0 {
			var sq board.Square
			pieces, sq = pieces.PopLSB()
			n := (board.AttackboardFor(pt, sq, occ) &^ own).PopCount()
			total += mobilityBonus(n)
		}
	}
	return total
}

// evaluateMobility returns the mobility score from White's perspective. Mobility is
// phase-independent: the same bonus applies in the middlegame and the endgame, and
// Full adds it to the score untapered.
func evaluateMobility(pos *board.Position) int {
	return mobilityScore(pos, board.White) - mobilityScore(pos, board.Black)
}
