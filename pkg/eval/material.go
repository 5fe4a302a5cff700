package eval

import "github.com/herohde/morlock/pkg/board"

// NominalValue is the classic centipawn value of a piece type. Used for material
// balance and, separately, by SEE as each side's exchange value.
var NominalValue = [board.NumPieceTypes]int{
	board.Pawn:   100,
	board.Knight: 300,
	board.Bishop: 300,
	board.Rook:   500,
	board.Queen:  900,
	board.King:   20000,
}

func materialBalance(pos *board.Position, c board.Color) int {
	total := 0
	for pt := board.Pawn; pt <= board.Queen; pt++ {
		total += pos.PieceBitboard(board.NewPiece(c, pt)).PopCount() * NominalValue[pt]
	}
	return total
}
