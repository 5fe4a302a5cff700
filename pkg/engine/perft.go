package engine

import (
	"github.com/herohde/morlock/pkg/board"
)

// Perft counts the leaf nodes of the legal move tree rooted at b, to the given
// depth -- the standard move-generator correctness/performance benchmark. See:
// https://www.chessprogramming.org/Perft_Results.
func Perft(b *board.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	var list board.MoveList
	board.GenerateMoves(b.Position(), b.Turn(), &list)

	var nodes uint64
	for _, m := range list.Slice() {
		if !b.Push(m) {
			continue
		}
		nodes += Perft(b, depth-1)
		b.Pop()
	}
	return nodes
}

// PerftDivide is Perft to the given depth, reported per root move -- useful for isolating
// a move generation bug to a specific first move.
func PerftDivide(b *board.Board, depth int) map[board.Move]uint64 {
	var list board.MoveList
	board.GenerateMoves(b.Position(), b.Turn(), &list)

	counts := make(map[board.Move]uint64)
	for _, m := range list.Slice() {
		if !b.Push(m) {
			continue
		}
		counts[m] = Perft(b, depth-1)
		b.Pop()
	}
	return counts
}
