// Package eval implements static position evaluation: material, piece-square
// tables, mobility, pawn structure, piece activity and king safety, blended by
// game phase.
package eval

import (
	"context"

	"github.com/herohde/morlock/pkg/board"
)

// Evaluator is a static position evaluator. Evaluate always returns the score from
// the perspective of the side to move: positive favors the mover.
type Evaluator interface {
	Evaluate(ctx context.Context, b *board.Board) board.Score
}

// Material is the cheapest possible evaluator: nominal piece values only, no
// positional terms. Used by quiescence search as a fast lazy-eval guard and delta
// pruning bound before the full evaluator runs.
type Material struct{}

func (Material) Evaluate(_ context.Context, b *board.Board) board.Score {
	pos := b.Position()
	turn := b.Turn()
	balance := materialBalance(pos, turn) - materialBalance(pos, turn.Opponent())
	return board.Score(balance)
}

// Castling-related bonuses: retained rights keep options open, having actually
// castled is worth more.
const (
	castlingRightBonus = 10 // per retained right
	castledBonus       = 40
)

// Full is the complete tapered evaluator: material, piece-square tables, mobility,
// pawn structure, piece terms and king safety, blended by game phase. It holds a
// zobrist table (to key the pawn cache) and a pawn structure cache shared across a
// search.
type Full struct {
	zt    *board.ZobristTable
	pawns *PawnCache
}

// NewFull returns a complete evaluator. zt must be the same table the board's hash
// is derived from, so pawn cache keys line up. A 2^14-slot pawn cache comfortably
// covers the distinct pawn structures seen along one search tree.
func NewFull(zt *board.ZobristTable) *Full {
	return &Full{zt: zt, pawns: NewPawnCache(1 << 14)}
}

func (e *Full) Evaluate(_ context.Context, b *board.Board) board.Score {
	pos := b.Position()
	turn := b.Turn()

	if pos.HasInsufficientMaterial() {
		return 0
	}

	phase := Phase(pos)
	pawnScore, passedWhite, passedBlack := EvaluatePawns(e.pawns, e.zt, pos)

	score := materialBalance(pos, board.White) - materialBalance(pos, board.Black)
	score += e.pieceSquareScore(pos, phase)
	score += evaluateMobility(pos)
	score += pawnScore
	score += evaluatePieces(pos, phase, passedWhite, passedBlack)
	score += evaluateKingSafety(pos, phase)
	score += castlingScore(b, board.White) - castlingScore(b, board.Black)

	if turn == board.Black {
		score = -score
	}
	return board.Score(clampScore(score))
}

func (e *Full) pieceSquareScore(pos *board.Position, phase int) int {
	score := 0
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		piece := pos.PieceAt(sq)
		if piece == board.NoPiece {
			continue
		}
		v := PST(phase, piece.Color(), piece.Type(), sq)
		if piece.Color() == board.White {
			score += v
		} else {
			score -= v
		}
	}
	return score
}

func castlingScore(b *board.Board, c board.Color) int {
	rights := board.WhiteKingSideCastle | board.WhiteQueenSideCastle
	if c == board.Black {
		rights = board.BlackKingSideCastle | board.BlackQueenSideCastle
	}

	score := 0
	if b.Position().Castling().IsAllowed(rights & (board.WhiteKingSideCastle | board.BlackKingSideCastle)) {
		score += castlingRightBonus
	}
	if b.Position().Castling().IsAllowed(rights & (board.WhiteQueenSideCastle | board.BlackQueenSideCastle)) {
		score += castlingRightBonus
	}
	if b.HasCastled(c) {
		score += castledBonus
	}
	return score
}

// clampScore keeps the static evaluation comfortably inside board.Score's mate-score
// band, so a run of positional bonuses can never be mistaken for a forced mate.
func clampScore(s int) int {
	const bound = int(board.MateScore) - 1
	if s > bound {
		return bound
	}
	if s < -bound {
		return -bound
	}
	return s
}
