package eval_test

import (
	"context"
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBoard(t *testing.T, f string) *board.Board {
	t.Helper()
	pos, turn, noprogress, fullmoves, err := fen.Decode(f)
	require.NoError(t, err)
	return board.NewBoard(board.NewZobristTable(0), pos, turn, noprogress, fullmoves)
}

// mirror returns the position flipped vertically with the colors swapped: a white
// pawn on e2 becomes a black pawn on e7, white's castling rights become black's,
// and so on. A symmetric evaluation scores a position and its mirror identically
// from the respective side to move.
func mirror(pos *board.Position) *board.Position {
	m := board.NewEmptyPosition()
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		p := pos.PieceAt(sq)
		if p == board.NoPiece {
			continue
		}
		m.Put(sq^56, board.NewPiece(p.Color().Opponent(), p.Type()))
	}

	var c board.Castling
	if pos.Castling().IsAllowed(board.WhiteKingSideCastle) {
		c |= board.BlackKingSideCastle
	}
	if pos.Castling().IsAllowed(board.WhiteQueenSideCastle) {
		c |= board.BlackQueenSideCastle
	}
	if pos.Castling().IsAllowed(board.BlackKingSideCastle) {
		c |= board.WhiteKingSideCastle
	}
	if pos.Castling().IsAllowed(board.BlackQueenSideCastle) {
		c |= board.WhiteQueenSideCastle
	}
	m.SetCastling(c)

	if ep, ok := pos.EnPassant(); ok {
		m.SetEnPassant(ep ^ 56)
	}
	return m
}

func TestFull_SymmetricUnderColorSwap(t *testing.T) {
	ctx := context.Background()
	zt := board.NewZobristTable(0)

	fens := []string{
		fen.Initial,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3",
		"8/5pk1/6p1/8/3P4/2P5/5K2/8 w - - 0 1",
		"4k3/2pppp2/8/4P1K1/4PP2/3P4/8/8 w - - 0 1",
	}

	for _, f := range fens {
		pos, turn, noprogress, fullmoves, err := fen.Decode(f)
		require.NoError(t, err)

		b := board.NewBoard(zt, pos.Copy(), turn, noprogress, fullmoves)
		mb := board.NewBoard(zt, mirror(pos), turn.Opponent(), noprogress, fullmoves)

		e := eval.NewFull(zt)
		me := eval.NewFull(zt)
		assert.Equal(t, e.Evaluate(ctx, b), me.Evaluate(ctx, mb), "asymmetric evaluation of %v", f)
	}
}

func TestFull_InsufficientMaterialIsDrawn(t *testing.T) {
	ctx := context.Background()
	zt := board.NewZobristTable(0)

	fens := []string{
		"8/8/4k3/8/8/3B4/4K3/8 w - - 0 1",
		"8/8/4k3/8/8/8/4K3/8 w - - 0 1",
		"8/8/4k3/8/8/2n5/4K3/8 b - - 0 1",
	}

	for _, f := range fens {
		b := decodeBoard(t, f)
		assert.Equal(t, board.Score(0), eval.NewFull(zt).Evaluate(ctx, b), "fen: %v", f)
	}
}

func TestMaterial_CountsPieces(t *testing.T) {
	ctx := context.Background()

	b := decodeBoard(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	assert.Equal(t, board.Score(500), eval.Material{}.Evaluate(ctx, b))

	b = decodeBoard(t, "4k3/8/8/8/8/8/8/R3K3 b - - 0 1")
	assert.Equal(t, board.Score(-500), eval.Material{}.Evaluate(ctx, b))
}

func TestEvaluatePawns_PassedPawnDetected(t *testing.T) {
	pos, _, _, _, err := fen.Decode("4k3/8/8/3P4/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	zt := board.NewZobristTable(0)
	score, passedWhite, passedBlack := eval.EvaluatePawns(nil, zt, pos)

	assert.True(t, passedWhite.IsSet(board.D5))
	assert.Equal(t, board.EmptyBitboard, passedBlack)
	assert.Positive(t, score)
}

func TestEvaluatePawns_BlockedPawnIsNotPassed(t *testing.T) {
	pos, _, _, _, err := fen.Decode("4k3/3p4/8/3P4/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	zt := board.NewZobristTable(0)
	_, passedWhite, passedBlack := eval.EvaluatePawns(nil, zt, pos)

	assert.Equal(t, board.EmptyBitboard, passedWhite)
	assert.Equal(t, board.EmptyBitboard, passedBlack)
}

func TestEvaluatePawns_StructuralPenalties(t *testing.T) {
	zt := board.NewZobristTable(0)

	healthy, _, _, _, err := fen.Decode("4k3/pppppppp/8/8/8/8/PPPPPPPP/4K3 w - - 0 1")
	require.NoError(t, err)

	// White's c-pawn is doubled onto the b-file and the a-pawn is gone: doubled,
	// isolated and island penalties all apply relative to the healthy structure.
	damaged, _, _, _, err := fen.Decode("4k3/pppppppp/8/8/8/1P6/1P1PPPPP/4K3 w - - 0 1")
	require.NoError(t, err)

	healthyScore, _, _ := eval.EvaluatePawns(nil, zt, healthy)
	damagedScore, _, _ := eval.EvaluatePawns(nil, zt, damaged)

	assert.Greater(t, healthyScore, damagedScore)
}

func TestEvaluatePawns_CacheRoundTrip(t *testing.T) {
	pos, _, _, _, err := fen.Decode("4k3/2pppp2/8/4P1K1/4PP2/3P4/8/8 w - - 0 1")
	require.NoError(t, err)

	zt := board.NewZobristTable(0)
	cache := eval.NewPawnCache(1 << 8)

	cold, coldW, coldB := eval.EvaluatePawns(cache, zt, pos)
	warm, warmW, warmB := eval.EvaluatePawns(cache, zt, pos)

	assert.Equal(t, cold, warm)
	assert.Equal(t, coldW, warmW)
	assert.Equal(t, coldB, warmB)
}

func TestPhase_TapersFromOpeningToEndgame(t *testing.T) {
	initial, _, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	assert.Equal(t, eval.MaxPhase, eval.Phase(initial))
	assert.False(t, eval.IsEndgame(eval.Phase(initial)))

	ending, _, _, _, err := fen.Decode("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, 0, eval.Phase(ending))
	assert.True(t, eval.IsEndgame(eval.Phase(ending)))

	assert.Equal(t, 75, eval.Taper(12, 50, 100))
}
