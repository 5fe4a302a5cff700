package board_test

import (
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moveStrings(list *board.MoveList) []string {
	var ret []string
	for i := 0; i < list.Len(); i++ {
		ret = append(ret, list.At(i).String())
	}
	return ret
}

func TestGenerateMoves_Pawns(t *testing.T) {
	pos := board.NewEmptyPosition()
	pos.Put(board.E2, board.WhitePawn)
	pos.Put(board.G5, board.WhitePawn)

	var list board.MoveList
	board.GenerateMoves(pos, board.White, &list)

	assert.ElementsMatch(t, []string{"e2e3", "e2e4", "g5g6"}, moveStrings(&list))
}

func TestGenerateMoves_PawnCapture(t *testing.T) {
	pos := board.NewEmptyPosition()
	pos.Put(board.E2, board.WhitePawn)
	pos.Put(board.D3, board.BlackKnight)
	pos.Put(board.F3, board.BlackBishop)

	var list board.MoveList
	board.GenerateMoves(pos, board.White, &list)

	assert.ElementsMatch(t, []string{"e2d3", "e2e3", "e2e4", "e2f3"}, moveStrings(&list))
}

func TestGenerateMoves_Promotion(t *testing.T) {
	pos := board.NewEmptyPosition()
	pos.Put(board.D7, board.WhitePawn)

	var list board.MoveList
	board.GenerateMoves(pos, board.White, &list)

	assert.ElementsMatch(t, []string{"d7d8q", "d7d8r", "d7d8b", "d7d8n"}, moveStrings(&list))
}

func TestGenerateMoves_EnPassant(t *testing.T) {
	pos := board.NewEmptyPosition()
	pos.Put(board.C4, board.BlackPawn)
	pos.Put(board.D4, board.WhitePawn)
	pos.SetEnPassant(board.D3)

	var list board.MoveList
	board.GenerateMoves(pos, board.Black, &list)

	assert.ElementsMatch(t, []string{"c4c3", "c4d3"}, moveStrings(&list))
}

func TestGenerateMoves_Officers(t *testing.T) {
	pos := board.NewEmptyPosition()
	pos.Put(board.D3, board.WhiteQueen)
	pos.Put(board.C2, board.BlackRook)
	pos.Put(board.C4, board.BlackRook)
	pos.Put(board.F5, board.BlackRook)
	pos.Put(board.B3, board.BlackRook)
	pos.Put(board.E3, board.BlackBishop)
	pos.Put(board.D5, board.BlackQueen)

	var list board.MoveList
	board.GenerateMoves(pos, board.White, &list)

	assert.ElementsMatch(t, []string{
		"d3f1", "d3d1", "d3e2", "d3d2", "d3c3", "d3e4", "d3d4",
		"d3c2", "d3e3", "d3b3", "d3c4", "d3f5", "d3d5",
	}, moveStrings(&list))
}

func TestGenerateMoves_Castling(t *testing.T) {
	t.Run("full rights", func(t *testing.T) {
		pos := board.NewEmptyPosition()
		pos.Put(board.E1, board.WhiteKing)
		pos.Put(board.H1, board.WhiteRook)
		pos.Put(board.A1, board.WhiteRook)
		pos.SetCastling(board.FullCastlingRights)

		var list board.MoveList
		board.GenerateMoves(pos, board.White, &list)

		assert.Contains(t, moveStrings(&list), "e1g1")
		assert.Contains(t, moveStrings(&list), "e1c1")
	})

	t.Run("obstructed kingside", func(t *testing.T) {
		pos := board.NewEmptyPosition()
		pos.Put(board.E8, board.BlackKing)
		pos.Put(board.H8, board.BlackRook)
		pos.Put(board.G8, board.WhiteBishop)
		pos.Put(board.A8, board.BlackRook)
		pos.SetCastling(board.FullCastlingRights)

		var list board.MoveList
		board.GenerateMoves(pos, board.Black, &list)

		assert.NotContains(t, moveStrings(&list), "e8g8")
		assert.Contains(t, moveStrings(&list), "e8c8")
	})

	t.Run("no rights", func(t *testing.T) {
		pos := board.NewEmptyPosition()
		pos.Put(board.E1, board.WhiteKing)
		pos.Put(board.H1, board.WhiteRook)
		pos.Put(board.A1, board.WhiteRook)

		var list board.MoveList
		board.GenerateMoves(pos, board.White, &list)

		assert.NotContains(t, moveStrings(&list), "e1g1")
		assert.NotContains(t, moveStrings(&list), "e1c1")
	})
}

func TestIsAttacked(t *testing.T) {
	pos := board.NewEmptyPosition()
	pos.Put(board.A3, board.WhiteKing)
	pos.Put(board.B3, board.BlackRook)
	pos.Put(board.A2, board.BlackBishop)

	assert.True(t, pos.IsAttacked(board.Black, board.A3))
	assert.True(t, pos.IsChecked(board.White))
	assert.False(t, pos.IsAttacked(board.Black, board.A4))
}

func TestHasInsufficientMaterial(t *testing.T) {
	pos := board.NewEmptyPosition()
	pos.Put(board.A1, board.WhiteKing)
	pos.Put(board.H8, board.BlackKing)
	assert.True(t, pos.HasInsufficientMaterial())

	pos.Put(board.D4, board.WhiteKnight)
	assert.True(t, pos.HasInsufficientMaterial())

	pos.Put(board.D5, board.BlackKnight)
	assert.False(t, pos.HasInsufficientMaterial())
}

func TestPerft1(t *testing.T) {
	tests := []struct {
		fen      string
		expected int
	}{
		{fen.Initial, 20},
		// http://www.talkchess.com/forum3/viewtopic.php?t=48616
		{"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/1PB1P1b1/P1NP1N2/2P1QPPP/R4RK1 b - b3 0 10", 45},
	}

	for _, tt := range tests {
		pos, turn, _, _, err := fen.Decode(tt.fen)
		require.NoError(t, err)

		var list board.MoveList
		board.GenerateMoves(pos, turn, &list)
		assert.Equal(t, tt.expected, list.Len())
	}
}
