package engine_test

import (
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/herohde/morlock/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerft(t *testing.T) {
	pos, turn, noprogress, fullmoves, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	b := board.NewBoard(board.NewZobristTable(0), pos, turn, noprogress, fullmoves)

	assert.Equal(t, uint64(20), engine.Perft(b, 1))
	assert.Equal(t, uint64(400), engine.Perft(b, 2))
	assert.Equal(t, uint64(8902), engine.Perft(b, 3))
}

func TestPerftDivide(t *testing.T) {
	pos, turn, noprogress, fullmoves, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	b := board.NewBoard(board.NewZobristTable(0), pos, turn, noprogress, fullmoves)

	counts := engine.PerftDivide(b, 2)
	require.Len(t, counts, 20)

	var total uint64
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, uint64(400), total)
}
