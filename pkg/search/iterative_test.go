package search_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/herohde/morlock/pkg/search"
	"github.com/stretchr/testify/require"
)

// depthEchoSearcher returns a fixed move at whatever depth it's asked to search,
// counting how many times it was invoked -- enough to observe Iterative's
// depth-by-depth driving behavior without a real search tree.
type depthEchoSearcher struct {
	calls atomic.Int32
	move  board.Move
}

func (s *depthEchoSearcher) Search(ctx context.Context, sctx *search.Context, b *board.Board, depth int) (uint64, board.Score, []board.Move, error) {
	s.calls.Add(1)
	return uint64(depth), board.Score(depth), []board.Move{s.move}, nil
}

func testBoard(t *testing.T) *board.Board {
	t.Helper()
	pos, turn, noprogress, fullmoves, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	return board.NewBoard(board.NewZobristTable(0), pos, turn, noprogress, fullmoves)
}

func TestIterative_StopsAtDepthLimit(t *testing.T) {
	ctx := context.Background()
	s := &depthEchoSearcher{move: board.NewMove(board.E2, board.E4, board.WhitePawn)}
	it := search.NewIterative(s, search.NoTranspositionTable{})

	limit := 3
	h, out := it.Launch(ctx, testBoard(t), search.Options{DepthLimit: &limit})

	var last search.PV
	for pv := range out {
		last = pv
	}

	require.Equal(t, 3, last.Depth)
	require.EqualValues(t, 3, s.calls.Load())

	// The search already finished on its own; Halt just reports the final PV.
	require.Equal(t, last.Moves, h.Halt().Moves)
}

// pausingSearcher completes instantly through resumeUntil, then blocks on ctx
// cancellation for any deeper call -- letting a test deterministically pin exactly
// how many iterations finish before Halt is exercised, without racing Iterative's
// own single-slot, latest-PV-wins output channel.
type pausingSearcher struct {
	resumeUntil int
	started     chan int
	move        board.Move
}

func (s *pausingSearcher) Search(ctx context.Context, sctx *search.Context, b *board.Board, depth int) (uint64, board.Score, []board.Move, error) {
	s.started <- depth
	if depth > s.resumeUntil {
		<-ctx.Done()
		return 0, 0, nil, search.ErrHalted
	}
	return uint64(depth), board.Score(depth), []board.Move{s.move}, nil
}

func TestIterative_HaltStopsBeforeDepthLimit(t *testing.T) {
	ctx := context.Background()
	s := &pausingSearcher{
		resumeUntil: 2,
		started:     make(chan int),
		move:        board.NewMove(board.E2, board.E4, board.WhitePawn),
	}
	it := search.NewIterative(s, search.NoTranspositionTable{})

	limit := 1000
	h, out := it.Launch(ctx, testBoard(t), search.Options{DepthLimit: &limit})

	require.Equal(t, 1, <-s.started)
	require.Equal(t, 2, <-s.started)
	require.Equal(t, 3, <-s.started) // now blocked inside Search, waiting on ctx.Done()

	pv := h.Halt()
	require.Equal(t, 2, pv.Depth)

	// The channel must still be closed soon after Halt. Its single buffer slot may
	// first yield the latest completed PV, which is the depth-2 one.
	timeout := time.After(time.Second)
	for {
		select {
		case last, ok := <-out:
			if !ok {
				return
			}
			require.Equal(t, 2, last.Depth)
		case <-timeout:
			t.Fatal("out channel was not closed after Halt")
		}
	}
}

func TestIterative_StopsOnMateFoundWithinDepth(t *testing.T) {
	ctx := context.Background()
	s := &mateAtDepthSearcher{mateDepth: 2}
	it := search.NewIterative(s, search.NoTranspositionTable{})

	limit := 10
	_, out := it.Launch(ctx, testBoard(t), search.Options{DepthLimit: &limit})

	var last search.PV
	for pv := range out {
		last = pv
	}

	// A mate in 1 ply is reported once depth reaches it; no need to search deeper.
	require.Equal(t, 2, last.Depth)
}

// mateAtDepthSearcher reports an ordinary score until depth reaches mateDepth, at
// which point it reports a forced mate one ply away.
type mateAtDepthSearcher struct {
	mateDepth int
}

func (s *mateAtDepthSearcher) Search(ctx context.Context, sctx *search.Context, b *board.Board, depth int) (uint64, board.Score, []board.Move, error) {
	move := board.NewMove(board.E2, board.E4, board.WhitePawn)
	if depth < s.mateDepth {
		return 1, 0, []board.Move{move}, nil
	}
	return 1, board.MaxScore - 1, []board.Move{move}, nil
}
