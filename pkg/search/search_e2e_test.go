package search_test

import (
	"context"
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/herohde/morlock/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

// newFullRoot wires the production search stack: full evaluation with pawn cache,
// material-only lazy eval for quiescence guards.
func newFullRoot(zt *board.ZobristTable) func(h *search.History) search.Searcher {
	return func(h *search.History) search.Searcher {
		full := eval.NewFull(zt)
		return search.Negamax{
			Eval:    full,
			Quiet:   search.Quiescence{Eval: full, Lazy: eval.Material{}},
			History: h,
		}
	}
}

func newFullBoard(t *testing.T, f string) (*board.Board, func(h *search.History) search.Searcher) {
	t.Helper()
	zt := board.NewZobristTable(0)
	b := newTestBoard(t, f)
	return b, newFullRoot(zt)
}

func fullWindow(tt search.TranspositionTable) *search.Context {
	return &search.Context{Alpha: board.MinScore, Beta: board.MaxScore, TT: tt}
}

func TestSearch_MateInOne(t *testing.T) {
	ctx := context.Background()
	b, newRoot := newFullBoard(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	tt := search.NewTranspositionTable(ctx, 1<<20)

	_, score, pv, err := newRoot(search.NewHistory()).Search(ctx, fullWindow(tt), b, 2)
	require.NoError(t, err)
	require.NotEmpty(t, pv)

	assert.Equal(t, "a1a8", pv[0].String())
	md, ok := score.MateDistance()
	require.True(t, ok, "expected a mate score, got %v", score)
	assert.Equal(t, 1, md)
	assert.Positive(t, int(score))
}

// The same mate must be reported whether the transposition table is cold or warm:
// mate scores are folded by ply on store and unfolded on probe, so a hit found at
// a different ply can't distort the distance.
func TestSearch_MateScoreStableAcrossTTReuse(t *testing.T) {
	ctx := context.Background()
	b, newRoot := newFullBoard(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	tt := search.NewTranspositionTable(ctx, 1<<20)

	root := newRoot(search.NewHistory())

	_, cold, _, err := root.Search(ctx, fullWindow(tt), b, 3)
	require.NoError(t, err)
	_, warm, _, err := root.Search(ctx, fullWindow(tt), b, 3)
	require.NoError(t, err)

	mdCold, ok := cold.MateDistance()
	require.True(t, ok)
	mdWarm, ok := warm.MateDistance()
	require.True(t, ok)
	assert.Equal(t, mdCold, mdWarm)
	assert.Equal(t, 1, mdWarm)
}

func TestSearch_MateInTwo(t *testing.T) {
	ctx := context.Background()
	b, newRoot := newFullBoard(t, "r2qkb1r/pp2nppp/3p4/2pNN1B1/2BnP3/3P4/PPP2PPP/R2bK2R w KQkq - 0 1")
	tt := search.NewTranspositionTable(ctx, 16<<20)

	_, score, pv, err := newRoot(search.NewHistory()).Search(ctx, fullWindow(tt), b, 5)
	require.NoError(t, err)
	require.NotEmpty(t, pv)

	md, ok := score.MateDistance()
	require.True(t, ok, "expected a forced mate, got %v", score)
	assert.Equal(t, 3, md, "mate in two is three plies from the root")
	assert.Positive(t, int(score))
}

func TestSearch_EnPassantIsPlayable(t *testing.T) {
	ctx := context.Background()
	b, newRoot := newFullBoard(t, "4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1")
	tt := search.NewTranspositionTable(ctx, 1<<20)

	_, _, pv, err := newRoot(search.NewHistory()).Search(ctx, fullWindow(tt), b, 1)
	require.NoError(t, err)
	require.NotEmpty(t, pv)

	assert.Equal(t, "d4e3", pv[0].String())
}

func TestSearch_NeverCastlesThroughCheck(t *testing.T) {
	ctx := context.Background()
	b, newRoot := newFullBoard(t, "r3k2r/8/8/8/8/8/5q2/R3K2R w KQkq - 0 1")
	tt := search.NewTranspositionTable(ctx, 1<<20)

	_, _, pv, err := newRoot(search.NewHistory()).Search(ctx, fullWindow(tt), b, 3)
	require.NoError(t, err)
	if len(pv) > 0 {
		assert.NotEqual(t, "e1g1", pv[0].String())
	}
}

// A search facing the fifty-move wall prefers the draw to staying a rook down:
// the draw adjudication must be visible at non-root plies.
func TestSearch_FiftyMoveDrawSeenInSearch(t *testing.T) {
	ctx := context.Background()
	b, newRoot := newFullBoard(t, "k7/8/8/8/8/1r6/8/K7 w - - 99 1")
	tt := search.NewTranspositionTable(ctx, 1<<20)

	_, score, _, err := newRoot(search.NewHistory()).Search(ctx, fullWindow(tt), b, 3)
	require.NoError(t, err)

	assert.Equal(t, board.Score(0), score)
}

// Lazy SMP with any worker count must report a legal move; the score may vary
// between runs (the workers race on the shared table) but the move returned is the
// driver's own PV and must always be playable.
func TestSMP_SearchReportsLegalMove(t *testing.T) {
	ctx := context.Background()
	zt := board.NewZobristTable(0)
	newRoot := newFullRoot(zt)

	for _, threads := range []int{1, 2, 4} {
		tt := search.NewTranspositionTable(ctx, 8<<20)
		b := newTestBoard(t, kiwipete)

		smp := &search.SMP{NewRoot: newRoot, TT: tt, Threads: threads}
		limit := 4
		_, out := smp.Launch(ctx, b.Copy(), search.Options{DepthLimit: &limit})

		var last search.PV
		for pv := range out {
			last = pv
		}
		require.NotEmpty(t, last.Moves, "threads=%v", threads)

		require.True(t, b.Push(last.Moves[0]), "threads=%v: reported move %v is illegal", threads, last.Moves[0])
		b.Pop()
	}
}
