package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// ErrHalted is an error indicating that the search was halted.
var ErrHalted = errors.New("search halted")

// Searcher implements search of the game tree to a given depth. Thread-safe.
type Searcher interface {
	Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, board.Score, []board.Move, error)
}

const (
	// aspirationWindow is the half-width of the initial window around the previous
	// iteration's score.
	aspirationWindow = 50
	// aspirationMax is the widening cutoff: once the window has grown this far, the
	// re-search falls back to a full window rather than creeping outward.
	aspirationMax = 900

	// easyMoveStableDepths is how many consecutive iterations must agree on the
	// best move (with a small score swing) before the search stops early.
	easyMoveStableDepths = 3
	// easyMoveSwing is the largest score change still considered "stable".
	easyMoveSwing = 30
)

// minDepthFor is the depth always completed before the soft budget's 55% early-out
// may fire, tiered by how much time this move has in the first place.
func minDepthFor(soft time.Duration) int {
	switch {
	case soft < time.Second:
		return 3
	case soft < 5*time.Second:
		return 4
	default:
		return 5
	}
}

// aspirate drives one search depth through an aspiration window: a narrow window
// around the previous iteration's score first, widened by 3x on each fail, with a
// full-window fallback once the window exceeds aspirationMax. giveUp, if non-nil,
// is consulted after each failed probe so a search that keeps re-widening near the
// time budget accepts its best-effort result instead of starting over.
func aspirate(ctx context.Context, root Searcher, tt TranspositionTable, b *board.Board, depth int, prev board.Score, narrow bool, giveUp func() bool) (uint64, board.Score, []board.Move, error) {
	alpha, beta := board.MinScore, board.MaxScore
	delta := board.Score(aspirationWindow)
	if narrow {
		alpha, beta = clampedWindow(prev, delta)
	}

	var nodes uint64
	var lastScore board.Score
	var lastMoves []board.Move
	for {
		n, score, moves, err := root.Search(ctx, &Context{Alpha: alpha, Beta: beta, TT: tt}, b, depth)
		nodes += n
		if err != nil {
			return nodes, 0, nil, err
		}
		lastScore = score
		if len(moves) > 0 {
			lastMoves = moves
		}

		switch {
		case score <= alpha && alpha > board.MinScore:
			delta *= 3
			if delta >= aspirationMax {
				alpha = board.MinScore
			} else {
				alpha, _ = clampedWindow(score, delta)
			}
		case score >= beta && beta < board.MaxScore:
			delta *= 3
			if delta >= aspirationMax {
				beta = board.MaxScore
			} else {
				_, beta = clampedWindow(score, delta)
			}
		default:
			return nodes, score, moves, nil
		}

		if giveUp != nil && giveUp() {
			return nodes, lastScore, lastMoves, nil
		}
	}
}

func clampedWindow(center, delta board.Score) (board.Score, board.Score) {
	lo, hi := int(center)-int(delta), int(center)+int(delta)
	if lo < int(board.MinScore) {
		lo = int(board.MinScore)
	}
	if hi > int(board.MaxScore) {
		hi = int(board.MaxScore)
	}
	return board.Score(lo), board.Score(hi)
}

// effectiveDepth extends the nominal iteration depth by one ply in the endgame,
// where the branching factor is small and deeper lines decide won/drawn endings.
func effectiveDepth(b *board.Board, depth int) int {
	if eval.IsEndgame(eval.Phase(b.Position())) {
		return depth + 1
	}
	return depth
}

// Iterative is a Launcher that drives Root at increasing depth -- one ply deeper
// each pass, reusing the transposition table to seed both move ordering and the
// next depth's aspiration window -- until Halt is called, a depth limit is reached,
// a forced mate is found at a distance no deeper search can improve on, the soft
// time budget runs out, or the root move has been stable long enough that more
// depth is unlikely to change it.
type Iterative struct {
	Root Searcher
	TT   TranspositionTable
}

func NewIterative(root Searcher, tt TranspositionTable) Launcher {
	return &Iterative{Root: root, TT: tt}
}

func (it *Iterative) Launch(ctx context.Context, b *board.Board, opt Options) (Handle, <-chan PV) {
	out := make(chan PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, it, b, opt, out)

	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, it *Iterative, b *board.Board, opt Options, out chan PV) {
	defer h.init.Close()
	defer close(out)

	soft, useSoft := enforceTimeControl(ctx, h, opt.TimeControl, b)
	start := time.Now()

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	var prevScore board.Score
	var prevBest board.Move
	stable := 0

	depth := 1
	for !h.quit.IsClosed() {
		if useSoft && depth > minDepthFor(soft) && time.Since(start) > 55*soft/100 {
			return
		}

		giveUp := func() bool { return useSoft && time.Since(start) > 7*soft/10 }
		nodes, score, moves, err := aspirate(wctx, it.Root, it.TT, b,
			effectiveDepth(b, depth), prevScore, depth > 2, giveUp)
		if err != nil {
			if err == ErrHalted {
				return // Halt was called.
			}
			logw.Errorf(ctx, "Search failed on %v at depth=%v: %v", b, depth, err)
			return
		}

		pv := PV{
			Depth: depth,
			Nodes: nodes,
			Score: score,
			Moves: moves,
			Time:  time.Since(start),
		}
		if it.TT != nil {
			pv.Hash = it.TT.Used()
		}

		logw.Debugf(ctx, "Searched %v: %v", b.Position(), pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()

		if opt.DepthLimit != nil && depth == *opt.DepthLimit {
			return
		}
		if md, ok := score.MateDistance(); ok && md <= depth {
			return
		}

		if len(moves) > 0 && moves[0] == prevBest && absScore(score-prevScore) < easyMoveSwing {
			stable++
		} else {
			stable = 1
		}
		if len(moves) > 0 {
			prevBest = moves[0]
		}
		prevScore = score

		if useSoft && stable >= easyMoveStableDepths && time.Since(start) > 2*soft/5 {
			return
		}
		if useSoft && time.Since(start) > soft {
			return
		}
		depth++
	}
}

func absScore(s board.Score) board.Score {
	if s < 0 {
		return -s
	}
	return s
}

func (h *handle) Halt() PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
