package search

import (
	"context"
	"sync"
	"time"

	"github.com/herohde/morlock/pkg/board"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"go.uber.org/atomic"
)

// SMP runs Root concurrently from N independent goroutines sharing one
// TranspositionTable -- Lazy SMP. Each worker owns a copy of the board and its own
// history tables and runs its own iterative deepening loop, starting one ply deeper
// per worker id so the threads spread over different depths instead of retracing
// each other; the shared table is the only coordination between them. Worker 0 is
// the driver: it applies the full time/easy-move stopping rules and its PV is the
// one reported, while the helpers exist to feed the table.
type SMP struct {
	NewRoot func(history *History) Searcher
	TT      TranspositionTable
	Threads int
}

func (s *SMP) Launch(ctx context.Context, b *board.Board, opt Options) (Handle, <-chan PV) {
	threads := s.Threads
	if opt.Threads > 0 {
		threads = opt.Threads
	}
	if threads < 1 {
		threads = 1
	}

	out := make(chan PV, 1)
	h := &smpHandle{done: atomic.NewBool(false)}

	go h.run(ctx, s, b, opt, threads, out)
	return h, out
}

type smpHandle struct {
	mu   sync.Mutex
	done *atomic.Bool
	best PV
}

func (h *smpHandle) Halt() PV {
	h.done.Store(true)
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.best
}

func (h *smpHandle) consider(pv PV) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if pv.Depth >= h.best.Depth {
		h.best = pv
	}
}

func (h *smpHandle) run(ctx context.Context, s *SMP, root *board.Board, opt Options, threads int, out chan<- PV) {
	defer close(out)

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		for !h.done.Load() {
			select {
			case <-wctx.Done():
				return
			case <-time.After(5 * time.Millisecond):
			}
		}
		cancel()
	}()

	soft, useSoft := enforceTimeControl(wctx, h, opt.TimeControl, root)
	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s.worker(wctx, id, root.Copy(), opt, start, soft, useSoft, h, out)
			if id == 0 {
				cancel() // the driver's stop conditions stop the helpers too
			}
		}(i)
	}
	wg.Wait()
}

// worker runs one lazy SMP thread's iterative deepening loop. Worker 0 (the
// driver) starts at depth 1, publishes every completed PV and applies the early
// stopping heuristics; helpers start staggered one ply deeper per id and stop only
// on cancellation, the depth limit, the shared soft budget or a mate found within
// the searched depth.
func (s *SMP) worker(ctx context.Context, id int, b *board.Board, opt Options, start time.Time, soft time.Duration, useSoft bool, h *smpHandle, out chan<- PV) {
	history := NewHistory()
	root := s.NewRoot(history)
	driver := id == 0

	var prevScore board.Score
	var prevBest board.Move
	stable := 0

	depth := 1 + id
	for {
		if contextx.IsCancelled(ctx) {
			return
		}
		if opt.DepthLimit != nil && depth > *opt.DepthLimit {
			return
		}
		if driver && useSoft && depth > minDepthFor(soft) && time.Since(start) > 55*soft/100 {
			return
		}

		giveUp := func() bool { return useSoft && time.Since(start) > 7*soft/10 }
		nodes, score, moves, err := aspirate(ctx, root, s.TT, b,
			effectiveDepth(b, depth), prevScore, depth > 2, giveUp)
		if err != nil {
			return
		}

		if driver {
			pv := PV{Depth: depth, Moves: moves, Score: score, Nodes: nodes, Time: time.Since(start)}
			if s.TT != nil {
				pv.Hash = s.TT.Used()
			}
			h.consider(pv)

			select {
			case out <- pv:
			default:
			}
		}

		if md, ok := score.MateDistance(); ok && md <= depth {
			return
		}

		if driver {
			if len(moves) > 0 && moves[0] == prevBest && absScore(score-prevScore) < easyMoveSwing {
				stable++
			} else {
				stable = 1
			}
			if len(moves) > 0 {
				prevBest = moves[0]
			}
			if useSoft && stable >= easyMoveStableDepths && time.Since(start) > 2*soft/5 {
				return
			}
		}
		prevScore = score

		if useSoft && time.Since(start) > soft {
			return
		}
		depth++
	}
}
