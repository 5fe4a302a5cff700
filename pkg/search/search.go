// Package search implements the move-tree search: transposition table, move
// ordering, quiescence and the negamax/PVS main search, driven by iterative
// deepening under a soft/hard time budget.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/herohde/morlock/pkg/board"
)

// PV represents the principal variation found at a given search depth.
type PV struct {
	Depth int
	Moves []board.Move
	Score board.Score
	Nodes uint64
	Time  time.Duration
	Hash  float64 // transposition table utilization, [0;1]
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v hash=%v%% pv=%v",
		p.Depth, p.Score, p.Nodes, p.Time, int(100*p.Hash), board.FormatMoves(p.Moves))
}

// Options hold the dynamic limits for a single search.
type Options struct {
	// DepthLimit, if set, stops iterative deepening once this depth completes.
	DepthLimit *int
	// TimeControl, if set, bounds the search by a soft/hard time budget.
	TimeControl *TimeControl
	// Threads is the number of lazy SMP worker goroutines to run, minimum 1.
	Threads int
}

func (o Options) String() string {
	var parts []string
	if o.DepthLimit != nil {
		parts = append(parts, fmt.Sprintf("depth=%v", *o.DepthLimit))
	}
	if o.TimeControl != nil {
		parts = append(parts, fmt.Sprintf("time=%v", *o.TimeControl))
	}
	if o.Threads > 1 {
		parts = append(parts, fmt.Sprintf("threads=%v", o.Threads))
	}
	return fmt.Sprintf("[%v]", strings.Join(parts, ", "))
}

// Launcher starts a new search from a given position.
type Launcher interface {
	// Launch starts a search on an exclusively-owned board and returns a handle plus
	// a channel of iteratively-deepening PVs. The channel is closed once the search
	// is exhausted or halted.
	Launch(ctx context.Context, b *board.Board, opt Options) (Handle, <-chan PV)
}

// Handle lets the caller stop a running search and retrieve its latest result.
type Handle interface {
	// Halt stops the search, if running, and returns the best PV found so far.
	// Idempotent.
	Halt() PV
}

// Context carries the per-search state that is constant across a single Searcher.Search
// call but threaded down through every recursive node: the window to search within,
// the shared transposition table, and an optional restricted root move (pondering/
// "searchmoves").
type Context struct {
	Alpha, Beta board.Score
	TT          TranspositionTable
	Root        []board.Move // if non-empty, only these root moves are considered
	// Ply is the distance from the search root, used by quiescence to keep mate
	// scores ply-relative when the main search hands off a subtree to it.
	Ply int
}
