package search

import (
	"context"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

const (
	// lazyMargin bounds how far the cheap material-only eval can be from the full
	// eval: if even material +/- this cushion can't touch the window, the node is
	// resolved without running the expensive evaluator.
	lazyMargin = 350
	// deltaMargin is the largest realistic single-capture swing (a queen): a
	// stand-pat score more than this below alpha can't be repaired by any capture.
	deltaMargin = 900
	// maxQuietPly bounds runaway capture chains; at the limit the static eval stands.
	maxQuietPly = 32
)

// QuietSearch searches captures/promotions (and evasions, when in check) until the
// position is quiet, to avoid the horizon effect of stopping a fixed-depth search
// mid-exchange.
type QuietSearch interface {
	QuietSearch(ctx context.Context, sctx *Context, b *board.Board) (uint64, board.Score)
}

// Quiescence implements alpha-beta quiescence search: captures and promotions only
// (every evasion when in check, with no stand-pat), guarded by a cheap material-only lazy eval before the full evaluator runs, by
// delta pruning against the stand-pat score, and by SEE to skip captures that are
// losing material outright.
type Quiescence struct {
	Eval eval.Evaluator // full static evaluator, used for the stand-pat score
	Lazy eval.Evaluator // material-only evaluator, used to cheaply bound the node
}

func (q Quiescence) QuietSearch(ctx context.Context, sctx *Context, b *board.Board) (uint64, board.Score) {
	run := &runQuiescence{eval: q.Eval, lazy: q.Lazy, b: b, rootPly: sctx.Ply}
	score := run.search(ctx, sctx.Alpha, sctx.Beta, sctx.Ply)
	return run.nodes, score
}

type runQuiescence struct {
	eval, lazy eval.Evaluator
	b          *board.Board
	rootPly    int
	nodes      uint64
}

// search runs quiescence at the given absolute ply (distance from the main search
// root, not from the quiescence entry point), so mate scores fold consistently with
// the main search's ply-relative convention.
func (r *runQuiescence) search(ctx context.Context, alpha, beta board.Score, ply int) board.Score {
	if contextx.IsCancelled(ctx) {
		return 0
	}
	if r.b.Result().Outcome == board.DrawOutcome {
		return 0
	}

	r.nodes++

	if ply-r.rootPly >= maxQuietPly {
		return r.eval.Evaluate(ctx, r.b)
	}

	inCheck := r.b.Position().IsChecked(r.b.Turn())

	if !inCheck {
		lazy := r.lazy.Evaluate(ctx, r.b)
		if lazy+lazyMargin < alpha {
			return alpha
		}
		if lazy-lazyMargin > beta {
			return beta
		}

		standPat := r.eval.Evaluate(ctx, r.b)
		if standPat >= beta {
			return beta
		}
		if standPat+deltaMargin < alpha {
			return alpha
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	list := board.MoveList{}
	board.GenerateMoves(r.b.Position(), r.b.Turn(), &list)

	oc := OrderingContext{Pos: r.b.Position()}
	ml := NewMoveList(list.Slice(), oc)

	hasLegalMove := false
	for {
		m, ok := ml.Next()
		if !ok {
			break
		}
		if !inCheck && m.IsQuiet() {
			continue // quiescence only resolves tactics, not quiet threats
		}
		if !inCheck && m.IsCapture() && StaticExchange(r.b.Position(), m) < 0 {
			continue // losing capture: never improves a quiet position
		}

		if !r.b.Push(m) {
			continue
		}
		hasLegalMove = true

		score := -r.search(ctx, -beta, -alpha, ply+1)

		r.b.Pop()

		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			return beta
		}
	}

	if inCheck && !hasLegalMove {
		if result := r.b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			return -board.MaxScore + board.Score(ply)
		}
		return 0
	}
	return alpha
}
