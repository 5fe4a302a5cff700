package search

import (
	"context"
	"math"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// Negamax implements principal variation search over a negamax framework: a
// null-window re-search for every move after the first, widened to a full window
// only when it fails high. Layered on top is the standard modern pruning/extension
// stack -- check extension, null-move pruning, ProbCut, reverse/forward futility
// pruning, internal iterative deepening, singular extension and late move
// reductions -- each gated by depth and position so they only fire where they're
// safe. Pseudo-code (PVS core):
//
// function pvs(node, depth, α, β, color) is
//    if depth = 0 or node is a terminal node then
//        return color × the heuristic value of node
//    for each child of node do
//        if child is first child then
//            score := −pvs(child, depth − 1, −β, −α, −color)
//        else
//            score := −pvs(child, depth − 1, −α − 1, −α, −color)
//            if α < score < β then
//                score := −pvs(child, depth − 1, −β, −score, −color)
//        α := max(α, score)
//        if α ≥ β then
//            break
//    return α
//
// See: https://en.wikipedia.org/wiki/Principal_variation_search.
type Negamax struct {
	Eval    eval.Evaluator
	Quiet   QuietSearch
	History *History
}

func (n Negamax) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, board.Score, []board.Move, error) {
	run := &runNegamax{
		eval:        n.Eval,
		quiet:       n.Quiet,
		tt:          sctx.TT,
		history:     n.History,
		root:        sctx.Root,
		b:           b,
		excludedPly: -1,
	}
	score, pv := run.search(ctx, depth, 0, sctx.Alpha, sctx.Beta, board.NoMove, true)
	if contextx.IsCancelled(ctx) {
		return 0, 0, nil, ErrHalted
	}
	return run.nodes, score, pv, nil
}

type runNegamax struct {
	eval    eval.Evaluator
	quiet   QuietSearch
	tt      TranspositionTable
	history *History
	root    []board.Move

	b     *board.Board
	nodes uint64

	// Singular-extension exclusion: a single-slot marker, set around exactly one
	// verification call site and cleared on every exit path. While set, the node at
	// excludedPly skips excluded in its move loop and stays out of the TT.
	excluded    board.Move
	excludedPly int
	inSingular  bool
}

const (
	// tempoBonus is added to the static eval in futility decisions: the side to
	// move can usually improve its position by at least this much.
	tempoBonus = 10
	// probCutMargin is how far above beta a shallow capture search must land before
	// the node is declared a fail-high without a full-depth search.
	probCutMargin = 200
	// singularMargin scales the verification window below the TT score per depth.
	singularMargin = 25
)

// futilityMargin is a table-driven margin for shallow forward futility pruning: a
// node at depth d whose static eval plus margin[d] can't reach alpha has its quiet
// non-promotion moves skipped unsearched, except the first legal one.
var futilityMargin = [3]board.Score{0, 150, 350}

// reverseFutilityMargin backs the symmetric check at the node itself: if even the
// static eval minus this (linear in depth) margin already beats beta, the node is
// assumed to fail high without searching any move.
func reverseFutilityMargin(depth int) board.Score {
	return board.Score(100 * depth)
}

// lmrTable holds the late-move depth reduction by (depth, move count), following
// the log-product formula 1 + ln(d)*ln(m)/2.5.
var lmrTable [64][64]int

func init() {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			lmrTable[d][m] = 1 + int(math.Log(float64(d))*math.Log(float64(m))/2.5)
		}
	}
}

func lateMoveReduction(depth, count int) int {
	d, m := depth, count
	if d > 63 {
		d = 63
	}
	if m > 63 {
		m = 63
	}
	r := lmrTable[d][m]
	if r > depth-2 {
		r = depth - 2
	}
	if r < 0 {
		r = 0
	}
	return r
}

func (m *runNegamax) search(ctx context.Context, depth, ply int, alpha, beta board.Score, prev board.Move, canNull bool) (board.Score, []board.Move) {
	if contextx.IsCancelled(ctx) {
		return 0, nil
	}
	if ply > 0 && m.b.Result().Outcome == board.DrawOutcome {
		return 0, nil
	}
	if ply >= maxPly {
		return m.eval.Evaluate(ctx, m.b), nil
	}

	pvNode := beta-alpha > 1
	inCheck := m.b.Position().IsChecked(m.b.Turn())

	excluded := board.NoMove
	if m.excludedPly == ply {
		excluded = m.excluded
	}

	var ttMove board.Move
	var ttScore board.Score
	var ttBound Bound
	ttDepth := 0
	ttHit := false
	if bound, d, score, move, ok := m.tt.Probe(m.b.Hash()); ok {
		ttMove, ttBound, ttDepth, ttHit = move, bound, d, true
		ttScore = scoreFromTT(score, ply)
		if !pvNode && excluded == board.NoMove && ttDepth >= depth {
			switch ttBound {
			case ExactBound:
				return ttScore, nil
			case LowerBound:
				if ttScore >= beta {
					return beta, nil
				}
			case UpperBound:
				if ttScore <= alpha {
					return alpha, nil
				}
			}
		}
	}

	// Check extension: a side in check has few replies and the tactic is still in
	// flight, so the subtree is cheap and cutting it off at depth 0 is blind.
	if inCheck {
		depth++
	}

	if depth <= 0 {
		nodes, score := m.quiet.QuietSearch(ctx, &Context{Alpha: alpha, Beta: beta, TT: m.tt, Ply: ply}, m.b)
		m.nodes += nodes
		return score, nil
	}

	m.nodes++

	// Null-move pruning: let the opponent move twice in a row. If they still can't
	// beat beta, our own position is safely above beta too. Skipped near the root,
	// in check, right after another null move, and in pawn endgames (zugzwang risk).
	if !pvNode && !inCheck && canNull && excluded == board.NoMove &&
		depth >= 3 && ply > 0 && eval.Phase(m.b.Position()) >= eval.PhaseThreshold {
		r := 3 + depth/6
		m.b.PushNull()
		score, _ := m.search(ctx, depth-1-r, ply+1, -beta, -beta+1, board.NoMove, false)
		m.b.PopNull()
		if -score >= beta {
			return beta, nil
		}
	}

	// ProbCut: if a shallow search of a clearly winning capture already lands well
	// above beta, the full-depth search is assumed to fail high too.
	if !pvNode && !inCheck && excluded == board.NoMove && depth >= 5 && !beta.IsMate() {
		pcBeta := beta + probCutMargin
		seeThreshold := int(pcBeta - beta - 1)

		var list board.MoveList
		board.GenerateMoves(m.b.Position(), m.b.Turn(), &list)
		for _, move := range list.Slice() {
			if !move.IsCapture() || StaticExchange(m.b.Position(), move) < seeThreshold {
				continue
			}
			if !m.b.Push(move) {
				continue
			}
			score, _ := m.search(ctx, depth-4, ply+1, -pcBeta, -pcBeta+1, move, true)
			m.b.Pop()
			if -score >= pcBeta {
				return pcBeta, nil
			}
		}
	}

	// Futility setup: near the leaves, bound the node by its static eval. Reverse
	// futility fails the node high outright; the futile flag skips quiet moves that
	// can't close the gap to alpha.
	futile := false
	if !pvNode && !inCheck && depth <= 3 {
		staticEval := m.eval.Evaluate(ctx, m.b) + tempoBonus
		if !beta.IsMate() && staticEval-reverseFutilityMargin(depth) >= beta {
			return staticEval, nil
		}
		futile = depth <= 2 && staticEval+futilityMargin[depth] <= alpha
	}

	// Internal iterative deepening: with no TT move to seed ordering, do a shallow
	// search first so the real search at full depth has a good move to try first.
	if pvNode && ttMove == board.NoMove && depth >= 5 {
		m.search(ctx, depth-2, ply, alpha, beta, prev, canNull)
		if _, _, _, move, ok := m.tt.Probe(m.b.Hash()); ok {
			ttMove = move
		}
	}

	// Singular extension: if the TT move is reliably better than every alternative
	// by a depth-scaled margin, it is forced in some sense and deserves an extra
	// ply. Verified by re-searching this node with the TT move excluded.
	singularExt := 0
	if !pvNode && !inCheck && !m.inSingular && excluded == board.NoMove &&
		depth >= 8 && ply > 0 && ttMove != board.NoMove && ttHit &&
		ttDepth >= depth-3 && ttBound != UpperBound && !ttScore.IsMate() {
		seBeta := ttScore - board.Score(singularMargin*depth)

		m.inSingular = true
		m.excluded, m.excludedPly = ttMove, ply
		verification, _ := m.search(ctx, depth/2, ply, seBeta-1, seBeta, prev, false)
		m.excluded, m.excludedPly = board.NoMove, -1
		m.inSingular = false

		if verification < seBeta {
			singularExt = 1
		}
	}

	hasLegalMove := false
	bound := UpperBound
	var pv []board.Move
	var best board.Move
	moveIndex := 0

	list := board.MoveList{}
	board.GenerateMoves(m.b.Position(), m.b.Turn(), &list)

	oc := OrderingContext{Pos: m.b.Position(), TTMove: ttMove, Ply: ply, PrevMove: prev, History: m.history}
	ml := NewMoveList(restrictToRoot(list.Slice(), m.root, ply), oc)

	for {
		move, ok := ml.Next()
		if !ok {
			break
		}
		if move == excluded {
			continue
		}
		if futile && hasLegalMove && move.IsQuiet() {
			continue
		}

		isCapture := move.IsCapture()
		var victim board.PieceType
		if isCapture {
			victim = victimType(m.b.Position(), move)
		}

		if !m.b.Push(move) {
			continue
		}
		moveIndex++

		ext := 0
		if move == ttMove {
			ext = singularExt
		}

		var score board.Score
		var rem []board.Move
		if !hasLegalMove {
			score, rem = m.negaSearch(ctx, depth-1+ext, ply+1, -beta, -alpha, move, true)
		} else {
			reduction := 0
			if moveIndex >= 4 && depth >= 3 && !inCheck && !isCapture && !move.IsPromotion() &&
				!m.b.Position().IsChecked(m.b.Turn()) {
				reduction = lateMoveReduction(depth, moveIndex)
			}

			score, rem = m.negaSearch(ctx, depth-1-reduction, ply+1, -alpha-1, -alpha, move, true)
			if score > alpha && (reduction > 0 || score < beta) {
				score, rem = m.negaSearch(ctx, depth-1+ext, ply+1, -alpha-1, -alpha, move, true)
			}
			if score > alpha && score < beta {
				score, rem = m.negaSearch(ctx, depth-1+ext, ply+1, -beta, -alpha, move, true)
			}
		}

		m.b.Pop()
		hasLegalMove = true

		if score > alpha {
			alpha = score
			bound = ExactBound
			best = move
			pv = append([]board.Move{move}, rem...)
		}

		if alpha >= beta {
			if move.IsQuiet() {
				m.history.AddKiller(ply, move)
				m.history.SetCountermove(prev, move)
				m.history.RewardContinuation(prev, move, depth)
				m.history.Reward(move, depth)
			} else if isCapture {
				m.history.RewardCapture(move, victim, depth)
			}
			if excluded == board.NoMove {
				m.tt.Store(m.b.Hash(), LowerBound, depth, scoreToTT(beta, ply), move)
			}
			return beta, pv
		}
		if move.IsQuiet() {
			m.history.Penalize(move, depth)
		}
	}

	if !hasLegalMove {
		if excluded != board.NoMove {
			// The excluded TT move was the only legal move: report a fail-low so the
			// verification concludes no alternative comes close.
			return alpha, nil
		}
		if result := m.b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			return -board.MaxScore + board.Score(ply), nil
		}
		return 0, nil
	}

	if excluded == board.NoMove {
		m.tt.Store(m.b.Hash(), bound, depth, scoreToTT(alpha, ply), best)
	}
	return alpha, pv
}

// negaSearch runs a child search and negates the score, keeping the sign flip in
// one place inside the move loop.
func (m *runNegamax) negaSearch(ctx context.Context, depth, ply int, alpha, beta board.Score, prev board.Move, canNull bool) (board.Score, []board.Move) {
	score, rem := m.search(ctx, depth, ply, alpha, beta, prev, canNull)
	return -score, rem
}

// restrictToRoot limits move generation to the UCI "searchmoves" list at the root
// ply; every other ply searches the full pseudo-legal move list.
func restrictToRoot(moves []board.Move, root []board.Move, ply int) []board.Move {
	if ply != 0 || len(root) == 0 {
		return moves
	}
	var filtered []board.Move
	for _, m := range moves {
		for _, r := range root {
			if m == r {
				filtered = append(filtered, m)
				break
			}
		}
	}
	return filtered
}
