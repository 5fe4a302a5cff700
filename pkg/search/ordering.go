package search

import (
	"container/heap"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
)

// Priority bands, highest first. Everything within a band is further ordered by a
// finer-grained score (MVV-LVA plus capture history for captures, quiet plus
// continuation history for quiets) folded into the same Priority value so a single
// heap handles every move class uniformly.
const (
	bandTT          = 2_000_000
	bandGoodCapture = 1_000_000
	bandKiller1     = 900_000
	bandKiller2     = 800_000
	bandCountermove = 700_000
	bandBadCapture  = 500_000
	bandQuiet       = 0
)

// captureHistoryClamp bounds the capture-history tiebreaker to +/-400: enough to
// reorder captures across a few MVV-LVA victim classes (100 apart), never enough
// to move a capture out of its SEE band.
const captureHistoryClamp = 400

// Priority is the move ordering score: higher explores first.
type Priority int32

// mvvLva scores a capture by most-valuable-victim, least-valuable-attacker:
// mvvLva[attacker][victim], from 100 (KxP) to 605 (PxK; unreachable, but the table
// is square). Victim dominates, attacker breaks ties.
var mvvLva [board.NumPieceTypes][board.NumPieceTypes]Priority

func init() {
	for a := board.Pawn; a <= board.King; a++ {
		for v := board.Pawn; v <= board.King; v++ {
			mvvLva[a][v] = Priority(100*(int(v)+1) + 5 - int(a))
		}
	}
}

// OrderingContext is the per-node information move ordering needs beyond the move
// itself: the position to evaluate captures against, the TT's suggested best move,
// the previous move (for countermove and continuation history) and the search
// history accumulated so far.
type OrderingContext struct {
	Pos      *board.Position
	TTMove   board.Move
	Ply      int
	PrevMove board.Move
	History  *History
}

// victimType returns the piece type captured by m. Only valid for captures.
func victimType(pos *board.Position, m board.Move) board.PieceType {
	if m.IsEnPassant() {
		return board.Pawn
	}
	return pos.PieceAt(m.To()).Type()
}

// PriorityOf scores a single pseudo-legal move for ordering purposes.
func PriorityOf(oc OrderingContext, m board.Move) Priority {
	if oc.TTMove != board.NoMove && m == oc.TTMove {
		return bandTT
	}
	if m.IsCapture() {
		victim := victimType(oc.Pos, m)
		score := mvvLva[m.Piece().Type()][victim]
		if oc.History != nil {
			ch := oc.History.CaptureScore(m, victim)
			if ch > captureHistoryClamp {
				ch = captureHistoryClamp
			}
			if ch < -captureHistoryClamp {
				ch = -captureHistoryClamp
			}
			score += Priority(ch)
		}
		if StaticExchange(oc.Pos, m) >= 0 {
			return bandGoodCapture + score
		}
		return bandBadCapture + score
	}
	if m.IsPromotion() {
		// Quiet promotions are as forcing as winning captures: score them by the
		// promoted piece so queening sorts ahead of underpromotion.
		return bandGoodCapture + Priority(eval.NominalValue[m.Promoted().Type()])
	}
	if oc.History != nil {
		if k1, k2 := oc.History.Killers(oc.Ply); m == k1 {
			return bandKiller1
		} else if m == k2 {
			return bandKiller2
		}
		if oc.History.Countermove(oc.PrevMove) == m {
			return bandCountermove
		}
		return bandQuiet + Priority(oc.History.Score(m)+oc.History.ContinuationScore(oc.PrevMove, m))
	}
	return bandQuiet
}

// MoveList is a priority queue over pseudo-legal moves, used for move ordering
// during search (as opposed to board.MoveList, which is a plain generation buffer).
type MoveList struct {
	h moveHeap
}

// NewMoveList scores and heapifies the given moves.
func NewMoveList(moves []board.Move, oc OrderingContext) *MoveList {
	h := make(moveHeap, len(moves))
	for i, m := range moves {
		h[i] = elm{m: m, val: PriorityOf(oc, m)}
	}
	heap.Init(&h)
	return &MoveList{h: h}
}

// Next pops the highest-priority remaining move.
func (ml *MoveList) Next() (board.Move, bool) {
	if ml.h.Len() == 0 {
		return board.NoMove, false
	}
	return heap.Pop(&ml.h).(elm).m, true
}

func (ml *MoveList) Len() int {
	return ml.h.Len()
}

type elm struct {
	m   board.Move
	val Priority
}

type moveHeap []elm

func (h moveHeap) Len() int            { return len(h) }
func (h moveHeap) Less(i, j int) bool  { return h[i].val > h[j].val }
func (h moveHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *moveHeap) Push(x interface{}) { *h = append(*h, x.(elm)) }
func (h *moveHeap) Pop() interface{} {
	n := len(*h)
	ret := (*h)[n-1]
	*h = (*h)[:n-1]
	return ret
}
