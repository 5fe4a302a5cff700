package search

import "github.com/herohde/morlock/pkg/board"

const maxPly = 128

// historyGravity is the decay divisor for the self-limiting history update
// h += bonus - h*bonus/historyGravity, which keeps scores bounded without a
// separate aging pass.
const historyGravity = 16384

// History accumulates move-ordering signal across a single search: killer moves per
// ply, a countermove table keyed by the opponent's last move, quiet-move and
// capture history tables that reward moves which have caused beta cutoffs before,
// and a one-ply continuation history keyed by the (piece,to) of the previous move.
// It is owned by one search worker and reset between searches from different roots.
type History struct {
	killers      [maxPly][2]board.Move
	countermoves [board.NumPieces][board.NumSquares]board.Move
	quiet        [board.NumPieces][board.NumSquares]int
	capture      [board.NumPieces][board.NumSquares][board.NumPieceTypes]int
	cont         [board.NumPieces][board.NumSquares][board.NumPieces][board.NumSquares]int16
}

func NewHistory() *History {
	return &History{}
}

// AddKiller records a quiet move that caused a beta cutoff at ply, most recent first.
func (h *History) AddKiller(ply int, m board.Move) {
	if ply >= maxPly {
		return
	}
	if h.killers[ply][0] == m {
		return
	}
	h.killers[ply][1] = h.killers[ply][0]
	h.killers[ply][0] = m
}

func (h *History) Killers(ply int) (board.Move, board.Move) {
	if ply >= maxPly {
		return board.NoMove, board.NoMove
	}
	return h.killers[ply][0], h.killers[ply][1]
}

func (h *History) IsKiller(ply int, m board.Move) bool {
	if ply >= maxPly {
		return false
	}
	return h.killers[ply][0] == m || h.killers[ply][1] == m
}

// SetCountermove records m as the reply that refuted prev.
func (h *History) SetCountermove(prev, m board.Move) {
	if prev == board.NoMove {
		return
	}
	h.countermoves[prev.Piece()][prev.To()] = m
}

func (h *History) Countermove(prev board.Move) board.Move {
	if prev == board.NoMove {
		return board.NoMove
	}
	return h.countermoves[prev.Piece()][prev.To()]
}

// bonus for history updates scales with the square of depth: cutoffs found deeper
// in the tree are stronger signal than shallow ones.
func historyBonus(depth int) int {
	return depth * depth
}

func gravity(v *int, bonus int) {
	*v += bonus - *v*abs(bonus)/historyGravity
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Reward increases m's quiet history score after it caused a cutoff at depth.
func (h *History) Reward(m board.Move, depth int) {
	gravity(&h.quiet[m.Piece()][m.To()], historyBonus(depth))
}

// Penalize decreases a quiet move's history score when it was searched but failed
// to raise alpha, so moves that only look good in isolation sink over time. The
// malus is half the reward bonus: failing low is weaker signal than cutting off.
func (h *History) Penalize(m board.Move, depth int) {
	gravity(&h.quiet[m.Piece()][m.To()], -historyBonus(depth)/2)
}

func (h *History) Score(m board.Move) int {
	return h.quiet[m.Piece()][m.To()]
}

// RewardCapture increases the capture history of (attacker, to, victim) after the
// capture caused a cutoff; used as an ordering tiebreaker within a SEE sign group.
func (h *History) RewardCapture(m board.Move, victim board.PieceType, depth int) {
	gravity(&h.capture[m.Piece()][m.To()][victim], historyBonus(depth))
}

func (h *History) CaptureScore(m board.Move, victim board.PieceType) int {
	return h.capture[m.Piece()][m.To()][victim]
}

// RewardContinuation strengthens m as a follow-up to prev after m caused a cutoff
// with prev on the board. Saturating int16 cells: the table is large and a full
// gravity pass over it between searches would dominate reset cost.
func (h *History) RewardContinuation(prev, m board.Move, depth int) {
	if prev == board.NoMove {
		return
	}
	v := &h.cont[prev.Piece()][prev.To()][m.Piece()][m.To()]
	sum := int(*v) + historyBonus(depth)
	if sum > 32767 {
		sum = 32767
	}
	*v = int16(sum)
}

func (h *History) ContinuationScore(prev, m board.Move) int {
	if prev == board.NoMove {
		return 0
	}
	return int(h.cont[prev.Piece()][prev.To()][m.Piece()][m.To()])
}
