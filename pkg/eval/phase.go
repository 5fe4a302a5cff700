package eval

import "github.com/herohde/morlock/pkg/board"

const (
	// MaxPhase is the phase value at the start of the game, with every minor and
	// major piece on the board.
	MaxPhase = 24
	// PhaseThreshold splits middlegame king safety from endgame king activity:
	// at or below it, the king evaluation switches from shield/danger to
	// centralization/opposition.
	PhaseThreshold = 7
)

var phaseWeight = [board.NumPieceTypes]int{
	board.Pawn:   0,
	board.Knight: 1,
	board.Bishop: 1,
	board.Rook:   2,
	board.Queen:  4,
	board.King:   0,
}

// Phase returns the game phase in [0, MaxPhase]: MaxPhase with every minor/major
// piece present, 0 once they are all gone.
func Phase(pos *board.Position) int {
	p := 0
	for c := board.ZeroColor; c < board.NumColors; c++ {
		for pt := board.Knight; pt <= board.Queen; pt++ {
			p += pos.PieceBitboard(board.NewPiece(c, pt)).PopCount() * phaseWeight[pt]
		}
	}
	if p > MaxPhase {
		p = MaxPhase
	}
	return p
}

// IsEndgame reports whether the phase is at or below the middlegame/endgame split.
func IsEndgame(phase int) bool {
	return phase <= PhaseThreshold
}

// Taper blends a middlegame and an endgame value by the game phase.
func Taper(phase, mg, eg int) int {
	return (mg*phase + eg*(MaxPhase-phase)) / MaxPhase
}
