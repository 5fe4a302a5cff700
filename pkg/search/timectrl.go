package search

import (
	"context"
	"time"

	"github.com/herohde/morlock/pkg/board"
)

// TimeControl mirrors the UCI "go" command's clock fields: remaining time per side
// plus, if set, the number of moves left until the next time control. A zero Moves
// means "estimate the horizon from the game stage" below.
type TimeControl struct {
	White, Black time.Duration
	WhiteInc     time.Duration
	BlackInc     time.Duration
	Moves        int
}

// movesLeftFor estimates the number of moves this game still has to budget for, by
// game stage: early games need reserves for a long grind, late games can spend.
func movesLeftFor(fullmoves int) int {
	switch {
	case fullmoves <= 12:
		return 25
	case fullmoves <= 28:
		return 20
	default:
		return 15
	}
}

// Limits computes the soft and hard time budgets for the side to move: soft is the
// per-move target the iterative deepening loop allocates against, and hard is the
// absolute never-exceed ceiling a watchdog timer enforces regardless of search
// state. The soft budget is the remaining clock spread over the estimated moves
// left plus most of the increment, clamped to [clock/20, clock/3] and floored at
// 500ms when the clock can afford it.
func (t TimeControl) Limits(c board.Color, fullmoves int) (soft, hard time.Duration) {
	remaining, inc := t.White, t.WhiteInc
	if c == board.Black {
		remaining, inc = t.Black, t.BlackInc
	}

	moves := t.Moves
	if moves <= 0 {
		moves = movesLeftFor(fullmoves)
	}

	soft = remaining/time.Duration(moves) + 9*inc/10
	if lo := remaining / 20; soft < lo {
		soft = lo
	}
	if hi := remaining / 3; soft > hi {
		soft = hi
	}
	if soft < 500*time.Millisecond {
		soft = 500 * time.Millisecond
	}
	if max := remaining / 2; soft > max {
		soft = max
	}
	if soft <= 0 {
		soft = time.Millisecond
	}

	hard = 2*remaining/5 - time.Second
	if hard < soft {
		hard = soft
	}
	return soft, hard
}

// enforceTimeControl starts a watchdog that halts h once the hard limit elapses, and
// returns the soft limit the caller should itself poll against. ok is false when no
// time control was given (e.g. "go depth N" or "go infinite"), in which case the
// iterative loop runs unconstrained by the clock.
func enforceTimeControl(ctx context.Context, h Handle, tc *TimeControl, b *board.Board) (soft time.Duration, ok bool) {
	if tc == nil {
		return 0, false
	}
	soft, hard := tc.Limits(b.Turn(), b.FullMoves())

	timer := time.AfterFunc(hard, func() {
		h.Halt()
	})
	go func() {
		<-ctx.Done()
		timer.Stop()
	}()
	return soft, true
}
