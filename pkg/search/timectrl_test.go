package search_test

import (
	"testing"
	"time"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestTimeControl_ExplicitMovesToGo(t *testing.T) {
	tc := search.TimeControl{White: 20 * time.Second, WhiteInc: 2 * time.Second, Moves: 20}

	soft, hard := tc.Limits(board.White, 1)
	// 20s/20 + 0.9*2s = 2.8s, within [1s, 6.66s].
	assert.Equal(t, 2800*time.Millisecond, soft)
	// 0.4*20s - 1s.
	assert.Equal(t, 7*time.Second, hard)
}

func TestTimeControl_StageTiersShrinkTheHorizon(t *testing.T) {
	tc := search.TimeControl{White: 60 * time.Second}

	// Early game spreads thin enough that the clock/20 lower clamp binds; the
	// late-game 15-move horizon spends more freely.
	opening, _ := tc.Limits(board.White, 5)
	midgame, _ := tc.Limits(board.White, 20)
	endgame, _ := tc.Limits(board.White, 40)

	assert.Equal(t, 3*time.Second, opening)
	assert.Equal(t, 3*time.Second, midgame)
	assert.Equal(t, 4*time.Second, endgame)
}

func TestTimeControl_ClampsToClockFractions(t *testing.T) {
	// A huge increment would overshoot: soft is capped at a third of the clock.
	tc := search.TimeControl{White: 6 * time.Second, WhiteInc: 30 * time.Second, Moves: 30}
	soft, _ := tc.Limits(board.White, 1)
	assert.Equal(t, 2*time.Second, soft)

	// One move left on a big clock would hoard: soft is still at most a third.
	tc = search.TimeControl{White: 30 * time.Second, Moves: 1}
	soft, _ = tc.Limits(board.White, 1)
	assert.Equal(t, 10*time.Second, soft)
}

func TestTimeControl_MinimumBudgetFloor(t *testing.T) {
	// 5s over 25 moves is 200ms and the clock/20 clamp only lifts it to 250ms; the
	// 500ms floor lifts it the rest of the way.
	tc := search.TimeControl{White: 5 * time.Second}
	soft, _ := tc.Limits(board.White, 1)
	assert.Equal(t, 500*time.Millisecond, soft)
}

func TestTimeControl_TinyClockNeverOverspends(t *testing.T) {
	tc := search.TimeControl{White: 200 * time.Millisecond}

	soft, hard := tc.Limits(board.White, 60)
	assert.LessOrEqual(t, soft, 100*time.Millisecond)
	assert.GreaterOrEqual(t, hard, soft)
	assert.LessOrEqual(t, hard, 200*time.Millisecond)
}

func TestTimeControl_PerSideClocks(t *testing.T) {
	tc := search.TimeControl{
		White: 40 * time.Second, WhiteInc: time.Second,
		Black: 20 * time.Second, BlackInc: 0,
		Moves: 20,
	}

	softW, _ := tc.Limits(board.White, 10)
	assert.Equal(t, 2*time.Second+900*time.Millisecond, softW)

	softB, _ := tc.Limits(board.Black, 10)
	assert.Equal(t, time.Second, softB)
}
