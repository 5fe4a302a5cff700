package eval

import "github.com/herohde/morlock/pkg/board"

// Pawn structure bonuses/penalties, all in centipawns from the pawn's own side's
// perspective.
const (
	doubledPenalty  = -30 // per extra pawn on a file
	isolatedPenalty = -20 // per pawn with no neighbor-file pawn
	backwardPenalty = -10 // per pawn that can't advance and can't be supported
	islandPenalty   = -8  // per island beyond the first

	passedBonusMG = 50  // scaled by advancement/6
	passedBonusEG = 100 // scaled by advancement/6
)

// pawnEval is the cached evaluation of the board's pawn structure: the white-black
// score split into middlegame and endgame components (so the tapered blend applies
// after the cache lookup) plus each side's passed-pawn bitboard, which the rook
// evaluation consumes.
type pawnEval struct {
	mg, eg int
	passed [board.NumColors]board.Bitboard
}

// PawnHash returns a structure-only hash of the board's pawns, independent of every
// other piece, used to key the pawn evaluation cache.
func PawnHash(zt *board.ZobristTable, pos *board.Position) uint64 {
	var h uint64
	pawns := pos.PieceBitboard(board.WhitePawn) | pos.PieceBitboard(board.BlackPawn)
	for pawns != 0 {
		var sq board.Square
		pawns, sq = pawns.PopLSB()
		h ^= uint64(zt.PieceKey(pos.PieceAt(sq), sq))
	}
	return h
}

// PawnCache is a fixed-size, always-replace pawn structure evaluation cache, keyed
// by PawnHash. Pawn structure changes rarely along a search line, so caching it
// avoids re-deriving passed/backward/isolated/doubled status on every node.
type PawnCache struct {
	entries []pawnCacheEntry
}

type pawnCacheEntry struct {
	key   uint64
	valid bool
	eval  pawnEval
}

// NewPawnCache returns a cache with the given number of slots, rounded up to a
// power of two.
func NewPawnCache(slots int) *PawnCache {
	n := 1
	for n < slots {
		n <<= 1
	}
	return &PawnCache{entries: make([]pawnCacheEntry, n)}
}

func (c *PawnCache) probe(key uint64) (pawnEval, bool) {
	e := &c.entries[key&uint64(len(c.entries)-1)]
	if e.valid && e.key == key {
		return e.eval, true
	}
	return pawnEval{}, false
}

func (c *PawnCache) store(key uint64, pe pawnEval) {
	e := &c.entries[key&uint64(len(c.entries)-1)]
	e.key, e.valid, e.eval = key, true, pe
}

// EvaluatePawns returns the tapered pawn structure score from White's perspective
// plus each side's passed-pawn bitboard, using the cache if one is supplied to skip
// re-deriving doubled/isolated/passed/backward status when the pawn structure
// hasn't changed along the search line.
func EvaluatePawns(cache *PawnCache, zt *board.ZobristTable, pos *board.Position) (int, board.Bitboard, board.Bitboard) {
	var key uint64
	if cache != nil {
		key = PawnHash(zt, pos)
		if pe, ok := cache.probe(key); ok {
			return Taper(Phase(pos), pe.mg, pe.eg), pe.passed[board.White], pe.passed[board.Black]
		}
	}

	wMG, wEG, wPassed := pawnStructureScore(pos, board.White)
	bMG, bEG, bPassed := pawnStructureScore(pos, board.Black)
	pe := pawnEval{mg: wMG - bMG, eg: wEG - bEG}
	pe.passed[board.White], pe.passed[board.Black] = wPassed, bPassed

	if cache != nil {
		cache.store(key, pe)
	}
	return Taper(Phase(pos), pe.mg, pe.eg), wPassed, bPassed
}

// pawnStructureScore scores one side's pawns -- doubled, isolated, backward, passed
// and island terms -- from that side's own perspective, and collects the side's
// passed pawns.
func pawnStructureScore(pos *board.Position, c board.Color) (mg, eg int, passed board.Bitboard) {
	own := pos.PieceBitboard(board.NewPiece(c, board.Pawn))
	opp := pos.PieceBitboard(board.NewPiece(c.Opponent(), board.Pawn))

	occupiedFiles := [8]int{}
	for f := board.ZeroFile; f < board.NumFiles; f++ {
		n := (own & board.BitFile(f)).PopCount()
		occupiedFiles[f] = n
		if n > 1 {
			mg += (n - 1) * doubledPenalty
			eg += (n - 1) * doubledPenalty
		}
	}

	rest := own
	for rest != 0 {
		var sq board.Square
		rest, sq = rest.PopLSB()
		f := sq.File()

		isolated := true
		if f > board.FileA && occupiedFiles[f-1] > 0 {
			isolated = false
		}
		if f < board.FileH && occupiedFiles[f+1] > 0 {
			isolated = false
		}
		if isolated {
			mg += isolatedPenalty
			eg += isolatedPenalty
		}

		if isPassed(opp, c, sq) {
			passed = passed.Set(sq)
			adv := advancement(c, sq)
			mg += passedBonusMG * adv / 6
			eg += passedBonusEG * adv / 6
		}

		if isBackward(own, opp, c, sq) {
			mg += backwardPenalty
			eg += backwardPenalty
		}
	}

	islands := countIslands(occupiedFiles)
	if islands > 1 {
		mg += (islands - 1) * islandPenalty
		eg += (islands - 1) * islandPenalty
	}

	return mg, eg, passed
}

// advancement returns how many ranks the pawn has progressed from its starting
// rank, 1..6, so a pawn one step from promotion scores the full passed bonus.
func advancement(c board.Color, sq board.Square) int {
	if c == board.White {
		return int(board.Rank1 - sq.Rank())
	}
	return int(sq.Rank())
}

// hasPawnSupport reports whether sq's pawn is defended by a same-colored pawn
// diagonally behind it.
func hasPawnSupport(own board.Bitboard, c board.Color, sq board.Square) bool {
	return board.PawnAttackboard(c.Opponent(), sq)&own != 0
}

// isPassed reports whether the pawn at sq has no enemy pawn on its file or either
// adjacent file, anywhere ahead of it in its direction of travel.
func isPassed(opp board.Bitboard, c board.Color, sq board.Square) bool {
	var front board.Bitboard
	for r := board.ZeroRank; r < board.NumRanks; r++ {
		if !isAhead(c, r, sq.Rank()) {
			continue
		}
		for _, ff := range adjacentFiles(sq.File()) {
			front |= board.BitMask(board.NewSquare(ff, r))
		}
	}
	return front&opp == 0
}

// isBackward reports whether sq's pawn cannot safely advance: its stop square is
// covered by an enemy pawn and no own pawn on an adjacent file sits at or behind
// its rank to ever support the push.
func isBackward(own, opp board.Bitboard, c board.Color, sq board.Square) bool {
	pushTarget := board.PawnPushboard(c, board.BitMask(sq), ^board.EmptyBitboard)
	if pushTarget == 0 {
		return false
	}
	to := pushTarget.LastPopSquare()
	if board.PawnAttackboard(c.Opponent(), to)&opp == 0 {
		return false
	}
	for _, ff := range adjacentFiles(sq.File()) {
		if ff == sq.File() {
			continue
		}
		neighborPawns := own & board.BitFile(ff)
		for neighborPawns != 0 {
			var nsq board.Square
			neighborPawns, nsq = neighborPawns.PopLSB()
			// A neighbor at or behind our rank can defend the stop square now or
			// after advancing; one already ahead can never come back to help.
			if !isAhead(c, nsq.Rank(), sq.Rank()) {
				return false
			}
		}
	}
	return true
}

func isAhead(c board.Color, r, from board.Rank) bool {
	if c == board.White {
		return r < from
	}
	return r > from
}

func adjacentFiles(f board.File) []board.File {
	files := []board.File{f}
	if f > board.FileA {
		files = append(files, f-1)
	}
	if f < board.FileH {
		files = append(files, f+1)
	}
	return files
}

// countIslands counts the number of contiguous runs of occupied files, used to
// penalize pawn islands (isolated clumps of pawns separated by empty files).
func countIslands(occupiedFiles [8]int) int {
	islands := 0
	inIsland := false
	for _, n := range occupiedFiles {
		if n > 0 {
			if !inIsland {
				islands++
				inIsland = true
			}
		} else {
			inIsland = false
		}
	}
	return islands
}
