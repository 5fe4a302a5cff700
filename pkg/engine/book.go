package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
)

// Book represents an opening book.
type Book interface {
	// Find returns a list -- potentially empty -- of moves given a position's cropped
	// FEN key (placement, turn, castling, en passant only). Once an empty list is
	// returned, the book should not be consulted again for the game.
	Find(ctx context.Context, fen string) ([]board.Move, error)
}

// Line represents an opening line: e2e4 d7d5.
type Line []string

func (l Line) String() string {
	return strings.Join(l, " ")
}

// NoBook is an empty opening book: no position ever has a book move.
var NoBook Book = &book{moves: map[string][]board.Move{}}

// NewBook builds an opening book from a set of lines, keyed by the cropped FEN of
// every position reached along the way so transpositions between lines share a
// single book entry.
func NewBook(lines []Line) (Book, error) {
	m := map[string]map[board.Move]bool{}

	for _, line := range lines {
		key := fen.Initial
		for _, str := range line {
			from, to, promoted, err := board.ParseMove(str)
			if err != nil {
				return nil, fmt.Errorf("invalid line %v: %w", line, err)
			}

			pos, turn, _, _, err := fen.Decode(key)
			if err != nil {
				return nil, fmt.Errorf("invalid line %v: %w", line, err)
			}

			var list board.MoveList
			board.GenerateMoves(pos, turn, &list)

			found := false
			for _, candidate := range list.Slice() {
				if !candidate.Matches(from, to, promoted) {
					continue
				}
				found = true

				b := board.NewBoard(board.NewZobristTable(0), pos, turn, 0, 1)
				if !b.Push(candidate) {
					return nil, fmt.Errorf("invalid line %v: move %v not legal", line, str)
				}

				k := fenKey(key)
				if m[k] == nil {
					m[k] = map[board.Move]bool{}
				}
				m[k][candidate] = true

				key = fen.Encode(b.Position(), turn.Opponent(), 0, 1)
				break
			}
			if !found {
				return nil, fmt.Errorf("invalid line %v: move %v not found", line, str)
			}
		}
	}

	dedup := map[string][]board.Move{}
	for k, v := range m {
		var list []board.Move
		for move := range v {
			list = append(list, move)
		}
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
		dedup[k] = list
	}
	return &book{moves: dedup}, nil
}

type book struct {
	moves map[string][]board.Move // cropped FEN -> candidate moves
}

func (b *book) Find(_ context.Context, position string) ([]board.Move, error) {
	return b.moves[fenKey(position)], nil
}

func fenKey(position string) string {
	parts := strings.Split(position, " ")
	if len(parts) < 4 {
		return position
	}
	return strings.Join(parts[:4], " ")
}

// FixedBook wraps a Book so that Find always returns its first (lowest packed Move
// value, pre-sorted) candidate move deterministically, rather than choosing among
// several book moves at random.
type FixedBook struct {
	Book
}

func (b FixedBook) Find(ctx context.Context, position string) ([]board.Move, error) {
	moves, err := b.Book.Find(ctx, position)
	if err != nil || len(moves) == 0 {
		return moves, err
	}
	return moves[:1], nil
}

// RandomBook wraps a Book so that Find returns one uniformly random candidate move
// from a seeded source, for callers that want the variety of the original behavior
// without its nondeterminism.
type RandomBook struct {
	Book
	rand *rand.Rand
}

func NewRandomBook(b Book, seed int64) *RandomBook {
	return &RandomBook{Book: b, rand: rand.New(rand.NewSource(seed))}
}

func (b *RandomBook) Find(ctx context.Context, position string) ([]board.Move, error) {
	moves, err := b.Book.Find(ctx, position)
	if err != nil || len(moves) == 0 {
		return moves, err
	}
	return []board.Move{moves[b.rand.Intn(len(moves))]}, nil
}
