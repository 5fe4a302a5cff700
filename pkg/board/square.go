package board

import "fmt"

// Square represents a square on the board, ordered A8=0, B8=1, .., H1=63. This numbering
// matches a 64-bit interpretation as a bitboard:
//
//  A8 =  0, B8 =  1, C8 =  2, D8 =  3, E8 =  4, F8 =  5, G8 =  6, H8 =  7,
//  A7 =  8, B7 =  9, C7 = 10, D7 = 11, E7 = 12, F7 = 13, G7 = 14, H7 = 15,
//  A6 = 16, B6 = 17, C6 = 18, D6 = 19, E6 = 20, F6 = 21, G6 = 22, H6 = 23,
//  A5 = 24, B5 = 25, C5 = 26, D5 = 27, E5 = 28, F5 = 29, G5 = 30, H5 = 31,
//  A4 = 32, B4 = 33, C4 = 34, D4 = 35, E4 = 36, F4 = 37, G4 = 38, H4 = 39,
//  A3 = 40, B3 = 41, C3 = 42, D3 = 43, E3 = 44, F3 = 45, G3 = 46, H3 = 47,
//  A2 = 48, B2 = 49, C2 = 50, D2 = 51, E2 = 52, F2 = 53, G2 = 54, H2 = 55,
//  A1 = 56, B1 = 57, C1 = 58, D1 = 59, E1 = 60, F1 = 61, G1 = 62, H1 = 63
//
// A square is a bit-index into the bitboard layout. Rank index is sq>>3 (0 at rank 8,
// 7 at rank 1); file index is sq&7 (0 at file a, 7 at file h). 6 bits.
type Square int8

const (
	A8 Square = iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8

	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7

	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6

	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5

	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4

	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3

	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2

	A1
	B1
	C1
	D1
	E1
	F1
	G1
	H1
)

const (
	ZeroSquare Square = 0
	NumSquares Square = 64
	// NoSquare is the sentinel "no en-passant target" square.
	NoSquare Square = 64
)

func NewSquare(f File, r Rank) Square {
	return Square(r)<<3 | Square(f)
}

func ParseSquare(f, r rune) (Square, error) {
	file, ok := ParseFile(f)
	if !ok {
		return 0, fmt.Errorf("invalid file: %v", f)
	}
	rank, ok := ParseRank(r)
	if !ok {
		return 0, fmt.Errorf("invalid rank: %v", r)
	}
	return NewSquare(file, rank), nil
}

func ParseSquareStr(str string) (Square, error) {
	runes := []rune(str)
	if len(runes) != 2 {
		return 0, fmt.Errorf("invalid square: %v", str)
	}
	return ParseSquare(runes[0], runes[1])
}

func (s Square) IsValid() bool {
	return s >= A8 && s < NumSquares
}

// Rank returns the 0-based rank index: 0 at rank 8, 7 at rank 1 (sq>>3).
func (s Square) Rank() Rank {
	return Rank(s >> 3)
}

// File returns the 0-based file index: 0 at file a, 7 at file h (sq&7).
func (s Square) File() File {
	return File(s & 7)
}

func (s Square) String() string {
	return fmt.Sprintf("%v%v", s.File(), s.Rank())
}

// Rank is a 0-based row index, 0 at rank 8 and 7 at rank 1 (as produced by Square.Rank).
type Rank uint8

const (
	Rank8 Rank = iota
	Rank7
	Rank6
	Rank5
	Rank4
	Rank3
	Rank2
	Rank1
)

const (
	ZeroRank Rank = 0
	NumRanks Rank = 8
)

// Number returns the algebraic rank number, 1..8.
func (r Rank) Number() int {
	return 8 - int(r)
}

func ParseRank(r rune) (Rank, bool) {
	if r < '1' || r > '8' {
		return 0, false
	}
	return Rank(8 - (r - '0')), true
}

func (r Rank) IsValid() bool {
	return r < NumRanks
}

func (r Rank) String() string {
	return fmt.Sprintf("%v", r.Number())
}

// File is a 0-based column index, 0 at file a and 7 at file h.
type File uint8

const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

const (
	ZeroFile File = 0
	NumFiles File = 8
)

func ParseFile(r rune) (File, bool) {
	if r < 'a' || r > 'h' {
		if r < 'A' || r > 'H' {
			return 0, false
		}
		return File(r - 'A'), true
	}
	return File(r - 'a'), true
}

func (f File) IsValid() bool {
	return f < NumFiles
}

func (f File) String() string {
	return string(rune('a' + f))
}
