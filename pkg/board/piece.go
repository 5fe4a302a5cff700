package board

import "unicode"

// PieceType represents a chess piece kind without color. 3 bits.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

const NumPieceTypes = 6

func ParsePieceType(r rune) (PieceType, bool) {
	switch r {
	case 'p', 'P':
		return Pawn, true
	case 'n', 'N':
		return Knight, true
	case 'b', 'B':
		return Bishop, true
	case 'r', 'R':
		return Rook, true
	case 'q', 'Q':
		return Queen, true
	case 'k', 'K':
		return King, true
	default:
		return 0, false
	}
}

func (p PieceType) IsValid() bool {
	return p <= King
}

func (p PieceType) String() string {
	switch p {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return "?"
	}
}

// Piece is the twelve-variant color+type tag used to index the Position's piece
// bitboards and to pack into a Move: {WhitePawn, WhiteKnight, ..., BlackKing}.
// Piece/NumPieceTypes gives the color; Piece%NumPieceTypes gives the PieceType.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
)

// NoPiece is the sentinel value for "no piece here" (e.g. a move with no capture
// or no promotion).
const NoPiece Piece = 12

const NumPieces = 12

// NewPiece combines a color and a piece type into a Piece tag.
func NewPiece(c Color, pt PieceType) Piece {
	return Piece(c)*NumPieceTypes + Piece(pt)
}

func (p Piece) Color() Color {
	return Color(p / NumPieceTypes)
}

func (p Piece) Type() PieceType {
	return PieceType(p % NumPieceTypes)
}

func (p Piece) IsValid() bool {
	return p < NumPieces
}

func (p Piece) String() string {
	if p == NoPiece {
		return "-"
	}
	r := []rune(p.Type().String())[0]
	if p.Color() == White {
		r = unicode.ToUpper(r)
	}
	return string(r)
}
