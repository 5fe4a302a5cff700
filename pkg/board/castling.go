package board

import "strings"

// Castling represents the set of castling rights. 4 bits.
type Castling uint8

const (
	WhiteKingSideCastle Castling = 1 << iota
	WhiteQueenSideCastle
	BlackKingSideCastle
	BlackQueenSideCastle
)

const (
	FullCastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle

	ZeroCastling Castling = 0
	// NumCastling is the size of the castling-rights space (4 bits), used to size the
	// zobrist castling-key table.
	NumCastling Castling = 16
)

// RookSquares returns the (from, to) rook squares for the castling side.
func (c Castling) RookSquares() (Square, Square) {
	switch c {
	case WhiteKingSideCastle:
		return H1, F1
	case WhiteQueenSideCastle:
		return A1, D1
	case BlackKingSideCastle:
		return H8, F8
	case BlackQueenSideCastle:
		return A8, D8
	default:
		panic("invalid single castling right")
	}
}

// RightForKingTarget returns the single castling right whose king destination is to.
func RightForKingTarget(to Square) Castling {
	switch to {
	case G1:
		return WhiteKingSideCastle
	case C1:
		return WhiteQueenSideCastle
	case G8:
		return BlackKingSideCastle
	case C8:
		return BlackQueenSideCastle
	default:
		panic("invalid castling king destination")
	}
}

// RightsLostBySquare returns the castling rights lost when a piece moves from or a capture
// lands on sq (either because the king or a rook left its home square).
func RightsLostBySquare(sq Square) Castling {
	switch sq {
	case E1:
		return WhiteKingSideCastle | WhiteQueenSideCastle
	case H1:
		return WhiteKingSideCastle
	case A1:
		return WhiteQueenSideCastle
	case E8:
		return BlackKingSideCastle | BlackQueenSideCastle
	case H8:
		return BlackKingSideCastle
	case A8:
		return BlackQueenSideCastle
	default:
		return 0
	}
}

// IsAllowed returns true iff any of the given rights is allowed.
func (c Castling) IsAllowed(right Castling) bool {
	return c&right != 0
}

func (c Castling) String() string {
	if c == 0 {
		return "-"
	}

	var sb strings.Builder
	if c.IsAllowed(WhiteKingSideCastle) {
		sb.WriteString("K")
	}
	if c.IsAllowed(WhiteQueenSideCastle) {
		sb.WriteString("Q")
	}
	if c.IsAllowed(BlackKingSideCastle) {
		sb.WriteString("k")
	}
	if c.IsAllowed(BlackQueenSideCastle) {
		sb.WriteString("q")
	}
	return sb.String()
}
