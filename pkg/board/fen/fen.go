// Package fen contains utilities for reading and writing positions in FEN notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/herohde/morlock/pkg/board"
)

const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode returns a new position, side to move, halfmove clock and fullmove number
// from a FEN record.
//
// Example: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
func Decode(fen string) (*board.Position, board.Color, int, int, error) {
	parts := strings.Split(strings.TrimSpace(fen), " ")
	if len(parts) != 6 {
		return nil, 0, 0, 0, fmt.Errorf("invalid number of sections in FEN: %q", fen)
	}

	// (1) Piece placement, from white's perspective: rank 8 down to rank 1, each
	// rank from file a through file h. Our square numbering (a8=0..h1=63) walks in
	// exactly this order, so placement just increments as the string is consumed.

	pos := board.NewEmptyPosition()

	sq := board.A8
	for _, r := range []rune(parts[0]) {
		switch {
		case r == '/':
			// rank separator, cosmetic

		case unicode.IsDigit(r):
			sq += board.Square(r - '0')

		case unicode.IsLetter(r):
			piece, ok := parsePiece(r)
			if !ok {
				return nil, 0, 0, 0, fmt.Errorf("invalid piece %q in FEN: %q", r, fen)
			}
			pos.Put(sq, piece)
			sq++

		default:
			return nil, 0, 0, 0, fmt.Errorf("invalid character in FEN: %q", fen)
		}
	}
	if sq != board.NumSquares {
		return nil, 0, 0, 0, fmt.Errorf("invalid number of squares in FEN: %q", fen)
	}

	// (2) Active color: "w" or "b".

	if len(parts[1]) != 1 {
		return nil, 0, 0, 0, fmt.Errorf("invalid active color in FEN: %q", fen)
	}
	active, ok := board.ParseColor(rune(parts[1][0]))
	if !ok {
		return nil, 0, 0, 0, fmt.Errorf("invalid active color in FEN: %q", fen)
	}

	// (3) Castling availability: "-", or one or more of "KQkq".

	castling, ok := parseCastling(parts[2])
	if !ok {
		return nil, 0, 0, 0, fmt.Errorf("invalid castling in FEN: %q", fen)
	}
	pos.SetCastling(castling)

	// (4) En passant target square, or "-".

	ep := board.NoSquare
	if parts[3] != "-" {
		sq, err := board.ParseSquareStr(parts[3])
		if err != nil {
			return nil, 0, 0, 0, fmt.Errorf("invalid en passant in FEN: %q", fen)
		}
		ep = sq
	}
	pos.SetEnPassant(ep)

	// (5) Halfmove clock since the last pawn advance or capture.

	np, err := strconv.Atoi(parts[4])
	if err != nil || np < 0 {
		return nil, 0, 0, 0, fmt.Errorf("invalid halfmove clock in FEN: %q", fen)
	}

	// (6) Fullmove number, starting at 1 and incremented after Black's move.

	fm, err := strconv.Atoi(parts[5])
	if err != nil || fm < 1 {
		return nil, 0, 0, 0, fmt.Errorf("invalid fullmove number in FEN: %q", fen)
	}

	return pos, active, np, fm, nil
}

// Encode encodes the position and game metadata in FEN notation.
func Encode(pos *board.Position, turn board.Color, noprogress, fullmoves int) string {
	var sb strings.Builder
	for r := board.ZeroRank; r < board.NumRanks; r++ {
		blanks := 0
		for f := board.ZeroFile; f < board.NumFiles; f++ {
			piece := pos.PieceAt(board.NewSquare(f, r))
			if piece == board.NoPiece {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteString(piece.String())
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r < board.NumRanks-1 {
			sb.WriteRune('/')
		}
	}

	ep := "-"
	if sq, ok := pos.EnPassant(); ok {
		ep = sq.String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), turn, pos.Castling(), ep, noprogress, fullmoves)
}

func parseCastling(str string) (board.Castling, bool) {
	var ret board.Castling
	if str == "-" {
		return ret, true
	}
	for _, r := range []rune(str) {
		switch r {
		case 'K':
			ret |= board.WhiteKingSideCastle
		case 'Q':
			ret |= board.WhiteQueenSideCastle
		case 'k':
			ret |= board.BlackKingSideCastle
		case 'q':
			ret |= board.BlackQueenSideCastle
		default:
			return 0, false
		}
	}
	return ret, true
}

func parsePiece(r rune) (board.Piece, bool) {
	color := board.White
	if unicode.IsLower(r) {
		color = board.Black
	}
	pt, ok := board.ParsePieceType(r)
	if !ok {
		return 0, false
	}
	return board.NewPiece(color, pt), true
}
