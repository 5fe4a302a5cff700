package board

import (
	"fmt"
	"strings"
)

// Move is a move packed into 24 significant bits of a uint32:
//
//	bits  0- 5: source square
//	bits  6-11: target square
//	bits 12-15: moved piece
//	bits 16-19: promoted piece (NoPiece if none)
//	bit     20: capture flag
//	bit     21: double pawn push flag
//	bit     22: en passant capture flag
//	bit     23: castling flag
//
// NoMove (all bits zero) is never produced by the move generator: every generated
// move carries either a promoted piece or NoPiece in bits 16-19, and NoPiece's own
// encoding (12) is nonzero.
type Move uint32

const (
	moveSourceShift   = 0
	moveTargetShift   = 6
	movePieceShift    = 12
	movePromotedShift = 16
	moveCaptureBit    = 1 << 20
	moveDoublePushBit = 1 << 21
	moveEnPassantBit  = 1 << 22
	moveCastlingBit   = 1 << 23

	moveSquareMask = 0x3f
	movePieceMask  = 0xf
)

// NoMove is the zero-value sentinel for "no move", used by the transposition table
// and search to signal the absence of a stored or chosen move.
const NoMove Move = 0

// NewMove packs a basic (non-capture, non-special) move.
func NewMove(from, to Square, piece Piece) Move {
	return Move(from)<<moveSourceShift | Move(to)<<moveTargetShift | Move(piece)<<movePieceShift | Move(NoPiece)<<movePromotedShift
}

// NewCapture packs a capturing move. The captured piece itself is not encoded; the
// board recovers it from the target square at make time.
func NewCapture(from, to Square, piece Piece) Move {
	return NewMove(from, to, piece) | moveCaptureBit
}

// NewDoublePush packs a two-square pawn push.
func NewDoublePush(from, to Square, piece Piece) Move {
	return NewMove(from, to, piece) | moveDoublePushBit
}

// NewEnPassant packs an en passant capture.
func NewEnPassant(from, to Square, piece Piece) Move {
	return NewMove(from, to, piece) | moveCaptureBit | moveEnPassantBit
}

// NewCastle packs a castling move; to is the king's destination square.
func NewCastle(from, to Square, piece Piece) Move {
	return NewMove(from, to, piece) | moveCastlingBit
}

// NewPromotion packs a (possibly capturing) pawn promotion.
func NewPromotion(from, to Square, piece Piece, promoted Piece, capture bool) Move {
	m := NewMove(from, to, piece)&^(movePieceMask<<movePromotedShift) | Move(promoted)<<movePromotedShift
	if capture {
		m |= moveCaptureBit
	}
	return m
}

func (m Move) From() Square {
	return Square(m >> moveSourceShift & moveSquareMask)
}

func (m Move) To() Square {
	return Square(m >> moveTargetShift & moveSquareMask)
}

func (m Move) Piece() Piece {
	return Piece(m >> movePieceShift & movePieceMask)
}

// Promoted returns the promoted-to piece, or NoPiece if this is not a promotion.
func (m Move) Promoted() Piece {
	return Piece(m >> movePromotedShift & movePieceMask)
}

func (m Move) IsPromotion() bool {
	return m.Promoted() != NoPiece
}

func (m Move) IsCapture() bool {
	return m&moveCaptureBit != 0
}

func (m Move) IsDoublePush() bool {
	return m&moveDoublePushBit != 0
}

func (m Move) IsEnPassant() bool {
	return m&moveEnPassantBit != 0
}

func (m Move) IsCastling() bool {
	return m&moveCastlingBit != 0
}

// IsQuiet returns true iff the move is neither a capture nor a promotion, the two
// move classes that reset quiescence search's standing-pat assumptions.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// EnPassantCaptureSquare returns the square of the pawn captured en passant. Only
// valid when IsEnPassant is true.
func (m Move) EnPassantCaptureSquare() Square {
	to := m.To()
	if m.Piece().Color() == White {
		return to + 8
	}
	return to - 8
}

// ParseMove parses a move in pure algebraic coordinate notation, such as "a2a4" or
// "a7a8q". The parsed move carries no board context (capture/castling/en passant
// flags); callers should instead look the move up in a generated move list by
// From/To/Promoted equality.
func ParseMove(str string) (from, to Square, promoted PieceType, err error) {
	runes := []rune(str)
	if len(runes) < 4 || len(runes) > 5 {
		return 0, 0, 0, fmt.Errorf("invalid move: %q", str)
	}

	from, err = ParseSquare(runes[0], runes[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid move source: %q: %w", str, err)
	}
	to, err = ParseSquare(runes[2], runes[3])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid move target: %q: %w", str, err)
	}
	if len(runes) == 5 {
		pt, ok := ParsePieceType(runes[4])
		if !ok || pt == Pawn || pt == King {
			return 0, 0, 0, fmt.Errorf("invalid promotion: %q", str)
		}
		return from, to, pt, nil
	}
	return from, to, 0, nil
}

// Matches reports whether the move is the move described by the given pure
// algebraic coordinates, as returned by ParseMove.
func (m Move) Matches(from, to Square, promoted PieceType) bool {
	if m.From() != from || m.To() != to {
		return false
	}
	if !m.IsPromotion() {
		return promoted == 0
	}
	return m.Promoted().Type() == promoted
}

func (m Move) String() string {
	if m.IsPromotion() {
		return fmt.Sprintf("%v%v%v", m.From(), m.To(), m.Promoted().Type())
	}
	return fmt.Sprintf("%v%v", m.From(), m.To())
}

// FormatMoves renders a principal variation as a space-separated move string.
func FormatMoves(moves []Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
