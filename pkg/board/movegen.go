package board

// GenerateMoves appends all pseudo-legal moves for the side to move into list.
// Pseudo-legal here means: normal piece movement rules, captures, en passant,
// castling (checked for rook/king home squares, intervening occupancy and transit
// squares not under attack) and promotions are all enforced; only "does this leave
// my own king in check" is deferred to Board.Push.
func GenerateMoves(pos *Position, turn Color, list *MoveList) {
	own := pos.Occupancy(turn)
	opp := pos.Occupancy(turn.Opponent())
	occ := own | opp
	empty := ^occ

	generatePawnMoves(pos, turn, own, opp, empty, list)
	generateLeaperMoves(pos, turn, Knight, own, list)
	generateSliderMoves(pos, turn, Bishop, own, occ, list)
	generateSliderMoves(pos, turn, Rook, own, occ, list)
	generateSliderMoves(pos, turn, Queen, own, occ, list)
	generateLeaperMoves(pos, turn, King, own, list)
	generateCastlingMoves(pos, turn, occ, list)
}

func generateLeaperMoves(pos *Position, turn Color, pt PieceType, own Bitboard, list *MoveList) {
	piece := NewPiece(turn, pt)
	pieces := pos.PieceBitboard(piece)
	for pieces != 0 {
		var from Square
		pieces, from = pieces.PopLSB()

		var targets Bitboard
		if pt == Knight {
			targets = KnightAttackboard(from)
		} else {
			targets = KingAttackboard(from)
		}
		targets &^= own

		for targets != 0 {
			var to Square
			targets, to = targets.PopLSB()
			addQuietOrCapture(pos, piece, from, to, list)
		}
	}
}

func generateSliderMoves(pos *Position, turn Color, pt PieceType, own, occ Bitboard, list *MoveList) {
	piece := NewPiece(turn, pt)
	pieces := pos.PieceBitboard(piece)
	for pieces != 0 {
		var from Square
		pieces, from = pieces.PopLSB()

		targets := AttackboardFor(pt, from, occ) &^ own
		for targets != 0 {
			var to Square
			targets, to = targets.PopLSB()
			addQuietOrCapture(pos, piece, from, to, list)
		}
	}
}

func addQuietOrCapture(pos *Position, piece Piece, from, to Square, list *MoveList) {
	if pos.PieceAt(to) != NoPiece {
		list.Add(NewCapture(from, to, piece))
	} else {
		list.Add(NewMove(from, to, piece))
	}
}

var promotionPieceTypes = [4]PieceType{Queen, Rook, Bishop, Knight}

func generatePawnMoves(pos *Position, turn Color, own, opp, empty Bitboard, list *MoveList) {
	piece := NewPiece(turn, Pawn)
	pawns := pos.PieceBitboard(piece)
	promoRank := PawnPromotionRank(turn)

	pushes := PawnPushboard(turn, pawns, empty)
	for pushes != 0 {
		var to Square
		pushes, to = pushes.PopLSB()
		from := pawnPushOrigin(turn, to)
		addPawnAdvance(list, piece, turn, from, to, promoRank, false)
	}

	jumpers := pawns & PawnStartRank(turn)
	single := PawnPushboard(turn, jumpers, empty)
	doubles := PawnPushboard(turn, single, empty) & PawnJumpRank(turn)
	for doubles != 0 {
		var to Square
		doubles, to = doubles.PopLSB()
		from := pawnPushOrigin(turn, pawnPushOrigin(turn, to))
		list.Add(NewDoublePush(from, to, piece))
	}

	captures := pawns
	for captures != 0 {
		var from Square
		captures, from = captures.PopLSB()

		targets := PawnAttackboard(turn, from) & opp
		for targets != 0 {
			var to Square
			targets, to = targets.PopLSB()
			addPawnAdvance(list, piece, turn, from, to, promoRank, true)
		}

		if ep, ok := pos.EnPassant(); ok && PawnAttackboard(turn, from).IsSet(ep) {
			list.Add(NewEnPassant(from, ep, piece))
		}
	}
}

// pawnPushOrigin returns the square a single forward push of turn's pawn originated
// from, given its destination.
func pawnPushOrigin(turn Color, to Square) Square {
	if turn == White {
		return to + 8
	}
	return to - 8
}

func addPawnAdvance(list *MoveList, piece Piece, turn Color, from, to Square, promoRank Bitboard, capture bool) {
	if !promoRank.IsSet(to) {
		if capture {
			list.Add(NewCapture(from, to, piece))
		} else {
			list.Add(NewMove(from, to, piece))
		}
		return
	}
	for _, pt := range promotionPieceTypes {
		list.Add(NewPromotion(from, to, piece, NewPiece(turn, pt), capture))
	}
}

func generateCastlingMoves(pos *Position, turn Color, occ Bitboard, list *MoveList) {
	king := NewPiece(turn, King)

	if turn == White {
		if pos.Castling().IsAllowed(WhiteKingSideCastle) && castlingClear(occ, F1, G1) &&
			castlingSafe(pos, turn, E1, F1, G1) {
			list.Add(NewCastle(E1, G1, king))
		}
		if pos.Castling().IsAllowed(WhiteQueenSideCastle) && castlingClear(occ, B1, C1, D1) &&
			castlingSafe(pos, turn, E1, D1, C1) {
			list.Add(NewCastle(E1, C1, king))
		}
		return
	}

	if pos.Castling().IsAllowed(BlackKingSideCastle) && castlingClear(occ, F8, G8) &&
		castlingSafe(pos, turn, E8, F8, G8) {
		list.Add(NewCastle(E8, G8, king))
	}
	if pos.Castling().IsAllowed(BlackQueenSideCastle) && castlingClear(occ, B8, C8, D8) &&
		castlingSafe(pos, turn, E8, D8, C8) {
		list.Add(NewCastle(E8, C8, king))
	}
}

func castlingClear(occ Bitboard, squares ...Square) bool {
	for _, sq := range squares {
		if occ.IsSet(sq) {
			return false
		}
	}
	return true
}

func castlingSafe(pos *Position, turn Color, squares ...Square) bool {
	for _, sq := range squares {
		if pos.IsAttacked(turn.Opponent(), sq) {
			return false
		}
	}
	return true
}
