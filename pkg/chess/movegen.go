package chess

// Move generation: pseudo-legal generation, a legality filter via
// make/unmake, and a castling-path check kept separate from plain
// pseudo-legal emission since it needs its own attacked-square scan.

// GeneratePseudoLegal appends every pseudo-legal move for the side to
// move into buf and returns the extended slice.
func GeneratePseudoLegal(p *Position, buf []Move) []Move {
	var side = p.side
	for sq := Square(0); sq < 64; sq++ {
		var piece = p.board[sq]
		if piece == NoPiece || piece.Color() != side {
			continue
		}
		switch piece.Type() {
		case Pawn:
			buf = genPawnMoves(p, sq, side, buf, true)
		case Knight:
			buf = genOffsetMoves(p, sq, side, knightOffsets[:], buf)
		case King:
			buf = genOffsetMoves(p, sq, side, kingOffsets[:], buf)
		case Bishop:
			buf = genSliderMoves(p, sq, side, bishopDirs[:], buf)
		case Rook:
			buf = genSliderMoves(p, sq, side, rookDirs[:], buf)
		case Queen:
			buf = genSliderMoves(p, sq, side, bishopDirs[:], buf)
			buf = genSliderMoves(p, sq, side, rookDirs[:], buf)
		}
	}
	buf = genCastleMoves(p, side, buf)
	return buf
}

// GenerateCaptures appends every pseudo-legal capture and promotion
// (the move set quiescence search considers by default) into buf.
func GenerateCaptures(p *Position, buf []Move) []Move {
	var side = p.side
	for sq := Square(0); sq < 64; sq++ {
		var piece = p.board[sq]
		if piece == NoPiece || piece.Color() != side {
			continue
		}
		switch piece.Type() {
		case Pawn:
			buf = genPawnMoves(p, sq, side, buf, false)
		case Knight:
			buf = genOffsetCaptures(p, sq, side, knightOffsets[:], buf)
		case King:
			buf = genOffsetCaptures(p, sq, side, kingOffsets[:], buf)
		case Bishop:
			buf = genSliderCaptures(p, sq, side, bishopDirs[:], buf)
		case Rook:
			buf = genSliderCaptures(p, sq, side, rookDirs[:], buf)
		case Queen:
			buf = genSliderCaptures(p, sq, side, bishopDirs[:], buf)
			buf = genSliderCaptures(p, sq, side, rookDirs[:], buf)
		}
	}
	return buf
}

func addPromotions(from, to Square, flags int, buf []Move) []Move {
	buf = append(buf, NewPromotionMove(from, to, flags, Queen))
	buf = append(buf, NewPromotionMove(from, to, flags, Rook))
	buf = append(buf, NewPromotionMove(from, to, flags, Bishop))
	buf = append(buf, NewPromotionMove(from, to, flags, Knight))
	return buf
}

func genPawnMoves(p *Position, sq Square, side Color, buf []Move, includeQuiets bool) []Move {
	var file, rank = sq.File(), sq.Rank()
	var forward, startRank, lastRank = 1, Rank2, Rank8
	if side == Black {
		forward, startRank, lastRank = -1, Rank7, Rank1
	}

	var oneSq = MakeSquare(file, rank+forward)
	if onBoard(file, rank+forward) && p.IsEmpty(oneSq) {
		if rank+forward == lastRank {
			buf = addPromotions(sq, oneSq, 0, buf)
		} else if includeQuiets {
			buf = append(buf, NewMove(sq, oneSq, 0))
			if rank == startRank {
				var twoSq = MakeSquare(file, rank+2*forward)
				if p.IsEmpty(twoSq) {
					buf = append(buf, NewMove(sq, twoSq, 0))
				}
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		var tf, tr = file+df, rank+forward
		if !onBoard(tf, tr) {
			continue
		}
		var to = MakeSquare(tf, tr)
		if to == p.epSquare {
			buf = append(buf, NewMove(sq, to, FlagCapture|FlagEP))
			continue
		}
		var target = p.board[to]
		if target != NoPiece && target.Color() != side {
			if tr == lastRank {
				buf = addPromotions(sq, to, FlagCapture, buf)
			} else {
				buf = append(buf, NewMove(sq, to, FlagCapture))
			}
		}
	}
	return buf
}

func genOffsetMoves(p *Position, sq Square, side Color, offsets []([2]int), buf []Move) []Move {
	var file, rank = sq.File(), sq.Rank()
	for _, o := range offsets {
		var tf, tr = file+o[0], rank+o[1]
		if !onBoard(tf, tr) {
			continue
		}
		var to = MakeSquare(tf, tr)
		var target = p.board[to]
		if target == NoPiece {
			buf = append(buf, NewMove(sq, to, 0))
		} else if target.Color() != side {
			buf = append(buf, NewMove(sq, to, FlagCapture))
		}
	}
	return buf
}

func genOffsetCaptures(p *Position, sq Square, side Color, offsets []([2]int), buf []Move) []Move {
	var file, rank = sq.File(), sq.Rank()
	for _, o := range offsets {
		var tf, tr = file+o[0], rank+o[1]
		if !onBoard(tf, tr) {
			continue
		}
		var to = MakeSquare(tf, tr)
		var target = p.board[to]
		if target != NoPiece && target.Color() != side {
			buf = append(buf, NewMove(sq, to, FlagCapture))
		}
	}
	return buf
}

func genSliderMoves(p *Position, sq Square, side Color, dirs []([2]int), buf []Move) []Move {
	for _, to := range rayAttacksFrom(p, sq, dirs) {
		var target = p.board[to]
		if target == NoPiece {
			buf = append(buf, NewMove(sq, to, 0))
		} else if target.Color() != side {
			buf = append(buf, NewMove(sq, to, FlagCapture))
		}
	}
	return buf
}

func genSliderCaptures(p *Position, sq Square, side Color, dirs []([2]int), buf []Move) []Move {
	for _, to := range rayAttacksFrom(p, sq, dirs) {
		var target = p.board[to]
		if target != NoPiece && target.Color() != side {
			buf = append(buf, NewMove(sq, to, FlagCapture))
		}
	}
	return buf
}

type castleInfo struct {
	right              uint8
	kingFrom, kingTo   Square
	rookFrom           Square
	between            []Square // squares that must be empty
	kingPath           []Square // squares the king passes over, including destination
}

var castleInfos = []castleInfo{
	{WhiteKingSide, E1, G1, H1, []Square{F1, G1}, []Square{F1, G1}},
	{WhiteQueenSide, E1, C1, A1, []Square{B1, C1, D1}, []Square{D1, C1}},
	{BlackKingSide, E8, G8, H8, []Square{F8, G8}, []Square{F8, G8}},
	{BlackQueenSide, E8, C8, A8, []Square{B8, C8, D8}, []Square{D8, C8}},
}

// genCastleMoves emits castling moves iff the right bit is set and the
// intermediate squares between king and rook are empty. "King does not
// pass through check" is deliberately not checked here — that is
// LegalCastlePathOK's job, applied only by GenerateLegal.
func genCastleMoves(p *Position, side Color, buf []Move) []Move {
	for _, ci := range castleInfos {
		if (side == White && (ci.right == WhiteKingSide || ci.right == WhiteQueenSide)) ||
			(side == Black && (ci.right == BlackKingSide || ci.right == BlackQueenSide)) {
			if p.castlingRights&ci.right == 0 {
				continue
			}
			var clear = true
			for _, sq := range ci.between {
				if !p.IsEmpty(sq) {
					clear = false
					break
				}
			}
			if clear {
				buf = append(buf, NewMove(ci.kingFrom, ci.kingTo, FlagCastle))
			}
		}
	}
	return buf
}

// LegalCastlePathOK rejects castling if the king is currently in check,
// or if any square the king passes over or lands on is attacked.
func LegalCastlePathOK(p *Position, m Move) bool {
	var side = p.board[m.From()].Color()
	if InCheck(p, side) {
		return false
	}
	for _, ci := range castleInfos {
		if ci.kingFrom == m.From() && ci.kingTo == m.To() {
			for _, sq := range ci.kingPath {
				if IsSquareAttacked(p, sq, side.Opposite()) {
					return false
				}
			}
			return true
		}
	}
	return false
}

// GenerateLegal filters pseudo-legal moves by make/unmake: a move is
// legal iff it does not leave the mover's own king in check, and
// additionally, for castling, iff LegalCastlePathOK holds.
func GenerateLegal(p *Position, buf []Move) []Move {
	var pseudoArr [MaxMoves]Move
	var pseudo = GeneratePseudoLegal(p, pseudoArr[:0])
	var mover = p.side
	for _, m := range pseudo {
		if m.IsCastle() && !LegalCastlePathOK(p, m) {
			continue
		}
		var u = p.DoMove(m)
		var legal = !IsSquareAttacked(p, p.KingSquare(mover), mover.Opposite())
		p.UndoMove(m, u)
		if legal {
			buf = append(buf, m)
		}
	}
	return buf
}
