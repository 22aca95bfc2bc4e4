package engine

import "raptorfish/pkg/chess"

// seeValue indexed by chess.PieceType; King is given a value far above
// anything else so a king "capture" always ends the exchange in the
// king's favor (it can never actually be captured in a legal line).
var seeValue = [7]int{0, 1, 4, 4, 6, 12, 120}

func seeGEZero(pos *chess.Position, m chess.Move) bool {
	return SeeGE(pos, m, 0)
}

// SeeGE reports whether the net material result of the capture
// sequence starting with m on pos is >= threshold. seeQuick's cheap
// victim-minus-attacker estimate settles the common, unambiguous
// cases without ever touching the scratch board; only a promotion, an
// attacker that isn't clearly cheaper than its victim, or a result
// that lands close to the threshold escalates to the full swap-off.
func SeeGE(pos *chess.Position, m chess.Move, threshold int) bool {
	var quick = seeQuick(pos, m)
	var attacker = pos.PieceAt(m.From()).Type()
	var victim = pos.PieceAt(m.To()).Type()
	var ambiguous = m.IsPromotion() ||
		seeValue[attacker] >= seeValue[victim] ||
		chess.Abs(quick-threshold) <= seeValue[chess.Knight]
	if !ambiguous {
		return quick >= threshold
	}
	return seeFull(pos, m) >= threshold
}

// seeQuick estimates the result of a capture as victim value minus
// attacker value, the outcome if the capturing piece is recaptured and
// the exchange stops there. It is
// exact whenever the attacker is cheaper than what it takes and no
// recapture chain can help the defender; SeeGE escalates to seeFull
// whenever that isn't guaranteed.
func seeQuick(pos *chess.Position, m chess.Move) int {
	var moved = pos.PieceAt(m.From())
	var captured = pos.PieceAt(m.To())
	if m.IsEP() {
		captured = chess.MakePiece(moved.Color().Opposite(), chess.Pawn)
	}
	var attacker = moved.Type()
	var gain = seeValue[captured.Type()]
	if m.IsPromotion() {
		gain += seeValue[m.Promotion()] - seeValue[chess.Pawn]
		attacker = m.Promotion()
	}
	return gain - seeValue[attacker]
}

// seeFull replays the full capture sequence on a scratch board,
// assuming each side always recaptures with its least valuable
// attacker, and resolves the result by backward induction over the
// per-ply material swing: gain[i] = -max(-gain[i], gain[i+1]).
func seeFull(pos *chess.Position, m chess.Move) int {
	var from, to = m.From(), m.To()
	var moved = pos.PieceAt(from)
	var captured = pos.PieceAt(to)
	if m.IsEP() {
		captured = chess.MakePiece(moved.Color().Opposite(), chess.Pawn)
	}

	var board [64]chess.Piece
	for sq := chess.Square(0); sq < 64; sq++ {
		board[sq] = pos.PieceAt(sq)
	}
	board[from] = chess.NoPiece
	if m.IsEP() {
		var capSq = to - 8
		if moved.Color() == chess.Black {
			capSq = to + 8
		}
		board[capSq] = chess.NoPiece
	}
	var attackerType = moved.Type()
	var placed = moved
	if m.IsPromotion() {
		attackerType = m.Promotion()
		placed = chess.MakePiece(moved.Color(), attackerType)
	}
	board[to] = placed

	var gain [32]int
	var n = 0
	gain[0] = seeValue[captured.Type()]
	if m.IsPromotion() {
		gain[0] += seeValue[attackerType] - seeValue[chess.Pawn]
	}

	var side = moved.Color().Opposite()
	for {
		var nextType, nextFrom = leastValuableAttacker(&board, to, side)
		if nextType == chess.NoPieceType {
			break
		}

		var prevAtTo = board[to]
		board[nextFrom] = chess.NoPiece
		board[to] = chess.MakePiece(side, nextType)
		if nextType == chess.King && squareAttackedOnBoard(&board, to, side.Opposite()) {
			// the king cannot legally recapture into check, so it
			// can never continue the exchange.
			board[nextFrom] = chess.MakePiece(side, chess.King)
			board[to] = prevAtTo
			break
		}

		n++
		gain[n] = seeValue[attackerType] - gain[n-1]
		attackerType = nextType
		side = side.Opposite()
		if max(-gain[n-1], gain[n]) < 0 {
			break
		}
	}

	for n > 0 {
		gain[n-1] = -max(-gain[n-1], gain[n])
		n--
	}
	return gain[0]
}

var seeKnightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
var seeKingOffsets = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}

func seeOnBoard(file, rank int) bool { return file >= 0 && file < 8 && rank >= 0 && rank < 8 }

// squareAttackedOnBoard reports whether any byColor piece on board
// attacks sq; used by the king-recapture legality check above.
func squareAttackedOnBoard(board *[64]chess.Piece, sq chess.Square, byColor chess.Color) bool {
	for _, pt := range [6]chess.PieceType{chess.Pawn, chess.Knight, chess.Bishop, chess.Rook, chess.Queen, chess.King} {
		if _, ok := findAttackerOfType(board, sq, byColor, pt); ok {
			return true
		}
	}
	return false
}

// leastValuableAttacker finds the cheapest byColor piece on board that
// attacks sq, scanning piece types from pawn up to king.
func leastValuableAttacker(board *[64]chess.Piece, sq chess.Square, byColor chess.Color) (chess.PieceType, chess.Square) {
	for _, pt := range [6]chess.PieceType{chess.Pawn, chess.Knight, chess.Bishop, chess.Rook, chess.Queen, chess.King} {
		if from, ok := findAttackerOfType(board, sq, byColor, pt); ok {
			return pt, from
		}
	}
	return chess.NoPieceType, chess.NoSquare
}

func findAttackerOfType(board *[64]chess.Piece, sq chess.Square, byColor chess.Color, pt chess.PieceType) (chess.Square, bool) {
	var tf, tr = sq.File(), sq.Rank()
	switch pt {
	case chess.Pawn:
		var pawnForward = -1
		if byColor == chess.White {
			pawnForward = 1
		}
		for _, df := range [2]int{-1, 1} {
			var f, r = tf+df, tr-pawnForward
			if seeOnBoard(f, r) {
				var from = chess.MakeSquare(f, r)
				var p = board[from]
				if p.Color() == byColor && p.Type() == chess.Pawn {
					return from, true
				}
			}
		}
	case chess.Knight:
		for _, o := range seeKnightOffsets {
			var f, r = tf+o[0], tr+o[1]
			if seeOnBoard(f, r) {
				var from = chess.MakeSquare(f, r)
				var p = board[from]
				if p.Color() == byColor && p.Type() == chess.Knight {
					return from, true
				}
			}
		}
	case chess.King:
		for _, o := range seeKingOffsets {
			var f, r = tf+o[0], tr+o[1]
			if seeOnBoard(f, r) {
				var from = chess.MakeSquare(f, r)
				var p = board[from]
				if p.Color() == byColor && p.Type() == chess.King {
					return from, true
				}
			}
		}
	case chess.Bishop, chess.Rook, chess.Queen:
		var dirs [][2]int
		switch pt {
		case chess.Bishop:
			dirs = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
		case chess.Rook:
			dirs = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
		default:
			dirs = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}, {1, 0}, {-1, 0}, {0, 1}, {0, -1}}
		}
		for _, d := range dirs {
			var f, r = tf+d[0], tr+d[1]
			for seeOnBoard(f, r) {
				var from = chess.MakeSquare(f, r)
				var p = board[from]
				if p != chess.NoPiece {
					if p.Color() == byColor && p.Type() == pt {
						return from, true
					}
					break
				}
				f += d[0]
				r += d[1]
			}
		}
	}
	return chess.NoSquare, false
}
