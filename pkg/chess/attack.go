package chess

// Attack queries: attackers-to-square, in-check, square-attacked. Knight
// and king attacks come from precomputed offset tables; sliders are
// ray-walks that stop at the first blocker — no magic bitboards,
// matching the board-array representation this package keeps as the
// single source of truth.

var knightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
var kingOffsets = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}

var bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var rookDirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

// Attackers returns every square holding a piece of byColor that
// attacks sq.
func Attackers(p *Position, sq Square, byColor Color) []Square {
	var result []Square
	for s := Square(0); s < 64; s++ {
		var piece = p.board[s]
		if piece == NoPiece || piece.Color() != byColor {
			continue
		}
		if pieceAttacksSquare(p, s, piece, sq) {
			result = append(result, s)
		}
	}
	return result
}

func pieceAttacksSquare(p *Position, from Square, piece Piece, to Square) bool {
	switch piece.Type() {
	case Pawn:
		return pawnAttacksSquare(from, piece.Color(), to)
	case Knight:
		return offsetAttacksSquare(from, to, knightOffsets[:])
	case King:
		return offsetAttacksSquare(from, to, kingOffsets[:])
	case Bishop:
		return rayAttacksSquare(p, from, to, bishopDirs[:])
	case Rook:
		return rayAttacksSquare(p, from, to, rookDirs[:])
	case Queen:
		return rayAttacksSquare(p, from, to, bishopDirs[:]) || rayAttacksSquare(p, from, to, rookDirs[:])
	}
	return false
}

func pawnAttacksSquare(from Square, color Color, to Square) bool {
	var forward = 1
	if color == Black {
		forward = -1
	}
	var df = to.File() - from.File()
	var dr = to.Rank() - from.Rank()
	return dr == forward && (df == 1 || df == -1)
}

func offsetAttacksSquare(from, to Square, offsets []([2]int)) bool {
	var ff, fr = from.File(), from.Rank()
	var tf, tr = to.File(), to.Rank()
	for _, o := range offsets {
		if ff+o[0] == tf && fr+o[1] == tr {
			return true
		}
	}
	return false
}

func rayAttacksSquare(p *Position, from, to Square, dirs []([2]int)) bool {
	var ff, fr = from.File(), from.Rank()
	for _, d := range dirs {
		var f, r = ff+d[0], fr+d[1]
		for onBoard(f, r) {
			var s = MakeSquare(f, r)
			if s == to {
				return true
			}
			if !p.IsEmpty(s) {
				break
			}
			f += d[0]
			r += d[1]
		}
	}
	return false
}

// IsSquareAttacked reports whether sq is attacked by any piece of byColor.
func IsSquareAttacked(p *Position, sq Square, byColor Color) bool {
	if sq == NoSquare {
		return false
	}
	for s := Square(0); s < 64; s++ {
		var piece = p.board[s]
		if piece == NoPiece || piece.Color() != byColor {
			continue
		}
		if pieceAttacksSquare(p, s, piece, sq) {
			return true
		}
	}
	return false
}

// InCheck reports whether side's king is currently attacked.
func InCheck(p *Position, side Color) bool {
	return IsSquareAttacked(p, p.KingSquare(side), side.Opposite())
}

// AttacksFrom returns every square the piece standing on sq attacks
// given the current board occupancy. Used by the evaluation's mobility
// and king-safety terms.
func AttacksFrom(p *Position, sq Square) []Square {
	var piece = p.board[sq]
	if piece == NoPiece {
		return nil
	}
	switch piece.Type() {
	case Pawn:
		var result []Square
		var file, rank = sq.File(), sq.Rank()
		var forward = 1
		if piece.Color() == Black {
			forward = -1
		}
		for _, df := range [2]int{-1, 1} {
			var tf, tr = file+df, rank+forward
			if onBoard(tf, tr) {
				result = append(result, MakeSquare(tf, tr))
			}
		}
		return result
	case Knight:
		return offsetSquares(sq, knightOffsets[:])
	case King:
		return offsetSquares(sq, kingOffsets[:])
	case Bishop:
		return rayAttacksFrom(p, sq, bishopDirs[:])
	case Rook:
		return rayAttacksFrom(p, sq, rookDirs[:])
	case Queen:
		var result = rayAttacksFrom(p, sq, bishopDirs[:])
		return append(result, rayAttacksFrom(p, sq, rookDirs[:])...)
	}
	return nil
}

func offsetSquares(from Square, offsets []([2]int)) []Square {
	var result []Square
	var ff, fr = from.File(), from.Rank()
	for _, o := range offsets {
		var tf, tr = ff+o[0], fr+o[1]
		if onBoard(tf, tr) {
			result = append(result, MakeSquare(tf, tr))
		}
	}
	return result
}

// rayAttacksFrom returns every square a slider on `from` attacks given
// the current board occupancy, used by move generation and AttacksFrom.
func rayAttacksFrom(p *Position, from Square, dirs []([2]int)) []Square {
	var result []Square
	var ff, fr = from.File(), from.Rank()
	for _, d := range dirs {
		var f, r = ff+d[0], fr+d[1]
		for onBoard(f, r) {
			var s = MakeSquare(f, r)
			result = append(result, s)
			if !p.IsEmpty(s) {
				break
			}
			f += d[0]
			r += d[1]
		}
	}
	return result
}
