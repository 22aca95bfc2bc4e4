// Package chess implements position representation, attack queries and
// move generation: a board[64] position with incremental Zobrist hashing
// and exact make/unmake semantics.
package chess

import "strings"

// Square is 0..63, a1=0, file = sq%8, rank = sq/8.
type Square int

const NoSquare Square = -1

const (
	FileA = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

const (
	Rank1 = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

func MakeSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

func (sq Square) File() int {
	return int(sq) % 8
}

func (sq Square) Rank() int {
	return int(sq) / 8
}

func (sq Square) String() string {
	if sq == NoSquare {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

func ParseSquare(s string) Square {
	if len(s) != 2 {
		return NoSquare
	}
	var file = int(s[0]) - 'a'
	var rank = int(s[1]) - '1'
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return MakeSquare(file, rank)
}

// Color is the side to move or the owner of a piece.
type Color int8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "w"
	}
	return "b"
}

// PieceType enumerates NONE, PAWN, KNIGHT, BISHOP, ROOK, QUEEN, KING.
type PieceType int8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (pt PieceType) String() string {
	return "?PNBRQK"[pt : pt+1]
}

// Piece is color<<3|type; NoPiece is 0.
type Piece int8

const NoPiece Piece = 0

func MakePiece(c Color, pt PieceType) Piece {
	return Piece(int8(c)<<3 | int8(pt))
}

func (p Piece) Color() Color {
	return Color((p >> 3) & 1)
}

func (p Piece) Type() PieceType {
	return PieceType(p & 7)
}

func (p Piece) IsNone() bool {
	return p == NoPiece
}

// FEN letters are case-by-color, type letters "pnbrqk".
func (p Piece) FENChar() byte {
	if p == NoPiece {
		return ' '
	}
	var c = "pnbrqk"[p.Type()-Pawn]
	if p.Color() == White {
		return byte(strings.ToUpper(string(c))[0])
	}
	return c
}

func PieceFromFENChar(ch byte) Piece {
	var color = White
	var lower = ch
	if ch >= 'a' && ch <= 'z' {
		color = Black
	} else {
		lower = ch + ('a' - 'A')
	}
	var pt PieceType
	switch lower {
	case 'p':
		pt = Pawn
	case 'n':
		pt = Knight
	case 'b':
		pt = Bishop
	case 'r':
		pt = Rook
	case 'q':
		pt = Queen
	case 'k':
		pt = King
	default:
		return NoPiece
	}
	return MakePiece(color, pt)
}

// Castling rights bitmask {WK, WQ, BK, BQ}.
const (
	WhiteKingSide = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide
	AllCastleRights = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

const (
	MaxPly   = 128
	MaxMoves = 256
)

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func Abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
