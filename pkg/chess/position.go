package chess

import (
	"strconv"
	"strings"
)

const InitialPositionFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position is the single authoritative game state: a board[64] plus
// side to move, castling rights, en-passant square, move clocks and an
// incrementally maintained Zobrist key. A plain array board rather
// than bitboards keeps move generation and attack queries simple at
// the cost of some raw speed.
type Position struct {
	board          [64]Piece
	side           Color
	castlingRights uint8
	epSquare       Square
	halfmoveClock  int
	fullmoveNumber int
	key            uint64
	lastMove       Move
}

// Undo is a snapshot of everything DoMove needs to reverse a move.
type Undo struct {
	movedPiece     Piece
	capturedPiece  Piece
	prevSide       Color
	prevCastling   uint8
	prevEpSquare   Square
	prevHalfmove   int
	prevFullmove   int
	prevKey        uint64
	prevLastMove   Move
	epCapturedSq   Square
	rookFrom       Square
	rookTo         Square
}

func NewStartPosition() Position {
	var p Position
	p.SetStartpos()
	return p
}

func (p *Position) SetStartpos() {
	p.SetFEN(InitialPositionFEN)
}

func (p *Position) Side() Color             { return p.side }
func (p *Position) CastlingRights() uint8   { return p.castlingRights }
func (p *Position) EpSquare() Square        { return p.epSquare }
func (p *Position) HalfmoveClock() int      { return p.halfmoveClock }
func (p *Position) FullmoveNumber() int     { return p.fullmoveNumber }
func (p *Position) Key() uint64             { return p.key }
func (p *Position) LastMove() Move          { return p.lastMove }
func (p *Position) PieceAt(sq Square) Piece { return p.board[sq] }

// SetFEN parses board, side, castling, ep, halfmove and fullmove fields.
// Missing halfmove/fullmove default to 0/1. Invalid characters are
// ignored; invalid fields fall back to defaults — SetFEN always leaves
// the position valid rather than half-initialized. It reports an error
// (while still leaving a usable position, the startpos) when fewer than
// the mandatory four fields are present, or when the board field does
// not hold exactly one king of the side to move.
func (p *Position) SetFEN(fen string) error {
	var fields = strings.Fields(fen)
	if len(fields) < 4 {
		p.setFromBoard([64]Piece{}, White, 0, NoSquare, 0, 1)
		p.board = startBoard()
		p.recomputeKey()
		if len(fields) == 0 {
			return nil
		}
		return errInvalidFEN
	}

	var board [64]Piece
	var rank, file = 7, 0
	for _, ch := range fields[0] {
		switch {
		case ch == '/':
			rank--
			file = 0
		case ch >= '1' && ch <= '8':
			file += int(ch - '0')
		default:
			var piece = PieceFromFENChar(byte(ch))
			if piece != NoPiece && file < 8 && rank >= 0 {
				board[MakeSquare(file, rank)] = piece
			}
			file++
		}
	}

	var side = White
	if fields[1] == "b" {
		side = Black
	}

	var kings = 0
	for _, piece := range board {
		if piece == MakePiece(side, King) {
			kings++
		}
	}
	if kings != 1 {
		p.setFromBoard(startBoard(), White, 0, NoSquare, 0, 1)
		return errInvalidFEN
	}

	var castling uint8
	if strings.Contains(fields[2], "K") {
		castling |= WhiteKingSide
	}
	if strings.Contains(fields[2], "Q") {
		castling |= WhiteQueenSide
	}
	if strings.Contains(fields[2], "k") {
		castling |= BlackKingSide
	}
	if strings.Contains(fields[2], "q") {
		castling |= BlackQueenSide
	}

	var ep = ParseSquare(fields[3])

	var halfmove, fullmove = 0, 1
	if len(fields) > 4 {
		if v, err := strconv.Atoi(fields[4]); err == nil && v >= 0 {
			halfmove = v
		}
	}
	if len(fields) > 5 {
		if v, err := strconv.Atoi(fields[5]); err == nil && v >= 1 {
			fullmove = v
		}
	}

	p.setFromBoard(board, side, castling, ep, halfmove, fullmove)
	return nil
}

var errInvalidFEN = &fenError{"invalid FEN"}

type fenError struct{ msg string }

func (e *fenError) Error() string { return e.msg }

func startBoard() [64]Piece {
	var b [64]Piece
	var back = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for f := 0; f < 8; f++ {
		b[MakeSquare(f, Rank1)] = MakePiece(White, back[f])
		b[MakeSquare(f, Rank2)] = MakePiece(White, Pawn)
		b[MakeSquare(f, Rank7)] = MakePiece(Black, Pawn)
		b[MakeSquare(f, Rank8)] = MakePiece(Black, back[f])
	}
	return b
}

func (p *Position) setFromBoard(board [64]Piece, side Color, castling uint8, ep Square, halfmove, fullmove int) {
	p.board = board
	p.side = side
	p.castlingRights = castling
	p.epSquare = ep
	p.halfmoveClock = halfmove
	p.fullmoveNumber = fullmove
	p.lastMove = MoveNone
	p.recomputeKey()
}

// recomputeKey is the full, non-incremental Zobrist recomputation used
// at load time; DoMove/UndoMove maintain the key incrementally and
// must always agree with what this would produce from scratch.
func (p *Position) recomputeKey() {
	var k uint64
	for sq := Square(0); sq < 64; sq++ {
		if piece := p.board[sq]; piece != NoPiece {
			k ^= zobristPiece(piece, sq)
		}
	}
	if p.side == Black {
		k ^= zobristSide
	}
	k ^= zobristCastle[p.castlingRights&15]
	if p.epSquare != NoSquare {
		k ^= zobristEpFile[p.epSquare.File()]
	}
	p.key = k
}

func (p *Position) KingSquare(c Color) Square {
	var king = MakePiece(c, King)
	for sq := Square(0); sq < 64; sq++ {
		if p.board[sq] == king {
			return sq
		}
	}
	return NoSquare
}

func (p *Position) IsEmpty(sq Square) bool {
	return p.board[sq] == NoPiece
}

var castleRookSquares = map[Square]struct{ from, to Square }{
	G1: {H1, F1},
	C1: {A1, D1},
	G8: {H8, F8},
	C8: {A8, D8},
}

// DoMove applies a pseudo-legal move and returns an Undo record. It
// never fails: callers must route moves through the generator rather
// than constructing a Move by hand and applying it directly.
func (p *Position) DoMove(m Move) Undo {
	var from, to = m.From(), m.To()
	var moved = p.board[from]
	var captured = p.board[to]

	var u = Undo{
		movedPiece:    moved,
		capturedPiece: captured,
		prevSide:      p.side,
		prevCastling:  p.castlingRights,
		prevEpSquare:  p.epSquare,
		prevHalfmove:  p.halfmoveClock,
		prevFullmove:  p.fullmoveNumber,
		prevKey:       p.key,
		prevLastMove:  p.lastMove,
		epCapturedSq:  NoSquare,
		rookFrom:      NoSquare,
		rookTo:        NoSquare,
	}

	var k = p.key

	// Remove castling/ep components now, add the new ones back at the end.
	k ^= zobristCastle[p.castlingRights&15]
	if p.epSquare != NoSquare {
		k ^= zobristEpFile[p.epSquare.File()]
	}

	k ^= zobristPiece(moved, from)
	p.board[from] = NoPiece

	if m.IsEP() {
		var capSq Square
		if p.side == White {
			capSq = to - 8
		} else {
			capSq = to + 8
		}
		u.epCapturedSq = capSq
		u.capturedPiece = p.board[capSq]
		k ^= zobristPiece(u.capturedPiece, capSq)
		p.board[capSq] = NoPiece
	} else if captured != NoPiece {
		k ^= zobristPiece(captured, to)
	}

	var placed = moved
	if m.IsPromotion() {
		placed = MakePiece(p.side, m.Promotion())
	}
	p.board[to] = placed
	k ^= zobristPiece(placed, to)

	if m.IsCastle() {
		var rooks = castleRookSquares[to]
		u.rookFrom, u.rookTo = rooks.from, rooks.to
		var rook = p.board[rooks.from]
		k ^= zobristPiece(rook, rooks.from)
		p.board[rooks.from] = NoPiece
		p.board[rooks.to] = rook
		k ^= zobristPiece(rook, rooks.to)
	}

	// Castling-rights updates.
	updateCastlingRightsOnMove(&p.castlingRights, moved, from)
	if captured != NoPiece && !m.IsEP() {
		updateCastlingRightsOnCapture(&p.castlingRights, to)
	}

	// Halfmove clock.
	if moved.Type() == Pawn || captured != NoPiece {
		p.halfmoveClock = 0
	} else {
		p.halfmoveClock++
	}

	// En-passant square.
	p.epSquare = NoSquare
	if moved.Type() == Pawn && Abs(int(to)-int(from)) == 16 {
		p.epSquare = (from + to) / 2
	}

	if p.side == Black {
		p.fullmoveNumber++
	}
	p.lastMove = m
	p.side = p.side.Opposite()

	k ^= zobristCastle[p.castlingRights&15]
	if p.epSquare != NoSquare {
		k ^= zobristEpFile[p.epSquare.File()]
	}
	k ^= zobristSide

	p.key = k
	return u
}

// UndoMove restores exactly the state DoMove snapshotted.
func (p *Position) UndoMove(m Move, u Undo) {
	var from, to = m.From(), m.To()

	if m.IsCastle() {
		p.board[u.rookTo] = NoPiece
		p.board[u.rookFrom] = MakePiece(u.prevSide, Rook)
	}

	p.board[to] = NoPiece
	p.board[from] = u.movedPiece

	if m.IsEP() {
		p.board[u.epCapturedSq] = u.capturedPiece
	} else if u.capturedPiece != NoPiece {
		p.board[to] = u.capturedPiece
	}

	p.side = u.prevSide
	p.castlingRights = u.prevCastling
	p.epSquare = u.prevEpSquare
	p.halfmoveClock = u.prevHalfmove
	p.fullmoveNumber = u.prevFullmove
	p.key = u.prevKey
	p.lastMove = u.prevLastMove
}

func updateCastlingRightsOnMove(rights *uint8, moved Piece, from Square) {
	switch {
	case moved == MakePiece(White, King):
		*rights &^= WhiteKingSide | WhiteQueenSide
	case moved == MakePiece(Black, King):
		*rights &^= BlackKingSide | BlackQueenSide
	case moved == MakePiece(White, Rook) && from == H1:
		*rights &^= WhiteKingSide
	case moved == MakePiece(White, Rook) && from == A1:
		*rights &^= WhiteQueenSide
	case moved == MakePiece(Black, Rook) && from == H8:
		*rights &^= BlackKingSide
	case moved == MakePiece(Black, Rook) && from == A8:
		*rights &^= BlackQueenSide
	}
}

func updateCastlingRightsOnCapture(rights *uint8, sq Square) {
	switch sq {
	case H1:
		*rights &^= WhiteKingSide
	case A1:
		*rights &^= WhiteQueenSide
	case H8:
		*rights &^= BlackKingSide
	case A8:
		*rights &^= BlackQueenSide
	}
}

// MakeMoveLegal applies m and reports whether it was legal (did not
// leave the mover's own king in check), leaving the position mutated
// only when legal: on a false result the move has already been undone
// here, so the caller only has a legal move to UndoMove.
func (p *Position) MakeMoveLegal(m Move) (Undo, bool) {
	var mover = p.side
	var u = p.DoMove(m)
	if IsSquareAttacked(p, p.KingSquare(mover), mover.Opposite()) {
		p.UndoMove(m, u)
		return u, false
	}
	return u, true
}

// DoNullMove passes the turn without moving a piece: used by null-move
// pruning. It clears the en-passant square (a null move forfeits any
// pending capture) and flips the side to move, maintaining the Zobrist
// key incrementally like DoMove.
func (p *Position) DoNullMove() Undo {
	var u = Undo{
		prevSide:     p.side,
		prevCastling: p.castlingRights,
		prevEpSquare: p.epSquare,
		prevHalfmove: p.halfmoveClock,
		prevFullmove: p.fullmoveNumber,
		prevKey:      p.key,
		prevLastMove: p.lastMove,
		epCapturedSq: NoSquare,
		rookFrom:     NoSquare,
		rookTo:       NoSquare,
	}
	var k = p.key
	if p.epSquare != NoSquare {
		k ^= zobristEpFile[p.epSquare.File()]
		p.epSquare = NoSquare
	}
	if p.side == Black {
		p.fullmoveNumber++
	}
	p.halfmoveClock++
	p.lastMove = MoveNone
	p.side = p.side.Opposite()
	k ^= zobristSide
	p.key = k
	return u
}

// UndoNullMove reverses DoNullMove.
func (p *Position) UndoNullMove(u Undo) {
	p.side = u.prevSide
	p.castlingRights = u.prevCastling
	p.epSquare = u.prevEpSquare
	p.halfmoveClock = u.prevHalfmove
	p.fullmoveNumber = u.prevFullmove
	p.key = u.prevKey
	p.lastMove = u.prevLastMove
}

// FEN renders the position back to Forsyth-Edwards notation.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		var empty = 0
		for file := 0; file < 8; file++ {
			var piece = p.board[MakeSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(piece.FENChar())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(p.side.String())
	sb.WriteByte(' ')
	var cr = ""
	if p.castlingRights&WhiteKingSide != 0 {
		cr += "K"
	}
	if p.castlingRights&WhiteQueenSide != 0 {
		cr += "Q"
	}
	if p.castlingRights&BlackKingSide != 0 {
		cr += "k"
	}
	if p.castlingRights&BlackQueenSide != 0 {
		cr += "q"
	}
	if cr == "" {
		cr = "-"
	}
	sb.WriteString(cr)
	sb.WriteByte(' ')
	sb.WriteString(p.epSquare.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.halfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullmoveNumber))
	return sb.String()
}
