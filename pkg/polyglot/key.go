// Package polyglot computes a Polyglot-layout opening-book hash key
// for a position: a 64-bit hash, separate from the engine's own
// Zobrist key, used to look up moves in a Polyglot-format .bin book.
// The random table is generated here rather than copied from the
// canonical Polyglot constants, so keys do not match books built with
// those constants (see randomTable).
package polyglot

import "raptorfish/pkg/chess"

// randomTable is a splitmix64-seeded stand-in for the canonical
// 781-entry Polyglot random table; no canonical table ships with this
// repo, so books built against the official constants won't probe
// correctly here, only books built with this generator. Layout:
// [12 pieces][64 squares] = 768, then 4 castling, 8 en-passant files,
// 1 side-to-move = 781.
var randomTable [781]uint64

func init() {
	var x uint64 = 0x9d39247e33776d41
	for i := range randomTable {
		x += 0x9e3779b97f4a7c15
		var z = x
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		randomTable[i] = z ^ (z >> 31)
	}
}

const (
	pieceOffset    = 0
	castleOffset   = 768
	epOffset       = 772
	sideToMoveOffset = 780
)

// polyglotPieceIndex maps a chess.Piece to Polyglot's piece-kind
// ordering: bp, wp, bN, wN, bB, wB, bR, wR, bQ, wQ, bK, wK.
func polyglotPieceIndex(piece chess.Piece) int {
	var kind = 2 * (int(piece.Type()) - int(chess.Pawn)) // 0, 2, ..., 10
	if piece.Color() == chess.White {
		kind++
	}
	return kind
}

// Key computes the Polyglot hash of p, for looking up moves in a
// Polyglot-format opening book. This is independent of (and not
// interchangeable with) the engine's own incremental Zobrist key.
func Key(p *chess.Position) uint64 {
	var hash uint64

	for sq := chess.Square(0); sq < 64; sq++ {
		var piece = p.PieceAt(sq)
		if piece == chess.NoPiece {
			continue
		}
		hash ^= randomTable[pieceOffset+64*polyglotPieceIndex(piece)+int(sq)]
	}

	if p.CastlingRights()&chess.WhiteKingSide != 0 {
		hash ^= randomTable[castleOffset+0]
	}
	if p.CastlingRights()&chess.WhiteQueenSide != 0 {
		hash ^= randomTable[castleOffset+1]
	}
	if p.CastlingRights()&chess.BlackKingSide != 0 {
		hash ^= randomTable[castleOffset+2]
	}
	if p.CastlingRights()&chess.BlackQueenSide != 0 {
		hash ^= randomTable[castleOffset+3]
	}

	if ep := p.EpSquare(); ep != chess.NoSquare && epCaptureIsPossible(p, ep) {
		hash ^= randomTable[epOffset+ep.File()]
	}

	if p.Side() == chess.White {
		hash ^= randomTable[sideToMoveOffset]
	}

	return hash
}

// epCaptureIsPossible mirrors Polyglot's rule that the en-passant key
// is only mixed in when an enemy pawn actually threatens the capture,
// not merely whenever the square is recorded.
func epCaptureIsPossible(p *chess.Position, ep chess.Square) bool {
	var file = ep.File()
	var pawnRank int
	var attacker chess.Piece
	if p.Side() == chess.White {
		pawnRank = 4 // rank index of white pawns able to capture en passant (5th rank)
		attacker = chess.MakePiece(chess.White, chess.Pawn)
	} else {
		pawnRank = 3
		attacker = chess.MakePiece(chess.Black, chess.Pawn)
	}
	for _, df := range [2]int{-1, 1} {
		var f = file + df
		if f < 0 || f >= 8 {
			continue
		}
		if p.PieceAt(chess.MakeSquare(f, pawnRank)) == attacker {
			return true
		}
	}
	return false
}
