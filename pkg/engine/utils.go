package engine

import "raptorfish/pkg/chess"

const stackSize = MaxPly + 8

// UciScore is the cp-or-mate value printed by an "info score" line.
type UciScore struct {
	Mate       int
	Centipawns int
	IsMate     bool
}

func newUciScore(v int) UciScore {
	if v >= valueWin {
		return UciScore{IsMate: true, Mate: (valueMate - v + 1) / 2}
	} else if v <= valueLoss {
		return UciScore{IsMate: true, Mate: (-valueMate - v) / 2}
	} else {
		return UciScore{Centipawns: v}
	}
}

// isLateEndgame reports whether side has no rooks or queens and at
// most one minor piece; the search skips null-move pruning for such a
// side.
//sample: position fen 8/8/6p1/1p2pk1p/1Pp1p2P/2PbP1P1/3N1P2/4K3 w - - 12 58
func isLateEndgame(p *chess.Position, side chess.Color) bool {
	var rooks, queens, knights, bishops int
	for sq := chess.Square(0); sq < 64; sq++ {
		var piece = p.PieceAt(sq)
		if piece.Color() != side {
			continue
		}
		switch piece.Type() {
		case chess.Rook:
			rooks++
		case chess.Queen:
			queens++
		case chess.Knight:
			knights++
		case chess.Bishop:
			bishops++
		}
	}
	return rooks == 0 && queens == 0 && (knights+bishops) <= 1
}

func isPawnPush7th(pos *chess.Position, m chess.Move) bool {
	if pos.PieceAt(m.From()).Type() != chess.Pawn {
		return false
	}
	var rank = m.To().Rank()
	if pos.PieceAt(m.From()).Color() == chess.White {
		return rank == 6
	}
	return rank == 1
}

func isPawnAdvance(pos *chess.Position, m chess.Move) bool {
	if pos.PieceAt(m.From()).Type() != chess.Pawn {
		return false
	}
	var rank = m.To().Rank()
	if pos.PieceAt(m.From()).Color() == chess.White {
		return rank >= 5
	}
	return rank <= 2
}

func isRecapture(prev, m chess.Move) bool {
	return prev != chess.MoveNone && prev.IsCaptureOrPromotion() && m.To() == prev.To()
}
