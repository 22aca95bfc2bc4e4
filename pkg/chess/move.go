package chess

// Move is packed 32 bits: from(6) to(6) flags(4) promo-type(3).
// The zero value, MoveNone, denotes an absent move.
type Move uint32

const MoveNone Move = 0

const (
	moveFromShift  = 0
	moveToShift    = 6
	moveFlagsShift = 12
	movePromoShift = 16

	moveFromMask  = 0x3f
	moveToMask    = 0x3f
	moveFlagsMask = 0xf
	movePromoMask = 0x7
)

// Flag bits.
const (
	FlagCapture = 1 << iota
	FlagEP
	FlagCastle
	FlagPromo
)

func NewMove(from, to Square, flags int) Move {
	return Move(uint32(from)<<moveFromShift | uint32(to)<<moveToShift | uint32(flags)<<moveFlagsShift)
}

func NewPromotionMove(from, to Square, flags int, promo PieceType) Move {
	return NewMove(from, to, flags|FlagPromo) | Move(uint32(promo)<<movePromoShift)
}

func (m Move) From() Square {
	return Square((uint32(m) >> moveFromShift) & moveFromMask)
}

func (m Move) To() Square {
	return Square((uint32(m) >> moveToShift) & moveToMask)
}

func (m Move) Flags() int {
	return int((uint32(m) >> moveFlagsShift) & moveFlagsMask)
}

func (m Move) IsCapture() bool {
	return m.Flags()&FlagCapture != 0
}

func (m Move) IsEP() bool {
	return m.Flags()&FlagEP != 0
}

func (m Move) IsCastle() bool {
	return m.Flags()&FlagCastle != 0
}

func (m Move) IsPromotion() bool {
	return m.Flags()&FlagPromo != 0
}

func (m Move) Promotion() PieceType {
	if !m.IsPromotion() {
		return NoPieceType
	}
	return PieceType((uint32(m) >> movePromoShift) & movePromoMask)
}

func (m Move) IsCaptureOrPromotion() bool {
	return m.IsCapture() || m.IsPromotion()
}

// String renders UCI coordinate notation: <from><to>[<promo>].
func (m Move) String() string {
	if m == MoveNone {
		return "0000"
	}
	var s = m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string("\x00nbrq"[m.Promotion()-Knight+1])
	}
	return s
}

// OrderedMove pairs a move with a sort key, used by move iterators to
// avoid re-walking the generated move list while scoring.
type OrderedMove struct {
	Move Move
	Key  int32
}

// ParseMove resolves a UCI coordinate-notation string (e.g. "e2e4",
// "e7e8q") against the legal moves of p: generate them and return the
// one whose from square, to square and promotion piece match.
func ParseMove(p *Position, lan string) (Move, bool) {
	if len(lan) < 4 {
		return MoveNone, false
	}
	var from = ParseSquare(lan[0:2])
	var to = ParseSquare(lan[2:4])
	if from == NoSquare || to == NoSquare {
		return MoveNone, false
	}
	var promo PieceType
	if len(lan) >= 5 {
		switch lan[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		}
	}
	var buf [MaxMoves]Move
	for _, m := range GenerateLegal(p, buf[:0]) {
		if m.From() == from && m.To() == to && m.Promotion() == promo {
			return m, true
		}
	}
	return MoveNone, false
}
