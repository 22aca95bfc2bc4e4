package engine

import "raptorfish/pkg/chess"

const sortTableKeyImportant = 100000

// moveIteratorQS drives quiescence search: all moves when in check,
// otherwise captures and promotions plus (when quietChecks is set) a handful of
// quiet checking moves, scored by MVV-LVA.
type moveIteratorQS struct {
	position    *chess.Position
	buffer      []chess.OrderedMove
	quietChecks bool
	count       int
	index       int
}

func (mi *moveIteratorQS) Init() {
	var moves [chess.MaxMoves]chess.Move
	var generated []chess.Move
	if chess.InCheck(mi.position, mi.position.Side()) {
		generated = chess.GeneratePseudoLegal(mi.position, moves[:0])
	} else {
		generated = chess.GenerateCaptures(mi.position, moves[:0])
		if mi.quietChecks {
			generated = appendQuietChecks(mi.position, generated)
		}
	}
	mi.count = len(generated)
	for i, m := range generated {
		var score int
		if m.IsCaptureOrPromotion() {
			score = 29000 + mvvlva(mi.position, m)
		}
		mi.buffer[i] = chess.OrderedMove{Move: m, Key: int32(score)}
	}
	sortMoves(mi.buffer[:mi.count])
}

// appendQuietChecks adds non-capturing moves that give check to dst,
// used only near the top of quiescence so a side cannot escape a
// mating net by sitting quiet just outside capture range.
func appendQuietChecks(p *chess.Position, dst []chess.Move) []chess.Move {
	var buf [chess.MaxMoves]chess.Move
	for _, m := range chess.GeneratePseudoLegal(p, buf[:0]) {
		if m.IsCaptureOrPromotion() {
			continue
		}
		var scratch = *p
		if _, legal := scratch.MakeMoveLegal(m); !legal {
			continue
		}
		if chess.InCheck(&scratch, scratch.Side()) {
			dst = append(dst, m)
		}
	}
	return dst
}

func (mi *moveIteratorQS) Reset() {
	mi.index = 0
}

func (mi *moveIteratorQS) Next() chess.Move {
	if mi.index >= mi.count {
		return chess.MoveNone
	}
	var m = mi.buffer[mi.index].Move
	mi.index++
	return m
}

// moveIterator drives the main search: TT move first, then captures
// and promotions that pass SEE, then killers, then everything else by
// key: quiets by history score and SEE-losing captures by their bare
// MVV-LVA value, so those captures sort among the quiets rather than
// strictly after them.
type moveIterator struct {
	position  *chess.Position
	buffer    []chess.OrderedMove
	history   historyContext
	transMove chess.Move
	killer1   chess.Move
	killer2   chess.Move
	count     int
	index     int
}

func (mi *moveIterator) Init() {
	var moves [chess.MaxMoves]chess.Move
	var generated = chess.GeneratePseudoLegal(mi.position, moves[:0])
	mi.count = len(generated)

	for i, m := range generated {
		var score int
		if m == mi.transMove {
			score = sortTableKeyImportant + 2000
		} else if m.IsCaptureOrPromotion() {
			if seeGEZero(mi.position, m) {
				score = sortTableKeyImportant + 1000 + mvvlva(mi.position, m)
			} else {
				score = mvvlva(mi.position, m)
			}
		} else if m == mi.killer1 {
			score = sortTableKeyImportant + 1
		} else if m == mi.killer2 {
			score = sortTableKeyImportant
		} else {
			score = mi.history.ReadTotal(m)
		}
		mi.buffer[i] = chess.OrderedMove{Move: m, Key: int32(score)}
	}
}

func (mi *moveIterator) Reset() {
	mi.index = 0
}

func (mi *moveIterator) Next() chess.Move {
	if mi.index >= mi.count {
		return chess.MoveNone
	}
	const sortMovesIndex = 1
	if mi.index <= sortMovesIndex {
		if mi.index == sortMovesIndex {
			sortMoves(mi.buffer[mi.index:mi.count])
		} else {
			moveToTop(mi.buffer[mi.index:mi.count])
		}
	}
	var m = mi.buffer[mi.index].Move
	mi.index++
	return m
}

var sortPieceValues = [7]int{chess.NoPieceType: 0, chess.Pawn: 1, chess.Knight: 2, chess.Bishop: 3, chess.Rook: 4, chess.Queen: 5, chess.King: 6}

// mvvlva scores a capture/promotion by victim and promotion value
// minus attacker value, most valuable victim / least valuable
// attacker first.
func mvvlva(pos *chess.Position, m chess.Move) int {
	var captured = pos.PieceAt(m.To()).Type()
	if m.IsEP() {
		captured = chess.Pawn
	}
	return 8*(sortPieceValues[captured]+sortPieceValues[m.Promotion()]) -
		sortPieceValues[pos.PieceAt(m.From()).Type()]
}

func sortMoves(moves []chess.OrderedMove) {
	for i := 1; i < len(moves); i++ {
		j, t := i, moves[i]
		for ; j > 0 && moves[j-1].Key < t.Key; j-- {
			moves[j] = moves[j-1]
		}
		moves[j] = t
	}
}

func moveToTop(ml []chess.OrderedMove) {
	var bestIndex = 0
	for i := 1; i < len(ml); i++ {
		if ml[i].Key > ml[bestIndex].Key {
			bestIndex = i
		}
	}
	if bestIndex != 0 {
		ml[0], ml[bestIndex] = ml[bestIndex], ml[0]
	}
}
