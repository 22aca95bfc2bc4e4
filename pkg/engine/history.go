package engine

import "raptorfish/pkg/chess"

const historyMax = 1 << 14

// historyContext binds a thread's history tables to the side to move
// and the continuation-history slots for the previous one and two
// plies.
type historyContext struct {
	thread     *thread
	position   *chess.Position
	sideToMove chess.Color
	cont1      int
	cont2      int
}

func (h *historyContext) ReadTotal(m chess.Move) int {
	var score int
	score += int(h.thread.mainHistory[sideFromToIndex(h.sideToMove, m)])
	var pieceToIndex = pieceSquareIndex(h.sideToMove, h.position.PieceAt(m.From()).Type(), m.To())
	if h.cont1 != -1 {
		score += int(h.thread.continuationHistory[h.cont1][pieceToIndex])
	}
	if h.cont2 != -1 {
		score += int(h.thread.continuationHistory[h.cont2][pieceToIndex])
	}
	return score
}

func (h *historyContext) Update(quietsSearched []chess.Move, bestMove chess.Move, depth int) {
	var bonus = min(depth*depth, 400)
	var t = h.thread
	var sideToMove = h.sideToMove
	var cont1 = h.cont1
	var cont2 = h.cont2

	for _, m := range quietsSearched {
		var good = m == bestMove

		var fromToIndex = sideFromToIndex(sideToMove, m)
		updateHistory(&t.mainHistory[fromToIndex], bonus, good)
		var pieceToIndex = pieceSquareIndex(sideToMove, h.position.PieceAt(m.From()).Type(), m.To())
		if cont1 != -1 {
			updateHistory(&t.continuationHistory[cont1][pieceToIndex], bonus, good)
		}
		if cont2 != -1 {
			updateHistory(&t.continuationHistory[cont2][pieceToIndex], bonus, good)
		}

		if good {
			break
		}
	}
}

// updateHistory is an exponential moving average toward +/- historyMax.
func updateHistory(v *int16, bonus int, good bool) {
	var newVal int
	if good {
		newVal = historyMax
	} else {
		newVal = -historyMax
	}
	*v += int16((newVal - int(*v)) * bonus / 512)
}

func (t *thread) clearHistory() {
	for i := range t.mainHistory {
		t.mainHistory[i] = 0
	}
	for i := range t.continuationHistory {
		for j := range t.continuationHistory[i] {
			t.continuationHistory[i][j] = 0
		}
	}
}

func (t *thread) getHistoryContext(height int) historyContext {
	var position = &t.stack[height].position
	var sideToMove = position.Side()
	var cont1 = -1
	{
		var prev1 = position.LastMove()
		if prev1 != chess.MoveNone {
			cont1 = pieceSquareIndex(sideToMove.Opposite(), position.PieceAt(prev1.To()).Type(), prev1.To())
		}
	}
	var cont2 = -1
	if height > 0 {
		var prevPosition = &t.stack[height-1].position
		var prev2 = prevPosition.LastMove()
		if prev2 != chess.MoveNone {
			cont2 = pieceSquareIndex(sideToMove, prevPosition.PieceAt(prev2.To()).Type(), prev2.To())
		}
	}
	return historyContext{
		thread:     t,
		position:   position,
		sideToMove: sideToMove,
		cont1:      cont1,
		cont2:      cont2,
	}
}

// pieceSquareIndex and sideFromToIndex key the continuation and main
// history tables; the moving piece's type and destination square for
// the former, from/to squares for the latter, both keyed by side.
func pieceSquareIndex(side chess.Color, pieceType chess.PieceType, to chess.Square) int {
	var result = int(pieceType)<<6 | int(to)
	if side == chess.Black {
		result |= 1 << 9
	}
	return result
}

func sideFromToIndex(side chess.Color, m chess.Move) int {
	var result = int(m.From())<<6 | int(m.To())
	if side == chess.Black {
		result |= 1 << 12
	}
	return result
}
