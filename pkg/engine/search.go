package engine

import "raptorfish/pkg/chess"

const pawnValue = 100

// aspirationWindow narrows the root search window around the previous
// iteration's score once the search is deep enough to trust it,
// sizing the window from how much the score moved since this thread's
// own last iteration, and re-searching with a progressively wider
// window on failure. Helper threads add a fixed per-thread jitter on
// top of that, so their window differs from the main thread's even at
// the same depth and score, diversifying what they find.
func aspirationWindow(t *thread, ml []chess.Move, depth, prevScore int) int {
	t.rootDepth = depth
	var score int
	if t.engine.Params.AspirationWindows &&
		depth > 5 && !(prevScore <= valueLoss || prevScore >= valueWin) {
		var delta = chess.Abs(prevScore - t.lastScore)
		var window = 35 + min(64, delta/4) + t.jitter
		var alpha = max(-valueInfinity, prevScore-window)
		var beta = min(valueInfinity, prevScore+window)
		score = searchRoot(t, ml, alpha, beta, depth)
		if score <= alpha || score >= beta {
			if score >= beta {
				beta = valueInfinity
			}
			if score <= alpha {
				alpha = -valueInfinity
			}
			score = searchRoot(t, ml, alpha, beta, depth)
			if score <= alpha || score >= beta {
				score = searchRoot(t, ml, -valueInfinity, valueInfinity, depth)
			}
		}
	} else {
		score = searchRoot(t, ml, -valueInfinity, valueInfinity, depth)
	}
	t.lastScore = score
	return score
}

func searchRoot(t *thread, ml []chess.Move, alpha, beta, depth int) int {
	const height = 0
	var p = &t.stack[height].position
	t.evaluator.Init(p)
	return t.alphaBeta(alpha, beta, depth, height, chess.MoveNone)
}

// alphaBeta is the PVS negamax core: check extension and transposition
// table probing at node entry, razoring / reverse futility / null-move
// pruning before the move loop, then late-move pruning, futility and
// SEE pruning inside it, LMR and PVS re-search around each recursive
// call. The position per ply is an independent copy (thread.MakeMove
// clones into stack[height+1]), so there is no explicit unmake of
// board state, only of the evaluator's incremental stack.
func (t *thread) alphaBeta(alpha, beta, depth, height int, skipMove chess.Move) int {
	t.clearPV(height)

	var rootNode = height == 0
	var pvNode = beta != alpha+1
	var position = &t.stack[height].position
	var isCheck = chess.InCheck(position, position.Side())

	if !rootNode {
		if height >= maxHeight {
			return t.evaluator.EvaluateQuick(position)
		}
		if t.isRepeat(height) {
			return valueDraw
		}
		if isDraw(position) {
			return valueDraw
		}
		// mate distance pruning
		if winIn(height+1) <= alpha {
			return alpha
		}
		if lossIn(height+2) >= beta && !isCheck {
			return beta
		}
	}

	// transposition table
	var (
		ttDepth, ttValue, ttBound int
		ttMove                    chess.Move
		ttHit                     bool
	)
	if skipMove == chess.MoveNone {
		ttDepth, ttValue, ttBound, ttMove, ttHit = t.engine.transTable.Read(position.Key())
	}
	if ttHit {
		ttValue = valueFromTT(ttValue, height)
		if ttDepth >= depth && !pvNode && position.LastMove() != chess.MoveNone {
			if ttValue >= beta && (ttBound&boundLower) != 0 {
				if ttMove != chess.MoveNone && !ttMove.IsCaptureOrPromotion() {
					t.updateKiller(ttMove, height)
				}
				return ttValue
			}
			if ttValue <= alpha && (ttBound&boundUpper) != 0 {
				return ttValue
			}
		}
	}

	// check extension: a side to move in check searches one ply
	// deeper, unconditionally, before the horizon check below.
	if isCheck {
		depth++
	}
	if depth <= 0 {
		return t.quiescence(alpha, beta, height)
	}

	var staticEval = t.evaluator.EvaluateQuick(position)
	t.stack[height].staticEval = staticEval
	var improving = height < 2 || staticEval > t.stack[height-2].staticEval

	var params = &t.engine.Params
	if height+2 <= maxHeight {
		t.stack[height+2].killer1 = chess.MoveNone
		t.stack[height+2].killer2 = chess.MoveNone
	}

	// internal iterative reduction: no TT move to trust at a decent
	// depth means the position was never indexed by a shallower probe.
	if params.Iir && !ttHit && depth >= 6 && !rootNode {
		depth--
	}

	if !rootNode && skipMove == chess.MoveNone {

		// razoring
		if params.Razoring && !pvNode && depth <= 2 && !isCheck &&
			staticEval+razorMargin*depth <= alpha {
			var score = t.quiescence(alpha, beta, height)
			if score <= alpha {
				return score
			}
		}

		// reverse futility pruning
		if params.ReverseFutility && !pvNode && depth <= 3 && !isCheck {
			var score = staticEval - (reverseFutilityBase + reverseFutilityMargin*depth)
			if score >= beta {
				return staticEval
			}
		}

		// null-move pruning
		if params.NullMovePruning && !pvNode && depth >= 3 && !isCheck &&
			position.LastMove() != chess.MoveNone &&
			(height <= 1 || t.stack[height-1].position.LastMove() != chess.MoveNone) &&
			beta < valueWin &&
			!(ttHit && ttValue < beta && (ttBound&boundUpper) != 0) &&
			!isLateEndgame(position, position.Side()) &&
			staticEval >= beta {
			var reduction = min(depth-1, nullMoveBaseReduction+depth/6)
			t.MakeNullMove(height)
			var score = -t.alphaBeta(-beta, -(beta - 1), depth-reduction, height+1, chess.MoveNone)
			t.UnmakeMove()
			if score >= beta {
				if score >= valueWin {
					score = beta
				}
				return score
			}
		}
	}

	var historyContext = t.getHistoryContext(height)

	var mi = t.initMoveIterator(height, ttMove)
	var killer1 = t.stack[height].killer1
	var killer2 = t.stack[height].killer2

	var movesSearched = 0
	var hasLegalMove = false
	var quietsSeen = 0

	var quietsSearched = t.stack[height].quietsSearched[:0]
	var bestMove chess.Move

	var lmp = 5 + (depth-1)*depth
	if !improving {
		lmp /= 2
	}

	var best = -valueInfinity
	var oldAlpha = alpha
	var rootMoveIndex = 0

	for mi.Reset(); ; {
		var move = mi.Next()
		if move == chess.MoveNone {
			break
		}
		if move == skipMove {
			continue
		}
		if rootNode && t.splitStride > 1 && move != ttMove {
			var index = rootMoveIndex
			rootMoveIndex++
			if index%t.splitStride != t.splitOffset {
				continue
			}
		} else if rootNode {
			rootMoveIndex++
		}
		var isNoisy = move.IsCaptureOrPromotion()
		if !isNoisy {
			quietsSeen++
		}

		if depth <= 8 && best > valueLoss && hasLegalMove && !isCheck && !rootNode {
			// late-move pruning
			if params.Lmp && !(isNoisy ||
				move == killer1 ||
				move == killer2) &&
				quietsSeen > lmp {
				continue
			}

			// futility pruning
			if params.Futility && !(isNoisy ||
				move == killer1 ||
				move == killer2) &&
				staticEval+futilityMargin+futilityPerDepth*depth <= alpha {
				continue
			}

			// SEE pruning
			if params.See {
				var seeMargin int
				if isNoisy {
					seeMargin = max(depth, (staticEval+pawnValue-alpha)/pawnValue)
				} else {
					seeMargin = depth / 2
				}
				if !SeeGE(position, move, -seeMargin) {
					continue
				}
			}
		}

		if !t.MakeMove(move, height) {
			continue
		}
		hasLegalMove = true
		var child = &t.stack[height+1].position

		movesSearched++

		var reduction int

		if depth >= 3 && movesSearched > 1 && !isNoisy {
			reduction = params.LmrReduction(depth, movesSearched)
			if move == killer1 || move == killer2 {
				reduction--
			}
			if !isCheck {
				var history = historyContext.ReadTotal(move)
				reduction -= max(-2, min(2, history/5000))

				if !improving {
					reduction++
				}
			}
			if pvNode {
				reduction -= 2
			}
			if isCheck || chess.InCheck(child, child.Side()) {
				reduction--
			}
			reduction = max(reduction, 0)
			reduction = max(0, min(depth-2, reduction))
		}

		if !isNoisy {
			quietsSearched = append(quietsSearched, move)
		}

		var newDepth = depth - 1

		var score = alpha + 1
		// LMR
		if reduction > 0 {
			score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth-reduction, height+1, chess.MoveNone)
		}
		// PVS
		if score > alpha && beta != alpha+1 && movesSearched > 1 && newDepth > 0 {
			score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth, height+1, chess.MoveNone)
		}
		// full search
		if score > alpha {
			score = -t.alphaBeta(-beta, -alpha, newDepth, height+1, chess.MoveNone)
		}

		t.UnmakeMove()

		if score > best {
			best = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			t.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}

	if !hasLegalMove {
		if !isCheck && skipMove == chess.MoveNone {
			return valueDraw
		}
		return lossIn(height)
	}

	if alpha > oldAlpha && bestMove != chess.MoveNone && !bestMove.IsCaptureOrPromotion() {
		historyContext.Update(quietsSearched, bestMove, depth)
		t.updateKiller(bestMove, height)
	}

	if skipMove == chess.MoveNone {
		ttBound = 0
		if best > oldAlpha {
			ttBound |= boundLower
		}
		if best < beta {
			ttBound |= boundUpper
		}
		if !(rootNode && ttBound == boundUpper) {
			t.engine.transTable.Update(position.Key(), depth, valueToTT(best, height), ttBound, bestMove)
		}
	}

	return best
}

// quiescence resolves tactical sequences after the main search bottoms
// out: captures and promotions (all moves while in check), plus a few quiet
// checking moves near the horizon, SEE-gated, until the position is
// quiet.
func (t *thread) quiescence(alpha, beta, height int) int {
	t.clearPV(height)
	var position = &t.stack[height].position
	if isDraw(position) {
		return valueDraw
	}
	if height >= maxHeight {
		return t.evaluator.EvaluateQuick(position)
	}
	if t.isRepeat(height) {
		return valueDraw
	}

	var _, ttValue, ttBound, _, ttHit = t.engine.transTable.Read(position.Key())
	if ttHit {
		ttValue = valueFromTT(ttValue, height)
		if ttBound == boundExact ||
			ttBound == boundLower && ttValue >= beta ||
			ttBound == boundUpper && ttValue <= alpha {
			return ttValue
		}
	}

	var isCheck = chess.InCheck(position, position.Side())
	var best = -valueInfinity
	var stand = -valueInfinity
	if !isCheck {
		stand = t.evaluator.EvaluateQuick(position)
		best = max(best, stand)
		if stand > alpha {
			alpha = stand
			if alpha >= beta {
				return alpha
			}
		}
	}
	var mi = moveIteratorQS{
		position:    position,
		buffer:      t.stack[height].moveList[:],
		quietChecks: height < 2 && !isCheck,
	}
	mi.Init()
	var hasLegalMove = false
	for mi.Reset(); ; {
		var move = mi.Next()
		if move == chess.MoveNone {
			break
		}
		if !isCheck && move.IsCaptureOrPromotion() {
			// delta pruning: even winning the captured piece outright
			// can't raise the score within reach of alpha.
			if !move.IsPromotion() {
				var gain int
				if move.IsEP() {
					gain = deltaPieceValue[chess.Pawn]
				} else {
					gain = deltaPieceValue[position.PieceAt(move.To()).Type()]
				}
				if stand+gain+deltaMargin <= alpha {
					continue
				}
			}
			if !seeGEZero(position, move) {
				continue
			}
		}
		if !t.MakeMove(move, height) {
			continue
		}
		hasLegalMove = true
		var score = -t.quiescence(-beta, -alpha, height+1)
		t.UnmakeMove()
		best = max(best, score)
		if score > alpha {
			alpha = score
			t.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}
	if isCheck && !hasLegalMove {
		return lossIn(height)
	}
	return best
}

func (t *thread) incNodes() {
	t.nodes++
	if t.nodes&255 == 0 {
		// fixed-node limits only apply cleanly in single-threaded mode
		if t.engine.Options.Threads == 1 {
			t.engine.timeManager.OnNodesChanged(t.engine.mainLine.nodes + t.nodes)
		}
		if t.engine.timeManager.IsDone() {
			panic(errSearchTimeout)
		}
	}
}

func isDraw(p *chess.Position) bool {
	if p.HalfmoveClock() > 100 {
		return true
	}
	var heavyCount, minorCount int
	for sq := chess.Square(0); sq < 64; sq++ {
		switch p.PieceAt(sq).Type() {
		case chess.Pawn, chess.Rook, chess.Queen:
			heavyCount++
		case chess.Knight, chess.Bishop:
			minorCount++
		}
	}
	return heavyCount == 0 && minorCount <= 1
}

func (t *thread) isRepeat(height int) bool {
	var p = &t.stack[height].position

	if p.HalfmoveClock() == 0 || p.LastMove() == chess.MoveNone {
		return false
	}
	for i := height - 1; i >= 0; i-- {
		var temp = &t.stack[i].position
		if temp.Key() == p.Key() {
			return true
		}
		if temp.HalfmoveClock() == 0 || temp.LastMove() == chess.MoveNone {
			return false
		}
	}

	return t.engine.historyKeys[p.Key()] >= 2
}

func findMoveIndex(ml []chess.Move, move chess.Move) int {
	for i := range ml {
		if ml[i] == move {
			return i
		}
	}
	return -1
}

func moveToBegin(ml []chess.Move, index int) {
	if index == 0 {
		return
	}
	var item = ml[index]
	for i := index; i > 0; i-- {
		ml[i] = ml[i-1]
	}
	ml[0] = item
}

func cloneMoves(ml []chess.Move) []chess.Move {
	var result = make([]chess.Move, len(ml))
	copy(result, ml)
	return result
}

// genRootMoves generates the legal root moves, trying the stored
// transposition-table move first for better move-ordering stability
// between searches.
func (e *Engine) genRootMoves() []chess.Move {
	var t = &e.threads[0]
	const height = 0
	var p = &t.stack[height].position
	_, _, _, transMove, _ := e.transTable.Read(p.Key())

	var mi = t.initMoveIterator(height, transMove)

	var result []chess.Move
	var scratch = *p
	for mi.Reset(); ; {
		var move = mi.Next()
		if move == chess.MoveNone {
			break
		}
		var probe = scratch
		if _, legal := probe.MakeMoveLegal(move); legal {
			result = append(result, move)
		}
	}
	return result
}

func (t *thread) initMoveIterator(height int, transMove chess.Move) moveIterator {
	var mi = moveIterator{
		position:  &t.stack[height].position,
		buffer:    t.stack[height].moveList[:],
		history:   t.getHistoryContext(height),
		transMove: transMove,
		killer1:   t.stack[height].killer1,
		killer2:   t.stack[height].killer2,
	}
	mi.Init()
	return mi
}

func (t *thread) updateKiller(move chess.Move, height int) {
	if t.stack[height].killer1 != move {
		t.stack[height].killer2 = t.stack[height].killer1
		t.stack[height].killer1 = move
	}
}

// MakeMove plays move from the position at height into the
// independent copy at height+1, reporting whether it was legal. There
// is no position-level unmake: the next ply simply has its own copy,
// a property the array-board representation's full value-copyability
// makes cheap enough to rely on.
func (t *thread) MakeMove(move chess.Move, height int) bool {
	var pos = &t.stack[height].position
	var child = &t.stack[height+1].position
	*child = *pos
	if _, legal := child.MakeMoveLegal(move); !legal {
		return false
	}
	t.evaluator.MakeMove(pos, move)
	t.incNodes()
	return true
}

func (t *thread) MakeNullMove(height int) {
	var pos = &t.stack[height].position
	var child = &t.stack[height+1].position
	*child = *pos
	child.DoNullMove()
	t.evaluator.MakeMove(pos, chess.MoveNone)
	t.incNodes()
}

func (t *thread) UnmakeMove() {
	t.evaluator.UnmakeMove()
}

func (t *thread) clearPV(height int) {
	t.stack[height].pv.clear()
}

func (t *thread) assignPV(height int, move chess.Move) {
	t.stack[height].pv.assign(move, &t.stack[height+1].pv)
}
