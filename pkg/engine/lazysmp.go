package engine

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"raptorfish/pkg/chess"
)

var errSearchTimeout = errors.New("search timeout")

// lazySmp starts one independent iterative-deepening goroutine per
// thread. They share nothing but the transposition table: the main
// thread (index 0) always searches the full root move list and is the
// only one allowed to update the reported best line; every other
// thread stripes the root moves by (splitOffset, splitStride) and
// widens its aspiration window with a per-thread jitter, so it spends
// its effort exploring alternatives the main thread would otherwise
// never reach at the same depth, rather than retracing the same line.
func lazySmp(ctx context.Context, e *Engine) {
	var ml = e.genRootMoves()
	if len(ml) != 0 {
		e.mainLine = mainLine{
			depth: 0,
			score: 0,
			moves: []chess.Move{ml[0]},
		}
	}
	if len(ml) <= 1 {
		return
	}

	var active = e.threads[:e.activeThreads]
	var numHelpers = len(active) - 1

	var g, _ = errgroup.WithContext(ctx)
	for i := range active {
		var t = &active[i]
		var threadMoves = cloneMoves(ml)
		if i == 0 || numHelpers <= 0 {
			t.splitOffset, t.splitStride, t.jitter = 0, 1, 0
		} else {
			t.splitOffset = (i - 1) % numHelpers
			t.splitStride = numHelpers
			t.jitter = 10 + 7*(i%5)
		}
		g.Go(func() error {
			iterativeDeepen(t, threadMoves)
			return nil
		})
	}
	g.Wait()
}

// iterativeDeepen runs depth 1..maxHeight on t's own goroutine until
// the time manager calls the search done, unwinding via
// errSearchTimeout raised from inside incNodes.
func iterativeDeepen(t *thread, ml []chess.Move) {
	defer func() {
		if r := recover(); r != nil {
			if r == errSearchTimeout {
				return
			}
			panic(r)
		}
	}()

	for h := 0; h <= 2; h++ {
		t.stack[h].killer1 = chess.MoveNone
		t.stack[h].killer2 = chess.MoveNone
	}

	for depth := 1; depth <= maxHeight; depth++ {
		if t.engine.timeManager.IsDone() {
			return
		}
		var startingMove, startingScore = t.engine.currentBestMove()
		if startingMove != chess.MoveNone {
			if index := findMoveIndex(ml, startingMove); index >= 0 {
				moveToBegin(ml, index)
			}
		}
		var score = aspirationWindow(t, ml, depth, startingScore)
		t.engine.onIterationComplete(t, depth, score)
	}
}
