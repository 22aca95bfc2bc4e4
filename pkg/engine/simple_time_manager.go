package engine

import (
	"context"
	"time"

	"raptorfish/pkg/chess"
)

// simpleTimeManager derives a soft limit (may stop after the current
// iteration completes) and a hard limit (enforced via context
// deadline) from the UCI "go" clock fields.
type simpleTimeManager struct {
	ctx       context.Context
	start     time.Time
	limits    LimitsType
	side      chess.Color
	softLimit time.Duration
	hardLimit time.Duration
	cancel    context.CancelFunc
	pondering bool
}

func newSimpleTimeManager(ctx context.Context, start time.Time,
	limits LimitsType, p *chess.Position) (context.Context, *simpleTimeManager) {

	var tm = &simpleTimeManager{
		start:     start,
		limits:    limits,
		side:      p.Side(),
		pondering: limits.Ponder,
	}

	// a ponder search is an infinite search until ponderhit (or stop)
	// says otherwise: the clock fields it carries describe time left
	// as of the position it's pondering from, not a deadline for the
	// ponder itself.
	if !tm.pondering {
		tm.deriveLimits()
	}

	var cancel context.CancelFunc
	if tm.hardLimit != 0 {
		ctx, cancel = context.WithDeadline(ctx, start.Add(tm.hardLimit))
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	tm.cancel = cancel
	tm.ctx = ctx
	return ctx, tm
}

func (tm *simpleTimeManager) deriveLimits() {
	if tm.limits.MoveTime > 0 {
		tm.hardLimit = time.Duration(tm.limits.MoveTime) * time.Millisecond
		return
	}
	if tm.limits.WhiteTime <= 0 && tm.limits.BlackTime <= 0 {
		return
	}
	var mainTime, inc time.Duration
	if tm.side == chess.White {
		mainTime = time.Duration(tm.limits.WhiteTime) * time.Millisecond
		inc = time.Duration(tm.limits.WhiteIncrement) * time.Millisecond
	} else {
		mainTime = time.Duration(tm.limits.BlackTime) * time.Millisecond
		inc = time.Duration(tm.limits.BlackIncrement) * time.Millisecond
	}
	tm.softLimit, tm.hardLimit = calcLimits(mainTime, inc, tm.limits.MovesToGo)
}

// PonderHit converts a running ponder search into a normally timed
// one: the clock starts from now, using the limits "go ponder" was
// given, and a deadline goroutine takes over from the open-ended
// context the search started with.
func (tm *simpleTimeManager) PonderHit() {
	if !tm.pondering {
		return
	}
	tm.pondering = false
	tm.limits.Ponder = false
	tm.start = time.Now()
	tm.deriveLimits()
	if tm.hardLimit != 0 {
		var deadline = tm.start.Add(tm.hardLimit)
		time.AfterFunc(time.Until(deadline), tm.cancel)
	}
}

func (tm *simpleTimeManager) IsDone() bool {
	select {
	case <-tm.ctx.Done():
		return true
	default:
		return false
	}
}

func (tm *simpleTimeManager) OnNodesChanged(nodes int64) {
	if tm.limits.Nodes > 0 && nodes >= int64(tm.limits.Nodes) {
		tm.cancel()
	}
}

func (tm *simpleTimeManager) OnIterationComplete(line mainLine) {
	if tm.limits.Infinite || tm.pondering {
		return
	}
	if tm.limits.Depth != 0 && line.depth >= tm.limits.Depth {
		tm.cancel()
		return
	}
	if line.score >= winIn(line.depth-5) ||
		line.score <= lossIn(line.depth-5) {
		tm.cancel()
		return
	}
	if tm.softLimit != 0 &&
		time.Since(tm.start) >= tm.softLimit {
		tm.cancel()
		return
	}
}

func (tm *simpleTimeManager) Close() {
	tm.cancel()
}

func calcLimits(mainTime, inc time.Duration, moves int) (soft, hard time.Duration) {
	const (
		defaultMovesToGo = 40
		moveOverhead     = 300 * time.Millisecond
		minTimeLimit     = 1 * time.Millisecond
	)

	mainTime -= moveOverhead
	if mainTime < minTimeLimit {
		mainTime = minTimeLimit
	}

	if moves == 0 {
		var ideal = mainTime/35 + inc/2
		soft = ideal * 7 / 10
		hard = ideal * 21 / 10
	} else {
		moves = min(moves, defaultMovesToGo)
		soft = (mainTime/time.Duration(moves+1) + inc) * 7 / 10
		hard = (mainTime/time.Duration(moves+1) + inc) * 21 / 10
	}

	hard = limitDuration(hard, minTimeLimit, mainTime)
	soft = limitDuration(soft, minTimeLimit, mainTime)

	return
}

func limitDuration(v, lo, hi time.Duration) time.Duration {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
