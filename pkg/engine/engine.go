package engine

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"raptorfish/pkg/chess"
)

// Engine is the UCI-facing search object: one TransTable, a pool of
// per-goroutine threads for Lazy SMP, and the UCI-tunable knobs.
type Engine struct {
	Options           EngineOptions
	Params            Params
	evalBuilder       func() IEvaluator
	timeManager       timeManager
	transTable        *TransTable
	historyKeys       map[uint64]int
	threads           []thread
	activeThreads     int
	progress          func(SearchInfo)
	mainLine          mainLine
	start             time.Time
	nodes             int64
	mu                sync.Mutex
}

type thread struct {
	engine              *Engine
	evaluator           IUpdatableEvaluator
	mainHistory         [1 << 13]int16
	continuationHistory [1 << 10][1 << 10]int16
	rootDepth           int
	nodes               int64

	// splitOffset/splitStride stripe the root move list across worker
	// threads (offset 0, stride 1 for the main thread, which always
	// searches every root move); jitter widens the aspiration window
	// for helper threads so their search diverges from the main line
	// instead of retracing it; lastScore is this thread's own previous
	// root score, used to size the next window.
	splitOffset int
	splitStride int
	jitter      int
	lastScore   int

	stack [stackSize]struct {
		position       chess.Position
		moveList       [chess.MaxMoves]chess.OrderedMove
		quietsSearched [chess.MaxMoves]chess.Move
		pv             pv
		staticEval     int
		killer1        chess.Move
		killer2        chess.Move
	}
}

type pv struct {
	items [stackSize]chess.Move
	size  int
}

type mainLine struct {
	moves []chess.Move
	score int
	depth int
	nodes int64
}

// ponderMove returns the second move of the line, the move the engine
// expects its opponent to reply with while it keeps thinking.
func (l mainLine) ponderMove() chess.Move {
	if len(l.moves) < 2 {
		return chess.MoveNone
	}
	return l.moves[1]
}

type timeManager interface {
	IsDone() bool
	OnNodesChanged(nodes int64)
	OnIterationComplete(line mainLine)
	PonderHit()
	Close()
}

// IEvaluator is a plain static evaluator: score the position from the
// side-to-move's perspective, no incremental state. pkg/eval.Evaluator
// satisfies this.
type IEvaluator interface {
	Evaluate(p *chess.Position) int
}

// IUpdatableEvaluator adds incremental init/make/unmake hooks for
// evaluators that keep running state (e.g. an NNUE accumulator);
// EvaluatorAdapter satisfies it for a plain IEvaluator by making the
// hooks no-ops.
type IUpdatableEvaluator interface {
	Init(p *chess.Position)
	MakeMove(p *chess.Position, m chess.Move)
	UnmakeMove()
	EvaluateQuick(p *chess.Position) int
}

func NewEngine(evalBuilder func() IEvaluator) *Engine {
	return &Engine{
		Options:     NewEngineOptions(),
		Params:      NewParams(),
		evalBuilder: evalBuilder,
	}
}

func (e *Engine) Prepare() {
	if e.transTable == nil || e.transTable.Size() != e.Options.Hash {
		if e.transTable != nil {
			e.transTable = nil
			runtime.GC()
		}
		e.transTable = NewTransTable(e.Options.Hash)
	}
	if len(e.threads) != e.Options.Threads {
		e.threads = make([]thread, e.Options.Threads)
		for i := range e.threads {
			var t = &e.threads[i]
			t.engine = e
			t.evaluator = e.buildEvaluator()
		}
	}
}

func (e *Engine) Search(ctx context.Context, searchParams SearchParams) SearchInfo {
	e.start = time.Now()
	e.Prepare()
	var limits = searchParams.Limits
	applySkillLevel(&limits, e.Options.SkillLevel)
	e.activeThreads = cappedThreads(e.Options.Threads, limits.MoveTime)

	var p = &searchParams.Positions[len(searchParams.Positions)-1]
	var tmCtx, tm = newSimpleTimeManager(ctx, e.start, limits, p)
	e.mu.Lock()
	e.timeManager = tm
	e.mu.Unlock()
	defer e.timeManager.Close()
	e.transTable.IncDate()
	e.historyKeys = getHistoryKeys(searchParams.Positions)
	e.nodes = 0
	e.mainLine = mainLine{}
	for i := range e.threads {
		var t = &e.threads[i]
		t.nodes = 0
		t.stack[0].position = *p
	}
	e.progress = searchParams.Progress
	lazySmp(tmCtx, e)
	for i := range e.threads {
		var t = &e.threads[i]
		e.nodes += t.nodes
		t.nodes = 0
	}
	return e.currentSearchResult()
}

// applySkillLevel caps search depth and scales the clock down for a
// Skill Level below the maximum (20 == full strength, no change).
func applySkillLevel(limits *LimitsType, skill int) {
	if skill >= 20 {
		return
	}
	if skill < 0 {
		skill = 0
	}
	var depthCap = 4 + skill/2
	if limits.Depth == 0 || limits.Depth > depthCap {
		limits.Depth = depthCap
	}
	var scale = 40 + skill*50/19
	limits.WhiteTime = limits.WhiteTime * scale / 100
	limits.BlackTime = limits.BlackTime * scale / 100
	limits.MoveTime = limits.MoveTime * scale / 100
}

// cappedThreads keeps a short fixed-movetime search from paying
// thread start-up overhead it can't recoup: the less time there is to
// search, the fewer helper threads are worth spinning up.
func cappedThreads(requested, moveTimeMs int) int {
	var n = requested
	switch {
	case moveTimeMs <= 0:
		n = requested
	case moveTimeMs <= 1200:
		n = 1
	case moveTimeMs <= 2500:
		n = 2
	case moveTimeMs <= 5000:
		n = 4
	case moveTimeMs <= 12000:
		n = 8
	default:
		n = requested
	}
	if n > requested {
		n = requested
	}
	if n < 1 {
		n = 1
	}
	return n
}

func getHistoryKeys(positions []chess.Position) map[uint64]int {
	var result = make(map[uint64]int)
	for i := len(positions) - 1; i >= 0; i-- {
		var p = &positions[i]
		result[p.Key()]++
		if p.HalfmoveClock() == 0 {
			break
		}
	}
	return result
}

func (e *Engine) Clear() {
	if e.transTable != nil {
		e.transTable.Clear()
	}
	for i := range e.threads {
		e.threads[i].clearHistory()
	}
}

func (e *Engine) currentSearchResult() SearchInfo {
	return SearchInfo{
		Depth:      e.mainLine.depth,
		MainLine:   e.mainLine.moves,
		PonderMove: e.mainLine.ponderMove(),
		Score:      newUciScore(e.mainLine.score),
		Nodes:      e.nodes,
		Time:       time.Since(e.start),
	}
}

// GetLastPonderMove returns the move the previous search's best line
// expected in reply, or chess.MoveNone if the line was too short.
func (e *Engine) GetLastPonderMove() chess.Move {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mainLine.ponderMove()
}

// PonderHit tells a search started with LimitsType.Ponder set that the
// opponent played the predicted move: the clock the "go ponder"
// command carried now starts running for real.
func (e *Engine) PonderHit() {
	e.mu.Lock()
	var tm = e.timeManager
	e.mu.Unlock()
	if tm != nil {
		tm.PonderHit()
	}
}

// currentBestMove is the snapshot a helper thread seeds its next
// iteration's move ordering from; it reads under the same mutex
// onIterationComplete writes under.
func (e *Engine) currentBestMove() (chess.Move, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.mainLine.moves) == 0 {
		return chess.MoveNone, 0
	}
	return e.mainLine.moves[0], e.mainLine.score
}

// onIterationComplete folds a finished iteration's node count into the
// engine total unconditionally, but only the main thread's line (the
// one searching every root move, not a striped subset) updates the
// reported best line and feeds the time manager's stopping decision.
func (e *Engine) onIterationComplete(t *thread, depth, score int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nodes += t.nodes
	t.nodes = 0
	if t != &e.threads[0] {
		return
	}
	if depth > e.mainLine.depth {
		const height = 0
		if e.historyKeys[t.stack[height].position.Key()] >= 3 {
			// the position hasn't just recurred once, it has already
			// occurred three times in this game: the result is drawn
			// regardless of what the tree below it says.
			score = valueDraw
		}
		e.mainLine = mainLine{
			depth: depth,
			score: score,
			moves: t.stack[height].pv.toSlice(),
			nodes: e.nodes,
		}
		e.timeManager.OnIterationComplete(e.mainLine)
		if e.progress != nil && e.nodes >= int64(e.Options.ProgressMinNodes) {
			e.progress(e.currentSearchResult())
		}
	}
}

func (pv *pv) clear() {
	pv.size = 0
}

func (pv *pv) assign(m chess.Move, child *pv) {
	pv.size = 1
	pv.items[0] = m
	if child.size > 0 {
		pv.size += child.size
		copy(pv.items[1:], child.items[:child.size])
	}
}

func (pv *pv) toSlice() []chess.Move {
	var result = make([]chess.Move, pv.size)
	copy(result, pv.items[:pv.size])
	return result
}

// EvaluatorAdapter wraps a plain IEvaluator so the search can treat
// every evaluator uniformly as an IUpdatableEvaluator.
type EvaluatorAdapter struct {
	evaluator IEvaluator
}

func (a *EvaluatorAdapter) Init(p *chess.Position)             {}
func (a *EvaluatorAdapter) MakeMove(p *chess.Position, m chess.Move) {}
func (a *EvaluatorAdapter) UnmakeMove()                        {}

func (a *EvaluatorAdapter) EvaluateQuick(p *chess.Position) int {
	return a.evaluator.Evaluate(p)
}

func (e *Engine) buildEvaluator() IUpdatableEvaluator {
	var evaluator = e.evalBuilder()
	if ue, ok := evaluator.(IUpdatableEvaluator); ok {
		return ue
	}
	if evaluator == nil {
		panic(errors.New("nil evaluator from evalBuilder"))
	}
	return &EvaluatorAdapter{evaluator: evaluator}
}
