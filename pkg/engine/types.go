package engine

import (
	"time"

	"raptorfish/pkg/chess"
)

// LimitsType mirrors the "go" UCI command's fields.
type LimitsType struct {
	Ponder         bool
	Infinite       bool
	WhiteTime      int
	BlackTime      int
	WhiteIncrement int
	BlackIncrement int
	MoveTime       int
	MovesToGo      int
	Depth          int
	Nodes          int
	Mate           int
}

// SearchParams bundles everything a Search call needs: the game's
// position history (for repetition detection), the limits and a
// progress callback for "info" lines.
type SearchParams struct {
	Positions []chess.Position
	Limits    LimitsType
	Progress  func(SearchInfo)
}

type SearchInfo struct {
	Score      UciScore
	Depth      int
	Nodes      int64
	Time       time.Duration
	MainLine   []chess.Move
	PonderMove chess.Move
}
