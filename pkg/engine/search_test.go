package engine

import (
	"context"
	"testing"

	"raptorfish/pkg/chess"
	"raptorfish/pkg/eval"
)

func newTestEngine() *Engine {
	var e = NewEngine(func() IEvaluator {
		return eval.NewEvaluator()
	})
	e.Options.Hash = 1
	e.Options.Threads = 1
	return e
}

func searchFEN(t *testing.T, fen string, depth int) (*Engine, SearchInfo) {
	t.Helper()
	var p = chess.NewStartPosition()
	if err := p.SetFEN(fen); err != nil {
		t.Fatalf("SetFEN(%q): %v", fen, err)
	}
	var e = newTestEngine()
	var info = e.Search(context.Background(), SearchParams{
		Positions: []chess.Position{p},
		Limits:    LimitsType{Depth: depth},
	})
	return e, info
}

func movesFromLAN(t *testing.T, lans []string) []chess.Position {
	t.Helper()
	var p = chess.NewStartPosition()
	var positions = []chess.Position{p}
	for _, lan := range lans {
		var move, ok = chess.ParseMove(&positions[len(positions)-1], lan)
		if !ok {
			t.Fatalf("parse move %q failed", lan)
		}
		var next = positions[len(positions)-1]
		next.DoMove(move)
		positions = append(positions, next)
	}
	return positions
}

// mate in one: rook swings to the back rank, the king on g8 has no
// flight square and no blocker.
func TestSearchMateInOne(t *testing.T) {
	var _, info = searchFEN(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", 3)
	if len(info.MainLine) == 0 {
		t.Fatal("empty main line")
	}
	var best = info.MainLine[0]
	if best.String() != "a1a8" {
		t.Errorf("best move = %v, want a1a8", best)
	}
	if !info.Score.IsMate || info.Score.Mate < 1 {
		t.Errorf("expected an announced mate, got %+v", info.Score)
	}
}

// forced mate in two: Qxf7+ followed by a forced continuation leads to
// a mate the search should find comfortably within 5 plies.
func TestSearchForcedMateInTwo(t *testing.T) {
	var _, info = searchFEN(t,
		"r1b1kb1r/pppp1ppp/2n2q2/4p3/2B1P3/5Q2/PPPP1PPP/RNB1K1NR w KQkq - 4 4", 5)
	if len(info.MainLine) == 0 {
		t.Fatal("empty main line")
	}
	var best = info.MainLine[0]
	if best.String() != "f3f7" {
		t.Errorf("best move = %v, want f3f7", best)
	}
	if !info.Score.IsMate {
		t.Errorf("expected an announced mate, got %+v", info.Score)
	}
}

// a position with no legal moves and no check must be scored as a
// draw, not a loss: genRootMoves comes back empty and the reported
// line stays at its zero value.
func TestSearchStalemateScoresZero(t *testing.T) {
	var p = chess.NewStartPosition()
	if err := p.SetFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"); err != nil {
		t.Fatalf("SetFEN: %v", err)
	}
	if chess.InCheck(&p, chess.Black) {
		t.Fatal("test position should not be check")
	}
	var buf [chess.MaxMoves]chess.Move
	if moves := chess.GenerateLegal(&p, buf[:0]); len(moves) != 0 {
		t.Fatalf("expected stalemate, found %d legal moves", len(moves))
	}
	var e = newTestEngine()
	var info = e.Search(context.Background(), SearchParams{
		Positions: []chess.Position{p},
		Limits:    LimitsType{Depth: 4},
	})
	if info.Score.Centipawns != 0 || info.Score.IsMate {
		t.Errorf("stalemate score = %+v, want 0 and not mate", info.Score)
	}
}

// a king in check cannot castle out of it, but it can still step to a
// safe square; the search must never offer a castling move here and
// must still return some legal reply.
func TestSearchCastlingLegality(t *testing.T) {
	var p = chess.NewStartPosition()
	if err := p.SetFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"); err != nil {
		t.Fatalf("SetFEN: %v", err)
	}
	var buf [chess.MaxMoves]chess.Move
	var sawCastle bool
	for _, m := range chess.GenerateLegal(&p, buf[:0]) {
		if m.IsCastle() {
			sawCastle = true
		}
	}
	if !sawCastle {
		t.Fatal("expected both sides to still have a legal castling move available")
	}

	var checked = chess.NewStartPosition()
	if err := checked.SetFEN("r3k2r/8/8/8/8/8/4r3/R3K2R w KQkq - 0 1"); err != nil {
		t.Fatalf("SetFEN: %v", err)
	}
	if !chess.InCheck(&checked, chess.White) {
		t.Fatal("expected White to be in check")
	}
	var buf2 [chess.MaxMoves]chess.Move
	var legal = chess.GenerateLegal(&checked, buf2[:0])
	if len(legal) == 0 {
		t.Fatal("king in check with no legal reply")
	}
	var sawKingMove bool
	for _, m := range legal {
		if m.IsCastle() {
			t.Errorf("castling move %v offered while in check", m)
		}
		if m.From() == checked.KingSquare(chess.White) {
			sawKingMove = true
		}
	}
	if !sawKingMove {
		t.Error("expected the king to still have a legal move")
	}

	var e = newTestEngine()
	var info = e.Search(context.Background(), SearchParams{
		Positions: []chess.Position{checked},
		Limits:    LimitsType{Depth: 3},
	})
	if len(info.MainLine) == 0 {
		t.Fatal("search found no move for a king in check with legal replies")
	}
	if info.MainLine[0].IsCastle() {
		t.Errorf("search chose castling move %v while in check", info.MainLine[0])
	}
}

// shuffling knights back and forth repeats the starting position
// three times; the search must recognize the repeated root as a draw
// rather than trusting whatever the static evaluator says about it.
func TestSearchRepetitionScoresZero(t *testing.T) {
	var positions = movesFromLAN(t, []string{
		"g1f3", "g8f6", "f3g1", "f6g8",
		"g1f3", "g8f6", "f3g1", "f6g8",
	})
	var e = newTestEngine()
	var info = e.Search(context.Background(), SearchParams{
		Positions: positions,
		Limits:    LimitsType{Depth: 4},
	})
	if info.Score.Centipawns != 0 || info.Score.IsMate {
		t.Errorf("repeated position score = %+v, want 0 and not mate", info.Score)
	}
}
