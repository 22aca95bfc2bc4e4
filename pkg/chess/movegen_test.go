package chess

import "testing"

func countMoves(fen string) int {
	var p = NewStartPosition()
	p.SetFEN(fen)
	var buf [MaxMoves]Move
	return len(GenerateLegal(&p, buf[:0]))
}

func TestStartPositionMoveCount(t *testing.T) {
	if got := countMoves(InitialPositionFEN); got != 20 {
		t.Errorf("startpos: got %d legal moves, want 20", got)
	}
}

func TestEnPassantGenerated(t *testing.T) {
	var p = NewStartPosition()
	p.SetFEN("rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	var buf [MaxMoves]Move
	var moves = GenerateLegal(&p, buf[:0])
	var found = false
	for _, m := range moves {
		if m.From() == D4 && m.To() == E3 && m.IsEP() {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an en-passant capture d4xe3 among %v", moves)
	}
}

func TestCastlingBlockedByAttackedSquare(t *testing.T) {
	// king would cross f1, which is attacked by a black rook on f8's file
	// only if occupied by nothing in between; use a position where f1 is
	// directly attacked by a bishop on h3.
	var p = NewStartPosition()
	p.SetFEN("r3k2r/8/8/8/8/7b/8/R3K2R w KQkq - 0 1")
	var buf [MaxMoves]Move
	var moves = GenerateLegal(&p, buf[:0])
	for _, m := range moves {
		if m.IsCastle() && m.To() == G1 {
			t.Errorf("king-side castle should be illegal: f1 is attacked by the bishop on h3")
		}
	}
}

func TestCastlingAllowedWhenClear(t *testing.T) {
	var p = NewStartPosition()
	p.SetFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	var buf [MaxMoves]Move
	var moves = GenerateLegal(&p, buf[:0])
	var kingSide, queenSide = false, false
	for _, m := range moves {
		if m.IsCastle() {
			if m.To() == G1 {
				kingSide = true
			}
			if m.To() == C1 {
				queenSide = true
			}
		}
	}
	if !kingSide || !queenSide {
		t.Errorf("expected both castling moves available, got kingSide=%v queenSide=%v", kingSide, queenSide)
	}
}

func TestPromotionGeneratesFourMoves(t *testing.T) {
	var p = NewStartPosition()
	p.SetFEN("8/P7/8/8/8/8/8/k6K w - - 0 1")
	var buf [MaxMoves]Move
	var moves = GenerateLegal(&p, buf[:0])
	var count = 0
	for _, m := range moves {
		if m.From() == A7 && m.To() == A8 {
			count++
		}
	}
	if count != 4 {
		t.Errorf("expected 4 promotion moves a7-a8, got %d", count)
	}
}

func TestStalemateHasNoLegalMoves(t *testing.T) {
	// classic king-and-queen-vs-king stalemate.
	var p = NewStartPosition()
	p.SetFEN("k7/8/1Q6/8/8/8/8/7K b - - 0 1")
	var buf [MaxMoves]Move
	var moves = GenerateLegal(&p, buf[:0])
	if len(moves) != 0 {
		t.Errorf("expected stalemate (0 legal moves), got %d: %v", len(moves), moves)
	}
	if InCheck(&p, Black) {
		t.Errorf("stalemate position must not have the side to move in check")
	}
}

func TestPinnedPieceCannotMove(t *testing.T) {
	// white king on e1, white bishop pinned on e2 by a black rook on e8;
	// a bishop's diagonal moves can never stay on the e-file, so every
	// pseudo-legal bishop move here is illegal.
	var p = NewStartPosition()
	p.SetFEN("4r3/8/8/8/8/8/4B3/4K3 w - - 0 1")
	var buf [MaxMoves]Move
	var moves = GenerateLegal(&p, buf[:0])
	for _, m := range moves {
		if m.From() == E2 {
			t.Errorf("pinned bishop has no legal moves, got move to %v", m.To())
		}
	}
}
