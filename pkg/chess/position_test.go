package chess

import "testing"

func TestSetFENRoundTrip(t *testing.T) {
	var fens = []string{
		InitialPositionFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		var p = NewStartPosition()
		if err := p.SetFEN(fen); err != nil {
			t.Fatalf("SetFEN(%q): %v", fen, err)
		}
		if got := p.FEN(); got != fen {
			t.Errorf("FEN round trip: got %q, want %q", got, fen)
		}
	}
}

func TestMalformedFENFallsBackToDefaults(t *testing.T) {
	var p = NewStartPosition()
	if err := p.SetFEN("not a fen at all"); err == nil {
		t.Errorf("expected an error for a malformed FEN without a king")
	}
	// position must still be usable: startpos board, legal moves exist.
	var buf [MaxMoves]Move
	var moves = GenerateLegal(&p, buf[:0])
	if len(moves) != 20 {
		t.Errorf("malformed FEN should fall back to the start position, got %d legal moves", len(moves))
	}
}

func TestDoMoveUndoMoveRestoresKey(t *testing.T) {
	var p = NewStartPosition()
	var originalKey = p.Key()
	var buf [MaxMoves]Move
	var moves = GenerateLegal(&p, buf[:0])
	for _, m := range moves {
		var u = p.DoMove(m)
		p.UndoMove(m, u)
		if p.Key() != originalKey {
			t.Errorf("move %v: key not restored after undo: got %x want %x", m, p.Key(), originalKey)
		}
	}
}

func TestIncrementalKeyMatchesRecompute(t *testing.T) {
	var p = NewStartPosition()
	p.SetFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	var buf [MaxMoves]Move
	var moves = GenerateLegal(&p, buf[:0])
	for _, m := range moves {
		var u = p.DoMove(m)
		var incremental = p.Key()
		p.recomputeKey()
		if p.Key() != incremental {
			t.Errorf("move %v: incremental key %x does not match recomputed key %x", m, incremental, p.Key())
		}
		p.UndoMove(m, u)
	}
}

func TestCastlingRightsClearedOnRookCapture(t *testing.T) {
	var p = NewStartPosition()
	p.SetFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	// move white rook a1-a8 capturing the black queen-side rook.
	var m = NewMove(A1, A8, FlagCapture)
	p.DoMove(m)
	if p.CastlingRights()&WhiteQueenSide != 0 {
		t.Errorf("white queen-side rook moved away, should have cleared WhiteQueenSide")
	}
	if p.CastlingRights()&BlackQueenSide != 0 {
		t.Errorf("black queen-side rook captured on a8, should have cleared BlackQueenSide")
	}
	if p.CastlingRights()&BlackKingSide == 0 {
		t.Errorf("black king-side rook on h8 untouched, BlackKingSide should remain set")
	}
}

func TestEnPassantCaptureRemovesPawn(t *testing.T) {
	var p = NewStartPosition()
	p.SetFEN("rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	var m = NewMove(D4, E3, FlagCapture|FlagEP)
	p.DoMove(m)
	if !p.PieceAt(E4).IsNone() {
		t.Errorf("en-passant capture must remove the captured pawn from e4")
	}
	if p.PieceAt(E3).Type() != Pawn {
		t.Errorf("capturing pawn must land on e3")
	}
}

func TestHalfmoveClockResetsOnPawnMoveOrCapture(t *testing.T) {
	var p = NewStartPosition()
	p.SetFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 10 20")
	p.DoMove(NewMove(E2, E3, 0))
	if p.HalfmoveClock() != 0 {
		t.Errorf("pawn move must reset halfmove clock, got %d", p.HalfmoveClock())
	}
}

func TestHalfmoveClockIncrementsOnQuietNonPawnMove(t *testing.T) {
	var p = NewStartPosition()
	p.SetFEN("4k3/8/8/8/8/8/8/4K3 w - - 10 20")
	p.DoMove(NewMove(E1, E2, 0))
	if p.HalfmoveClock() != 11 {
		t.Errorf("quiet king move must increment halfmove clock, got %d", p.HalfmoveClock())
	}
}
