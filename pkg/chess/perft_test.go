package chess

import "testing"

// Move-count-only perft: generate legal moves, make, recurse, unmake.
func perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}
	var buf [MaxMoves]Move
	var moves = GenerateLegal(p, buf[:0])
	if depth == 1 {
		return int64(len(moves))
	}
	var nodes int64
	for _, m := range moves {
		var u = p.DoMove(m)
		nodes += perft(p, depth-1)
		p.UndoMove(m, u)
	}
	return nodes
}

func TestPerft(t *testing.T) {
	var tests = []struct {
		fen   string
		depth int
		nodes int64
	}{
		{InitialPositionFEN, 4, 197281},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", 4, 4085603},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", 4, 43238},
		{"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 4, 422333},
		{"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 4, 2103487},
		{"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10", 4, 3894594},
	}
	for i, test := range tests {
		var p = NewStartPosition()
		if err := p.SetFEN(test.fen); err != nil {
			t.Fatalf("test %d: SetFEN: %v", i, err)
		}
		var nodes = perft(&p, test.depth)
		if nodes != test.nodes {
			t.Errorf("test %d (%s): depth %d: got %d nodes, want %d", i, test.fen, test.depth, nodes, test.nodes)
		}
	}
}

func TestPerftShallow(t *testing.T) {
	var tests = []struct {
		fen   string
		depth int
		nodes int64
	}{
		{InitialPositionFEN, 1, 20},
		{InitialPositionFEN, 2, 400},
		{InitialPositionFEN, 3, 8902},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", 1, 48},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", 2, 2039},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", 3, 97862},
	}
	for i, test := range tests {
		var p = NewStartPosition()
		if err := p.SetFEN(test.fen); err != nil {
			t.Fatalf("test %d: SetFEN: %v", i, err)
		}
		var nodes = perft(&p, test.depth)
		if nodes != test.nodes {
			t.Errorf("test %d (%s): depth %d: got %d nodes, want %d", i, test.fen, test.depth, nodes, test.nodes)
		}
	}
}
