package eval

import (
	"strings"
	"testing"

	"raptorfish/pkg/chess"
)

func TestEvaluateSymmetric(t *testing.T) {
	var fens = []string{
		chess.InitialPositionFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	var e = NewEvaluator()
	for _, fen := range fens {
		var p = chess.NewStartPosition()
		if err := p.SetFEN(fen); err != nil {
			t.Fatalf("SetFEN(%q): %v", fen, err)
		}
		var mirrored = chess.NewStartPosition()
		if err := mirrored.SetFEN(mirrorFEN(fen)); err != nil {
			t.Fatalf("SetFEN(mirror %q): %v", fen, err)
		}
		var score = e.Evaluate(&p)
		var mirroredScore = e.Evaluate(&mirrored)
		if score != mirroredScore {
			t.Errorf("fen %q: eval not symmetric under color-flip/board-mirror: %d vs %d", fen, score, mirroredScore)
		}
	}
}

// mirrorFEN flips the board top to bottom and swaps piece colors, the
// standard way to assert an evaluator has no accidental side bias.
func mirrorFEN(fen string) string {
	var fields = strings.Fields(fen)
	var ranks = strings.Split(fields[0], "/")
	var mirroredRanks = make([]string, 8)
	for i, r := range ranks {
		var sb strings.Builder
		for _, ch := range r {
			if ch >= 'a' && ch <= 'z' {
				sb.WriteRune(ch - 'a' + 'A')
			} else if ch >= 'A' && ch <= 'Z' {
				sb.WriteRune(ch - 'A' + 'a')
			} else {
				sb.WriteRune(ch)
			}
		}
		mirroredRanks[7-i] = sb.String()
	}
	var board = strings.Join(mirroredRanks, "/")

	var side = "b"
	if fields[1] == "b" {
		side = "w"
	}

	var castling strings.Builder
	for _, ch := range fields[2] {
		switch ch {
		case 'K':
			castling.WriteByte('k')
		case 'Q':
			castling.WriteByte('q')
		case 'k':
			castling.WriteByte('K')
		case 'q':
			castling.WriteByte('Q')
		default:
			castling.WriteRune(ch)
		}
	}

	var ep = fields[3]
	if ep != "-" {
		ep = string(ep[0]) + mirrorRankChar(ep[1])
	}

	var rest = "0 1"
	if len(fields) > 4 {
		rest = fields[4]
		if len(fields) > 5 {
			rest += " " + fields[5]
		}
	}

	return board + " " + side + " " + castling.String() + " " + ep + " " + rest
}

func mirrorRankChar(r byte) string {
	return string('1' + ('8' - r))
}

func TestEvaluateStartPositionIsSmall(t *testing.T) {
	var p = chess.NewStartPosition()
	var e = NewEvaluator()
	var score = e.Evaluate(&p)
	if score < -50 || score > 50 {
		t.Errorf("start position should be close to equal, got %d", score)
	}
}

func TestEvaluateMaterialAdvantage(t *testing.T) {
	var p = chess.NewStartPosition()
	if err := p.SetFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1"); err != nil {
		t.Fatalf("SetFEN: %v", err)
	}
	var e = NewEvaluator()
	var score = e.Evaluate(&p)
	if score <= 0 {
		t.Errorf("white up a rook should evaluate positively, got %d", score)
	}
}
