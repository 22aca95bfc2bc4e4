package polyglot

import (
	"testing"

	"raptorfish/pkg/chess"
)

func TestKeyChangesAfterMove(t *testing.T) {
	var p = chess.NewStartPosition()
	var before = Key(&p)
	var move, ok = chess.ParseMove(&p, "e2e4")
	if !ok {
		t.Fatal("failed to parse e2e4")
	}
	p.DoMove(move)
	var after = Key(&p)
	if before == after {
		t.Error("key did not change after a move")
	}
}

func TestKeyDeterministic(t *testing.T) {
	var p = chess.NewStartPosition()
	if Key(&p) != Key(&p) {
		t.Error("Key is not deterministic")
	}
}
