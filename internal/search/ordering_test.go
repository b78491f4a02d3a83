package search

import (
	"testing"

	"github.com/swgillespie/apollo/internal/board"
)

// TestStaticScoreEnPassantIsFlatNotSEE guards against IsCapture() being
// checked before IsEnPassant() in staticScore: NewEnPassant sets the
// capture bit too, so the wrong order silently routes en passant through
// see() (which sees an empty destination square and returns 0) instead of
// the flat score spec §4.9 assigns it.
func TestStaticScoreEnPassantIsFlatNotSEE(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	move, err := board.ParseUCIMove("e5d6", pos)
	if err != nil {
		t.Fatalf("ParseUCIMove: %v", err)
	}
	if !move.IsEnPassant() {
		t.Fatalf("move %v is not en passant", move)
	}

	got := staticScore(pos, move)
	if got != 1 {
		t.Errorf("staticScore(en passant) = %d, want 1", got)
	}
}
