package uci

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
	"time"

	"github.com/swgillespie/apollo/internal/board"
	"github.com/swgillespie/apollo/internal/book"
	"github.com/swgillespie/apollo/internal/eval"
	"github.com/swgillespie/apollo/internal/search"
)

func newTestUCI() *UCI {
	tt := search.NewTranspositionTable()
	return New(search.NewSearcher(tt, eval.NewEvaluator()), tt)
}

// bookWithStartposMove builds an in-memory Polyglot book recording a single
// move (from, to, no promotion) for the starting position.
func bookWithStartposMove(t *testing.T, from, to board.Square) *book.Book {
	t.Helper()
	pos := board.NewPosition()

	moveData := uint16(to) | uint16(from)<<6
	var entry [16]byte
	binary.BigEndian.PutUint64(entry[0:8], pos.PolyglotHash())
	binary.BigEndian.PutUint16(entry[8:10], moveData)
	binary.BigEndian.PutUint16(entry[10:12], 50)

	b, err := book.LoadPolyglotReader(bytes.NewReader(entry[:]))
	if err != nil {
		t.Fatalf("LoadPolyglotReader: %v", err)
	}
	return b
}

func TestHandleUCIRespondsWithIdentityAndOptions(t *testing.T) {
	u := newTestUCI()
	var out strings.Builder
	u.Run(strings.NewReader("uci\n"), &out)

	got := out.String()
	for _, want := range []string{"id name apollo", "id author", "uciok"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q does not contain %q", got, want)
		}
	}
}

func TestHandleIsReady(t *testing.T) {
	u := newTestUCI()
	var out strings.Builder
	u.Run(strings.NewReader("isready\n"), &out)
	if strings.TrimSpace(out.String()) != "readyok" {
		t.Errorf("got %q, want readyok", out.String())
	}
}

func TestHandlePositionStartpos(t *testing.T) {
	u := newTestUCI()
	u.Run(strings.NewReader("position startpos\n"), &strings.Builder{})
	if u.position.Hash != board.NewPosition().Hash {
		t.Errorf("position after startpos does not match a fresh position")
	}
}

func TestHandlePositionStartposWithMoves(t *testing.T) {
	u := newTestUCI()
	u.Run(strings.NewReader("position startpos moves e2e4 e7e5\n"), &strings.Builder{})

	expected := board.NewPosition()
	m1, err := board.ParseUCIMove("e2e4", expected)
	if err != nil {
		t.Fatalf("ParseUCIMove: %v", err)
	}
	expected.ApplyMove(m1)
	m2, err := board.ParseUCIMove("e7e5", expected)
	if err != nil {
		t.Fatalf("ParseUCIMove: %v", err)
	}
	expected.ApplyMove(m2)

	if u.position.Hash != expected.Hash {
		t.Errorf("position after moves does not match hand-applied moves")
	}
	if len(u.positionHashes) != 3 {
		t.Errorf("expected 3 recorded hashes (start + 2 moves), got %d", len(u.positionHashes))
	}
}

func TestHandlePositionFen(t *testing.T) {
	u := newTestUCI()
	fen := "6k1/5ppp/8/8/8/8/8/4R2K w - - 0 1"
	u.Run(strings.NewReader("position fen "+fen+"\n"), &strings.Builder{})

	want, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if u.position.Hash != want.Hash {
		t.Errorf("position after fen command does not match parsed FEN")
	}
}

func TestHandlePositionInvalidFenLeavesPositionUnchanged(t *testing.T) {
	u := newTestUCI()
	before := u.position.Hash
	u.Run(strings.NewReader("position fen not-a-fen\n"), &strings.Builder{})
	if u.position.Hash != before {
		t.Errorf("invalid FEN mutated the current position")
	}
}

func TestHandlePositionInvalidMoveLeavesPositionUnchanged(t *testing.T) {
	u := newTestUCI()
	u.Run(strings.NewReader("position startpos moves e2e4 e2e4\n"), &strings.Builder{})
	// The second e2e4 is illegal once a pawn already stands on e4; the
	// whole position command is rejected, so the position stays at
	// startpos.
	if u.position.Hash != board.NewPosition().Hash {
		t.Errorf("an invalid trailing move should leave the position at its prior state")
	}
}

func TestHandleGoFindsMateInOne(t *testing.T) {
	u := newTestUCI()
	var out strings.Builder
	u.Run(strings.NewReader("position fen 6k1/5ppp/8/8/8/8/8/4R2K w - - 0 1\ngo depth 3\n"), &out)

	deadline := time.Now().Add(5 * time.Second)
	for u.searching.Load() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	got := out.String()
	if !strings.Contains(got, "bestmove e1e8") {
		t.Errorf("output %q does not contain the mating move", got)
	}
	if !strings.Contains(got, "score mate") {
		t.Errorf("output %q does not report a mate score", got)
	}
}

func TestHandleGoUsesBookMoveWhenAvailable(t *testing.T) {
	u := newTestUCI()
	u.book = bookWithStartposMove(t, board.NewSquare(4, 1), board.NewSquare(4, 3))
	u.useBook = true

	var out strings.Builder
	u.Run(strings.NewReader("go\n"), &out)

	if !strings.Contains(out.String(), "bestmove e2e4") {
		t.Errorf("output %q does not use the book move", out.String())
	}
}

func TestHandleStopInterruptsAnInfiniteSearch(t *testing.T) {
	u := newTestUCI()
	var out strings.Builder
	u.Run(strings.NewReader("go infinite\nstop\n"), &out)

	if !strings.Contains(out.String(), "bestmove") {
		t.Errorf("expected a bestmove after stop, got %q", out.String())
	}
}

func TestFormatScoreEvaluated(t *testing.T) {
	got := FormatScore(board.Evaluated(1.5))
	if got != "cp 150" {
		t.Errorf("FormatScore(Evaluated(1.5)) = %q, want \"cp 150\"", got)
	}
}

func TestFormatScoreWinAndLoss(t *testing.T) {
	if got := FormatScore(board.Win(1)); got != "mate 1" {
		t.Errorf("FormatScore(Win(1)) = %q, want \"mate 1\"", got)
	}
	if got := FormatScore(board.Loss(3)); got != "mate -2" {
		t.Errorf("FormatScore(Loss(3)) = %q, want \"mate -2\"", got)
	}
}

func TestHandleNewGameResetsPositionAndTable(t *testing.T) {
	u := newTestUCI()
	u.tt.RecordPV(u.position, board.NoMove, false, 1, board.Evaluated(0))
	u.Run(strings.NewReader("position fen 6k1/5ppp/8/8/8/8/8/4R2K w - - 0 1\nucinewgame\n"), &strings.Builder{})

	if u.position.Hash != board.NewPosition().Hash {
		t.Errorf("ucinewgame did not reset the position")
	}
	if u.tt.Len() != 0 {
		t.Errorf("ucinewgame did not clear the transposition table")
	}
}

func TestHandleSetOptionOwnBook(t *testing.T) {
	u := newTestUCI()
	u.Run(strings.NewReader("setoption name OwnBook value false\n"), &strings.Builder{})
	if u.useBook {
		t.Errorf("expected OwnBook=false to disable book usage")
	}
}
