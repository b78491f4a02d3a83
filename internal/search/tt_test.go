package search

import (
	"testing"

	"github.com/swgillespie/apollo/internal/board"
)

func TestTranspositionTableQueryMiss(t *testing.T) {
	tt := NewTranspositionTable()
	pos := board.NewPosition()

	queried := false
	tt.Query(pos, func(e *TableEntry) {
		queried = true
		if e != nil {
			t.Error("expected no entry in an empty table")
		}
	})
	if !queried {
		t.Error("Query did not invoke the callback")
	}
}

func TestTranspositionTableRecordAndQuery(t *testing.T) {
	tt := NewTranspositionTable()
	pos := board.NewPosition()
	move := board.NewDoublePawnPush(board.E2, board.E4)

	tt.RecordPV(pos, move, true, 4, board.Evaluated(13))

	var found *TableEntry
	tt.Query(pos, func(e *TableEntry) {
		if e != nil {
			cp := *e
			found = &cp
		}
	})
	if found == nil {
		t.Fatal("expected a recorded entry")
	}
	if found.Kind != PrincipalVariation || found.Depth != 4 || found.BestMove != move {
		t.Errorf("unexpected entry: %+v", found)
	}
}

func TestTranspositionTableOverwrite(t *testing.T) {
	tt := NewTranspositionTable()
	pos := board.NewPosition()
	moveA := board.NewDoublePawnPush(board.E2, board.E4)
	moveB := board.NewDoublePawnPush(board.D2, board.D4)

	tt.RecordPV(pos, moveA, true, 2, board.Evaluated(1))
	tt.RecordCut(pos, moveB, true, 6, board.Evaluated(2))

	var found *TableEntry
	tt.Query(pos, func(e *TableEntry) {
		if e != nil {
			cp := *e
			found = &cp
		}
	})
	if found == nil || found.Kind != Cut || found.BestMove != moveB || found.Depth != 6 {
		t.Errorf("expected overwritten Cut entry for moveB, got %+v", found)
	}
}

func TestTranspositionTableClear(t *testing.T) {
	tt := NewTranspositionTable()
	pos := board.NewPosition()
	tt.RecordAll(pos, 1, board.Evaluated(0))
	if tt.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tt.Len())
	}
	tt.Clear()
	if tt.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", tt.Len())
	}
}

func TestTranspositionTableStatsCounting(t *testing.T) {
	tt := NewTranspositionTable()
	pos := board.NewPosition()

	tt.Query(pos, func(*TableEntry) {})
	tt.RecordPV(pos, board.NoMove, false, 3, board.Evaluated(0))
	tt.Query(pos, func(*TableEntry) {})

	stats := tt.Stats()
	if stats.Probes != 2 {
		t.Errorf("Probes = %d, want 2", stats.Probes)
	}
	if stats.Hits != 1 {
		t.Errorf("Hits = %d, want 1", stats.Hits)
	}
	if stats.PVRecorded != 1 {
		t.Errorf("PVRecorded = %d, want 1", stats.PVRecorded)
	}
}
