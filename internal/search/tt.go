// Package search implements iterative-deepening negamax alpha-beta search
// over a shared transposition table.
package search

import (
	"sync"
	"sync/atomic"

	"github.com/swgillespie/apollo/internal/board"
)

// NodeKind tags which bound a TableEntry's score represents.
type NodeKind uint8

const (
	// PrincipalVariation entries hold an exact score.
	PrincipalVariation NodeKind = iota
	// Cut entries hold a lower bound (search failed high, beta cutoff).
	Cut
	// All entries hold an upper bound (search failed low).
	All
)

func (k NodeKind) String() string {
	switch k {
	case PrincipalVariation:
		return "PV"
	case Cut:
		return "Cut"
	case All:
		return "All"
	default:
		return "?"
	}
}

// TableEntry is a single transposition table record: the position it was
// computed for (by Zobrist key), the depth it was searched to, the best
// move found (if any), and the kind of bound its score represents.
type TableEntry struct {
	Key      uint64
	Depth    int
	BestMove board.Move
	HasMove  bool
	Kind     NodeKind
	Score    board.Score
}

// Stats holds the observability counters spec §6 requires of the
// transposition table: absolute hits, hits broken down by node kind and
// whether they caused a cutoff, and hash-move outcomes.
type Stats struct {
	Probes              uint64
	Hits                 uint64
	PVHits               uint64
	CutHitsBetaCutoff    uint64
	AllHitsAlphaCutoff   uint64
	HashMoveBetaCutoffs  uint64
	HashMoveAlphaImprove uint64
	PVRecorded           uint64
	CutRecorded          uint64
	AllRecorded          uint64
}

// TranspositionTable is a concurrent map from Zobrist key to TableEntry.
// Collision policy is always-overwrite: concurrent writes never corrupt an
// entry (each slot is replaced as a whole under the write lock), but a
// concurrent reader may observe a stale entry from before a write; this is
// acceptable because the searcher legality-checks every hash move before
// trusting it.
type TranspositionTable struct {
	mu      sync.RWMutex
	entries map[uint64]TableEntry

	probes               atomic.Uint64
	hits                 atomic.Uint64
	pvHits               atomic.Uint64
	cutHitsBetaCutoff    atomic.Uint64
	allHitsAlphaCutoff   atomic.Uint64
	hashMoveBetaCutoffs  atomic.Uint64
	hashMoveAlphaImprove atomic.Uint64
	pvRecorded           atomic.Uint64
	cutRecorded          atomic.Uint64
	allRecorded          atomic.Uint64
}

// NewTranspositionTable constructs an empty table.
func NewTranspositionTable() *TranspositionTable {
	return &TranspositionTable{entries: make(map[uint64]TableEntry)}
}

// Query looks up pos's Zobrist key and calls f with the entry found, or nil
// if there is none. The entry is copied under the table's read lock; f
// receives a pointer to that copy and runs after the lock is released.
func (tt *TranspositionTable) Query(pos *board.Position, f func(*TableEntry)) {
	tt.probes.Add(1)
	tt.mu.RLock()
	entry, ok := tt.entries[pos.Hash]
	tt.mu.RUnlock()
	if !ok {
		f(nil)
		return
	}
	tt.hits.Add(1)
	f(&entry)
}

func (tt *TranspositionTable) record(pos *board.Position, entry TableEntry) {
	tt.mu.Lock()
	tt.entries[pos.Hash] = entry
	tt.mu.Unlock()
}

// RecordPV overwrites pos's entry with an exact score.
func (tt *TranspositionTable) RecordPV(pos *board.Position, best board.Move, hasMove bool, depth int, score board.Score) {
	tt.pvRecorded.Add(1)
	tt.record(pos, TableEntry{Key: pos.Hash, Depth: depth, BestMove: best, HasMove: hasMove, Kind: PrincipalVariation, Score: score})
}

// RecordCut overwrites pos's entry with a lower-bound (beta cutoff) score.
func (tt *TranspositionTable) RecordCut(pos *board.Position, best board.Move, hasMove bool, depth int, score board.Score) {
	tt.cutRecorded.Add(1)
	tt.record(pos, TableEntry{Key: pos.Hash, Depth: depth, BestMove: best, HasMove: hasMove, Kind: Cut, Score: score})
}

// RecordAll overwrites pos's entry with an upper-bound (failed-low) score.
// All nodes have no best move: every move was tried and none improved alpha.
func (tt *TranspositionTable) RecordAll(pos *board.Position, depth int, score board.Score) {
	tt.allRecorded.Add(1)
	tt.record(pos, TableEntry{Key: pos.Hash, Depth: depth, Kind: All, Score: score})
}

// NotePVHit records that a PrincipalVariation entry was consulted and used
// to return directly (spec §4.8 step 2).
func (tt *TranspositionTable) NotePVHit() { tt.pvHits.Add(1) }

// NoteCutBetaCutoff records that a Cut entry's score caused an immediate
// beta cutoff.
func (tt *TranspositionTable) NoteCutBetaCutoff() { tt.cutHitsBetaCutoff.Add(1) }

// NoteAllAlphaCutoff records that an All entry's score caused an immediate
// alpha-bound return.
func (tt *TranspositionTable) NoteAllAlphaCutoff() { tt.allHitsAlphaCutoff.Add(1) }

// NoteHashMoveBetaCutoff records that probing the hash move directly
// produced a beta cutoff.
func (tt *TranspositionTable) NoteHashMoveBetaCutoff() { tt.hashMoveBetaCutoffs.Add(1) }

// NoteHashMoveAlphaImprove records that probing the hash move improved
// alpha without causing a cutoff.
func (tt *TranspositionTable) NoteHashMoveAlphaImprove() { tt.hashMoveAlphaImprove.Add(1) }

// Snapshot returns a copy of every entry currently stored, suitable for
// persisting to disk between process runs.
func (tt *TranspositionTable) Snapshot() []TableEntry {
	tt.mu.RLock()
	defer tt.mu.RUnlock()
	out := make([]TableEntry, 0, len(tt.entries))
	for _, e := range tt.entries {
		out = append(out, e)
	}
	return out
}

// LoadSnapshot populates the table from a previously captured Snapshot,
// overwriting any entry already present for a given key.
func (tt *TranspositionTable) LoadSnapshot(entries []TableEntry) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	for _, e := range entries {
		tt.entries[e.Key] = e
	}
}

// Clear empties the table.
func (tt *TranspositionTable) Clear() {
	tt.mu.Lock()
	tt.entries = make(map[uint64]TableEntry)
	tt.mu.Unlock()
}

// Len reports the number of entries currently stored.
func (tt *TranspositionTable) Len() int {
	tt.mu.RLock()
	defer tt.mu.RUnlock()
	return len(tt.entries)
}

// Stats reports a snapshot of the table's observability counters.
func (tt *TranspositionTable) Stats() Stats {
	return Stats{
		Probes:               tt.probes.Load(),
		Hits:                 tt.hits.Load(),
		PVHits:               tt.pvHits.Load(),
		CutHitsBetaCutoff:    tt.cutHitsBetaCutoff.Load(),
		AllHitsAlphaCutoff:   tt.allHitsAlphaCutoff.Load(),
		HashMoveBetaCutoffs:  tt.hashMoveBetaCutoffs.Load(),
		HashMoveAlphaImprove: tt.hashMoveAlphaImprove.Load(),
		PVRecorded:           tt.pvRecorded.Load(),
		CutRecorded:          tt.cutRecorded.Load(),
		AllRecorded:          tt.allRecorded.Load(),
	}
}
