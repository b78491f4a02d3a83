package search

import (
	"sort"

	"github.com/swgillespie/apollo/internal/board"
)

// pieceValue mirrors the evaluator's material weights (spec §4.6), used
// here for promotion/capture static scoring and SEE. King is excluded from
// capture sequences by construction (a king is never the captured piece in
// a legal position).
var pieceValue = [6]int{
	board.Pawn:   1,
	board.Knight: 3,
	board.Bishop: 3,
	board.Rook:   5,
	board.Queen:  9,
	board.King:   2000,
}

// orderMoves sorts moves in place: the hash move (if present among them)
// first, then the remainder by descending static score per spec §4.9.
func orderMoves(pos *board.Position, moves []board.Move, hashMove board.Move, hasHashMove bool) {
	type scored struct {
		move  board.Move
		score int
	}
	paired := make([]scored, len(moves))
	for i, m := range moves {
		s := staticScore(pos, m)
		if hasHashMove && m == hashMove {
			s = 1 << 30
		}
		paired[i] = scored{move: m, score: s}
	}
	sort.SliceStable(paired, func(i, j int) bool {
		return paired[i].score > paired[j].score
	})
	for i, p := range paired {
		moves[i] = p.move
	}
}

// staticScore implements spec §4.9's per-move ordering formula.
func staticScore(pos *board.Position, m board.Move) int {
	switch {
	case m.IsEnPassant():
		// NewEnPassant also sets the capture bit, so this must be checked
		// before IsCapture() or en passant would be scored via SEE instead.
		return 1
	case m.IsCapture() && m.IsPromotion():
		return pieceValue[m.Promotion()] - 1 + see(pos, m.To(), pos.SideToMove)
	case m.IsCapture():
		return see(pos, m.To(), pos.SideToMove)
	case m.IsPromotion():
		return pieceValue[m.Promotion()] - 1
	default:
		return 0
	}
}

// see computes the static exchange evaluation of a capture sequence at
// target, from side's perspective: find the smallest-value attacker of the
// side to move; if none, return 0; otherwise let captured = piece at
// target, recurse on the position with that capture applied, and return
// captured.value - see(target).
func see(pos *board.Position, target board.Square, side board.Color) int {
	vb := board.NewVBoard(pos)
	return seeRecurse(&vb, target, side)
}

func seeRecurse(vb *board.VBoard, target board.Square, side board.Color) int {
	attackers := vb.AttackersTo(target, side)
	if attackers == 0 {
		return 0
	}

	attackerSq, ok := smallestAttacker(vb, attackers)
	if !ok {
		return 0
	}

	capturedType, _, hasTarget := vb.PieceTypeAt(target)
	if !hasTarget {
		return 0
	}
	captured := pieceValue[capturedType]

	next := *vb
	next.ApplyMove(board.NewCapture(attackerSq, target), side)

	return captured - seeRecurse(&next, target, side.Other())
}

// smallestAttacker returns the square of the lowest-value piece among
// attackers, or false if attackers is empty.
func smallestAttacker(vb *board.VBoard, attackers board.Bitboard) (board.Square, bool) {
	best := board.Square(0)
	bestValue := -1
	found := false
	remaining := attackers
	for remaining != 0 {
		sq := remaining.PopLSB()
		pt, _, ok := vb.PieceTypeAt(sq)
		if !ok {
			continue
		}
		v := pieceValue[pt]
		if !found || v < bestValue {
			best, bestValue, found = sq, v, true
		}
	}
	return best, found
}
