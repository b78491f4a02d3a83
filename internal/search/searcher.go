package search

import (
	"sync/atomic"
	"time"

	"github.com/swgillespie/apollo/internal/board"
)

// Evaluator is the static evaluation function the searcher falls back to
// once the depth budget is exhausted. internal/eval's Evaluator satisfies
// this.
type Evaluator interface {
	Evaluate(pos *board.Position) board.Score
}

// Result is what Search returns: the best move found, its score from the
// perspective of the side to move in the searched position, and
// observability counters.
type Result struct {
	BestMove      board.Move
	HasMove       bool
	Score         board.Score
	NodesSearched uint64
	Depth         int
}

// Searcher runs iterative-deepening negamax alpha-beta search against a
// shared TranspositionTable. A Searcher is single-threaded: the
// transposition table is the only component in this package designed for
// concurrent access.
type Searcher struct {
	tt   *TranspositionTable
	eval Evaluator

	history []uint64 // Zobrist hashes of prior positions, for repetition draws

	nodes    uint64
	deadline time.Time
	timed    bool
	aborted  bool

	stopRequested atomic.Bool
}

// NewSearcher constructs a Searcher over a shared transposition table and
// evaluator.
func NewSearcher(tt *TranspositionTable, eval Evaluator) *Searcher {
	return &Searcher{tt: tt, eval: eval}
}

// SetHistory supplies the Zobrist-hash history of the game so far, used to
// detect repetition draws. Passing nil disables repetition detection.
func (s *Searcher) SetHistory(history []uint64) {
	s.history = history
}

// Nodes returns the number of nodes visited by the most recent Search call.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// RequestStop asks an in-progress Search to abort as soon as convenient,
// returning the best move found so far. Safe to call concurrently from a
// goroutine other than the one running Search.
func (s *Searcher) RequestStop() {
	s.stopRequested.Store(true)
}

// Search runs iterative deepening from depth 1 to maxDepth, returning the
// best move and score found at the deepest depth completed before
// timeBudget elapsed. A non-positive timeBudget means no time limit.
func (s *Searcher) Search(pos *board.Position, maxDepth int, timeBudget time.Duration) Result {
	s.nodes = 0
	s.aborted = false
	s.stopRequested.Store(false)
	if timeBudget > 0 {
		s.deadline = time.Now().Add(timeBudget)
		s.timed = true
	} else {
		s.timed = false
	}

	var best Result
	for depth := 1; depth <= maxDepth; depth++ {
		if s.budgetExceeded() {
			break
		}

		score := s.negamax(pos, depth, board.Loss(0), board.Win(0))
		if s.aborted {
			break
		}

		move, hasMove := s.bestMoveFor(pos)
		best = Result{
			BestMove:      move,
			HasMove:       hasMove,
			Score:         score,
			NodesSearched: s.nodes,
			Depth:         depth,
		}
	}
	return best
}

// bestMoveFor reads the best move the transposition table recorded for pos
// after a completed search, validating it's still a legal move in pos.
func (s *Searcher) bestMoveFor(pos *board.Position) (board.Move, bool) {
	var move board.Move
	var hasMove bool
	s.tt.Query(pos, func(e *TableEntry) {
		if e != nil && e.HasMove {
			move, hasMove = e.BestMove, true
		}
	})
	if !hasMove {
		return board.NoMove, false
	}
	if !pos.GenerateLegalMoves().Contains(move) {
		return board.NoMove, false
	}
	return move, true
}

func (s *Searcher) budgetExceeded() bool {
	return (s.timed && !time.Now().Before(s.deadline)) || s.stopRequested.Load()
}

// evalFromSideToMove evaluates pos and reorients the result to the current
// side to move's perspective; Evaluator always answers from White's.
func (s *Searcher) evalFromSideToMove(pos *board.Position) board.Score {
	score := s.eval.Evaluate(pos)
	if pos.SideToMove == board.Black {
		return score.Negate()
	}
	return score
}

// negamax implements spec §4.8's negamax alpha-beta search from pos's side
// to move's perspective.
func (s *Searcher) negamax(pos *board.Position, depth int, alpha, beta board.Score) board.Score {
	if s.aborted {
		return alpha
	}
	s.nodes++
	if s.nodes&2047 == 0 && s.budgetExceeded() {
		s.aborted = true
		return alpha
	}

	if depth == 0 {
		return s.evalFromSideToMove(pos)
	}

	if s.isRepetitionOrFiftyMove(pos) {
		return board.Evaluated(0)
	}

	var entry *TableEntry
	s.tt.Query(pos, func(e *TableEntry) {
		if e != nil {
			cp := *e
			entry = &cp
		}
	})

	var hashMove board.Move
	var hasHashMove bool
	if entry != nil {
		if entry.HasMove {
			hashMove, hasHashMove = entry.BestMove, true
		}
		if entry.Depth >= depth {
			switch entry.Kind {
			case PrincipalVariation:
				s.tt.NotePVHit()
				return entry.Score.Step()
			case Cut:
				if entry.Score.GreaterOrEqual(beta) {
					s.tt.NoteCutBetaCutoff()
					return beta.Step()
				}
				if entry.Score.Greater(alpha) {
					alpha = entry.Score
				}
			case All:
				if !entry.Score.Greater(alpha) {
					s.tt.NoteAllAlphaCutoff()
					return alpha.Step()
				}
			}
		}
	}

	legalMoves := pos.GenerateLegalMoves()
	improved := false

	if hasHashMove && legalMoves.Contains(hashMove) {
		score := s.searchMove(pos, hashMove, depth, alpha, beta)
		if s.aborted {
			return alpha
		}
		if score.GreaterOrEqual(beta) {
			s.tt.RecordCut(pos, hashMove, true, depth, score)
			s.tt.NoteHashMoveBetaCutoff()
			return beta.Step()
		}
		if score.Greater(alpha) {
			s.tt.RecordPV(pos, hashMove, true, depth, score)
			s.tt.NoteHashMoveAlphaImprove()
			alpha = score
			improved = true
		}
	} else {
		hasHashMove = false
	}

	moves := legalMoves.Slice()
	if len(moves) == 0 {
		if pos.IsCheck(pos.SideToMove) {
			return board.Loss(0).Step()
		}
		return board.Evaluated(0).Step()
	}
	orderMoves(pos, moves, hashMove, hasHashMove)

	for _, m := range moves {
		if hasHashMove && m == hashMove {
			continue
		}
		score := s.searchMove(pos, m, depth, alpha, beta)
		if s.aborted {
			return alpha
		}
		if score.GreaterOrEqual(beta) {
			s.tt.RecordCut(pos, m, true, depth, score)
			return beta.Step()
		}
		if score.Greater(alpha) {
			s.tt.RecordPV(pos, m, true, depth, score)
			alpha = score
			improved = true
		}
	}

	if !improved {
		s.tt.RecordAll(pos, depth, alpha)
	}
	return alpha.Step()
}

// searchMove applies m on a clone of pos and returns the negated score of
// the resulting position searched one ply shallower.
func (s *Searcher) searchMove(pos *board.Position, m board.Move, depth int, alpha, beta board.Score) board.Score {
	clone := pos.Clone()
	clone.ApplyMove(m)
	return s.negamax(clone, depth-1, beta.Negate(), alpha.Negate()).Negate()
}

// isRepetitionOrFiftyMove reports a draw by the fifty-move rule, by
// insufficient material, or by a position already present in the supplied
// history.
func (s *Searcher) isRepetitionOrFiftyMove(pos *board.Position) bool {
	if pos.HalfMoveClock >= 100 {
		return true
	}
	if pos.IsInsufficientMaterial() {
		return true
	}
	for _, h := range s.history {
		if h == pos.Hash {
			return true
		}
	}
	return false
}

// PrincipalVariation follows recorded best moves from pos through the
// transposition table for up to maxPlies plies, stopping at a miss or an
// illegal recorded move.
func (s *Searcher) PrincipalVariation(pos *board.Position, maxPlies int) []board.Move {
	var pv []board.Move
	current := pos
	for i := 0; i < maxPlies; i++ {
		move, hasMove := s.bestMoveFor(current)
		if !hasMove {
			break
		}
		pv = append(pv, move)
		clone := current.Clone()
		clone.ApplyMove(move)
		current = clone
	}
	return pv
}
