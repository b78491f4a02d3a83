package uci

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/swgillespie/apollo/internal/board"
	"github.com/swgillespie/apollo/internal/search"
)

// goOptions holds the parsed arguments of a "go" command.
type goOptions struct {
	depth     int
	moveTime  time.Duration
	infinite  bool
	wtime     time.Duration
	btime     time.Duration
	winc      time.Duration
	binc      time.Duration
	movesToGo int
}

func parseGoOptions(args []string) goOptions {
	var opts goOptions
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			i++
			opts.depth = intArg(args, i)
		case "movetime":
			i++
			opts.moveTime = msArg(args, i)
		case "infinite":
			opts.infinite = true
		case "wtime":
			i++
			opts.wtime = msArg(args, i)
		case "btime":
			i++
			opts.btime = msArg(args, i)
		case "winc":
			i++
			opts.winc = msArg(args, i)
		case "binc":
			i++
			opts.binc = msArg(args, i)
		case "movestogo":
			i++
			opts.movesToGo = intArg(args, i)
		}
	}
	return opts
}

func intArg(args []string, i int) int {
	if i >= len(args) {
		return 0
	}
	n, _ := strconv.Atoi(args[i])
	return n
}

func msArg(args []string, i int) time.Duration {
	return time.Duration(intArg(args, i)) * time.Millisecond
}

// handleGo implements "go [depth N] [movetime N] [wtime N btime N winc N
// binc N movestogo N] [infinite]". A book hit is answered immediately and
// short-circuits a search entirely. Otherwise the search runs on its own goroutine so "stop"
// and "quit" keep being read from the main loop.
func (u *UCI) handleGo(args []string, w io.Writer) {
	if u.useBook && u.book != nil {
		if move, ok := u.book.Probe(u.position); ok {
			fmt.Fprintf(w, "bestmove %s\n", move.String())
			return
		}
	}

	opts := parseGoOptions(args)
	maxDepth := opts.depth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	timeBudget := u.timeBudgetFor(opts)

	u.searcher.SetHistory(u.positionHashes)
	u.searching.Store(true)
	u.searchDone = make(chan struct{})

	pos := u.position.Copy()

	go func() {
		defer close(u.searchDone)
		defer u.searching.Store(false)
		start := time.Now()
		result := u.searcher.Search(pos, maxDepth, timeBudget)
		elapsed := time.Since(start)

		u.sendInfo(w, pos, result, elapsed)
		fmt.Fprintf(w, "bestmove %s\n", bestMoveOrFallback(pos, result).String())
	}()
}

// bestMoveOrFallback returns result's best move if it has one, or the
// first legal move in pos otherwise (e.g. the time budget expired or a stop
// was requested before depth 1 finished). It returns board.NoMove only when pos has no legal
// moves at all.
func bestMoveOrFallback(pos *board.Position, result search.Result) board.Move {
	if result.HasMove {
		return result.BestMove
	}
	legal := pos.GenerateLegalMoves()
	if legal.Len() > 0 {
		return legal.Get(0)
	}
	return board.NoMove
}

// timeBudgetFor converts a "go" command's time controls into a single
// wall-clock budget for the move about to be searched, mirroring a simple
// fraction-of-remaining-time allocation: no pondering, no complex time
// management, per spec's Non-goals.
func (u *UCI) timeBudgetFor(opts goOptions) time.Duration {
	if opts.infinite {
		return 0
	}
	if opts.moveTime > 0 {
		return opts.moveTime
	}
	if opts.wtime == 0 && opts.btime == 0 {
		return 0
	}

	var ourTime, ourInc time.Duration
	if u.position.SideToMove == board.White {
		ourTime, ourInc = opts.wtime, opts.winc
	} else {
		ourTime, ourInc = opts.btime, opts.binc
	}

	movesRemaining := opts.movesToGo
	if movesRemaining <= 0 {
		movesRemaining = estimateMovesRemaining(u.position)
	}

	budget := ourTime/time.Duration(movesRemaining) + ourInc*9/10
	if ceiling := ourTime * 9 / 10; budget > ceiling {
		budget = ceiling
	}
	if budget < 10*time.Millisecond {
		budget = 10 * time.Millisecond
	}
	return budget
}

// estimateMovesRemaining guesses how many moves are left in the game from
// the piece count still on the board, the same coarse heuristic the
// teacher's time manager uses.
func estimateMovesRemaining(pos *board.Position) int {
	switch pieces := pos.AllOccupied.PopCount(); {
	case pieces > 24:
		return 40
	case pieces > 12:
		return 30
	default:
		return 20
	}
}
