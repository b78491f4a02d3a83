package uci

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/swgillespie/apollo/internal/board"
	"github.com/swgillespie/apollo/internal/search"
)

// FormatScore renders a board.Score the way spec §6 requires: "cp N" for
// an Evaluated score (converted from pawns to centipawns) or "mate ±N" for
// a forced Win/Loss, N counting full moves rather than plies.
func FormatScore(s board.Score) string {
	switch s.Kind {
	case board.ScoreWin:
		return fmt.Sprintf("mate %d", pliesToMoves(s.Plies))
	case board.ScoreLoss:
		return fmt.Sprintf("mate -%d", pliesToMoves(s.Plies))
	default:
		return fmt.Sprintf("cp %d", int(s.Value*100))
	}
}

func pliesToMoves(plies int) int {
	return (plies + 1) / 2
}

// sendInfo writes a single "info" line summarizing a completed search
// iteration: depth, score, node count, elapsed time, nodes per second, and
// the principal variation recovered from the transposition table. pos is
// the position the search ran from, not u.position, since a concurrent
// "position" command may have already replaced the latter.
func (u *UCI) sendInfo(w io.Writer, pos *board.Position, result search.Result, elapsed time.Duration) {
	parts := []string{
		fmt.Sprintf("depth %d", result.Depth),
		fmt.Sprintf("score %s", FormatScore(result.Score)),
		fmt.Sprintf("nodes %d", result.NodesSearched),
		fmt.Sprintf("time %d", elapsed.Milliseconds()),
	}
	if elapsed > 0 {
		nps := float64(result.NodesSearched) / elapsed.Seconds()
		parts = append(parts, fmt.Sprintf("nps %d", uint64(nps)))
	}
	if pv := u.principalVariation(pos, result.Depth); len(pv) > 0 {
		parts = append(parts, "pv "+strings.Join(pv, " "))
	}
	fmt.Fprintf(w, "info %s\n", strings.Join(parts, " "))
}

// principalVariation renders the searcher's recorded best-move line from
// pos as UCI move strings.
func (u *UCI) principalVariation(pos *board.Position, maxPlies int) []string {
	moves := u.searcher.PrincipalVariation(pos, maxPlies)
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}
