package uci

import (
	"fmt"
	"os"
	"strings"

	"github.com/swgillespie/apollo/internal/board"
)

// handlePosition implements "position [fen <fen> | startpos] [moves m1 m2
// ...]". An invalid FEN or move leaves the current position untouched,
// matching spec §7's parse-errors-don't-mutate policy.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var pos *board.Position
	var moveArgs []string

	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
		_, moveArgs = splitOnKeyword(args[1:], "moves")
	case "fen":
		fenArgs, rest := splitOnKeyword(args[1:], "moves")
		fen := strings.Join(fenArgs, " ")
		parsed, err := board.ParseFEN(fen)
		if err != nil {
			if u.debug {
				fmt.Fprintf(os.Stderr, "info string invalid FEN %q: %v\n", fen, err)
			}
			return
		}
		pos = parsed
		moveArgs = rest
	default:
		return
	}

	hashes := []uint64{pos.Hash}
	if err := applyMoves(pos, moveArgs, &hashes); err != nil {
		if u.debug {
			fmt.Fprintf(os.Stderr, "info string %v\n", err)
		}
		return
	}

	u.position = pos
	u.positionHashes = hashes
}

// splitOnKeyword splits args at the first occurrence of keyword, returning
// the elements before it and the elements after it. If keyword never
// appears, before is all of args and after is empty.
func splitOnKeyword(args []string, keyword string) (before, after []string) {
	for i, a := range args {
		if a == keyword {
			return args[:i], args[i+1:]
		}
	}
	return args, nil
}

// applyMoves parses and applies each UCI move string to pos in order,
// appending the resulting Zobrist hash to *hashes after every move. It
// stops at (and reports) the first move that fails to parse, leaving pos
// applied up to that point.
func applyMoves(pos *board.Position, moveStrs []string, hashes *[]uint64) error {
	for _, s := range moveStrs {
		move, err := board.ParseUCIMove(s, pos)
		if err != nil {
			return fmt.Errorf("uci: invalid move %q: %w", s, err)
		}
		pos.ApplyMove(move)
		*hashes = append(*hashes, pos.Hash)
	}
	return nil
}
