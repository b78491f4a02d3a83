// Command bookgen builds a Polyglot opening book from one or more files
// of PGN-derived UCI move sequences (one game per line, moves separated
// by whitespace, e.g. "e2e4 e7e5 g1f3 b8c6 ..."). Each file is ingested
// concurrently; a move's weight is the number of games in which it was
// played from its position.
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"

	"github.com/swgillespie/apollo/internal/board"
)

var out = flag.String("out", "book.bin.zst", "path to write the zstd-compressed Polyglot book")

func main() {
	flag.Parse()
	files := flag.Args()
	if len(files) == 0 {
		log.Fatal("bookgen: at least one move-sequence file is required")
	}

	counts, err := ingestAll(files)
	if err != nil {
		log.Fatalf("bookgen: %v", err)
	}

	if err := writeBook(*out, counts); err != nil {
		log.Fatalf("bookgen: could not write %s: %v", *out, err)
	}
	fmt.Printf("wrote %d book entries to %s\n", len(counts), *out)
}

// moveCount is a single (position key, move) pair's weight: the number of
// games in the input that played move from that position.
type moveCount struct {
	key  uint64
	move uint16
}

// ingestAll parses every file concurrently and reduces their per-file move
// counts into one combined map. The concurrent part is strictly read-only
// (each goroutine only parses its own file into its own local map); the
// reduction back into a single map happens after every goroutine has
// finished, so no map is ever written from two goroutines at once.
func ingestAll(files []string) (map[moveCount]uint16, error) {
	perFile := make([]map[moveCount]uint16, len(files))

	var g errgroup.Group
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			counts, err := ingestFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			perFile[i] = counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	combined := make(map[moveCount]uint16)
	for _, counts := range perFile {
		for mc, n := range counts {
			combined[mc] = saturatingAdd(combined[mc], n)
		}
	}
	return combined, nil
}

func saturatingAdd(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b)
	if sum > 0xFFFF {
		return 0xFFFF
	}
	return uint16(sum)
}

// ingestFile replays every move sequence in path from the starting
// position, recording each move played along with the Polyglot key of the
// position it was played from.
func ingestFile(path string) (map[moveCount]uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	counts := make(map[moveCount]uint16)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := ingestLine(line, counts); err != nil {
			return nil, err
		}
	}
	return counts, scanner.Err()
}

func ingestLine(line string, counts map[moveCount]uint16) error {
	pos := board.NewPosition()
	for _, s := range strings.Fields(line) {
		move, err := board.ParseUCIMove(s, pos)
		if err != nil {
			return fmt.Errorf("invalid move %q: %w", s, err)
		}
		mc := moveCount{key: pos.PolyglotHash(), move: encodePolyglotMove(move)}
		counts[mc] = saturatingAdd(counts[mc], 1)
		pos.ApplyMove(move)
	}
	return nil
}

// encodePolyglotMove is the inverse of the book package's
// decodePolyglotMove: our Move encoding back to Polyglot's to/from/promo
// bitfield, including its king-captures-rook castling convention.
func encodePolyglotMove(m board.Move) uint16 {
	from, to := m.From(), m.To()

	if m.IsKingsideCastle() {
		to = board.NewSquare(7, int(from)/8)
	} else if m.IsQueensideCastle() {
		to = board.NewSquare(0, int(from)/8)
	}

	data := uint16(to)&7 | (uint16(to)>>3&7)<<3 | (uint16(from)&7)<<6 | (uint16(from)>>3&7)<<9
	if m.IsPromotion() {
		var promo uint16
		switch m.Promotion() {
		case board.Knight:
			promo = 1
		case board.Bishop:
			promo = 2
		case board.Rook:
			promo = 3
		case board.Queen:
			promo = 4
		}
		data |= promo << 12
	}
	return data
}

// writeBook serializes counts as 16-byte Polyglot entries (key, move,
// weight, four zero learn-data bytes), then zstd-compresses the result to
// path.
func writeBook(path string, counts map[moveCount]uint16) error {
	var raw []byte
	entry := make([]byte, 16)
	for mc, weight := range counts {
		binary.BigEndian.PutUint64(entry[0:8], mc.key)
		binary.BigEndian.PutUint16(entry[8:10], mc.move)
		binary.BigEndian.PutUint16(entry[10:12], weight)
		binary.BigEndian.PutUint32(entry[12:16], 0)
		raw = append(raw, entry...)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	defer enc.Close()
	compressed := enc.EncodeAll(raw, nil)

	return os.WriteFile(path, compressed, 0644)
}
