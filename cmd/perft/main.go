// Command perft runs a perft (performance test / move-generator
// correctness check) from a given position, optionally breaking the
// count down by root move ("divide").
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/swgillespie/apollo/internal/board"
)

var (
	depth  = flag.Int("depth", 5, "perft depth, in plies")
	fen    = flag.String("fen", board.StartFEN, "FEN of the position to search from")
	divide = flag.Bool("divide", false, "break the node count down by root move")
)

func main() {
	flag.Parse()

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatalf("perft: invalid FEN %q: %v", *fen, err)
	}

	start := time.Now()
	if *divide {
		runDivide(pos, *depth)
	} else {
		runPerft(pos, *depth)
	}
	elapsed := time.Since(start)
	fmt.Fprintf(os.Stderr, "finished in %s\n", elapsed)
}

func runPerft(pos *board.Position, depth int) {
	start := time.Now()
	nodes := board.Perft(pos, depth)
	elapsed := time.Since(start)

	fmt.Printf("Nodes: %s\n", humanize.Comma(nodes))
	fmt.Printf("Time: %s\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Printf("NPS: %s\n", humanize.Comma(int64(nps)))
	}
}

func runDivide(pos *board.Position, depth int) {
	entries := board.PerftDivide(pos, depth)
	var total int64
	for _, e := range entries {
		fmt.Printf("%s: %s\n", e.Move.String(), humanize.Comma(e.Nodes))
		total += e.Nodes
	}
	fmt.Printf("\nTotal: %s\n", humanize.Comma(total))
}
