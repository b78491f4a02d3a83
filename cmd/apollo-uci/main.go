// Command apollo-uci is a UCI-speaking chess engine binary wiring
// internal/board, internal/eval, internal/search, and internal/store
// behind the internal/uci protocol shell.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/swgillespie/apollo/internal/eval"
	"github.com/swgillespie/apollo/internal/search"
	"github.com/swgillespie/apollo/internal/store"
	"github.com/swgillespie/apollo/internal/uci"
)

var bookPath = flag.String("book", "", "path to a Polyglot opening book (overrides the saved preference)")

func main() {
	flag.Parse()

	s, err := store.Open()
	if err != nil {
		log.Fatalf("apollo-uci: could not open data store: %v", err)
	}
	defer s.Close()

	prefs, err := s.LoadPreferences()
	if err != nil {
		log.Fatalf("apollo-uci: could not load preferences: %v", err)
	}
	if *bookPath != "" {
		prefs.BookPath = *bookPath
	}

	tt := search.NewTranspositionTable()
	start := time.Now()
	openingBook, err := s.WarmStartup(tt, prefs)
	if err != nil {
		log.Printf("apollo-uci: warm start failed, continuing cold: %v", err)
	} else if tt.Len() > 0 {
		log.Printf("apollo-uci: warmed %s transposition table entries in %s",
			humanize.Comma(int64(tt.Len())), time.Since(start))
	}

	searcher := search.NewSearcher(tt, eval.NewEvaluator())
	protocol := uci.New(searcher, tt)
	if openingBook != nil {
		protocol.SetBook(openingBook)
	}

	protocol.Run(os.Stdin, os.Stdout)

	if err := s.PersistTranspositionTable(tt); err != nil {
		log.Printf("apollo-uci: could not persist transposition table: %v", err)
	}
	if err := s.SavePreferences(prefs); err != nil {
		log.Printf("apollo-uci: could not save preferences: %v", err)
	}
}
