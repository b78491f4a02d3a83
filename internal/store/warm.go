package store

import (
	"golang.org/x/sync/errgroup"

	"github.com/swgillespie/apollo/internal/book"
	"github.com/swgillespie/apollo/internal/search"
)

// WarmStartup loads the persisted transposition table and, if prefs names
// a book file, the opening book, concurrently: the two are independent
// and neither blocks on the other. It returns the loaded book, or nil if
// prefs.BookPath is empty.
func (s *Store) WarmStartup(tt *search.TranspositionTable, prefs *Preferences) (*book.Book, error) {
	var loadedBook *book.Book

	var g errgroup.Group
	g.Go(func() error {
		return s.WarmTranspositionTable(tt)
	})
	if prefs.BookPath != "" {
		g.Go(func() error {
			b, err := book.LoadPolyglot(prefs.BookPath)
			if err != nil {
				return err
			}
			loadedBook = b
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return loadedBook, nil
}
