package store

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"

	"github.com/swgillespie/apollo/internal/search"
)

const (
	keyPreferences = "preferences"
	keyTTSnapshot  = "tt_snapshot"
)

// Preferences stores the engine-level settings worth remembering between
// process runs: where to find an opening book and what search limits to
// default to absent explicit UCI `go` parameters.
type Preferences struct {
	BookPath          string        `json:"book_path"`
	DefaultDepth      int           `json:"default_depth"`
	DefaultTimeBudget time.Duration `json:"default_time_budget"`
	LastUsed          time.Time     `json:"last_used"`
}

// DefaultPreferences returns the engine's out-of-the-box settings.
func DefaultPreferences() *Preferences {
	return &Preferences{
		DefaultDepth:      6,
		DefaultTimeBudget: 5 * time.Second,
		LastUsed:          time.Now(),
	}
}

// Store wraps a BadgerDB database for persisting transposition-table
// snapshots and preferences across process restarts.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) the engine's BadgerDB database in the
// platform-specific data directory.
func Open() (*Store, error) {
	dbDir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	return OpenAt(dbDir)
}

// OpenAt opens (creating if necessary) a BadgerDB database at an explicit
// directory, bypassing the platform-specific data directory. Useful for
// tests and for callers that manage their own database location.
func OpenAt(dbDir string) (*Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SavePreferences persists prefs, stamping LastUsed with the current time.
func (s *Store) SavePreferences(prefs *Preferences) error {
	prefs.LastUsed = time.Now()
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads previously saved preferences, or the defaults if
// none have been saved yet.
func (s *Store) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})
	return prefs, err
}

// PersistTranspositionTable serializes tt's current contents to JSON,
// compresses the result with zstd, and writes it to the database. A large
// table compresses well: entries cluster around a handful of distinct
// scores and shallow depths.
func (s *Store) PersistTranspositionTable(tt *search.TranspositionTable) error {
	snapshot := tt.Snapshot()
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	defer enc.Close()
	compressed := enc.EncodeAll(raw, nil)

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyTTSnapshot), compressed)
	})
}

// WarmTranspositionTable reads a previously persisted snapshot and loads
// it into tt. It is a no-op, not an error, if no snapshot has ever been
// saved.
func (s *Store) WarmTranspositionTable(tt *search.TranspositionTable) error {
	var compressed []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyTTSnapshot))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			compressed = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return err
	}
	if compressed == nil {
		return nil
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return err
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return err
	}

	var snapshot []search.TableEntry
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return err
	}
	tt.LoadSnapshot(snapshot)
	return nil
}
