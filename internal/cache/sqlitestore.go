package cache

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dekarrin/refa/internal/fa"
)

// sqliteStore persists entries as rows (id, pattern, dfa_blob) in a
// modernc.org/sqlite database, grounded on the teacher's server/dao/sqlite
// package.
type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) a SQLite database under dir
// and returns a Store backed by it.
func NewSQLiteStore(dir string) (Store, error) {
	file := filepath.Join(dir, "cache.db")

	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS patterns (
		id TEXT NOT NULL PRIMARY KEY,
		pattern TEXT NOT NULL UNIQUE,
		dfa_blob BLOB NOT NULL
	);`)
	if err != nil {
		return nil, fmt.Errorf("init cache db: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Compile(pattern string, compileFn func(string) (*fa.DFA, error)) (Entry, error) {
	if e, ok, err := s.GetByPattern(pattern); err != nil {
		return Entry{}, err
	} else if ok {
		return e, nil
	}

	d, err := compileFn(pattern)
	if err != nil {
		return Entry{}, err
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return Entry{}, err
	}

	blob := encodeDFA(d)

	_, err = s.db.Exec(`INSERT INTO patterns (id, pattern, dfa_blob) VALUES (?, ?, ?)`, id.String(), pattern, blob)
	if err != nil {
		return Entry{}, fmt.Errorf("store compiled pattern: %w", err)
	}

	return Entry{ID: id, Pattern: pattern, DFA: d}, nil
}

func (s *sqliteStore) Get(id uuid.UUID) (Entry, bool, error) {
	row := s.db.QueryRow(`SELECT pattern, dfa_blob FROM patterns WHERE id = ?`, id.String())
	return s.scanEntry(id, row)
}

func (s *sqliteStore) GetByPattern(pattern string) (Entry, bool, error) {
	row := s.db.QueryRow(`SELECT id, dfa_blob FROM patterns WHERE pattern = ?`, pattern)

	var idStr string
	var blob []byte
	if err := row.Scan(&idStr, &blob); err != nil {
		if err == sql.ErrNoRows {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("get pattern by text: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return Entry{}, false, fmt.Errorf("parse stored id: %w", err)
	}

	d, err := decodeDFA(blob)
	if err != nil {
		return Entry{}, false, fmt.Errorf("decode stored DFA: %w", err)
	}

	return Entry{ID: id, Pattern: pattern, DFA: d}, true, nil
}

func (s *sqliteStore) scanEntry(id uuid.UUID, row *sql.Row) (Entry, bool, error) {
	var pattern string
	var blob []byte
	if err := row.Scan(&pattern, &blob); err != nil {
		if err == sql.ErrNoRows {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("get pattern by id: %w", err)
	}

	d, err := decodeDFA(blob)
	if err != nil {
		return Entry{}, false, fmt.Errorf("decode stored DFA: %w", err)
	}

	return Entry{ID: id, Pattern: pattern, DFA: d}, true, nil
}

func (s *sqliteStore) Stats() (Stats, error) {
	var count int
	var total int64

	row := s.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(LENGTH(dfa_blob)), 0) FROM patterns`)
	if err := row.Scan(&count, &total); err != nil {
		return Stats{}, fmt.Errorf("compute cache stats: %w", err)
	}

	return Stats{Patterns: count, BytesStored: total}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
