// Package history logs search queries to a small SQLite-backed store so
// a caller (e.g. the demonstration CLI) can show recent activity. This
// is ambient bookkeeping, not part of the indexing core: an Indexer
// works fine with no Store at all.
package history

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const createTable = `
CREATE TABLE IF NOT EXISTS search_history (
	keyword      TEXT NOT NULL,
	result_count INTEGER NOT NULL,
	searched_at  DATETIME NOT NULL
)`

// Entry is one recorded search.
type Entry struct {
	Keyword     string
	ResultCount int
	SearchedAt  time.Time
}

// Store records search queries and their result counts.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Record logs a search for keyword that returned resultCount matches.
func (s *Store) Record(keyword string, resultCount int) error {
	_, err := s.db.Exec(
		"INSERT INTO search_history (keyword, result_count, searched_at) VALUES (?, ?, ?)",
		keyword, resultCount, time.Now().UTC(),
	)
	return err
}

// Recent returns the most recent searches, newest first, up to limit.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		"SELECT keyword, result_count, searched_at FROM search_history ORDER BY searched_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Keyword, &e.ResultCount, &e.SearchedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
