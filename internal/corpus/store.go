package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrStoreUnavailable is returned when the corpus index cannot be opened or
// queried (missing or corrupt database file). Fatal for the request; callers
// surface it as a server error rather than an empty result.
var ErrStoreUnavailable = errors.New("corpus store unavailable")

// SnippetMaxRunes bounds the length of passage snippets returned by Search.
const SnippetMaxRunes = 400

const searchSQL = `
	SELECT
		p.id,
		p.book_title_ar,
		p.author_ar,
		p.source_ref_ar,
		p.volume,
		p.page,
		p.text_ar,
		bm25(passages_fts) AS score
	FROM passages_fts
	JOIN passages p ON p.id = passages_fts.id
	WHERE passages_fts MATCH ?
	ORDER BY score ASC
	LIMIT ?`

// Store executes ranked full-text searches against the corpus index.
// The index file is opened read-only on first use, so a Store can be
// constructed before the index exists; every search re-checks availability.
// Safe for concurrent use.
type Store struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// NewStore creates a Store for the SQLite index at path. The file is not
// opened until the first query.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the index file path the store was configured with.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database connection, if one was opened.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) conn() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}

	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("%w: index not found at %s", ErrStoreUnavailable, s.path)
	}

	db, err := sql.Open("sqlite3", "file:"+s.path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrStoreUnavailable, s.path, err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.db = db
	return db, nil
}

// Search runs a ranked FTS5 query over the indexed fields (passage text, book
// title, author, source reference) and returns up to limit passages ordered
// by bm25 score ascending. A query that normalizes to the empty string
// returns no results without touching the store.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Passage, error) {
	if limit < 1 {
		return nil, fmt.Errorf("search limit must be at least 1, got %d", limit)
	}

	normalized := Normalize(query)
	if normalized == "" {
		return nil, nil
	}

	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, searchSQL, matchExpression(normalized), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query failed: %v", ErrStoreUnavailable, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var results []Passage
	for rows.Next() {
		var (
			p            Passage
			volume, page sql.NullString
			text         string
		)
		if err := rows.Scan(&p.ID, &p.BookTitle, &p.Author, &p.SourceRef, &volume, &page, &text, &p.Score); err != nil {
			return nil, fmt.Errorf("scanning passage row: %w", err)
		}
		p.Volume = volume.String
		p.Page = page.String
		p.Snippet = truncateRunes(text, SnippetMaxRunes)
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading passage rows: %w", err)
	}

	return results, nil
}

// Count returns the number of passages in the index. Used by health checks.
func (s *Store) Count(ctx context.Context) (int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM passages").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting passages: %v", ErrStoreUnavailable, err)
	}
	return n, nil
}

// matchExpression turns a normalized query into an FTS5 match expression.
// Terms are quoted, so none is mistaken for an FTS operator, and OR-joined:
// a natural-language question rarely has every word in one passage, and bm25
// still ranks passages matching more terms higher. Deterministic for
// identical input.
func matchExpression(normalized string) string {
	terms := strings.Fields(normalized)
	for i, term := range terms {
		terms[i] = `"` + term + `"`
	}
	return strings.Join(terms, " OR ")
}

// truncateRunes shortens s to at most n runes. Rune-based so Arabic text is
// never cut mid-character.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
