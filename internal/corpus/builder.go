package corpus

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Row is one passage as it appears in a corpus JSONL file, before indexing.
// Volume and page tolerate both string and numeric JSON values since source
// exports disagree on the type.
type Row struct {
	ID        string      `json:"id"`
	BookTitle string      `json:"book_title_ar"`
	Author    string      `json:"author_ar"`
	SourceRef string      `json:"source_ref_ar"`
	Volume    LooseString `json:"volume"`
	Page      LooseString `json:"page"`
	Text      string      `json:"text_ar"`
}

// LooseString is a string that also accepts JSON numbers when unmarshaling.
type LooseString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *LooseString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = LooseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = LooseString(n.String())
	return nil
}

// valid reports whether the row carries every required field.
func (r Row) valid() bool {
	return r.ID != "" && r.BookTitle != "" && r.Author != "" && r.SourceRef != "" && r.Text != ""
}

var builderSchema = []string{
	`DROP TABLE IF EXISTS passages`,
	`DROP TABLE IF EXISTS passages_fts`,
	`CREATE TABLE passages (
		id TEXT PRIMARY KEY,
		book_title_ar TEXT NOT NULL,
		author_ar TEXT NOT NULL,
		source_ref_ar TEXT NOT NULL,
		volume TEXT,
		page TEXT,
		text_ar TEXT NOT NULL
	)`,
	`CREATE VIRTUAL TABLE passages_fts USING fts5(
		id UNINDEXED,
		text_ar,
		book_title_ar,
		author_ar,
		source_ref_ar,
		tokenize = 'unicode61 remove_diacritics 2'
	)`,
}

// BuildSummary holds counts from one index build.
type BuildSummary struct {
	Indexed int
	Skipped int
}

// BuildIndex reads JSONL passages from inputPath and writes a fresh SQLite
// FTS5 index to outputPath, replacing any existing tables. Rows missing a
// required field are skipped and counted, not fatal. Blank lines are ignored.
func BuildIndex(ctx context.Context, inputPath, outputPath string) (BuildSummary, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return BuildSummary{}, fmt.Errorf("opening input: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()

	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return BuildSummary{}, fmt.Errorf("opening output database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	for _, stmt := range builderSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return BuildSummary{}, fmt.Errorf("creating schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return BuildSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var summary BuildSummary
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var row Row
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			summary.Skipped++
			continue
		}
		row.ID = strings.TrimSpace(row.ID)
		row.BookTitle = strings.TrimSpace(row.BookTitle)
		row.Author = strings.TrimSpace(row.Author)
		row.SourceRef = strings.TrimSpace(row.SourceRef)
		row.Text = strings.TrimSpace(row.Text)
		if !row.valid() {
			summary.Skipped++
			continue
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO passages (id, book_title_ar, author_ar, source_ref_ar, volume, page, text_ar)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			row.ID, row.BookTitle, row.Author, row.SourceRef,
			nullable(string(row.Volume)), nullable(string(row.Page)), row.Text,
		); err != nil {
			return summary, fmt.Errorf("inserting passage %s: %w", row.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO passages_fts (id, text_ar, book_title_ar, author_ar, source_ref_ar)
			 VALUES (?, ?, ?, ?, ?)`,
			row.ID, row.Text, row.BookTitle, row.Author, row.SourceRef,
		); err != nil {
			return summary, fmt.Errorf("indexing passage %s: %w", row.ID, err)
		}
		summary.Indexed++
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("reading input: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing index: %w", err)
	}
	return summary, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
