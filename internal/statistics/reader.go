// Package statistics reads book metadata from the e-reader's reading
// statistics database (statistics.sqlite3).
package statistics

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Reader provides title → authors lookups from a statistics database. The
// database is read once on first use; a missing or unreadable database means
// every lookup returns "".
type Reader struct {
	dbPath  string
	authors map[string]string
}

// NewReader creates a reader for the given database path.
func NewReader(dbPath string) *Reader {
	return &Reader{dbPath: dbPath}
}

// AuthorForTitle returns the authors recorded for the given book title, or
// the empty string when the title is unknown.
func (r *Reader) AuthorForTitle(title string) string {
	if r.authors == nil {
		if err := r.Load(); err != nil {
			r.authors = map[string]string{}
		}
	}
	return r.authors[title]
}

// Load reads the book table into memory. The reader stores authors with
// newline separators; they are normalized to a comma-joined string.
func (r *Reader) Load() error {
	db, err := sql.Open("sqlite3", r.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open statistics database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT title, authors FROM book`)
	if err != nil {
		return fmt.Errorf("failed to query book table: %w", err)
	}
	defer rows.Close()

	authors := make(map[string]string)
	for rows.Next() {
		var title, bookAuthors sql.NullString
		if err := rows.Scan(&title, &bookAuthors); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		if title.String == "" || bookAuthors.String == "" {
			continue
		}
		authors[title.String] = normalizeAuthors(bookAuthors.String)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}

	r.authors = authors
	return nil
}

func normalizeAuthors(raw string) string {
	var parts []string
	for _, part := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ", ")
}
