package statistics

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createStatisticsDB(t *testing.T, rows map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "statistics.sqlite3")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE book (
		id INTEGER PRIMARY KEY,
		title TEXT,
		authors TEXT
	)`)
	require.NoError(t, err)

	for title, authors := range rows {
		_, err = db.Exec(`INSERT INTO book (title, authors) VALUES (?, ?)`, title, authors)
		require.NoError(t, err)
	}
	return path
}

func TestReader_AuthorForTitle(t *testing.T) {
	path := createStatisticsDB(t, map[string]string{
		"Walden":       "Henry David Thoreau",
		"Good Omens":   "Terry Pratchett\nNeil Gaiman",
		"The Stranger": "",
	})
	r := NewReader(path)

	assert.Equal(t, "Henry David Thoreau", r.AuthorForTitle("Walden"))
	assert.Equal(t, "Terry Pratchett, Neil Gaiman", r.AuthorForTitle("Good Omens"))
	assert.Equal(t, "", r.AuthorForTitle("The Stranger"))
	assert.Equal(t, "", r.AuthorForTitle("Unknown Book"))
}

func TestReader_MissingDatabase(t *testing.T) {
	r := NewReader(filepath.Join(t.TempDir(), "does-not-exist.sqlite3"))

	assert.Equal(t, "", r.AuthorForTitle("Walden"))
}

func TestReader_NullColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statistics.sqlite3")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE book (id INTEGER PRIMARY KEY, title TEXT, authors TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO book (title, authors) VALUES (NULL, NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	r := NewReader(path)
	require.NoError(t, r.Load())
	assert.Equal(t, "", r.AuthorForTitle(""))
}

func TestNormalizeAuthors(t *testing.T) {
	assert.Equal(t, "Jane Doe", normalizeAuthors("Jane Doe"))
	assert.Equal(t, "Jane Doe, J. Smith", normalizeAuthors("Jane Doe\nJ. Smith"))
	assert.Equal(t, "Jane Doe", normalizeAuthors("\nJane Doe\n  \n"))
}
