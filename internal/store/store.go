// Package store persists harvested quote records as a flat Lua module the
// e-reader host can load back.
package store

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/koreader-utils/quotescan/internal/entities"
)

const header = "-- Generated by quotescan. Do not edit."

// ErrEmpty is returned when a record is requested from a store that holds
// no quotes.
var ErrEmpty = errors.New("quote store is empty")

// Escape applies the store's string escaping: backslash first, then the
// quote character, then carriage return, then newline. The order avoids
// double-escaping the backslashes the earlier replacements introduce.
func Escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// Store reads and writes the quote store file. Loads are cached in memory;
// every successful write invalidates the cache so a subsequent read observes
// the new data.
type Store struct {
	path string

	mu     sync.Mutex
	cached []entities.QuoteRecord
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Write serializes the records to the store file, fully replacing any
// previous contents. The content goes through a temp file in the destination
// directory followed by a rename, so a failed write leaves the previous
// store intact.
func (s *Store) Write(records []entities.QuoteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.WriteString(header + "\n")
	b.WriteString("local quotes = {\n")
	for _, record := range records {
		fmt.Fprintf(&b, "\t{ text = \"%s\", book = \"%s\", author = \"%s\" },\n",
			Escape(record.Text), Escape(record.Book), Escape(record.Author))
	}
	b.WriteString("}\n")
	b.WriteString("return quotes\n")

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".quotes-*.lua")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace store file: %w", err)
	}

	s.cached = nil
	return nil
}

// Load returns the records currently persisted in the store, in stored
// order. A store file that does not exist yet loads as zero records.
func (s *Store) Load() ([]entities.QuoteRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return s.cached, nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		s.cached = []entities.QuoteRecord{}
		return s.cached, nil
	}

	records, err := readStore(s.path)
	if err != nil {
		return nil, err
	}
	s.cached = records
	return records, nil
}

// Count returns the number of records in the store.
func (s *Store) Count() (int, error) {
	records, err := s.Load()
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Random returns one record drawn uniformly from the store, or ErrEmpty.
func (s *Store) Random() (entities.QuoteRecord, error) {
	records, err := s.Load()
	if err != nil {
		return entities.QuoteRecord{}, err
	}
	if len(records) == 0 {
		return entities.QuoteRecord{}, ErrEmpty
	}
	return records[rand.Intn(len(records))], nil
}

// readStore evaluates the store file as Lua and converts the returned
// collection back into records. Loading through the same interpreter the
// host uses keeps write and read round-trip faithful.
func readStore(path string) ([]entities.QuoteRecord, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("failed to load quote store: %w", err)
	}

	tbl, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("quote store did not return a table")
	}

	records := make([]entities.QuoteRecord, 0, tbl.Len())
	tbl.ForEach(func(_, value lua.LValue) {
		entry, ok := value.(*lua.LTable)
		if !ok {
			return
		}
		records = append(records, entities.QuoteRecord{
			Text:   luaString(entry.RawGetString("text")),
			Book:   luaString(entry.RawGetString("book")),
			Author: luaString(entry.RawGetString("author")),
		})
	})
	return records, nil
}

func luaString(v lua.LValue) string {
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}
