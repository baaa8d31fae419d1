// Package scanner walks a library directory tree, hands sidecar metadata
// files to the parser, and accumulates deduplicated quote records.
package scanner

import (
	"os"
	"path/filepath"

	"github.com/koreader-utils/quotescan/internal/entities"
	"github.com/koreader-utils/quotescan/internal/sidecar"
	"github.com/koreader-utils/quotescan/internal/statistics"
)

// ProgressFunc is invoked once per book-sidecar folder encountered during a
// scan, with the folder's base name.
type ProgressFunc func(folder string)

// Scanner extracts quote records from a directory tree of book sidecars.
type Scanner struct {
	parser   *sidecar.Parser
	stats    *statistics.Reader
	progress ProgressFunc
}

func New() *Scanner {
	return &Scanner{parser: sidecar.NewParser()}
}

// SetProgressFunc installs a per-folder progress callback.
func (s *Scanner) SetProgressFunc(fn ProgressFunc) {
	s.progress = fn
}

// SetStatistics installs an optional reading-statistics database used to
// fill in authors for records whose sidecar carried none.
func (s *Scanner) SetStatistics(reader *statistics.Reader) {
	s.stats = reader
}

// Extract walks the configured root and returns every deduplicated quote
// record found, in discovery order. A missing or non-directory root yields
// zero records, not an error. The run is synchronous and cannot be aborted
// mid-scan.
func (s *Scanner) Extract(opts entities.ScanOptions) ([]entities.QuoteRecord, error) {
	info, err := os.Stat(opts.RootDir)
	if err != nil || !info.IsDir() {
		return nil, nil
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = entities.DefaultMaxDepth
	}

	collected := newCollector()
	s.walk(opts.RootDir, 0, maxDepth, opts.ColorSet(), collected)

	return collected.Records(), nil
}

// enrich fills in the author from the statistics database when the sidecar
// carried none. Runs before deduplication so the dedup key is the enriched
// triple; a highlight harvested with and without its author stays one record.
func (s *Scanner) enrich(record entities.QuoteRecord) entities.QuoteRecord {
	if s.stats != nil && record.Author == "" && record.Book != "" {
		record.Author = s.stats.AuthorForTitle(record.Book)
	}
	return record
}

// walk recurses depth-first. Directories at depth >= maxDepth are not
// descended into; an unreadable directory contributes nothing and the walk
// continues. File handles are scoped to the parser, never held across the
// recursion boundary.
func (s *Scanner) walk(dir string, depth, maxDepth int, colors map[string]bool, collected *collector) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	inSidecarDir := sidecar.IsSidecarDir(filepath.Base(dir))

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if depth >= maxDepth {
				continue
			}
			if sidecar.IsSidecarDir(entry.Name()) && s.progress != nil {
				s.progress(entry.Name())
			}
			s.walk(path, depth+1, maxDepth, colors, collected)
			continue
		}

		if !inSidecarDir || !sidecar.IsMetadataFile(entry.Name()) {
			continue
		}
		for _, record := range s.parser.Parse(path, colors) {
			collected.Add(s.enrich(record))
		}
	}
}
