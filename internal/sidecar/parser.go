// Package sidecar parses per-book annotation sidecar files into quote records.
//
// A sidecar is a Lua document named metadata.<ext>.lua inside a companion
// folder with a .sdr suffix, returning a single table with an annotations
// collection and descriptive doc_props/stats fields. Older sidecar revisions
// that cannot be loaded as Lua are handled by a raw quoted-substring scan.
package sidecar

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/koreader-utils/quotescan/internal/entities"
	"github.com/koreader-utils/quotescan/internal/filter"
)

// IsSidecarDir reports whether the directory name follows the book-sidecar
// folder convention.
func IsSidecarDir(name string) bool {
	return strings.HasSuffix(name, ".sdr")
}

// IsMetadataFile reports whether the file name follows the per-book metadata
// naming convention (metadata.epub.lua, metadata.pdf.lua, ...).
func IsMetadataFile(name string) bool {
	return strings.HasPrefix(name, "metadata.") && strings.HasSuffix(name, ".lua")
}

// Patterns for the legacy raw-text fallback: double- and single-quoted
// substrings anywhere in the file.
var (
	doubleQuoted = regexp.MustCompile(`"([^"]+)"`)
	singleQuoted = regexp.MustCompile(`'([^']+)'`)
)

// Parser extracts quote records from sidecar files.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads one sidecar file and returns the quote records it contains.
// A sidecar that cannot be read, that lacks an annotations collection, or
// whose annotations all fail the acceptance filter contributes zero records;
// none of these is an error worth surfacing, since most books simply have no
// highlights.
//
// colors, when non-nil, restricts extraction to annotations tagged with one
// of the allowed highlight colors. The legacy fallback carries no color
// metadata and ignores the filter.
func (p *Parser) Parse(path string, colors map[string]bool) []entities.QuoteRecord {
	doc, err := loadDocument(path)
	if err != nil {
		return p.parseLegacy(path)
	}

	title := doc.title
	if title == "" {
		title = titleFromFolder(path)
	}

	var records []entities.QuoteRecord
	for _, ann := range doc.annotations {
		if !filter.Accept(ann.text) {
			continue
		}
		if colors != nil && !colors[ann.color] {
			continue
		}
		records = append(records, entities.QuoteRecord{
			Text:   filter.Normalize(ann.text),
			Book:   title,
			Author: doc.authors,
		})
	}
	return records
}

// parseLegacy scans the raw file contents for quoted substrings. Each
// substring that passes the acceptance filter becomes a record with empty
// book and author.
func (p *Parser) parseLegacy(path string) []entities.QuoteRecord {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var records []entities.QuoteRecord
	for _, pattern := range []*regexp.Regexp{doubleQuoted, singleQuoted} {
		for _, match := range pattern.FindAllStringSubmatch(string(raw), -1) {
			if !filter.Accept(match[1]) {
				continue
			}
			records = append(records, entities.QuoteRecord{Text: filter.Normalize(match[1])})
		}
	}
	return records
}

// document is the subset of a sidecar table the extractor cares about.
type document struct {
	title       string
	authors     string
	annotations []annotation
}

type annotation struct {
	text  string
	color string
}

// loadDocument evaluates the sidecar as Lua and pulls out the annotation
// collection and metadata fields. Title and authors each resolve from
// doc_props first, then from the stats fallback pair.
func loadDocument(path string) (*document, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("failed to load sidecar: %w", err)
	}

	root, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("sidecar did not return a table")
	}

	doc := &document{}
	docProps, _ := root.RawGetString("doc_props").(*lua.LTable)
	stats, _ := root.RawGetString("stats").(*lua.LTable)

	if docProps != nil {
		doc.title = luaString(docProps.RawGetString("title"))
		doc.authors = authorsString(docProps.RawGetString("authors"))
	}
	if doc.title == "" && stats != nil {
		doc.title = luaString(stats.RawGetString("title"))
	}
	if doc.authors == "" && stats != nil {
		doc.authors = authorsString(stats.RawGetString("authors"))
	}

	annotations, ok := root.RawGetString("annotations").(*lua.LTable)
	if !ok {
		// A book without highlights; zero records, not a legacy sidecar.
		return doc, nil
	}

	annotations.ForEach(func(_, value lua.LValue) {
		entry, ok := value.(*lua.LTable)
		if !ok {
			return
		}
		text := luaString(entry.RawGetString("text"))
		if text == "" {
			text = luaString(entry.RawGetString("note"))
		}
		// "color" is canonical; "drawer" is the legacy key for the same tag.
		color := luaString(entry.RawGetString("color"))
		if color == "" {
			color = luaString(entry.RawGetString("drawer"))
		}
		doc.annotations = append(doc.annotations, annotation{text: text, color: color})
	})

	return doc, nil
}

// titleFromFolder derives a book title from the sidecar folder's own name:
// the .sdr suffix is dropped and underscores/hyphens become spaces.
func titleFromFolder(path string) string {
	name := filepath.Base(filepath.Dir(path))
	name = strings.TrimSuffix(name, ".sdr")
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}

func luaString(v lua.LValue) string {
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// authorsString normalizes the authors field: a single string is used
// verbatim, a list of strings is joined with ", " skipping blank entries.
func authorsString(v lua.LValue) string {
	switch value := v.(type) {
	case lua.LString:
		return string(value)
	case *lua.LTable:
		var parts []string
		value.ForEach(func(_, item lua.LValue) {
			if s, ok := item.(lua.LString); ok && strings.TrimSpace(string(s)) != "" {
				parts = append(parts, string(s))
			}
		})
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
