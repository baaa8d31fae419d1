// Package harvest ties the scanner and the store into a single workflow:
// extract → persist → report counts.
package harvest

import (
	"fmt"

	"github.com/koreader-utils/quotescan/internal/entities"
)

// Result contains the outcome of a harvest run. Found stays accurate even
// when persisting the store failed, so callers can distinguish "found N but
// failed to save" from "found 0".
type Result struct {
	Found int  `json:"found"`
	Saved bool `json:"saved"`
}

// Extractor yields deduplicated quote records for a configured scan.
type Extractor interface {
	Extract(opts entities.ScanOptions) ([]entities.QuoteRecord, error)
}

// Writer persists a record set, fully replacing the previous store contents.
type Writer interface {
	Write(records []entities.QuoteRecord) error
}

// Pipeline runs the harvest workflow on demand. It holds no state between
// runs; each Harvest call reflects the filesystem at call time.
type Pipeline struct {
	extractor Extractor
	writer    Writer
	opts      entities.ScanOptions
}

// NewPipeline creates a harvest pipeline with the given extraction options.
func NewPipeline(extractor Extractor, writer Writer, opts entities.ScanOptions) *Pipeline {
	return &Pipeline{extractor: extractor, writer: writer, opts: opts}
}

// Harvest extracts highlights and persists them to the store. The returned
// Result carries the record count even when the write failed.
func (p *Pipeline) Harvest() (Result, error) {
	records, err := p.extractor.Extract(p.opts)
	if err != nil {
		return Result{}, fmt.Errorf("extraction failed: %w", err)
	}

	if err := p.writer.Write(records); err != nil {
		return Result{Found: len(records)}, fmt.Errorf("failed to save quote store: %w", err)
	}

	return Result{Found: len(records), Saved: true}, nil
}
