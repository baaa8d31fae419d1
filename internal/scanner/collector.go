package scanner

import "github.com/koreader-utils/quotescan/internal/entities"

// collector accumulates accepted records while suppressing exact duplicates.
// State is scoped to a single extraction run.
type collector struct {
	seen    map[string]struct{}
	records []entities.QuoteRecord
}

func newCollector() *collector {
	return &collector{seen: make(map[string]struct{})}
}

// Add appends the record unless its (text, book, author) key has already
// been seen in this run. Discovery order is preserved.
func (c *collector) Add(record entities.QuoteRecord) bool {
	key := record.Key()
	if _, dup := c.seen[key]; dup {
		return false
	}
	c.seen[key] = struct{}{}
	c.records = append(c.records, record)
	return true
}

func (c *collector) Records() []entities.QuoteRecord {
	return c.records
}
