package entities

// QuoteRecord is a single harvested highlight or note together with the
// metadata of the book it was taken from. Book and Author may be empty when
// the sidecar carried no usable metadata.
type QuoteRecord struct {
	Text   string `json:"text"`
	Book   string `json:"book,omitempty"`
	Author string `json:"author,omitempty"`
}

// Key returns the composite deduplication key for the record. The unit
// separator cannot appear in well-formed input, so semantically distinct
// records never concatenate to the same key.
func (q QuoteRecord) Key() string {
	return q.Text + "\x1f" + q.Book + "\x1f" + q.Author
}

// DefaultMaxDepth bounds directory recursion when ScanOptions does not set one.
const DefaultMaxDepth = 5

// ScanOptions configures a single extraction run.
type ScanOptions struct {
	// RootDir is the directory to scan. A missing or non-directory root
	// yields zero records, not an error.
	RootDir string

	// MaxDepth is the recursion bound; directories deeper than this are not
	// descended into. Zero means DefaultMaxDepth.
	MaxDepth int

	// Colors restricts extraction to annotations tagged with one of the
	// given highlight colors. Empty means all colors are accepted.
	Colors []string
}

// ColorSet returns the configured colors as a lookup set, or nil when no
// color filter is configured.
func (o ScanOptions) ColorSet() map[string]bool {
	if len(o.Colors) == 0 {
		return nil
	}
	set := make(map[string]bool, len(o.Colors))
	for _, c := range o.Colors {
		set[c] = true
	}
	return set
}
