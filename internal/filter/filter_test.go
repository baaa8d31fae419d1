package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccept_RejectsShortStrings(t *testing.T) {
	cases := []struct {
		name      string
		candidate string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t  "},
		{"single word", "hello"},
		{"nineteen characters", strings.Repeat("a", 19)},
		{"nineteen after trimming", "  " + strings.Repeat("a", 19) + "  "},
		{"padded short fragment", "\n\n  short note  \n\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, Accept(tc.candidate))
		})
	}
}

func TestAccept_AcceptsTwentyCharacters(t *testing.T) {
	assert.True(t, Accept(strings.Repeat("a", 20)))
	assert.True(t, Accept("  "+strings.Repeat("a", 20)+"  "))
}

func TestAccept_RejectsPathSeparators(t *testing.T) {
	cases := []struct {
		name      string
		candidate string
	}{
		{"forward slash", "/mnt/books/some/very/long/path/to/a/book.epub"},
		{"backslash", `C:\Users\reader\Documents\books\collection\book.epub`},
		{"slash in long text", "this text is long enough but contains a/slash"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, Accept(tc.candidate))
		})
	}
}

func TestAccept_NewlineInvariance(t *testing.T) {
	plain := "the quick brown fox jumps over the lazy dog"
	withNewlines := "the quick brown fox\njumps over\r\nthe lazy dog"

	assert.True(t, Accept(plain))
	assert.Equal(t, Accept(plain), Accept(withNewlines))
	assert.Equal(t, plain, Normalize(withNewlines))
}

func TestNormalize_CollapsesNewlineRuns(t *testing.T) {
	assert.Equal(t, "first second", Normalize("first\n\n\nsecond"))
	assert.Equal(t, "first second", Normalize("\nfirst\r\nsecond\n"))
}

func TestAccept_CountsRunesNotBytes(t *testing.T) {
	// 20 multi-byte runes must pass even though a byte count would differ
	assert.True(t, Accept(strings.Repeat("ü", 20)))
	assert.False(t, Accept(strings.Repeat("ü", 19)))
}
