package mapper

import (
	"strings"
	"unicode"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
)

const _commentPrefix = "#"

// Fingerprint normalizes document text for cache lookups: full line comments and all
// whitespace are removed, so edits to either do not invalidate a cached result.
func Fingerprint(text string) entity.Fingerprint {
	var b strings.Builder
	b.Grow(len(text))
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), _commentPrefix) {
			continue
		}
		for _, r := range line {
			if !unicode.IsSpace(r) {
				b.WriteRune(r)
			}
		}
	}
	return entity.Fingerprint(b.String())
}
