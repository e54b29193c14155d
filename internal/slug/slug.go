// Package slug turns list file names into URL-safe lowercase identifiers.
package slug

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make returns the slug of s. Combining accents are stripped, the rest is
// transliterated to ASCII (ß becomes ss, ø becomes o), everything is
// lowercased, and each run of characters other than ASCII letters and digits
// collapses into a single hyphen. Apostrophes count as separators. Leading
// and trailing hyphens are trimmed. Make is idempotent.
func Make(s string) string {
	plain, _, err := transform.String(stripMarks, s)
	if err != nil {
		plain = s
	}
	ascii := unidecode.Unidecode(plain)

	var b strings.Builder
	b.Grow(len(ascii))
	pendingHyphen := false
	for _, r := range strings.ToLower(ascii) {
		if isAlnum(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
