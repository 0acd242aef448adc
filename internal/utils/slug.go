package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters that NFKD leaves intact and would otherwise be dropped.
var foldReplacer = strings.NewReplacer(
	"ł", "l",
	"đ", "d",
	"ø", "o",
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
	"þ", "th",
	"ı", "i",
)

// Slugify lowercases s, folds it to ASCII and joins the remaining
// alphanumeric runs with single hyphens. Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	s = foldReplacer.Replace(strings.ToLower(s))

	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
