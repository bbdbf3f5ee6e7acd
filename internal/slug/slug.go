// Package slug normalizes store names into URL-safe slugs.
package slug

import (
	"strconv"
	"strings"
	"unicode"
)

// maxLength caps slugs so they stay usable as subdomain labels.
const maxLength = 63

// Make creates a lowercase URL-safe slug from a store name.
// Runs of spaces and special characters collapse into single hyphens,
// common Latin diacritics fold to their ASCII equivalents, and anything
// else is dropped. The result never starts or ends with a hyphen.
func Make(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastWasHyphen := true // avoid a leading hyphen
	count := 0

	for _, r := range name {
		if count >= maxLength {
			break
		}

		r = unicode.ToLower(r)
		if folded, ok := diacriticMap[r]; ok {
			r = folded
		}

		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastWasHyphen = false
			count++
			continue
		}

		if !lastWasHyphen {
			b.WriteByte('-')
			lastWasHyphen = true
			count++
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// WithSuffix appends a numeric collision suffix: WithSuffix("cairo-beans", 2)
// returns "cairo-beans-2". Used when the base slug is already taken.
func WithSuffix(base string, n int) string {
	return base + "-" + strconv.Itoa(n)
}

// diacriticMap folds common Latin diacritics to ASCII. Input runes are
// already lowercased before lookup. Not exhaustive, but covers the
// European alphabets store owners actually use.
var diacriticMap = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a', 'ā': 'a', 'ă': 'a', 'ą': 'a',
	'ç': 'c', 'ć': 'c', 'č': 'c',
	'đ': 'd', 'ď': 'd',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e', 'ē': 'e', 'ė': 'e', 'ę': 'e', 'ě': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i', 'ī': 'i', 'į': 'i',
	'ł': 'l',
	'ñ': 'n', 'ń': 'n', 'ň': 'n',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o', 'ø': 'o', 'ō': 'o',
	'ř': 'r',
	'ś': 's', 'š': 's', 'ș': 's', 'ß': 's',
	'ť': 't', 'ț': 't',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u', 'ū': 'u', 'ů': 'u', 'ų': 'u',
	'ý': 'y', 'ÿ': 'y',
	'ź': 'z', 'ž': 'z', 'ż': 'z',
	'æ': 'a', 'œ': 'o',
}
