package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stopwords are French function words dropped from comparison keys.
var stopwords = map[string]struct{}{
	"de": {}, "du": {}, "la": {}, "le": {}, "les": {}, "des": {},
	"un": {}, "une": {}, "et": {}, "ou": {}, "a": {}, "au": {}, "aux": {},
}

// accentFolder decomposes characters and strips combining marks, turning
// "é" into "e" and "ç" into "c".
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Key reduces a charge description to its canonical comparison key:
// lowercase, accents folded, punctuation replaced by spaces, stopwords
// removed, whitespace collapsed. Key is idempotent.
func Key(text string) string {
	lower := strings.ToLower(text)

	folded, _, err := transform.String(accentFolder, lower)
	if err != nil {
		folded = lower
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	words := strings.Fields(b.String())
	kept := words[:0]
	for _, w := range words {
		if _, stop := stopwords[w]; stop {
			continue
		}
		kept = append(kept, w)
	}

	return strings.Join(kept, " ")
}

// Tokens returns the key's words. The empty key yields no tokens.
func Tokens(text string) []string {
	key := Key(text)
	if key == "" {
		return nil
	}
	return strings.Split(key, " ")
}
