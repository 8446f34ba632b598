package payroll

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// TEXT NORMALIZATION - Canonical form for name comparison
// =============================================================================

// DefaultMatchWords is how many leading tokens of a name participate in
// matching: "first name + last name". Trailing qualifiers in event titles
// (payment notes, session numbers) are discarded.
const DefaultMatchWords = 2

// Normalize canonicalizes a string for comparison: lower-case, trimmed,
// diacritics stripped (Latin accents and Greek tonos alike), punctuation
// collapsed into token separators, internal whitespace collapsed to single
// spaces. Pure and total: empty input yields empty output, and the function
// is idempotent.
func Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return ""
	}
	s = removeDiacritics(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeForMatching normalizes and truncates to the first maxWords
// whitespace-separated tokens. maxWords <= 0 falls back to DefaultMatchWords.
func NormalizeForMatching(text string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = DefaultMatchWords
	}
	fields := strings.Fields(Normalize(text))
	if len(fields) > maxWords {
		fields = fields[:maxWords]
	}
	return strings.Join(fields, " ")
}

// removeDiacritics decomposes to NFD and drops combining marks, so that
// "Jóhn" and "Μαρία" compare equal to "John" and "Μαρια". The transform
// chain is built per call; transform chains carry internal buffers and are
// not safe for concurrent reuse.
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
