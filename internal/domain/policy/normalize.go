package policy

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds case and width, drops diacritics and turns everything that is not a
// letter or digit into a single space.
func Normalize(text string) string {
	folded := cases.Fold().String(norm.NFKC.String(text))

	var b strings.Builder
	b.Grow(len(folded))
	space := true
	for _, r := range norm.NFD.String(folded) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			space = false
		default:
			if !space {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	return norm.NFC.String(strings.TrimSpace(b.String()))
}

// Tokens splits normalised text into words.
func Tokens(text string) []string {
	return strings.Fields(Normalize(text))
}
