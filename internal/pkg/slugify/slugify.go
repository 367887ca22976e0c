// Package slugify turns titles into URL-safe identifiers.
package slugify

import (
	"strings"
	"unicode"

	"github.com/gosimple/slug"
)

// numericPrefix keeps a slug from ever being read as a numeric id.
const numericPrefix = "post-"

// Generate lowercases, transliterates and hyphenates title. Symbols are
// dropped rather than spelled out, so "Faith & Hope" becomes "faith-hope".
// The result only contains [a-z0-9-], never starts or ends with a hyphen and
// is stable: Generate(Generate(x)) == Generate(x). An empty result means the
// title had nothing usable in it. Uniqueness is left to the database.
func Generate(title string) string {
	s := slug.Make(strings.Map(keepSlugRune, title))
	s = collapseHyphens(s)
	s = strings.Trim(s, "-")

	if s != "" && isDigits(s) {
		s = numericPrefix + s
	}
	return s
}

// Valid reports whether s already has the shape Generate produces.
func Valid(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' || strings.Contains(s, "--") {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-') {
			return false
		}
	}
	return !isDigits(s)
}

// keepSlugRune drops everything but letters, digits, hyphens and whitespace.
// slug.Make would otherwise substitute words for symbols like & and @.
func keepSlugRune(r rune) rune {
	switch {
	case unicode.IsLetter(r), unicode.IsDigit(r), r == '-':
		return r
	case unicode.IsSpace(r):
		return ' '
	}
	return -1
}

func collapseHyphens(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prev := byte(0)
	for i := 0; i < len(s); i++ {
		if s[i] == '-' && prev == '-' {
			continue
		}
		b.WriteByte(s[i])
		prev = s[i]
	}
	return b.String()
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
