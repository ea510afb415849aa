// Package textutil holds the small string helpers shared by the catalog,
// account and order domains.
package textutil

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Slugify lower-cases s and joins its letter/digit runs with dashes.
// Non-ASCII letters are kept as-is.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// FirstRune returns the first rune of s upper-cased, or "" for an empty s
func FirstRune(s string) string {
	for _, r := range strings.TrimSpace(s) {
		return string(unicode.ToUpper(r))
	}
	return ""
}

// Prefix returns the first n runes of s
func Prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// RandomToken returns n upper-case hex characters taken from a random UUID
func RandomToken(n int) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(raw) {
		n = len(raw)
	}
	return strings.ToUpper(raw[:n])
}
