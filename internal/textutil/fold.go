package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips combining marks so "Hà Nội" and "ha noi" compare equal.
// Vietnamese "đ" has no decomposition and is mapped to "d" explicitly.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		out = strings.ToLower(s)
	}
	out = strings.ReplaceAll(out, "đ", "d")
	return strings.Join(strings.Fields(out), " ")
}

// Compact removes all whitespace after folding, so "ha noi" matches "hanoi".
func Compact(s string) string {
	return strings.ReplaceAll(Fold(s), " ", "")
}
