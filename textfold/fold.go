// Package textfold normalizes text for case- and diacritic-insensitive
// matching of borrower names, statistics keys and catalog search terms.
//
// The folding table covers the Turkish characters that appear in catalog
// and borrower data (ı->i, ş->s, ğ->g, ü->u, ö->o, ç->c) in both cases,
// including the dotted capital İ which plain Unicode lowercasing would
// turn into "i" plus a combining dot.
package textfold

import (
	"strings"
	"unicode"
)

// Fold lowercases s and maps Turkish-specific characters onto their
// ASCII counterparts. The result is only meant for comparisons and map
// keys, never for display.
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch r {
		case 'ı', 'I', 'İ':
			b.WriteRune('i')
		case 'ş', 'Ş':
			b.WriteRune('s')
		case 'ğ', 'Ğ':
			b.WriteRune('g')
		case 'ü', 'Ü':
			b.WriteRune('u')
		case 'ö', 'Ö':
			b.WriteRune('o')
		case 'ç', 'Ç':
			b.WriteRune('c')
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}

	return b.String()
}

// Key builds a canonical lookup key from free-form input: leading and
// trailing whitespace is dropped, runs of inner whitespace collapse to a
// single space, and the remainder is folded.
func Key(s string) string {
	return strings.Join(strings.Fields(Fold(s)), " ")
}

// Contains reports whether needle occurs in haystack after folding both
// sides. An empty needle matches everything.
func Contains(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}

// Equal reports whether two strings are the same after key normalization.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}
