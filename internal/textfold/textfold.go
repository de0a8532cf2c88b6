// Package textfold normalizes text coming off scanned exam labels.
// OCR-derived classifier output routinely yields fullwidth or composed
// forms ("Ａ．" for "A."), so every letter comparison in the engine goes
// through the same fold.
package textfold

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Fold returns s trimmed, width-narrowed, and NFKC-normalized.
func Fold(s string) string {
	return norm.NFKC.String(width.Narrow.String(strings.TrimSpace(s)))
}

// FirstAlnum returns the first letter or digit rune of the folded text,
// uppercased, or the empty string when the text has none.
func FirstAlnum(s string) string {
	for _, r := range Fold(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return string(unicode.ToUpper(r))
		}
	}
	return ""
}
