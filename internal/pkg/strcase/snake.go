// Package strcase converts Go identifiers to the snake_case used in JSON
// field names and error maps.
package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts an identifier to lower snake_case, keeping
// initialisms together: "AttemptsLeft" -> "attempts_left", "OTPCode" -> "otp_code".
func ToLowerSnake(s string) string {
	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && wordBoundary(runes, i) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// wordBoundary reports whether an upper-case rune at i starts a new word.
func wordBoundary(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
