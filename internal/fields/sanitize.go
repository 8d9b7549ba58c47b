package fields

import "strings"

// Sanitize restricts a value to letters, digits, space, period, comma,
// slash, and hyphen. Characters outside the whitelist are dropped, not
// replaced, so the result of sanitizing twice equals sanitizing once.
// The tabular pipeline applies this to every value before export; the
// JSON pipeline keeps raw extracted text.
func Sanitize(value string) string {
	var b strings.Builder
	b.Grow(len(value))

	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '.' || r == ',' || r == '/' || r == '-':
			b.WriteRune(r)
		}
	}

	return b.String()
}
