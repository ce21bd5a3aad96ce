// Package format renders contact values for display and export.
package format

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// DateLayout is the human-readable date used in lists and exports.
const DateLayout = "Jan 2, 2006"

// Date renders t as "Jan 2, 2006". The zero time renders as "".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Relative describes how long before now t happened, in whole days:
// "Today", "Yesterday", "N days ago", then weeks, months (30 days) and
// years (365 days).
func Relative(t, now time.Time) string {
	days := int(now.Sub(t) / (24 * time.Hour))
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	case days < 365:
		return fmt.Sprintf("%d months ago", days/30)
	}
	return fmt.Sprintf("%d years ago", days/365)
}

// Initials returns the upper-cased first letters of first and last.
func Initials(first, last string) string {
	var b strings.Builder
	for _, s := range []string{first, last} {
		if r, _ := utf8.DecodeRuneInString(s); s != "" {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
