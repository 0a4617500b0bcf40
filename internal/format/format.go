// Package format holds display helpers for notifications and tables.
package format

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

const (
	DefaultNameLength = 60
	ellipsis          = "..."
)

// TruncateName shortens name to at most max runes including a trailing ellipsis,
// cutting at the last word boundary when the kept prefix has one.
func TruncateName(name string, max int) string {
	name = strings.TrimSpace(name)
	if max <= 0 {
		max = DefaultNameLength
	}
	if utf8.RuneCountInString(name) <= max {
		return name
	}
	if max <= len(ellipsis) {
		return string([]rune(name)[:max])
	}

	runes := []rune(name)
	keep := max - len(ellipsis)
	cut := string(runes[:keep])

	// a space right after the kept prefix means it already ends on a word
	if !unicode.IsSpace(runes[keep]) {
		if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
			cut = cut[:i]
		}
	}
	// a prefix of nothing but punctuation is kept as is
	if trimmed := strings.TrimRightFunc(cut, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}); trimmed != "" {
		cut = trimmed
	}
	return cut + ellipsis
}

// Price renders an amount in rupees, e.g. "Rs. 1,234.50".
func Price(amount float64) string {
	return "Rs. " + humanize.FormatFloat("#,###.##", amount)
}
