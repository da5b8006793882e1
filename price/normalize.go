// Package price converts scraped price text into numbers and back.
package price

import (
	"strconv"
	"strings"
)

// Normalize converts raw price text such as "12.990.000₫" or
// "1.234.567,89 đ" into a number. The boolean is false when the text holds
// no parsable price; callers must treat that as "absent", not zero.
//
// Separators follow the Vietnamese convention: with both '.' and ',' present
// the dots group thousands and the last comma is the decimal mark; with only
// dots, every dot groups thousands ("1.000.000" is one million). Anything
// still ambiguous after that fails to parse.
func Normalize(text string) (float64, bool) {
	cleaned := strip(text)
	if cleaned == "" {
		return 0, false
	}

	hasDot := strings.Contains(cleaned, ".")
	hasComma := strings.Contains(cleaned, ",")

	switch {
	case hasDot && hasComma:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		if i := strings.LastIndexByte(cleaned, ','); i >= 0 {
			cleaned = cleaned[:i] + "." + cleaned[i+1:]
		}
	case hasDot:
		// "12.990" is twelve thousand nine hundred ninety, not 12.99.
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// strip keeps only ASCII digits, '.' and ','. Text without any digit
// collapses to "".
func strip(text string) string {
	var b strings.Builder
	digits := 0
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			digits++
			b.WriteRune(r)
		case r == '.' || r == ',':
			b.WriteRune(r)
		}
	}
	if digits == 0 {
		return ""
	}
	return b.String()
}
