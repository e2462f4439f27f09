// Package money handles rupiah amounts as they round-trip through the shop
// workbook. Amounts are integral rupiah persisted as plain digit strings, but
// cells filled in by hand come back decorated ("Rp 1.250.000", "1,250,000")
// and have to be stripped before parsing.
package money

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts a possibly decorated currency cell into integral rupiah.
// It strips an "Rp" prefix, whitespace, thousands dots and commas. A leading
// minus survives (payment remainders are signed). Empty input is an error;
// callers decide whether that means NotFound or zero.
func Parse(s string) (int64, error) {
	cleaned := clean(s)
	if cleaned == "" || cleaned == "-" {
		return 0, fmt.Errorf("empty currency value %q", s)
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed currency value %q", s)
	}
	return n, nil
}

// ParseOrZero is Parse with the stock-count policy: anything unparseable
// counts as zero.
func ParseOrZero(s string) int64 {
	n, err := Parse(s)
	if err != nil {
		return 0
	}
	return n
}

// CellValue renders an amount the way rows persist it: plain digits, no
// separators, sign included.
func CellValue(n int64) string {
	return strconv.FormatInt(n, 10)
}

// Display renders an amount for humans, with Indonesian thousands dots.
func Display(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return "Rp " + sign + b.String()
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "rp") {
		s = s[2:]
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		case r == '.' || r == ',' || r == ' ':
			// separators dropped; hand-entered cells mix both styles
		default:
			return s // leave garbage in place so ParseInt rejects it
		}
	}
	return b.String()
}
