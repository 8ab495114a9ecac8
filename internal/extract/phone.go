package extract

import (
	"fmt"
	"regexp"
	"strings"
)

var phonePatterns = []*regexp.Regexp{
	// Parenthesized area code: (919) 555-0134
	regexp.MustCompile(`\(\d{3}\)[\s.-]?\d{3}[\s.-]?\d{4}`),
	// Separated: 919-555-0134, 919.555.0134, 1 919 555 0134
	regexp.MustCompile(`\b1?[\s.-]?\d{3}[\s.-]\d{3}[\s.-]\d{4}\b`),
	// tel: links
	regexp.MustCompile(`(?i)tel:\+?([\d\s().-]{7,})`),
	// Labeled numbers: "Phone: 919 555 0134", "call 9195550134"
	regexp.MustCompile(`(?i)(?:phone|tel|call|contact)\s*:?\s*(\+?[\d\s().-]{10,})`),
}

// Phone scans page text for a US-style phone number and normalizes the first
// acceptable match to "(XXX) XXX-XXXX". Matches reduce to digits; only
// 10-digit sequences and 11-digit sequences with a leading 1 are accepted.
// Formatting is idempotent: feeding an already-formatted number back through
// yields the same string.
func Phone(text string) string {
	for _, re := range phonePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			raw := m[0]
			if len(m) > 1 {
				raw = m[1]
			}
			digits := digitsOnly(raw)
			if len(digits) == 11 && digits[0] == '1' {
				digits = digits[1:]
			}
			if len(digits) != 10 {
				continue
			}
			return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
		}
	}
	return ""
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
