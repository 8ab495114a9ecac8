package extract

import (
	"regexp"
	"strconv"
)

var capacityPatterns = []*regexp.Regexp{
	// Keyword then number: "capacity: 300", "holds up to 450 people"
	regexp.MustCompile(`(?i)(?:capacity|seats|seating|holds|accommodates|occupancy|standing room|standing|fits|room for)\D{0,20}?([\d,]{2,7})`),
	// Number then keyword: "300-capacity room", "450 seat theater"
	regexp.MustCompile(`(?i)([\d,]{2,7})[\s-]*(?:capacity|seats?|person|people|guests|patrons)`),
}

const (
	minCapacity = 50
	maxCapacity = 100000
)

// Capacity scans page text for a venue capacity figure. Integers adjacent to
// capacity-indicating keywords are collected, filtered to the plausible venue
// range [50, 100000], and stripped of false positives: values in [2020, 2030]
// look like calendar years and 4-digit values above 3000 are usually phone or
// address fragments. Returns the largest survivor, or "" if none.
func Capacity(text string) string {
	candidates := make(map[int]bool)

	for _, re := range capacityPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			n, err := strconv.Atoi(stripCommas(m[1]))
			if err != nil {
				continue
			}
			candidates[n] = true
		}
	}

	best := 0
	for n := range candidates {
		if n < minCapacity || n > maxCapacity {
			continue
		}
		if n >= 2020 && n <= 2030 {
			continue
		}
		if n >= 1000 && n <= 9999 && n > 3000 {
			continue
		}
		if n > best {
			best = n
		}
	}

	if best == 0 {
		return ""
	}
	return strconv.Itoa(best)
}

func stripCommas(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
