package extract

import (
	"regexp"
	"strings"
)

var (
	genericEmailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	roleEmailRe    = regexp.MustCompile(`(?i)\b(?:booking|info|contact|events|music)@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	mailtoRe       = regexp.MustCompile(`(?i)mailto:([a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,})`)
)

// Email scans page text for a contact email address. Three passes run in
// order: generic address tokens, role-prefixed addresses (booking@, info@,
// contact@, events@, music@), and mailto: link targets. Role-prefixed
// candidates win over anything else; otherwise the first address found is
// returned. Returns "" when nothing plausible is present.
func Email(text string) string {
	seen := make(map[string]bool)
	var ordered []string

	add := func(email string) {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" || seen[email] {
			return
		}
		if strings.Contains(email, "noreply") || strings.Contains(email, "example") {
			return
		}
		seen[email] = true
		ordered = append(ordered, email)
	}

	for _, m := range genericEmailRe.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range roleEmailRe.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range mailtoRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}

	for _, email := range ordered {
		if roleEmailRe.MatchString(email) {
			return email
		}
	}
	if len(ordered) > 0 {
		return ordered[0]
	}
	return ""
}
