package extract

import "testing"

func TestPhone_ParenthesizedAreaCode(t *testing.T) {
	got := Phone("Call us at (919) 555-0134 for bookings")
	if got != "(919) 555-0134" {
		t.Errorf("expected (919) 555-0134, got %q", got)
	}
}

func TestPhone_HyphenSeparated(t *testing.T) {
	got := Phone("Box office: 919-555-0134")
	if got != "(919) 555-0134" {
		t.Errorf("expected (919) 555-0134, got %q", got)
	}
}

func TestPhone_LeadingCountryCode(t *testing.T) {
	got := Phone("1-919-555-0134")
	if got != "(919) 555-0134" {
		t.Errorf("expected (919) 555-0134, got %q", got)
	}
}

func TestPhone_TelLink(t *testing.T) {
	got := Phone(`<a href="tel:+19195550134">call</a>`)
	if got != "(919) 555-0134" {
		t.Errorf("expected (919) 555-0134, got %q", got)
	}
}

func TestPhone_Idempotent(t *testing.T) {
	once := Phone("phone: 919.555.0134")
	twice := Phone(once)
	if once != twice {
		t.Errorf("formatting is not idempotent: %q vs %q", once, twice)
	}
}

func TestPhone_RejectsShortSequences(t *testing.T) {
	if got := Phone("call 555-0134"); got != "" {
		t.Errorf("expected no match for 7-digit number, got %q", got)
	}
}

func TestPhone_NoMatch(t *testing.T) {
	if got := Phone("open tuesday through sunday"); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
