package extract

import "testing"

func TestCapacity_Basic(t *testing.T) {
	if got := Capacity("capacity 450"); got != "450" {
		t.Errorf("expected 450, got %q", got)
	}
}

func TestCapacity_LabeledWithColon(t *testing.T) {
	if got := Capacity("capacity: 300 people"); got != "300" {
		t.Errorf("expected 300, got %q", got)
	}
}

func TestCapacity_YearExcluded(t *testing.T) {
	if got := Capacity("capacity 2024"); got != "" {
		t.Errorf("expected empty for year-like value, got %q", got)
	}
}

func TestCapacity_OutOfRangeExcluded(t *testing.T) {
	if got := Capacity("occupancy 999999"); got != "" {
		t.Errorf("expected empty for out-of-range value, got %q", got)
	}
	if got := Capacity("holds 30"); got != "" {
		t.Errorf("expected empty for tiny value, got %q", got)
	}
}

func TestCapacity_FourDigitOver3000Excluded(t *testing.T) {
	if got := Capacity("seats 8500"); got != "" {
		t.Errorf("expected empty for 4-digit value over 3000, got %q", got)
	}
}

func TestCapacity_FiveDigitAllowed(t *testing.T) {
	if got := Capacity("capacity 12000"); got != "12000" {
		t.Errorf("expected 12000, got %q", got)
	}
}

func TestCapacity_LargestPlausibleWins(t *testing.T) {
	text := "The club holds 150 standing, seats 80, full capacity 200"
	if got := Capacity(text); got != "200" {
		t.Errorf("expected 200, got %q", got)
	}
}

func TestCapacity_NumberBeforeKeyword(t *testing.T) {
	if got := Capacity("a 500-capacity room"); got != "500" {
		t.Errorf("expected 500, got %q", got)
	}
}

func TestCapacity_NoKeyword(t *testing.T) {
	if got := Capacity("established in 1985, open 7 days"); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
