package dateutil

import "testing"

func TestInferCentury(t *testing.T) {
	b1700 := 1700

	tests := []struct {
		name      string
		yy        int
		birthYear *int
		want      int
	}{
		{"within age window picks that century", 30, &b1700, 1730},
		{"no candidate in window picks closest by distance", 5, &b1700, 1705},
		{"no context defaults to 1700s", 99, nil, 1799},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferCentury(tt.yy, tt.birthYear); got != tt.want {
				t.Errorf("InferCentury(%d, %v) = %d, want %d", tt.yy, deref(tt.birthYear), got, tt.want)
			}
		})
	}
}

func deref(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"approximate year-only collapses to abt YYYY", "n 1666", "abt 1666"},
		{"full four-digit-year date", "05.11.1730", "5 November 1730"},
		{"opaque literal passes through", "isoviha", "isoviha"},
		{"unrecognized passes through unchanged", "abt 1666", "abt 1666"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(tt.raw); got != tt.want {
				t.Errorf("FormatDate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormatDateWithContext(t *testing.T) {
	got := FormatDateWithContext("05.11.30", 1700)
	want := "5 November 1730"
	if got != want {
		t.Errorf("FormatDateWithContext(%q, 1700) = %q, want %q", "05.11.30", got, want)
	}
}

func TestFormatDate_Idempotent(t *testing.T) {
	inputs := []string{"n 1666", "05.11.1730", "isoviha", "1730"}
	for _, in := range inputs {
		once := FormatDate(in)
		twice := FormatDate(once)
		if once != twice {
			t.Errorf("FormatDate not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestExtractMarriageYear(t *testing.T) {
	if got := ExtractMarriageYear("78", 1760); got != "1778" {
		t.Errorf("ExtractMarriageYear(%q, 1760) = %q, want %q", "78", got, "1778")
	}
	if got := ExtractMarriageYear("1778", 1760); got != "1778" {
		t.Errorf("ExtractMarriageYear(%q, 1760) = %q, want %q", "1778", got, "1778")
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"1730", 1730, true},
		{"05.11.1730", 1730, true},
		{"isoviha", 0, false},
	}

	for _, tt := range tests {
		year, ok := ParseYear(tt.raw)
		if ok != tt.wantOK || (ok && year != tt.want) {
			t.Errorf("ParseYear(%q) = (%d, %v), want (%d, %v)", tt.raw, year, ok, tt.want, tt.wantOK)
		}
	}
}
