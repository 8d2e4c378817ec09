package nameequiv

import (
	"testing"
)

func TestTable_AreEquivalent(t *testing.T) {
	table := newTable([][]string{
		{"Matti", "Matts", "Matthias"},
		{"Maria", "Maja"},
	})

	tests := []struct {
		a, b string
		want bool
	}{
		{"Matti", "Matts", true},
		{"matti", "MATTS", true},
		{"  Matti ", "Matthias", true},
		{"Matti", "Maria", false},
		{"Unlisted", "Unlisted", true},
		{"Unlisted", "Other", false},
	}

	for _, tt := range tests {
		if got := table.AreEquivalent(tt.a, tt.b); got != tt.want {
			t.Errorf("AreEquivalent(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTable_Equivalents(t *testing.T) {
	table := newTable([][]string{
		{"Matti", "Matts", "Matthias"},
	})

	got := table.Equivalents("matts")
	want := map[string]bool{"Matti": true, "Matts": true, "Matthias": true}
	if len(got) != len(want) {
		t.Fatalf("Equivalents(%q) = %v, want members of %v", "matts", got, want)
	}
	for _, name := range got {
		if !want[name] {
			t.Errorf("Equivalents(%q) returned unexpected member %q", "matts", name)
		}
	}

	unlisted := table.Equivalents("Nobody")
	if len(unlisted) != 1 || unlisted[0] != "Nobody" {
		t.Errorf("Equivalents(%q) = %v, want [%q]", "Nobody", unlisted, "Nobody")
	}
}

func TestLoadDefault(t *testing.T) {
	table, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	if !table.AreEquivalent("Matti", "Matts") {
		t.Errorf("expected embedded default table to equate Matti/Matts")
	}
}
