package money

import "testing"

func TestParseStripsDecoration(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"150000", 150000},
		{"Rp 150.000", 150000},
		{"rp150,000", 150000},
		{" Rp 1.250.000 ", 1250000},
		{"-10000", -10000},
		{"0", 0},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseRejectsGarbageAndEmpty(t *testing.T) {
	for _, in := range []string{"", "  ", "-", "abc", "12x00"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q) should fail", in)
		}
	}
}

func TestParseOrZeroDefaultsToZero(t *testing.T) {
	if got := ParseOrZero("n/a"); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := ParseOrZero("Rp 5.000"); got != 5000 {
		t.Fatalf("expected 5000, got %d", got)
	}
}

func TestCellValueAndDisplay(t *testing.T) {
	if got := CellValue(-3456); got != "-3456" {
		t.Fatalf("CellValue = %q", got)
	}
	if got := Display(1234567); got != "Rp 1.234.567" {
		t.Fatalf("Display = %q", got)
	}
	if got := Display(-2000); got != "Rp -2.000" {
		t.Fatalf("Display negative = %q", got)
	}
}
