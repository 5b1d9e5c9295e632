package language

import "testing"

func TestToISO2(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"en", "en"},
		{"EN", "en"},
		{" en ", "en"},
		{"eng", "en"},
		{"english", "en"},
		{"English", "en"},
		{"en-US", "en"},
		{"fre", "fr"},
		{"ger", "de"},
		{"", ""},
		{"zz", "zz"},
		{"notalanguage", ""},
	}
	for _, tt := range tests {
		if got := ToISO2(tt.input); got != tt.want {
			t.Errorf("ToISO2(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestToISO3(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"en", "eng"},
		{"english", "eng"},
		{"", "und"},
		{"notalanguage", "und"},
	}
	for _, tt := range tests {
		if got := ToISO3(tt.input); got != tt.want {
			t.Errorf("ToISO3(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("en"); got != "English" {
		t.Fatalf("DisplayName(en) = %q", got)
	}
	if got := DisplayName(""); got != "Unknown" {
		t.Fatalf("DisplayName(\"\") = %q", got)
	}
	if got := DisplayName("notalanguage"); got != "NOTALANGUAGE" {
		t.Fatalf("DisplayName(notalanguage) = %q", got)
	}
}
