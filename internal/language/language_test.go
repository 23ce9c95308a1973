package language

import "testing"

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// 2-letter codes pass through, case-insensitive
		{"en", "en"},
		{"EN", "en"},
		{"es", "es"},
		// 3-letter ISO 639 codes convert
		{"eng", "en"},
		{"spa", "es"},
		{"fra", "fr"},
		{"deu", "de"},
		{"por", "pt"},
		{"jpn", "ja"},
		{"kor", "ko"},
		{"rus", "ru"},
		// Regional tags reduce to the base language
		{"pt-BR", "pt"},
		{"en-US", "en"},
		// Whitespace tolerated
		{" en ", "en"},
		// Unrecognized input
		{"", ""},
		{"not a language", ""},
	}
	for _, tt := range tests {
		if got := ToISO2(tt.input); got != tt.expected {
			t.Errorf("ToISO2(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"es", "Spanish"},
		{"ja", "Japanese"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.input); got != tt.expected {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSame(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"en", "en-US", true},
		{"eng", "en", true},
		{"pt-BR", "pt", true},
		{"en", "es", false},
		{"", "en", false},
		{"", "", false},
	}
	for _, tt := range tests {
		if got := Same(tt.a, tt.b); got != tt.want {
			t.Errorf("Same(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
