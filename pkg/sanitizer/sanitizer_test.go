package sanitizer

import "testing"

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Van1", "Van1"},
		{"surrounding whitespace", "  Transit 350  ", "Transit 350"},
		{"collapsed internal whitespace", "Ford \t  Transit", "Ford Transit"},
		{"control characters stripped", "Va\x00n\x011", "Van1"},
		{"newlines removed", "Sprinter\n2500", "Sprinter 2500"},
		{"empty", "", ""},
		{"only whitespace", " \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.expected {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
