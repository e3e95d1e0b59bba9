package sanitizer

import (
	"reflect"
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only spaces", "   ", ""},
		{"leading and trailing", "  Sunrise Hostel  ", "Sunrise Hostel"},
		{"inner runs collapsed", "3   months\t(summer)", "3 months (summer)"},
		{"newlines collapsed", "Block A\nRoom 4", "Block A Room 4"},
		{"case preserved", "MG Road, Bengaluru", "MG Road, Bengaluru"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeSlice(t *testing.T) {
	got := SanitizeSlice([]string{" WiFi ", "wifi", "", "Laundry", "  "}, SanitizeDisplayText)
	want := []string{"WiFi", "Laundry"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SanitizeSlice = %v, want %v", got, want)
	}
}

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"plain https", "https://cdn.example.com/img/1.jpg", "https://cdn.example.com/img/1.jpg"},
		{"trailing slash dropped", "https://cdn.example.com/img/", "https://cdn.example.com/img"},
		{"host lowercased", "https://CDN.Example.COM/a.png", "https://cdn.example.com/a.png"},
		{"no scheme rejected", "cdn.example.com/a.png", ""},
		{"non-http scheme rejected", "ftp://cdn.example.com/a.png", ""},
		{"garbage rejected", "::::", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeURL(tt.input); got != tt.expected {
				t.Errorf("SanitizeURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
