package validation

import (
	"strings"
	"testing"
)

func TestIsValidURL(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"https://example.com", true},
		{"https://example.com:8080/path", true},
		{"https://acme.example/cases", true},
		{"http://example.com", false},
		{"example.com", false},
		{"https://", false},
		{"https://exa mple.com", false},
		{"ftp://example.com", false},
	}
	for _, tc := range cases {
		if got := IsValidURL(tc.input); got != tc.want {
			t.Fatalf("IsValidURL(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestIsValidDisplayNameCountsBytes(t *testing.T) {
	ascii63 := strings.Repeat("a", 63)
	ascii64 := strings.Repeat("a", 64)
	// 32 two-byte runes encode to 64 bytes.
	cyrillic := strings.Repeat("д", 32)

	if !IsValidDisplayName(ascii63) {
		t.Fatal("expected 63 byte name to be valid")
	}
	if IsValidDisplayName(ascii64) {
		t.Fatal("expected 64 byte name to be rejected")
	}
	if IsValidDisplayName(cyrillic) {
		t.Fatal("expected 64 byte cyrillic name to be rejected")
	}
	if !IsValidDisplayName(strings.Repeat("д", 31)) {
		t.Fatal("expected 62 byte cyrillic name to be valid")
	}
}

func TestIsValidPhone(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"+7 (999) 123-45-67", true},
		{"8.999.123.45.67", true},
		{"12345", true},
		{"1234", false},
		{"+", false},
		{"phone", false},
		{"+7999123456789012345678901234", false},
	}
	for _, tc := range cases {
		if got := IsValidPhone(tc.input); got != tc.want {
			t.Fatalf("IsValidPhone(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestIsValidRating(t *testing.T) {
	cases := map[string]bool{
		"0":   false,
		"1":   true,
		"10":  true,
		"11":  false,
		"abc": false,
		"":    false,
		"-1":  false,
		"05":  true,
	}
	for input, want := range cases {
		if got := IsValidRating(input); got != want {
			t.Fatalf("IsValidRating(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestCaptionFits(t *testing.T) {
	if !CaptionFits(strings.Repeat("я", MaxCaptionLength)) {
		t.Fatal("expected caption at limit to fit")
	}
	if CaptionFits(strings.Repeat("a", MaxCaptionLength+1)) {
		t.Fatal("expected caption over limit to be rejected")
	}
}
