package config

import (
	"testing"

	"golang.org/x/text/language"
)

func TestParseLocale(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"de_DE.UTF-8", "de-DE"},
		{"en_US.UTF-8", "en-US"},
		{"fr_FR", "fr-FR"},
		{"pt_BR.UTF-8@x", "pt-BR"},
		{"de-DE", "de-DE"},
		{"ja", "ja"},
		{"nl_NL:en_US", "nl-NL"},
		{"C", "en"},
		{"POSIX", "en"},
		{"", "en"},
		{"!!!", "en"},
	}

	for _, tt := range tests {
		got := parseLocale(tt.input)
		if got != tt.want {
			t.Errorf("parseLocale(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDetectLocale_LCAll(t *testing.T) {
	t.Setenv("LC_ALL", "fr_FR.UTF-8")
	t.Setenv("LC_NUMERIC", "")
	t.Setenv("LANG", "")
	t.Setenv("LANGUAGE", "")

	if got := DetectLocale(); got != "fr-FR" {
		t.Errorf("DetectLocale() = %q, want fr-FR", got)
	}
}

func TestDetectLocale_Fallback(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_NUMERIC", "")
	t.Setenv("LANG", "")
	t.Setenv("LANGUAGE", "")

	if got := DetectLocale(); got != "en" {
		t.Errorf("DetectLocale() = %q, want en", got)
	}
}

func TestTag(t *testing.T) {
	cfg := Defaults()
	cfg.Locale = "de-DE"
	if cfg.Tag() != language.MustParse("de-DE") {
		t.Errorf("Tag() = %v, want de-DE", cfg.Tag())
	}

	cfg.Locale = "!!!"
	if cfg.Tag() != language.English {
		t.Errorf("Tag() = %v, want en", cfg.Tag())
	}
}
