package config

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// DetectLocale reads the system locale from environment variables and returns
// it as a BCP 47 tag such as "de-DE". Falls back to "en" if unset or
// unrecognized.
func DetectLocale() string {
	for _, env := range []string{"LC_ALL", "LC_NUMERIC", "LANG", "LANGUAGE"} {
		if v := os.Getenv(env); v != "" {
			return parseLocale(v)
		}
	}
	return "en"
}

// parseLocale converts a POSIX locale string like "de_DE.UTF-8" to a BCP 47
// tag.
func parseLocale(locale string) string {
	// Strip encoding (e.g., ".UTF-8") and modifier (e.g., "@euro")
	if idx := strings.IndexAny(locale, ".@"); idx != -1 {
		locale = locale[:idx]
	}
	// LANGUAGE may hold a colon separated list
	if idx := strings.Index(locale, ":"); idx != -1 {
		locale = locale[:idx]
	}
	locale = strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")

	if locale == "" || locale == "C" || locale == "POSIX" {
		return "en"
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return "en"
	}
	return tag.String()
}

// Tag returns the configured locale as a language tag.
func (c Config) Tag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}
