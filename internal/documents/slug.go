package documents

import (
	"strings"

	"github.com/goliatone/go-slug"
)

// Slugify normalizes free text into a slug, stripping diacritics.
func Slugify(value string) string {
	normalized, err := slug.Normalize(strings.TrimSpace(value))
	if err != nil {
		return ""
	}
	return normalized
}

// UniqueSlug picks the first free slug among desired, desired-locale and
// desired-locale-suffix. When desired is empty the fallback seeds it.
func UniqueSlug(desired, fallback, locale string, taken func(string) bool, suffix func(base string) string) string {
	base := strings.TrimSpace(desired)
	if base == "" {
		base = Slugify(fallback)
	}
	if base == "" {
		return locale + "-" + suffix(locale)
	}
	if !taken(base) {
		return base
	}
	candidate := base + "-" + locale
	if !taken(candidate) {
		return candidate
	}
	return candidate + "-" + suffix(candidate)
}
