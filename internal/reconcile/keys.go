package reconcile

import (
	"sort"
	"strings"

	"github.com/goliatone/go-locale-sync/internal/identity"
)

// ResolveCanonicalKey picks the translation key a group converges on: the
// first non-empty key in priority order, then the remaining locales
// alphabetically. When no member carries a key a new one is generated and
// generated is true.
func ResolveCanonicalKey(keysByLocale map[string]string, priority []string, gen identity.KeyGenerator) (key string, generated bool) {
	visited := make(map[string]bool, len(priority))
	for _, locale := range priority {
		visited[locale] = true
		if candidate := strings.TrimSpace(keysByLocale[locale]); candidate != "" {
			return candidate, false
		}
	}

	rest := make([]string, 0, len(keysByLocale))
	for locale := range keysByLocale {
		if !visited[locale] {
			rest = append(rest, locale)
		}
	}
	sort.Strings(rest)
	for _, locale := range rest {
		if candidate := strings.TrimSpace(keysByLocale[locale]); candidate != "" {
			return candidate, false
		}
	}

	if gen == nil {
		gen = identity.NewTranslationKey
	}
	return gen(), true
}
