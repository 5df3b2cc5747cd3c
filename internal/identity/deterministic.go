// Package identity mints the ids the reconciler writes: deterministic ids for
// materialized documents and array items, and random translation keys.
package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "localesync"

// derive hashes the namespaced parts into a UUID. It returns uuid.Nil when
// every part is blank.
func derive(kind string, parts ...string) uuid.UUID {
	if strings.TrimSpace(strings.Join(parts, "")) == "" {
		return uuid.Nil
	}
	key := namespace + ":" + kind + ":" + strings.Join(parts, ":")
	id, err := hashid.NewUUID(key, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || id == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
	}
	return id
}

func compact(id uuid.UUID, n int) string {
	return strings.ReplaceAll(id.String(), "-", "")[:n]
}

// SiblingDocumentID names the document materialized for a translation group in
// a locale. A dry run and the real run that follows it agree on the id.
func SiblingDocumentID(docType, locale, group string) string {
	return derive("sibling",
		strings.TrimSpace(docType),
		strings.ToLower(strings.TrimSpace(locale)),
		strings.TrimSpace(group),
	).String()
}

// SlugSuffix returns 8 stable hex characters used to break slug collisions.
func SlugSuffix(docType, locale, slug string) string {
	return compact(derive("slug", docType, strings.ToLower(locale), slug), 8)
}

// ArrayKey returns the stable _key of an array item identified by name.
func ArrayKey(name string) string {
	return compact(derive("item", name), 12)
}

// KeyGenerator produces fresh translation keys.
type KeyGenerator func() string

// NewTranslationKey returns a random opaque translation key.
func NewTranslationKey() string {
	return uuid.NewString()
}
