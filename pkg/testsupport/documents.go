package testsupport

import (
	"maps"

	"github.com/goliatone/go-locale-sync/pkg/interfaces"
)

// Portfolio builds a raw portfolio document.
func Portfolio(id, locale, key, slug string) interfaces.RawDocument {
	doc := base(id, "portfolio", locale, key)
	doc["title"] = "Case " + slug
	if slug != "" {
		doc["slug"] = map[string]any{"_type": "slug", "current": slug}
	}
	return doc
}

// TrustedBy builds a raw trustedBy document with a logo pointing at an asset.
func TrustedBy(id, locale, key, name, slug, portfolioRef string) interfaces.RawDocument {
	doc := base(id, "trustedBy", locale, key)
	if name != "" {
		doc["name"] = name
	}
	if slug != "" {
		doc["slug"] = map[string]any{"_type": "slug", "current": slug}
	}
	doc["logo"] = map[string]any{
		"_type": "image",
		"asset": map[string]any{"_type": "reference", "_ref": "image-" + id + "-200x200-png"},
	}
	if portfolioRef != "" {
		doc["portfolioWork"] = map[string]any{"_type": "reference", "_ref": portfolioRef}
	}
	return doc
}

// Landing builds a landing document referencing trustedBy ids in order.
func Landing(id, locale string, trustedByIDs ...string) interfaces.RawDocument {
	doc := base(id, "landing", locale, "")
	refs := make([]any, 0, len(trustedByIDs))
	for _, ref := range trustedByIDs {
		refs = append(refs, map[string]any{"_type": "reference", "_ref": ref, "_key": "k-" + ref})
	}
	doc["trustedBy"] = refs
	return doc
}

// Dictionary builds a dictionary document holding the given keys.
func Dictionary(id, locale string, keys ...string) interfaces.RawDocument {
	doc := base(id, "dictionary", locale, "")
	entries := make([]any, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, map[string]any{"_type": "entry", "_key": "e-" + key, "key": key, "value": key})
	}
	doc["entries"] = entries
	return doc
}

// Taxonomy builds a non-localized taxonomy document.
func Taxonomy(id, docType, title, slug string) interfaces.RawDocument {
	doc := interfaces.RawDocument{"_id": id, "_type": docType}
	if title != "" {
		doc["title"] = title
	}
	if slug != "" {
		doc["value"] = map[string]any{"_type": "slug", "current": slug}
	}
	return doc
}

// Draft returns a copy of doc stored under its draft id.
func Draft(doc interfaces.RawDocument) interfaces.RawDocument {
	out := maps.Clone(doc)
	out["_id"] = "drafts." + doc["_id"].(string)
	return out
}

// With returns a copy of doc with field set, or removed when value is nil.
func With(doc interfaces.RawDocument, field string, value any) interfaces.RawDocument {
	out := maps.Clone(doc)
	if value == nil {
		delete(out, field)
		return out
	}
	out[field] = value
	return out
}

func base(id, docType, locale, key string) interfaces.RawDocument {
	doc := interfaces.RawDocument{"_id": id, "_type": docType}
	if locale != "" {
		doc["locale"] = locale
	}
	if key != "" {
		doc["translationKey"] = key
	}
	return doc
}
