package documents

import "strings"

// DraftPrefix marks the mutable variant of a document. A draft shares its base
// identifier with the published document.
const DraftPrefix = "drafts."

// BaseID strips the draft prefix.
func BaseID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), DraftPrefix)
}

// DraftID returns the draft identifier for a base or draft id.
func DraftID(id string) string {
	return DraftPrefix + BaseID(id)
}

// IsDraft reports whether id addresses a draft variant.
func IsDraft(id string) bool {
	return strings.HasPrefix(strings.TrimSpace(id), DraftPrefix)
}
