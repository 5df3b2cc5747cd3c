package interfaces

import "context"

// RawDocument is the loosely typed field bag exchanged with the document store.
// It never travels past the decoding boundary in internal/documents.
type RawDocument = map[string]any

// DocumentFilter narrows a query to one document type. Empty fields are ignored.
type DocumentFilter struct {
	Type           string
	Locales        []string
	Slug           string
	TranslationKey string
	IDs            []string
}

// DocumentStore is the document database the reconciler runs against. It
// offers exactly four verbs; drafts are addressed through their own prefixed
// identifiers.
type DocumentStore interface {
	// Query returns every document matching the filter, drafts included.
	Query(ctx context.Context, filter DocumentFilter) ([]RawDocument, error)
	// Patch sets the supplied top-level fields on the document with the given id.
	Patch(ctx context.Context, id string, set map[string]any) error
	// Create inserts a new document. The document may carry its own _id.
	Create(ctx context.Context, doc RawDocument) (RawDocument, error)
	// CreateOrReplace writes the document under its explicit _id.
	CreateOrReplace(ctx context.Context, doc RawDocument) (RawDocument, error)
}
