package documents

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-locale-sync/internal/validation"
	"github.com/goliatone/go-locale-sync/pkg/interfaces"
)

// ErrUnknownType is returned when no schema is registered for a document type.
var ErrUnknownType = errors.New("documents: unknown document type")

// InvalidDocumentError reports a raw document rejected at the boundary.
type InvalidDocumentError struct {
	ID   string
	Type string
	Err  error
}

func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("documents: invalid %s document %q: %v", e.Type, e.ID, e.Err)
}

func (e *InvalidDocumentError) Unwrap() error { return e.Err }

var (
	referenceSchema = map[string]any{
		"type":     "object",
		"required": []any{"_ref"},
		"properties": map[string]any{
			"_ref": map[string]any{"type": "string", "minLength": 1},
			"_key": map[string]any{"type": "string"},
		},
	}
	slugSchema = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"current": map[string]any{"type": "string"},
		},
	}
	nullableString = map[string]any{"type": []any{"string", "null"}}
)

func localizedSchema(docType string, properties map[string]any) map[string]any {
	props := map[string]any{
		"_id":            map[string]any{"type": "string", "minLength": 1},
		"_type":          map[string]any{"const": docType},
		"locale":         map[string]any{"type": "string", "minLength": 1},
		"translationKey": nullableString,
	}
	for name, schema := range properties {
		props[name] = schema
	}
	return map[string]any{
		"type":       "object",
		"required":   []any{"_id", "_type", "locale"},
		"properties": props,
	}
}

func taxonomySchema(docType string) map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"_id", "_type"},
		"properties": map[string]any{
			"_id":   map[string]any{"type": "string", "minLength": 1},
			"_type": map[string]any{"const": docType},
			"title": nullableString,
			"value": slugSchema,
		},
	}
}

var schemas = map[string]*validation.Schema{
	TypePortfolio: validation.MustCompile(TypePortfolio, localizedSchema(TypePortfolio, map[string]any{
		"title": nullableString,
		"slug":  slugSchema,
	})),
	TypeTrustedBy: validation.MustCompile(TypeTrustedBy, localizedSchema(TypeTrustedBy, map[string]any{
		"name":          nullableString,
		"slug":          slugSchema,
		"logo":          map[string]any{"type": []any{"object", "null"}},
		"order":         map[string]any{"type": []any{"number", "null"}},
		"portfolioWork": referenceSchema,
	})),
	TypeLanding: validation.MustCompile(TypeLanding, localizedSchema(TypeLanding, map[string]any{
		"trustedBy": map[string]any{"type": "array", "items": referenceSchema},
	})),
	TypeDictionary: validation.MustCompile(TypeDictionary, localizedSchema(TypeDictionary, map[string]any{
		"entries": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":       "object",
				"required":   []any{"key"},
				"properties": map[string]any{"key": map[string]any{"type": "string"}},
			},
		},
	})),
	TypeServiceType: validation.MustCompile(TypeServiceType, taxonomySchema(TypeServiceType)),
	TypeWorkType:    validation.MustCompile(TypeWorkType, taxonomySchema(TypeWorkType)),
	TypeClientType:  validation.MustCompile(TypeClientType, taxonomySchema(TypeClientType)),
	TypeSkill:       validation.MustCompile(TypeSkill, taxonomySchema(TypeSkill)),
}

// KnownType reports whether docType has a registered schema.
func KnownType(docType string) bool {
	_, ok := schemas[docType]
	return ok
}

// Validate checks a raw document against the schema of docType.
func Validate(docType string, raw interfaces.RawDocument) error {
	schema, ok := schemas[docType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownType, docType)
	}
	if err := schema.Validate(raw); err != nil {
		id, _ := raw["_id"].(string)
		return &InvalidDocumentError{ID: id, Type: docType, Err: err}
	}
	return nil
}

// Decode validates raw against the schema of docType and decodes it into T.
func Decode[T any](docType string, raw interfaces.RawDocument) (T, error) {
	var out T
	if err := Validate(docType, raw); err != nil {
		return out, err
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(encoded, &out); err != nil {
		id, _ := raw["_id"].(string)
		return out, &InvalidDocumentError{ID: id, Type: docType, Err: err}
	}
	return out, nil
}

// DecodeAll decodes every raw document, collecting rejected ones instead of
// failing the batch.
func DecodeAll[T any](docType string, raws []interfaces.RawDocument) ([]T, []error) {
	out := make([]T, 0, len(raws))
	var rejected []error
	for _, raw := range raws {
		doc, err := Decode[T](docType, raw)
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		out = append(out, doc)
	}
	return out, rejected
}

// Encode converts a typed document back to the store representation.
func Encode(doc any) (interfaces.RawDocument, error) {
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	out := interfaces.RawDocument{}
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TaxonomyTypes lists the taxonomy document types in dictionary sync order.
func TaxonomyTypes() []string {
	return []string{TypeServiceType, TypeWorkType, TypeClientType, TypeSkill}
}
