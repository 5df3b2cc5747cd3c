package documents_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-locale-sync/internal/documents"
	"github.com/goliatone/go-locale-sync/internal/validation"
	"github.com/goliatone/go-locale-sync/pkg/interfaces"
)

func TestDraftIdentifiers(t *testing.T) {
	assert.Equal(t, "abc", documents.BaseID("drafts.abc"))
	assert.Equal(t, "abc", documents.BaseID("abc"))
	assert.Equal(t, "drafts.abc", documents.DraftID("abc"))
	assert.Equal(t, "drafts.abc", documents.DraftID("drafts.abc"))
	assert.True(t, documents.IsDraft("drafts.abc"))
	assert.False(t, documents.IsDraft("abc"))
}

func TestDecodeTrustedBy(t *testing.T) {
	raw := interfaces.RawDocument{
		"_id":            "tb-1",
		"_type":          "trustedBy",
		"locale":         "lv",
		"translationKey": nil,
		"name":           "Acme",
		"slug":           map[string]any{"_type": "slug", "current": "acme"},
		"order":          3,
		"logo": map[string]any{
			"_type": "image",
			"asset": map[string]any{"_type": "reference", "_ref": "image-1"},
		},
		"portfolioWork": map[string]any{"_type": "reference", "_ref": "pf-en"},
	}

	doc, err := documents.Decode[documents.TrustedBy](documents.TypeTrustedBy, raw)
	require.NoError(t, err)
	assert.Equal(t, "tb-1", doc.DocumentID())
	assert.Equal(t, "lv", doc.DocumentLocale())
	assert.Empty(t, doc.GroupKey())
	assert.Equal(t, "acme", doc.SlugValue())
	assert.Equal(t, "pf-en", doc.PortfolioRef())
	require.NotNil(t, doc.Order)
	assert.Equal(t, 3.0, *doc.Order)
	assert.True(t, doc.Logo.HasAsset())
}

func TestDecodeRejectsMissingLocale(t *testing.T) {
	raw := interfaces.RawDocument{"_id": "pf-1", "_type": "portfolio", "title": "x"}

	_, err := documents.Decode[documents.Portfolio](documents.TypePortfolio, raw)
	require.Error(t, err)

	var invalid *documents.InvalidDocumentError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "pf-1", invalid.ID)
	assert.ErrorIs(t, err, validation.ErrSchemaValidation)
	assert.NotEmpty(t, validation.Issues(err))
}

func TestDecodeRejectsWrongType(t *testing.T) {
	raw := interfaces.RawDocument{"_id": "pf-1", "_type": "landing", "locale": "en"}
	_, err := documents.Decode[documents.Portfolio](documents.TypePortfolio, raw)
	assert.Error(t, err)
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := documents.Decode[documents.Portfolio]("page", interfaces.RawDocument{})
	assert.ErrorIs(t, err, documents.ErrUnknownType)
}

func TestDecodeAllCollectsRejected(t *testing.T) {
	raws := []interfaces.RawDocument{
		{"_id": "a", "_type": "portfolio", "locale": "en"},
		{"_id": "b", "_type": "portfolio"},
	}
	docs, rejected := documents.DecodeAll[documents.Portfolio](documents.TypePortfolio, raws)
	assert.Len(t, docs, 1)
	assert.Len(t, rejected, 1)
}

func TestEncodeRoundTripsReference(t *testing.T) {
	raw, err := documents.Encode(documents.TrustedBy{
		Meta:          documents.Meta{ID: "x", Type: documents.TypeTrustedBy, Locale: "en"},
		PortfolioWork: &documents.Reference{Type: "reference", Ref: "pf"},
	})
	require.NoError(t, err)
	ref, ok := raw["portfolioWork"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pf", ref["_ref"])
	_, hasSlug := raw["slug"]
	assert.False(t, hasSlug)
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"acme": true, "acme-lv": true}
	isTaken := func(s string) bool { return taken[s] }
	suffix := func(string) string { return "1234abcd" }

	assert.Equal(t, "other", documents.UniqueSlug("other", "", "lv", isTaken, suffix))
	assert.Equal(t, "acme-lv-1234abcd", documents.UniqueSlug("acme", "", "lv", isTaken, suffix))
	assert.Equal(t, "acme-en", documents.UniqueSlug("acme", "", "en", isTaken, suffix))
	assert.Equal(t, "lv-1234abcd", documents.UniqueSlug("", "", "lv", isTaken, suffix))
}

func TestDictionaryHasKey(t *testing.T) {
	dict := documents.Dictionary{Entries: []documents.DictionaryEntry{{Key: "nav.portfolio"}}}
	assert.True(t, dict.HasKey("nav.portfolio"))
	assert.False(t, dict.HasKey("footer.termsOfUse"))
}

func TestKnownType(t *testing.T) {
	assert.True(t, documents.KnownType(documents.TypeTrustedBy))
	assert.True(t, documents.KnownType(documents.TypeSkill))
	assert.False(t, documents.KnownType("page"))
}
