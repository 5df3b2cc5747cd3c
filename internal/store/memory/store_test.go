package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-locale-sync/internal/store"
	"github.com/goliatone/go-locale-sync/internal/store/memory"
	"github.com/goliatone/go-locale-sync/pkg/interfaces"
)

func seeded() *memory.Store {
	return memory.New(
		interfaces.RawDocument{"_id": "pf-en", "_type": "portfolio", "locale": "en", "translationKey": "k1", "slug": map[string]any{"current": "acme"}},
		interfaces.RawDocument{"_id": "pf-lv", "_type": "portfolio", "locale": "lv", "translationKey": "k1", "slug": map[string]any{"current": "acme-lv"}},
		interfaces.RawDocument{"_id": "tb-en", "_type": "trustedBy", "locale": "en"},
	)
}

func TestQueryFilters(t *testing.T) {
	ctx := context.Background()
	s := seeded()

	docs, err := s.Query(ctx, interfaces.DocumentFilter{Type: "portfolio"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "pf-en", docs[0]["_id"])

	docs, err = s.Query(ctx, interfaces.DocumentFilter{Type: "portfolio", Locales: []string{"lv"}})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "pf-lv", docs[0]["_id"])

	docs, err = s.Query(ctx, interfaces.DocumentFilter{Type: "portfolio", Slug: "acme"})
	require.NoError(t, err)
	require.Len(t, docs, 1)

	docs, err = s.Query(ctx, interfaces.DocumentFilter{TranslationKey: "k1", IDs: []string{"pf-lv"}})
	require.NoError(t, err)
	require.Len(t, docs, 1)
}

func TestPatchMissingDocumentIsNotFound(t *testing.T) {
	err := seeded().Patch(context.Background(), "drafts.pf-en", map[string]any{"translationKey": "k2"})
	assert.True(t, store.IsNotFound(err))
}

func TestPatchAndMutationLog(t *testing.T) {
	ctx := context.Background()
	s := seeded()

	require.NoError(t, s.Patch(ctx, "pf-en", map[string]any{"translationKey": "k2"}))
	doc, ok := s.Get("pf-en")
	require.True(t, ok)
	assert.Equal(t, "k2", doc["translationKey"])

	muts := s.Mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, "patch", muts[0].Op)

	s.ResetMutations()
	assert.Empty(t, s.Mutations())
}

func TestCreateConflictAndReplace(t *testing.T) {
	ctx := context.Background()
	s := seeded()

	_, err := s.Create(ctx, interfaces.RawDocument{"_id": "pf-en", "_type": "portfolio"})
	assert.ErrorIs(t, err, store.ErrConflict)

	created, err := s.Create(ctx, interfaces.RawDocument{"_type": "trustedBy", "locale": "lv"})
	require.NoError(t, err)
	assert.NotEmpty(t, created["_id"])

	_, err = s.CreateOrReplace(ctx, interfaces.RawDocument{"_id": "pf-en", "_type": "portfolio", "locale": "de"})
	require.NoError(t, err)
	doc, _ := s.Get("pf-en")
	assert.Equal(t, "de", doc["locale"])
}

func TestFailOn(t *testing.T) {
	s := seeded()
	boom := errors.New("boom")
	s.FailOn("pf-en", boom)

	assert.ErrorIs(t, s.Patch(context.Background(), "pf-en", map[string]any{"x": 1}), boom)
	assert.Empty(t, s.Mutations())
}

func TestReturnedDocumentsAreCopies(t *testing.T) {
	s := seeded()
	docs, _ := s.Query(context.Background(), interfaces.DocumentFilter{IDs: []string{"pf-en"}})
	docs[0]["translationKey"] = "mutated"

	doc, _ := s.Get("pf-en")
	assert.Equal(t, "k1", doc["translationKey"])
}
