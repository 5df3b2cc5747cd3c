package journal

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewEntryRepository creates a repository for journal entries.
func NewEntryRepository(db *bun.DB) repository.Repository[*Entry] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Entry]{
		NewRecord:          func() *Entry { return &Entry{} },
		GetID:              func(entry *Entry) uuid.UUID { return entry.ID },
		SetID:              func(entry *Entry, id uuid.UUID) { entry.ID = id },
		GetIdentifier:      func() string { return "run_id" },
		GetIdentifierValue: func(entry *Entry) string { return entry.RunID },
	})
}

// NewEntryRepositoryWithCache wraps the entry repository with a read-through
// cache when both cacheService and serializer are supplied.
func NewEntryRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) repository.Repository[*Entry] {
	base := NewEntryRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return base
}
