// Package localesync keeps the locale variants of headless CMS documents in
// step: it materializes missing trustedBy siblings, converges translation keys,
// repairs cross-locale references, orders landing lists and seeds dictionaries.
package localesync

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-locale-sync/internal/commands/synccmd"
	"github.com/goliatone/go-locale-sync/internal/di"
	"github.com/goliatone/go-locale-sync/internal/identity"
	"github.com/goliatone/go-locale-sync/internal/journal"
	"github.com/goliatone/go-locale-sync/internal/reconcile"
	"github.com/goliatone/go-locale-sync/pkg/interfaces"
	"github.com/uptrace/bun"
)

// ErrJournalDisabled is returned by History when no journal is configured.
var ErrJournalDisabled = errors.New("localesync: journal is disabled")

// Result exports a finished run: its plan and write summary.
type Result = reconcile.Result

// Summary exports the per-run write totals.
type Summary = reconcile.Summary

// PairGroup exports one declared portfolio translation group.
type PairGroup = reconcile.PairGroup

// SeedEntry exports a dictionary entry to seed.
type SeedEntry = reconcile.SeedEntry

// JournalEntry exports one persisted write outcome.
type JournalEntry = journal.Entry

// Option customises module wiring.
type Option = di.Option

// WithStore replaces the remote document store.
func WithStore(store interfaces.DocumentStore) Option { return di.WithStore(store) }

// WithLoggerProvider overrides the configured logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithJournalDB records run outcomes into an existing database.
func WithJournalDB(db *bun.DB) Option { return di.WithJournalDB(db) }

// WithKeyGenerator overrides translation key generation.
func WithKeyGenerator(gen func() string) Option { return di.WithKeyGenerator(identity.KeyGenerator(gen)) }

// WithRunIDGenerator overrides run id generation.
func WithRunIDGenerator(gen func() string) Option { return di.WithRunIDGenerator(gen) }

// Module is the top level reconciler façade.
type Module struct {
	container *di.Container
	timeout   time.Duration
}

// New constructs a module from cfg.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying wiring for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// SetTimeout bounds each subsequent run. Zero keeps the command default.
func (m *Module) SetTimeout(timeout time.Duration) {
	m.timeout = timeout
}

// SyncTrustedBy materializes missing trustedBy siblings, converges their
// translation keys and portfolio references, and rewrites landing orders.
func (m *Module) SyncTrustedBy(ctx context.Context) (*Result, error) {
	var out *Result
	h := m.handlers(&out)
	if err := h.SyncTrustedBy.Execute(ctx, synccmd.SyncTrustedByCommand{}); err != nil {
		return nil, err
	}
	return out, nil
}

// RepairReferences repoints trustedBy.portfolioWork to same-locale portfolios.
func (m *Module) RepairReferences(ctx context.Context) (*Result, error) {
	var out *Result
	h := m.handlers(&out)
	if err := h.RepairReferences.Execute(ctx, synccmd.RepairReferencesCommand{}); err != nil {
		return nil, err
	}
	return out, nil
}

// BackfillKeys converges translation keys across declared portfolio groups.
func (m *Module) BackfillKeys(ctx context.Context, groups []PairGroup) (*Result, error) {
	var out *Result
	h := m.handlers(&out)
	if err := h.BackfillKeys.Execute(ctx, synccmd.BackfillKeysCommand{Groups: groups}); err != nil {
		return nil, err
	}
	return out, nil
}

// SeedDictionary appends missing entries to every dictionary variant.
func (m *Module) SeedDictionary(ctx context.Context, entries []SeedEntry, includeTaxonomies bool) (*Result, error) {
	var out *Result
	h := m.handlers(&out)
	if err := h.SeedDictionary.Execute(ctx, synccmd.SeedDictionaryCommand{Entries: entries, IncludeTaxonomies: includeTaxonomies}); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns documents of docType, optionally narrowed to locales.
func (m *Module) List(ctx context.Context, docType string, locales []string) ([]interfaces.RawDocument, error) {
	var docs []interfaces.RawDocument
	h := m.container.Handlers(nil, func(_ context.Context, listed []interfaces.RawDocument) {
		docs = listed
	}, m.timeout)
	if err := h.ListDocuments.Execute(ctx, synccmd.ListDocumentsCommand{DocType: docType, Locales: locales}); err != nil {
		return nil, err
	}
	return docs, nil
}

// History returns the journal entries of runID, or the latest limit entries
// when runID is empty.
func (m *Module) History(ctx context.Context, runID string, limit int) ([]*JournalEntry, error) {
	j := m.container.Journal()
	if j == nil {
		return nil, ErrJournalDisabled
	}
	if runID != "" {
		return j.Entries(ctx, runID)
	}
	return j.Recent(ctx, limit)
}

// Close releases resources opened by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

func (m *Module) handlers(out **Result) di.Handlers {
	return m.container.Handlers(func(_ context.Context, result *Result) {
		*out = result
	}, nil, m.timeout)
}
