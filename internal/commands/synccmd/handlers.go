package synccmd

import (
	"context"

	"github.com/goliatone/go-locale-sync/internal/commands"
	"github.com/goliatone/go-locale-sync/internal/reconcile"
	"github.com/goliatone/go-locale-sync/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// Reconciler is the run surface the handlers drive.
type Reconciler interface {
	SyncTrustedBy(ctx context.Context) (*reconcile.Result, error)
	RepairReferences(ctx context.Context) (*reconcile.Result, error)
	BackfillKeys(ctx context.Context, groups []reconcile.PairGroup) (*reconcile.Result, error)
	SeedDictionary(ctx context.Context, seeds []reconcile.SeedEntry, includeTaxonomies bool) (*reconcile.Result, error)
	List(ctx context.Context, docType string, locales []string) ([]interfaces.RawDocument, error)
}

var _ Reconciler = (*reconcile.Service)(nil)

// ResultSink receives the result of a finished run.
type ResultSink func(ctx context.Context, result *reconcile.Result)

// DocumentSink receives listed documents.
type DocumentSink func(ctx context.Context, docs []interfaces.RawDocument)

// SyncTrustedByHandler runs the trustedBy reconciliation.
type SyncTrustedByHandler struct {
	inner *commands.Handler[SyncTrustedByCommand]
}

// NewSyncTrustedByHandler constructs a handler around svc.
func NewSyncTrustedByHandler(svc Reconciler, logger interfaces.Logger, sink ResultSink, opts ...commands.HandlerOption[SyncTrustedByCommand]) *SyncTrustedByHandler {
	exec := func(ctx context.Context, _ SyncTrustedByCommand) error {
		return deliver(ctx, sink)(svc.SyncTrustedBy(ctx))
	}
	return &SyncTrustedByHandler{
		inner: commands.NewHandler[SyncTrustedByCommand](exec, handlerOptions(logger, "sync.trusted_by", opts)...),
	}
}

// Execute satisfies command.Commander[SyncTrustedByCommand].Execute.
func (h *SyncTrustedByHandler) Execute(ctx context.Context, msg SyncTrustedByCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RepairReferencesHandler runs the portfolioWork reference repair.
type RepairReferencesHandler struct {
	inner *commands.Handler[RepairReferencesCommand]
}

// NewRepairReferencesHandler constructs a handler around svc.
func NewRepairReferencesHandler(svc Reconciler, logger interfaces.Logger, sink ResultSink, opts ...commands.HandlerOption[RepairReferencesCommand]) *RepairReferencesHandler {
	exec := func(ctx context.Context, _ RepairReferencesCommand) error {
		return deliver(ctx, sink)(svc.RepairReferences(ctx))
	}
	return &RepairReferencesHandler{
		inner: commands.NewHandler[RepairReferencesCommand](exec, handlerOptions(logger, "sync.references", opts)...),
	}
}

// Execute satisfies command.Commander[RepairReferencesCommand].Execute.
func (h *RepairReferencesHandler) Execute(ctx context.Context, msg RepairReferencesCommand) error {
	return h.inner.Execute(ctx, msg)
}

// BackfillKeysHandler converges declared portfolio group keys.
type BackfillKeysHandler struct {
	inner *commands.Handler[BackfillKeysCommand]
}

// NewBackfillKeysHandler constructs a handler around svc.
func NewBackfillKeysHandler(svc Reconciler, logger interfaces.Logger, sink ResultSink, opts ...commands.HandlerOption[BackfillKeysCommand]) *BackfillKeysHandler {
	exec := func(ctx context.Context, msg BackfillKeysCommand) error {
		return deliver(ctx, sink)(svc.BackfillKeys(ctx, msg.Groups))
	}
	return &BackfillKeysHandler{
		inner: commands.NewHandler[BackfillKeysCommand](exec, handlerOptions(logger, "sync.keys", opts)...),
	}
}

// Execute satisfies command.Commander[BackfillKeysCommand].Execute.
func (h *BackfillKeysHandler) Execute(ctx context.Context, msg BackfillKeysCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SeedDictionaryHandler appends missing dictionary keys.
type SeedDictionaryHandler struct {
	inner *commands.Handler[SeedDictionaryCommand]
}

// NewSeedDictionaryHandler constructs a handler around svc.
func NewSeedDictionaryHandler(svc Reconciler, logger interfaces.Logger, sink ResultSink, opts ...commands.HandlerOption[SeedDictionaryCommand]) *SeedDictionaryHandler {
	exec := func(ctx context.Context, msg SeedDictionaryCommand) error {
		return deliver(ctx, sink)(svc.SeedDictionary(ctx, msg.Entries, msg.IncludeTaxonomies))
	}
	return &SeedDictionaryHandler{
		inner: commands.NewHandler[SeedDictionaryCommand](exec, handlerOptions(logger, "sync.dictionary", opts)...),
	}
}

// Execute satisfies command.Commander[SeedDictionaryCommand].Execute.
func (h *SeedDictionaryHandler) Execute(ctx context.Context, msg SeedDictionaryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ListDocumentsHandler reads documents of one type.
type ListDocumentsHandler struct {
	inner *commands.Handler[ListDocumentsCommand]
}

// NewListDocumentsHandler constructs a handler around svc.
func NewListDocumentsHandler(svc Reconciler, logger interfaces.Logger, sink DocumentSink, opts ...commands.HandlerOption[ListDocumentsCommand]) *ListDocumentsHandler {
	exec := func(ctx context.Context, msg ListDocumentsCommand) error {
		docs, err := svc.List(ctx, msg.DocType, msg.Locales)
		if err != nil {
			return err
		}
		if sink != nil {
			sink(ctx, docs)
		}
		return nil
	}
	return &ListDocumentsHandler{
		inner: commands.NewHandler[ListDocumentsCommand](exec, handlerOptions(logger, "documents.list", opts)...),
	}
}

// Execute satisfies command.Commander[ListDocumentsCommand].Execute.
func (h *ListDocumentsHandler) Execute(ctx context.Context, msg ListDocumentsCommand) error {
	return h.inner.Execute(ctx, msg)
}

func deliver(ctx context.Context, sink ResultSink) func(*reconcile.Result, error) error {
	return func(result *reconcile.Result, err error) error {
		if err != nil {
			return err
		}
		if sink != nil && result != nil {
			sink(ctx, result)
		}
		return nil
	}
}

func handlerOptions[T command.Message](logger interfaces.Logger, operation string, extra []commands.HandlerOption[T]) []commands.HandlerOption[T] {
	opts := []commands.HandlerOption[T]{
		commands.WithLogger[T](logger),
		commands.WithOperation[T](operation),
	}
	return append(opts, extra...)
}
