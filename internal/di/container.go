package di

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-locale-sync/internal/commands"
	"github.com/goliatone/go-locale-sync/internal/commands/synccmd"
	"github.com/goliatone/go-locale-sync/internal/identity"
	"github.com/goliatone/go-locale-sync/internal/journal"
	"github.com/goliatone/go-locale-sync/internal/logging"
	"github.com/goliatone/go-locale-sync/internal/logging/console"
	"github.com/goliatone/go-locale-sync/internal/logging/gologger"
	"github.com/goliatone/go-locale-sync/internal/reconcile"
	"github.com/goliatone/go-locale-sync/internal/runtimeconfig"
	"github.com/goliatone/go-locale-sync/internal/store/sanity"
	"github.com/goliatone/go-locale-sync/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires the reconciler dependencies from one Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	store          interfaces.DocumentStore

	journalDB     *bun.DB
	ownsJournalDB bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	journal       *journal.Journal

	keyGen   identity.KeyGenerator
	runIDGen func() string

	service *reconcile.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Logging.Provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithStore replaces the remote store client, typically with an in-memory store.
func WithStore(store interfaces.DocumentStore) Option {
	return func(c *Container) {
		if store != nil {
			c.store = store
		}
	}
}

// WithJournalDB supplies an already opened journal database. The container
// migrates it but does not close it.
func WithJournalDB(db *bun.DB) Option {
	return func(c *Container) {
		c.journalDB = db
	}
}

// WithCache supplies the journal read cache instead of building one from
// Journal.CacheTTL.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithKeyGenerator overrides translation key generation.
func WithKeyGenerator(gen identity.KeyGenerator) Option {
	return func(c *Container) {
		c.keyGen = gen
	}
}

// WithRunIDGenerator overrides run id generation.
func WithRunIDGenerator(gen func() string) Option {
	return func(c *Container) {
		c.runIDGen = gen
	}
}

// NewContainer validates cfg and wires logger, store, journal and service.
// Read-only runs (dry runs and listings) do not need a store token.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	validate := cfg.Validate
	if cfg.DryRun || c.store != nil {
		validate = cfg.ValidateReadOnly
	}
	if err := validate(); err != nil {
		return nil, err
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureStore(); err != nil {
		return nil, err
	}
	if err := c.configureJournal(context.Background()); err != nil {
		return nil, err
	}
	c.configureService()
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	cfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureStore() error {
	if c.store != nil {
		return nil
	}
	client, err := sanity.New(c.Config.Store, sanity.WithLogger(logging.StoreLogger(c.loggerProvider)))
	if err != nil {
		return err
	}
	c.store = client
	return nil
}

func (c *Container) configureJournal(ctx context.Context) error {
	if !c.Config.Journal.Enabled && c.journalDB == nil {
		return nil
	}
	if c.journalDB == nil {
		db, err := journal.Open(c.Config.Journal)
		if err != nil {
			return err
		}
		c.journalDB = db
		c.ownsJournalDB = true
	}
	if err := journal.Migrate(ctx, c.journalDB); err != nil {
		return errors.Join(err, c.Close())
	}

	opts := []journal.Option{journal.WithLogger(logging.JournalLogger(c.loggerProvider))}
	if c.cacheService == nil && c.Config.Journal.CacheTTL > 0 {
		service, serializer, err := journal.NewCache(c.Config.Journal.CacheTTL)
		if err != nil {
			return errors.Join(err, c.Close())
		}
		c.cacheService, c.keySerializer = service, serializer
	}
	if c.cacheService != nil && c.keySerializer != nil {
		opts = append(opts, journal.WithCache(c.cacheService, c.keySerializer))
	}
	c.journal = journal.New(c.journalDB, opts...)
	return nil
}

func (c *Container) configureService() {
	opts := []reconcile.ServiceOption{
		reconcile.WithLogger(logging.ReconcileLogger(c.loggerProvider)),
		reconcile.WithDryRunMode(c.Config.DryRun),
		reconcile.WithKeyGenerator(c.keyGen),
		reconcile.WithRunIDGenerator(c.runIDGen),
	}
	if c.journal != nil {
		opts = append(opts, reconcile.WithOutcomeRecorder(c.journal))
	}
	c.service = reconcile.NewService(c.store, c.PlanOptions(), opts...)
}

// PlanOptions derives the planner options from the configuration.
func (c *Container) PlanOptions() reconcile.PlanOptions {
	return reconcile.PlanOptions{
		Locales:                   runtimeconfig.NormalizeLocales(c.Config.Locales),
		Priority:                  c.Config.Priority(),
		IncludeUnreferencedGroups: c.Config.IncludeUnreferencedGroups,
		MissingGroupsReportLimit:  c.Config.MissingGroupsReportLimit,
	}
}

// LoggerProvider returns the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Logger returns a module logger from the configured provider.
func (c *Container) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, module)
}

// Store returns the document store the service reads and writes.
func (c *Container) Store() interfaces.DocumentStore {
	return c.store
}

// Service returns the reconciler service.
func (c *Container) Service() *reconcile.Service {
	return c.service
}

// Journal returns the run journal, or nil when disabled.
func (c *Container) Journal() *journal.Journal {
	return c.journal
}

// Handlers groups the command handlers bound to the service.
type Handlers struct {
	SyncTrustedBy    *synccmd.SyncTrustedByHandler
	RepairReferences *synccmd.RepairReferencesHandler
	BackfillKeys     *synccmd.BackfillKeysHandler
	SeedDictionary   *synccmd.SeedDictionaryHandler
	ListDocuments    *synccmd.ListDocumentsHandler
}

// Handlers builds command handlers that hand results to the given sinks.
// A zero timeout keeps the handler default.
func (c *Container) Handlers(results synccmd.ResultSink, docs synccmd.DocumentSink, timeout time.Duration) Handlers {
	logger := commands.CommandLogger(c.loggerProvider, "sync")
	var (
		trustedOpts    []commands.HandlerOption[synccmd.SyncTrustedByCommand]
		referenceOpts  []commands.HandlerOption[synccmd.RepairReferencesCommand]
		keysOpts       []commands.HandlerOption[synccmd.BackfillKeysCommand]
		dictionaryOpts []commands.HandlerOption[synccmd.SeedDictionaryCommand]
		listOpts       []commands.HandlerOption[synccmd.ListDocumentsCommand]
	)
	if timeout > 0 {
		trustedOpts = append(trustedOpts, commands.WithTimeout[synccmd.SyncTrustedByCommand](timeout))
		referenceOpts = append(referenceOpts, commands.WithTimeout[synccmd.RepairReferencesCommand](timeout))
		keysOpts = append(keysOpts, commands.WithTimeout[synccmd.BackfillKeysCommand](timeout))
		dictionaryOpts = append(dictionaryOpts, commands.WithTimeout[synccmd.SeedDictionaryCommand](timeout))
		listOpts = append(listOpts, commands.WithTimeout[synccmd.ListDocumentsCommand](timeout))
	}
	return Handlers{
		SyncTrustedBy:    synccmd.NewSyncTrustedByHandler(c.service, logger, results, trustedOpts...),
		RepairReferences: synccmd.NewRepairReferencesHandler(c.service, logger, results, referenceOpts...),
		BackfillKeys:     synccmd.NewBackfillKeysHandler(c.service, logger, results, keysOpts...),
		SeedDictionary:   synccmd.NewSeedDictionaryHandler(c.service, logger, results, dictionaryOpts...),
		ListDocuments:    synccmd.NewListDocumentsHandler(c.service, logger, docs, listOpts...),
	}
}

// Close releases the journal database when the container opened it.
func (c *Container) Close() error {
	if c == nil || c.journalDB == nil || !c.ownsJournalDB {
		return nil
	}
	db := c.journalDB
	c.journalDB = nil
	c.journal = nil
	return db.Close()
}
