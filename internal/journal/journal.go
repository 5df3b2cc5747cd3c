package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-locale-sync/internal/logging"
	"github.com/goliatone/go-locale-sync/internal/reconcile"
	"github.com/goliatone/go-locale-sync/internal/runtimeconfig"
	"github.com/goliatone/go-locale-sync/pkg/interfaces"
	"github.com/goliatone/go-repository-bun"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// ErrRunIDRequired is returned when listing entries without a run id.
var ErrRunIDRequired = errors.New("journal: run id is required")

// Journal records reconciler outcomes in a SQL database.
type Journal struct {
	repo   repository.Repository[*Entry]
	logger interfaces.Logger
	newID  func() uuid.UUID
}

var _ reconcile.Recorder = (*Journal)(nil)

type options struct {
	logger       interfaces.Logger
	cacheService repocache.CacheService
	serializer   repocache.KeySerializer
	newID        func() uuid.UUID
}

// Option configures a Journal.
type Option func(*options)

// WithLogger sets the journal logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCache wraps reads in a repository cache.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(o *options) {
		o.cacheService = service
		o.serializer = serializer
	}
}

// WithIDGenerator overrides entry id generation.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(o *options) {
		o.newID = gen
	}
}

// New returns a journal backed by db. Call Migrate before the first write.
func New(db *bun.DB, opts ...Option) *Journal {
	cfg := options{newID: uuid.New}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	logger := cfg.logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Journal{
		repo:   NewEntryRepositoryWithCache(db, cfg.cacheService, cfg.serializer),
		logger: logger,
		newID:  cfg.newID,
	}
}

// Migrate creates the journal table when missing.
func Migrate(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*Entry)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("journal: create table: %w", err)
	}
	return nil
}

// Open connects to the journal database described by cfg.
func Open(cfg runtimeconfig.JournalConfig) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "sqlite", "sqlite3":
		sqldb, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("journal: open sqlite: %w", err)
		}
		db := bun.NewDB(sqldb, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	case "postgres", "pg":
		sqldb, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("journal: open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrJournalDriverUnknown, cfg.Driver)
	}
}

// NewCache builds the repository cache used by WithCache.
func NewCache(ttl time.Duration) (repocache.CacheService, repocache.KeySerializer, error) {
	cfg := repocache.DefaultConfig()
	if ttl > 0 {
		cfg.TTL = ttl
	}
	service, err := repocache.NewCacheService(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("journal: cache service: %w", err)
	}
	return service, repocache.NewDefaultKeySerializer(), nil
}

// Record implements reconcile.Recorder.
func (j *Journal) Record(ctx context.Context, outcome reconcile.Outcome) error {
	op := outcome.Operation
	entry := &Entry{
		ID:         j.newID(),
		RunID:      outcome.RunID,
		Plan:       outcome.Plan,
		Kind:       string(op.Kind),
		DocType:    op.DocType,
		DocumentID: op.ID,
		Target:     outcome.Target,
		Locale:     op.Locale,
		GroupKey:   op.Group,
		Fields:     strings.Join(slices.Sorted(maps.Keys(op.Set)), ","),
		Status:     string(outcome.Status),
		DryRun:     outcome.DryRun,
		RecordedAt: outcome.At.UTC(),
	}
	if outcome.Err != nil {
		entry.Error = outcome.Err.Error()
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}
	if _, err := j.repo.Create(ctx, entry); err != nil {
		j.logger.Warn("journal.record.failed", "run_id", entry.RunID, "target", entry.Target, "error", err)
		return fmt.Errorf("journal: record %s: %w", entry.Target, err)
	}
	return nil
}

// Entries returns the entries of one run in recording order.
func (j *Journal) Entries(ctx context.Context, runID string) ([]*Entry, error) {
	if strings.TrimSpace(runID) == "" {
		return nil, ErrRunIDRequired
	}
	records, _, err := j.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.run_id = ?", runID).OrderExpr("?TableAlias.recorded_at ASC, ?TableAlias.target ASC")
	}))
	if err != nil {
		return nil, fmt.Errorf("journal: entries of %s: %w", runID, err)
	}
	return records, nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	records, _, err := j.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.recorded_at DESC")
		}),
		repository.SelectPaginate(limit, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("journal: recent entries: %w", err)
	}
	return records, nil
}
