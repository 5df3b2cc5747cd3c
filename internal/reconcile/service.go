package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-locale-sync/internal/identity"
	"github.com/goliatone/go-locale-sync/internal/logging"
	"github.com/goliatone/go-locale-sync/pkg/interfaces"
	"github.com/google/uuid"
)

// ErrDocumentTypeRequired is returned by List without a type.
var ErrDocumentTypeRequired = errors.New("reconcile: document type required")

// Result is the plan a run executed and its summary.
type Result struct {
	Plan    *Plan   `json:"plan"`
	Summary Summary `json:"summary"`
}

// Service wires load, plan and apply for every run kind.
type Service struct {
	store    interfaces.DocumentStore
	loader   *Loader
	logger   interfaces.Logger
	recorder Recorder
	options  PlanOptions
	dryRun   bool
	runID    func() string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOutcomeRecorder persists every write outcome.
func WithOutcomeRecorder(recorder Recorder) ServiceOption {
	return func(s *Service) {
		s.recorder = recorder
	}
}

// WithDryRunMode makes every run log intended writes instead of performing them.
func WithDryRunMode(enabled bool) ServiceOption {
	return func(s *Service) {
		s.dryRun = enabled
	}
}

// WithKeyGenerator overrides translation key generation.
func WithKeyGenerator(gen identity.KeyGenerator) ServiceOption {
	return func(s *Service) {
		if gen != nil {
			s.options.NewKey = gen
		}
	}
}

// WithRunIDGenerator overrides how run ids are minted.
func WithRunIDGenerator(gen func() string) ServiceOption {
	return func(s *Service) {
		if gen != nil {
			s.runID = gen
		}
	}
}

// NewService returns a reconciler service bound to one store.
func NewService(target interfaces.DocumentStore, options PlanOptions, opts ...ServiceOption) *Service {
	svc := &Service{
		store:   target,
		logger:  logging.NoOp(),
		options: options,
		runID:   uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	svc.loader = NewLoader(target, svc.logger)
	return svc
}

// SyncTrustedBy materializes and converges trustedBy siblings and landing order.
func (s *Service) SyncTrustedBy(ctx context.Context) (*Result, error) {
	snap, err := s.loader.Load(ctx, LoadRequest{
		Locales:    s.options.Locales,
		Portfolios: true,
		TrustedBy:  true,
		Landings:   true,
	})
	if err != nil {
		return nil, err
	}
	plan, err := PlanTrustedBySync(snap, s.options)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, plan), nil
}

// RepairReferences repoints cross-locale portfolioWork references.
func (s *Service) RepairReferences(ctx context.Context) (*Result, error) {
	snap, err := s.loader.Load(ctx, LoadRequest{Portfolios: true, TrustedBy: true})
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, PlanReferenceRepair(snap, s.options)), nil
}

// BackfillKeys converges translation keys of the declared portfolio groups.
func (s *Service) BackfillKeys(ctx context.Context, groups []PairGroup) (*Result, error) {
	snap, err := s.loader.Load(ctx, LoadRequest{Portfolios: true})
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, PlanKeyBackfill(snap, groups, s.options)), nil
}

// SeedDictionary appends missing seed keys, plus taxonomy keys when
// includeTaxonomies is set, to every target locale dictionary.
func (s *Service) SeedDictionary(ctx context.Context, seeds []SeedEntry, includeTaxonomies bool) (*Result, error) {
	snap, err := s.loader.Load(ctx, LoadRequest{
		Locales:      s.options.Locales,
		Dictionaries: true,
		Taxonomies:   includeTaxonomies,
	})
	if err != nil {
		return nil, err
	}
	entries := append([]SeedEntry{}, seeds...)
	if includeTaxonomies {
		entries = append(entries, TaxonomyEntries(snap.Taxonomies)...)
	}
	return s.apply(ctx, PlanDictionarySeed(snap, entries, s.options)), nil
}

// List returns the raw documents of docType ordered by locale, slug, then id.
func (s *Service) List(ctx context.Context, docType string, locales []string) ([]interfaces.RawDocument, error) {
	if docType == "" {
		return nil, ErrDocumentTypeRequired
	}
	docs, err := s.store.Query(ctx, interfaces.DocumentFilter{Type: docType, Locales: locales})
	if err != nil {
		return nil, fmt.Errorf("reconcile: list %s: %w", docType, err)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		left, right := docs[i], docs[j]
		if a, b := stringAt(left, "locale"), stringAt(right, "locale"); a != b {
			return a < b
		}
		if a, b := slugAt(left), slugAt(right); a != b {
			return a < b
		}
		return stringAt(left, "_id") < stringAt(right, "_id")
	})
	return docs, nil
}

func (s *Service) apply(ctx context.Context, plan *Plan) *Result {
	s.logReport(plan)
	applier := NewApplier(s.store,
		WithDryRun(s.dryRun),
		WithRecorder(s.recorder),
		WithRunID(s.runID()),
		WithApplierLogger(s.logger),
	)
	return &Result{Plan: plan, Summary: applier.Apply(ctx, plan)}
}

func (s *Service) logReport(plan *Plan) {
	report := plan.Report
	for docType, count := range report.Unkeyed {
		s.logger.Warn("reconcile.plan.unkeyed", "plan", plan.Name, "type", docType, "count", count)
	}
	for _, dupe := range report.Duplicates {
		s.logger.Warn("reconcile.plan.duplicate",
			"plan", plan.Name,
			"type", dupe.Type,
			"group", dupe.Group,
			"locale", dupe.Locale,
			"kept", dupe.Kept,
			"ids", dupe.IDs,
		)
	}
	for _, skip := range plan.Skips {
		s.logger.Warn("reconcile.plan.skip",
			"plan", plan.Name,
			"reason", skip.Reason,
			"type", skip.DocType,
			"doc_id", skip.ID,
			"locale", skip.Locale,
			"group", skip.Group,
			"detail", skip.Detail,
		)
	}
	if report.MissingGroupsTotal > 0 {
		s.logger.Info("reconcile.plan.missing_groups",
			"plan", plan.Name,
			"total", report.MissingGroupsTotal,
			"listed", len(report.MissingGroups),
		)
	}
	s.logger.Info("reconcile.plan.ready",
		"plan", plan.Name,
		"operations", len(plan.Operations),
		"skips", len(plan.Skips),
		"dry_run", s.dryRun,
	)
}

func stringAt(doc interfaces.RawDocument, field string) string {
	value, _ := doc[field].(string)
	return value
}

func slugAt(doc interfaces.RawDocument) string {
	for _, field := range []string{"slug", "value"} {
		if nested, ok := doc[field].(map[string]any); ok {
			if current, ok := nested["current"].(string); ok {
				return current
			}
		}
	}
	return ""
}
