package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-locale-sync/internal/documents"
	"github.com/goliatone/go-locale-sync/internal/logging"
	"github.com/goliatone/go-locale-sync/pkg/interfaces"
	"golang.org/x/sync/errgroup"
)

// ErrLandingMissing is returned when a target locale has no landing document.
var ErrLandingMissing = errors.New("reconcile: landing document missing")

// Snapshot is the read-only view a planner works on. Slices are sorted by
// base id.
type Snapshot struct {
	Portfolios   []Sibling[documents.Portfolio]
	TrustedBy    []Sibling[documents.TrustedBy]
	Landings     map[string]Sibling[documents.Landing]
	Dictionaries map[string]Sibling[documents.Dictionary]
	Taxonomies   []Sibling[documents.Taxonomy]
	// Rejected holds one error per document that failed boundary validation.
	Rejected []error
}

// LoadRequest selects which document sets a run needs.
type LoadRequest struct {
	Locales      []string
	Portfolios   bool
	TrustedBy    bool
	Landings     bool
	Dictionaries bool
	Taxonomies   bool
}

// Loader reads snapshots from a document store.
type Loader struct {
	store  interfaces.DocumentStore
	logger interfaces.Logger
}

// NewLoader returns a loader bound to store.
func NewLoader(store interfaces.DocumentStore, logger interfaces.Logger) *Loader {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Loader{store: store, logger: logger}
}

type rejections struct {
	mu   sync.Mutex
	errs []error
}

func (r *rejections) add(errs ...error) {
	if len(errs) == 0 {
		return
	}
	r.mu.Lock()
	r.errs = append(r.errs, errs...)
	r.mu.Unlock()
}

// Load fetches every requested document set concurrently. Any query error
// aborts the load; invalid documents are collected and skipped.
func (l *Loader) Load(ctx context.Context, req LoadRequest) (*Snapshot, error) {
	if l.store == nil {
		return nil, errors.New("reconcile: document store is required")
	}

	snap := &Snapshot{
		Landings:     map[string]Sibling[documents.Landing]{},
		Dictionaries: map[string]Sibling[documents.Dictionary]{},
	}
	rejected := &rejections{}
	group, gctx := errgroup.WithContext(ctx)

	if req.Portfolios {
		group.Go(func() error {
			sibs, err := fetch[documents.Portfolio](gctx, l.store, interfaces.DocumentFilter{Type: documents.TypePortfolio}, rejected)
			snap.Portfolios = sibs
			return err
		})
	}
	if req.TrustedBy {
		group.Go(func() error {
			sibs, err := fetch[documents.TrustedBy](gctx, l.store, interfaces.DocumentFilter{Type: documents.TypeTrustedBy}, rejected)
			snap.TrustedBy = sibs
			return err
		})
	}

	var landings []Sibling[documents.Landing]
	if req.Landings {
		group.Go(func() error {
			sibs, err := fetch[documents.Landing](gctx, l.store, interfaces.DocumentFilter{Type: documents.TypeLanding, Locales: req.Locales}, rejected)
			landings = sibs
			return err
		})
	}

	var dictionaries []Sibling[documents.Dictionary]
	if req.Dictionaries {
		group.Go(func() error {
			sibs, err := fetch[documents.Dictionary](gctx, l.store, interfaces.DocumentFilter{Type: documents.TypeDictionary, Locales: req.Locales}, rejected)
			dictionaries = sibs
			return err
		})
	}

	var taxonomies [][]Sibling[documents.Taxonomy]
	if req.Taxonomies {
		types := documents.TaxonomyTypes()
		taxonomies = make([][]Sibling[documents.Taxonomy], len(types))
		for i, docType := range types {
			group.Go(func() error {
				sibs, err := fetch[documents.Taxonomy](gctx, l.store, interfaces.DocumentFilter{Type: docType}, rejected)
				taxonomies[i] = sibs
				return err
			})
		}
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	snap.Landings = latestPerLocale(landings, l.logger, documents.TypeLanding)
	snap.Dictionaries = latestPerLocale(dictionaries, l.logger, documents.TypeDictionary)
	for _, sibs := range taxonomies {
		snap.Taxonomies = append(snap.Taxonomies, sibs...)
	}
	snap.Rejected = rejected.errs
	for _, err := range snap.Rejected {
		l.logger.Warn("reconcile.snapshot.document_rejected", "error", err)
	}

	l.logger.Debug("reconcile.snapshot.loaded",
		"portfolios", len(snap.Portfolios),
		"trusted_by", len(snap.TrustedBy),
		"landings", len(snap.Landings),
		"dictionaries", len(snap.Dictionaries),
		"taxonomies", len(snap.Taxonomies),
		"rejected", len(snap.Rejected),
	)
	return snap, nil
}

func fetch[T documents.Localized](ctx context.Context, store interfaces.DocumentStore, filter interfaces.DocumentFilter, rejected *rejections) ([]Sibling[T], error) {
	raws, err := store.Query(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("reconcile: load %s: %w", filter.Type, err)
	}
	docs, invalid := documents.DecodeAll[T](filter.Type, raws)
	rejected.add(invalid...)
	return Collapse(docs), nil
}

// latestPerLocale keeps the most recently updated logical document per locale.
func latestPerLocale[T documents.Localized](sibs []Sibling[T], logger interfaces.Logger, docType string) map[string]Sibling[T] {
	byLocale := map[string][]Sibling[T]{}
	for _, sib := range sibs {
		byLocale[sib.Locale()] = append(byLocale[sib.Locale()], sib)
	}

	out := make(map[string]Sibling[T], len(byLocale))
	for locale, candidates := range byLocale {
		sort.SliceStable(candidates, func(i, j int) bool {
			left, right := updatedAt(candidates[i]), updatedAt(candidates[j])
			if left != right {
				return left > right
			}
			return candidates[i].BaseID < candidates[j].BaseID
		})
		if len(candidates) > 1 {
			logger.Warn("reconcile.snapshot.multiple_per_locale",
				"type", docType,
				"locale", locale,
				"kept", candidates[0].BaseID,
				"count", len(candidates),
			)
		}
		out[locale] = candidates[0]
	}
	return out
}

type timestamped interface {
	LastUpdated() string
}

// updatedAt returns the newest _updatedAt across variants. RFC 3339 strings
// from one store compare correctly as text.
func updatedAt[T documents.Localized](sib Sibling[T]) string {
	latest := ""
	for _, variant := range sib.Variants() {
		if ts, ok := any(variant).(timestamped); ok && ts.LastUpdated() > latest {
			latest = ts.LastUpdated()
		}
	}
	return latest
}
