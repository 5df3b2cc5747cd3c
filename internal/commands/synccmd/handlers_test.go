package synccmd

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-locale-sync/internal/logging"
	"github.com/goliatone/go-locale-sync/internal/reconcile"
	"github.com/goliatone/go-locale-sync/internal/store/memory"
	"github.com/goliatone/go-locale-sync/pkg/interfaces"
	"github.com/goliatone/go-locale-sync/pkg/testsupport"
	goerrors "github.com/goliatone/go-errors"
)

type stubReconciler struct {
	calls   []string
	groups  []reconcile.PairGroup
	seeds   []reconcile.SeedEntry
	taxo    bool
	listed  string
	locales []string

	err error
}

func (s *stubReconciler) result(plan string) (*reconcile.Result, error) {
	s.calls = append(s.calls, plan)
	if s.err != nil {
		return nil, s.err
	}
	return &reconcile.Result{Plan: reconcile.NewPlan(plan), Summary: reconcile.Summary{Plan: plan, RunID: "run-" + plan}}, nil
}

func (s *stubReconciler) SyncTrustedBy(context.Context) (*reconcile.Result, error) {
	return s.result("trustedBy")
}

func (s *stubReconciler) RepairReferences(context.Context) (*reconcile.Result, error) {
	return s.result("references")
}

func (s *stubReconciler) BackfillKeys(_ context.Context, groups []reconcile.PairGroup) (*reconcile.Result, error) {
	s.groups = groups
	return s.result("keys")
}

func (s *stubReconciler) SeedDictionary(_ context.Context, seeds []reconcile.SeedEntry, includeTaxonomies bool) (*reconcile.Result, error) {
	s.seeds = seeds
	s.taxo = includeTaxonomies
	return s.result("dictionary")
}

func (s *stubReconciler) List(_ context.Context, docType string, locales []string) ([]interfaces.RawDocument, error) {
	s.calls = append(s.calls, "list")
	s.listed = docType
	s.locales = locales
	if s.err != nil {
		return nil, s.err
	}
	return []interfaces.RawDocument{{"_id": "p-en", "_type": docType}}, nil
}

func collect(results *[]*reconcile.Result) ResultSink {
	return func(_ context.Context, result *reconcile.Result) {
		*results = append(*results, result)
	}
}

func TestRunHandlersDeliverResults(t *testing.T) {
	svc := &stubReconciler{}
	var results []*reconcile.Result
	logger := logging.NoOp()

	if err := NewSyncTrustedByHandler(svc, logger, collect(&results)).Execute(context.Background(), SyncTrustedByCommand{}); err != nil {
		t.Fatalf("sync trustedBy: %v", err)
	}
	if err := NewRepairReferencesHandler(svc, logger, collect(&results)).Execute(context.Background(), RepairReferencesCommand{}); err != nil {
		t.Fatalf("repair references: %v", err)
	}
	groups := []reconcile.PairGroup{{"en": "alpha", "lv": "alfa"}}
	if err := NewBackfillKeysHandler(svc, logger, collect(&results)).Execute(context.Background(), BackfillKeysCommand{Groups: groups}); err != nil {
		t.Fatalf("backfill keys: %v", err)
	}
	seeds := []reconcile.SeedEntry{{Key: "nav.contact", Value: "Contact"}}
	if err := NewSeedDictionaryHandler(svc, logger, collect(&results)).Execute(context.Background(), SeedDictionaryCommand{Entries: seeds, IncludeTaxonomies: true}); err != nil {
		t.Fatalf("seed dictionary: %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	want := []string{"trustedBy", "references", "keys", "dictionary"}
	for i, plan := range want {
		if svc.calls[i] != plan || results[i].Summary.Plan != plan {
			t.Fatalf("call %d: expected %s, got call %s result %s", i, plan, svc.calls[i], results[i].Summary.Plan)
		}
	}
	if len(svc.groups) != 1 || svc.groups[0]["lv"] != "alfa" {
		t.Fatalf("expected groups forwarded, got %v", svc.groups)
	}
	if len(svc.seeds) != 1 || !svc.taxo {
		t.Fatalf("expected seeds and taxonomy flag forwarded, got %v %v", svc.seeds, svc.taxo)
	}
}

func TestRunHandlerWrapsServiceError(t *testing.T) {
	svc := &stubReconciler{err: reconcile.ErrLandingMissing}
	delivered := false
	handler := NewSyncTrustedByHandler(svc, nil, func(context.Context, *reconcile.Result) { delivered = true })

	err := handler.Execute(context.Background(), SyncTrustedByCommand{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category, got %v", err)
	}
	if !errors.Is(err, reconcile.ErrLandingMissing) {
		t.Fatalf("expected ErrLandingMissing to stay reachable, got %v", err)
	}
	if delivered {
		t.Fatal("expected sink not to be called on failure")
	}
}

func TestBackfillHandlerValidatesBeforeRunning(t *testing.T) {
	svc := &stubReconciler{}
	handler := NewBackfillKeysHandler(svc, nil, nil)

	err := handler.Execute(context.Background(), BackfillKeysCommand{Groups: []reconcile.PairGroup{{"en": "alpha"}}})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(svc.calls) != 0 {
		t.Fatalf("expected no service call, got %v", svc.calls)
	}
}

func TestListDocumentsHandler(t *testing.T) {
	svc := &stubReconciler{}
	var got []interfaces.RawDocument
	handler := NewListDocumentsHandler(svc, nil, func(_ context.Context, docs []interfaces.RawDocument) { got = docs })

	if err := handler.Execute(context.Background(), ListDocumentsCommand{DocType: "portfolio", Locales: []string{"lv"}}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if svc.listed != "portfolio" || len(svc.locales) != 1 || svc.locales[0] != "lv" {
		t.Fatalf("unexpected list arguments %s %v", svc.listed, svc.locales)
	}
	if len(got) != 1 || got[0]["_id"] != "p-en" {
		t.Fatalf("unexpected documents %v", got)
	}

	svc.err = errors.New("query failed")
	if err := handler.Execute(context.Background(), ListDocumentsCommand{DocType: "portfolio"}); err == nil {
		t.Fatal("expected list error")
	}
}

func TestBackfillHandlerAgainstService(t *testing.T) {
	st := memory.New(
		testsupport.Portfolio("p-en", "en", "K1", "alpha"),
		testsupport.Portfolio("p-lv", "lv", "", "alfa"),
	)
	svc := reconcile.NewService(st, reconcile.PlanOptions{Locales: []string{"en", "lv"}, Priority: []string{"en"}})

	var results []*reconcile.Result
	handler := NewBackfillKeysHandler(svc, nil, collect(&results))
	err := handler.Execute(context.Background(), BackfillKeysCommand{Groups: []reconcile.PairGroup{{"en": "alpha", "lv": "alfa"}}})
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if len(results) != 1 || results[0].Summary.Patched != 1 {
		t.Fatalf("expected one patched document, got %+v", results)
	}
	doc, _ := st.Get("p-lv")
	if doc["translationKey"] != "K1" {
		t.Fatalf("expected translationKey K1, got %v", doc["translationKey"])
	}
}
