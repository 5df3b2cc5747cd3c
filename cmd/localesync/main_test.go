package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	localesync "github.com/goliatone/go-locale-sync"
	"github.com/goliatone/go-locale-sync/cmd/localesync/internal/bootstrap"
	"github.com/goliatone/go-locale-sync/internal/reconcile"
	"github.com/goliatone/go-locale-sync/pkg/interfaces"
)

type stubRunner struct {
	calls   []string
	groups  []localesync.PairGroup
	entries []localesync.SeedEntry
	taxo    bool
	docType string
	runID   string
	limit   int
	summary localesync.Summary
	closed  bool
}

func (s *stubRunner) result(name string) (*localesync.Result, error) {
	s.calls = append(s.calls, name)
	summary := s.summary
	summary.Plan = name
	return &localesync.Result{Plan: reconcile.NewPlan(name), Summary: summary}, nil
}

func (s *stubRunner) SyncTrustedBy(context.Context) (*localesync.Result, error) {
	return s.result("trustedBy")
}

func (s *stubRunner) RepairReferences(context.Context) (*localesync.Result, error) {
	return s.result("references")
}

func (s *stubRunner) BackfillKeys(_ context.Context, groups []localesync.PairGroup) (*localesync.Result, error) {
	s.groups = groups
	return s.result("keys")
}

func (s *stubRunner) SeedDictionary(_ context.Context, entries []localesync.SeedEntry, taxonomies bool) (*localesync.Result, error) {
	s.entries = entries
	s.taxo = taxonomies
	return s.result("dictionary")
}

func (s *stubRunner) List(_ context.Context, docType string, _ []string) ([]interfaces.RawDocument, error) {
	s.calls = append(s.calls, "list")
	s.docType = docType
	return []interfaces.RawDocument{{"_id": "p-en", "_type": docType}}, nil
}

func (s *stubRunner) History(_ context.Context, runID string, limit int) ([]*localesync.JournalEntry, error) {
	s.calls = append(s.calls, "history")
	s.runID = runID
	s.limit = limit
	return []*localesync.JournalEntry{{RunID: runID, Target: "p-lv", Status: "patched"}}, nil
}

func (s *stubRunner) Close() error {
	s.closed = true
	return nil
}

func newTestApp(stub *stubRunner) (*app, *bytes.Buffer, *[]bootstrap.Options) {
	out := &bytes.Buffer{}
	var seen []bootstrap.Options
	a := newApp(out)
	a.build = func(opts bootstrap.Options) (runner, error) {
		seen = append(seen, opts)
		return stub, nil
	}
	return a, out, &seen
}

func TestSyncTrustedByPrintsSummary(t *testing.T) {
	stub := &stubRunner{summary: localesync.Summary{Created: 3, Patched: 2, Writes: 5}}
	a, out, seen := newTestApp(stub)

	if err := a.Execute(context.Background(), []string{"sync", "trusted-by", "--dry-run", "--locales", "en,lv"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(stub.calls) != 1 || stub.calls[0] != "trustedBy" {
		t.Fatalf("unexpected calls %v", stub.calls)
	}
	if !stub.closed {
		t.Fatal("expected module to be closed")
	}

	var printed localesync.Result
	if err := json.Unmarshal(out.Bytes(), &printed); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if printed.Summary.Created != 3 || printed.Summary.Writes != 5 {
		t.Fatalf("unexpected summary %+v", printed.Summary)
	}

	opts := (*seen)[0]
	if opts.Overrides.DryRun == nil || !*opts.Overrides.DryRun {
		t.Fatal("expected dry-run override")
	}
	if len(opts.Overrides.Locales) != 2 || opts.Overrides.Locales[1] != "lv" {
		t.Fatalf("unexpected locales %v", opts.Overrides.Locales)
	}
}

func TestSyncLeavesDryRunToConfigWhenFlagUnset(t *testing.T) {
	stub := &stubRunner{}
	a, _, seen := newTestApp(stub)

	if err := a.Execute(context.Background(), []string{"sync", "references"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if (*seen)[0].Overrides.DryRun != nil {
		t.Fatal("expected DRY_RUN to be left to the environment")
	}
}

func TestSyncFailedWritesReturnRunFailed(t *testing.T) {
	stub := &stubRunner{summary: localesync.Summary{Failed: 1}}
	a, out, _ := newTestApp(stub)

	err := a.Execute(context.Background(), []string{"sync", "references"})
	if !errors.Is(err, errRunFailed) {
		t.Fatalf("expected errRunFailed, got %v", err)
	}
	if out.Len() == 0 {
		t.Fatal("expected summary to be printed before failing")
	}
}

func TestSyncKeysReadsPairsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pairs.yaml")
	if err := os.WriteFile(path, []byte("groups:\n  - en: alpha\n    lv: alfa\n"), 0o600); err != nil {
		t.Fatalf("write pairs: %v", err)
	}
	stub := &stubRunner{}
	a, _, _ := newTestApp(stub)

	if err := a.Execute(context.Background(), []string{"sync", "keys", "--pairs", path}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(stub.groups) != 1 || stub.groups[0]["lv"] != "alfa" {
		t.Fatalf("unexpected groups %v", stub.groups)
	}
}

func TestSyncKeysRequiresPairsFlag(t *testing.T) {
	a, _, seen := newTestApp(&stubRunner{})
	if err := a.Execute(context.Background(), []string{"sync", "keys"}); err == nil {
		t.Fatal("expected missing flag error")
	}
	if len(*seen) != 0 {
		t.Fatal("expected no module to be built")
	}
}

func TestSyncDictionaryTaxonomiesOnly(t *testing.T) {
	stub := &stubRunner{}
	a, _, _ := newTestApp(stub)

	if err := a.Execute(context.Background(), []string{"sync", "dictionary", "--taxonomies"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !stub.taxo || len(stub.entries) != 0 {
		t.Fatalf("unexpected dictionary arguments %v %v", stub.taxo, stub.entries)
	}
}

func TestListAndHistoryAreReadOnly(t *testing.T) {
	stub := &stubRunner{}
	a, out, seen := newTestApp(stub)

	if err := a.Execute(context.Background(), []string{"list", "--type", "portfolio"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := a.Execute(context.Background(), []string{"history", "--run", "run-1"}); err != nil {
		t.Fatalf("history: %v", err)
	}
	if stub.docType != "portfolio" || stub.runID != "run-1" || stub.limit != 50 {
		t.Fatalf("unexpected arguments %s %s %d", stub.docType, stub.runID, stub.limit)
	}
	for _, opts := range *seen {
		if opts.Overrides.DryRun == nil || !*opts.Overrides.DryRun {
			t.Fatal("expected read-only commands to force dry run")
		}
	}
	if out.Len() == 0 {
		t.Fatal("expected JSON output")
	}
}
