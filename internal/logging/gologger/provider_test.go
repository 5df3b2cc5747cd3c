package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-locale-sync/internal/logging"
)

func TestNewProviderBuildsModuleLoggers(t *testing.T) {
	for _, format := range []string{"", "json", "console", "pretty"} {
		p, err := NewProvider(Config{Level: "debug", Format: format, Focus: []string{" localesync.reconcile ", ""}})
		if err != nil {
			t.Fatalf("format %q: NewProvider returned error: %v", format, err)
		}
		logger := logging.ReconcileLogger(p)
		if logger == nil {
			t.Fatalf("format %q: expected logger, got nil", format)
		}
		logger.Debug("reconcile.plan.ready", "plan", "trustedBy")
	}
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
}

func TestNilProviderFallsBackToNoOp(t *testing.T) {
	var p *Provider
	p.GetLogger("localesync.store").Info("store.query")
}

func TestAdapterDelegatesLevels(t *testing.T) {
	stub := &stubLogger{}
	adapted := wrap(stub)

	adapted.Trace("trace", "key", "value")
	adapted.Debug("debug")
	adapted.Info("info")
	adapted.Warn("warn")
	adapted.Error("error")
	adapted.Fatal("fatal")

	want := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if len(stub.calls) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(stub.calls))
	}
	for i := range want {
		if stub.calls[i] != want[i] {
			t.Fatalf("call %d: expected %q, got %q", i, want[i], stub.calls[i])
		}
	}
}

func TestAdapterClonesFields(t *testing.T) {
	stub := &stubLogger{}
	fields := map[string]any{"group": "acme"}

	wrap(stub).WithFields(fields)
	fields["group"] = "other"

	if len(stub.fields) != 1 || stub.fields[0]["group"] != "acme" {
		t.Fatalf("expected cloned fields, got %v", stub.fields)
	}
}

func TestAdapterLiftsRunFieldsFromContext(t *testing.T) {
	stub := &stubLogger{}
	ctx := logging.WithRunFields(context.Background(), "run-9", "keys")

	wrap(stub).WithContext(ctx)

	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", stub.contexts)
	}
	if len(stub.fields) != 1 || stub.fields[0]["run_id"] != "run-9" || stub.fields[0]["plan"] != "keys" {
		t.Fatalf("expected run fields, got %v", stub.fields)
	}
}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.fields = append(s.fields, copied)
	return s
}
