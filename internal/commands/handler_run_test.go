package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-locale-sync/internal/commands"
	"github.com/goliatone/go-locale-sync/internal/commands/synccmd"
	"github.com/goliatone/go-locale-sync/internal/reconcile"
	goerrors "github.com/goliatone/go-errors"
)

func TestHandlerRunsTrustedBySync(t *testing.T) {
	called := false
	h := commands.NewHandler[synccmd.SyncTrustedByCommand](func(ctx context.Context, msg synccmd.SyncTrustedByCommand) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), synccmd.SyncTrustedByCommand{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected the sync to run")
	}
}

func TestHandlerRejectsIncompletePairGroupBeforeRunning(t *testing.T) {
	called := false
	h := commands.NewHandler[synccmd.BackfillKeysCommand](func(ctx context.Context, msg synccmd.BackfillKeysCommand) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), synccmd.BackfillKeysCommand{Groups: []reconcile.PairGroup{{"en": "alpha"}}})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected the backfill not to run when validation fails")
	}
}

func TestHandlerSkipsRunOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := commands.NewHandler[synccmd.RepairReferencesCommand](func(ctx context.Context, msg synccmd.RepairReferencesCommand) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, synccmd.RepairReferencesCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled to stay reachable, got %v", err)
	}
	if called {
		t.Fatal("expected the repair not to run on a cancelled context")
	}
}

func TestHandlerWrapsStoreFailure(t *testing.T) {
	queryErr := errors.New("store: query trustedBy failed (500)")
	h := commands.NewHandler[synccmd.SyncTrustedByCommand](func(ctx context.Context, msg synccmd.SyncTrustedByCommand) error {
		return queryErr
	})

	err := h.Execute(context.Background(), synccmd.SyncTrustedByCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, queryErr) {
		t.Fatalf("expected the store error to stay reachable, got %v", err)
	}
}

func TestHandlerTimesOutLongSeedRun(t *testing.T) {
	h := commands.NewHandler[synccmd.SeedDictionaryCommand](func(ctx context.Context, msg synccmd.SeedDictionaryCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
			return nil
		}
	}, commands.WithTimeout[synccmd.SeedDictionaryCommand](10*time.Millisecond))

	err := h.Execute(context.Background(), synccmd.SeedDictionaryCommand{IncludeTaxonomies: true})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}
