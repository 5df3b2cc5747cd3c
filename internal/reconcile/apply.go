package reconcile

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/goliatone/go-locale-sync/internal/documents"
	"github.com/goliatone/go-locale-sync/internal/logging"
	"github.com/goliatone/go-locale-sync/internal/store"
	"github.com/goliatone/go-locale-sync/pkg/interfaces"
)

// Status is the result of one write attempt.
type Status string

const (
	StatusCreated Status = "created"
	StatusPatched Status = "patched"
	StatusIgnored Status = "ignored"
	StatusFailed  Status = "failed"
	StatusPlanned Status = "planned"
)

// Outcome describes what happened to one operation against one target id.
type Outcome struct {
	RunID     string
	Plan      string
	Operation Operation
	Target    string
	Status    Status
	DryRun    bool
	Err       error
	At        time.Time
}

// Recorder persists outcomes. Recording failures never fail a run.
type Recorder interface {
	Record(ctx context.Context, outcome Outcome) error
}

// Summary totals a run.
type Summary struct {
	Plan    string `json:"plan"`
	RunID   string `json:"run_id"`
	DryRun  bool   `json:"dry_run"`
	Planned int    `json:"planned"`
	Created int    `json:"created"`
	Patched int    `json:"patched"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
	// Writes counts store calls that succeeded. Always zero on a dry run.
	Writes int `json:"writes"`
}

// Applier executes plans sequentially, one store call at a time.
type Applier struct {
	store    interfaces.DocumentStore
	logger   interfaces.Logger
	recorder Recorder
	dryRun   bool
	runID    string
	now      func() time.Time
}

// ApplierOption configures an Applier.
type ApplierOption func(*Applier)

// WithDryRun replaces every store write with a log line.
func WithDryRun(enabled bool) ApplierOption {
	return func(a *Applier) {
		a.dryRun = enabled
	}
}

// WithRecorder attaches an outcome recorder.
func WithRecorder(recorder Recorder) ApplierOption {
	return func(a *Applier) {
		a.recorder = recorder
	}
}

// WithRunID tags outcomes and the summary with id.
func WithRunID(id string) ApplierOption {
	return func(a *Applier) {
		a.runID = id
	}
}

// WithApplierLogger overrides the applier logger.
func WithApplierLogger(logger interfaces.Logger) ApplierOption {
	return func(a *Applier) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewApplier returns an applier writing to target.
func NewApplier(target interfaces.DocumentStore, opts ...ApplierOption) *Applier {
	applier := &Applier{
		store:  target,
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(applier)
		}
	}
	return applier
}

// Apply runs every operation of plan in order. Failures are logged and
// counted; they never stop the remaining operations. A cancelled context
// fails whatever is left.
func (a *Applier) Apply(ctx context.Context, plan *Plan) Summary {
	ctx = logging.WithRunFields(ctx, a.runID, plan.Name)
	run := *a
	run.logger = a.logger.WithContext(ctx)
	return run.apply(ctx, plan)
}

func (a *Applier) apply(ctx context.Context, plan *Plan) Summary {
	summary := Summary{
		Plan:    plan.Name,
		RunID:   a.runID,
		DryRun:  a.dryRun,
		Planned: len(plan.Operations),
		Skipped: len(plan.Skips),
	}

	for i, op := range plan.Operations {
		if err := ctx.Err(); err != nil {
			remaining := len(plan.Operations) - i
			summary.Failed += remaining
			a.logger.Error("reconcile.apply.aborted", "error", err, "remaining", remaining)
			break
		}
		switch op.Kind {
		case OpCreate, OpCreateOrReplace:
			a.applyCreate(ctx, plan.Name, op, &summary)
		case OpPatch:
			a.applyPatch(ctx, plan.Name, op, &summary)
		default:
			summary.Failed++
			a.logger.Error("reconcile.apply.unknown_operation", "kind", op.Kind, "doc_id", op.ID)
		}
	}

	a.logger.Info("reconcile.apply.summary",
		"dry_run", summary.DryRun,
		"planned", summary.Planned,
		"created", summary.Created,
		"patched", summary.Patched,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary
}

func (a *Applier) applyCreate(ctx context.Context, planName string, op Operation, summary *Summary) {
	logger := logging.WithDocumentContext(a.logger, op.ID, op.Locale, op.Group, string(op.Kind))
	if a.dryRun {
		logger.Info("reconcile.apply.would_create", "type", op.DocType, "reason", op.Reason)
		summary.Created++
		a.record(ctx, planName, op, op.ID, StatusPlanned, nil)
		return
	}

	var err error
	if op.Kind == OpCreateOrReplace {
		_, err = a.store.CreateOrReplace(ctx, op.Document)
	} else {
		_, err = a.store.Create(ctx, op.Document)
	}
	if err != nil {
		summary.Failed++
		logger.Error("reconcile.apply.create_failed", "type", op.DocType, "error", err)
		a.record(ctx, planName, op, op.ID, StatusFailed, err)
		return
	}
	summary.Created++
	summary.Writes++
	logger.Info("reconcile.apply.created", "type", op.DocType)
	a.record(ctx, planName, op, op.ID, StatusCreated, nil)
}

func (a *Applier) applyPatch(ctx context.Context, planName string, op Operation, summary *Summary) {
	fields := slices.Sorted(maps.Keys(op.Set))
	succeeded, failed := 0, 0
	for _, target := range op.PatchTargets() {
		logger := logging.WithDocumentContext(a.logger, target, op.Locale, op.Group, string(op.Kind))
		if a.dryRun {
			logger.Info("reconcile.apply.would_patch", "type", op.DocType, "fields", fields, "reason", op.Reason)
			a.record(ctx, planName, op, target, StatusPlanned, nil)
			continue
		}

		err := a.store.Patch(ctx, target, op.Set)
		switch {
		case err == nil:
			succeeded++
			summary.Writes++
			logger.Debug("reconcile.apply.patched", "type", op.DocType, "fields", fields)
			a.record(ctx, planName, op, target, StatusPatched, nil)
		case store.IsNotFound(err) && (documents.IsDraft(target) || !op.HasPublished):
			logger.Debug("reconcile.apply.variant_absent", "type", op.DocType)
			a.record(ctx, planName, op, target, StatusIgnored, nil)
		default:
			failed++
			logger.Error("reconcile.apply.patch_failed", "type", op.DocType, "error", err)
			a.record(ctx, planName, op, target, StatusFailed, err)
		}
	}

	switch {
	case a.dryRun:
		summary.Patched++
	case failed > 0:
		summary.Failed++
	case succeeded > 0:
		summary.Patched++
	default:
		summary.Skipped++
		a.logger.Warn("reconcile.apply.no_variant_found", "doc_id", op.ID, "type", op.DocType)
	}
}

func (a *Applier) record(ctx context.Context, planName string, op Operation, target string, status Status, err error) {
	if a.recorder == nil {
		return
	}
	outcome := Outcome{
		RunID:     a.runID,
		Plan:      planName,
		Operation: op,
		Target:    target,
		Status:    status,
		DryRun:    a.dryRun,
		Err:       err,
		At:        a.now(),
	}
	if recErr := a.recorder.Record(ctx, outcome); recErr != nil {
		a.logger.Warn("reconcile.apply.record_failed", "doc_id", target, "error", recErr)
	}
}
