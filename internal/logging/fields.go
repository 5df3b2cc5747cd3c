package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-locale-sync/pkg/interfaces"
)

type fieldsKey struct{}

const (
	fieldRunID = "run_id"
	fieldPlan  = "plan"
)

// WithFields returns a child of logger carrying a copy of fields. A nil logger
// or empty fields return logger as is.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	return logger.WithFields(maps.Clone(fields))
}

// ContextWithFields stores fields on ctx, merged over any fields already there.
// Loggers built with WithContext(ctx) add them to every entry.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// ContextFields returns a copy of the fields stored on ctx.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).(map[string]any)
	if len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}

// WithRunFields tags ctx with the run id and plan name of a reconciliation
// run so every store call and outcome logged under it can be correlated with
// the journal.
func WithRunFields(ctx context.Context, runID, plan string) context.Context {
	fields := map[string]any{}
	if runID = strings.TrimSpace(runID); runID != "" {
		fields[fieldRunID] = runID
	}
	if plan = strings.TrimSpace(plan); plan != "" {
		fields[fieldPlan] = plan
	}
	return ContextWithFields(ctx, fields)
}

// RunID returns the run id stored by WithRunFields, if any.
func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	fields, _ := ctx.Value(fieldsKey{}).(map[string]any)
	id, _ := fields[fieldRunID].(string)
	return id
}
