package commands

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-locale-sync/pkg/interfaces"
	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
)

// Status classifies how a run ended.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	// StatusInterrupted marks runs stopped by cancellation or the timeout.
	StatusInterrupted Status = "interrupted"
)

// Report describes a finished run.
type Report struct {
	Command   string
	Operation string
	Duration  time.Duration
	Err       error
	Status    Status
	// Logger is the run logger, already tagged with command and operation.
	Logger interfaces.Logger
}

// Telemetry is invoked once per executed run, after validation passed.
type Telemetry[T command.Message] func(ctx context.Context, msg T, report Report)

// DefaultTelemetry logs one line per run on the run logger.
func DefaultTelemetry[T command.Message]() Telemetry[T] {
	return func(_ context.Context, _ T, report Report) {
		args := []any{"status", report.Status, "duration_ms", report.Duration.Milliseconds()}
		if report.Err == nil {
			report.Logger.Info("command.execute.finished", args...)
			return
		}
		if code := textCode(report.Err); code != "" {
			args = append(args, "code", code)
		}
		report.Logger.Error("command.execute.finished", append(args, "error", report.Err)...)
	}
}

func textCode(err error) string {
	var wrapped *goerrors.Error
	if errors.As(err, &wrapped) {
		return wrapped.TextCode
	}
	return ""
}
