package commands

import (
	"context"
	"errors"

	"github.com/goliatone/go-locale-sync/internal/reconcile"
	"github.com/goliatone/go-locale-sync/internal/store"
	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to categorised run errors.
const (
	CodeInvalidCommand = "LOCALESYNC_INVALID_COMMAND"
	CodeCancelled      = "LOCALESYNC_RUN_CANCELLED"
	CodeTimedOut       = "LOCALESYNC_RUN_TIMED_OUT"
	CodeLandingMissing = "LOCALESYNC_LANDING_MISSING"
	CodeNotFound       = "LOCALESYNC_DOCUMENT_NOT_FOUND"
	CodeRunFailed      = "LOCALESYNC_RUN_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid command").
		WithTextCode(CodeInvalidCommand)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "run exceeded its deadline").
			WithTextCode(CodeTimedOut)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "run cancelled").
		WithTextCode(CodeCancelled)
}

// classify maps a run error onto a go-errors category. Already wrapped errors
// keep their category.
func classify(err error) error {
	switch {
	case err == nil || goerrors.IsWrapped(err):
		return err
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return wrapContextError(err)
	case errors.Is(err, reconcile.ErrDocumentTypeRequired):
		return wrapValidationError(err)
	case errors.Is(err, reconcile.ErrLandingMissing):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "landing document missing").
			WithTextCode(CodeLandingMissing)
	case errors.Is(err, store.ErrNotFound):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "document not found").
			WithTextCode(CodeNotFound)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "run failed").
			WithTextCode(CodeRunFailed)
	}
}

func statusOf(err error) Status {
	switch {
	case err == nil:
		return StatusSucceeded
	case goerrors.IsCategory(err, goerrors.CategoryCommand) &&
		(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		return StatusInterrupted
	default:
		return StatusFailed
	}
}
