package store

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrNotFound is matched by every adapter's not-found failure.
	ErrNotFound = errors.New("store: document not found")
	// ErrConflict is returned when Create targets an existing identifier.
	ErrConflict = errors.New("store: document already exists")
)

// NotFoundError identifies the missing document.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("store: document %q not found", e.ID)
}

// Is lets errors.Is match ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// RequestError is a failed remote call.
type RequestError struct {
	Op         string
	ID         string
	StatusCode int
	Kind       string
	Message    string
}

func (e *RequestError) Error() string {
	target := ""
	if e.ID != "" {
		target = " " + e.ID
	}
	if e.Kind != "" {
		return fmt.Sprintf("store: %s%s failed (%d %s): %s", e.Op, target, e.StatusCode, e.Kind, e.Message)
	}
	return fmt.Sprintf("store: %s%s failed (%d): %s", e.Op, target, e.StatusCode, e.Message)
}

// Is reports not-found and conflict outcomes as the package sentinels.
func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == 404 || e.Kind == "documentNotFoundError"
	case ErrConflict:
		return e.Kind == "documentAlreadyExistsError"
	}
	return false
}

// IsNotFound reports whether err means the addressed document does not exist,
// whether it comes straight from an adapter or was categorised by go-errors.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound) || goerrors.IsCategory(err, goerrors.CategoryNotFound)
}
