package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-locale-sync/pkg/interfaces"
)

const (
	rootModule      = "localesync"
	reconcileModule = "localesync.reconcile"
	storeModule     = "localesync.store"
	journalModule   = "localesync.journal"
)

const (
	fieldDocumentID = "doc_id"
	fieldLocale     = "locale"
	fieldGroup      = "group"
	fieldOperation  = "operation"
)

// ModuleLogger returns the logger named module, tagged with a module field.
// A nil provider yields a no-op logger.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}
	var logger interfaces.Logger
	if provider != nil {
		logger = provider.GetLogger(module)
	}
	if logger == nil {
		logger = NoOp()
	}
	return logger.WithFields(map[string]any{"module": module})
}

// ReconcileLogger is the planner and applier logger.
func ReconcileLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, reconcileModule)
}

// StoreLogger is used by document store adapters.
func StoreLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storeModule)
}

// JournalLogger is used by the run journal.
func JournalLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, journalModule)
}

// WithDocumentContext enriches the provided logger with the fields needed to
// re-run a single item by hand: document id, locale, translation group and
// operation. Empty values are ignored.
func WithDocumentContext(logger interfaces.Logger, id, locale, group, operation string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		fields[fieldDocumentID] = trimmed
	}
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		fields[fieldLocale] = trimmed
	}
	if trimmed := strings.TrimSpace(group); trimmed != "" {
		fields[fieldGroup] = trimmed
	}
	if trimmed := strings.TrimSpace(operation); trimmed != "" {
		fields[fieldOperation] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
