package commands

import (
	"strings"

	"github.com/goliatone/go-locale-sync/internal/logging"
	"github.com/goliatone/go-locale-sync/pkg/interfaces"
)

// CommandLogger returns the logger for one command group, named
// localesync.commands.<group>. An empty group falls back to "run".
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	group = strings.TrimSpace(group)
	if group == "" {
		group = "run"
	}
	return logging.WithFields(
		logging.ModuleLogger(provider, "localesync.commands."+group),
		map[string]any{"component": "command"},
	)
}
