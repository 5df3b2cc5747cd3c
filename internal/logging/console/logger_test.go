package console_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-locale-sync/internal/logging"
	"github.com/goliatone/go-locale-sync/internal/logging/console"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("localesync.reconcile")
	logger = logger.WithFields(map[string]any{"module": "localesync.reconcile"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"run_id": "run-1234",
	})
	logger = logger.WithContext(ctx)

	logger.Info("sibling.created",
		"doc_id", "trustedBy-lv-acme",
		"locale", "lv",
	)

	got := strings.TrimSpace(buf.String())
	want := "2024-03-14T15:09:26.535897Z INFO sibling.created doc_id=trustedBy-lv-acme locale=lv logger=localesync.reconcile module=localesync.reconcile run_id=run-1234"
	assert.Equal(t, want, got)
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: time.Now,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("localesync.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "included.info")
	assert.NotContains(t, lines[0], "ignored.debug")
}

func TestConsoleLogger_QuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	provider.GetLogger("x").Warn("skip", "reason", "missing logo", "dangling")

	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, `reason="missing logo"`)
	assert.Contains(t, line, "arg1=dangling")
}

func TestParseLevel(t *testing.T) {
	level, ok := console.ParseLevel("Warning")
	require.True(t, ok)
	assert.Equal(t, console.LevelWarn, level)

	_, ok = console.ParseLevel("verbose")
	assert.False(t, ok)
}
