package reconcile_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-locale-sync/internal/reconcile"
	"github.com/goliatone/go-locale-sync/internal/store/memory"
	"github.com/goliatone/go-locale-sync/pkg/testsupport"
)

func TestRepairThenSyncFromExport(t *testing.T) {
	ctx := context.Background()
	docs, err := testsupport.LoadDocuments(filepath.Join("testdata", "export.ndjson"))
	require.NoError(t, err)
	require.Len(t, docs, 6)

	st := memory.New(docs...)
	svc := reconcile.NewService(st, planOptions())

	repaired, err := svc.RepairReferences(ctx)
	require.NoError(t, err)
	require.Len(t, repaired.Plan.Operations, 1)
	assert.Equal(t, "t-lv-1", repaired.Plan.Operations[0].ID)

	synced, err := svc.SyncTrustedBy(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, synced.Plan.Count(reconcile.OpCreate))
	require.Len(t, synced.Plan.Operations, 1)
	assert.Equal(t, "landing-lv", synced.Plan.Operations[0].ID)
	assert.Equal(t, 0, synced.Summary.Failed)

	landing, ok := st.Get("landing-lv")
	require.True(t, ok)
	refs := landing["trustedBy"].([]any)
	require.Len(t, refs, 1)
	assert.Equal(t, "t-lv-1", refs[0].(map[string]any)["_ref"])

	again, err := svc.SyncTrustedBy(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Plan.Operations)
}
