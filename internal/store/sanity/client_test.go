package sanity_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-locale-sync/internal/runtimeconfig"
	"github.com/goliatone/go-locale-sync/internal/store"
	"github.com/goliatone/go-locale-sync/internal/store/sanity"
	"github.com/goliatone/go-locale-sync/pkg/interfaces"
)

func newClient(t *testing.T, handler http.HandlerFunc) *sanity.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := sanity.New(runtimeconfig.StoreConfig{
		APIHost: server.URL,
		Dataset: "production",
		Token:   "secret",
	}, sanity.WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return client
}

func TestBuildQuery(t *testing.T) {
	query, params := sanity.BuildQuery(interfaces.DocumentFilter{
		Type:    "portfolio",
		Locales: []string{"en", "lv"},
		Slug:    "acme",
	})
	assert.Equal(t, `*[_type == $type && locale in $locales && slug.current == $slug] | order(locale asc, _id asc)`, query)
	assert.Equal(t, "portfolio", params["type"])
	assert.Equal(t, []string{"en", "lv"}, params["locales"])

	query, params = sanity.BuildQuery(interfaces.DocumentFilter{})
	assert.Contains(t, query, "defined(_id)")
	assert.Empty(t, params)
}

func TestQuerySendsParametersAndToken(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2024-05-01/data/query/production", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, `"trustedBy"`, r.URL.Query().Get("$type"))
		assert.Equal(t, `["lv"]`, r.URL.Query().Get("$locales"))
		_, _ = io.WriteString(w, `{"ms":3,"result":[{"_id":"tb-1","_type":"trustedBy","locale":"lv"}]}`)
	})

	docs, err := client.Query(context.Background(), interfaces.DocumentFilter{Type: "trustedBy", Locales: []string{"lv"}})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "tb-1", docs[0]["_id"])
}

func TestPatchPostsSetMutation(t *testing.T) {
	var body map[string]any
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2024-05-01/data/mutate/production", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"transactionId":"tx","results":[{"id":"tb-1","operation":"update"}]}`)
	})

	require.NoError(t, client.Patch(context.Background(), "tb-1", map[string]any{"translationKey": "k"}))

	mutations := body["mutations"].([]any)
	patch := mutations[0].(map[string]any)["patch"].(map[string]any)
	assert.Equal(t, "tb-1", patch["id"])
	assert.Equal(t, map[string]any{"translationKey": "k"}, patch["set"])
}

func TestPatchMapsDocumentNotFound(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error":{"type":"mutationError","description":"The mutation(s) failed","items":[{"error":{"type":"documentNotFoundError","description":"Document not found","id":"drafts.tb-1"}}]}}`)
	})

	err := client.Patch(context.Background(), "drafts.tb-1", map[string]any{"x": 1})
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
	assert.Contains(t, err.Error(), "Document not found")
}

func TestServerErrorIsNotNotFound(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "upstream unavailable")
	})

	_, err := client.Create(context.Background(), interfaces.RawDocument{"_id": "x", "_type": "trustedBy"})
	require.Error(t, err)
	assert.False(t, store.IsNotFound(err))

	var reqErr *store.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 500, reqErr.StatusCode)
	assert.Equal(t, "upstream unavailable", reqErr.Message)
}

func TestNewRequiresProject(t *testing.T) {
	_, err := sanity.New(runtimeconfig.StoreConfig{Dataset: "production"})
	assert.ErrorIs(t, err, sanity.ErrProjectRequired)
}
