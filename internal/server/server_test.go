package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quellen/murmur/internal/conversation"
	"github.com/quellen/murmur/internal/index"
	"github.com/quellen/murmur/internal/recording"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	root := t.TempDir()
	for ts := int64(100); ts <= 500; ts += 100 {
		dir := filepath.Join(root, strconv.FormatInt(ts, 10))
		require.NoError(t, os.MkdirAll(dir, 0o755))
		meta, err := json.Marshal(recording.Meta{Result: "transcript number " + strconv.FormatInt(ts, 10)})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.json"), meta, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "output.wav"), []byte{byte(ts / 100)}, 0o644))
	}

	ix, err := index.New(recording.NewScanner(root, nil))
	require.NoError(t, err)
	require.NoError(t, ix.Sync())

	srv := httptest.NewServer(New(ix))
	t.Cleanup(srv.Close)
	return srv, root
}

func getEnvelope(t *testing.T, url string) (conversation.PageEnvelope, int) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env conversation.PageEnvelope
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return env, resp.StatusCode
}

func TestListEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	env, status := getEnvelope(t, srv.URL+"/conversations?page=1&page_size=2")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 5, env.Pagination.TotalItems)
	assert.Equal(t, 3, env.Pagination.TotalPages)
	require.Len(t, env.Items, 2)
	assert.Equal(t, "500", env.Items[0].ConversationID)
}

func TestListEndpoint_TimestampFilter(t *testing.T) {
	srv, _ := newTestServer(t)

	env, status := getEnvelope(t, srv.URL+"/conversations?start_timestamp=200&end_timestamp=400")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, env.Pagination.TotalItems)
}

func TestListEndpoint_RejectsBadParams(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, q := range []string{"page=0", "page=x", "page_size=0", "page_size=101", "start_timestamp=noon"} {
		_, status := getEnvelope(t, srv.URL+"/conversations?"+q)
		assert.Equal(t, http.StatusBadRequest, status, q)
	}
}

func TestSearchEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	env, status := getEnvelope(t, srv.URL+"/conversations/search?q=transcript+number+300")
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, env.Items)
	assert.NotEmpty(t, env.Items[0].MatchSnippets)

	_, status = getEnvelope(t, srv.URL+"/conversations/search")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/conversations/300")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var conv conversation.Conversation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&conv))
	assert.Equal(t, "300", conv.ConversationID)
	require.NotNil(t, conv.Latest())
	assert.True(t, conv.Latest().IsLatest)

	missing, err := http.Get(srv.URL + "/conversations/999")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestAudioEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/conversations/200/audio/200")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, body)

	missing, err := http.Get(srv.URL + "/conversations/200/audio/999")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Status  string `json:"status"`
		Syncing bool   `json:"syncing"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "ok", out.Status)
	assert.False(t, out.Syncing)
}

func TestSyncEndpoint(t *testing.T) {
	srv, root := newTestServer(t)

	dir := filepath.Join(root, "600")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.json"), []byte(`{"result":"fresh"}`), 0o644))

	resp, err := http.Post(srv.URL+"/index/sync", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	env, status := getEnvelope(t, srv.URL+"/conversations")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 6, env.Pagination.TotalItems)
}
