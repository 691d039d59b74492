package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quellen/murmur/internal/recording"
)

func writeRecording(t *testing.T, root string, ts int64, transcript string, audio []byte) {
	t.Helper()
	dir := filepath.Join(root, strconv.FormatInt(ts, 10))
	require.NoError(t, os.MkdirAll(dir, 0o755))

	data, err := json.Marshal(recording.Meta{Result: transcript})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.json"), data, 0o644))

	if audio != nil {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "output.wav"), audio, 0o644))
	}
}

func newTestIndex(t *testing.T, root string) *Index {
	t.Helper()
	ix, err := New(recording.NewScanner(root, nil))
	require.NoError(t, err)
	require.NoError(t, ix.Sync())
	return ix
}

func TestList_PagesNewestFirst(t *testing.T) {
	root := t.TempDir()
	for ts := int64(100); ts <= 500; ts += 100 {
		writeRecording(t, root, ts, "transcript "+strconv.FormatInt(ts, 10), []byte{byte(ts / 100)})
	}
	ix := newTestIndex(t, root)

	env := ix.List(1, 2, nil, nil)
	assert.Equal(t, 5, env.Pagination.TotalItems)
	assert.Equal(t, 3, env.Pagination.TotalPages)
	require.Len(t, env.Items, 2)
	assert.Equal(t, "500", env.Items[0].ConversationID)
	assert.Equal(t, "400", env.Items[1].ConversationID)

	last := ix.List(3, 2, nil, nil)
	require.Len(t, last.Items, 1)
	assert.Equal(t, "100", last.Items[0].ConversationID)

	beyond := ix.List(9, 2, nil, nil)
	assert.Empty(t, beyond.Items)
}

func TestList_TimestampBounds(t *testing.T) {
	root := t.TempDir()
	for ts := int64(100); ts <= 500; ts += 100 {
		writeRecording(t, root, ts, "x", []byte{byte(ts / 100)})
	}
	ix := newTestIndex(t, root)

	start, end := int64(200), int64(400)
	env := ix.List(1, 10, &start, &end)
	assert.Equal(t, 3, env.Pagination.TotalItems)
	require.Len(t, env.Items, 3)
	assert.Equal(t, "400", env.Items[0].ConversationID)
	assert.Equal(t, "200", env.Items[2].ConversationID)

	onlyStart := ix.List(1, 10, &start, nil)
	assert.Equal(t, 4, onlyStart.Pagination.TotalItems)
}

func TestSearch_MatchesTranscripts(t *testing.T) {
	root := t.TempDir()
	writeRecording(t, root, 100, "notes from the weekly sync about roadmap", []byte{1})
	writeRecording(t, root, 200, "grocery list and errands", []byte{2})
	ix := newTestIndex(t, root)

	env, err := ix.Search("weekly sync", 1, 10, nil, nil)
	require.NoError(t, err)
	require.Len(t, env.Items, 1)
	assert.Equal(t, "100", env.Items[0].ConversationID)
	require.NotEmpty(t, env.Items[0].MatchSnippets)
	assert.LessOrEqual(t, len(env.Items[0].MatchSnippets), 3)
	assert.Contains(t, env.Items[0].MatchSnippets[0], "sync")
}

func TestSearch_EmptyQueryIsEmpty(t *testing.T) {
	root := t.TempDir()
	writeRecording(t, root, 100, "anything", []byte{1})
	ix := newTestIndex(t, root)

	env, err := ix.Search("   ", 1, 10, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, env.Items)
	assert.Zero(t, env.Pagination.TotalItems)
}

func TestSearch_RespectsTimestampBounds(t *testing.T) {
	root := t.TempDir()
	writeRecording(t, root, 100, "budget meeting", []byte{1})
	writeRecording(t, root, 500, "budget review", []byte{2})
	ix := newTestIndex(t, root)

	end := int64(200)
	env, err := ix.Search("budget", 1, 10, nil, &end)
	require.NoError(t, err)
	require.Len(t, env.Items, 1)
	assert.Equal(t, "100", env.Items[0].ConversationID)
}

func TestGet_AndAudioPath(t *testing.T) {
	root := t.TempDir()
	writeRecording(t, root, 100, "with audio", []byte{1})
	writeRecording(t, root, 200, "without audio", nil)
	ix := newTestIndex(t, root)

	c, ok := ix.Get("100")
	require.True(t, ok)
	assert.Equal(t, "with audio", c.Latest().BestTranscript())

	p, ok := ix.AudioPath("100", "100")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "100", "output.wav"), p)

	_, ok = ix.AudioPath("200", "200")
	assert.False(t, ok)
	_, ok = ix.Get("nope")
	assert.False(t, ok)
}

func TestSync_PicksUpNewAndRemoved(t *testing.T) {
	root := t.TempDir()
	writeRecording(t, root, 100, "first", []byte{1})
	ix := newTestIndex(t, root)

	writeRecording(t, root, 200, "second appears later", []byte{2})
	require.NoError(t, ix.Sync())

	env := ix.List(1, 10, nil, nil)
	assert.Equal(t, 2, env.Pagination.TotalItems)

	require.NoError(t, os.RemoveAll(filepath.Join(root, "100")))
	require.NoError(t, ix.Sync())

	env = ix.List(1, 10, nil, nil)
	require.Len(t, env.Items, 1)
	assert.Equal(t, "200", env.Items[0].ConversationID)

	// The stale document must be gone from search too.
	res, err := ix.Search("first", 1, 10, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}
