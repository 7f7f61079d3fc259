package skills

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxie/internal/state"
)

func writeFeed(t *testing.T, dataDir, content string) {
	t.Helper()
	dir := filepath.Join(dataDir, "cache", "news")
	require.NoError(t, os.MkdirAll(dir, 0o777))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "feed_data.json"), []byte(content), 0o666))
}

func writeBulletin(t *testing.T, dataDir, rel string, size int) {
	t.Helper()
	abs := filepath.Join(dataDir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o777))
	require.NoError(t, os.WriteFile(abs, bytes.Repeat([]byte{0xff}, size), 0o666))
}

func newNews(t *testing.T, dataDir string) *News {
	t.Helper()
	n := NewNews(dataDir, state.NewStore(t.TempDir()))
	return n.WithPicker(func(int) int { return 0 })
}

func TestNewsFlatFormat(t *testing.T) {
	dataDir := t.TempDir()
	writeFeed(t, dataDir, `{"items": [
		{"type": "news", "category": "tecnologia", "local_path": "cache/news/tech_1.mp3"},
		{"type": "news", "category": "sport", "local_path": "cache/news/sport_1.mp3"},
		{"type": "podcast", "category": "tecnologia", "local_path": "cache/news/pod_1.mp3"}
	]}`)
	writeBulletin(t, dataDir, "cache/news/tech_1.mp3", 5000)
	writeBulletin(t, dataDir, "cache/news/sport_1.mp3", 5000)
	writeBulletin(t, dataDir, "cache/news/pod_1.mp3", 5000)

	res := newNews(t, dataDir).Run("tecnologia")
	require.True(t, res.OK)
	assert.Equal(t, "tech", res.Meta["category"])
	assert.Equal(t, filepath.Join(dataDir, "cache/news/tech_1.mp3"), res.LocalPath)
}

func TestNewsGroupedFormat(t *testing.T) {
	dataDir := t.TempDir()
	writeFeed(t, dataDir, `{
		"finanza": [{"local_path": "cache/news/fin_1.mp3"}],
		"general": [{"local_path": "cache/news/gen_1.mp3"}]
	}`)
	writeBulletin(t, dataDir, "cache/news/fin_1.mp3", 5000)
	writeBulletin(t, dataDir, "cache/news/gen_1.mp3", 5000)

	res := newNews(t, dataDir).Run("economia")
	require.True(t, res.OK)
	assert.Equal(t, "finanza", res.Meta["category"])
}

func TestNewsFallsBackToGeneral(t *testing.T) {
	dataDir := t.TempDir()
	writeFeed(t, dataDir, `{"general": [{"local_path": "cache/news/gen_1.mp3"}]}`)
	writeBulletin(t, dataDir, "cache/news/gen_1.mp3", 5000)

	res := newNews(t, dataDir).Run("tecnologia")
	require.True(t, res.OK)
	assert.Equal(t, "general", res.Meta["category"])
}

func TestNewsSkipsTinyArtifacts(t *testing.T) {
	dataDir := t.TempDir()
	writeFeed(t, dataDir, `{"general": [
		{"local_path": "cache/news/tiny.mp3"},
		{"local_path": "cache/news/full.mp3"}
	]}`)
	writeBulletin(t, dataDir, "cache/news/tiny.mp3", 100)
	writeBulletin(t, dataDir, "cache/news/full.mp3", 5000)

	res := newNews(t, dataDir).Run("")
	require.True(t, res.OK)
	assert.Equal(t, filepath.Join(dataDir, "cache/news/full.mp3"), res.LocalPath)
}

func TestNewsAvoidsImmediateRepeat(t *testing.T) {
	dataDir := t.TempDir()
	writeFeed(t, dataDir, `{"general": [
		{"local_path": "cache/news/a.mp3"},
		{"local_path": "cache/news/b.mp3"}
	]}`)
	writeBulletin(t, dataDir, "cache/news/a.mp3", 5000)
	writeBulletin(t, dataDir, "cache/news/b.mp3", 5000)

	n := newNews(t, dataDir)

	first := n.Run("")
	require.True(t, first.OK)
	second := n.Run("")
	require.True(t, second.OK)
	assert.NotEqual(t, first.LocalPath, second.LocalPath)
}

func TestNewsMissingFeed(t *testing.T) {
	res := newNews(t, t.TempDir()).Run("sport")
	assert.False(t, res.OK)
	assert.Equal(t, "FEED_MISSING", res.Err)
}

func TestNewsBadFeedJSON(t *testing.T) {
	dataDir := t.TempDir()
	writeFeed(t, dataDir, `{"items": [`)

	res := newNews(t, dataDir).Run("")
	assert.False(t, res.OK)
	assert.Equal(t, "FEED_BAD_JSON", res.Err)
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "tech", normalizeCategory("Tecnologia"))
	assert.Equal(t, "finanza", normalizeCategory("economia"))
	assert.Equal(t, "", normalizeCategory("ultime"))
	assert.Equal(t, "general", normalizeCategory("cronaca"))
}
