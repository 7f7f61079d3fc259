package semantic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStore(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "intents_vectors.json")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o666))
	return p
}

func TestLoadStoreValid(t *testing.T) {
	p := writeStore(t, `{
		"meta": {"model": "text-embedding-3-small", "dimensions": 2, "created_at": "2025-11-02"},
		"intents": [
			{"intent": "weather", "examples": ["che tempo fa"], "centroid": [0.1, 0.2]},
			{"intent": "news", "examples": ["ultime notizie"], "centroid": [0.3, 0.4]}
		]
	}`)

	s, err := LoadStore(p)
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", s.Meta.Model)
	assert.Len(t, s.Intents, 2)
}

func TestLoadStoreMissingFile(t *testing.T) {
	_, err := LoadStore(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadStoreRejectsDimensionMismatch(t *testing.T) {
	p := writeStore(t, `{
		"meta": {"model": "m", "dimensions": 3},
		"intents": [{"intent": "weather", "centroid": [0.1, 0.2]}]
	}`)

	_, err := LoadStore(p)
	assert.ErrorContains(t, err, "dimensions")
}

func TestLoadStoreRejectsDuplicateIntent(t *testing.T) {
	p := writeStore(t, `{
		"meta": {"model": "m", "dimensions": 1},
		"intents": [
			{"intent": "weather", "centroid": [0.1]},
			{"intent": "weather", "centroid": [0.2]}
		]
	}`)

	_, err := LoadStore(p)
	assert.ErrorContains(t, err, "duplicate")
}

func TestLoadStoreRejectsEmpty(t *testing.T) {
	p := writeStore(t, `{"meta": {"model": "m"}, "intents": []}`)
	_, err := LoadStore(p)
	assert.Error(t, err)
}

func TestLoadStoreRejectsGarbage(t *testing.T) {
	p := writeStore(t, `{"meta": `)
	_, err := LoadStore(p)
	assert.Error(t, err)
}
