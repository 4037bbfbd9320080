package badgerstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(InMemoryConfig(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{}, zap.NewNop())
	assert.Error(t, err)
}

func TestSetGetDelete(t *testing.T) {
	store := newTestStore(t)

	type payload struct {
		Title string `json:"title"`
	}
	require.NoError(t, store.Set("p1", "projectData", payload{Title: "Biology"}))

	var out payload
	found, err := store.Get("p1", "projectData", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Biology", out.Title)

	require.NoError(t, store.Delete("p1", "projectData"))
	found, err = store.Get("p1", "projectData", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetMissingKeyIsNotFound(t *testing.T) {
	store := newTestStore(t)

	var out string
	found, err := store.Get("p1", "absent", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCorruptEntryReadsAsAbsent(t *testing.T) {
	store := newTestStore(t)

	// Write a shape, then read it back into an incompatible type so the
	// unmarshal fails like a corrupted document would.
	require.NoError(t, store.Set("p1", "shape_n1", map[string]string{"label": "Cell"}))

	var out []int
	found, err := store.Get("p1", "shape_n1", &out)
	require.NoError(t, err)
	assert.False(t, found)

	var again map[string]string
	found, err = store.Get("p1", "shape_n1", &again)
	require.NoError(t, err)
	assert.False(t, found, "the corrupt entry is dropped on first read")
}

func TestDeleteAbsentKey(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Delete("p1", "absent"))
}
