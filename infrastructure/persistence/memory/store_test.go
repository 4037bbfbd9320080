package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetRoundTrip(t *testing.T) {
	store := NewStore()

	require.NoError(t, store.Set("p1", "projectData", map[string]string{"title": "Biology"}))

	var out map[string]string
	found, err := store.Get("p1", "projectData", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Biology", out["title"])
}

func TestGetMissingKey(t *testing.T) {
	store := NewStore()

	var out map[string]string
	found, err := store.Get("p1", "absent", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKeysAreProjectNamespaced(t *testing.T) {
	store := NewStore()

	require.NoError(t, store.Set("p1", "projectData", "one"))
	require.NoError(t, store.Set("p2", "projectData", "two"))

	var out string
	found, err := store.Get("p2", "projectData", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "two", out)
}

func TestCorruptEntryIsDiscarded(t *testing.T) {
	store := NewStore()
	store.SetRaw("p1", "projectData", []byte("{not json"))

	var out map[string]string
	found, err := store.Get("p1", "projectData", &out)
	require.NoError(t, err)
	assert.False(t, found, "a corrupt entry reads as absent")
	assert.Zero(t, store.Len(), "and is removed from the store")
}

func TestDeleteAbsentKeyIsNotAnError(t *testing.T) {
	store := NewStore()
	assert.NoError(t, store.Delete("p1", "absent"))
}
