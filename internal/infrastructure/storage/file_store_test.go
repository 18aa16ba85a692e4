package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreSaveUsesUniqueNames(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "images"))

	p1, err := store.Save(strings.NewReader("one"), "cat.png")
	require.NoError(t, err)
	p2, err := store.Save(strings.NewReader("two"), "cat.png")
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2)
	assert.True(t, strings.HasPrefix(filepath.Base(p1), "temp_"))
	assert.True(t, strings.HasSuffix(p1, "_cat.png"))

	b, err := os.ReadFile(p2)
	require.NoError(t, err)
	assert.Equal(t, "two", string(b))
}

func TestFileStoreSaveStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	p, err := store.Save(strings.NewReader("x"), "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(p))
}

func TestRemoveIsIdempotent(t *testing.T) {
	store := NewFileStore(t.TempDir())
	p, err := store.Save(strings.NewReader("x"), "a.jpg")
	require.NoError(t, err)

	require.NoError(t, store.Remove(p))
	assert.NoFileExists(t, p)
	assert.NoError(t, store.Remove(p))
	assert.NoError(t, RemoveIfExists(""))
}
