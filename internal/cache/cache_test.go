package cache

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCache(t *testing.T) {
	t.Run("missing file reads empty", func(t *testing.T) {
		c := NewFileCache(afero.NewMemMapFs(), "/home/u/.tickr/cache.json")

		_, ok := c.Get("user-theme")
		assert.False(t, ok)
	})

	t.Run("set then get", func(t *testing.T) {
		c := NewFileCache(afero.NewMemMapFs(), "/home/u/.tickr/cache.json")

		require.NoError(t, c.Set("user-theme", "dark"))
		v, ok := c.Get("user-theme")
		assert.True(t, ok)
		assert.Equal(t, "dark", v)
	})

	t.Run("set overwrites", func(t *testing.T) {
		c := NewFileCache(afero.NewMemMapFs(), "/cache.json")

		require.NoError(t, c.Set("user-theme", "dark"))
		require.NoError(t, c.Set("user-theme", "light"))
		v, _ := c.Get("user-theme")
		assert.Equal(t, "light", v)
	})

	t.Run("survives a new instance", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, NewFileCache(fs, "/cache.json").Set("user-theme", "dark"))

		v, ok := NewFileCache(fs, "/cache.json").Get("user-theme")
		assert.True(t, ok)
		assert.Equal(t, "dark", v)
	})

	t.Run("corrupt file reads empty and is repaired on set", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/cache.json", []byte("{not json"), 0644))
		c := NewFileCache(fs, "/cache.json")

		_, ok := c.Get("user-theme")
		assert.False(t, ok)

		require.NoError(t, c.Set("user-theme", "light"))
		v, ok := c.Get("user-theme")
		assert.True(t, ok)
		assert.Equal(t, "light", v)
	})

	t.Run("read-only filesystem fails set", func(t *testing.T) {
		c := NewFileCache(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/cache.json")

		assert.Error(t, c.Set("user-theme", "dark"))
	})
}
