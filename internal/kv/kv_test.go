package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("product-favorites", `["p1","p3"]`))
	v, ok, err := s.Get("product-favorites")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["p1","p3"]`, v)

	require.NoError(t, s.Set("product-favorites", `[]`))
	v, _, err = s.Get("product-favorites")
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	require.NoError(t, s.Delete("product-favorites"))
	_, ok, err = s.Get("product-favorites")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete("never-set"))
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.toml")
	s, err := NewFile(path)
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.toml")
	first, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, first.Set("k", "v"))

	second, err := NewFile(path)
	require.NoError(t, err)
	v, ok, err := second.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestFile_CorruptFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.toml")
	require.NoError(t, os.WriteFile(path, []byte("not valid toml {{{\n"), 0o644))

	s, err := NewFile(path)
	require.NoError(t, err)
	_, _, err = s.Get("k")
	assert.Error(t, err)
	assert.Error(t, s.Set("k", "v"))
}

func TestFile_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := NewFile("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "share", "shelf", "storage.toml"), s.Path())
}

func TestSQLite(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "storage.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestSQLite_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.db")
	first, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Set("k", "v"))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()
	v, ok, err := second.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		backend string
		path    string
	}{
		{BackendMemory, ""},
		{BackendFile, filepath.Join(dir, "storage.toml")},
		{BackendSQLite, filepath.Join(dir, "storage.db")},
		{"SQLite", ":memory:"},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, closer, err := Open(tt.backend, tt.path)
			require.NoError(t, err)
			defer func() { _ = closer.Close() }()
			exerciseStore(t, s)
		})
	}

	_, _, err := Open("redis", "")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
