package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Get(ctx, "absent")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "job-favorites", []byte(`[{"id":"a"}]`)))
		got, err := s.Get(ctx, "job-favorites")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"a"}]`, string(got))
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "job-favorites", []byte(`[]`)))
		got, err := s.Get(ctx, "job-favorites")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, s.Remove(ctx, "job-favorites"))
		_, err := s.Get(ctx, "job-favorites")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("remove missing is not an error", func(t *testing.T) {
		require.NoError(t, s.Remove(ctx, "never-set"))
	})
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf))
	buf[0] = 'x'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFileStore(t *testing.T) {
	s, err := NewFile(t.TempDir())
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFile(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set(context.Background(), "job-favorites", []byte(`[]`)))

	data, err := os.ReadFile(filepath.Join(dir, "job-favorites.json"))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileStoreRejectsUnsafeKeys(t *testing.T) {
	s, err := NewFile(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"../escape", "a/b", "", ".hidden"} {
		t.Run(key, func(t *testing.T) {
			require.ErrorIs(t, s.Set(ctx, key, []byte("x")), ErrInvalidKey)
			_, err := s.Get(ctx, key)
			require.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(ctx) })

	exerciseStore(t, s)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Close(ctx))

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(ctx) })

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		backend string
		want    any
	}{
		{BackendMemory, &Memory{}},
		{"", &Memory{}},
		{BackendFile, &File{}},
		{BackendSQLite, &SQLite{}},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := Open(ctx, Config{Backend: tt.backend, DataDir: dir}, nil)
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close(ctx) })
			assert.IsType(t, tt.want, s)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "etcd"}, nil)
	require.ErrorIs(t, err, ErrUnknownBackend)
}

func TestOpenOrMemoryFallsBack(t *testing.T) {
	s := OpenOrMemory(context.Background(), Config{Backend: "etcd"}, nil)
	assert.IsType(t, &Memory{}, s)
}
