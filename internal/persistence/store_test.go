package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "stars.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sq,
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "missing")
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, s.Put(ctx, "k", "v1"))
			v, ok, err := s.Get(ctx, "k")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, "v1", v)

			require.NoError(t, s.Put(ctx, "k", "v2"))
			v, _, err = s.Get(ctx, "k")
			require.NoError(t, err)
			require.Equal(t, "v2", v)

			require.NoError(t, s.Delete(ctx, "k"))
			_, ok, err = s.Get(ctx, "k")
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, s.Delete(ctx, "k"), "deleting a missing key")
		})
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stars.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, SaveKey, `{"version":2}`))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get(ctx, SaveKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"version":2}`, v)
}
