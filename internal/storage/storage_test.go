package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	ctx := context.Background()

	mem, err := Open(ctx, BackendMemory, "")
	require.NoError(t, err)

	lite, err := Open(ctx, BackendSQLite, ":memory:")
	require.NoError(t, err)

	file, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "nested", "store.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = mem.Close()
		_ = lite.Close()
		_ = file.Close()
	})
	return map[string]Backend{"memory": mem, "sqlite-mem": lite, "sqlite-file": file}
}

func TestBackend_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			v, err := b.Get(ctx, "absent")
			require.NoError(t, err)
			require.Nil(t, v)

			require.NoError(t, b.Set(ctx, "k", []byte("old")))
			require.NoError(t, b.Set(ctx, "k", []byte("new")))
			v, err = b.Get(ctx, "k")
			require.NoError(t, err)
			require.Equal(t, []byte("new"), v)

			require.NoError(t, b.Delete(ctx, "k"))
			require.NoError(t, b.Delete(ctx, "k"))
			v, err = b.Get(ctx, "k")
			require.NoError(t, err)
			require.Nil(t, v)
		})
	}
}

func TestBackend_KeysAndClear(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{"lockout_b@x.io", "attempts_a@x.io", "lockout_a@x.io", "users"} {
				require.NoError(t, b.Set(ctx, k, []byte{1}))
			}

			keys, err := b.Keys(ctx, "lockout_")
			require.NoError(t, err)
			require.Equal(t, []string{"lockout_a@x.io", "lockout_b@x.io"}, keys)

			all, err := b.Keys(ctx, "")
			require.NoError(t, err)
			require.Len(t, all, 4)

			require.NoError(t, b.Clear(ctx))
			all, err = b.Keys(ctx, "")
			require.NoError(t, err)
			require.Empty(t, all)
		})
	}
}

func TestMemory_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	in := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", in))
	in[0] = 'z'

	out, _ := m.Get(ctx, "k")
	require.Equal(t, []byte("abc"), out)
	out[1] = 'z'
	again, _ := m.Get(ctx, "k")
	require.Equal(t, []byte("abc"), again)
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()
	_, err := Open(ctx, "redis", "")
	require.Error(t, err)

	_, err = OpenSQLite(ctx, "")
	require.Error(t, err)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "currentUser", []byte("blob")))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get(ctx, "currentUser")
	require.NoError(t, err)
	require.Equal(t, []byte("blob"), v)
}
