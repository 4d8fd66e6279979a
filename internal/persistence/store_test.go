package persistence

import (
	"adforge/internal/persistence/interfaces"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFactory func(t *testing.T, quota int64) interfaces.KVStoreInterface

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"file": func(t *testing.T, quota int64) interfaces.KVStoreInterface {
			s, err := NewFileStore(t.TempDir(), quota)
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T, quota int64) interfaces.KVStoreInterface {
			s, err := OpenSQLiteStore(":memory:", quota)
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func TestKVStore_Contract(t *testing.T) {
	ctx := context.Background()
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			s := factory(t, 1024)

			_, found, err := s.Get(ctx, "viral_ad_sessions_v2")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, s.Set(ctx, "viral_ad_sessions_v2", []byte(`[]`)))
			val, found, err := s.Get(ctx, "viral_ad_sessions_v2")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, []byte(`[]`), val)

			require.NoError(t, s.Set(ctx, "viral_ad_sessions_v2", []byte(`[{"id":"a"}]`)))
			val, _, err = s.Get(ctx, "viral_ad_sessions_v2")
			require.NoError(t, err)
			assert.Equal(t, []byte(`[{"id":"a"}]`), val)

			require.NoError(t, s.Delete(ctx, "viral_ad_sessions_v2"))
			_, found, err = s.Get(ctx, "viral_ad_sessions_v2")
			require.NoError(t, err)
			assert.False(t, found)

			assert.NoError(t, s.Delete(ctx, "never-set"))
		})
	}
}

func TestKVStore_QuotaExceeded(t *testing.T) {
	ctx := context.Background()
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			s := factory(t, 100)

			require.NoError(t, s.Set(ctx, "k", bytes.Repeat([]byte("a"), 80)))

			err := s.Set(ctx, "k", bytes.Repeat([]byte("b"), 101))
			assert.ErrorIs(t, err, ErrQuotaExceeded)

			val, _, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, bytes.Repeat([]byte("a"), 80), val, "previous value survives a rejected write")

			// replacing a value does not count the old one
			assert.NoError(t, s.Set(ctx, "k", bytes.Repeat([]byte("c"), 100)))

			err = s.Set(ctx, "other", []byte("x"))
			assert.ErrorIs(t, err, ErrQuotaExceeded)
		})
	}
}

func TestFileStore_AtomicWriteLeavesNoTmp(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, 1024)
	require.NoError(t, err)

	require.NoError(t, s.Set(context.Background(), "sessions", []byte("[]")))

	_, err = os.Stat(filepath.Join(dir, "sessions.dat"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "sessions.dat.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), 1024)
	require.NoError(t, err)

	err = s.Set(context.Background(), "../escape", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, _, err = s.Get(context.Background(), "a/b")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestNewSQLiteStore_CreatesDatabaseFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s, err := NewSQLiteStore(dir, 1024)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(context.Background(), "k", []byte("v")))
	_, err = os.Stat(filepath.Join(dir, sqliteFile))
	assert.NoError(t, err)
}
