package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s := newSQLite(t)

	v, err := s.Get(context.Background(), KeyAuthToken)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLiteStore_SetOverwrites(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyAuthToken, []byte("t1")))
	require.NoError(t, s.Set(ctx, KeyAuthToken, []byte("t2")))

	v, err := s.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("t2"), v)
}

func TestSQLiteStore_DeleteAndList(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyAuthToken, []byte("t")))
	require.NoError(t, s.Set(ctx, KeyUserInfo, []byte("{}")))
	require.NoError(t, s.Set(ctx, KeyAPIHost, []byte("https://h")))

	require.NoError(t, s.Delete(ctx, KeyAuthToken, KeyUserInfo))
	require.NoError(t, s.Delete(ctx))

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{KeyAPIHost: []byte("https://h")}, all)
}

func TestSQLiteStore_Clear(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()

	for _, k := range AllKeys {
		require.NoError(t, s.Set(ctx, k, []byte("x")))
	}
	require.NoError(t, s.Clear(ctx))

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLiteStore_AtomicRollsBack(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, KeyAuthToken, []byte("old")))

	boom := errors.New("boom")
	err := s.Atomic(ctx, func(ctx context.Context, tx Store) error {
		require.NoError(t, tx.Delete(ctx, KeyAuthToken))
		require.NoError(t, tx.Set(ctx, KeyUserInfo, []byte("{}")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, err := s.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), v)

	v, err = s.Get(ctx, KeyUserInfo)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLiteStore_AtomicCommits(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()

	err := s.Atomic(ctx, func(ctx context.Context, tx Store) error {
		if err := tx.Set(ctx, KeyAuthToken, []byte("t")); err != nil {
			return err
		}
		// nested view reuses the same transaction
		return tx.Atomic(ctx, func(ctx context.Context, inner Store) error {
			return inner.Set(ctx, KeyUserInfo, []byte("{}"))
		})
	})
	require.NoError(t, err)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	s := newSQLite(t)
	require.NoError(t, RunMigrations(context.Background(), s.db))
}
