package badger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend(t *testing.T) {
	t.Run("on disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "db")
		backend, err := OpenBackend(path, false)
		require.NoError(t, err)

		assert.False(t, backend.IsClosed())
		require.NoError(t, backend.Close())
		assert.True(t, backend.IsClosed())
	})

	t.Run("in memory", func(t *testing.T) {
		backend, err := OpenBackend("", true)
		require.NoError(t, err)
		defer backend.Close()

		assert.False(t, backend.IsClosed())
	})
}

func TestBackendWithTx(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	key := []byte("vecrec:test")

	err = backend.WithTx(func(tx *badgerdb.Txn) error {
		if err := tx.Set(key, []byte("value")); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	require.NoError(t, err)

	err = backend.WithTx(func(tx *badgerdb.Txn) error {
		item, err := tx.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			assert.Equal(t, []byte("value"), val)
			return nil
		})
	}, false)
	require.NoError(t, err)
}

func TestBackendWithTransaction(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	t.Run("propagates fn error", func(t *testing.T) {
		boom := errors.New("boom")
		err := backend.WithTransaction(context.Background(), func(ctx context.Context) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("passes context through", func(t *testing.T) {
		type ctxKey struct{}
		ctx := context.WithValue(context.Background(), ctxKey{}, "v")
		err := backend.WithTransaction(ctx, func(ctx context.Context) error {
			assert.Equal(t, "v", ctx.Value(ctxKey{}))
			return nil
		})
		assert.NoError(t, err)
	})
}
