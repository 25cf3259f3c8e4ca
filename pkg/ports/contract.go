package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/osl/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunKeyValueStoreContract runs a suite of tests to verify that a KeyValueStore
// implementation adheres to the defined interface contract.
func RunKeyValueStoreContract(t *testing.T, store KeyValueStore) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405.000000")

	t.Run("Set and Get", func(t *testing.T) {
		err := store.Set(ctx, key, "11111111-1111-1111-1111-111111111111")
		require.NoError(t, err, "Set should not return error")

		val, err := store.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, "11111111-1111-1111-1111-111111111111", val)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, "first"))
		require.NoError(t, store.Set(ctx, key, "second"))

		val, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "second", val)
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := store.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, "value"))

		err := store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrNotFound, "Get after Delete should return ErrNotFound")
	})

	t.Run("Delete Missing", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "never-set-"+key))
	})

	t.Run("Keys Are Independent", func(t *testing.T) {
		k1, k2 := key+"-tenant", key+"-token"
		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		require.NoError(t, store.Set(ctx, k1, "t"))
		require.NoError(t, store.Set(ctx, k2, "secret"))
		require.NoError(t, store.Delete(ctx, k1))

		val, err := store.Get(ctx, k2)
		require.NoError(t, err)
		assert.Equal(t, "secret", val)
	})
}
