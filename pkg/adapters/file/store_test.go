package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/osl/pkg/adapters/file"
	"github.com/aretw0/osl/pkg/domain"
	"github.com/aretw0/osl/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.KeyValueStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "state.json"))
	ports.RunKeyValueStoreContract(t, store)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	ctx := context.Background()

	require.NoError(t, file.New(path).Set(ctx, domain.KeyTenant, "tenant-a"))

	reopened := file.New(path)
	val, err := reopened.Get(ctx, domain.KeyTenant)
	require.NoError(t, err)
	assert.Equal(t, "tenant-a", val)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := file.New(path).Get(context.Background(), domain.KeyTenant)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".osl", "state.json"), file.New("").Path)
}
