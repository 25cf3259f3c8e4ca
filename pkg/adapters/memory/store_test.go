package memory_test

import (
	"testing"

	"github.com/aretw0/osl/pkg/adapters/memory"
	"github.com/aretw0/osl/pkg/ports"
)

var _ ports.KeyValueStore = (*memory.Store)(nil)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunKeyValueStoreContract(t, store)
}
