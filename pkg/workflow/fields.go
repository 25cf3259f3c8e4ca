package workflow

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/osl/internal/logging"
	"github.com/aretw0/osl/pkg/domain"
	"github.com/aretw0/osl/pkg/ports"
)

// Form field names, grouped by the form they belong to.
const (
	FieldTenantName = "tenant.name"

	FieldProductSKU         = "product.sku"
	FieldProductName        = "product.name"
	FieldProductPrice       = "product.price"
	FieldProductDescription = "product.description"
	FieldProductAttributes  = "product.attributes"

	FieldCustomerCode  = "customer.code"
	FieldCustomerName  = "customer.name"
	FieldCustomerEmail = "customer.email"

	FieldWarehouseCode = "warehouse.code"
	FieldWarehouseName = "warehouse.name"
	FieldWarehouseAddr = "warehouse.addr"

	FieldOrderCustomerID  = "order.customer_id"
	FieldOrderProductID   = "order.product_id"
	FieldOrderQty         = "order.qty"
	FieldOrderExternalRef = "order.external_ref"
	FieldOrderID          = "order.id"

	FieldStockEventType   = "stock.event_type"
	FieldStockProductID   = "stock.product_id"
	FieldStockWarehouseID = "stock.warehouse_id"
	FieldStockLocationID  = "stock.location_id"
	FieldStockLotID       = "stock.lot_id"
	FieldStockQty         = "stock.qty"
	FieldStockReason      = "stock.reason"

	FieldProductUpdateID          = "product_update.id"
	FieldProductUpdateSKU         = "product_update.sku"
	FieldProductUpdateName        = "product_update.name"
	FieldProductUpdatePrice       = "product_update.price"
	FieldProductUpdateDescription = "product_update.description"
	FieldProductUpdateAttributes  = "product_update.attributes"

	FieldCustomerUpdateID    = "customer_update.id"
	FieldCustomerUpdateCode  = "customer_update.code"
	FieldCustomerUpdateName  = "customer_update.name"
	FieldCustomerUpdateEmail = "customer_update.email"

	FieldWarehouseUpdateID   = "warehouse_update.id"
	FieldWarehouseUpdateCode = "warehouse_update.code"
	FieldWarehouseUpdateName = "warehouse_update.name"
	FieldWarehouseUpdateAddr = "warehouse_update.addr"

	FieldSearchQuery  = "search.q"
	FieldSearchLimit  = "search.limit"
	FieldSearchOffset = "search.offset"
)

// chainTargets are the fields written by chaining; they survive restarts when
// the form is backed by a key-value store.
var chainTargets = map[string]bool{
	FieldOrderProductID:   true,
	FieldOrderCustomerID:  true,
	FieldOrderID:          true,
	FieldStockWarehouseID: true,
}

// Values is a snapshot of form fields.
type Values map[string]string

// Get returns the trimmed value of a field.
func (v Values) Get(name string) string {
	return strings.TrimSpace(v[name])
}

// Fields is the mutable form state shared by all actions.
// Safe for concurrent use.
type Fields struct {
	kv     ports.KeyValueStore
	logger *slog.Logger

	mu     sync.RWMutex
	values map[string]string

	// writeMu keeps the persisted value in step with the in-memory one.
	writeMu sync.Mutex
}

// NewFields creates form state. kv may be nil for purely in-memory forms.
func NewFields(kv ports.KeyValueStore, logger *slog.Logger) *Fields {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Fields{
		kv:     kv,
		logger: logger,
		values: make(map[string]string),
	}
}

// Get returns the raw value of a field.
func (f *Fields) Get(name string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.values[name]
}

// Set stores a field value. Chain targets are also persisted; a blank value
// removes the persisted entry. Persistence failures are logged and ignored.
func (f *Fields) Set(ctx context.Context, name, value string) {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	f.mu.Lock()
	f.values[name] = value
	f.mu.Unlock()

	if f.kv == nil || !chainTargets[name] {
		return
	}
	key := domain.KeyFieldPrefix + name
	var err error
	if strings.TrimSpace(value) == "" {
		err = f.kv.Delete(ctx, key)
	} else {
		err = f.kv.Set(ctx, key, value)
	}
	if err != nil {
		f.logger.Warn("form field cache write failed", "field", name, "error", err)
	}
}

// Snapshot copies the current values.
func (f *Fields) Snapshot() Values {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(Values, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Restore loads persisted chain targets into the form.
func (f *Fields) Restore(ctx context.Context) {
	if f.kv == nil {
		return
	}
	names := make([]string, 0, len(chainTargets))
	for name := range chainTargets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		val, err := f.kv.Get(ctx, domain.KeyFieldPrefix+name)
		if err != nil {
			continue
		}
		f.mu.Lock()
		f.values[name] = val
		f.mu.Unlock()
	}
}
